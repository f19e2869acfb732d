// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import (
	"github.com/gammazero/deque"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/dynaput247/jmzkChain/fault"
)

// runtimeGroup - a live engine snapshot plus the runtime actions recorded
// against it
type runtimeGroup struct {
	snapshot *leveldb.Snapshot
	actions  []RuntimeAction
}

// persistentGroup - mutation records carrying their own pre-images,
// needing no snapshot
type persistentGroup struct {
	actions []PersistentAction
}

// savepoint - a single entry on the stack (spec.md §4.4): a sequence
// number and a tagged union of runtime xor persistent group
type savepoint struct {
	seq        uint64
	runtime    *runtimeGroup
	persistent *persistentGroup
}

// RollbackHook is called once per distinct on-disk key restored by a
// rollback, after the restoring write batch has committed. Wired to the
// read cache's eviction methods (spec.md §4.5, §6 "rollback_token_value").
type RollbackHook func(t TokenType, key []byte)

// Stack - the ordered savepoint deque (spec.md §4.4 "ordered deque of
// savepoints"), backed directly by gammazero/deque the way the spec
// itself names the structure.
type Stack struct {
	engine *Engine
	dq     deque.Deque[*savepoint]
}

// NewStack returns an empty savepoint stack bound to engine
func NewStack(engine *Engine) *Stack {
	return &Stack{engine: engine}
}

// Len reports the number of savepoints on the stack
func (s *Stack) Len() int {
	return s.dq.Len()
}

// LatestSeq returns the sequence number of the top savepoint, or 0 if the
// stack is empty
func (s *Stack) LatestSeq() uint64 {
	if s.dq.Len() == 0 {
		return 0
	}
	return s.dq.Back().seq
}

// NextSessionSeq returns the sequence number the next session should use
func (s *Stack) NextSessionSeq() uint64 {
	return s.LatestSeq() + 1
}

// AddSavepoint pushes a new, empty runtime savepoint over a fresh engine
// snapshot; seq must exceed every existing sequence (spec.md §3 invariant 3)
func (s *Stack) AddSavepoint(seq uint64) error {
	if s.dq.Len() > 0 && seq <= s.dq.Back().seq {
		return fault.ErrSeqNotValid
	}
	snap, err := s.engine.NewSnapshot()
	if err != nil {
		return err
	}
	s.dq.PushBack(&savepoint{seq: seq, runtime: &runtimeGroup{snapshot: snap}})
	return nil
}

// Record appends a mutation descriptor to the top savepoint. It is a
// no-op if the stack is empty or the top savepoint is in persistent form
// (spec.md §4.4: "no-op if the stack is empty").
func (s *Stack) Record(a RuntimeAction) {
	if s.dq.Len() == 0 {
		return
	}
	top := s.dq.Back()
	if top.runtime == nil {
		return
	}
	top.runtime.actions = append(top.runtime.actions, a)
}

// PopBack removes the top savepoint without applying it to the engine -
// "commit this session at the top" (spec.md §4.4)
func (s *Stack) PopBack() error {
	if s.dq.Len() == 0 {
		return fault.ErrNoSavepoint
	}
	top := s.dq.PopBack()
	releaseGroup(top)
	return nil
}

// PopUntil discards every savepoint with sequence < seq, releasing their
// snapshots, without applying them to the engine (spec.md §4.4: "promoted
// to permanent")
func (s *Stack) PopUntil(seq uint64) {
	for s.dq.Len() > 0 && s.dq.Front().seq < seq {
		dropped := s.dq.PopFront()
		releaseGroup(dropped)
	}
}

// Squash merges the top savepoint's actions into the one below it,
// requiring both to be in runtime form (spec.md §4.4)
func (s *Stack) Squash() error {
	if s.dq.Len() < 2 {
		return fault.ErrSquashPrecondition
	}
	top := s.dq.Back()
	below := s.dq.At(s.dq.Len() - 2)
	if top.runtime == nil || below.runtime == nil {
		return fault.ErrSquashPrecondition
	}
	below.runtime.actions = append(below.runtime.actions, top.runtime.actions...)
	s.dq.PopBack()
	if top.runtime.snapshot != nil {
		top.runtime.snapshot.Release()
	}
	return nil
}

// RollbackTop reverses every mutation recorded in the top savepoint,
// writes the restoring batch synchronously, releases the savepoint's
// snapshot (if any) and pops it (spec.md §4.4 rollback_top). hook, if
// non-nil, fires once per distinct key restored.
func (s *Stack) RollbackTop(hook RollbackHook) error {
	if s.dq.Len() == 0 {
		return fault.ErrNoSavepoint
	}
	top := s.dq.Back()

	batch := NewBatch()
	seen := make(map[string]bool)

	// restored keys are reported to hook only after the batch has committed
	type restoredKey struct {
		t   TokenType
		key []byte
	}
	var restored []restoredKey
	collect := func(t TokenType, key []byte) {
		restored = append(restored, restoredKey{t: t, key: key})
	}

	if top.runtime != nil {
		for _, action := range top.runtime.actions {
			if err := rollbackRuntimeAction(s.engine, top.runtime.snapshot, action, batch, seen, collect); err != nil {
				return err
			}
		}
		if err := s.engine.WriteBatch(batch, true); err != nil {
			return err
		}
		top.runtime.snapshot.Release()
	} else {
		for _, action := range top.persistent.actions {
			rollbackPersistentAction(action, batch, seen, collect)
		}
		if err := s.engine.WriteBatch(batch, true); err != nil {
			return err
		}
	}

	if hook != nil {
		for _, r := range restored {
			hook(r.t, r.key)
		}
	}

	s.dq.PopBack()
	return nil
}

func rollbackRuntimeAction(engine *Engine, snap *leveldb.Snapshot, action RuntimeAction, batch *Batch, seen map[string]bool, hook RollbackHook) error {
	keys, cf, err := action.diskKeys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		seenKey := string(append([]byte{byte(cf)}, key...))
		if seen[seenKey] {
			continue
		}
		seen[seenKey] = true

		switch action.Op {
		case OpAdd:
			batch.Delete(cf, key)
		case OpUpdate, OpDelete:
			old, ok, err := GetFromSnapshot(snap, cf, key)
			if err != nil {
				return err
			}
			if ok {
				batch.Put(cf, key, old)
			} else {
				batch.Delete(cf, key)
			}
		case OpPut:
			old, ok, err := GetFromSnapshot(snap, cf, key)
			if err != nil {
				return err
			}
			if ok {
				batch.Put(cf, key, old)
			} else {
				batch.Delete(cf, key)
			}
		}
		if hook != nil {
			hook(action.TokenType, key)
		}
	}
	return nil
}

func rollbackPersistentAction(action PersistentAction, batch *Batch, seen map[string]bool, hook RollbackHook) {
	cf := action.columnFamily()
	seenKey := string(append([]byte{byte(cf)}, action.Key...))
	if seen[seenKey] {
		return
	}
	seen[seenKey] = true

	switch action.Op {
	case OpAdd:
		batch.Delete(cf, action.Key)
	default:
		if len(action.Value) == 0 {
			batch.Delete(cf, action.Key)
		} else {
			batch.Put(cf, action.Key, action.Value)
		}
	}
	if hook != nil {
		hook(action.Type, action.Key)
	}
}

func releaseGroup(sp *savepoint) {
	if sp.runtime != nil && sp.runtime.snapshot != nil {
		sp.runtime.snapshot.Release()
	}
}
