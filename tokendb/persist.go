// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/dynaput247/jmzkChain/fault"
	"github.com/dynaput247/jmzkChain/util"
)

// headerSize - width of the fixed header record: a single 32-bit
// dirty_flag field (spec.md §6)
const headerSize = 4

// PersistedSavepoint - one savepoint as written to / read from the
// persistence file
type PersistedSavepoint struct {
	Seq     uint64
	Actions []PersistentAction
}

// Persist writes the whole stack to path atomically with a dirty-flag
// header (spec.md §4.4 persistence steps):
//  1. write header with dirty=1
//  2. materialize every runtime savepoint's actions into persistent
//     actions by reading pre-images from its own snapshot; copy persistent
//     savepoints through unchanged
//  3. serialize the resulting list
//  4. rewrite the header with dirty=0, flush
func Persist(stack *Stack, engine *Engine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.ErrTokenDBIOFailure
	}
	defer f.Close()

	dirty := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(dirty, 1)
	if _, err := f.Write(dirty); err != nil {
		return fault.ErrTokenDBIOFailure
	}

	saved, err := materialize(stack, engine)
	if err != nil {
		return err
	}
	if _, err := f.Write(encodeSavepoints(saved)); err != nil {
		return fault.ErrTokenDBIOFailure
	}

	clean := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(clean, 0)
	if _, err := f.WriteAt(clean, 0); err != nil {
		return fault.ErrTokenDBIOFailure
	}
	return f.Sync()
}

// LoadPersisted reads back a persistence file written by Persist. A
// missing file is not an error (nothing to load). A dirty_flag of 1 means
// the prior persist never completed cleanly; the caller must decide
// whether to clear and continue (spec.md §4.4, §7).
func LoadPersisted(path string) ([]PersistedSavepoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fault.ErrTokenDBIOFailure
	}
	if len(data) < headerSize {
		return nil, fault.ErrTokenDBIOFailure
	}
	if dirty := binary.LittleEndian.Uint32(data[:headerSize]); dirty != 0 {
		return nil, fault.ErrDirtyFlag
	}
	return decodeSavepoints(bytes.NewReader(data[headerSize:]))
}

// LoadPersistent pushes previously persisted savepoints onto the stack,
// each in persistent form, oldest first. A stack reconstructed this way
// stays entirely in persistent form until a new runtime savepoint is
// pushed on top (spec.md §4.4).
func (s *Stack) LoadPersistent(saved []PersistedSavepoint) {
	for _, sp := range saved {
		s.dq.PushBack(&savepoint{seq: sp.Seq, persistent: &persistentGroup{actions: sp.Actions}})
	}
}

func materialize(stack *Stack, engine *Engine) ([]PersistedSavepoint, error) {
	out := make([]PersistedSavepoint, 0, stack.dq.Len())
	for i := 0; i < stack.dq.Len(); i++ {
		sp := stack.dq.At(i)
		if sp.runtime != nil {
			actions, err := materializeRuntimeGroup(sp.runtime)
			if err != nil {
				return nil, err
			}
			out = append(out, PersistedSavepoint{Seq: sp.seq, Actions: actions})
		} else {
			out = append(out, PersistedSavepoint{Seq: sp.seq, Actions: sp.persistent.actions})
		}
	}
	return out, nil
}

// materializeRuntimeGroup reads the pre-image for every recorded action
// from the group's own snapshot: empty for add, the snapshot's stored
// value for update/delete, the snapshot's value or empty for put
// (spec.md §4.4 step 2)
func materializeRuntimeGroup(g *runtimeGroup) ([]PersistentAction, error) {
	var out []PersistentAction
	for _, action := range g.actions {
		keys, cf, err := action.diskKeys()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			var value []byte
			if action.Op != OpAdd {
				old, ok, err := GetFromSnapshot(g.snapshot, cf, key)
				if err != nil {
					return nil, err
				}
				if ok {
					value = old
				}
			}
			out = append(out, PersistentAction{Op: action.Op, Type: action.TokenType, Key: key, Value: value})
		}
	}
	return out, nil
}

func writeUvarint(w *bytes.Buffer, v uint64) {
	w.Write(util.ToVarint64(v))
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	buf := make([]byte, 0, util.Varint64MaximumBytes)
	for i := 0; i < util.Varint64MaximumBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fault.ErrTokenDBIOFailure
		}
		buf = append(buf, b)
		if b&0x80 == 0 {
			break
		}
	}
	v, n := util.FromVarint64(buf)
	if n == 0 {
		return 0, fault.ErrTokenDBIOFailure
	}
	return v, nil
}

func writeByteString(w *bytes.Buffer, b []byte) {
	writeUvarint(w, uint64(len(b)))
	w.Write(b)
}

func readByteString(r *bytes.Reader) ([]byte, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fault.ErrTokenDBIOFailure
	}
	return buf, nil
}

func encodeSavepoints(saved []PersistedSavepoint) []byte {
	var w bytes.Buffer
	writeUvarint(&w, uint64(len(saved)))
	for _, sp := range saved {
		var seqBuf [8]byte
		binary.LittleEndian.PutUint64(seqBuf[:], sp.Seq)
		w.Write(seqBuf[:])

		writeUvarint(&w, uint64(len(sp.Actions)))
		for _, a := range sp.Actions {
			var opType [4]byte
			binary.LittleEndian.PutUint16(opType[0:2], uint16(a.Op))
			binary.LittleEndian.PutUint16(opType[2:4], uint16(a.Type))
			w.Write(opType[:])
			writeByteString(&w, a.Key)
			writeByteString(&w, a.Value)
		}
	}
	return w.Bytes()
}

func decodeSavepoints(r *bytes.Reader) ([]PersistedSavepoint, error) {
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]PersistedSavepoint, 0, count)
	for i := uint64(0); i < count; i++ {
		var seqBuf [8]byte
		if _, err := io.ReadFull(r, seqBuf[:]); err != nil {
			return nil, fault.ErrTokenDBIOFailure
		}
		seq := binary.LittleEndian.Uint64(seqBuf[:])

		actionCount, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		actions := make([]PersistentAction, 0, actionCount)
		for j := uint64(0); j < actionCount; j++ {
			var opType [4]byte
			if _, err := io.ReadFull(r, opType[:]); err != nil {
				return nil, fault.ErrTokenDBIOFailure
			}
			op := Op(binary.LittleEndian.Uint16(opType[0:2]))
			typ := TokenType(binary.LittleEndian.Uint16(opType[2:4]))
			key, err := readByteString(r)
			if err != nil {
				return nil, err
			}
			value, err := readByteString(r)
			if err != nil {
				return nil, err
			}
			actions = append(actions, PersistentAction{Op: op, Type: typ, Key: key, Value: value})
		}
		out = append(out, PersistedSavepoint{Seq: seq, Actions: actions})
	}
	return out, nil
}
