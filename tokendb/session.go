// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import "github.com/dynaput247/jmzkChain/fault"

// Session - a scoped acquisition of a savepoint (spec.md §4.6). Go has no
// destructors, so the guarantee the spec describes ("on drop without
// commit, rollback_top is called") is expressed as: the caller must
// `defer session.Close(hook)` immediately after a successful NewSession, and
// call Commit() once its mutations have all succeeded. Close after Commit
// is a no-op; Close without Commit rolls the session's savepoint back.
type Session struct {
	stack     *Stack
	seq       uint64
	committed bool
	closed    bool
}

// NewSession opens a session on stack: pushes a fresh runtime savepoint at
// the next sequence number
func (s *Stack) NewSession() (*Session, error) {
	seq := s.NextSessionSeq()
	if err := s.AddSavepoint(seq); err != nil {
		return nil, err
	}
	return &Session{stack: s, seq: seq}, nil
}

// Seq returns the sequence number this session's savepoint was opened at
func (sess *Session) Seq() uint64 {
	return sess.seq
}

// Record appends a mutation descriptor to this session's savepoint
func (sess *Session) Record(a RuntimeAction) {
	sess.stack.Record(a)
}

// Commit marks the session successful: Close will leave its savepoint on
// the stack rather than rolling it back. The savepoint itself is only
// removed later, by a higher-level pop_until promoting it to permanent.
func (sess *Session) Commit() {
	sess.committed = true
}

// Close ends the session. If Commit was never called, the session's
// savepoint is rolled back, undoing every mutation recorded since it was
// opened. hook fires once per key restored by a rollback; pass nil if
// no cache is wired up. Close is idempotent.
func (sess *Session) Close(hook RollbackHook) error {
	if sess.closed {
		return nil
	}
	sess.closed = true
	if sess.committed {
		return nil
	}
	if sess.stack.LatestSeq() != sess.seq {
		return fault.ErrNoSavepoint
	}
	return sess.stack.RollbackTop(hook)
}
