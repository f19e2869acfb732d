// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynaput247/jmzkChain/fault"
	"github.com/dynaput247/jmzkChain/tokendb"
)

func TestPersistRoundTripAddThenRollback(t *testing.T) {
	e := openMemoryEngine(t)
	s := tokendb.NewStack(e)

	prefix := tokendb.NewName([]byte("evt"))
	key := tokendb.NewName([]byte("a"))
	tk := tokendb.BuildTokenKey(prefix, key)

	require.NoError(t, s.AddSavepoint(1))
	require.NoError(t, e.Put(tokendb.CFTokens, tk.Bytes(), []byte("X"), false))
	s.Record(newDomainAction(tokendb.OpAdd, prefix, key))

	path := filepath.Join(t.TempDir(), "savepoints.dat")
	require.NoError(t, tokendb.Persist(s, e, path))

	saved, err := tokendb.LoadPersisted(path)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, uint64(1), saved[0].Seq)
	require.Len(t, saved[0].Actions, 1)
	assert.Equal(t, tokendb.OpAdd, saved[0].Actions[0].Op)
	assert.Empty(t, saved[0].Actions[0].Value)

	reloaded := tokendb.NewStack(e)
	reloaded.LoadPersistent(saved)
	require.NoError(t, reloaded.RollbackTop(nil))

	_, ok, err := e.Get(tokendb.CFTokens, tk.Bytes())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistCapturesUpdatePreImage(t *testing.T) {
	e := openMemoryEngine(t)
	s := tokendb.NewStack(e)

	prefix := tokendb.NewName([]byte("evt"))
	key := tokendb.NewName([]byte("a"))
	tk := tokendb.BuildTokenKey(prefix, key)

	require.NoError(t, e.Put(tokendb.CFTokens, tk.Bytes(), []byte("X"), false))

	require.NoError(t, s.AddSavepoint(1))
	require.NoError(t, e.Put(tokendb.CFTokens, tk.Bytes(), []byte("X2"), false))
	s.Record(newDomainAction(tokendb.OpUpdate, prefix, key))

	path := filepath.Join(t.TempDir(), "savepoints.dat")
	require.NoError(t, tokendb.Persist(s, e, path))

	saved, err := tokendb.LoadPersisted(path)
	require.NoError(t, err)
	require.Len(t, saved[0].Actions, 1)
	assert.Equal(t, []byte("X"), saved[0].Actions[0].Value)

	reloaded := tokendb.NewStack(e)
	reloaded.LoadPersistent(saved)
	require.NoError(t, reloaded.RollbackTop(nil))

	v, ok, err := e.Get(tokendb.CFTokens, tk.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("X"), v)
}

func TestLoadPersistedMissingFileIsNotError(t *testing.T) {
	saved, err := tokendb.LoadPersisted(filepath.Join(t.TempDir(), "nope.dat"))
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestLoadPersistedDirtyFlagRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savepoints.dat")
	require.NoError(t, os.WriteFile(path, []byte{1, 0, 0, 0}, 0o644))

	_, err := tokendb.LoadPersisted(path)
	assert.Equal(t, fault.ErrDirtyFlag, err)
}
