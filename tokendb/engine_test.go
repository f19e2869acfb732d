// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynaput247/jmzkChain/tokendb"
)

func openMemoryEngine(t *testing.T) *tokendb.Engine {
	t.Helper()
	e, err := tokendb.OpenEngine(tokendb.Config{Profile: tokendb.ProfileMemory})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEnginePutGetDelete(t *testing.T) {
	e := openMemoryEngine(t)

	err := e.Put(tokendb.CFTokens, []byte("k1"), []byte("v1"), false)
	require.NoError(t, err)

	v, ok, err := e.Get(tokendb.CFTokens, []byte("k1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	err = e.Delete(tokendb.CFTokens, []byte("k1"), false)
	require.NoError(t, err)

	_, ok, err = e.Get(tokendb.CFTokens, []byte("k1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngineColumnFamiliesAreIndependent(t *testing.T) {
	e := openMemoryEngine(t)

	require.NoError(t, e.Put(tokendb.CFTokens, []byte("shared"), []byte("tokens"), false))
	require.NoError(t, e.Put(tokendb.CFAssets, []byte("shared"), []byte("assets"), false))

	v, ok, err := e.Get(tokendb.CFTokens, []byte("shared"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("tokens"), v)

	v, ok, err = e.Get(tokendb.CFAssets, []byte("shared"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("assets"), v)
}

func TestEngineSnapshotIsolation(t *testing.T) {
	e := openMemoryEngine(t)

	require.NoError(t, e.Put(tokendb.CFTokens, []byte("k"), []byte("before"), false))
	snap, err := e.NewSnapshot()
	require.NoError(t, err)
	defer snap.Release()

	require.NoError(t, e.Put(tokendb.CFTokens, []byte("k"), []byte("after"), false))

	live, ok, err := e.Get(tokendb.CFTokens, []byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("after"), live)

	old, ok, err := tokendb.GetFromSnapshot(snap, tokendb.CFTokens, []byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("before"), old)
}

func TestEngineIterPrefix(t *testing.T) {
	e := openMemoryEngine(t)

	require.NoError(t, e.Put(tokendb.CFTokens, []byte("evtaaa"), []byte("1"), false))
	require.NoError(t, e.Put(tokendb.CFTokens, []byte("evtbbb"), []byte("2"), false))
	require.NoError(t, e.Put(tokendb.CFTokens, []byte("zzzzzz"), []byte("3"), false))

	iter := e.IterPrefix(tokendb.CFTokens, []byte("evt"))
	defer iter.Release()

	count := 0
	for iter.Next() {
		count++
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, 2, count)
}

func TestOpenEngineDiskProfile(t *testing.T) {
	e, err := tokendb.OpenEngine(tokendb.Config{DBPath: t.TempDir(), Profile: tokendb.ProfileDisk, CacheSizeMB: 4})
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Put(tokendb.CFTokens, []byte("k"), []byte("v"), true))
	v, ok, err := e.Get(tokendb.CFTokens, []byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestOpenEngineRejectsUnknownProfile(t *testing.T) {
	_, err := tokendb.OpenEngine(tokendb.Config{DBPath: t.TempDir(), Profile: "bogus"})
	assert.Error(t, err)
}
