// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynaput247/jmzkChain/fault"
	"github.com/dynaput247/jmzkChain/tokendb"
)

func TestReadCachePutGetEvict(t *testing.T) {
	c, err := tokendb.NewReadCache(8)
	require.NoError(t, err)

	key := []byte("k")
	c.Put(tokendb.CFTokens, key, "domain", []byte("X"))

	v, ok, err := c.Get(tokendb.CFTokens, key, "domain")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("X"), v)

	c.Evict(tokendb.CFTokens, key)
	_, ok, err = c.Get(tokendb.CFTokens, key, "domain")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadCacheTypeFingerprintMismatchIsFatal(t *testing.T) {
	c, err := tokendb.NewReadCache(8)
	require.NoError(t, err)

	key := []byte("k")
	c.Put(tokendb.CFTokens, key, "domain", []byte("X"))

	_, _, err = c.Get(tokendb.CFTokens, key, "token")
	assert.Equal(t, fault.ErrCacheTypeMismatch, err)
}

func TestReadCacheColumnFamiliesDoNotCollide(t *testing.T) {
	c, err := tokendb.NewReadCache(8)
	require.NoError(t, err)

	key := []byte("shared")
	c.Put(tokendb.CFTokens, key, "domain", []byte("tokens"))
	c.Put(tokendb.CFAssets, key, "asset", []byte("assets"))

	v, ok, err := c.Get(tokendb.CFTokens, key, "domain")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("tokens"), v)

	v, ok, err = c.Get(tokendb.CFAssets, key, "asset")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("assets"), v)
}

func TestReadCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := tokendb.NewReadCache(2)
	require.NoError(t, err)

	c.Put(tokendb.CFTokens, []byte("a"), "domain", []byte("A"))
	c.Put(tokendb.CFTokens, []byte("b"), "domain", []byte("B"))
	// touch "a" so "b" becomes the least recently used entry
	_, _, err = c.Get(tokendb.CFTokens, []byte("a"), "domain")
	require.NoError(t, err)
	c.Put(tokendb.CFTokens, []byte("c"), "domain", []byte("C"))

	_, ok, err := c.Get(tokendb.CFTokens, []byte("b"), "domain")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(tokendb.CFTokens, []byte("a"), "domain")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadCacheOnMutationEventAdaptsToRollbackHook(t *testing.T) {
	c, err := tokendb.NewReadCache(8)
	require.NoError(t, err)

	key := []byte("k")
	c.Put(tokendb.CFAssets, key, "asset", []byte("X"))

	var hook tokendb.RollbackHook = c.OnMutationEvent
	hook(tokendb.TokenTypeAsset, key)

	_, ok, err := c.Get(tokendb.CFAssets, key, "asset")
	require.NoError(t, err)
	assert.False(t, ok)
}
