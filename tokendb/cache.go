// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dynaput247/jmzkChain/fault"
)

// cacheEntry - a deserialized record plus the fingerprint of the type it
// was stored as (spec.md §4.5: "entries store the deserialized value
// along with a type fingerprint")
type cacheEntry struct {
	value   interface{}
	typeTag string
}

// ReadCache - a bounded LRU over deserialized records, keyed by
// (token_type, prefix?, key) (spec.md §4.5). The column-family-prefixed
// on-disk key already encodes token_type and prefix unambiguously, so it
// doubles as the cache key.
type ReadCache struct {
	lru *lru.Cache[string, cacheEntry]
}

// NewReadCache returns a cache bounded to capacity entries
func NewReadCache(capacity int) (*ReadCache, error) {
	if capacity <= 0 {
		capacity = 1
	}
	l, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		return nil, fault.ErrTokenDBIOFailure
	}
	return &ReadCache{lru: l}, nil
}

func cacheKey(cf ColumnFamily, key []byte) string {
	return string(append([]byte{byte(cf)}, key...))
}

// Put inserts or refreshes a deserialized record under its type tag
func (c *ReadCache) Put(cf ColumnFamily, key []byte, typeTag string, value interface{}) {
	c.lru.Add(cacheKey(cf, key), cacheEntry{value: value, typeTag: typeTag})
}

// Get returns the cached value for key if present. A present entry whose
// typeTag does not match the caller's expectation is a fatal error: the
// caller and the cache disagree about the record's schema (spec.md §4.5:
// "a handle returning the wrong stored type is a fatal error").
func (c *ReadCache) Get(cf ColumnFamily, key []byte, typeTag string) (interface{}, bool, error) {
	e, ok := c.lru.Get(cacheKey(cf, key))
	if !ok {
		return nil, false, nil
	}
	if e.typeTag != typeTag {
		return nil, false, fault.ErrCacheTypeMismatch
	}
	return e.value, true, nil
}

// Evict drops a single key from the cache
func (c *ReadCache) Evict(cf ColumnFamily, key []byte) {
	c.lru.Remove(cacheKey(cf, key))
}

// OnMutationEvent adapts ReadCache to the RollbackHook signature so it can
// be wired directly into Stack.RollbackTop (spec.md §4.5: "after rollback,
// every key touched... is evicted"). Explicit deletes evict through Evict
// directly.
func (c *ReadCache) OnMutationEvent(t TokenType, key []byte) {
	c.Evict(t.columnFamily(), key)
}

// Len reports the number of entries currently cached
func (c *ReadCache) Len() int {
	return c.lru.Len()
}

// Purge drops every cached entry
func (c *ReadCache) Purge() {
	c.lru.Purge()
}
