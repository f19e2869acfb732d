// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import (
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
	"github.com/dynaput247/jmzkChain/fault"
)

// ColumnFamily - one of the two logical record families, emulated as a
// one-byte discriminator prefixed onto every physical key of a single
// *leveldb.DB (see doc.go). This is the same technique the teacher's
// PoolHandle.prefixKey uses to share one database handle between several
// logically distinct pools.
type ColumnFamily byte

const (
	CFTokens ColumnFamily = 'T'
	CFAssets ColumnFamily = 'A'
)

// Profile - storage tuning profile (spec.md §4.3, §6)
type Profile string

const (
	ProfileDisk   Profile = "disk"
	ProfileMemory Profile = "memory"
)

// Config - engine configuration (spec.md §6). CacheSizeMB tunes the
// engine's block cache; ReadCacheEntries bounds the separate, higher level
// read cache (cache.go) - goleveldb's block cache is byte-sized, but
// hashicorp/golang-lru is entry-counted, so the read cache's "configurable
// byte capacity" (spec.md §4.5) is approximated by an entry count rather
// than a literal byte budget.
type Config struct {
	DBPath           string
	CacheSizeMB      int
	ReadCacheEntries int
	Profile          Profile
	PersistFilename  string
}

const stateFile = "state.leveldb"
const defaultPersistFilename = "savepoints.dat"

// Engine - a thin wrapper over a single goleveldb database standing in for
// the two column families named in spec.md §4.3
type Engine struct {
	db  *leveldb.DB
	log *logger.L
}

// OpenEngine opens (creating if absent) the state database under
// cfg.DBPath according to cfg.Profile
func OpenEngine(cfg Config) (*Engine, error) {
	log := logger.New("tokendb")

	options, err := profileOptions(cfg)
	if err != nil {
		return nil, err
	}

	var db *leveldb.DB
	switch cfg.Profile {
	case ProfileMemory:
		db, err = leveldb.Open(storage.NewMemStorage(), options)
	case ProfileDisk:
		db, err = leveldb.OpenFile(filepath.Join(cfg.DBPath, stateFile), options)
	default:
		return nil, fault.ErrInvalidProfile
	}
	if err != nil {
		log.Errorf("open engine: %s", err)
		return nil, fault.ErrTokenDBIOFailure
	}

	return &Engine{db: db, log: log}, nil
}

// profileOptions maps a Profile onto goleveldb tuning knobs. goleveldb has
// no plain-table format, so the "memory" profile is approximated with
// small defaults over an in-memory storage.Storage rather than a literal
// plain-table (documented in DESIGN.md).
func profileOptions(cfg Config) (*opt.Options, error) {
	switch cfg.Profile {
	case ProfileDisk:
		cache := cfg.CacheSizeMB
		if cache <= 0 {
			cache = 8
		}
		return &opt.Options{
			BlockCacheCapacity: cache * opt.MiB,
			Compression:        opt.SnappyCompression,
			Filter:             filter.NewBloomFilter(10),
		}, nil
	case ProfileMemory:
		return &opt.Options{
			Compression: opt.NoCompression,
		}, nil
	default:
		return nil, fault.ErrInvalidProfile
	}
}

// prefixKey prepends the column family discriminator onto a logical key,
// mirroring storage/handle.go's PoolHandle.prefixKey
func prefixKey(cf ColumnFamily, key []byte) []byte {
	out := make([]byte, 1, len(key)+1)
	out[0] = byte(cf)
	return append(out, key...)
}

// Put writes key/value into the given family. sync forces an fsync of the
// write-ahead log; spec.md §4.3/§5 reserve this for the rollback path.
// A leveldb error here means the underlying store is broken, not that the
// write was merely rejected, so it is unrecoverable - the same stance
// storage/handle.go's PoolHandle.Put takes with logger.PanicIfError.
func (e *Engine) Put(cf ColumnFamily, key, value []byte, sync bool) error {
	err := e.db.Put(prefixKey(cf, key), value, &opt.WriteOptions{Sync: sync})
	fault.PanicIfError("tokendb: put", err)
	return nil
}

// Delete removes key from the given family
func (e *Engine) Delete(cf ColumnFamily, key []byte, sync bool) error {
	err := e.db.Delete(prefixKey(cf, key), &opt.WriteOptions{Sync: sync})
	fault.PanicIfError("tokendb: delete", err)
	return nil
}

// Get reads key from the given family; ok is false if the key is absent
func (e *Engine) Get(cf ColumnFamily, key []byte) (value []byte, ok bool, err error) {
	value, err = e.db.Get(prefixKey(cf, key), nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	fault.PanicIfError("tokendb: get", err)
	return value, true, nil
}

// Has reports whether key is present in the given family
func (e *Engine) Has(cf ColumnFamily, key []byte) (bool, error) {
	ok, err := e.db.Has(prefixKey(cf, key), nil)
	fault.PanicIfError("tokendb: has", err)
	return ok, nil
}

// NewSnapshot takes a consistent point-in-time view of the whole database,
// spanning both column families (spec.md §3 invariant 4: a runtime
// savepoint owns exactly one snapshot)
func (e *Engine) NewSnapshot() (*leveldb.Snapshot, error) {
	snap, err := e.db.GetSnapshot()
	fault.PanicIfError("tokendb: snapshot", err)
	return snap, nil
}

// GetFromSnapshot reads key from the given family as it was when snap was
// taken
func GetFromSnapshot(snap *leveldb.Snapshot, cf ColumnFamily, key []byte) (value []byte, ok bool, err error) {
	value, err = snap.Get(prefixKey(cf, key), nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	fault.PanicIfError("tokendb: snapshot get", err)
	return value, true, nil
}

// Batch collects puts and deletes across both column families into one
// leveldb.Batch so they commit atomically - required by the rollback path
// (spec.md §4.4: "writes go through a single write batch")
type Batch struct {
	raw *leveldb.Batch
}

// NewBatch returns an empty batch
func NewBatch() *Batch {
	return &Batch{raw: new(leveldb.Batch)}
}

// Put stages a put against the given family
func (b *Batch) Put(cf ColumnFamily, key, value []byte) {
	b.raw.Put(prefixKey(cf, key), value)
}

// Delete stages a delete against the given family
func (b *Batch) Delete(cf ColumnFamily, key []byte) {
	b.raw.Delete(prefixKey(cf, key))
}

// Len reports the number of staged operations
func (b *Batch) Len() int {
	return b.raw.Len()
}

// WriteBatch commits a batch atomically
func (e *Engine) WriteBatch(b *Batch, sync bool) error {
	if b.Len() == 0 {
		return nil
	}
	err := e.db.Write(b.raw, &opt.WriteOptions{Sync: sync})
	fault.PanicIfError("tokendb: write batch", err)
	return nil
}

// IterPrefix returns an iterator over every key in cf starting with
// prefix, read from the live database (spec.md §4.1 prefix-seek)
func (e *Engine) IterPrefix(cf ColumnFamily, prefix []byte) iterator.Iterator {
	r := ldb_util.BytesPrefix(prefixKey(cf, prefix))
	return e.db.NewIterator(r, nil)
}

// IterPrefixSnapshot is IterPrefix pinned to a held snapshot
func IterPrefixSnapshot(snap *leveldb.Snapshot, cf ColumnFamily, prefix []byte) iterator.Iterator {
	r := ldb_util.BytesPrefix(prefixKey(cf, prefix))
	return snap.NewIterator(r, nil)
}

// Flush forces the write-ahead log to disk. goleveldb has no separate
// manual flush call; an empty synchronous write achieves the same effect
// by waiting for the log writer to fsync.
func (e *Engine) Flush() error {
	err := e.db.Write(new(leveldb.Batch), &opt.WriteOptions{Sync: true})
	fault.PanicIfError("tokendb: flush", err)
	return nil
}

// Close releases the database handle. A close failure is logged rather
// than treated as fatal: it happens at shutdown, after the engine is no
// longer serving reads or writes.
func (e *Engine) Close() error {
	err := e.db.Close()
	if err != nil {
		e.log.Errorf("close: %s", err)
	}
	return err
}
