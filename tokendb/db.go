// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/dynaput247/jmzkChain/account"
	"github.com/dynaput247/jmzkChain/fault"
	"github.com/dynaput247/jmzkChain/symbol"
)

const defaultReadCacheEntries = 4096

// DB - the top-level state store: engine + savepoint stack + read cache +
// persistence, wired together the way spec.md §2's data-flow paragraph
// describes
type DB struct {
	engine      *Engine
	stack       *Stack
	cache       *ReadCache
	persistPath string
	log         *logger.L
}

// Open opens (and if needed creates) the store at cfg.DBPath. If a clean
// persistence file is present, its savepoints are reloaded in persistent
// form (spec.md §4.4 "on startup... load the persistent savepoints into
// the stack"). A dirty persistence file is reported as fault.ErrDirtyFlag
// and the store is not opened; the caller decides whether to clear it.
func Open(cfg Config) (*DB, error) {
	engine, err := OpenEngine(cfg)
	if err != nil {
		return nil, err
	}

	stack := NewStack(engine)

	filename := cfg.PersistFilename
	if filename == "" {
		filename = defaultPersistFilename
	}
	persistPath := filepath.Join(cfg.DBPath, filename)

	if cfg.Profile == ProfileDisk {
		saved, err := LoadPersisted(persistPath)
		if err != nil {
			engine.Close()
			return nil, err
		}
		stack.LoadPersistent(saved)
	}

	capacity := cfg.ReadCacheEntries
	if capacity <= 0 {
		capacity = defaultReadCacheEntries
	}
	cache, err := NewReadCache(capacity)
	if err != nil {
		engine.Close()
		return nil, err
	}

	return &DB{
		engine:      engine,
		stack:       stack,
		cache:       cache,
		persistPath: persistPath,
		log:         logger.New("tokendb"),
	}, nil
}

// NewSession opens a read/write session bound to this store's savepoint
// stack (spec.md §4.6)
func (db *DB) NewSession() (*Session, error) {
	return db.stack.NewSession()
}

// rollbackHook is shared by every path that can trigger a rollback, so
// the read cache is always kept consistent with the engine (spec.md §3
// invariant 5)
func (db *DB) rollbackHook() RollbackHook {
	return db.cache.OnMutationEvent
}

// CloseSession ends sess, rolling back its savepoint if it was never
// committed, and evicting every cache entry touched by that rollback
func (db *DB) CloseSession(sess *Session) error {
	return sess.Close(db.rollbackHook())
}

// PopUntil discards every savepoint with sequence < seq without applying
// it to the engine, so their changes become permanent; savepoints with
// sequence >= seq stay on the stack
func (db *DB) PopUntil(seq uint64) {
	db.stack.PopUntil(seq)
}

// Squash merges the top two runtime savepoints into one
func (db *DB) Squash() error {
	return db.stack.Squash()
}

// PutToken writes a token record under its type's compile-time default
// prefix (spec.md §3: "for every non-token type, prefix is a fixed
// canonical name... so callers may omit it")
func (db *DB) PutToken(sess *Session, tokenType TokenType, key Name, value []byte) error {
	prefix, ok := DefaultPrefix(tokenType)
	if !ok {
		return fault.ErrUnknownType
	}
	return db.putToken(sess, tokenType, prefix, key, value, DataKindTokenKey)
}

// PutTokenFull writes a token record under an explicit prefix, required
// for TokenTypeToken whose prefix is a caller-supplied domain name
func (db *DB) PutTokenFull(sess *Session, tokenType TokenType, prefix, key Name, value []byte) error {
	return db.putToken(sess, tokenType, prefix, key, value, DataKindTokenFullKey)
}

func (db *DB) putToken(sess *Session, tokenType TokenType, prefix, key Name, value []byte, dataKind DataKind) error {
	tk := BuildTokenKey(prefix, key)
	_, existed, err := db.engine.Get(CFTokens, tk.Bytes())
	if err != nil {
		return err
	}
	if err := db.engine.Put(CFTokens, tk.Bytes(), value, false); err != nil {
		return err
	}

	op := OpAdd
	if existed {
		op = OpUpdate
	}
	sess.Record(RuntimeAction{
		TokenType: tokenType,
		Op:        op,
		DataKind:  dataKind,
		Payload:   Payload{Prefix: prefix, Key: key},
	})
	db.cache.Evict(CFTokens, tk.Bytes())
	return nil
}

// GetToken reads a token record under its type's default prefix
func (db *DB) GetToken(tokenType TokenType, key Name) ([]byte, bool, error) {
	prefix, ok := DefaultPrefix(tokenType)
	if !ok {
		return nil, false, fault.ErrUnknownType
	}
	return db.GetTokenFull(tokenType, prefix, key)
}

// GetTokenFull reads a token record under an explicit prefix
func (db *DB) GetTokenFull(tokenType TokenType, prefix, key Name) ([]byte, bool, error) {
	tk := BuildTokenKey(prefix, key)
	typeTag := tokenType.String()
	if cached, ok, err := db.cache.Get(CFTokens, tk.Bytes(), typeTag); err != nil {
		return nil, false, err
	} else if ok {
		return cached.([]byte), true, nil
	}
	value, ok, err := db.engine.Get(CFTokens, tk.Bytes())
	if err != nil || !ok {
		return nil, ok, err
	}
	db.cache.Put(CFTokens, tk.Bytes(), typeTag, value)
	return value, true, nil
}

// DeleteToken removes a token record under its type's default prefix
func (db *DB) DeleteToken(sess *Session, tokenType TokenType, key Name) error {
	prefix, ok := DefaultPrefix(tokenType)
	if !ok {
		return fault.ErrUnknownType
	}
	return db.deleteToken(sess, tokenType, prefix, key, DataKindTokenKey)
}

// DeleteTokenFull removes a token record under an explicit prefix
func (db *DB) DeleteTokenFull(sess *Session, tokenType TokenType, prefix, key Name) error {
	return db.deleteToken(sess, tokenType, prefix, key, DataKindTokenFullKey)
}

func (db *DB) deleteToken(sess *Session, tokenType TokenType, prefix, key Name, dataKind DataKind) error {
	tk := BuildTokenKey(prefix, key)
	if err := db.engine.Delete(CFTokens, tk.Bytes(), false); err != nil {
		return err
	}
	sess.Record(RuntimeAction{
		TokenType: tokenType,
		Op:        OpDelete,
		DataKind:  dataKind,
		Payload:   Payload{Prefix: prefix, Key: key},
	})
	db.cache.Evict(CFTokens, tk.Bytes())
	return nil
}

// PutAsset writes (or replaces) a balance record
func (db *DB) PutAsset(sess *Session, sym symbol.Symbol, addr [account.Size]byte, value []byte) error {
	ak := BuildAssetKey(sym, addr)
	if err := db.engine.Put(CFAssets, ak.Bytes(), value, false); err != nil {
		return err
	}
	sess.Record(RuntimeAction{
		TokenType: TokenTypeAsset,
		Op:        OpPut,
		DataKind:  DataKindAssetKey,
		Payload:   Payload{Symbol: sym, Address: addr},
	})
	db.cache.Evict(CFAssets, ak.Bytes())
	return nil
}

// GetAsset reads a balance record
func (db *DB) GetAsset(sym symbol.Symbol, addr [account.Size]byte) ([]byte, bool, error) {
	ak := BuildAssetKey(sym, addr)
	typeTag := TokenTypeAsset.String()
	if cached, ok, err := db.cache.Get(CFAssets, ak.Bytes(), typeTag); err != nil {
		return nil, false, err
	} else if ok {
		return cached.([]byte), true, nil
	}
	value, ok, err := db.engine.Get(CFAssets, ak.Bytes())
	if err != nil || !ok {
		return nil, ok, err
	}
	db.cache.Put(CFAssets, ak.Bytes(), typeTag, value)
	return value, true, nil
}

// DeleteAsset removes a balance record
func (db *DB) DeleteAsset(sess *Session, sym symbol.Symbol, addr [account.Size]byte) error {
	ak := BuildAssetKey(sym, addr)
	if err := db.engine.Delete(CFAssets, ak.Bytes(), false); err != nil {
		return err
	}
	sess.Record(RuntimeAction{
		TokenType: TokenTypeAsset,
		Op:        OpDelete,
		DataKind:  DataKindAssetKey,
		Payload:   Payload{Symbol: sym, Address: addr},
	})
	db.cache.Evict(CFAssets, ak.Bytes())
	return nil
}

// Persist converts the stack to persistent form and writes it atomically,
// without closing the engine (spec.md §4.4 "on shutdown, or on explicit
// persist_savepoints")
func (db *DB) Persist() error {
	if err := Persist(db.stack, db.engine, db.persistPath); err != nil {
		db.log.Errorf("persist: %s", err)
		return err
	}
	return nil
}

// Close persists the stack (best-effort, per spec.md §7 "persistence
// attempts on shutdown are best-effort with logs") and closes the engine
func (db *DB) Close() error {
	if err := db.Persist(); err != nil {
		db.log.Errorf("persist on close failed, dirty flag remains set: %s", err)
	}
	return db.engine.Close()
}
