// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package tokendb - the durable, ordered key-value state store
//
// tokendb keeps two logical record families in one goleveldb database:
// token records, keyed by a 16 byte prefix and a 16 byte key, and asset
// records, keyed by an 8 byte symbol and a 33 byte address. goleveldb has
// no native notion of RocksDB column families, so both families share one
// *leveldb.DB and are told apart by a one byte discriminator prepended to
// every physical key - 'T' for tokens, 'A' for assets. This keeps every
// write, including the batches rollback issues across both families,
// inside a single atomic leveldb.Batch.
//
// On top of the engine sits a stack of savepoints (see savepoint.go): each
// one records the mutations made while it was on top, either against a
// live engine snapshot (runtime form, used while a block is being
// applied) or as captured pre-images (persistent form, survives a
// restart). Rolling a savepoint back replays its recorded actions in
// reverse effect - add becomes delete, update/put/delete restore the
// prior value - deduplicated so only the earliest action on a given key
// takes effect.
//
// A read/write session (session.go) is the intended entry point for
// callers: it pushes a savepoint on open and either leaves it on the
// stack (commit) or rolls it back (on Close without Commit).
package tokendb
