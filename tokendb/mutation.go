// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import (
	"github.com/dynaput247/jmzkChain/account"
	"github.com/dynaput247/jmzkChain/fault"
	"github.com/dynaput247/jmzkChain/symbol"
)

// Op - the inverse-operator tag a mutation record carries (spec.md §4.4,
// §6: the values cross the persistence-file interface and must not be
// renumbered)
type Op uint16

const (
	OpAdd Op = iota
	OpUpdate
	OpPut
	OpDelete
)

// DataKind - which fields of a Payload are meaningful (spec.md §4.4)
type DataKind uint16

const (
	// DataKindTokenKey - key is under the type's compile-time default
	// prefix (DefaultPrefix); TokenType must not be TokenTypeToken.
	DataKindTokenKey DataKind = iota
	// DataKindTokenFullKey - both prefix and key are explicit; used for
	// TokenTypeToken, whose prefix is a caller-supplied domain name.
	DataKindTokenFullKey
	// DataKindAssetKey - Symbol and Address are meaningful
	DataKindAssetKey
	// DataKindTokenKeys - a batch of keys sharing one explicit prefix
	DataKindTokenKeys
)

// Payload - the key material a runtime action carries. Only the fields
// relevant to the action's DataKind are populated; this is the "two-word
// tagged descriptor" spec.md §9 asks for in place of the original's
// pointer-stealing trick - a small sum type instead of a bare pointer.
type Payload struct {
	Prefix  Name
	Key     Name
	Keys    []Name
	Symbol  symbol.Symbol
	Address [account.Size]byte
}

// RuntimeAction - a compact mutation descriptor recorded against a live
// engine snapshot (spec.md §4.4). The new value is never recorded; on
// rollback the pre-image is read back from the snapshot.
type RuntimeAction struct {
	TokenType TokenType
	Op        Op
	DataKind  DataKind
	Payload   Payload
}

// PersistentAction - a mutation descriptor carrying its own pre-image,
// captured either at persist time (from a runtime action's snapshot) or
// loaded directly from the persistence file (spec.md §4.4, §6). This is
// exactly the wire tuple named in spec.md §6: (op, type, key_bytes,
// value_bytes).
type PersistentAction struct {
	Op    Op
	Type  TokenType
	Key   []byte
	Value []byte
}

// columnFamily reports which physical key space a persistent action's key
// belongs to
func (p PersistentAction) columnFamily() ColumnFamily {
	return p.Type.columnFamily()
}

// diskKeys resolves a runtime action's payload into the concrete on-disk
// key(s) it touches and the column family they live in
func (a RuntimeAction) diskKeys() ([][]byte, ColumnFamily, error) {
	cf := a.TokenType.columnFamily()

	switch a.DataKind {
	case DataKindTokenKey:
		prefix, ok := DefaultPrefix(a.TokenType)
		if !ok {
			return nil, cf, fault.ErrUnknownType
		}
		k := BuildTokenKey(prefix, a.Payload.Key)
		return [][]byte{k.Bytes()}, cf, nil

	case DataKindTokenFullKey:
		k := BuildTokenKey(a.Payload.Prefix, a.Payload.Key)
		return [][]byte{k.Bytes()}, cf, nil

	case DataKindAssetKey:
		k := BuildAssetKey(a.Payload.Symbol, a.Payload.Address)
		return [][]byte{k.Bytes()}, cf, nil

	case DataKindTokenKeys:
		out := make([][]byte, len(a.Payload.Keys))
		for i, key := range a.Payload.Keys {
			k := BuildTokenKey(a.Payload.Prefix, key)
			out[i] = k.Bytes()
		}
		return out, cf, nil

	default:
		return nil, cf, fault.ErrUnknownType
	}
}
