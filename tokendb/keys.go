// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tokendb

import (
	"github.com/dynaput247/jmzkChain/account"
	"github.com/dynaput247/jmzkChain/symbol"
)

// NameSize - width of a canonical name used as a token key's prefix or key
const NameSize = 16

// TokenKeySize - width of a token record key: 16 byte prefix + 16 byte key
const TokenKeySize = 2 * NameSize

// AssetKeySize - width of an asset record key: symbol + 33 byte address
const AssetKeySize = symbol.Size + account.Size

// Name - a 16 byte canonical name, used as both the prefix and the key
// half of a token record key
type Name [NameSize]byte

// NewName - truncate or zero-pad a byte string into a canonical name
func NewName(b []byte) Name {
	var n Name
	copy(n[:], b)
	return n
}

// TokenType - the small enumeration that selects which logical record
// family a token key belongs to. The numeric values cross the external
// interface (spec.md §6) and must not be renumbered.
type TokenType uint16

const (
	TokenTypeAsset    TokenType = 0
	TokenTypeDomain   TokenType = 1
	TokenTypeToken    TokenType = 2
	TokenTypeGroup    TokenType = 3
	TokenTypeSuspend  TokenType = 4
	TokenTypeLock     TokenType = 5
	TokenTypeFungible TokenType = 6
	TokenTypeProdvote TokenType = 7
	TokenTypeEvtlink  TokenType = 8
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeAsset:
		return "asset"
	case TokenTypeDomain:
		return "domain"
	case TokenTypeToken:
		return "token"
	case TokenTypeGroup:
		return "group"
	case TokenTypeSuspend:
		return "suspend"
	case TokenTypeLock:
		return "lock"
	case TokenTypeFungible:
		return "fungible"
	case TokenTypeProdvote:
		return "prodvote"
	case TokenTypeEvtlink:
		return "evtlink"
	default:
		return "unknown"
	}
}

// columnFamily reports which physical key space (see engine.go) a token
// type's records live in. Only TokenTypeAsset lives in the asset family;
// everything else, including the bare "token" type whose prefix is a
// caller-supplied domain name, lives in the token family.
func (t TokenType) columnFamily() ColumnFamily {
	if t == TokenTypeAsset {
		return CFAssets
	}
	return CFTokens
}

// defaultPrefixes - the compile-time constant canonical prefix used for
// every non-"token" type (spec.md §3 invariant 2: "token_type values never
// leak into the on-disk key; the prefix for non-token types is a
// compile-time constant per type"). The "token" type has no entry here: a
// domain name must always be supplied by the caller.
var defaultPrefixes = map[TokenType]Name{
	TokenTypeDomain:   NewName([]byte(".domain")),
	TokenTypeGroup:    NewName([]byte(".group")),
	TokenTypeSuspend:  NewName([]byte(".suspend")),
	TokenTypeLock:     NewName([]byte(".lock")),
	TokenTypeFungible: NewName([]byte(".fungible")),
	TokenTypeProdvote: NewName([]byte(".prodvote")),
	TokenTypeEvtlink:  NewName([]byte(".evtlink")),
}

// DefaultPrefix returns the fixed canonical prefix for a non-"token" type,
// and false for TokenTypeToken (whose prefix is always caller-supplied) or
// TokenTypeAsset (which does not use the token key layout at all).
func DefaultPrefix(t TokenType) (Name, bool) {
	n, ok := defaultPrefixes[t]
	return n, ok
}

// TokenKey - [prefix:16][key:16], fixed width, memcpy-stable (spec.md §4.1)
type TokenKey [TokenKeySize]byte

// BuildTokenKey assembles a token key from its prefix and key halves
func BuildTokenKey(prefix, key Name) TokenKey {
	var k TokenKey
	copy(k[:NameSize], prefix[:])
	copy(k[NameSize:], key[:])
	return k
}

// Prefix returns the prefix (domain or default-type) half of the key
func (k TokenKey) Prefix() Name {
	var n Name
	copy(n[:], k[:NameSize])
	return n
}

// Key returns the key half of the key
func (k TokenKey) Key() Name {
	var n Name
	copy(n[:], k[NameSize:])
	return n
}

// Bytes - the raw on-disk encoding
func (k TokenKey) Bytes() []byte {
	return k[:]
}

// AssetKey - [symbol:8][address:33], fixed width, memcpy-stable (spec.md §4.1)
type AssetKey [AssetKeySize]byte

// BuildAssetKey assembles an asset key from a symbol and an address
func BuildAssetKey(sym symbol.Symbol, addr [account.Size]byte) AssetKey {
	var k AssetKey
	copy(k[:symbol.Size], sym[:])
	copy(k[symbol.Size:], addr[:])
	return k
}

// Symbol returns the symbol half of the key
func (k AssetKey) Symbol() symbol.Symbol {
	var s symbol.Symbol
	copy(s[:], k[:symbol.Size])
	return s
}

// Address returns the address half of the key
func (k AssetKey) Address() [account.Size]byte {
	var a [account.Size]byte
	copy(a[:], k[symbol.Size:])
	return a
}

// Bytes - the raw on-disk encoding
func (k AssetKey) Bytes() []byte {
	return k[:]
}
