// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package abi

import (
	"strings"
	"time"

	"github.com/dynaput247/jmzkChain/account"
	"github.com/dynaput247/jmzkChain/symbol"
)

// FieldDef - one field of a struct, in declaration order
type FieldDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// StructDef - a struct type: an optional base (single inheritance) plus
// its own fields, which are packed/unpacked after the base's
type StructDef struct {
	Name   string     `json:"name"`
	Base   string     `json:"base"`
	Fields []FieldDef `json:"fields"`
}

// TypeDef - a typedef: new_type_name is an alias for the type expression Type
type TypeDef struct {
	NewTypeName string `json:"new_type_name"`
	Type        string `json:"type"`
}

// ActionDef - an action name bound to the struct type that carries its payload
type ActionDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Def - the JSON-loadable ABI document: everything needed to build an *ABI
type Def struct {
	Types   []TypeDef   `json:"types"`
	Structs []StructDef `json:"structs"`
	Actions []ActionDef `json:"actions"`
}

// Name - an 8 byte (64-bit) canonical name, NUL padded
type Name [8]byte

// NewName builds a Name from a string, truncating/padding to 8 bytes
func NewName(s string) Name {
	var n Name
	copy(n[:], s)
	return n
}

func (n Name) String() string {
	return strings.TrimRight(string(n[:]), "\x00")
}

// Name128 - a 16 byte (128-bit) canonical name, NUL padded
//
// This is the width used by the token record key codec (spec.md §3: "Both
// prefix and key are 16-byte canonical names") - domain/group/account/etc.
// names here are exactly the key material stored in the token column family.
type Name128 [16]byte

// NewName128 builds a Name128 from a string, truncating/padding to 16 bytes
func NewName128(s string) Name128 {
	var n Name128
	copy(n[:], s)
	return n
}

func (n Name128) String() string {
	return strings.TrimRight(string(n[:]), "\x00")
}

// Checksum160 - a 20 byte hash
type Checksum160 [20]byte

// Checksum256 - a 32 byte hash
type Checksum256 [32]byte

// Checksum512 - a 64 byte hash
type Checksum512 [64]byte

// Uint128 - a 128 bit unsigned integer, carried as raw little-endian bytes
// since Go has no native 128 bit integer type and nothing in this module
// does arithmetic on it (spec Non-goals: "no asset arithmetic beyond
// storing the encoded balance blob")
type Uint128 [16]byte

// Float128 - a 128 bit float, carried as raw bytes for the same reason
type Float128 [16]byte

// TimePointSec - whole-second UTC timestamp, the wire form of both the
// "time" and "time_point_sec" built-ins
type TimePointSec uint32

// ToTime - convert to a time.Time value
func (t TimePointSec) ToTime() time.Time { return time.Unix(int64(t), 0).UTC() }

// TimePoint - microsecond-resolution UTC timestamp
type TimePoint uint64

// ToTime - convert to a time.Time value
func (t TimePoint) ToTime() time.Time {
	return time.Unix(int64(t)/1e6, (int64(t)%1e6)*1e3).UTC()
}

// BlockTimestampType - half-second slot count since a fixed epoch
type BlockTimestampType uint32

// Asset - an amount paired with the symbol that determines its precision
// and ticker. Packed as amount (int64 LE) followed by symbol (8 bytes),
// matching the order the original EVT/EOS "asset" built-in uses.
type Asset struct {
	Amount int64
	Symbol symbol.Symbol
}

// ExtendedAsset - an asset plus the address of the account it is held by
type ExtendedAsset struct {
	Asset   Asset
	Address [account.Size]byte
}

// GroupNode - one node of a weighted-threshold authorizer tree: either a
// leaf referencing a public key, or an interior node with its own
// threshold over a run of children weights
type GroupNode struct {
	Threshold uint32
	Weight    uint32
	IsKey     bool
	Key       [account.Size]byte
	Index     int32 // child count for an interior node, -1 for a leaf
}

// Group - a named authorizer tree, the "group" built-in
type Group struct {
	Name      Name128
	Threshold uint32
	Nodes     []GroupNode
}

// authorizer ref kinds
const (
	RefAccount = uint8(0)
	RefOwner   = uint8(1)
	RefGroup   = uint8(2)
)

// AuthorizerRef - a tagged reference to an account public key, the
// implicit owner list, or a named group
type AuthorizerRef struct {
	Kind    uint8
	Account [account.Size]byte
	Group   Name128
}

// ProducerKey - one entry of a producer schedule
type ProducerKey struct {
	ProducerName    Name128
	BlockSigningKey [account.Size]byte
}

// ProducerSchedule - the "producer_schedule" built-in
type ProducerSchedule struct {
	Version   uint32
	Producers []ProducerKey
}
