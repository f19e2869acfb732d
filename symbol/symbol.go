// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package symbol - the fixed-size asset symbol descriptor
//
// A symbol is the fixed-width key component that selects which fungible
// asset a balance record belongs to. It packs a precision digit and a
// short uppercase code into 8 bytes so it can be memcpy'd directly into
// an asset key alongside a 33 byte address.
package symbol

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dynaput247/jmzkChain/fault"
)

// Size - on-disk byte width of a symbol
const Size = 8

const maxCodeLength = Size - 1

// Symbol - precision (1 byte) followed by a left-justified, NUL padded
// upper-case code (7 bytes)
type Symbol [Size]byte

// New - build a symbol from a precision and a code string
func New(precision uint8, code string) (Symbol, error) {
	var s Symbol

	code = strings.ToUpper(strings.TrimSpace(code))
	if 0 == len(code) {
		return s, fault.ErrInvalidSymbolCode
	}
	if len(code) > maxCodeLength {
		return s, fault.ErrSymbolCodeTooLong
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return s, fault.ErrInvalidSymbolCode
		}
	}

	s[0] = precision
	copy(s[1:], code)
	return s, nil
}

// FromBytes - reinterpret an exact Size-byte slice as a Symbol
func FromBytes(b []byte) (Symbol, error) {
	var s Symbol
	if len(b) != Size {
		return s, fault.ErrInvalidSymbolCode
	}
	copy(s[:], b)
	return s, nil
}

// Bytes - the fixed-width on-disk encoding
func (s Symbol) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, s[:])
	return b
}

// Precision - decimal places carried by balances of this symbol
func (s Symbol) Precision() uint8 {
	return s[0]
}

// Code - the upper-case ticker, with trailing NUL padding stripped
func (s Symbol) Code() string {
	n := 1
	for n < Size && s[n] != 0 {
		n++
	}
	return string(s[1:n])
}

// IsValid - whether this symbol has a non-empty code
func (s Symbol) IsValid() bool {
	return s[1] != 0
}

// String - human readable "precision,CODE" form, matching the on-chain
// "4,EVT" style symbol text representation
func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision(), s.Code())
}

// GoString - debugging representation
func (s Symbol) GoString() string {
	return fmt.Sprintf("<symbol:%s>", s.String())
}

// toUint64 / fromUint64 mirror the packed uint64 representation used by
// the ABI serializer's "symbol" built-in, which transports a symbol as a
// single little-endian 64 bit value on the wire.
func (s Symbol) toUint64() uint64 {
	return binary.LittleEndian.Uint64(s[:])
}

func fromUint64(v uint64) Symbol {
	var s Symbol
	binary.LittleEndian.PutUint64(s[:], v)
	return s
}

// MarshalBinary / UnmarshalBinary - wire form used by the ABI "symbol"
// built-in pack/unpack pair
func (s Symbol) MarshalBinary() ([]byte, error) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, s.toUint64())
	return b, nil
}

func (s *Symbol) UnmarshalBinary(b []byte) error {
	if len(b) != 8 {
		return fault.ErrInvalidSymbolCode
	}
	*s = fromUint64(binary.LittleEndian.Uint64(b))
	return nil
}
