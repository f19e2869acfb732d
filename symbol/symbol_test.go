// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynaput247/jmzkChain/fault"
	"github.com/dynaput247/jmzkChain/symbol"
)

func TestNewAndAccessors(t *testing.T) {
	s, err := symbol.New(4, "evt")
	require.NoError(t, err)
	assert.Equal(t, uint8(4), s.Precision())
	assert.Equal(t, "EVT", s.Code())
	assert.Equal(t, "4,EVT", s.String())
	assert.True(t, s.IsValid())
	assert.Equal(t, symbol.Size, len(s.Bytes()))
}

func TestNewRejectsEmptyCode(t *testing.T) {
	_, err := symbol.New(0, "   ")
	assert.Equal(t, fault.ErrInvalidSymbolCode, err)
}

func TestNewRejectsNonLetterCode(t *testing.T) {
	_, err := symbol.New(0, "ev_t")
	assert.Equal(t, fault.ErrInvalidSymbolCode, err)
}

func TestNewRejectsTooLongCode(t *testing.T) {
	_, err := symbol.New(0, "ABCDEFGH")
	assert.Equal(t, fault.ErrSymbolCodeTooLong, err)
}

func TestFromBytesRoundTrip(t *testing.T) {
	s, err := symbol.New(8, "SYS")
	require.NoError(t, err)

	s2, err := symbol.FromBytes(s.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s, s2)
}

func TestFromBytesWrongLength(t *testing.T) {
	_, err := symbol.FromBytes([]byte{1, 2, 3})
	assert.Equal(t, fault.ErrInvalidSymbolCode, err)
}

func TestMarshalBinaryRoundTrip(t *testing.T) {
	s, err := symbol.New(4, "EVT")
	require.NoError(t, err)

	b, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, 8, len(b))

	var s2 symbol.Symbol
	require.NoError(t, s2.UnmarshalBinary(b))
	assert.Equal(t, s, s2)
}

func TestUnmarshalBinaryWrongLength(t *testing.T) {
	var s symbol.Symbol
	err := s.UnmarshalBinary([]byte{1, 2, 3})
	assert.Equal(t, fault.ErrInvalidSymbolCode, err)
}

func TestIsValidFalseForZeroValue(t *testing.T) {
	var s symbol.Symbol
	assert.False(t, s.IsValid())
}

func TestGoString(t *testing.T) {
	s, err := symbol.New(2, "USD")
	require.NoError(t, err)
	assert.Equal(t, "<symbol:2,USD>", s.GoString())
}
