// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynaput247/jmzkChain/account"
	"github.com/dynaput247/jmzkChain/fault"
)

type accountTest struct {
	algorithm int
	testnet   bool
	publicKey []byte
}

var testAccount = []accountTest{
	{
		algorithm: account.ED25519,
		testnet:   false,
		publicKey: decodeHex("29433d000aeff03c554eb44dd20ac0f77b39c8109ad66bf62f040543f5bcc690")[:32],
	},
	{
		algorithm: account.ED25519,
		testnet:   true,
		publicKey: decodeHex("d7df15f7ee557aabd54ea4d240e706c7675182d9f8f15403d9f7ca94443eef98")[:32],
	},
	{
		algorithm: account.ED25519,
		testnet:   true,
		publicKey: decodeHex("0000000000000000000000000000000000000000000000000000000000000000")[:32],
	},
}

func TestAccountFromBytesRoundTrip(t *testing.T) {
	for i, test := range testAccount {
		testnet := 0x00
		if test.testnet {
			testnet = 0x02
		}
		buffer := []byte{byte(test.algorithm<<4 | 0x01 | testnet)}
		buffer = append(buffer, test.publicKey...)

		acc, err := account.AccountFromBytes(buffer)
		require.NoErrorf(t, err, "case %d", i)
		assert.Equal(t, test.algorithm, acc.KeyType())
		assert.Equal(t, test.testnet, acc.IsTesting())
		assert.True(t, bytes.Equal(test.publicKey, acc.PublicKeyBytes()))
		assert.Equal(t, account.Size, len(acc.Bytes()))
		assert.True(t, bytes.Equal(buffer, acc.Bytes()))
	}
}

func TestAccountFromBytesEmpty(t *testing.T) {
	_, err := account.AccountFromBytes(nil)
	assert.Equal(t, fault.ErrCannotDecodeAccount, err)
}

func TestAccountFromBytesNotPublicKey(t *testing.T) {
	buffer := []byte{byte(account.ED25519 << 4)} // missing publicKeyCode bit
	buffer = append(buffer, testAccount[0].publicKey...)
	_, err := account.AccountFromBytes(buffer)
	assert.Equal(t, fault.ErrNotPublicKey, err)
}

func TestAccountFromBytesBadLength(t *testing.T) {
	buffer := []byte{byte(account.ED25519<<4 | 0x01), 0x01, 0x02}
	_, err := account.AccountFromBytes(buffer)
	assert.Equal(t, fault.ErrInvalidKeyLength, err)
}

func TestAccountFromBytesUnknownAlgorithm(t *testing.T) {
	buffer := []byte{byte(0x0f<<4 | 0x01)}
	buffer = append(buffer, testAccount[0].publicKey...)
	_, err := account.AccountFromBytes(buffer)
	assert.Equal(t, fault.ErrInvalidKeyType, err)
}

func decodeHex(hexStr string) []byte {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		panic(err)
	}
	return b
}
