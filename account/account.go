// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - the 33 byte address encoding used as the first
// component of an asset key.
//
// An address is a variant byte (selecting the key algorithm and whether
// it is a test-network key) followed by a public key. For the only
// algorithm currently supported, ED25519, that comes to exactly
// 1 + 32 = 33 bytes, which is why the asset column family's key layout
// (spec.md §3) can treat "address" as a fixed 33 byte field.
package account

import (
	"github.com/dynaput247/jmzkChain/fault"
	"golang.org/x/crypto/ed25519"
)

// enumeration of supported key algorithms
const (
	// list of valid algorithms
	Nothing = iota // zero keytype **Just for Testing**
	ED25519 = iota
	// end of list (one greater than last item)
	algorithmLimit = iota
)

// miscellaneous constants
const (
	// bits in key code starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmShift = 4 // shift 4 bits to get algorithm
)

// Size - the fixed byte width of an encoded address
const Size = 1 + ed25519.PublicKeySize

// Account - base type, wraps one of the concrete key implementations
type Account struct {
	AccountInterface
}

// AccountInterface - operations common to every key algorithm
type AccountInterface interface {
	KeyType() int
	PublicKeyBytes() []byte
	CheckSignature(message []byte, signature Signature) error
	Bytes() []byte
	IsTesting() bool
}

// ED25519Account - the only production key algorithm
type ED25519Account struct {
	Test      bool
	PublicKey []byte
}

// NothingAccount - a fixed length placeholder, used only in tests
type NothingAccount struct {
	Test      bool
	PublicKey []byte
}

// AccountFromBytes converts a raw encoded buffer and returns an account
//
// one of the specific account types are returned using the base "AccountInterface"
// interface type to allow individual methods to be called.
func AccountFromBytes(accountBytes []byte) (*Account, error) {
	if 0 == len(accountBytes) {
		return nil, fault.ErrCannotDecodeAccount
	}

	keyVariant := accountBytes[0]
	if keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.ErrNotPublicKey
	}

	keyAlgorithm := int(keyVariant >> algorithmShift)
	if keyAlgorithm < 0 || keyAlgorithm >= algorithmLimit {
		return nil, fault.ErrInvalidKeyType
	}

	isTest := 0 != keyVariant&testKeyCode
	keyLength := len(accountBytes) - 1

	switch keyAlgorithm {
	case ED25519:
		if keyLength != ed25519.PublicKeySize {
			return nil, fault.ErrInvalidKeyLength
		}
		publicKey := make([]byte, keyLength)
		copy(publicKey, accountBytes[1:])
		return &Account{
			AccountInterface: &ED25519Account{
				Test:      isTest,
				PublicKey: publicKey,
			},
		}, nil
	case Nothing:
		publicKey := make([]byte, keyLength)
		copy(publicKey, accountBytes[1:])
		return &Account{
			AccountInterface: &NothingAccount{
				Test:      isTest,
				PublicKey: publicKey,
			},
		}, nil
	default:
		return nil, fault.ErrInvalidKeyType
	}
}

// ED25519
// -------

// KeyType - key type code (see enumeration above)
func (account *ED25519Account) KeyType() int {
	return ED25519
}

// PublicKeyBytes - fetch the public key as a byte slice
func (account *ED25519Account) PublicKeyBytes() []byte {
	return account.PublicKey
}

// CheckSignature - check the signature of a message
func (account *ED25519Account) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.ErrInvalidSignature
	}
	if !ed25519.Verify(account.PublicKey, message, signature) {
		return fault.ErrInvalidSignature
	}
	return nil
}

// Bytes - byte slice for the encoded key, the on-disk address form
func (account *ED25519Account) Bytes() []byte {
	keyVariant := byte(ED25519<<algorithmShift) | publicKeyCode
	if account.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, account.PublicKey...)
}

// IsTesting - whether the public key is a test-network key
func (account ED25519Account) IsTesting() bool {
	return account.Test
}

// Nothing
// -------

// KeyType - key type code (see enumeration above)
func (account *NothingAccount) KeyType() int {
	return Nothing
}

// PublicKeyBytes - fetch the public key as a byte slice
func (account *NothingAccount) PublicKeyBytes() []byte {
	return account.PublicKey
}

// CheckSignature - the placeholder algorithm never verifies
func (account *NothingAccount) CheckSignature(message []byte, signature Signature) error {
	return fault.ErrInvalidSignature
}

// Bytes - byte slice for encoded key
func (account *NothingAccount) Bytes() []byte {
	keyVariant := byte(Nothing<<algorithmShift) | publicKeyCode
	if account.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, account.PublicKey...)
}

// IsTesting - whether the public key is a test-network key
func (account NothingAccount) IsTesting() bool {
	return account.Test
}
