// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package abi

import (
	"bytes"
	"io"

	"github.com/dynaput247/jmzkChain/util"
)

// readUvarint reads a LEB128-style varint one byte at a time, using the
// same bit layout as util.ToVarint64/util.FromVarint64 (the teacher's
// persistence-file length prefix codec), just off a stream instead of a
// pre-sized slice.
func readUvarint(r *bytes.Reader) (uint64, error) {
	result := uint64(0)
	shift := uint(0)
	for count := 0; count < util.Varint64MaximumBytes; count++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if count < util.Varint64MaximumBytes-1 {
			result |= uint64(b&0x7f) << shift
			if 0 == b&0x80 {
				return result, nil
			}
		} else {
			result |= uint64(b) << shift
			return result, nil
		}
		shift += 7
	}
	return 0, io.ErrUnexpectedEOF
}

func writeUvarint(w *bytes.Buffer, v uint64) {
	w.Write(util.ToVarint64(v))
}

func readExact(r *bytes.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUvarint(r)
	if err != nil {
		return "", err
	}
	b, err := readExact(r, int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeString(w *bytes.Buffer, s string) {
	writeUvarint(w, uint64(len(s)))
	w.WriteString(s)
}

func readByteSlice(r *bytes.Reader) ([]byte, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	return readExact(r, int(n))
}

func writeByteSlice(w *bytes.Buffer, b []byte) {
	writeUvarint(w, uint64(len(b)))
	w.Write(b)
}
