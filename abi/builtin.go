// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package abi

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/dynaput247/jmzkChain/account"
	"github.com/dynaput247/jmzkChain/fault"
	"github.com/dynaput247/jmzkChain/symbol"
)

// builtin holds the pack/unpack pair for one scalar primitive. Array and
// optional wrapping is handled once, generically, by the dispatcher in
// abi.go - these functions only ever see a single scalar value, the
// Go equivalent of the original's pack_unpack<T>() template before
// is_array/is_optional branch inside it.
type builtin struct {
	pack   func(v interface{}, w *bytes.Buffer) error
	unpack func(r *bytes.Reader) (interface{}, error)
}

func newBuiltins() map[string]builtin {
	b := make(map[string]builtin, 32)

	b["bool"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			flag, ok := v.(bool)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			if flag {
				w.WriteByte(1)
			} else {
				w.WriteByte(0)
			}
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			c, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			return c != 0, nil
		},
	}

	for _, width := range []int{8, 16, 32, 64} {
		registerInteger(b, width, true)
		registerInteger(b, width, false)
	}
	b["uint128"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			u, ok := v.(Uint128)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			w.Write(u[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 16)
			if err != nil {
				return nil, err
			}
			var u Uint128
			copy(u[:], raw)
			return u, nil
		},
	}

	b["float32"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			f, ok := v.(float32)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
			w.Write(buf[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 4)
			if err != nil {
				return nil, err
			}
			return math.Float32frombits(binary.LittleEndian.Uint32(raw)), nil
		},
	}
	b["float64"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			f, ok := v.(float64)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
			w.Write(buf[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 8)
			if err != nil {
				return nil, err
			}
			return math.Float64frombits(binary.LittleEndian.Uint64(raw)), nil
		},
	}
	b["float128"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			f, ok := v.(Float128)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			w.Write(f[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 16)
			if err != nil {
				return nil, err
			}
			var f Float128
			copy(f[:], raw)
			return f, nil
		},
	}

	b["bytes"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			bs, ok := v.([]byte)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			writeByteSlice(w, bs)
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			return readByteSlice(r)
		},
	}
	b["string"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			s, ok := v.(string)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			writeString(w, s)
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			return readString(r)
		},
	}

	registerFixed(b, "checksum160", 20, func(raw []byte) interface{} {
		var c Checksum160
		copy(c[:], raw)
		return c
	}, func(v interface{}) ([]byte, bool) { c, ok := v.(Checksum160); return c[:], ok })
	registerFixed(b, "checksum256", 32, func(raw []byte) interface{} {
		var c Checksum256
		copy(c[:], raw)
		return c
	}, func(v interface{}) ([]byte, bool) { c, ok := v.(Checksum256); return c[:], ok })
	registerFixed(b, "checksum512", 64, func(raw []byte) interface{} {
		var c Checksum512
		copy(c[:], raw)
		return c
	}, func(v interface{}) ([]byte, bool) { c, ok := v.(Checksum512); return c[:], ok })

	registerFixed(b, "name", 8, func(raw []byte) interface{} {
		var n Name
		copy(n[:], raw)
		return n
	}, func(v interface{}) ([]byte, bool) { n, ok := v.(Name); return n[:], ok })
	registerFixed(b, "name128", 16, func(raw []byte) interface{} {
		var n Name128
		copy(n[:], raw)
		return n
	}, func(v interface{}) ([]byte, bool) { n, ok := v.(Name128); return n[:], ok })

	b["time"] = timePointSecBuiltin()
	b["time_point_sec"] = timePointSecBuiltin()
	b["time_point"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			t, ok := v.(TimePoint)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(t))
			w.Write(buf[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 8)
			if err != nil {
				return nil, err
			}
			return TimePoint(binary.LittleEndian.Uint64(raw)), nil
		},
	}
	b["block_timestamp_type"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			t, ok := v.(BlockTimestampType)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], uint32(t))
			w.Write(buf[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 4)
			if err != nil {
				return nil, err
			}
			return BlockTimestampType(binary.LittleEndian.Uint32(raw)), nil
		},
	}

	b["public_key"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			acc, ok := v.(*account.Account)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			w.Write(acc.Bytes())
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, account.Size)
			if err != nil {
				return nil, err
			}
			return account.AccountFromBytes(raw)
		},
	}
	b["signature"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			sig, ok := v.(account.Signature)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			writeByteSlice(w, sig)
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readByteSlice(r)
			if err != nil {
				return nil, err
			}
			return account.Signature(raw), nil
		},
	}

	b["symbol"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			s, ok := v.(symbol.Symbol)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			w.Write(s.Bytes())
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, symbol.Size)
			if err != nil {
				return nil, err
			}
			return symbol.FromBytes(raw)
		},
	}
	b["symbol_code"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			s, ok := v.(symbol.Symbol)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			writeString(w, s.Code())
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			code, err := readString(r)
			if err != nil {
				return nil, err
			}
			return symbol.New(0, code)
		},
	}
	b["asset"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			a, ok := v.(Asset)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(a.Amount))
			w.Write(buf[:])
			w.Write(a.Symbol.Bytes())
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 8)
			if err != nil {
				return nil, err
			}
			symRaw, err := readExact(r, symbol.Size)
			if err != nil {
				return nil, err
			}
			s, err := symbol.FromBytes(symRaw)
			if err != nil {
				return nil, err
			}
			return Asset{Amount: int64(binary.LittleEndian.Uint64(raw)), Symbol: s}, nil
		},
	}
	b["extended_asset"] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			ea, ok := v.(ExtendedAsset)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			if err := b["asset"].pack(ea.Asset, w); err != nil {
				return err
			}
			w.Write(ea.Address[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			av, err := b["asset"].unpack(r)
			if err != nil {
				return nil, err
			}
			raw, err := readExact(r, account.Size)
			if err != nil {
				return nil, err
			}
			var ea ExtendedAsset
			ea.Asset = av.(Asset)
			copy(ea.Address[:], raw)
			return ea, nil
		},
	}

	b["group"] = groupBuiltin()
	b["authorizer_ref"] = authorizerRefBuiltin()
	b["producer_schedule"] = producerScheduleBuiltin()

	return b
}

func timePointSecBuiltin() builtin {
	return builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			t, ok := v.(TimePointSec)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], uint32(t))
			w.Write(buf[:])
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, 4)
			if err != nil {
				return nil, err
			}
			return TimePointSec(binary.LittleEndian.Uint32(raw)), nil
		},
	}
}

func registerFixed(b map[string]builtin, name string, size int, decode func([]byte) interface{}, encode func(interface{}) ([]byte, bool)) {
	b[name] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			raw, ok := encode(v)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			w.Write(raw)
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, size)
			if err != nil {
				return nil, err
			}
			return decode(raw), nil
		},
	}
}

func registerInteger(b map[string]builtin, width int, signed bool) {
	name, size := integerName(width, signed)
	b[name] = builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			u, ok := toUint64(v)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			buf := make([]byte, size)
			switch size {
			case 1:
				buf[0] = byte(u)
			case 2:
				binary.LittleEndian.PutUint16(buf, uint16(u))
			case 4:
				binary.LittleEndian.PutUint32(buf, uint32(u))
			case 8:
				binary.LittleEndian.PutUint64(buf, u)
			}
			w.Write(buf)
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			raw, err := readExact(r, size)
			if err != nil {
				return nil, err
			}
			return decodeInteger(raw, width, signed), nil
		},
	}
}

func integerName(width int, signed bool) (string, int) {
	prefix := "uint"
	if signed {
		prefix = "int"
	}
	size := width / 8
	switch width {
	case 8:
		return prefix + "8", size
	case 16:
		return prefix + "16", size
	case 32:
		return prefix + "32", size
	case 64:
		return prefix + "64", size
	}
	return prefix, size
}

func decodeInteger(raw []byte, width int, signed bool) interface{} {
	switch width {
	case 8:
		if signed {
			return int8(raw[0])
		}
		return uint8(raw[0])
	case 16:
		u := binary.LittleEndian.Uint16(raw)
		if signed {
			return int16(u)
		}
		return u
	case 32:
		u := binary.LittleEndian.Uint32(raw)
		if signed {
			return int32(u)
		}
		return u
	case 64:
		u := binary.LittleEndian.Uint64(raw)
		if signed {
			return int64(u)
		}
		return u
	}
	return nil
}

// toUint64 widens any of the concrete sized integer types accepted by the
// pack side into a plain uint64 for byte-order encoding
func toUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case int8:
		return uint64(uint8(n)), true
	case uint8:
		return uint64(n), true
	case int16:
		return uint64(uint16(n)), true
	case uint16:
		return uint64(n), true
	case int32:
		return uint64(uint32(n)), true
	case uint32:
		return uint64(n), true
	case int64:
		return uint64(n), true
	case uint64:
		return n, true
	case int:
		return uint64(n), true
	}
	return 0, false
}
