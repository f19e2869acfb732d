// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package abi

import (
	"bytes"
	"encoding/binary"

	"github.com/dynaput247/jmzkChain/account"
	"github.com/dynaput247/jmzkChain/fault"
)

func groupBuiltin() builtin {
	return builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			g, ok := v.(Group)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			w.Write(g.Name[:])
			writeUint32(w, g.Threshold)
			writeUvarint(w, uint64(len(g.Nodes)))
			for _, n := range g.Nodes {
				writeUint32(w, n.Threshold)
				writeUint32(w, n.Weight)
				if n.IsKey {
					w.WriteByte(1)
					w.Write(n.Key[:])
				} else {
					w.WriteByte(0)
					writeInt32(w, n.Index)
				}
			}
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			var g Group
			nameRaw, err := readExact(r, 16)
			if err != nil {
				return nil, err
			}
			copy(g.Name[:], nameRaw)
			g.Threshold, err = readUint32(r)
			if err != nil {
				return nil, err
			}
			count, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			g.Nodes = make([]GroupNode, count)
			for i := range g.Nodes {
				n := &g.Nodes[i]
				if n.Threshold, err = readUint32(r); err != nil {
					return nil, err
				}
				if n.Weight, err = readUint32(r); err != nil {
					return nil, err
				}
				flag, err := r.ReadByte()
				if err != nil {
					return nil, err
				}
				if flag != 0 {
					n.IsKey = true
					raw, err := readExact(r, account.Size)
					if err != nil {
						return nil, err
					}
					copy(n.Key[:], raw)
					n.Index = -1
				} else {
					n.IsKey = false
					if n.Index, err = readInt32(r); err != nil {
						return nil, err
					}
				}
			}
			return g, nil
		},
	}
}

func authorizerRefBuiltin() builtin {
	return builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			ref, ok := v.(AuthorizerRef)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			w.WriteByte(ref.Kind)
			switch ref.Kind {
			case RefAccount, RefOwner:
				w.Write(ref.Account[:])
			case RefGroup:
				w.Write(ref.Group[:])
			default:
				return fault.ErrBadIntegerWidth
			}
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			var ref AuthorizerRef
			kind, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			ref.Kind = kind
			switch kind {
			case RefAccount, RefOwner:
				raw, err := readExact(r, account.Size)
				if err != nil {
					return nil, err
				}
				copy(ref.Account[:], raw)
			case RefGroup:
				raw, err := readExact(r, 16)
				if err != nil {
					return nil, err
				}
				copy(ref.Group[:], raw)
			default:
				return nil, fault.ErrBadIntegerWidth
			}
			return ref, nil
		},
	}
}

func producerScheduleBuiltin() builtin {
	return builtin{
		pack: func(v interface{}, w *bytes.Buffer) error {
			ps, ok := v.(ProducerSchedule)
			if !ok {
				return fault.ErrBadIntegerWidth
			}
			writeUint32(w, ps.Version)
			writeUvarint(w, uint64(len(ps.Producers)))
			for _, p := range ps.Producers {
				w.Write(p.ProducerName[:])
				w.Write(p.BlockSigningKey[:])
			}
			return nil
		},
		unpack: func(r *bytes.Reader) (interface{}, error) {
			var ps ProducerSchedule
			var err error
			if ps.Version, err = readUint32(r); err != nil {
				return nil, err
			}
			count, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			ps.Producers = make([]ProducerKey, count)
			for i := range ps.Producers {
				nameRaw, err := readExact(r, 16)
				if err != nil {
					return nil, err
				}
				copy(ps.Producers[i].ProducerName[:], nameRaw)
				keyRaw, err := readExact(r, account.Size)
				if err != nil {
					return nil, err
				}
				copy(ps.Producers[i].BlockSigningKey[:], keyRaw)
			}
			return ps, nil
		},
	}
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	raw, err := readExact(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

func writeInt32(w *bytes.Buffer, v int32) {
	writeUint32(w, uint32(v))
}

func readInt32(r *bytes.Reader) (int32, error) {
	u, err := readUint32(r)
	return int32(u), err
}
