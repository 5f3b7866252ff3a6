// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

type varIntDescriptor struct{}

// VarInt is Bitcoin's compact-size integer: values below 0xfd are a single
// byte; 0xfd/0xfe/0xff prefix a 2/4/8 byte little-endian integer. Decode
// rejects encodings below the minimum value for their prefix (e.g. 0xfd
// 0x01 0x00, which could have been a single byte).
var VarInt Descriptor = varIntDescriptor{}

func (varIntDescriptor) Read(c *Cursor) (interface{}, error) {
	b, err := c.Next(1)
	if err != nil {
		return nil, err
	}
	first := b[0]
	if first < 0xfd {
		return uint64(first), nil
	}

	var n, min uint64
	switch first {
	case 0xfd:
		data, err := c.Next(2)
		if err != nil {
			return nil, err
		}
		n = uint64(binary.LittleEndian.Uint16(data))
		min = 0xfd
	case 0xfe:
		data, err := c.Next(4)
		if err != nil {
			return nil, err
		}
		n = uint64(binary.LittleEndian.Uint32(data))
		min = 1 << 16
	case 0xff:
		data, err := c.Next(8)
		if err != nil {
			return nil, err
		}
		n = binary.LittleEndian.Uint64(data)
		min = 1 << 32
	}
	if n < min {
		return nil, fmt.Errorf("pack: varint %w: %d below minimum %d for 0x%02x prefix", ErrNonCanonical, n, min, first)
	}
	return n, nil
}

func (varIntDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	n, err := toUint64(v)
	if err != nil {
		return err
	}
	switch {
	case n < 0xfd:
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		buf.Write(b[:])
	case n <= 0xffffffff:
		buf.WriteByte(0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		buf.Write(b[:])
	default:
		buf.WriteByte(0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], n)
		buf.Write(b[:])
	}
	return nil
}

func (varIntDescriptor) PackedSize(v interface{}) (int, error) {
	n, err := toUint64(v)
	if err != nil {
		return 0, err
	}
	switch {
	case n < 0xfd:
		return 1, nil
	case n <= 0xffff:
		return 3, nil
	case n <= 0xffffffff:
		return 5, nil
	default:
		return 9, nil
	}
}

func (varIntDescriptor) StructKey() uint64 { return memoHash('V') }
