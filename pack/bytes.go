// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
)

type varStrDescriptor struct{}

// VarStr is a VarInt length prefix followed by that many raw bytes.
var VarStr Descriptor = varStrDescriptor{}

func (varStrDescriptor) Read(c *Cursor) (interface{}, error) {
	lv, err := VarInt.Read(c)
	if err != nil {
		return nil, err
	}
	n := lv.(uint64)
	if n > uint64(c.Remaining()) {
		return nil, ErrUnexpectedEnd
	}
	data, err := c.Next(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (varStrDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	b, err := toBytes(v)
	if err != nil {
		return err
	}
	if err := VarInt.Write(buf, uint64(len(b))); err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func (varStrDescriptor) PackedSize(v interface{}) (int, error) {
	b, err := toBytes(v)
	if err != nil {
		return 0, err
	}
	lenSize, err := VarInt.PackedSize(uint64(len(b)))
	if err != nil {
		return 0, err
	}
	return lenSize + len(b), nil
}

func (varStrDescriptor) StructKey() uint64 { return memoHash('S') }

// fixedStrDescriptor reads/writes an exact-length byte string with no
// length prefix.
type fixedStrDescriptor struct{ n int }

// FixedStr returns a descriptor for an exact n-byte string.
func FixedStr(n int) Descriptor {
	if n < 0 {
		panic("pack: FixedStr length must be >= 0")
	}
	return fixedStrDescriptor{n: n}
}

func (d fixedStrDescriptor) Read(c *Cursor) (interface{}, error) {
	data, err := c.Next(d.n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (d fixedStrDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	b, err := toBytes(v)
	if err != nil {
		return err
	}
	if len(b) != d.n {
		return fmt.Errorf("pack: fixedstr %w: expected %d bytes, got %d", ErrOutOfRange, d.n, len(b))
	}
	buf.Write(b)
	return nil
}

func (d fixedStrDescriptor) PackedSize(interface{}) (int, error) { return d.n, nil }

func (d fixedStrDescriptor) StructKey() uint64 { return memoHash('F', uint64(d.n)) }
