// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
)

// FloatingIntegerValue is Bitcoin's "compact" difficulty/target encoding.
// Bits is the raw 32-bit word: its top byte is an exponent, its low three
// bytes a mantissa. Target expands Bits to the 256-bit threshold it denotes.
type FloatingIntegerValue struct {
	Bits uint32
}

// Target expands Bits into the value it represents: mantissa shifted left
// 8*(exponent-3) bits (right-shifted if the exponent is below 3).
func (f FloatingIntegerValue) Target() *big.Int {
	exp := int(f.Bits >> 24)
	mantissa := new(big.Int).SetUint64(uint64(f.Bits & 0x00ffffff))
	shift := (exp - 3) * 8
	if shift >= 0 {
		return new(big.Int).Lsh(mantissa, uint(shift))
	}
	return new(big.Int).Rsh(mantissa, uint(-shift))
}

func (f FloatingIntegerValue) String() string {
	return fmt.Sprintf("FloatingInteger(bits=0x%08x, target=0x%x)", f.Bits, f.Target())
}

type floatingIntegerDescriptor struct{}

// FloatingInteger is the descriptor for a FloatingIntegerValue. It reads the
// 4-byte word the same way a little-endian Integer(32, true) would: the raw
// wire bytes are reversed before being read as the big-endian-ordered Bits
// word, and reversed again on write.
var FloatingInteger Descriptor = floatingIntegerDescriptor{}

func (floatingIntegerDescriptor) Read(c *Cursor) (interface{}, error) {
	data, err := c.Next(4)
	if err != nil {
		return nil, err
	}
	be := []byte{data[3], data[2], data[1], data[0]}
	return FloatingIntegerValue{Bits: binary.BigEndian.Uint32(be)}, nil
}

func (floatingIntegerDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	fi, ok := v.(FloatingIntegerValue)
	if !ok {
		return fmt.Errorf("pack: floatinteger: expected a FloatingIntegerValue, got %T", v)
	}
	var be [4]byte
	binary.BigEndian.PutUint32(be[:], fi.Bits)
	buf.Write([]byte{be[3], be[2], be[1], be[0]})
	return nil
}

func (floatingIntegerDescriptor) PackedSize(interface{}) (int, error) { return 4, nil }

func (floatingIntegerDescriptor) StructKey() uint64 { return memoHash('T') }
