// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
	"math/big"
)

// integerDescriptor reads/writes a fixed-width integer of bits/8 bytes.
// Values up to 64 bits decode to uint64; wider values (used by 256-bit
// hashes and targets elsewhere in the wire format) decode to *big.Int.
// Endianness only affects the byte order on the wire: the decoded value is
// always the big-endian-equivalent magnitude.
type integerDescriptor struct {
	bits   int
	little bool
	bytes  int
}

// Integer returns a descriptor for a bits-wide unsigned integer (bits must
// be a positive multiple of 8). The common widths (8/16/32/64, both
// endiannesses) are interned so repeated calls share one descriptor value.
func Integer(bits int, little bool) Descriptor {
	if bits <= 0 || bits%8 != 0 {
		panic("pack: Integer bits must be a positive multiple of 8")
	}
	if d, ok := internedIntegers[intKey(bits, little)]; ok {
		return d
	}
	return &integerDescriptor{bits: bits, little: little, bytes: bits / 8}
}

var internedIntegers = map[[2]int]Descriptor{}

func intKey(bits int, little bool) [2]int {
	l := 0
	if little {
		l = 1
	}
	return [2]int{bits, l}
}

func init() {
	for _, bits := range []int{8, 16, 32, 64} {
		for _, little := range []bool{true, false} {
			internedIntegers[intKey(bits, little)] = &integerDescriptor{
				bits:   bits,
				little: little,
				bytes:  bits / 8,
			}
		}
	}
}

func (d *integerDescriptor) Read(c *Cursor) (interface{}, error) {
	data, err := c.Next(d.bytes)
	if err != nil {
		return nil, err
	}
	be := make([]byte, d.bytes)
	copy(be, data)
	if d.little {
		reverseBytes(be)
	}
	if d.bytes <= 8 {
		var n uint64
		for _, b := range be {
			n = n<<8 | uint64(b)
		}
		return n, nil
	}
	return new(big.Int).SetBytes(be), nil
}

func (d *integerDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	be := make([]byte, d.bytes)
	if d.bytes <= 8 {
		n, err := toUint64(v)
		if err != nil {
			return err
		}
		if d.bits < 64 && n >= uint64(1)<<uint(d.bits) {
			return fmt.Errorf("pack: integer %w: %d >= 2^%d", ErrOutOfRange, n, d.bits)
		}
		for i := d.bytes - 1; i >= 0; i-- {
			be[i] = byte(n)
			n >>= 8
		}
	} else {
		bi, err := toBigInt(v)
		if err != nil {
			return err
		}
		if bi.Sign() < 0 {
			return fmt.Errorf("pack: integer %w: negative value %s", ErrOutOfRange, bi.String())
		}
		max := new(big.Int).Lsh(big.NewInt(1), uint(d.bits))
		if bi.Cmp(max) >= 0 {
			return fmt.Errorf("pack: integer %w: %s >= 2^%d", ErrOutOfRange, bi.String(), d.bits)
		}
		packed := bi.Bytes()
		if len(packed) > d.bytes {
			return fmt.Errorf("pack: integer %w: %s overflows %d bytes", ErrOutOfRange, bi.String(), d.bytes)
		}
		copy(be[d.bytes-len(packed):], packed)
	}
	if d.little {
		reverseBytes(be)
	}
	buf.Write(be)
	return nil
}

func (d *integerDescriptor) PackedSize(interface{}) (int, error) {
	return d.bytes, nil
}

func (d *integerDescriptor) StructKey() uint64 {
	return memoHash('I', uint64(d.bits), boolu64(d.little))
}
