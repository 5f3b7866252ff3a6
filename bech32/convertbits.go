// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package bech32

// ConvertBits regroups a sequence of fromBits-wide values into toBits-wide
// values. When pad is true, a final short group is zero-padded and emitted;
// when false, leftover bits are dropped if they are fewer than fromBits and
// all zero, and otherwise rejected by returning ok=false.
func ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, bool) {
	acc := uint32(0)
	bits := uint(0)
	var out []byte
	maxv := uint32(1)<<toBits - 1
	maxAcc := uint32(1)<<(fromBits+toBits-1) - 1

	for _, value := range data {
		v := uint32(value)
		if v>>fromBits != 0 {
			return nil, false
		}
		acc = ((acc << fromBits) | v) & maxAcc
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || (acc<<(toBits-bits))&maxv != 0 {
		return nil, false
	}

	return out, true
}
