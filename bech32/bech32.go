// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package bech32 implements BIP-173 Bech32 encoding and the segwit address
// format built on top of it.
package bech32

import "strings"

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var generator = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

// polymod computes the Bech32 checksum polynomial over values.
func polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 != 0 {
				chk ^= generator[i]
			}
		}
	}
	return chk
}

// hrpExpand expands hrp into the checksum's input alphabet: the high
// bits of each character, a zero separator, then the low bits.
func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

func verifyChecksum(hrp string, data []byte) bool {
	values := append(hrpExpand(hrp), data...)
	return polymod(values) == 1
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ 1
	checksum := make([]byte, 6)
	for i := 0; i < 6; i++ {
		checksum[i] = byte((mod >> uint(5*(5-i))) & 31)
	}
	return checksum
}

// Encode builds a Bech32 string from a human-readable part and a sequence
// of 5-bit values.
func Encode(hrp string, data []byte) string {
	combined := append(append([]byte(nil), data...), createChecksum(hrp, data)...)
	var b strings.Builder
	b.WriteString(hrp)
	b.WriteByte('1')
	for _, v := range combined {
		b.WriteByte(charset[v])
	}
	return b.String()
}

// Decode splits a Bech32 string into its human-readable part and 5-bit data
// values (with the 6-symbol checksum stripped), or ("", nil) if bech is
// malformed, mixed-case, or its checksum doesn't verify.
func Decode(bech string) (string, []byte) {
	hasLower := strings.ToLower(bech) == bech
	hasUpper := strings.ToUpper(bech) == bech
	if !hasLower && !hasUpper {
		return "", nil
	}
	bech = strings.ToLower(bech)

	pos := strings.LastIndexByte(bech, '1')
	if pos < 1 || pos+7 > len(bech) || len(bech) > 90 {
		return "", nil
	}
	for i := 0; i < len(bech); i++ {
		if bech[i] < 33 || bech[i] > 126 {
			return "", nil
		}
	}

	hrp := bech[:pos]
	data := make([]byte, len(bech)-pos-1)
	for i, c := range bech[pos+1:] {
		idx := strings.IndexRune(charset, c)
		if idx < 0 {
			return "", nil
		}
		data[i] = byte(idx)
	}

	if !verifyChecksum(hrp, data) {
		return "", nil
	}
	return hrp, data[:len(data)-6]
}
