// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package bech32

// DecodeSegwit decodes a segwit address with the given human-readable part,
// returning the witness version and program. It returns (-1, nil) if addr
// is not a valid Bech32 string, has the wrong human-readable part, or
// doesn't meet the segwit program-length/version constraints (20 or 32
// bytes for witness version 0, 2-40 bytes otherwise).
func DecodeSegwit(hrp, addr string) (int, []byte) {
	gotHRP, data := Decode(addr)
	if data == nil || gotHRP != hrp {
		return -1, nil
	}
	if len(data) < 1 {
		return -1, nil
	}

	decoded, ok := ConvertBits(data[1:], 5, 8, false)
	if !ok {
		return -1, nil
	}
	if len(decoded) < 2 || len(decoded) > 40 {
		return -1, nil
	}

	version := int(data[0])
	if version > 16 {
		return -1, nil
	}
	if version == 0 && len(decoded) != 20 && len(decoded) != 32 {
		return -1, nil
	}
	return version, decoded
}

// EncodeSegwit builds a segwit Bech32 address for the given human-readable
// part, witness version, and witness program, or "" if the arguments don't
// round-trip through DecodeSegwit (defensively matching the reference
// implementation's encode-then-verify step).
func EncodeSegwit(hrp string, version int, program []byte) string {
	converted, ok := ConvertBits(program, 8, 5, true)
	if !ok {
		return ""
	}
	data := append([]byte{byte(version)}, converted...)
	addr := Encode(hrp, data)
	if v, p := DecodeSegwit(hrp, addr); v == -1 || p == nil {
		return ""
	}
	return addr
}
