// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"encoding/binary"

	"github.com/dchest/siphash"
)

// memoKey0/memoKey1 is a fixed, process-local siphash key. StructKey values
// are cache identities, never part of the wire format or compared across
// processes, so a fixed key is fine.
const (
	memoKey0 = uint64(0x6d656d6f697a6531)
	memoKey1 = uint64(0x6d656d6f697a6532)
)

// memoHash folds a tag byte identifying the descriptor kind together with
// its constructor parameters into a single uint64 identity.
func memoHash(tag byte, parts ...uint64) uint64 {
	buf := make([]byte, 1+8*len(parts))
	buf[0] = tag
	for i, p := range parts {
		binary.LittleEndian.PutUint64(buf[1+8*i:], p)
	}
	return siphash.Hash(memoKey0, memoKey1, buf)
}

func stringHash(s string) uint64 {
	return siphash.Hash(memoKey0, memoKey1, []byte(s))
}

func boolu64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
