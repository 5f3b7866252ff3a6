// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"math/big"
	"testing"
)

func TestFloatingIntegerCompactTarget(t *testing.T) {
	wire := []byte{0x00, 0x80, 0x00, 0x21}

	decoded, err := Unpack(FloatingInteger, wire, false)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	fi := decoded.(FloatingIntegerValue)
	if fi.Bits != 0x21008000 {
		t.Fatalf("Bits = 0x%08x, want 0x21008000", fi.Bits)
	}

	want := new(big.Int).Lsh(big.NewInt(0x80), 31*8)
	if fi.Target().Cmp(want) != 0 {
		t.Errorf("Target() = 0x%x, want 0x%x", fi.Target(), want)
	}

	gotString := fi.String()
	wantPrefix := "FloatingInteger(bits=0x21008000, target=0x"
	if len(gotString) < len(wantPrefix) || gotString[:len(wantPrefix)] != wantPrefix {
		t.Errorf("String() = %q, want prefix %q", gotString, wantPrefix)
	}

	reencoded, err := Pack(FloatingInteger, fi)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if string(reencoded) != string(wire) {
		t.Errorf("re-encoded % x, want % x", reencoded, wire)
	}
}
