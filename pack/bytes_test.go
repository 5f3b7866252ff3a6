// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"testing"
)

func TestVarStrRoundTrip(t *testing.T) {
	for n := 0; n < 260; n++ {
		b := bytes.Repeat([]byte{0x5a}, n)
		encoded, err := Pack(VarStr, b)
		if err != nil {
			t.Fatalf("len %d: pack: %v", n, err)
		}
		decoded, err := Unpack(VarStr, encoded, false)
		if err != nil {
			t.Fatalf("len %d: unpack: %v", n, err)
		}
		if !bytes.Equal(decoded.([]byte), b) {
			t.Errorf("len %d: round-trip mismatch", n)
		}
	}
}

func TestFixedStrAcceptsExactLengthOnly(t *testing.T) {
	for n := 0; n < 260; n++ {
		d := FixedStr(n)
		good := bytes.Repeat([]byte{0x11}, n)
		if _, err := Pack(d, good); err != nil {
			t.Fatalf("n=%d: pack exact length: %v", n, err)
		}

		for _, badLen := range []int{n - 1, n + 1} {
			if badLen < 0 {
				continue
			}
			bad := bytes.Repeat([]byte{0x11}, badLen)
			if _, err := Pack(d, bad); err == nil {
				t.Errorf("n=%d: pack length %d should fail", n, badLen)
			}
		}
	}
}
