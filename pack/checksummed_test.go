// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"testing"
)

func TestChecksummedRoundTrip(t *testing.T) {
	d := Checksummed(VarStr)
	encoded, err := Pack(d, []byte("foobar"))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	decoded, err := Unpack(d, encoded, false)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if !bytes.Equal(decoded.([]byte), []byte("foobar")) {
		t.Errorf("round-trip got %q", decoded)
	}
}

func TestChecksummedRejectsTampering(t *testing.T) {
	d := Checksummed(VarStr)
	encoded, err := Pack(d, []byte("foobar"))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	for i := range encoded {
		tampered := append([]byte(nil), encoded...)
		tampered[i] ^= 0xff
		if _, err := Unpack(d, tampered, false); err == nil {
			t.Errorf("byte %d: tampered input decoded without error", i)
		}
	}
}
