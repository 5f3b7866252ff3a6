// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"errors"
	"testing"
)

func TestUnpackRejectsTrailingBytes(t *testing.T) {
	encoded, err := Pack(VarInt, uint64(5))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	encoded = append(encoded, 0xff)
	if _, err := Unpack(VarInt, encoded, false); !errors.Is(err, ErrTrailingBytes) {
		t.Errorf("Unpack with trailing byte = %v, want ErrTrailingBytes", err)
	}
	if _, err := Unpack(VarInt, encoded, true); err != nil {
		t.Errorf("Unpack with ignoreTrailing = %v, want nil", err)
	}
}

func TestDebugSelfCheckPassesForCanonicalInput(t *testing.T) {
	old := Debug
	Debug = true
	defer func() { Debug = old }()

	encoded, err := Pack(VarInt, uint64(300))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if _, err := Unpack(VarInt, encoded, false); err != nil {
		t.Errorf("Unpack of canonical input under Debug = %v, want nil", err)
	}
}

func TestDebugUnpackRejectsNonCanonicalInput(t *testing.T) {
	old := Debug
	Debug = true
	defer func() { Debug = old }()

	// 0xfd 0x01 0x00 encodes 1, whose canonical form is a single byte.
	// VarInt's Read already rejects it with ErrNonCanonical, so Unpack
	// returns that error before the repack self-check runs.
	if _, err := Unpack(VarInt, []byte{0xfd, 0x01, 0x00}, false); !errors.Is(err, ErrNonCanonical) {
		t.Errorf("Unpack(non-canonical) = %v, want ErrNonCanonical", err)
	}
}

func TestCursorNextPastEndFails(t *testing.T) {
	c := NewCursor([]byte{1, 2})
	if _, err := c.Next(3); !errors.Is(err, ErrUnexpectedEnd) {
		t.Errorf("Next(3) on a 2-byte cursor = %v, want ErrUnexpectedEnd", err)
	}
}
