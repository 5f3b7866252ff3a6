// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import "testing"

func TestIPAddressRoundTrip(t *testing.T) {
	cases := []string{
		"192.168.21.18",
		"dead:beef:0123:4567:89ab:cdef:fedc:0001",
	}
	for _, s := range cases {
		encoded, err := Pack(IPAddress, s)
		if err != nil {
			t.Fatalf("%q: pack: %v", s, err)
		}
		if len(encoded) != 16 {
			t.Fatalf("%q: encoded length %d, want 16", s, len(encoded))
		}
		decoded, err := Unpack(IPAddress, encoded, false)
		if err != nil {
			t.Fatalf("%q: unpack: %v", s, err)
		}
		if decoded.(string) != s {
			t.Errorf("round-trip %q got %q", s, decoded)
		}
	}
}
