// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"testing"
	"time"
)

func TestPeerTableTrackUntrack(t *testing.T) {
	reg := NewRegistry()
	ca, cb := newConnPair(t, reg)
	defer ca.Disconnect()
	defer cb.Disconnect()

	table := NewPeerTable()
	table.Track(ca, time.Unix(1700000000, 0))

	if table.Count() != 1 {
		t.Fatalf("count = %d, want 1", table.Count())
	}
	snap := table.Snapshot()
	if len(snap) != 1 || snap[0].Remote != ca.Remote() {
		t.Fatalf("snapshot = %+v", snap)
	}

	table.Untrack(ca)
	if table.Count() != 0 {
		t.Fatalf("count after untrack = %d, want 0", table.Count())
	}
}
