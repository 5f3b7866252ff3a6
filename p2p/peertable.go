// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"sync"
	"time"
)

// PeerSnapshot is a read-only view of one tracked connection, safe to hand
// to an HTTP handler without exposing the Conn itself.
type PeerSnapshot struct {
	Remote      string
	ConnectedAt time.Time
}

// PeerTable tracks the currently connected peers for introspection only
// (e.g. the httpapi /peers endpoint). It does not dial out, persist
// addresses across restarts, or otherwise perform peer discovery.
type PeerTable struct {
	mu    sync.RWMutex
	peers map[*Conn]PeerSnapshot
}

// NewPeerTable returns an empty PeerTable.
func NewPeerTable() *PeerTable {
	return &PeerTable{peers: make(map[*Conn]PeerSnapshot)}
}

// Track registers conn, recording the instant it was added. Callers
// typically wire this into the same place Start is called.
func (t *PeerTable) Track(conn *Conn, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peers[conn] = PeerSnapshot{Remote: conn.Remote(), ConnectedAt: now}
}

// Untrack removes conn, typically called once its Disconnect has completed.
func (t *PeerTable) Untrack(conn *Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.peers, conn)
}

// Snapshot returns a stable copy of the currently tracked peers.
func (t *PeerTable) Snapshot() []PeerSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]PeerSnapshot, 0, len(t.peers))
	for _, s := range t.peers {
		out = append(out, s)
	}
	return out
}

// Count returns the number of currently tracked peers.
func (t *PeerTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.peers)
}
