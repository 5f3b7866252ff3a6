// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

// TrafficHook is called synchronously from the deframer (traffic_in) or the
// writer (traffic_out) with the number of bytes that just moved. Listeners
// (e.g. the metrics package) must tolerate being called from whichever
// goroutine is driving the connection at the time and must not block.
type TrafficHook func(n int)

// BadPeerHook is called synchronously when a frame's checksum fails to
// verify, the one signal the deframer raises about the remote peer's
// behavior rather than about local decode failure.
type BadPeerHook func(reason string)

func noopTraffic(int)    {}
func noopBadPeer(string) {}
