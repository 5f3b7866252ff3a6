// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package metrics exposes Prometheus counters and gauges for the signals
// the p2p dispatcher raises: bytes moved (traffic_in/traffic_out) and
// bad-peer disconnects, plus a gauge for the current peer table size.
// Nothing here touches protocol state; it only observes the hooks
// p2p.Config wires in.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BytesIn counts total bytes handed to the deframer across all
	// connections.
	BytesIn = promauto.NewCounter(prometheus.CounterOpts{
		Name: "p2pool_bytes_in_total",
		Help: "Total bytes received across all connections",
	})

	// BytesOut counts total bytes written to the wire across all
	// connections.
	BytesOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "p2pool_bytes_out_total",
		Help: "Total bytes sent across all connections",
	})

	// BadPeerDisconnects counts connections torn down in response to a
	// BadPeerHook firing.
	BadPeerDisconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "p2pool_bad_peer_disconnects_total",
		Help: "Total connections disconnected for bad-peer behavior",
	})

	// ActivePeers tracks the current size of the in-memory peer table.
	ActivePeers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "p2pool_active_peers",
		Help: "Number of currently connected peers",
	})
)

// ObserveTraffic is a p2p.TrafficHook that adds n to BytesIn. Wire it via
// p2p.Config.OnTrafficIn for the receiving side; use ObserveTrafficOut for
// p2p.Config.OnTrafficOut on the writer side.
func ObserveTraffic(n int) {
	BytesIn.Add(float64(n))
}

// ObserveTrafficOut adds n to BytesOut.
func ObserveTrafficOut(n int) {
	BytesOut.Add(float64(n))
}

// ObserveBadPeer is a p2p.BadPeerHook that increments BadPeerDisconnects.
// reason is accepted to satisfy the hook signature but is not itself a
// metric label, to keep cardinality bounded.
func ObserveBadPeer(reason string) {
	BadPeerDisconnects.Inc()
}

// SetActivePeers sets the ActivePeers gauge to n, typically called right
// after a p2p.PeerTable's Track/Untrack.
func SetActivePeers(n int) {
	ActivePeers.Set(float64(n))
}

// Handler returns the promhttp handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
