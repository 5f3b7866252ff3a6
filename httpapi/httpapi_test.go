// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dblokhin/p2pool/p2p"
)

func TestStatsReportsActivePeerCount(t *testing.T) {
	table := p2p.NewPeerTable()
	router := NewRouter(table)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.ActivePeers != 0 {
		t.Errorf("ActivePeers = %d, want 0", stats.ActivePeers)
	}
}

func TestPeersReturnsEmptyArrayWhenNoneTracked(t *testing.T) {
	table := p2p.NewPeerTable()
	router := NewRouter(table)

	req := httptest.NewRequest(http.MethodGet, "/peers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var peers []PeerView
	if err := json.Unmarshal(rec.Body.Bytes(), &peers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(peers) != 0 {
		t.Errorf("peers = %v, want empty", peers)
	}
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	table := p2p.NewPeerTable()
	router := NewRouter(table)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "p2pool_bytes_in_total") {
		t.Errorf("metrics body does not expose p2pool_bytes_in_total")
	}
}
