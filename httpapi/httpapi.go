// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package httpapi exposes a small read-only introspection surface over the
// running dispatcher: the in-memory peer table and a handful of protocol
// counters. It never mutates protocol state.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dblokhin/p2pool/metrics"
	"github.com/dblokhin/p2pool/p2p"
)

// Stats is the JSON body served from /stats.
type Stats struct {
	ActivePeers int       `json:"active_peers"`
	ServerTime  time.Time `json:"server_time"`
}

// PeerView is one entry of the JSON array served from /peers.
type PeerView struct {
	Remote      string    `json:"remote"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NewRouter builds the gin engine serving /peers and /stats against table,
// plus /metrics via the metrics package's promhttp handler. CORS is wide
// open since this is a read-only introspection surface, matching the
// teacher-adjacent BTC-Lens web API's own "*" origin policy.
func NewRouter(table *p2p.PeerTable) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/peers", func(c *gin.Context) {
		snap := table.Snapshot()
		out := make([]PeerView, 0, len(snap))
		for _, s := range snap {
			out = append(out, PeerView{Remote: s.Remote, ConnectedAt: s.ConnectedAt})
		}
		c.JSON(200, out)
	})

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(200, Stats{
			ActivePeers: table.Count(),
			ServerTime:  time.Now(),
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
