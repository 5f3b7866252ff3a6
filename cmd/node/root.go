// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dblokhin/p2pool/buildinfo"
	"github.com/dblokhin/p2pool/httpapi"
	"github.com/dblokhin/p2pool/metrics"
	"github.com/dblokhin/p2pool/p2p"
	"github.com/dblokhin/p2pool/pack"
	"github.com/dblokhin/p2pool/wire"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "p2pool-node",
	Short: "p2pool-node runs the message-framing protocol engine",
	Long: `p2pool-node listens for peer connections, deframes and dispatches
wire messages by command name, and exposes a read-only HTTP introspection
surface over the active peer table.`,
	Run: func(cmd *cobra.Command, args []string) {
		runNode()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./p2pool-node.yaml)")
	rootCmd.Flags().String("magic", "f9beb4d9", "network magic, hex-encoded 4 bytes")
	rootCmd.Flags().String("listen", "0.0.0.0:8333", "address to accept peer connections on")
	rootCmd.Flags().String("http-listen", "127.0.0.1:8080", "address to serve /peers, /stats and /metrics on")
	rootCmd.Flags().Uint32("max-payload", 32*1024*1024, "maximum accepted message payload length in bytes")
	rootCmd.Flags().Bool("debug", false, "enable pack.Debug self-check and verbose logging")
	rootCmd.Flags().Bool("ignore-trailing-payload", false, "tolerate trailing bytes after a decoded message body")

	viper.BindPFlag("magic", rootCmd.Flags().Lookup("magic"))
	viper.BindPFlag("listen", rootCmd.Flags().Lookup("listen"))
	viper.BindPFlag("http-listen", rootCmd.Flags().Lookup("http-listen"))
	viper.BindPFlag("max-payload", rootCmd.Flags().Lookup("max-payload"))
	viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	viper.BindPFlag("ignore-trailing-payload", rootCmd.Flags().Lookup("ignore-trailing-payload"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("p2pool-node")
	}

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	if viper.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func runNode() {
	pack.Debug = viper.GetBool("debug")

	magic, err := hex.DecodeString(viper.GetString("magic"))
	if err != nil || len(magic) != 4 {
		logrus.Fatalf("invalid --magic %q: must be 4 hex-encoded bytes", viper.GetString("magic"))
	}

	if v, err := buildinfo.Sync("."); err != nil {
		logrus.Debugf("buildinfo: %v", err)
	} else {
		logrus.Infof("build version %s", v)
	}

	registry := newRegistry()
	peerTable := p2p.NewPeerTable()

	cfg := p2p.Config{
		Magic:                 magic,
		Registry:              registry,
		MaxPayloadLen:         viper.GetUint32("max-payload"),
		IgnoreTrailingPayload: viper.GetBool("ignore-trailing-payload"),
		OnTrafficIn:           metrics.ObserveTraffic,
		OnTrafficOut:          metrics.ObserveTrafficOut,
		OnBadPeer:             metrics.ObserveBadPeer,
	}

	go serveHTTP(peerTable)
	go handleSignals()

	listenAddr := viper.GetString("listen")
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		logrus.Fatalf("couldn't listen on %s: %v", listenAddr, err)
	}
	logrus.Infof("listening for peers on %s", listenAddr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			logrus.Errorf("accept failed: %v", err)
			continue
		}
		c := p2p.NewConn(conn, cfg)
		peerTable.Track(c, time.Now())
		metrics.SetActivePeers(peerTable.Count())
		c.Start()
		go func() {
			c.Wait()
			peerTable.Untrack(c)
			metrics.SetActivePeers(peerTable.Count())
		}()
	}
}

func serveHTTP(peerTable *p2p.PeerTable) {
	addr := viper.GetString("http-listen")
	router := httpapi.NewRouter(peerTable)
	logrus.Infof("serving /peers, /stats, /metrics on %s", addr)
	if err := router.Run(addr); err != nil {
		logrus.Errorf("http server exited: %v", err)
	}
}

func handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	s := <-signals
	logrus.Infof("caught signal %s, exiting", s)
	os.Exit(0)
}

// newRegistry binds the domain message catalogue from the wire package to
// the commands this node understands. The handlers here only log, except
// that version is answered with verack and ping with pong; actual
// protocol behavior (sync, relay, mining) is out of scope per the spec's
// Non-goals.
func newRegistry() *p2p.Registry {
	registry := p2p.NewRegistry()

	must := func(err error) {
		if err != nil {
			logrus.Fatalf("registering handler: %v", err)
		}
	}

	must(registry.Register("version", wire.Version, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("version from %s: %+v", c.Remote(), body)
		_ = c.Send("verack", map[string]interface{}{})
	}))
	must(registry.Register("verack", wire.Verack, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("verack from %s", c.Remote())
	}))
	must(registry.Register("ping", wire.Ping, func(c *p2p.Conn, body interface{}) {
		nonce := body.(*pack.Record).Get("nonce")
		_ = c.Send("pong", map[string]interface{}{"nonce": nonce})
	}))
	must(registry.Register("pong", wire.Pong, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("pong from %s", c.Remote())
	}))
	must(registry.Register("addr", wire.Addr, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("addr from %s", c.Remote())
	}))
	must(registry.Register("inv", wire.Inv, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("inv from %s", c.Remote())
	}))
	must(registry.Register("getdata", wire.GetData, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("getdata from %s", c.Remote())
	}))
	must(registry.Register("getheaders", wire.GetHeaders, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("getheaders from %s", c.Remote())
	}))
	must(registry.Register("headers", wire.Headers, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("headers from %s", c.Remote())
	}))
	must(registry.Register("tx", wire.Tx, func(c *p2p.Conn, body interface{}) {
		logrus.Debugf("tx from %s", c.Remote())
	}))

	return registry
}
