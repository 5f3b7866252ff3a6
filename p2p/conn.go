// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/sirupsen/logrus"

	"github.com/dblokhin/p2pool/pack"
)

// Config holds the parameters shared by every Conn speaking the same
// protocol instance: the wire magic, the message registry and the inbound
// payload ceiling.
type Config struct {
	Magic         []byte
	Registry      *Registry
	MaxPayloadLen uint32
	SendQueueLen  int

	// IgnoreTrailingPayload relaxes pack.Unpack's decode to tolerate bytes
	// left over after a message body is fully parsed, matching p2pool's
	// startswith-based debug check (§9).
	IgnoreTrailingPayload bool

	// OnTrafficIn fires with the byte count of each chunk handed to the
	// deframer (traffic_in).
	OnTrafficIn TrafficHook
	// OnTrafficOut fires with the byte count of each frame written to the
	// wire (traffic_out).
	OnTrafficOut TrafficHook
	OnBadPeer    BadPeerHook
}

// Conn is a single peer connection: one reader goroutine feeding raw bytes
// into a deframer, and one writer goroutine draining a FIFO send queue so
// that concurrent Send calls never interleave partial frames on the wire.
type Conn struct {
	conn     net.Conn
	cfg      Config
	df       *deframer
	registry *Registry

	sendQueue chan []byte
	quit      chan struct{}
	wg        sync.WaitGroup

	disconnecting int32
	remote        string
}

// NewConn wraps conn for protocol speaking per cfg. Call Start to begin the
// reader/writer goroutines.
func NewConn(conn net.Conn, cfg Config) *Conn {
	if cfg.SendQueueLen <= 0 {
		cfg.SendQueueLen = 64
	}
	onTrafficIn := cfg.OnTrafficIn
	if onTrafficIn == nil {
		onTrafficIn = noopTraffic
	}
	onBadPeer := cfg.OnBadPeer
	if onBadPeer == nil {
		onBadPeer = noopBadPeer
	}

	c := &Conn{
		conn:      conn,
		cfg:       cfg,
		registry:  cfg.Registry,
		sendQueue: make(chan []byte, cfg.SendQueueLen),
		quit:      make(chan struct{}),
		remote:    conn.RemoteAddr().String(),
	}

	df := newDeframer(cfg.Magic, cfg.MaxPayloadLen, cfg.Registry)
	df.ignoreTrailing = cfg.IgnoreTrailingPayload
	df.onTrafficIn = onTrafficIn
	df.onBadPeer = func(reason string) {
		onBadPeer(reason)
		c.Disconnect()
	}
	df.disconnect = c.Disconnect
	df.dispatch = c.dispatchToHandler
	c.df = df

	return c
}

// Remote returns the remote address string, stable for the life of the
// connection.
func (c *Conn) Remote() string {
	return c.remote
}

// Start launches the reader and writer goroutines. It returns immediately;
// the connection runs until Disconnect is called or the underlying net.Conn
// errors.
func (c *Conn) Start() {
	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
}

// Wait blocks until both the reader and writer goroutines have exited.
func (c *Conn) Wait() {
	c.wg.Wait()
}

func (c *Conn) readLoop() {
	defer c.wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.df.onBytes(buf[:n])
		}
		if err != nil {
			logrus.Debugf("p2p: read from %s ended: %v", c.remote, err)
			c.Disconnect()
			return
		}
		select {
		case <-c.quit:
			return
		default:
		}
	}
}

func (c *Conn) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case frame, ok := <-c.sendQueue:
			if !ok {
				return
			}
			if _, err := c.conn.Write(frame); err != nil {
				logrus.Debugf("p2p: write to %s failed: %v", c.remote, err)
				c.Disconnect()
				return
			}
			if c.cfg.OnTrafficOut != nil {
				c.cfg.OnTrafficOut(len(frame))
			}
		case <-c.quit:
			return
		}
	}
}

func (c *Conn) dispatchToHandler(command string, body interface{}) {
	if atomic.LoadInt32(&c.disconnecting) != 0 {
		return
	}
	h, ok := c.registry.handler(command)
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("p2p: handler for %q panicked: %v", command, r)
			c.Disconnect()
		}
	}()
	h(c, body)
}

// Send encodes body with the descriptor registered for command and enqueues
// the resulting frame on the FIFO writer. It returns ErrUnknownCommand,
// ErrCommandTooLong, ErrPayloadTooLong or ErrConnClosed without touching the
// wire on any rejection.
func (c *Conn) Send(command string, body interface{}) error {
	if atomic.LoadInt32(&c.disconnecting) != 0 {
		return ErrConnClosed
	}
	if len(command) >= commandFieldLen {
		return fmt.Errorf("%w: %q", ErrCommandTooLong, command)
	}
	desc, ok := c.registry.descriptor(command)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	payload, err := pack.Pack(desc, body)
	if err != nil {
		return fmt.Errorf("p2p: encode %q: %w", command, err)
	}
	if uint32(len(payload)) > c.cfg.MaxPayloadLen {
		return fmt.Errorf("%w: %q is %d bytes", ErrPayloadTooLong, command, len(payload))
	}

	frame := buildFrame(c.cfg.Magic, command, payload)

	select {
	case c.sendQueue <- frame:
		return nil
	case <-c.quit:
		return ErrConnClosed
	}
}

func buildFrame(magic []byte, command string, payload []byte) []byte {
	frame := make([]byte, 0, len(magic)+headerLen+len(payload))
	frame = append(frame, magic...)

	var cmdField [commandFieldLen]byte
	copy(cmdField[:], command)
	frame = append(frame, cmdField[:]...)

	var lenField [lengthFieldLen]byte
	binary.LittleEndian.PutUint32(lenField[:], uint32(len(payload)))
	frame = append(frame, lenField[:]...)

	sum := chainhash.DoubleHashB(payload)
	frame = append(frame, sum[:4]...)

	frame = append(frame, payload...)
	return frame
}

// Disconnect marks the connection as disconnecting, stops new handler
// invocation and closes the underlying net.Conn. It is safe to call more
// than once and from any goroutine.
func (c *Conn) Disconnect() {
	if !atomic.CompareAndSwapInt32(&c.disconnecting, 0, 1) {
		return
	}
	close(c.quit)
	c.conn.Close()
}

// Disconnecting reports whether Disconnect has been called.
func (c *Conn) Disconnecting() bool {
	return atomic.LoadInt32(&c.disconnecting) != 0
}
