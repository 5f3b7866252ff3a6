// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/sirupsen/logrus"

	"github.com/dblokhin/p2pool/pack"
)

const (
	commandFieldLen  = 12
	lengthFieldLen   = 4
	checksumFieldLen = 4
	headerLen        = commandFieldLen + lengthFieldLen + checksumFieldLen
)

type deframerState int

const (
	stateHunt deframerState = iota
	stateHeader
	stateBody
)

// deframer implements the HUNT/HEADER/BODY/DISPATCH state machine over
// arbitrarily fragmented input. It is driven exclusively by onBytes, which
// must never be called re-entrantly or concurrently for the same deframer
// (one reader goroutine per connection, matching the "never re-entered"
// contract).
type deframer struct {
	magic          []byte
	maxPayloadLen  uint32
	registry       *Registry
	ignoreTrailing bool

	onTrafficIn func(int)
	onBadPeer   func(string)
	disconnect  func()
	dispatch    func(command string, body interface{})

	state deframerState

	window    []byte
	windowLen int

	headerBuf []byte
	bodyBuf   []byte

	command  string
	length   uint32
	checksum []byte
}

func newDeframer(magic []byte, maxPayloadLen uint32, registry *Registry) *deframer {
	d := &deframer{
		magic:         magic,
		maxPayloadLen: maxPayloadLen,
		registry:      registry,
		onTrafficIn:   noopTraffic,
		onBadPeer:     noopBadPeer,
		disconnect:    func() {},
		dispatch:      func(string, interface{}) {},
		window:        make([]byte, len(magic)),
	}
	d.resetToHunt()
	return d
}

func (d *deframer) resetToHunt() {
	d.state = stateHunt
	d.windowLen = 0
	d.headerBuf = d.headerBuf[:0]
	d.bodyBuf = nil
}

// onBytes feeds chunk through the state machine. It never blocks and
// returns once chunk is fully consumed, regardless of how many complete
// frames it contained or how partial the trailing state is left.
func (d *deframer) onBytes(chunk []byte) {
	if d.onTrafficIn != nil {
		d.onTrafficIn(len(chunk))
	}
	for len(chunk) > 0 {
		switch d.state {
		case stateHunt:
			chunk = d.hunt(chunk)
		case stateHeader:
			chunk = d.feedHeader(chunk)
		case stateBody:
			chunk = d.feedBody(chunk)
		}
	}
}

// hunt scans for d.magic one byte at a time via a fixed-size sliding
// window, so it allocates nothing regardless of how the magic straddles
// chunk boundaries.
func (d *deframer) hunt(chunk []byte) []byte {
	for i, b := range chunk {
		if d.windowLen < len(d.magic) {
			d.window[d.windowLen] = b
			d.windowLen++
		} else {
			copy(d.window, d.window[1:])
			d.window[len(d.magic)-1] = b
		}
		if d.windowLen == len(d.magic) && bytes.Equal(d.window, d.magic) {
			d.state = stateHeader
			d.headerBuf = d.headerBuf[:0]
			return chunk[i+1:]
		}
	}
	return nil
}

func (d *deframer) feedHeader(chunk []byte) []byte {
	need := headerLen - len(d.headerBuf)
	n := need
	if n > len(chunk) {
		n = len(chunk)
	}
	d.headerBuf = append(d.headerBuf, chunk[:n]...)
	rest := chunk[n:]
	if len(d.headerBuf) < headerLen {
		return rest
	}

	d.command = string(bytes.TrimRight(d.headerBuf[:commandFieldLen], "\x00"))
	d.length = binary.LittleEndian.Uint32(d.headerBuf[commandFieldLen : commandFieldLen+lengthFieldLen])
	d.checksum = append([]byte(nil), d.headerBuf[commandFieldLen+lengthFieldLen:headerLen]...)

	if d.length > d.maxPayloadLen {
		logrus.Warnf("p2p: oversize payload length %d for command %q, resuming hunt", d.length, d.command)
		d.resetToHunt()
		return rest
	}

	d.state = stateBody
	d.bodyBuf = make([]byte, 0, d.length)
	return rest
}

func (d *deframer) feedBody(chunk []byte) []byte {
	need := int(d.length) - len(d.bodyBuf)
	n := need
	if n > len(chunk) {
		n = len(chunk)
	}
	d.bodyBuf = append(d.bodyBuf, chunk[:n]...)
	rest := chunk[n:]
	if len(d.bodyBuf) < int(d.length) {
		return rest
	}

	d.dispatchFrame()
	d.resetToHunt()
	return rest
}

// dispatchFrame never lets a panic in a Descriptor's Read (a malformed or
// adversarial payload tripping a bug in the decode path) escape to the
// reader goroutine: per the framing layer's resilience contract, a bad
// frame from one peer must never take down the process or any other
// peer's connection.
func (d *deframer) dispatchFrame() {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("p2p: decoding command %q panicked: %v", d.command, r)
			d.disconnect()
		}
	}()

	sum := chainhash.DoubleHashB(d.bodyBuf)
	if !bytes.Equal(sum[:4], d.checksum) {
		logrus.Debugf("p2p: bad checksum for command %q", d.command)
		d.onBadPeer(fmt.Sprintf("checksum mismatch for command %q", d.command))
		return
	}

	desc, ok := d.registry.descriptor(d.command)
	if !ok {
		logrus.Debugf("p2p: no descriptor registered for command %q, dropping", d.command)
		return
	}

	body, err := pack.Unpack(desc, d.bodyBuf, d.ignoreTrailing)
	if err != nil {
		preview := d.bodyBuf
		if len(preview) > 100 {
			preview = preview[:100]
		}
		logrus.Errorf("p2p: failed to decode command %q (payload %s): %v", d.command, hex.EncodeToString(preview), err)
		d.disconnect()
		return
	}

	d.dispatch(d.command, body)
}
