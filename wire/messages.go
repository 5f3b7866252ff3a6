// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package wire

import "github.com/dblokhin/p2pool/pack"

// addrCompact is the IP/port pair carried by version's addr_recv/addr_from
// fields (no timestamp or services, unlike a gossiped addr entry).
var addrCompact = pack.NewComposite(
	pack.Field("ip", pack.IPAddress),
	pack.Field("port", pack.Integer(16, false)),
)

// Version is the handshake message: protocol version, advertised service
// bits, timestamp, sender/receiver addresses, anti-loopback nonce, free-form
// user agent, the height the peer is synced to, and whether it wants
// unfiltered relay.
var Version = pack.NewComposite(
	pack.Field("version", pack.Integer(32, true)),
	pack.Field("services", pack.Integer(64, true)),
	pack.Field("timestamp", pack.Integer(64, true)),
	pack.Field("addr_recv", addrCompact),
	pack.Field("addr_from", addrCompact),
	pack.Field("nonce", pack.Integer(64, true)),
	pack.Field("user_agent", pack.VarStr),
	pack.Field("start_height", pack.Integer(32, true)),
	pack.Field("relay", pack.Integer(8, false)),
)

// Verack is the empty handshake acknowledgement: a Composite with no
// fields, carried to exercise that degenerate case end to end.
var Verack = pack.NewComposite()

// Ping/Pong each carry a single nonce used to match a pong to its ping.
var (
	Ping = pack.NewComposite(pack.Field("nonce", pack.VarInt))
	Pong = pack.NewComposite(pack.Field("nonce", pack.VarInt))
)

// addrEntry is one gossiped peer: last-seen time, advertised services, and
// address.
var addrEntry = pack.NewComposite(
	pack.Field("time", pack.Integer(32, true)),
	pack.Field("services", pack.Integer(64, true)),
	pack.Field("ip", pack.IPAddress),
	pack.Field("port", pack.Integer(16, false)),
)

// Addr carries a batch of gossiped peer addresses.
var Addr = pack.List(addrEntry, 1)

// Inventory item type names, exercising the Enum bijection over a plain
// wire integer.
const (
	InvTx            = "tx"
	InvBlock         = "block"
	InvFilteredBlock = "filtered_block"
)

var invType = pack.NewEnum(pack.Integer(32, true), map[string]interface{}{
	InvTx:            uint64(1),
	InvBlock:         uint64(2),
	InvFilteredBlock: uint64(3),
})

var invVector = pack.NewComposite(
	pack.Field("type", invType),
	pack.Field("hash", pack.FixedStr(32)),
)

// Inv and GetData both carry a list of inventory vectors: Inv announces,
// GetData requests.
var (
	Inv     = pack.List(invVector, 1)
	GetData = pack.List(invVector, 1)
)

// GetHeaders requests headers following any hash in locator, stopping at
// stop_hash (the zero hash meaning "as many as allowed").
var GetHeaders = pack.NewComposite(
	pack.Field("version", pack.Integer(32, true)),
	pack.Field("locator", pack.List(pack.FixedStr(32), 1)),
	pack.Field("stop_hash", pack.FixedStr(32)),
)

// Headers carries a batch of block headers answering a GetHeaders request.
var Headers = pack.List(BlockHeader, 1)

// Tx carries a single transaction (see transactionDescriptor for the
// witness-extension contract).
var Tx = Transaction
