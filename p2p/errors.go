// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package p2p implements the frame deframer and per-connection dispatcher:
// the HUNT/HEADER/BODY/DISPATCH state machine that turns arbitrarily
// fragmented byte chunks into decoded, command-dispatched messages, and the
// FIFO-ordered send path back onto the wire.
package p2p

import "errors"

var (
	// ErrCommandTooLong means a command name is 12 bytes or longer.
	ErrCommandTooLong = errors.New("p2p: command name too long")

	// ErrUnknownCommand means Send was asked for a command with no
	// registered descriptor.
	ErrUnknownCommand = errors.New("p2p: unknown command")

	// ErrPayloadTooLong means an outgoing encoded body exceeds the
	// connection's configured max payload length.
	ErrPayloadTooLong = errors.New("p2p: payload too long")

	// ErrConnClosed means Send was called after Disconnect.
	ErrConnClosed = errors.New("p2p: connection closed")
)
