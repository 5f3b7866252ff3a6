// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package pack implements the type-descriptor algebra: a small family of
// composable codecs (integers, varints, strings, lists, composites,
// enums, optionals, addresses, checksummed envelopes) that each know how
// to read a value from a byte cursor, write a value to a byte sink, and
// report the size a value would occupy on the wire.
package pack

import "errors"

// Error kinds. Decode failures and encode validation failures are always
// one of these, wrapped with call-site context via fmt.Errorf's %w so
// errors.Is still matches the kind.
var (
	// ErrUnexpectedEnd means the input was exhausted mid-read.
	ErrUnexpectedEnd = errors.New("pack: unexpected end of input")

	// ErrTrailingBytes means a top-level decode left unconsumed bytes and
	// ignoreTrailing was false.
	ErrTrailingBytes = errors.New("pack: trailing bytes after top-level decode")

	// ErrNonCanonical means a VarInt was encoded below the minimum value
	// for its prefix, a checksum didn't verify, or (in debug mode) a
	// repacked value didn't match its input.
	ErrNonCanonical = errors.New("pack: non-canonical encoding")

	// ErrOutOfRange means an integer, fixed-string length, list element
	// count, or address was outside its descriptor's domain.
	ErrOutOfRange = errors.New("pack: value out of range")

	// ErrUnknownSymbol means an enum wire value has no name (decode) or a
	// name has no wire value (encode).
	ErrUnknownSymbol = errors.New("pack: unknown enum symbol")

	// ErrSentinelReserved means an Optional was asked to encode a present
	// value equal to its sentinel.
	ErrSentinelReserved = errors.New("pack: value equals optional sentinel")
)
