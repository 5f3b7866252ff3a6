// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
)

// Debug enables the top-level repack self-check: every Unpack call repacks
// the decoded value and compares it against the bytes it consumed. It is a
// process-wide switch set by the caller (e.g. from a CLI flag), never
// inferred from build mode.
var Debug = false

// Descriptor is a type-driven codec. A Descriptor knows how to read a value
// of its shape from a Cursor, write a value back to a buffer, and report the
// size a value would occupy without encoding it twice. Descriptors are
// stateless and safe for concurrent use; implementations nest freely to
// build composite wire shapes.
type Descriptor interface {
	// Read decodes one value, advancing c. It returns ErrUnexpectedEnd (or
	// a wrapping of it) if c runs out of bytes first.
	Read(c *Cursor) (interface{}, error)

	// Write encodes v onto buf. v must be of the shape this Descriptor
	// expects; mismatched shapes return an error rather than panicking.
	Write(buf *bytes.Buffer, v interface{}) error

	// PackedSize reports len(Pack(d, v)) without allocating the encoding,
	// where that's cheaper than encoding; composites may still fall back
	// to a throwaway encode.
	PackedSize(v interface{}) (int, error)

	// StructKey returns a cheap, non-cryptographic structural identity for
	// this descriptor: two descriptors built with the same constructor and
	// parameters return the same key. Used only for memoization, never
	// part of the wire format.
	StructKey() uint64
}

// Cursor is a read-only cursor over an in-memory byte slice, used by
// Descriptor.Read. It never allocates or copies the backing slice.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for sequential reading from the start.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Next consumes and returns the next n bytes, or ErrUnexpectedEnd if fewer
// than n bytes remain. The returned slice aliases the cursor's backing
// array; callers that retain it beyond the current Read must copy it.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, ErrUnexpectedEnd
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Remaining reports how many bytes are left unconsumed.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Peek returns the next n bytes without consuming them, or ErrUnexpectedEnd
// if fewer than n bytes remain. Used by descriptors that branch on a
// following byte without committing to having read it (e.g. the
// transaction witness marker).
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, ErrUnexpectedEnd
	}
	return c.buf[c.pos : c.pos+n], nil
}

// Mark returns the current position, for later use with Since.
func (c *Cursor) Mark() int {
	return c.pos
}

// Since returns the bytes consumed since a previous Mark, without
// re-encoding them. Used by Checksummed to hash exactly what was read.
func (c *Cursor) Since(start int) []byte {
	return c.buf[start:c.pos]
}

// Pack encodes v with d and returns the resulting bytes.
func Pack(d Descriptor, v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unpack decodes data with d. If ignoreTrailing is false, any bytes left
// over after decoding the top-level value are rejected with
// ErrTrailingBytes. When Debug is set, Unpack additionally repacks the
// decoded value and compares it against data (a prefix comparison when
// ignoreTrailing is true, an exact comparison otherwise), surfacing
// non-canonical round-trips that a production build would silently accept.
func Unpack(d Descriptor, data []byte, ignoreTrailing bool) (interface{}, error) {
	c := NewCursor(data)
	v, err := d.Read(c)
	if err != nil {
		return nil, err
	}
	if !ignoreTrailing && c.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d byte(s) left over", ErrTrailingBytes, c.Remaining())
	}
	if Debug {
		repacked, err := Pack(d, v)
		if err != nil {
			return nil, fmt.Errorf("pack: debug repack: %w", err)
		}
		good := bytes.Equal(data, repacked)
		if ignoreTrailing {
			good = bytes.HasPrefix(data, repacked)
		}
		if !good {
			return nil, fmt.Errorf("pack: %w: repacked value does not reproduce input", ErrNonCanonical)
		}
	}
	return v, nil
}

// PackedSize reports the packed size of v under d.
func PackedSize(d Descriptor, v interface{}) (int, error) {
	return d.PackedSize(v)
}
