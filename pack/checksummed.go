// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// checksummedDescriptor appends the first four bytes of double-SHA256 of
// inner's encoding after inner's own bytes, and verifies that trailer on
// decode. It hashes the exact bytes inner consumed from the cursor, not a
// re-encode of the decoded value, so a non-canonical-but-parseable inner
// encoding still checksums correctly.
type checksummedDescriptor struct {
	inner Descriptor
}

// Checksummed wraps inner with a trailing 4-byte double-SHA256 checksum.
func Checksummed(inner Descriptor) Descriptor {
	return checksummedDescriptor{inner: inner}
}

func (d checksummedDescriptor) Read(c *Cursor) (interface{}, error) {
	start := c.Mark()
	v, err := d.inner.Read(c)
	if err != nil {
		return nil, err
	}
	raw := c.Since(start)
	sum := chainhash.DoubleHashB(raw)

	got, err := c.Next(4)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sum[:4], got) {
		return nil, fmt.Errorf("pack: checksummed %w: checksum mismatch", ErrNonCanonical)
	}
	return v, nil
}

func (d checksummedDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	inner, err := Pack(d.inner, v)
	if err != nil {
		return err
	}
	buf.Write(inner)
	sum := chainhash.DoubleHashB(inner)
	buf.Write(sum[:4])
	return nil
}

func (d checksummedDescriptor) PackedSize(v interface{}) (int, error) {
	s, err := d.inner.PackedSize(v)
	if err != nil {
		return 0, err
	}
	return s + 4, nil
}

func (d checksummedDescriptor) StructKey() uint64 {
	return memoHash('K', d.inner.StructKey())
}
