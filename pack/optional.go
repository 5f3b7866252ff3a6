// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
	"reflect"
)

// optionalDescriptor models a value whose absence is encoded as a
// designated sentinel in inner's decoded domain (e.g. the all-ones address
// meaning "no address"). A nil Go value encodes as the sentinel; encoding a
// present value equal to the sentinel is rejected rather than silently
// conflated with absence.
type optionalDescriptor struct {
	sentinel interface{}
	inner    Descriptor
}

// Optional returns a descriptor that maps inner's sentinel value to nil.
func Optional(sentinel interface{}, inner Descriptor) Descriptor {
	return optionalDescriptor{sentinel: sentinel, inner: inner}
}

func (d optionalDescriptor) Read(c *Cursor) (interface{}, error) {
	v, err := d.inner.Read(c)
	if err != nil {
		return nil, err
	}
	if reflect.DeepEqual(v, d.sentinel) {
		return nil, nil
	}
	return v, nil
}

func (d optionalDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	if v == nil {
		return d.inner.Write(buf, d.sentinel)
	}
	if reflect.DeepEqual(v, d.sentinel) {
		return fmt.Errorf("pack: optional: %w", ErrSentinelReserved)
	}
	return d.inner.Write(buf, v)
}

func (d optionalDescriptor) PackedSize(v interface{}) (int, error) {
	if v == nil {
		return d.inner.PackedSize(d.sentinel)
	}
	return d.inner.PackedSize(v)
}

func (d optionalDescriptor) StructKey() uint64 {
	return memoHash('O', d.inner.StructKey())
}
