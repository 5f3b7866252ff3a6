// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
)

// enumDescriptor is a bijection between symbolic names and the wire values
// inner encodes. names maps each symbolic name to its wire value; the
// reverse map is built once at construction and duplicate wire values are
// rejected there rather than discovered on first decode.
type enumDescriptor struct {
	inner      Descriptor
	nameToWire map[string]interface{}
	wireToName map[interface{}]string
}

// NewEnum returns a descriptor that encodes/decodes symbolic names over
// inner's wire values. It panics if two names share a wire value, since
// that would make decoding ambiguous.
func NewEnum(inner Descriptor, names map[string]interface{}) Descriptor {
	wireToName := make(map[interface{}]string, len(names))
	for name, wire := range names {
		if other, dup := wireToName[wire]; dup {
			panic(fmt.Sprintf("pack: enum: wire value %v claimed by both %q and %q", wire, other, name))
		}
		wireToName[wire] = name
	}
	nameToWire := make(map[string]interface{}, len(names))
	for name, wire := range names {
		nameToWire[name] = wire
	}
	return &enumDescriptor{inner: inner, nameToWire: nameToWire, wireToName: wireToName}
}

func (d *enumDescriptor) Read(c *Cursor) (interface{}, error) {
	wire, err := d.inner.Read(c)
	if err != nil {
		return nil, err
	}
	name, ok := d.wireToName[wire]
	if !ok {
		return nil, fmt.Errorf("pack: enum %w: wire value %v", ErrUnknownSymbol, wire)
	}
	return name, nil
}

func (d *enumDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	name, ok := v.(string)
	if !ok {
		return fmt.Errorf("pack: enum: expected a string name, got %T", v)
	}
	wire, ok := d.nameToWire[name]
	if !ok {
		return fmt.Errorf("pack: enum %w: name %q", ErrUnknownSymbol, name)
	}
	return d.inner.Write(buf, wire)
}

func (d *enumDescriptor) PackedSize(v interface{}) (int, error) {
	name, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("pack: enum: expected a string name, got %T", v)
	}
	wire, ok := d.nameToWire[name]
	if !ok {
		return 0, fmt.Errorf("pack: enum %w: name %q", ErrUnknownSymbol, name)
	}
	return d.inner.PackedSize(wire)
}

func (d *enumDescriptor) StructKey() uint64 {
	return memoHash('E', d.inner.StructKey(), uint64(len(d.nameToWire)))
}
