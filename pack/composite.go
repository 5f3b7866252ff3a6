// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
)

// CompositeField names one field of a Composite: its wire order is the
// order fields are passed to NewComposite.
type CompositeField struct {
	Name string
	Desc Descriptor
}

// Field is a convenience constructor for a CompositeField.
func Field(name string, d Descriptor) CompositeField {
	return CompositeField{Name: name, Desc: d}
}

// compositeDescriptor concatenates an ordered sequence of named fields.
// Reads produce a *Record; writes accept a *Record or a
// map[string]interface{} holding at least the declared field names.
type compositeDescriptor struct {
	fields []CompositeField
	names  []string
	key    uint64
}

// NewComposite returns a descriptor over an ordered sequence of named
// fields, read and written in declaration order.
func NewComposite(fields ...CompositeField) Descriptor {
	names := make([]string, len(fields))
	keyParts := make([]uint64, 0, len(fields)*2)
	for i, f := range fields {
		names[i] = f.Name
		keyParts = append(keyParts, stringHash(f.Name), f.Desc.StructKey())
	}
	return &compositeDescriptor{
		fields: fields,
		names:  names,
		key:    memoHash('C', keyParts...),
	}
}

func (d *compositeDescriptor) Read(c *Cursor) (interface{}, error) {
	rec := NewRecord(d.names)
	for _, f := range d.fields {
		v, err := f.Desc.Read(c)
		if err != nil {
			return nil, fmt.Errorf("pack: composite field %q: %w", f.Name, err)
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}

func (d *compositeDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	get, err := fieldGetter(v)
	if err != nil {
		return err
	}
	for _, f := range d.fields {
		fv, ok := get(f.Name)
		if !ok {
			return fmt.Errorf("pack: composite: missing field %q", f.Name)
		}
		if err := f.Desc.Write(buf, fv); err != nil {
			return fmt.Errorf("pack: composite field %q: %w", f.Name, err)
		}
	}
	return nil
}

func (d *compositeDescriptor) PackedSize(v interface{}) (int, error) {
	if rec, ok := v.(*Record); ok {
		if size, ok := rec.cachedSize(d.key); ok {
			return size, nil
		}
	}
	get, err := fieldGetter(v)
	if err != nil {
		return 0, err
	}
	size := 0
	for _, f := range d.fields {
		fv, ok := get(f.Name)
		if !ok {
			return 0, fmt.Errorf("pack: composite: missing field %q", f.Name)
		}
		s, err := f.Desc.PackedSize(fv)
		if err != nil {
			return 0, fmt.Errorf("pack: composite field %q: %w", f.Name, err)
		}
		size += s
	}
	if rec, ok := v.(*Record); ok {
		rec.setCachedSize(d.key, size)
	}
	return size, nil
}

func (d *compositeDescriptor) StructKey() uint64 { return d.key }

// fieldGetter adapts *Record or map[string]interface{} into a uniform
// (name) -> (value, present) accessor.
func fieldGetter(v interface{}) (func(string) (interface{}, bool), error) {
	switch t := v.(type) {
	case *Record:
		return func(name string) (interface{}, bool) {
			return t.values[name], t.Has(name)
		}, nil
	case map[string]interface{}:
		return func(name string) (interface{}, bool) {
			fv, ok := t[name]
			return fv, ok
		}, nil
	default:
		return nil, fmt.Errorf("pack: composite: unsupported value type %T", v)
	}
}
