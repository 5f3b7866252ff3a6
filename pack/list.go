// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
)

// listDescriptor reads/writes a VarInt count followed by count*group
// elements. group lets a single VarInt count a tuple-grouped sequence (e.g.
// (name, value) pairs encoded back to back) instead of one element.
type listDescriptor struct {
	elem  Descriptor
	group int
}

// List returns a descriptor for a VarInt-counted sequence of elem values,
// group at a time. Pass group=1 for a plain list.
func List(elem Descriptor, group int) Descriptor {
	if group < 1 {
		panic("pack: List group must be >= 1")
	}
	return listDescriptor{elem: elem, group: group}
}

func (d listDescriptor) Read(c *Cursor) (interface{}, error) {
	lv, err := VarInt.Read(c)
	if err != nil {
		return nil, err
	}
	count := lv.(uint64) * uint64(d.group)
	if count > uint64(c.Remaining()) {
		return nil, ErrUnexpectedEnd
	}
	out := make([]interface{}, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := d.elem.Read(c)
		if err != nil {
			return nil, fmt.Errorf("pack: list element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (d listDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	items, err := toSlice(v)
	if err != nil {
		return err
	}
	if len(items)%d.group != 0 {
		return fmt.Errorf("pack: list %w: length %d is not a multiple of group %d", ErrOutOfRange, len(items), d.group)
	}
	if err := VarInt.Write(buf, uint64(len(items)/d.group)); err != nil {
		return err
	}
	for i, it := range items {
		if err := d.elem.Write(buf, it); err != nil {
			return fmt.Errorf("pack: list element %d: %w", i, err)
		}
	}
	return nil
}

func (d listDescriptor) PackedSize(v interface{}) (int, error) {
	items, err := toSlice(v)
	if err != nil {
		return 0, err
	}
	size, err := VarInt.PackedSize(uint64(len(items) / d.group))
	if err != nil {
		return 0, err
	}
	for i, it := range items {
		s, err := d.elem.PackedSize(it)
		if err != nil {
			return 0, fmt.Errorf("pack: list element %d: %w", i, err)
		}
		size += s
	}
	return size, nil
}

func (d listDescriptor) StructKey() uint64 {
	return memoHash('L', d.elem.StructKey(), uint64(d.group))
}
