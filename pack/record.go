// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import "reflect"

// Record is the decoded value of a Composite descriptor: a fixed, ordered
// set of named fields with map-like access and value (not identity)
// equality, so a Record compares equal to a plain map[string]interface{}
// carrying the same field values.
type Record struct {
	names  []string
	values map[string]interface{}

	sizeKey   uint64
	sizeValid bool
	size      int
}

// NewRecord returns an empty record declaring the given field names, in
// declaration order.
func NewRecord(names []string) *Record {
	return &Record{
		names:  append([]string(nil), names...),
		values: make(map[string]interface{}, len(names)),
	}
}

// Get returns the named field's value, or nil if unset.
func (r *Record) Get(name string) interface{} {
	return r.values[name]
}

// Set assigns the named field's value, invalidating the cached packed size.
func (r *Record) Set(name string, v interface{}) {
	r.values[name] = v
	r.sizeValid = false
}

// Has reports whether the named field has been set.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Keys returns the record's field names in declaration order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.names...)
}

// Equal reports whether other is a *Record or map[string]interface{}
// carrying the same field values as r.
func (r *Record) Equal(other interface{}) bool {
	switch o := other.(type) {
	case *Record:
		if len(r.names) != len(o.names) {
			return false
		}
		for _, n := range r.names {
			if !reflect.DeepEqual(r.values[n], o.values[n]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		if len(o) != len(r.names) {
			return false
		}
		for _, n := range r.names {
			ov, ok := o[n]
			if !ok || !reflect.DeepEqual(r.values[n], ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (r *Record) cachedSize(key uint64) (int, bool) {
	if r.sizeValid && r.sizeKey == key {
		return r.size, true
	}
	return 0, false
}

func (r *Record) setCachedSize(key uint64, size int) {
	r.sizeKey = key
	r.size = size
	r.sizeValid = true
}
