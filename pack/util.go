// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"fmt"
	"math/big"
	"reflect"
)

// toUint64 adapts the handful of integer Go types callers realistically pass
// (uint64 itself, plus the smaller unsigned and signed kinds) into a uint64,
// rejecting negative values up front.
func toUint64(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("pack: %w: negative value %d", ErrOutOfRange, n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("pack: %w: negative value %d", ErrOutOfRange, n)
		}
		return uint64(n), nil
	case int32:
		if n < 0 {
			return 0, fmt.Errorf("pack: %w: negative value %d", ErrOutOfRange, n)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("pack: expected an unsigned integer, got %T", v)
	}
}

// toBigInt adapts a value into a *big.Int for the wide-integer path,
// accepting everything toUint64 does plus a *big.Int directly.
func toBigInt(v interface{}) (*big.Int, error) {
	if bi, ok := v.(*big.Int); ok {
		return bi, nil
	}
	n, err := toUint64(v)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(n), nil
}

// toBytes adapts a value into a byte slice for the string-shaped
// descriptors (VarStr, FixedStr).
func toBytes(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("pack: expected a byte slice, got %T", v)
	}
}

// toSlice adapts a value into a []interface{} for List, accepting both the
// generic slice shape produced by List.Read and any concrete Go slice type
// (e.g. []uint32) a caller hands to List.Write.
func toSlice(v interface{}) ([]interface{}, error) {
	if s, ok := v.([]interface{}); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("pack: expected a slice, got %T", v)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
