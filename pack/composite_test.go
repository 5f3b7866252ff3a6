// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import "testing"

func TestCompositeRoundTrip(t *testing.T) {
	d := NewComposite(
		Field("version", Integer(32, true)),
		Field("nonce", Integer(64, true)),
		Field("name", VarStr),
	)

	in := map[string]interface{}{
		"version": uint64(1),
		"nonce":   uint64(0xdeadbeef),
		"name":    []byte("ping"),
	}

	encoded, err := Pack(d, in)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	decoded, err := Unpack(d, encoded, false)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	rec := decoded.(*Record)
	if !rec.Equal(in) {
		t.Errorf("decoded record %+v does not equal %+v", rec, in)
	}
	if rec.Get("version").(uint64) != 1 {
		t.Errorf("version = %v", rec.Get("version"))
	}
}

func TestCompositeMissingFieldFails(t *testing.T) {
	d := NewComposite(
		Field("a", Integer(8, false)),
		Field("b", Integer(8, false)),
	)
	if _, err := Pack(d, map[string]interface{}{"a": uint64(1)}); err == nil {
		t.Errorf("Pack with missing field should fail")
	}
}

func TestRecordEqualsPlainMap(t *testing.T) {
	rec := NewRecord([]string{"x", "y"})
	rec.Set("x", uint64(1))
	rec.Set("y", uint64(2))

	if !rec.Equal(map[string]interface{}{"x": uint64(1), "y": uint64(2)}) {
		t.Errorf("Record should equal an equivalent plain map")
	}
	if rec.Equal(map[string]interface{}{"x": uint64(1), "y": uint64(3)}) {
		t.Errorf("Record should not equal a map with a different value")
	}
}

func TestCompositePackedSizeMemoization(t *testing.T) {
	d := NewComposite(Field("v", Integer(32, true)))
	rec := NewRecord([]string{"v"})
	rec.Set("v", uint64(7))

	size1, err := d.PackedSize(rec)
	if err != nil {
		t.Fatalf("PackedSize: %v", err)
	}
	size2, err := d.PackedSize(rec)
	if err != nil {
		t.Fatalf("PackedSize (cached): %v", err)
	}
	if size1 != size2 || size1 != 4 {
		t.Errorf("PackedSize = %d, %d, want 4, 4", size1, size2)
	}
}
