// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package pack

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

var ipv4MappedPrefix = [12]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

type ipAddressDescriptor struct{}

// IPAddress reads/writes a 16-byte address slot. If the first 12 bytes are
// the IPv4-mapped prefix (::ffff:0:0/96), the value is a dotted-quad IPv4
// string; otherwise it's 8 colon-separated lowercase hex groups (no
// zero-run compression on either read or write).
var IPAddress Descriptor = ipAddressDescriptor{}

func (ipAddressDescriptor) Read(c *Cursor) (interface{}, error) {
	data, err := c.Next(16)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data[:12], ipv4MappedPrefix[:]) {
		return fmt.Sprintf("%d.%d.%d.%d", data[12], data[13], data[14], data[15]), nil
	}
	groups := make([]string, 8)
	for i := 0; i < 8; i++ {
		groups[i] = fmt.Sprintf("%02x%02x", data[i*2], data[i*2+1])
	}
	return strings.Join(groups, ":"), nil
}

func (ipAddressDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("pack: ipaddress: expected a string, got %T", v)
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 8 {
			return fmt.Errorf("pack: ipaddress %w: expected 8 groups, got %d", ErrOutOfRange, len(parts))
		}
		data := make([]byte, 16)
		for i, p := range parts {
			n, err := strconv.ParseUint(p, 16, 16)
			if err != nil {
				return fmt.Errorf("pack: ipaddress %w: invalid group %q", ErrOutOfRange, p)
			}
			data[i*2] = byte(n >> 8)
			data[i*2+1] = byte(n)
		}
		buf.Write(data)
		return nil
	}

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return fmt.Errorf("pack: ipaddress %w: invalid address %q", ErrOutOfRange, s)
	}
	data := make([]byte, 16)
	copy(data[:12], ipv4MappedPrefix[:])
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return fmt.Errorf("pack: ipaddress %w: invalid octet %q", ErrOutOfRange, p)
		}
		data[12+i] = byte(n)
	}
	buf.Write(data)
	return nil
}

func (ipAddressDescriptor) PackedSize(interface{}) (int, error) { return 16, nil }

func (ipAddressDescriptor) StructKey() uint64 { return memoHash('A') }
