// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package p2p

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/dblokhin/p2pool/pack"
)

var testMagic = []byte{0xf9, 0xbe, 0xb4, 0xd9}

func frameFor(t *testing.T, command string, payload []byte) []byte {
	t.Helper()
	return buildFrame(testMagic, command, payload)
}

func newTestDeframer(t *testing.T) (*deframer, *[]interface{}) {
	t.Helper()
	reg := NewRegistry()
	if err := reg.Register("ping", pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	var got []interface{}
	df := newDeframer(testMagic, 1<<20, reg)
	df.dispatch = func(command string, body interface{}) {
		got = append(got, body)
	}
	return df, &got
}

func TestDeframerSingleFrameWholeChunk(t *testing.T) {
	df, got := newTestDeframer(t)
	payload, err := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(7)})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	frame := frameFor(t, "ping", payload)

	df.onBytes(frame)

	if len(*got) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(*got))
	}
}

func TestDeframerArbitraryChunkBoundaries(t *testing.T) {
	df, got := newTestDeframer(t)
	payload, err := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(99)})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	frame := frameFor(t, "ping", payload)

	// Feed the frame one byte at a time to exercise every possible split
	// point across HUNT, HEADER and BODY.
	for _, b := range frame {
		df.onBytes([]byte{b})
	}

	if len(*got) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(*got))
	}
}

func TestDeframerTwoFramesBackToBackInOneChunk(t *testing.T) {
	df, got := newTestDeframer(t)
	desc := pack.NewComposite(pack.Field("nonce", pack.Integer(64, true)))
	p1, _ := pack.Pack(desc, map[string]interface{}{"nonce": uint64(1)})
	p2, _ := pack.Pack(desc, map[string]interface{}{"nonce": uint64(2)})
	combined := append(frameFor(t, "ping", p1), frameFor(t, "ping", p2)...)

	df.onBytes(combined)

	if len(*got) != 2 {
		t.Fatalf("dispatched = %d, want 2", len(*got))
	}
}

func TestDeframerJunkBeforeMagicIsSkipped(t *testing.T) {
	df, got := newTestDeframer(t)
	payload, _ := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(5)})
	frame := frameFor(t, "ping", payload)
	junk := []byte{0x00, 0x01, 0xf9, 0xbe, 0x00}

	df.onBytes(append(junk, frame...))

	if len(*got) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(*got))
	}
}

func TestDeframerBadChecksumCallsBadPeerAndResumesHunt(t *testing.T) {
	df, got := newTestDeframer(t)
	var badPeerReason string
	df.onBadPeer = func(reason string) { badPeerReason = reason }

	payload, _ := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(3)})
	frame := frameFor(t, "ping", payload)
	// Corrupt the checksum field only (after magic, command and length).
	frame[4+12+4] ^= 0xff

	df.onBytes(frame)

	if badPeerReason == "" {
		t.Fatalf("expected BadPeerHook to fire")
	}
	if len(*got) != 0 {
		t.Fatalf("dispatched = %d, want 0 for bad checksum", len(*got))
	}

	// The deframer must still be ready to hunt for the next frame.
	if df.state != stateHunt {
		t.Fatalf("state after bad checksum = %v, want stateHunt", df.state)
	}
}

func TestDeframerOversizeLengthReturnsToHuntWithoutBuffering(t *testing.T) {
	df, got := newTestDeframer(t)
	df.maxPayloadLen = 4

	payload, _ := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(9)})
	frame := frameFor(t, "ping", payload)

	df.onBytes(frame)

	if df.state != stateHunt {
		t.Fatalf("state after oversize length = %v, want stateHunt", df.state)
	}
	if len(*got) != 0 {
		t.Fatalf("dispatched = %d, want 0", len(*got))
	}
}

func TestDeframerUnknownCommandIsSilentlyDropped(t *testing.T) {
	df, got := newTestDeframer(t)
	frame := frameFor(t, "nosuchcmd", []byte{1, 2, 3})

	df.onBytes(frame)

	if len(*got) != 0 {
		t.Fatalf("dispatched = %d, want 0 for unknown command", len(*got))
	}
	if df.state != stateHunt {
		t.Fatalf("state = %v, want stateHunt", df.state)
	}
}

func TestDeframerDecodeFailureDisconnects(t *testing.T) {
	df, got := newTestDeframer(t)
	var disconnected bool
	df.disconnect = func() { disconnected = true }

	// "ping" expects 8 bytes; give it 2, wrapped in a correctly checksummed
	// frame so it reaches the decode step and fails there.
	badPayload := []byte{0x01, 0x02}
	sum := chainhash.DoubleHashB(badPayload)
	frame := append(append([]byte{}, testMagic...), make([]byte, 12)...)
	copy(frame[4:], "ping")
	lenField := make([]byte, 4)
	lenField[0] = byte(len(badPayload))
	frame = append(frame, lenField...)
	frame = append(frame, sum[:4]...)
	frame = append(frame, badPayload...)

	df.onBytes(frame)

	if !disconnected {
		t.Fatalf("expected disconnect on decode failure")
	}
	if len(*got) != 0 {
		t.Fatalf("dispatched = %d, want 0", len(*got))
	}
}

func TestDeframerTrafficHookSeesByteCount(t *testing.T) {
	df, _ := newTestDeframer(t)
	var total int
	df.onTrafficIn = func(n int) { total += n }

	df.onBytes([]byte{1, 2, 3})
	df.onBytes([]byte{4, 5})

	if total != 5 {
		t.Errorf("total traffic = %d, want 5", total)
	}
}

func TestHuntWindowHandlesPartialMagicThenGarbageThenMagic(t *testing.T) {
	df, got := newTestDeframer(t)
	payload, _ := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(11)})
	frame := frameFor(t, "ping", payload)

	// Partial magic prefix, then a byte that breaks the match, then the
	// real frame.
	df.onBytes([]byte{0xf9, 0xbe, 0x00})
	df.onBytes(frame)

	if len(*got) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(*got))
	}
}

func TestDeframerRejectsTrailingBytesByDefault(t *testing.T) {
	df, got := newTestDeframer(t)
	var disconnected bool
	df.disconnect = func() { disconnected = true }

	payload, _ := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(1)})
	withJunk := append(append([]byte{}, payload...), 0xde, 0xad)
	frame := frameFor(t, "ping", withJunk)

	df.onBytes(frame)

	if !disconnected {
		t.Fatalf("expected disconnect on trailing bytes when ignoreTrailing is false")
	}
	if len(*got) != 0 {
		t.Fatalf("dispatched = %d, want 0", len(*got))
	}
}

func TestDeframerIgnoreTrailingAcceptsExtraBytes(t *testing.T) {
	df, got := newTestDeframer(t)
	df.ignoreTrailing = true

	payload, _ := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(1)})
	withJunk := append(append([]byte{}, payload...), 0xde, 0xad)
	frame := frameFor(t, "ping", withJunk)

	df.onBytes(frame)

	if len(*got) != 1 {
		t.Fatalf("dispatched = %d, want 1 with ignoreTrailing set", len(*got))
	}
}

// panicDescriptor simulates a Descriptor bug tripped by a malformed or
// adversarial body: Read panics instead of returning an error.
type panicDescriptor struct{}

func (panicDescriptor) Read(c *pack.Cursor) (interface{}, error) {
	panic("boom")
}
func (panicDescriptor) Write(buf *bytes.Buffer, v interface{}) error { return nil }
func (panicDescriptor) PackedSize(v interface{}) (int, error)        { return 0, nil }
func (panicDescriptor) StructKey() uint64                            { return 0x70616e6963 }

func TestDeframerRecoversFromDecodePanicAndDisconnects(t *testing.T) {
	df, got := newTestDeframer(t)
	if err := df.registry.Register("boom", panicDescriptor{}, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	var disconnected bool
	df.disconnect = func() { disconnected = true }

	frame := frameFor(t, "boom", []byte{1, 2, 3})

	df.onBytes(frame)

	if !disconnected {
		t.Fatalf("expected disconnect after decode panic")
	}
	if len(*got) != 0 {
		t.Fatalf("dispatched = %d, want 0", len(*got))
	}
	// The deframer itself must survive the panic and be ready to hunt again.
	if df.state != stateHunt {
		t.Fatalf("state after decode panic = %v, want stateHunt", df.state)
	}
}

func TestBuildFrameRoundTripsThroughDeframer(t *testing.T) {
	df, got := newTestDeframer(t)
	payload, _ := pack.Pack(pack.NewComposite(pack.Field("nonce", pack.Integer(64, true))), map[string]interface{}{"nonce": uint64(123456)})
	frame := buildFrame(testMagic, "ping", payload)

	if !bytes.HasPrefix(frame, testMagic) {
		t.Fatalf("frame does not start with magic")
	}

	df.onBytes(frame)
	if len(*got) != 1 {
		t.Fatalf("dispatched = %d, want 1", len(*got))
	}
}
