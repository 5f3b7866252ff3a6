// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package wire defines the domain message catalogue carried over the
// framing protocol: the handshake/gossip composites and the transaction
// descriptor, all built from the pack type-descriptor algebra.
package wire

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/dblokhin/p2pool/pack"
)

const sequenceFinal = uint64(0xffffffff)

// prevOutDescriptor encodes a transaction input's previous_output: a
// 32-byte hash followed by a 32-bit index, with the all-zero-hash /
// all-ones-index pair (Bitcoin's coinbase convention) decoding to nil
// rather than a visible record.
type prevOutDescriptor struct{}

func (prevOutDescriptor) Read(c *pack.Cursor) (interface{}, error) {
	start := c.Mark()
	hash, err := pack.FixedStr(32).Read(c)
	if err != nil {
		return nil, err
	}
	index, err := pack.Integer(32, true).Read(c)
	if err != nil {
		return nil, err
	}
	raw := c.Since(start)
	if isCoinbasePrevOut(raw) {
		return nil, nil
	}
	rec := pack.NewRecord([]string{"hash", "index"})
	rec.Set("hash", hash)
	rec.Set("index", index)
	return rec, nil
}

func isCoinbasePrevOut(raw []byte) bool {
	if len(raw) != 36 {
		return false
	}
	for _, b := range raw[:32] {
		if b != 0 {
			return false
		}
	}
	for _, b := range raw[32:] {
		if b != 0xff {
			return false
		}
	}
	return true
}

func (prevOutDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	if v == nil {
		buf.Write(make([]byte, 32))
		return pack.Integer(32, true).Write(buf, sequenceFinal)
	}
	hash, ok := getField(v, "hash")
	if !ok {
		return fmt.Errorf("wire: previous_output: missing field \"hash\"")
	}
	index, ok := getField(v, "index")
	if !ok {
		return fmt.Errorf("wire: previous_output: missing field \"index\"")
	}
	if err := pack.FixedStr(32).Write(buf, hash); err != nil {
		return err
	}
	return pack.Integer(32, true).Write(buf, index)
}

func (d prevOutDescriptor) PackedSize(v interface{}) (int, error) {
	encoded, err := pack.Pack(d, v)
	if err != nil {
		return 0, err
	}
	return len(encoded), nil
}

func (prevOutDescriptor) StructKey() uint64 { return 0x7075726f7574 }

// getField adapts *pack.Record or map[string]interface{} into a uniform
// (name) -> (value, present) accessor, matching pack's own composites.
func getField(v interface{}, name string) (interface{}, bool) {
	switch t := v.(type) {
	case *pack.Record:
		return t.Get(name), t.Has(name)
	case map[string]interface{}:
		fv, ok := t[name]
		return fv, ok
	default:
		return nil, false
	}
}

func toAnySlice(v interface{}) ([]interface{}, error) {
	if s, ok := v.([]interface{}); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("wire: expected a slice, got %T", v)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

var (
	txInput = pack.NewComposite(
		pack.Field("previous_output", prevOutDescriptor{}),
		pack.Field("script", pack.VarStr),
		pack.Field("sequence", pack.Optional(sequenceFinal, pack.Integer(32, true))),
	)
	txOutput = pack.NewComposite(
		pack.Field("value", pack.Integer(64, true)),
		pack.Field("script", pack.VarStr),
	)
	txInputsList  = pack.List(txInput, 1)
	txOutputsList = pack.List(txOutput, 1)
	witnessStack  = pack.List(pack.VarStr, 1)
)

// transactionDescriptor implements Bitcoin Core's consensus transaction
// serialization, including the BIP-141 witness extension. Record fields:
// version, tx_ins, tx_outs, lock_time always present; marker, flag, witness
// present together only when the transaction carries a witness extension.
type transactionDescriptor struct{}

// Transaction is the descriptor for a Bitcoin transaction, with or without
// the BIP-141 witness extension.
var Transaction pack.Descriptor = transactionDescriptor{}

var transactionFieldOrder = []string{"version", "marker", "flag", "tx_ins", "tx_outs", "witness", "lock_time"}

func (transactionDescriptor) Read(c *pack.Cursor) (interface{}, error) {
	version, err := pack.Integer(32, true).Read(c)
	if err != nil {
		return nil, fmt.Errorf("wire: transaction version: %w", err)
	}

	rec := pack.NewRecord(transactionFieldOrder)
	rec.Set("version", version)

	peek, err := c.Peek(1)
	witnessed := err == nil && peek[0] == 0
	if witnessed {
		if _, err := c.Next(1); err != nil {
			return nil, err
		}
		flagB, err := c.Next(1)
		if err != nil {
			return nil, fmt.Errorf("wire: transaction flag: %w", err)
		}
		rec.Set("marker", uint64(0))
		rec.Set("flag", uint64(flagB[0]))
	}

	ins, err := txInputsList.Read(c)
	if err != nil {
		return nil, fmt.Errorf("wire: transaction inputs: %w", err)
	}
	rec.Set("tx_ins", ins)

	outs, err := txOutputsList.Read(c)
	if err != nil {
		return nil, fmt.Errorf("wire: transaction outputs: %w", err)
	}
	rec.Set("tx_outs", outs)

	if witnessed {
		numInputs := len(ins.([]interface{}))
		witness := make([]interface{}, numInputs)
		for i := 0; i < numInputs; i++ {
			stack, err := witnessStack.Read(c)
			if err != nil {
				return nil, fmt.Errorf("wire: transaction witness %d: %w", i, err)
			}
			witness[i] = stack
		}
		rec.Set("witness", witness)
	}

	lockTime, err := pack.Integer(32, true).Read(c)
	if err != nil {
		return nil, fmt.Errorf("wire: transaction lock_time: %w", err)
	}
	rec.Set("lock_time", lockTime)

	return rec, nil
}

func (transactionDescriptor) Write(buf *bytes.Buffer, v interface{}) error {
	version, ok := getField(v, "version")
	if !ok {
		return fmt.Errorf("wire: transaction: missing field \"version\"")
	}
	if err := pack.Integer(32, true).Write(buf, version); err != nil {
		return err
	}

	_, hasMarker := getField(v, "marker")
	_, hasFlag := getField(v, "flag")
	witnessed := hasMarker && hasFlag

	if witnessed {
		buf.WriteByte(0)
		flag, _ := getField(v, "flag")
		flagByte, err := toByte(flag)
		if err != nil {
			return fmt.Errorf("wire: transaction flag: %w", err)
		}
		buf.WriteByte(flagByte)
	}

	ins, ok := getField(v, "tx_ins")
	if !ok {
		return fmt.Errorf("wire: transaction: missing field \"tx_ins\"")
	}
	if err := txInputsList.Write(buf, ins); err != nil {
		return fmt.Errorf("wire: transaction inputs: %w", err)
	}

	outs, ok := getField(v, "tx_outs")
	if !ok {
		return fmt.Errorf("wire: transaction: missing field \"tx_outs\"")
	}
	if err := txOutputsList.Write(buf, outs); err != nil {
		return fmt.Errorf("wire: transaction outputs: %w", err)
	}

	if witnessed {
		witness, ok := getField(v, "witness")
		if !ok {
			return fmt.Errorf("wire: transaction: missing field \"witness\"")
		}
		stacks, err := toAnySlice(witness)
		if err != nil {
			return fmt.Errorf("wire: transaction witness: %w", err)
		}
		for i, stack := range stacks {
			if err := witnessStack.Write(buf, stack); err != nil {
				return fmt.Errorf("wire: transaction witness %d: %w", i, err)
			}
		}
	}

	lockTime, ok := getField(v, "lock_time")
	if !ok {
		return fmt.Errorf("wire: transaction: missing field \"lock_time\"")
	}
	return pack.Integer(32, true).Write(buf, lockTime)
}

func (d transactionDescriptor) PackedSize(v interface{}) (int, error) {
	encoded, err := pack.Pack(d, v)
	if err != nil {
		return 0, err
	}
	return len(encoded), nil
}

func (transactionDescriptor) StructKey() uint64 { return 0x747848 }

func toByte(v interface{}) (byte, error) {
	switch n := v.(type) {
	case uint64:
		return byte(n), nil
	case uint8:
		return n, nil
	case int:
		return byte(n), nil
	default:
		return 0, fmt.Errorf("wire: expected an integer, got %T", v)
	}
}
