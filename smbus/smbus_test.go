// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smbus

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

const addr uint16 = 0x72

func TestWrites(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{0x42}},
			{Addr: addr, W: []byte{0x7c, 0x2d}},
			{Addr: addr, W: []byte{0x7c, 0x2b, 0xff, 0x00, 0x80}},
		},
		DontPanic: true,
	}
	dev := New(pb, addr)

	if err := dev.WriteByte(0x42); err != nil {
		t.Error(err)
	}
	if err := dev.WriteByteData(0x7c, 0x2d); err != nil {
		t.Error(err)
	}
	if err := dev.WriteBlockData(0x7c, []byte{0x2b, 0xff, 0x00, 0x80}); err != nil {
		t.Error(err)
	}
	if err := pb.Close(); err != nil {
		t.Error(err)
	}
}

func TestWriteError(t *testing.T) {
	// An exhausted playback bus refuses the transaction.
	pb := &i2ctest.Playback{DontPanic: true}
	dev := New(pb, addr)

	err := dev.WriteByte(0x42)
	if err == nil {
		t.Fatal("expected an error")
	}
	var txErr *TxError
	if !errors.As(err, &txErr) {
		t.Fatalf("error type %T, expected *TxError", err)
	}
	if txErr.Unwrap() == nil {
		t.Error("TxError must carry its cause")
	}
	if len(err.Error()) == 0 {
		t.Error("empty Error()")
	}
}

func TestRecordedStream(t *testing.T) {
	// Record wraps Playback the way live-device debugging does; the adapter
	// must produce one bus transaction per operation.
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{0xfe, 0x80}},
		},
		DontPanic: true,
	}
	rec := &i2ctest.Record{Bus: pb}
	dev := New(rec, addr)

	if err := dev.WriteByteData(0xfe, 0x80); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 1 {
		t.Fatalf("recorded %d transactions, expected 1", len(rec.Ops))
	}
}

func TestString(t *testing.T) {
	dev := New(&i2ctest.Playback{DontPanic: true}, addr)
	if len(dev.String()) == 0 {
		t.Error("empty String()")
	}
}
