// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smbustest

import (
	"errors"
	"sync"
	"testing"

	"github.com/GermanBionicSystems/serlcd/smbus"
)

func TestRecordsOps(t *testing.T) {
	rec := NewRecord()

	if err := rec.WriteByte(0x42); err != nil {
		t.Fatal(err)
	}
	if err := rec.WriteByteData(0x10, 0x20); err != nil {
		t.Fatal(err)
	}
	if err := rec.WriteBlockData(0x30, []byte{0x40, 0x50}); err != nil {
		t.Fatal(err)
	}

	ops := rec.Ops()
	if len(ops) != 3 {
		t.Fatalf("len(ops) = %d, expected 3", len(ops))
	}
	if !ops[0].Equal(ByteOp(0x42)) {
		t.Errorf("ops[0] = %s", ops[0])
	}
	if !ops[1].Equal(RegOp(0x10, 0x20)) {
		t.Errorf("ops[1] = %s", ops[1])
	}
	if !ops[2].Equal(BlockOp(0x30, 0x40, 0x50)) {
		t.Errorf("ops[2] = %s", ops[2])
	}
	if rec.Count() != 3 {
		t.Errorf("Count() = %d", rec.Count())
	}
}

func TestBlockDataSnapshot(t *testing.T) {
	rec := NewRecord()
	data := []byte{1, 2, 3}
	if err := rec.WriteBlockData(0x10, data); err != nil {
		t.Fatal(err)
	}
	data[0] = 99
	if !rec.VerifyOpAt(0, BlockOp(0x10, 1, 2, 3)) {
		t.Errorf("log entry mutated through the caller's slice: %s", rec.Ops()[0])
	}
}

func TestFailAt(t *testing.T) {
	rec := NewRecord()
	rec.SetFailAt(1)

	if err := rec.WriteByte(0x42); err != nil {
		t.Errorf("call 0 = %v", err)
	}
	err := rec.WriteByte(0x43)
	var txErr *smbus.TxError
	if !errors.As(err, &txErr) {
		t.Fatalf("call 1 = %v, expected *smbus.TxError", err)
	}
	// Fires once, then disarms.
	if err := rec.WriteByte(0x44); err != nil {
		t.Errorf("call 2 = %v", err)
	}

	// All three attempts recorded, including the failed one.
	if rec.Count() != 3 {
		t.Errorf("Count() = %d, expected 3", rec.Count())
	}

	// Re-arming restarts the call counter.
	rec.SetFailAt(0)
	if err := rec.WriteByte(0x45); err == nil {
		t.Error("call after re-arming at 0 succeeded")
	}

	// Negative disarms.
	rec.SetFailAt(0)
	rec.SetFailAt(-1)
	if err := rec.WriteByte(0x46); err != nil {
		t.Errorf("call after disarm = %v", err)
	}
}

func TestResponseQueueFIFO(t *testing.T) {
	rec := NewRecord()
	rec.AddResponse(nil)
	rec.AddResponse(Err("device busy"))
	rec.AddResponse(nil)

	if err := rec.WriteByte(1); err != nil {
		t.Errorf("response 0 = %v", err)
	}
	err := rec.WriteByte(2)
	if err == nil {
		t.Fatal("response 1: expected error")
	}
	var txErr *smbus.TxError
	if !errors.As(err, &txErr) {
		t.Errorf("response 1 type %T, expected *smbus.TxError", err)
	}
	if err := rec.WriteByte(3); err != nil {
		t.Errorf("response 2 = %v", err)
	}
	// Queue exhausted, back to plain success.
	if err := rec.WriteByte(4); err != nil {
		t.Errorf("post-queue call = %v", err)
	}
}

func TestResponsePrecedence(t *testing.T) {
	rec := NewRecord()
	rec.SetFailAt(0)
	rec.AddResponse(nil)

	// The queued success wins over the armed fail index.
	if err := rec.WriteByte(1); err != nil {
		t.Errorf("queued response did not take precedence: %v", err)
	}
}

func TestVerifyOps(t *testing.T) {
	rec := NewRecord()
	_ = rec.WriteByte(0x42)
	_ = rec.WriteByteData(0x10, 0x20)
	_ = rec.WriteBlockData(0x30, []byte{1})

	if !rec.VerifyOps() {
		t.Error("empty expectation must match")
	}
	if !rec.VerifyOps(ByteOp(0x42)) {
		t.Error("single element prefix must match")
	}
	if !rec.VerifyOps(ByteOp(0x42), RegOp(0x10, 0x20)) {
		t.Error("two element prefix must match")
	}
	if !rec.VerifyOps(ByteOp(0x42), RegOp(0x10, 0x20), BlockOp(0x30, 1)) {
		t.Error("full log must match")
	}
	if rec.VerifyOps(ByteOp(0x43)) {
		t.Error("mismatched element matched")
	}
	if rec.VerifyOps(RegOp(0x10, 0x20)) {
		t.Error("out of order prefix matched")
	}
	if rec.VerifyOps(ByteOp(0x42), RegOp(0x10, 0x20), BlockOp(0x30, 1), ByteOp(0x99)) {
		t.Error("expectation longer than the log matched")
	}
}

func TestVerifyOpAt(t *testing.T) {
	rec := NewRecord()
	_ = rec.WriteByte(0x42)

	if !rec.VerifyOpAt(0, ByteOp(0x42)) {
		t.Error("index 0 must match")
	}
	if rec.VerifyOpAt(0, ByteOp(0x43)) {
		t.Error("wrong value matched")
	}
	if rec.VerifyOpAt(1, ByteOp(0x42)) {
		t.Error("index past the log matched")
	}
	if rec.VerifyOpAt(-1, ByteOp(0x42)) {
		t.Error("negative index matched")
	}
}

func TestClearOps(t *testing.T) {
	rec := NewRecord()
	_ = rec.WriteByte(0x42)
	rec.ClearOps()
	if rec.Count() != 0 {
		t.Errorf("Count() after ClearOps = %d", rec.Count())
	}
}

func TestSharedHandles(t *testing.T) {
	rec := NewRecord()
	var c smbus.Conn = rec

	// The Conn handle and the Record handle share one log.
	if err := c.WriteByte(0x42); err != nil {
		t.Fatal(err)
	}
	if !rec.VerifyOpAt(0, ByteOp(0x42)) {
		t.Error("write through the Conn handle not visible in the log")
	}
}

func TestConcurrentAccess(t *testing.T) {
	rec := NewRecord()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = rec.WriteByte(byte(j))
				_ = rec.Count()
				_ = rec.Ops()
			}
		}()
	}
	wg.Wait()
	if rec.Count() != 800 {
		t.Errorf("Count() = %d, expected 800", rec.Count())
	}
}

func TestOpString(t *testing.T) {
	for _, op := range []Op{ByteOp(1), RegOp(2, 3), BlockOp(4, 5, 6)} {
		if len(op.String()) == 0 {
			t.Errorf("empty String() for kind %s", op.Kind)
		}
	}
}
