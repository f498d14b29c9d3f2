// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package smbustest is a recording stand-in for a physical bus, in the
// spirit of periph's i2ctest. Record implements smbus.Conn, keeps an
// ordered log of every operation, and can be told to fail specific calls
// so that error paths are exercised without hardware.
package smbustest

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/serlcd/smbus"
)

// OpKind identifies which of the three smbus.Conn operations produced an Op.
type OpKind int

const (
	WriteByte OpKind = iota
	WriteByteData
	WriteBlockData
)

func (k OpKind) String() string {
	switch k {
	case WriteByte:
		return "WriteByte"
	case WriteByteData:
		return "WriteByteData"
	case WriteBlockData:
		return "WriteBlockData"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded bus operation. Reg is zero for WriteByte ops.
type Op struct {
	Kind OpKind
	Reg  byte
	Data []byte
}

// ByteOp returns the Op recorded for WriteByte(value).
func ByteOp(value byte) Op {
	return Op{Kind: WriteByte, Data: []byte{value}}
}

// RegOp returns the Op recorded for WriteByteData(reg, value).
func RegOp(reg, value byte) Op {
	return Op{Kind: WriteByteData, Reg: reg, Data: []byte{value}}
}

// BlockOp returns the Op recorded for WriteBlockData(reg, data).
func BlockOp(reg byte, data ...byte) Op {
	return Op{Kind: WriteBlockData, Reg: reg, Data: data}
}

// Equal reports whether two ops are the same operation with the same
// payload. Comparison is by value, not identity.
func (o Op) Equal(other Op) bool {
	return o.Kind == other.Kind && o.Reg == other.Reg && bytes.Equal(o.Data, other.Data)
}

func (o Op) String() string {
	switch o.Kind {
	case WriteByte:
		return fmt.Sprintf("WriteByte(%#02x)", o.Data[0])
	case WriteByteData:
		return fmt.Sprintf("WriteByteData(%#02x, %#02x)", o.Reg, o.Data[0])
	default:
		return fmt.Sprintf("WriteBlockData(%#02x, %#02x)", o.Reg, o.Data)
	}
}

// Record implements smbus.Conn and logs every call in order.
//
// A *Record is meant to be shared: hand the same pointer to the device under
// test and to the assertion code. All state is guarded by an internal mutex,
// so concurrent writes and inspections never observe a torn log.
//
// Every call is appended to the log BEFORE its outcome is decided. This is
// deliberately the opposite of a real bus: the attempt itself is the fact
// under test, so a call that fails is still recorded. Do not reorder.
//
// The outcome of each call is resolved in this order:
//  1. if the response queue is non-empty, its head is popped and returned;
//  2. else if a fail index is armed and this is the n-th call since arming
//     (zero-based), the call fails once and the trigger disarms;
//  3. else the call succeeds.
type Record struct {
	mu        sync.Mutex
	ops       []Op
	responses []error
	failAt    int // -1 when disarmed
	calls     int // calls since the fail index was armed
}

// NewRecord returns an empty Record with no failures armed.
func NewRecord() *Record {
	return &Record{failAt: -1}
}

func (r *Record) WriteByte(value byte) error {
	return r.record(ByteOp(value))
}

func (r *Record) WriteByteData(reg, value byte) error {
	return r.record(RegOp(reg, value))
}

func (r *Record) WriteBlockData(reg byte, data []byte) error {
	// Snapshot the payload so later mutation by the caller cannot
	// rewrite history.
	d := make([]byte, len(data))
	copy(d, data)
	return r.record(BlockOp(reg, d...))
}

func (r *Record) record(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)

	idx := r.calls
	r.calls++
	if len(r.responses) > 0 {
		resp := r.responses[0]
		r.responses = r.responses[1:]
		return resp
	}
	if r.failAt >= 0 && idx == r.failAt {
		r.failAt = -1
		return &smbus.TxError{Cause: fmt.Errorf("smbustest: injected failure at op %d", idx)}
	}
	return nil
}

// Ops returns a copy of the log in insertion order.
func (r *Record) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return ops
}

// Count returns the current log length.
func (r *Record) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// VerifyOps reports whether expected is an element-wise equal prefix of the
// log as accumulated so far.
func (r *Record) VerifyOps(expected ...Op) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(expected) > len(r.ops) {
		return false
	}
	for i, want := range expected {
		if !r.ops[i].Equal(want) {
			return false
		}
	}
	return true
}

// VerifyOpAt reports whether the log has an entry at index and it equals want.
func (r *Record) VerifyOpAt(index int, want Op) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.ops) {
		return false
	}
	return r.ops[index].Equal(want)
}

// SetFailAt arms the substitute to fail the n-th call made from now on,
// zero-based. The trigger fires once and disarms. A negative n disarms
// without firing.
func (r *Record) SetFailAt(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAt = n
	r.calls = 0
}

// AddResponse appends one pre-programmed outcome to the FIFO response
// queue. A nil error is a success. Queued responses take precedence over
// the fail index. Use *smbus.TxError values to stay indistinguishable from
// production failures.
func (r *Record) AddResponse(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, err)
}

// ClearOps empties the log. The fail index and response queue are left as
// they are.
func (r *Record) ClearOps() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}

// Err returns a *smbus.TxError with the given message, for use with
// AddResponse.
func Err(msg string) error {
	return &smbus.TxError{Cause: errors.New(msg)}
}

var _ smbus.Conn = &Record{}
