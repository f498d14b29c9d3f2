// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package smbus provides the write-side SMBus operations the SerLCD command
// protocol is built from, decoupled from the physical bus. Dev forwards the
// operations to a real I²C device; the smbustest package provides an
// in-memory implementation for hardware-free testing.
package smbus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Conn is the capability set a display controller needs from the bus: a
// plain byte write, a single register write, and a block register write.
// Each call either sends everything or reports a *TxError with nothing
// considered sent.
type Conn interface {
	WriteByte(value byte) error
	WriteByteData(reg, value byte) error
	WriteBlockData(reg byte, data []byte) error
}

// TxError is returned for any failed bus write. Production failures (NACK,
// timeout) and failures injected by smbustest.Record share this type, so
// error-handling paths behave identically under test.
type TxError struct {
	Cause error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("smbus: write failed: %v", e.Cause)
}

func (e *TxError) Unwrap() error {
	return e.Cause
}

// Dev implements Conn on top of a real I²C bus. Every operation maps to a
// single i2c.Dev.Tx write transaction.
type Dev struct {
	d *i2c.Dev
}

// New returns a Dev addressing the device at addr on bus.
func New(bus i2c.Bus, addr uint16) *Dev {
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}}
}

func (dev *Dev) WriteByte(value byte) error {
	return dev.tx([]byte{value})
}

func (dev *Dev) WriteByteData(reg, value byte) error {
	return dev.tx([]byte{reg, value})
}

func (dev *Dev) WriteBlockData(reg byte, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return dev.tx(w)
}

func (dev *Dev) tx(w []byte) error {
	if err := dev.d.Tx(w, nil); err != nil {
		return &TxError{Cause: err}
	}
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("smbus: %s", dev.d.String())
}

var _ Conn = &Dev{}
