// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package serlcd drives the SparkFun SerLCD intelligent LCD display over
// I²C. Implements conn.display.TextDisplay.
//
// The controller talks to the bus through the smbus.Conn contract, so the
// whole command set can be exercised against smbustest.Record without
// hardware. It keeps a mirror of the device's display-control and
// entry-mode bits; the mirror is only advanced when the corresponding bus
// write succeeds, so it never claims a state the panel did not acknowledge.
//
// # Datasheet
//
// https://learn.sparkfun.com/tutorials/avr-based-serial-enabled-lcds-hookup-guide
package serlcd

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/GermanBionicSystems/serlcd/common"
	"github.com/GermanBionicSystems/serlcd/smbus"
)

const (
	DefaultI2CAddress uint16 = 0x72

	packageName = "serlcd"
)

var ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)

// Config is the screen geometry plus the function-set bits for Init. It is
// fixed at construction. The zero value of the function-set fields selects
// a 4-bit, single line, 5x8 panel; use DefaultConfig for the common 20x4
// module.
type Config struct {
	Rows int
	Cols int

	Interface BitMode
	Lines     LineCount
	Font      FontSize
}

// DefaultConfig returns the configuration of the stock 20x4 SerLCD.
func DefaultConfig() Config {
	return Config{Rows: 4, Cols: 20, Interface: Bit8, Lines: Lines2, Font: Font5x8}
}

// InitError is returned by New when the bus cannot be opened. The Dev is
// unusable; construct a new one.
type InitError struct {
	Bus   string
	Addr  uint16
	Cause error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: opening bus %q addr %#02x: %v", packageName, e.Bus, e.Addr, e.Cause)
}

func (e *InitError) Unwrap() error {
	return e.Cause
}

// RangeError is returned when a caller-supplied coordinate, slot or pattern
// size is out of bounds. It is raised before any bus traffic, so retrying
// with corrected input is always safe.
type RangeError struct {
	Op       string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s: %d out of range [%d, %d]", packageName, e.Op, e.Value, e.Min, e.Max)
}

// displayState mirrors the bits last accepted by the panel.
type displayState struct {
	power  Power
	cursor CursorState
	blink  BlinkState
	dir    Direction
	scroll Shift
}

// Dev is a handle to a SerLCD display.
type Dev struct {
	c    smbus.Conn
	conf Config

	state    displayState
	row, col int
	errored  bool
}

// New opens busName (use "" for the first available bus) and returns a Dev
// addressing the display at addr. host.Init must have been called. No bytes
// are written to the display; call Init for the power-up sequence.
func New(conf Config, busName string, addr uint16) (*Dev, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, &InitError{Bus: busName, Addr: addr, Cause: err}
	}
	return NewWithTransport(conf, smbus.New(bus, addr)), nil
}

// NewWithTransport returns a Dev talking through c. It performs no I/O and
// cannot fail; it is how tests inject an smbustest.Record. Non-positive
// geometry falls back to the 20x4 default.
func NewWithTransport(conf Config, c smbus.Conn) *Dev {
	if conf.Rows <= 0 {
		conf.Rows = 4
	}
	if conf.Cols <= 0 {
		conf.Cols = 20
	}
	return &Dev{
		c:    c,
		conf: conf,
		// The panel powers up with display, cursor and blink enabled.
		state: displayState{
			power:  DisplayOn,
			cursor: CursorVisible,
			blink:  BlinkOn,
			dir:    TextLeftToRight,
			scroll: AutoScrollOff,
		},
	}
}

// Init runs the power-up sequence: wake, function set from the Config bits,
// display control, clear. The panel needs a moment to settle afterwards.
func (dev *Dev) Init() error {
	for _, b := range []byte{0x03, 0x03, 0x03, 0x02} {
		if err := dev.send(dev.c.WriteByte(b)); err != nil {
			return err
		}
	}
	fn := cmdFunctionSet | byte(dev.conf.Interface) | byte(dev.conf.Lines) | byte(dev.conf.Font)
	if err := dev.send(dev.c.WriteByteData(specialReg, fn)); err != nil {
		return err
	}
	if err := dev.applyDisplayControl(dev.state); err != nil {
		return err
	}
	if err := dev.Clear(); err != nil {
		return err
	}
	time.Sleep(200 * time.Millisecond)
	return nil
}

// send records transport failures in the sticky error flag.
func (dev *Dev) send(err error) error {
	if err != nil {
		dev.errored = true
	}
	return err
}

func (dev *Dev) applyDisplayControl(st displayState) error {
	val := cmdDisplayControl | byte(st.power) | byte(st.cursor) | byte(st.blink)
	return dev.send(dev.c.WriteByteData(specialReg, val))
}

func (dev *Dev) applyEntryMode(st displayState) error {
	val := cmdEntryModeSet | byte(st.dir) | byte(st.scroll)
	return dev.send(dev.c.WriteByteData(specialReg, val))
}

// Clear blanks the display. On success the mirrored cursor position is back
// at the origin and the sticky error flag is reset.
func (dev *Dev) Clear() error {
	if err := dev.send(dev.c.WriteByteData(settingReg, cmdClearDisplay)); err != nil {
		return err
	}
	dev.row, dev.col = 0, 0
	dev.errored = false
	time.Sleep(2 * time.Millisecond)
	return nil
}

// Home moves the cursor to the origin without clearing the contents.
func (dev *Dev) Home() error {
	if err := dev.send(dev.c.WriteByteData(specialReg, cmdReturnHome)); err != nil {
		return err
	}
	dev.row, dev.col = 0, 0
	time.Sleep(2 * time.Millisecond)
	return nil
}

// MoveTo moves the cursor to an arbitrary position, zero based. Positions
// outside the configured geometry return a *RangeError without touching the
// bus.
func (dev *Dev) MoveTo(row, col int) error {
	maxRow := dev.conf.Rows
	if maxRow > len(rowOffsets) {
		maxRow = len(rowOffsets)
	}
	if row < 0 || row >= maxRow {
		return &RangeError{Op: "MoveTo row", Value: row, Min: 0, Max: maxRow - 1}
	}
	if col < 0 || col >= dev.conf.Cols {
		return &RangeError{Op: "MoveTo col", Value: col, Min: 0, Max: dev.conf.Cols - 1}
	}
	val := cmdSetDDRAMAddr | (rowOffsets[row] + byte(col))
	if err := dev.send(dev.c.WriteByteData(specialReg, val)); err != nil {
		return err
	}
	dev.row, dev.col = row, col
	return nil
}

// Write sends p to the display one character per bus write, stopping at the
// first failure. Characters already sent stay on the panel; there is no
// undo.
func (dev *Dev) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := dev.send(dev.c.WriteByte(b)); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Write a string output to the display.
func (dev *Dev) WriteString(text string) (int, error) {
	return dev.Write([]byte(text))
}

// Set the backlight color with 0 being off, and 255 being maximum intensity
// for each color.
func (dev *Dev) RGBBacklight(red, green, blue display.Intensity) error {
	block := []byte{cmdSetRGB, byte(red & 0xff), byte(green & 0xff), byte(blue & 0xff)}
	return dev.send(dev.c.WriteBlockData(settingReg, block))
}

// Set the backlight intensity with 0 being off, and 255 being maximum.
func (dev *Dev) Backlight(intensity display.Intensity) error {
	return dev.RGBBacklight(intensity, intensity, intensity)
}

// Contrast sets the character contrast. Values outside the native 0-255
// range are scaled in rather than rejected. Writes to EEPROM, so use
// sparingly; the factory default is 40.
func (dev *Dev) Contrast(contrast display.Contrast) error {
	lv := byte(common.Map(int(contrast), 0, 0xff, 0, 0xff))
	return dev.send(dev.c.WriteBlockData(settingReg, []byte{cmdContrast, lv}))
}

// CreateChar stores a 5x8 glyph in one of the 8 custom character slots. The
// pattern is one byte per row, low 5 bits; high bits are ignored by the
// panel. Print the glyph by writing its slot number.
func (dev *Dev) CreateChar(slot int, pattern []byte) error {
	if slot < 0 || slot >= GlyphSlots {
		return &RangeError{Op: "CreateChar slot", Value: slot, Min: 0, Max: GlyphSlots - 1}
	}
	if len(pattern) != GlyphRows {
		return &RangeError{Op: "CreateChar pattern length", Value: len(pattern), Min: GlyphRows, Max: GlyphRows}
	}
	if err := dev.send(dev.c.WriteByteData(specialReg, cmdSetCGRAMAddr|byte(slot)<<3)); err != nil {
		return err
	}
	for _, b := range pattern {
		if err := dev.send(dev.c.WriteByte(b)); err != nil {
			return err
		}
	}
	return nil
}

// Move shifts the cursor one cell forward or backward.
func (dev *Dev) Move(dir display.CursorDirection) error {
	val := cmdShift
	switch dir {
	case display.Backward:
		// Nothing
	case display.Forward:
		val |= flagShiftRight
	default:
		return ErrNotImplemented
	}
	return dev.send(dev.c.WriteByteData(specialReg, val))
}

// Scroll shifts the whole display one column forward (right) or backward
// (left) without changing the contents of DDRAM.
func (dev *Dev) Scroll(dir display.CursorDirection) error {
	val := cmdShift | flagShiftDisplay
	switch dir {
	case display.Backward:
		// Nothing
	case display.Forward:
		val |= flagShiftRight
	default:
		return ErrNotImplemented
	}
	return dev.send(dev.c.WriteByteData(specialReg, val))
}

// AutoScroll makes the display shift with every character written, so the
// cursor column stays put.
func (dev *Dev) AutoScroll(enabled bool) error {
	st := dev.state
	st.scroll = AutoScrollOff
	if enabled {
		st.scroll = AutoScrollOn
	}
	if err := dev.applyEntryMode(st); err != nil {
		return err
	}
	dev.state = st
	return nil
}

// LeftToRight makes text flow left to right, the power-up default.
func (dev *Dev) LeftToRight() error {
	return dev.textDirection(TextLeftToRight)
}

// RightToLeft makes text flow right to left.
func (dev *Dev) RightToLeft() error {
	return dev.textDirection(TextRightToLeft)
}

func (dev *Dev) textDirection(dir Direction) error {
	st := dev.state
	st.dir = dir
	if err := dev.applyEntryMode(st); err != nil {
		return err
	}
	dev.state = st
	return nil
}

// Turn the display on / off. The backlight and the display contents are
// unaffected.
func (dev *Dev) Display(on bool) error {
	st := dev.state
	st.power = DisplayOff
	if on {
		st.power = DisplayOn
	}
	if err := dev.applyDisplayControl(st); err != nil {
		return err
	}
	dev.state = st
	return nil
}

// UnderlineCursor shows or hides the underline cursor.
func (dev *Dev) UnderlineCursor(on bool) error {
	st := dev.state
	st.cursor = CursorHidden
	if on {
		st.cursor = CursorVisible
	}
	if err := dev.applyDisplayControl(st); err != nil {
		return err
	}
	dev.state = st
	return nil
}

// Blink turns cursor blink on or off. The panel accepts blink with the
// cursor hidden; so does this driver.
func (dev *Dev) Blink(on bool) error {
	st := dev.state
	st.blink = BlinkOff
	if on {
		st.blink = BlinkOn
	}
	if err := dev.applyDisplayControl(st); err != nil {
		return err
	}
	dev.state = st
	return nil
}

// Set the cursor mode. You can pass multiple arguments.
// Cursor(CursorOff, CursorUnderline)
func (dev *Dev) Cursor(mode ...display.CursorMode) error {
	st := dev.state
	st.cursor, st.blink = CursorHidden, BlinkOff
	for _, m := range mode {
		switch m {
		case display.CursorOff:
			// Nothing
		case display.CursorUnderline:
			st.cursor = CursorVisible
		case display.CursorBlink:
			st.blink = BlinkOn
		case display.CursorBlock:
			st.cursor = CursorVisible
			st.blink = BlinkOn
		default:
			return fmt.Errorf("%s: %w", packageName, display.ErrInvalidCommand)
		}
	}
	if err := dev.applyDisplayControl(st); err != nil {
		return err
	}
	dev.state = st
	return nil
}

// Position returns the mirrored cursor position: where the cursor was last
// placed by Clear, Home or MoveTo.
func (dev *Dev) Position() (row, col int) {
	return dev.row, dev.col
}

// Errored reports whether a bus write has failed since the last successful
// Clear.
func (dev *Dev) Errored() bool {
	return dev.errored
}

// Return the number of columns the display supports.
func (dev *Dev) Cols() int {
	return dev.conf.Cols
}

// Return the number of rows the display supports.
func (dev *Dev) Rows() int {
	return dev.conf.Rows
}

// Return the min column position.
func (dev *Dev) MinCol() int {
	return 0
}

// Return the min row position.
func (dev *Dev) MinRow() int {
	return 0
}

// Halt clears the display and turns it off.
func (dev *Dev) Halt() error {
	if err := dev.Clear(); err != nil {
		return err
	}
	return dev.Display(false)
}

// Return info about the display.
func (dev *Dev) String() string {
	return fmt.Sprintf("SparkFun SerLCD %dx%d Display", dev.conf.Cols, dev.conf.Rows)
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayContrast = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ display.DisplayRGBBacklight = &Dev{}
var _ conn.Resource = &Dev{}
