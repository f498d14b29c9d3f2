// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdsim implements an smbus.Conn that behaves like a SerLCD panel
// and renders to the terminal (stdout) using ANSI color codes.
//
// Useful while you are waiting for your super nice 20x4 RGB display to come
// by mail: point serlcd.NewWithTransport at a Display and every command the
// driver sends is interpreted the way the panel would, including custom
// glyph loading and the backlight color.
package lcdsim

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/serlcd/smbus"
)

// Command plane prefixes and opcodes, as the panel firmware decodes them.
const (
	settingReg byte = 0x7c
	specialReg byte = 0xfe

	opContrast byte = 0x18
	opSetRGB   byte = 0x2b
	opClear    byte = 0x2d
)

var rowOffsets = [...]byte{0x00, 0x40, 0x14, 0x54}

// Opts represents the options available for this display.
type Opts struct {
	Rows    int
	Cols    int
	W       io.Writer // defaults to colorable stdout
	Palette *ansi256.Palette

	_ struct{}
}

// Display is a SerLCD emulator that outputs to the console.
type Display struct {
	w       io.Writer
	palette ansi256.Palette

	mu        sync.Mutex
	rows      int
	cols      int
	cells     [][]byte
	row, col  int
	dir       int // +1 left to right, -1 right to left
	on        bool
	backlight color.NRGBA
	contrast  byte
	glyphs    [8][8]byte
	cgram     int // data bytes still routed to glyph storage
	slot      int

	buf bytes.Buffer
}

// New returns a Display emulating a panel of the given geometry.
func New(opts *Opts) *Display {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = 4
	}
	if cols <= 0 {
		cols = 20
	}
	d := &Display{
		w:         w,
		palette:   *p,
		rows:      rows,
		cols:      cols,
		dir:       1,
		on:        true,
		backlight: color.NRGBA{255, 255, 255, 255},
		contrast:  40,
	}
	d.cells = make([][]byte, rows)
	for i := range d.cells {
		d.cells[i] = blankRow(cols)
	}
	return d
}

func blankRow(cols int) []byte {
	row := make([]byte, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

func (d *Display) WriteByte(value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cgram > 0 {
		d.glyphs[d.slot][8-d.cgram] = value & 0x1f
		d.cgram--
		return nil
	}
	if d.row < d.rows && d.col >= 0 && d.col < d.cols {
		d.cells[d.row][d.col] = value
	}
	d.col += d.dir
	if d.col < 0 {
		d.col = 0
	}
	if d.col > d.cols {
		d.col = d.cols
	}
	return nil
}

func (d *Display) WriteByteData(reg, value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch reg {
	case settingReg:
		if value == opClear {
			d.clear()
			return nil
		}
		return txErrf("unsupported setting command %#02x", value)
	case specialReg:
		d.command(value)
		return nil
	}
	return txErrf("unsupported register %#02x", reg)
}

// command decodes one HD44780 command byte, highest command bit first.
func (d *Display) command(value byte) {
	switch {
	case value >= 0x80: // DDRAM address
		d.moveTo(value & 0x7f)
		d.cgram = 0
	case value >= 0x40: // CGRAM address
		d.slot = int(value>>3) & 0x07
		d.cgram = 8
	case value >= 0x20: // function set: nothing to emulate
	case value >= 0x10: // cursor/display shift
		d.shift(value)
	case value >= 0x08: // display control
		d.on = value&0x04 != 0
	case value >= 0x04: // entry mode
		d.dir = -1
		if value&0x02 != 0 {
			d.dir = 1
		}
	case value == 0x02: // return home
		d.row, d.col = 0, 0
	}
}

func (d *Display) moveTo(addr byte) {
	row := 0
	switch {
	case addr >= 0x54:
		row = 3
	case addr >= 0x40:
		row = 1
	case addr >= 0x14:
		row = 2
	}
	if row >= d.rows {
		row = d.rows - 1
	}
	d.row = row
	d.col = int(addr - rowOffsets[row])
	if d.col >= d.cols {
		d.col = d.cols - 1
	}
}

func (d *Display) shift(value byte) {
	delta := -1
	if value&0x04 != 0 {
		delta = 1
	}
	if value&0x08 != 0 {
		// Display shift: slide every row.
		for i, row := range d.cells {
			shifted := blankRow(d.cols)
			for j, c := range row {
				if k := j + delta; k >= 0 && k < d.cols {
					shifted[k] = c
				}
			}
			d.cells[i] = shifted
		}
		return
	}
	d.col += delta
	if d.col < 0 {
		d.col = 0
	}
	if d.col >= d.cols {
		d.col = d.cols - 1
	}
}

func (d *Display) WriteBlockData(reg byte, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if reg != settingReg || len(data) == 0 {
		return txErrf("unsupported block write to register %#02x", reg)
	}
	switch data[0] {
	case opSetRGB:
		if len(data) != 4 {
			return txErrf("RGB block needs 3 channel bytes, got %d", len(data)-1)
		}
		d.backlight = color.NRGBA{data[1], data[2], data[3], 255}
		return nil
	case opContrast:
		if len(data) != 2 {
			return txErrf("contrast block needs 1 level byte, got %d", len(data)-1)
		}
		d.contrast = data[1]
		return nil
	}
	return txErrf("unsupported setting block %#02x", data[0])
}

func (d *Display) clear() {
	for i := range d.cells {
		d.cells[i] = blankRow(d.cols)
	}
	d.row, d.col = 0, 0
}

// Line returns the current contents of one row as text. Custom glyph slots
// print as '*', other non-ASCII codes as ' '.
func (d *Display) Line(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if row < 0 || row >= d.rows {
		return ""
	}
	return printable(d.cells[row])
}

func printable(row []byte) string {
	out := make([]byte, len(row))
	for i, c := range row {
		switch {
		case c < 8:
			out[i] = '*'
		case c >= 0x20 && c < 0x7f:
			out[i] = c
		default:
			out[i] = ' '
		}
	}
	return string(out)
}

// Glyph returns the 8 pattern rows stored in a custom character slot.
func (d *Display) Glyph(slot int) [8]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if slot < 0 || slot >= len(d.glyphs) {
		return [8]byte{}
	}
	return d.glyphs[slot]
}

// Backlight returns the current backlight color.
func (d *Display) Backlight() color.NRGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.backlight
}

// Contrast returns the last contrast level accepted.
func (d *Display) Contrast() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contrast
}

// Render draws the framebuffer and a backlight swatch to the writer.
func (d *Display) Render() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	// This code is designed to minimize the amount of memory allocated per
	// call.
	d.buf.Reset()
	border := make([]byte, d.cols)
	for i := range border {
		border[i] = '-'
	}
	fmt.Fprintf(&d.buf, "+%s+\n", border)
	for _, row := range d.cells {
		text := printable(row)
		if !d.on {
			text = string(blankRow(d.cols))
		}
		fmt.Fprintf(&d.buf, "|%s|\n", text)
	}
	fmt.Fprintf(&d.buf, "+%s+\n", border)
	_, _ = d.buf.WriteString("backlight ")
	for range 4 {
		_, _ = io.WriteString(&d.buf, d.palette.Block(d.backlight))
	}
	_, _ = d.buf.WriteString("\033[0m\n")
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Display) String() string {
	return fmt.Sprintf("lcdsim %dx%d", d.cols, d.rows)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the console is not corrupted.
func (d *Display) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

func txErrf(format string, args ...any) error {
	return &smbus.TxError{Cause: fmt.Errorf("lcdsim: "+format, args...)}
}

var _ smbus.Conn = &Display{}
var _ fmt.Stringer = &Display{}
