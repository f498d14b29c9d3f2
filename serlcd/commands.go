// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package serlcd

// The SerLCD firmware multiplexes two command planes over I²C: settings
// commands prefixed with settingReg and HD44780 commands prefixed with
// specialReg. Plain bytes with no prefix are written to the display as
// characters.
const (
	settingReg byte = 0x7c
	specialReg byte = 0xfe

	// Commands on the settings plane.
	cmdContrast     byte = 0x18
	cmdSetRGB       byte = 0x2b
	cmdClearDisplay byte = 0x2d

	// HD44780 command set.
	cmdReturnHome     byte = 0x02
	cmdEntryModeSet   byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdShift          byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAMAddr   byte = 0x40
	cmdSetDDRAMAddr   byte = 0x80

	// Flags for cmdShift.
	flagShiftDisplay byte = 0x08
	flagShiftRight   byte = 0x04
)

// DDRAM origin of each row. Rows past this table do not exist on any
// supported panel and are rejected by MoveTo.
var rowOffsets = [...]byte{0x00, 0x40, 0x14, 0x54}

// GlyphSlots is the number of addressable custom characters, and GlyphRows
// the pattern length CreateChar expects.
const (
	GlyphSlots = 8
	GlyphRows  = 8
)

// Power mirrors the display on/off bit of the display-control command.
type Power byte

const (
	DisplayOff Power = 0x00
	DisplayOn  Power = 0x04
)

// CursorState mirrors the underline-cursor bit of the display-control
// command.
type CursorState byte

const (
	CursorHidden  CursorState = 0x00
	CursorVisible CursorState = 0x02
)

// BlinkState mirrors the blink bit of the display-control command.
type BlinkState byte

const (
	BlinkOff BlinkState = 0x00
	BlinkOn  BlinkState = 0x01
)

// Direction mirrors the text-direction bit of the entry-mode command.
type Direction byte

const (
	TextRightToLeft Direction = 0x00
	TextLeftToRight Direction = 0x02
)

// Shift mirrors the display-shift (autoscroll) bit of the entry-mode
// command.
type Shift byte

const (
	AutoScrollOff Shift = 0x00
	AutoScrollOn  Shift = 0x01
)

// BitMode selects the interface width bit of the function-set command. The
// I²C firmware always talks to the panel in 8-bit mode; Bit4 exists for
// completeness.
type BitMode byte

const (
	Bit4 BitMode = 0x00
	Bit8 BitMode = 0x10
)

// LineCount selects the line-count bit of the function-set command.
type LineCount byte

const (
	Lines1 LineCount = 0x00
	Lines2 LineCount = 0x08
)

// FontSize selects the character matrix bit of the function-set command.
type FontSize byte

const (
	Font5x8  FontSize = 0x00
	Font5x10 FontSize = 0x04
)
