// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package glyph builds 5x8 custom character patterns for serlcd.CreateChar
// from string art, images, font runes or a drawing context.
//
// LCD character cells are dark-on-light: a set bit is a dark (lit) pixel.
// When converting from images, dark source pixels therefore become set
// bits.
package glyph

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Pattern geometry of one custom character cell.
const (
	Cols = 5
	Rows = 8
)

// Pattern is one 5x8 glyph, one byte per row, low 5 bits used. Bit 4 is the
// leftmost pixel.
type Pattern [Rows]byte

// Bytes returns the pattern as the slice serlcd.CreateChar expects.
func (p Pattern) Bytes() []byte {
	return p[:]
}

// Strings renders the pattern as 8 rows of 'X' and '.', the inverse of
// FromStrings.
func (p Pattern) Strings() []string {
	out := make([]string, Rows)
	for y, row := range p {
		line := make([]byte, Cols)
		for x := range line {
			line[x] = '.'
			if row&(1<<(Cols-1-x)) != 0 {
				line[x] = 'X'
			}
		}
		out[y] = string(line)
	}
	return out
}

// FromStrings parses 8 rows of up to 5 characters. 'X', 'x', '#' and '1'
// are set pixels, anything else is clear. Short rows are padded on the
// right.
func FromStrings(rows []string) (Pattern, error) {
	var p Pattern
	if len(rows) != Rows {
		return p, fmt.Errorf("glyph: need %d rows, got %d", Rows, len(rows))
	}
	for y, line := range rows {
		if len(line) > Cols {
			return p, fmt.Errorf("glyph: row %d is %d columns wide, max %d", y, len(line), Cols)
		}
		for x := 0; x < len(line); x++ {
			switch line[x] {
			case 'X', 'x', '#', '1':
				p[y] |= 1 << (Cols - 1 - x)
			}
		}
	}
	return p, nil
}

// FromImage scales img to 5x8 and thresholds it: pixels darker than 50%
// gray become set bits.
func FromImage(img image.Image) Pattern {
	cell := image.NewGray(image.Rect(0, 0, Cols, Rows))
	draw.ApproxBiLinear.Scale(cell, cell.Bounds(), img, img.Bounds(), draw.Src, nil)

	var p Pattern
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if cell.GrayAt(x, y).Y < 0x80 {
				p[y] |= 1 << (Cols - 1 - x)
			}
		}
	}
	return p
}

// FromRune rasterizes r with the 7x13 basic font and scales it into a cell.
// Coverage is approximate; simple shapes like arrows and box drawing come
// out best.
func FromRune(r rune) Pattern {
	f := basicfont.Face7x13
	img := image.NewGray(image.Rect(0, 0, f.Advance, f.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: f,
		Dot:  fixed.P(0, f.Ascent),
	}
	drawer.DrawString(string(r))
	return FromImage(img)
}

// Canvas size handed to Draw callbacks, an upscaled cell so strokes and
// curves survive the downsampling.
const (
	CanvasW = 10 * Cols
	CanvasH = 10 * Rows
)

// Draw runs fn on a white canvas and converts the result. Draw dark shapes:
//
//	p := glyph.Draw(func(ctx *gg.Context) {
//		ctx.DrawCircle(glyph.CanvasW/2, glyph.CanvasH/2, 20)
//		ctx.Fill()
//	})
func Draw(fn func(ctx *gg.Context)) Pattern {
	ctx := gg.NewContext(CanvasW, CanvasH)
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()
	ctx.SetRGB(0, 0, 0)
	fn(ctx)
	return FromImage(ctx.Image())
}
