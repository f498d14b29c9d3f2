// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, linear range scaling.
package common

// Map linearly scales x from the range [inMin, inMax] to the range
// [outMin, outMax], Arduino map() style. Inputs outside the source range
// are clamped to the nearest edge, which also keeps the intermediate
// product from overflowing. A degenerate source range (inMin == inMax)
// returns outMin rather than dividing by zero.
func Map(x, inMin, inMax, outMin, outMax int) int {
	if inMin == inMax {
		return outMin
	}
	if x <= inMin {
		return outMin
	}
	if x >= inMax {
		return outMax
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
