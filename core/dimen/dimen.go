// Package dimen implements dimensions and units for layout.
//
/*
BSD License

Copyright (c) 2017–22, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Dimen is a dimension type.
// Values are in layout units, where one CSS pixel is 64 units. Fixed point
// arithmetic keeps layout results exact and reproducible across platforms.
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	LU   Dimen = 1    // layout unit = PX / 64
	PX   Dimen = 64   // CSS pixel
	IN   Dimen = 6144 // inch = 96 px
)

// Conversion factors for absolute CSS units, in pixels.
const (
	pxPerPT = 96.0 / 72.0  // printer's point (CSS: 1/72 inch)
	pxPerPC = 16.0         // pica
	pxPerCM = 96.0 / 2.54  // centimeter
	pxPerMM = 96.0 / 25.4  // millimeter
	pxPerQ  = 96.0 / 101.6 // quarter millimeter
)

// Infinity is the largest possible dimension
const Infinity = math.MaxInt32

// Stringer implementation.
func (d Dimen) String() string {
	if d%PX == 0 {
		return fmt.Sprintf("%dpx", int32(d/PX))
	}
	return fmt.Sprintf("%.2fpx", d.Pixels())
}

// Pixels returns a dimension in CSS pixels.
func (d Dimen) Pixels() float64 {
	return float64(d) / float64(PX)
}

// FromPixels converts a (fractional) number of CSS pixels into a dimension,
// rounding to the nearest layout unit.
func FromPixels(px float64) Dimen {
	return Dimen(math.Round(px * float64(PX)))
}

// Scale multiplies a dimension with a factor, rounding to the nearest layout unit.
func (d Dimen) Scale(f float64) Dimen {
	return Dimen(math.Round(float64(d) * f))
}

// Point is a point in layout space.
type Point struct {
	X, Y Dimen
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

// Rect is a rectangle in layout space.
type Rect struct {
	TopL, BotR Point
}

// RectOf creates a rectangle from position and size.
func RectOf(x, y, w, h Dimen) Rect {
	return Rect{TopL: Point{x, y}, BotR: Point{x + w, y + h}}
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

// IsEmpty is true for rectangles without area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains checks if point p is inside r. The bottom and right edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.TopL.X && p.X < r.BotR.X && p.Y >= r.TopL.Y && p.Y < r.BotR.Y
}

// Union returns the smallest rectangle containing r and s. Empty rectangles
// do not contribute.
func (r Rect) Union(s Rect) Rect {
	if r.Width() < 0 || r.Height() < 0 || r == (Rect{}) {
		return s
	}
	if s.Width() < 0 || s.Height() < 0 || s == (Rect{}) {
		return r
	}
	return Rect{
		TopL: Point{Min(r.TopL.X, s.TopL.X), Min(r.TopL.Y, s.TopL.Y)},
		BotR: Point{Max(r.BotR.X, s.BotR.X), Max(r.BotR.Y, s.BotR.Y)},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%v,%v)+(%v×%v)", r.TopL.X, r.TopL.Y, r.Width(), r.Height())
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]*\.?[0-9]+)(%|[a-zA-Z]{1,2})?$`)

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit for
// absolute units (px, pt, pc, in, cm, mm, q) and unitless numbers, which are
// taken as pixels.
// If a percentage value is given (`80%`), the second return value will be true
// and the dimension holds the percentage in layout units (80% → 80*PX).
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, false, errors.New("format error parsing dimension")
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, errors.New("format error parsing dimension")
	}
	if len(d) > 2 && d[2] == "%" {
		return FromPixels(n), true, nil
	}
	unit := ""
	if len(d) > 2 {
		unit = d[2]
	}
	px, ok := AbsoluteToPixels(n, unit)
	if !ok {
		return 0, false, errors.New("format error parsing dimension")
	}
	return FromPixels(px), false, nil
}

// AbsoluteToPixels converts a value in an absolute CSS unit to pixels.
// An empty unit is taken as pixels. Returns false for units which are not absolute.
func AbsoluteToPixels(n float64, unit string) (float64, bool) {
	switch unit {
	case "", "px", "PX":
		return n, true
	case "pt", "PT":
		return n * pxPerPT, true
	case "pc", "PC":
		return n * pxPerPC, true
	case "in", "IN":
		return n * 96, true
	case "cm", "CM":
		return n * pxPerCM, true
	case "mm", "MM":
		return n * pxPerMM, true
	case "q", "Q":
		return n * pxPerQ, true
	}
	return 0, false
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}

// Clamp returns d limited to the interval [lo, hi]. If hi < lo, lo wins.
func Clamp(d, lo, hi Dimen) Dimen {
	if d > hi {
		d = hi
	}
	if d < lo {
		d = lo
	}
	return d
}
