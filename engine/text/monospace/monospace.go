/*
Package monospace measures text by character cells.

Every narrow character advances by a fixed fraction of the font size;
East-Asian wide and fullwidth characters take two cells, combining marks
none. Results do not depend on any font files.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"unicode"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/text"
	"golang.org/x/text/width"
)

// DefaultRatio is the advance of a narrow character, in em.
const DefaultRatio = 0.5

// Measurer is a text.Measurer for monospaced text.
type Measurer struct {
	Ratio float64 // advance of a single cell, in em
}

var _ text.Measurer = Measurer{}

// New creates a measurer with a cell width of half an em.
func New() Measurer {
	return Measurer{Ratio: DefaultRatio}
}

// Cells returns the number of character cells s occupies.
func Cells(s string) int {
	n := 0
	for _, r := range s {
		n += cells(r)
	}
	return n
}

func cells(r rune) int {
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// Advance returns the width of s.
func (m Measurer) Advance(s string, f text.Font) dimen.Dimen {
	ratio := m.Ratio
	if ratio <= 0 {
		ratio = DefaultRatio
	}
	return f.Size.Scale(ratio * float64(Cells(s)))
}

// Metrics splits the font size into 4/5 ascent and 1/5 descent.
func (m Measurer) Metrics(f text.Font) text.Metrics {
	asc := f.Size.Scale(0.8)
	return text.Metrics{Ascent: asc, Descent: f.Size - asc}
}
