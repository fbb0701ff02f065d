package frame

/*
BSD License

Copyright (c) 2017–2022, Norbert Pillmayer

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

import (
	"fmt"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/css"
)

// Rect is a rectangle whose size may not be known yet.
type Rect struct {
	TopL dimen.Point
	Size
}

// Size holds an optional width and height.
type Size struct {
	W css.DimenT
	H css.DimenT
}

// Box type, following the CSS box model.
//
// TopL is the top left corner of the border box, relative to the content box
// of the parent box. W and H hold either the content box size or the border
// box size, depending on box-sizing.
type Box struct {
	Rect
	Min             Size
	Max             Size
	BorderBoxSizing bool          // box-sizing = border-box ?
	Padding         [4]css.DimenT // inside of border
	BorderWidth     [4]css.DimenT // thickness of border
	Margins         [4]css.DimenT // outside of border, maybe unknown
}

// For padding, margins, etc. 4-way values always start at the top and travel
// clockwise.
const (
	Top int = iota
	Right
	Bottom
	Left
)

// InitEmptyBox initializes a box with zero edges, auto size and unbounded
// maximum size. If box is nil, a new box is allocated.
func InitEmptyBox(box *Box) *Box {
	if box == nil {
		box = &Box{}
	}
	for dir := Top; dir <= Left; dir++ {
		box.Padding[dir] = css.SomeDimen(0)
		box.BorderWidth[dir] = css.SomeDimen(0)
		box.Margins[dir] = css.SomeDimen(0)
	}
	box.W, box.H = css.Auto(), css.Auto()
	box.Min = Size{W: css.SomeDimen(0), H: css.SomeDimen(0)}
	box.Max = Size{W: css.DimenOption("none"), H: css.DimenOption("none")}
	return box
}

// --- Handling of box dimensions --------------------------------------------

// DebugString returns a textual representation of a box's dimensions.
// Intended for debugging.
func (box *Box) DebugString() string {
	s := fmt.Sprintf("box{\n   w=%v, h=%v  (bbox-sz=%v)\n", box.W, box.H, box.BorderBoxSizing)
	s += fmt.Sprintf("   p.top=%v, p.right=%v, p.bottom=%v, p.left=%v\n",
		box.Padding[Top], box.Padding[Right],
		box.Padding[Bottom], box.Padding[Left])
	s += fmt.Sprintf("   b.top=%v, b.right=%v, b.bottom=%v, b.left=%v\n",
		box.BorderWidth[Top], box.BorderWidth[Right],
		box.BorderWidth[Bottom], box.BorderWidth[Left])
	s += fmt.Sprintf("   m.top=%v, m.right=%v, m.bottom=%v, m.left=%v\n",
		box.Margins[Top], box.Margins[Right],
		box.Margins[Bottom], box.Margins[Left])
	s += "}"
	return s
}

// ContentWidth returns the width of the content box.
// If this box has box-sizing set to `border-box` and the width dimensions do
// not have fixed values, an unset dimension is returned.
func (box *Box) ContentWidth() css.DimenT {
	if !box.BorderBoxSizing {
		return box.W
	}
	if box.HasFixedBorderBoxWidth(false) {
		w := box.W.Unwrap() - innerDecorationWidth(box).Unwrap()
		return css.SomeDimen(dimen.Max(0, w))
	}
	return css.Dimen()
}

// ContentHeight returns the height of the content box.
// If this box has box-sizing set to `border-box` and the height dimensions do
// not have fixed values, an unset dimension is returned.
func (box *Box) ContentHeight() css.DimenT {
	if !box.BorderBoxSizing {
		return box.H
	}
	if box.HasFixedBorderBoxHeight(false) {
		h := box.H.Unwrap() - innerDecorationHeight(box).Unwrap()
		return css.SomeDimen(dimen.Max(0, h))
	}
	return css.Dimen()
}

// FixContentWidth sets a known value for the width of the content box.
// Negative widths are clamped to zero.
// If box has box-sizing set to `border-box` and one of the width dimensions is
// of unknown value, false is returned and the content width is not set.
func (box *Box) FixContentWidth(w dimen.Dimen) bool {
	w = clampNegative(w, "width")
	if !box.BorderBoxSizing {
		box.W = css.SomeDimen(w)
		return true
	}
	decW := innerDecorationWidth(box)
	if decW.IsNone() {
		return false
	}
	box.W = css.SomeDimen(w + decW.Unwrap())
	return true
}

// FixContentHeight sets a known value for the height of the content box.
// Negative heights are clamped to zero.
func (box *Box) FixContentHeight(h dimen.Dimen) bool {
	h = clampNegative(h, "height")
	if !box.BorderBoxSizing {
		box.H = css.SomeDimen(h)
		return true
	}
	decH := innerDecorationHeight(box)
	if decH.IsNone() {
		return false
	}
	box.H = css.SomeDimen(h + decH.Unwrap())
	return true
}

// FixBorderBoxWidth sets the width of the border box. Padding and border
// widths must be fixed already.
func (box *Box) FixBorderBoxWidth(w dimen.Dimen) bool {
	if box.BorderBoxSizing {
		box.W = css.SomeDimen(clampNegative(w, "width"))
		return true
	}
	decW := innerDecorationWidth(box)
	if decW.IsNone() {
		tracer().Errorf("cannot fix border box width, padding and border not fixed")
		return false
	}
	box.W = css.SomeDimen(clampNegative(w-decW.Unwrap(), "width"))
	return true
}

// HasFixedBorderBoxWidth return true if box.W, horizontal padding and border
// width for left and right border have fixed (known) values.
// If includeMargins is true, left and right margins are checked as well.
func (box *Box) HasFixedBorderBoxWidth(includeMargins bool) bool {
	if includeMargins {
		if !box.Margins[Left].IsAbsolute() || !box.Margins[Right].IsAbsolute() {
			return false
		}
	}
	if !box.Padding[Left].IsAbsolute() || !box.Padding[Right].IsAbsolute() ||
		!box.BorderWidth[Left].IsAbsolute() || !box.BorderWidth[Right].IsAbsolute() ||
		!box.W.IsAbsolute() {
		return false
	}
	return true
}

// HasFixedBorderBoxHeight return true if box.H, vertical padding and border
// width for top and bottom border have fixed (known) values.
// If includeMargins is true, top and bottom margins are checked as well.
func (box *Box) HasFixedBorderBoxHeight(includeMargins bool) bool {
	if includeMargins {
		if !box.Margins[Top].IsAbsolute() || !box.Margins[Bottom].IsAbsolute() {
			return false
		}
	}
	if !box.Padding[Top].IsAbsolute() || !box.Padding[Bottom].IsAbsolute() ||
		!box.BorderWidth[Top].IsAbsolute() || !box.BorderWidth[Bottom].IsAbsolute() ||
		!box.H.IsAbsolute() {
		return false
	}
	return true
}

// BorderBoxWidth returns the width of the border box, if known.
func (box *Box) BorderBoxWidth() css.DimenT {
	if box.BorderBoxSizing {
		return box.W
	}
	if box.HasFixedBorderBoxWidth(false) {
		return css.SomeDimen(box.W.Unwrap() + innerDecorationWidth(box).Unwrap())
	}
	return css.Dimen()
}

// BorderBoxHeight returns the height of the border box, if known.
func (box *Box) BorderBoxHeight() css.DimenT {
	if box.BorderBoxSizing {
		return box.H
	}
	if box.HasFixedBorderBoxHeight(false) {
		return css.SomeDimen(box.H.Unwrap() + innerDecorationHeight(box).Unwrap())
	}
	return css.Dimen()
}

// TotalWidth returns the width of the margin box, if known.
func (box *Box) TotalWidth() css.DimenT {
	if box.HasFixedBorderBoxWidth(true) {
		w := box.BorderBoxWidth().Unwrap()
		w += box.Margins[Left].Unwrap()
		w += box.Margins[Right].Unwrap()
		return css.SomeDimen(w)
	}
	return css.Dimen()
}

// TotalHeight returns the height of the margin box, if known.
func (box *Box) TotalHeight() css.DimenT {
	if box.HasFixedBorderBoxHeight(true) {
		h := box.BorderBoxHeight().Unwrap()
		h += box.Margins[Top].Unwrap()
		h += box.Margins[Bottom].Unwrap()
		return css.SomeDimen(h)
	}
	return css.Dimen()
}

// OuterBox returns the margin box, positioned at the margin edge.
func (box *Box) OuterBox() Rect {
	r := Rect{TopL: box.TopL}
	r.TopL.X -= box.Margins[Left].UnwrapOr(0)
	r.TopL.Y -= box.Margins[Top].UnwrapOr(0)
	r.W = box.TotalWidth()
	r.H = box.TotalHeight()
	return r
}

// DecorationWidth returns the sum of horizontal padding and border widths,
// and margins if includeMargins is set. If any of them is not fixed, an
// unset dimension is returned.
func (box *Box) DecorationWidth(includeMargins bool) css.DimenT {
	w := dimen.Zero
	if includeMargins {
		if !box.Margins[Left].IsAbsolute() || !box.Margins[Right].IsAbsolute() {
			return css.Dimen()
		}
		w += box.Margins[Left].Unwrap()
		w += box.Margins[Right].Unwrap()
	}
	decW := innerDecorationWidth(box)
	if decW.IsNone() {
		return decW
	}
	return css.SomeDimen(w + decW.Unwrap())
}

// DecorationHeight is the vertical counterpart of DecorationWidth.
func (box *Box) DecorationHeight(includeMargins bool) css.DimenT {
	h := dimen.Zero
	if includeMargins {
		if !box.Margins[Top].IsAbsolute() || !box.Margins[Bottom].IsAbsolute() {
			return css.Dimen()
		}
		h += box.Margins[Top].Unwrap()
		h += box.Margins[Bottom].Unwrap()
	}
	decH := innerDecorationHeight(box)
	if decH.IsNone() {
		return decH
	}
	return css.SomeDimen(h + decH.Unwrap())
}

// FixPercentages resolves percentages of padding, border widths and margins.
// All of them refer to the width of the containing block, even for top and
// bottom. Returns true if all edges are fixed afterwards; margins may still
// be `auto`.
func (box *Box) FixPercentages(enclosingWidth dimen.Dimen) bool {
	fixed := true
	for dir := Top; dir <= Left; dir++ {
		box.Padding[dir] = box.Padding[dir].ResolvePercent(enclosingWidth)
		box.BorderWidth[dir] = box.BorderWidth[dir].ResolvePercent(enclosingWidth)
		box.Margins[dir] = box.Margins[dir].ResolvePercent(enclosingWidth)
		if !box.Padding[dir].IsAbsolute() || !box.BorderWidth[dir].IsAbsolute() {
			fixed = false
		}
	}
	return fixed
}

// --- Resolved geometry -----------------------------------------------------

// BorderRect returns the border box. Unknown dimensions count as zero.
func (box *Box) BorderRect() dimen.Rect {
	return dimen.RectOf(box.TopL.X, box.TopL.Y,
		box.BorderBoxWidth().UnwrapOr(0), box.BorderBoxHeight().UnwrapOr(0))
}

// PaddingRect returns the padding box. Unknown dimensions count as zero.
func (box *Box) PaddingRect() dimen.Rect {
	r := box.BorderRect()
	return inset(r, box.BorderWidth)
}

// ContentRect returns the content box. Unknown dimensions count as zero.
func (box *Box) ContentRect() dimen.Rect {
	return inset(box.PaddingRect(), box.Padding)
}

// MarginRect returns the margin box. Unknown dimensions count as zero.
func (box *Box) MarginRect() dimen.Rect {
	r := box.BorderRect()
	r.TopL.X -= box.Margins[Left].UnwrapOr(0)
	r.TopL.Y -= box.Margins[Top].UnwrapOr(0)
	r.BotR.X += box.Margins[Right].UnwrapOr(0)
	r.BotR.Y += box.Margins[Bottom].UnwrapOr(0)
	return r
}

// ContentOffset returns the offset of the content box from the top left
// corner of the border box.
func (box *Box) ContentOffset() dimen.Point {
	return dimen.Point{
		X: box.BorderWidth[Left].UnwrapOr(0) + box.Padding[Left].UnwrapOr(0),
		Y: box.BorderWidth[Top].UnwrapOr(0) + box.Padding[Top].UnwrapOr(0),
	}
}

func inset(r dimen.Rect, edges [4]css.DimenT) dimen.Rect {
	r.TopL.X += edges[Left].UnwrapOr(0)
	r.TopL.Y += edges[Top].UnwrapOr(0)
	r.BotR.X -= edges[Right].UnwrapOr(0)
	r.BotR.Y -= edges[Bottom].UnwrapOr(0)
	if r.BotR.X < r.TopL.X {
		r.BotR.X = r.TopL.X
	}
	if r.BotR.Y < r.TopL.Y {
		r.BotR.Y = r.TopL.Y
	}
	return r
}

// ---------------------------------------------------------------------------

func innerDecorationWidth(box *Box) css.DimenT {
	if !box.Padding[Left].IsAbsolute() || !box.Padding[Right].IsAbsolute() ||
		!box.BorderWidth[Left].IsAbsolute() || !box.BorderWidth[Right].IsAbsolute() {
		return css.Dimen()
	}
	w := dimen.Zero
	w += box.Padding[Left].Unwrap()
	w += box.Padding[Right].Unwrap()
	w += box.BorderWidth[Left].Unwrap()
	w += box.BorderWidth[Right].Unwrap()
	return css.SomeDimen(w)
}

func innerDecorationHeight(box *Box) css.DimenT {
	if !box.Padding[Top].IsAbsolute() || !box.Padding[Bottom].IsAbsolute() ||
		!box.BorderWidth[Top].IsAbsolute() || !box.BorderWidth[Bottom].IsAbsolute() {
		return css.Dimen()
	}
	h := dimen.Zero
	h += box.Padding[Top].Unwrap()
	h += box.Padding[Bottom].Unwrap()
	h += box.BorderWidth[Top].Unwrap()
	h += box.BorderWidth[Bottom].Unwrap()
	return css.SomeDimen(h)
}

func clampNegative(d dimen.Dimen, what string) dimen.Dimen {
	if d < 0 {
		tracer().Errorf("negative %s %v clamped to zero", what, d)
		return 0
	}
	return d
}

// CollapseMargins returns the gap between two adjoining vertical margins:
// the largest positive margin plus the most negative margin.
func CollapseMargins(m1, m2 dimen.Dimen) dimen.Dimen {
	pos := dimen.Max(dimen.Max(m1, m2), 0)
	neg := dimen.Min(dimen.Min(m1, m2), 0)
	return pos + neg
}
