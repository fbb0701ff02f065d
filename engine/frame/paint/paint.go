package paint

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/frame/layout"
)

// Layer is a painting layer. Layers are painted in ascending order.
type Layer uint8

// Painting layers
const (
	RootLayer       Layer = iota // background and borders of the root box
	NegativeLayer                // positioned, z-index < 0
	FlowLayer                    // boxes in normal flow
	PositionedLayer              // positioned, z-index auto or 0
	PositiveLayer                // positioned, z-index > 0
)

func (l Layer) String() string {
	switch l {
	case RootLayer:
		return "root"
	case NegativeLayer:
		return "negative"
	case FlowLayer:
		return "flow"
	case PositionedLayer:
		return "positioned"
	}
	return "positive"
}

// Border is a single border edge.
type Border struct {
	Width dimen.Dimen
	Color color.RGBA
	Style string
}

// Font selects the face text runs are drawn with.
type Font struct {
	Family string
	Size   dimen.Dimen
	Bold   bool
	Italic bool
}

// TextRun is the text of a text box on a single line.
type TextRun struct {
	Rect     dimen.Rect  // absolute coordinates
	Baseline dimen.Dimen // absolute y-position of the baseline
	Text     string      // white-space processed
}

// Item is an entry of a paint list.
type Item struct {
	Box        *boxtree.Box
	Node       dom.NodeID
	Layer      Layer
	ZIndex     int
	Rect       dimen.Rect   // border box, or union of fragments
	Fragments  []dimen.Rect // inline boxes only: border box fragments per line
	Background color.RGBA
	Borders    [4]Border // top, right, bottom, left
	Color      color.RGBA
	Font       Font
	Text       []TextRun // text boxes only
	Hidden     bool      // visibility: hidden or collapse
}

// IsText is true for items of text boxes.
func (it *Item) IsText() bool {
	return it.Box != nil && it.Box.IsText()
}

func (it *Item) String() string {
	return fmt.Sprintf("%s@%s(%d) %v", it.Box, it.Layer, it.ZIndex, it.Rect)
}

// List is a paint list.
type List []Item

// stacking is the painting layer and z-index boxes are sorted by.
type stacking struct {
	layer Layer
	z     int
}

// Build creates the paint list for a laid out box tree. Anonymous boxes have
// no style of their own and are not part of the list; their content is.
func Build(root *boxtree.Box) List {
	if root == nil {
		return nil
	}
	var list List
	var visit func(b *boxtree.Box, inherited stacking)
	visit = func(b *boxtree.Box, inherited stacking) {
		st := stackingOf(b, inherited)
		if b == root {
			st = stacking{layer: RootLayer}
		}
		if !b.IsAnonymous() && b.Styles != nil {
			list = append(list, item(b, st))
		}
		carry := inherited
		if b != root && b.IsPrincipal() && b.Styles.Position.IsPositioned() && !b.Styles.ZAuto {
			carry = st
		}
		for _, c := range b.Children {
			visit(c, carry)
		}
	}
	visit(root, stacking{layer: FlowLayer})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Layer != list[j].Layer {
			return list[i].Layer < list[j].Layer
		}
		return list[i].ZIndex < list[j].ZIndex
	})
	tracer().Debugf("paint list with %d items", len(list))
	return list
}

// stackingOf decides the layer of a box. Boxes inside a stacking context
// established by a positioned ancestor with an explicit z-index paint in
// the layer of that ancestor.
func stackingOf(b *boxtree.Box, inherited stacking) stacking {
	if inherited.layer != FlowLayer || !b.IsPrincipal() || !b.Styles.Position.IsPositioned() {
		return inherited
	}
	z := 0
	if !b.Styles.ZAuto {
		z = b.Styles.ZIndex
	}
	switch {
	case z < 0:
		return stacking{layer: NegativeLayer, z: z}
	case z > 0:
		return stacking{layer: PositiveLayer, z: z}
	}
	return stacking{layer: PositionedLayer}
}

func item(b *boxtree.Box, st stacking) Item {
	s := b.Styles
	it := Item{
		Box:    b,
		Node:   b.Node,
		Layer:  st.layer,
		ZIndex: st.z,
		Color:  s.Colors.Foreground,
		Font:   Font{Family: s.FontFamily, Size: s.FontSize, Bold: s.Bold, Italic: s.Italic},
		Hidden: s.Visibility != css.Visible,
	}
	switch {
	case b.IsText():
		it.Text = textRuns(b)
		if len(it.Text) > 0 {
			it.Rect = it.Text[0].Rect
			for _, r := range it.Text[1:] {
				it.Rect = it.Rect.Union(r.Rect)
			}
		}
		return it
	case b.Kind == boxtree.InlineBox:
		it.Fragments = layout.Fragments(b)
		if len(it.Fragments) > 0 {
			it.Rect = it.Fragments[0]
			for _, r := range it.Fragments[1:] {
				it.Rect = it.Rect.Union(r)
			}
		}
	default:
		it.Rect = layout.BorderBox(b)
	}
	it.Background = s.Colors.Background
	for dir := frame.Top; dir <= frame.Left; dir++ {
		it.Borders[dir] = Border{
			Width: b.BorderWidth[dir].UnwrapOr(0),
			Color: s.Border[dir].LineColor,
			Style: s.Border[dir].LineStyle,
		}
	}
	return it
}

// textRuns collects the fragments of a text box from the line boxes of its
// flow parent.
func textRuns(b *boxtree.Box) []TextRun {
	fp := b.FlowParent()
	if fp == nil {
		return nil
	}
	o := layout.ContentOrigin(fp)
	var runs []TextRun
	for _, l := range fp.Lines {
		for _, f := range l.Items {
			if f.Box != b {
				continue
			}
			r := f.Rect
			r.TopL.Shift(o)
			r.BotR.Shift(o)
			runs = append(runs, TextRun{
				Rect:     r,
				Baseline: o.Y + l.Rect.TopL.Y + l.Baseline,
				Text:     f.Text,
			})
		}
	}
	return runs
}

// Visible returns the items which are not hidden and have something to
// paint.
func (list List) Visible() List {
	var vis List
	for _, it := range list {
		if it.Hidden {
			continue
		}
		if it.IsText() && len(it.Text) == 0 {
			continue
		}
		vis = append(vis, it)
	}
	return vis
}

// HasBackground is true if the item paints a non-transparent background.
func (it *Item) HasBackground() bool {
	return !frame.IsTransparent(it.Background)
}
