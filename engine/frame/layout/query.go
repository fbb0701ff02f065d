package layout

import (
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
)

// Geometry queries operate on a laid out box tree and return rectangles in
// absolute coordinates, i.e. relative to the top left corner of the
// initial containing block.

// ContentOrigin returns the top left corner of the content box of b.
func ContentOrigin(b *boxtree.Box) dimen.Point {
	if b == nil {
		return dimen.Origin
	}
	p := ContentOrigin(b.FlowParent())
	off := b.ContentOffset()
	return dimen.Point{X: p.X + b.TopL.X + off.X, Y: p.Y + b.TopL.Y + off.Y}
}

func translate(r dimen.Rect, p dimen.Point) dimen.Rect {
	r.TopL.Shift(p)
	r.BotR.Shift(p)
	return r
}

// BorderBox returns the border box of b. For inline boxes and text boxes,
// this is the union of their fragments.
func BorderBox(b *boxtree.Box) dimen.Rect {
	return translate(b.BorderRect(), ContentOrigin(b.FlowParent()))
}

// PaddingBox returns the padding box of b.
func PaddingBox(b *boxtree.Box) dimen.Rect {
	return translate(b.PaddingRect(), ContentOrigin(b.FlowParent()))
}

// ContentBox returns the content box of b.
func ContentBox(b *boxtree.Box) dimen.Rect {
	return translate(b.ContentRect(), ContentOrigin(b.FlowParent()))
}

// Fragments returns the rectangles of the parts of an inline box or text
// box on each line.
func Fragments(b *boxtree.Box) []dimen.Rect {
	fp := b.FlowParent()
	if fp == nil {
		return nil
	}
	o := ContentOrigin(fp)
	var rects []dimen.Rect
	for _, l := range fp.Lines {
		for _, f := range l.Items {
			if f.Box == b {
				rects = append(rects, translate(f.Rect, o))
			}
		}
	}
	return rects
}

// Boxes returns the boxes generated for a DOM node, in document order.
func Boxes(root *boxtree.Box, n dom.NodeID) []*boxtree.Box {
	var boxes []*boxtree.Box
	if root == nil || n == dom.NoNode {
		return boxes
	}
	root.Walk(func(b *boxtree.Box) bool {
		if b.Node == n {
			boxes = append(boxes, b)
		}
		return true
	})
	return boxes
}

// BoundingClientRect returns the union of the border boxes of the boxes
// generated for a node. If the node has no boxes, e.g. because of
// `display: none`, false is returned.
func BoundingClientRect(root *boxtree.Box, n dom.NodeID) (dimen.Rect, bool) {
	boxes := Boxes(root, n)
	if len(boxes) == 0 {
		return dimen.Rect{}, false
	}
	r := BorderBox(boxes[0])
	for _, b := range boxes[1:] {
		r = r.Union(BorderBox(b))
	}
	return r, true
}

// BoxAt returns the box at point p. Of overlapping boxes, the one latest in
// document order wins. Invisible boxes are not hit.
func BoxAt(root *boxtree.Box, p dimen.Point) *boxtree.Box {
	var hit *boxtree.Box
	if root == nil {
		return nil
	}
	root.Walk(func(b *boxtree.Box) bool {
		if b.IsAnonymous() || (b.Styles != nil && b.Styles.Visibility != css.Visible) {
			return true
		}
		if b.Kind == boxtree.InlineBox || b.IsText() {
			for _, r := range Fragments(b) {
				if r.Contains(p) {
					hit = b
					break
				}
			}
			return true
		}
		if BorderBox(b).Contains(p) {
			hit = b
		}
		return true
	})
	return hit
}
