package layout

import (
	"context"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
)

// staticPosition returns the position an absolutely positioned box would
// have in the normal flow, given the top left corner of its margin box.
func staticPosition(b *boxtree.Box, cw dimen.Dimen, p dimen.Point) dimen.Point {
	fb := edges(b, cw)
	p.X += fb.Margins[frame.Left].UnwrapOr(0)
	p.Y += fb.Margins[frame.Top].UnwrapOr(0)
	return p
}

// positionOutOfFlow lays out the absolutely positioned boxes of a tree, in
// document order. Their containing block is the padding box of the nearest
// positioned ancestor, or the viewport.
func (e *Engine) positionOutOfFlow(ctx context.Context, root *boxtree.Box, view View) error {
	var visit func(b *boxtree.Box, cb dimen.Rect) error
	visit = func(b *boxtree.Box, cb dimen.Rect) error {
		if b.IsText() {
			return nil
		}
		if b != root && b.IsOutOfFlow() {
			r := cb
			if b.Styles.Position == css.PositionFixed {
				r = view.Rect
			}
			if err := e.layoutPositioned(ctx, b, r); err != nil {
				return err
			}
		}
		if b.IsPrincipal() && b.Styles.Position.IsPositioned() && b.Kind != boxtree.InlineBox {
			cb = PaddingBox(b)
		}
		for _, c := range b.Children {
			if err := visit(c, cb); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(root, view.Rect)
}

// layoutPositioned lays out an absolutely positioned box against the
// padding box of its containing block, given in absolute coordinates.
func (e *Engine) layoutPositioned(ctx context.Context, b *boxtree.Box, cb dimen.Rect) error {
	cbw, cbh := cb.Width(), cb.Height()
	var off [4]css.DimenT
	for dir := frame.Top; dir <= frame.Left; dir++ {
		base := cbw
		if dir == frame.Top || dir == frame.Bottom {
			base = cbh
		}
		off[dir] = b.Styles.Offsets[dir].ResolvePercent(base)
	}
	fb := edges(b, cbw)
	c := available(cbw, css.SomeDimen(cbh))
	if fb.W.IsAuto() && off[frame.Left].IsAbsolute() && off[frame.Right].IsAbsolute() {
		w := cbw - off[frame.Left].Unwrap() - off[frame.Right].Unwrap() - marginsW(&fb)
		c.fixW = css.SomeDimen(clampW(&fb, dimen.Max(0, w)))
	}
	if fb.H.IsAuto() && off[frame.Top].IsAbsolute() && off[frame.Bottom].IsAbsolute() {
		h := cbh - off[frame.Top].Unwrap() - off[frame.Bottom].Unwrap() - marginsH(&fb)
		c.fixH = css.SomeDimen(dimen.Max(decorationH(&fb), h))
	}
	static := BorderBox(b).TopL
	if err := e.layoutBox(ctx, b, c, 0); err != nil {
		return err
	}
	bw, bh := b.BorderBoxWidth().UnwrapOr(0), b.BorderBoxHeight().UnwrapOr(0)
	p := static
	switch {
	case off[frame.Left].IsAbsolute():
		p.X = cb.TopL.X + off[frame.Left].Unwrap() + b.Margins[frame.Left].UnwrapOr(0)
	case off[frame.Right].IsAbsolute():
		p.X = cb.BotR.X - off[frame.Right].Unwrap() - b.Margins[frame.Right].UnwrapOr(0) - bw
	}
	switch {
	case off[frame.Top].IsAbsolute():
		p.Y = cb.TopL.Y + off[frame.Top].Unwrap() + b.Margins[frame.Top].UnwrapOr(0)
	case off[frame.Bottom].IsAbsolute():
		p.Y = cb.BotR.Y - off[frame.Bottom].Unwrap() - b.Margins[frame.Bottom].UnwrapOr(0) - bh
	}
	origin := ContentOrigin(b.FlowParent())
	b.TopL = dimen.Point{X: p.X - origin.X, Y: p.Y - origin.Y}
	tracer().Debugf("%s positioned at %v", b, p)
	return nil
}
