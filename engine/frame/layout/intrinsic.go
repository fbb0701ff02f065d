package layout

import (
	"context"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/frame/inline"
)

// unbounded is used as available width when measuring content. It leaves
// head room for adding margins without overflow.
const unbounded = dimen.Infinity / 4

// intrinsic returns the min-content and max-content widths of the content
// box of b.
func (e *Engine) intrinsic(ctx context.Context, b *boxtree.Box, depth int) (min, max dimen.Dimen, err error) {
	if b.Replaced {
		w := b.Intrinsic.W.UnwrapOr(0)
		return w, w, nil
	}
	switch b.Context() {
	case frame.InlineContext:
		// atomic boxes are measured at their preferred width
		c := available(unbounded, css.Dimen())
		c.shrink = true
		for _, a := range inline.Atomics(b) {
			if err = e.layoutBox(ctx, a, c, depth+1); err != nil {
				return 0, 0, err
			}
		}
		min, max = inline.Measure(b, e.measurer)
		return min, max, nil
	case frame.FlexContext:
		s := b.Styles
		row := !s.FlexDirection.IsColumn()
		nowrap := s.FlexWrap == css.FlexNoWrap
		gap := s.ColumnGap.UnwrapOr(0)
		for i, k := range inFlow(b) {
			kmin, kmax, err := e.outerIntrinsic(ctx, k, depth)
			if err != nil {
				return 0, 0, err
			}
			if !row {
				min, max = dimen.Max(min, kmin), dimen.Max(max, kmax)
				continue
			}
			if i > 0 {
				max += gap
				if nowrap {
					min += gap
				}
			}
			max += kmax
			if nowrap {
				min += kmin
			} else {
				min = dimen.Max(min, kmin)
			}
		}
		return min, max, nil
	}
	for _, k := range inFlow(b) {
		kmin, kmax, err := e.outerIntrinsic(ctx, k, depth)
		if err != nil {
			return 0, 0, err
		}
		min, max = dimen.Max(min, kmin), dimen.Max(max, kmax)
	}
	return min, max, nil
}

// outerIntrinsic returns the min-content and max-content widths of the
// margin box of b.
func (e *Engine) outerIntrinsic(ctx context.Context, b *boxtree.Box, depth int) (min, max dimen.Dimen, err error) {
	fb := edges(b, 0)
	m := marginsW(&fb)
	if fb.W.IsAbsolute() {
		w := clampW(&fb, borderBoxW(&fb, fb.W.Unwrap())) + m
		return w, w, nil
	}
	if min, max, err = e.intrinsic(ctx, b, depth+1); err != nil {
		return 0, 0, err
	}
	deco := decorationW(&fb)
	return clampW(&fb, min+deco) + m, clampW(&fb, max+deco) + m, nil
}
