package layout

import (
	"context"
	"runtime"

	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/frame/inline"
	"golang.org/x/sync/errgroup"
)

// maxParallelDepth limits concurrent layout to the top levels of the tree.
// Further down, subtrees are too small to pay for a goroutine.
const maxParallelDepth = 3

// layoutBox lays out a block-level or atomic box and its content. It sets
// the size and margins of b, but not its position.
func (e *Engine) layoutBox(ctx context.Context, b *boxtree.Box, c constraint, depth int) error {
	if err := core.Canceled(ctx); err != nil {
		return err
	}
	if e.upToDate(b, c) {
		tracer().Debugf("%s is up to date", b)
		return nil
	}
	b.Cache.Valid = false
	prepare(b, c)
	if err := e.resolveWidth(ctx, b, c, depth); err != nil {
		return err
	}
	cw := b.ContentWidth().UnwrapOr(0)
	ch := innerHeight(b, c)
	var content dimen.Dimen
	var err error
	switch {
	case b.Replaced:
		_, content = replacedSize(b)
	case b.Context() == frame.FlexContext:
		content, err = e.layoutFlex(ctx, b, cw, ch, depth)
	case b.Context() == frame.InlineContext:
		content, err = e.layoutInline(ctx, b, cw, ch, depth)
	default:
		content, err = e.layoutBlock(ctx, b, cw, ch, depth)
	}
	if err != nil {
		return err
	}
	resolveHeight(b, c, content)
	e.done(b, c)
	tracer().Debugf("%s: %v", b, b.BorderRect())
	return nil
}

// edges returns the box model of b with percentages resolved against the
// width of the containing block. Heights are left untouched.
func edges(b *boxtree.Box, cbw dimen.Dimen) frame.Box {
	var fb frame.Box
	if b.IsAnonymous() || b.Styles == nil {
		frame.InitEmptyBox(&fb)
	} else {
		b.Styles.InitBox(&fb)
	}
	fb.FixPercentages(cbw)
	for dir := frame.Top; dir <= frame.Left; dir++ {
		fb.Padding[dir] = nonNegative(fb.Padding[dir], "padding")
		fb.BorderWidth[dir] = nonNegative(fb.BorderWidth[dir], "border width")
		if m := fb.Margins[dir]; !m.IsAbsolute() && !m.IsAuto() {
			fb.Margins[dir] = css.SomeDimen(0)
		}
	}
	fb.W = fb.W.ResolvePercent(cbw)
	fb.Min.W = minimum(fb.Min.W.ResolvePercent(cbw))
	fb.Max.W = fb.Max.W.ResolvePercent(cbw)
	return fb
}

// prepare initializes the box model of b from its styles.
func prepare(b *boxtree.Box, c constraint) {
	pos := b.TopL
	b.Box = edges(b, c.width)
	b.TopL = pos
	if c.height.IsAbsolute() {
		cbh := c.height.Unwrap()
		b.H = b.H.ResolvePercent(cbh)
		b.Min.H = b.Min.H.ResolvePercent(cbh)
		b.Max.H = b.Max.H.ResolvePercent(cbh)
	} else {
		if b.H.IsPercent() {
			b.H = css.Auto()
		}
		if b.Max.H.IsPercent() {
			b.Max.H = css.DimenOption("none")
		}
	}
	b.Min.H = minimum(b.Min.H)
	b.Lines = nil
}

func minimum(d css.DimenT) css.DimenT {
	if !d.IsAbsolute() {
		return css.SomeDimen(0)
	}
	return d
}

func nonNegative(d css.DimenT, what string) css.DimenT {
	if !d.IsAbsolute() {
		return css.SomeDimen(0)
	}
	if d.Unwrap() < 0 {
		constraintViolation("negative %s %v", what, d)
		return css.SomeDimen(0)
	}
	return d
}

// constraintViolation reports a value which layout had to clamp.
func constraintViolation(format string, v ...interface{}) {
	tracer().Errorf("%v", core.Error(core.ECONSTRAINT, format, v...))
}

// --- Widths ----------------------------------------------------------------

func decorationW(fb *frame.Box) dimen.Dimen {
	return fb.DecorationWidth(false).UnwrapOr(0)
}

func decorationH(fb *frame.Box) dimen.Dimen {
	return fb.DecorationHeight(false).UnwrapOr(0)
}

// borderBoxW converts a width of the sizing box to a border box width.
func borderBoxW(fb *frame.Box, w dimen.Dimen) dimen.Dimen {
	if fb.BorderBoxSizing {
		return w
	}
	return w + decorationW(fb)
}

func borderBoxH(fb *frame.Box, h dimen.Dimen) dimen.Dimen {
	if fb.BorderBoxSizing {
		return h
	}
	return h + decorationH(fb)
}

// clampW applies min-width and max-width to a border box width.
func clampW(fb *frame.Box, bw dimen.Dimen) dimen.Dimen {
	if fb.Max.W.IsAbsolute() {
		bw = dimen.Min(bw, borderBoxW(fb, fb.Max.W.Unwrap()))
	}
	if fb.Min.W.IsAbsolute() {
		bw = dimen.Max(bw, borderBoxW(fb, fb.Min.W.Unwrap()))
	}
	return dimen.Max(bw, decorationW(fb))
}

func clampH(fb *frame.Box, bh dimen.Dimen) dimen.Dimen {
	if fb.Max.H.IsAbsolute() {
		bh = dimen.Min(bh, borderBoxH(fb, fb.Max.H.Unwrap()))
	}
	if fb.Min.H.IsAbsolute() {
		bh = dimen.Max(bh, borderBoxH(fb, fb.Min.H.Unwrap()))
	}
	return dimen.Max(bh, decorationH(fb))
}

func marginsW(fb *frame.Box) dimen.Dimen {
	return fb.Margins[frame.Left].UnwrapOr(0) + fb.Margins[frame.Right].UnwrapOr(0)
}

func marginsH(fb *frame.Box) dimen.Dimen {
	return fb.Margins[frame.Top].UnwrapOr(0) + fb.Margins[frame.Bottom].UnwrapOr(0)
}

// shrinks is true for boxes whose auto width shrinks to fit their content.
func shrinks(b *boxtree.Box, c constraint) bool {
	return c.shrink || b.Kind == boxtree.AtomicInlineBox || b.IsOutOfFlow() ||
		(b.Styles != nil && b.Styles.Float && !b.FlexItem)
}

// resolveWidth fixes the border box width and the horizontal margins of b.
func (e *Engine) resolveWidth(ctx context.Context, b *boxtree.Box, c constraint, depth int) error {
	fb := &b.Box
	var bw dimen.Dimen
	shrink := false
	switch {
	case c.fixW.IsAbsolute():
		bw = c.fixW.Unwrap()
	case b.Replaced:
		w, _ := replacedSize(b)
		bw = clampW(fb, w+decorationW(fb))
	case fb.W.IsAbsolute():
		bw = clampW(fb, borderBoxW(fb, fb.W.Unwrap()))
	case fb.W.IsContentScaled() || shrinks(b, c):
		min, max, err := e.intrinsic(ctx, b, depth)
		if err != nil {
			return err
		}
		var w dimen.Dimen
		switch fb.W.ContentKeyword() {
		case css.DimenContentMin:
			w = min
		case css.DimenContentMax:
			w = max
		default:
			avail := c.width - marginsW(fb) - decorationW(fb)
			w = dimen.Min(dimen.Max(min, avail), max)
		}
		bw = clampW(fb, w+decorationW(fb))
		shrink = true
	default:
		bw = clampW(fb, c.width-marginsW(fb))
	}
	if !shrink && !b.FlexItem && !b.IsOutOfFlow() && !c.fixW.IsAbsolute() {
		centerHorizontally(fb, c.width, bw)
	}
	for dir := frame.Top; dir <= frame.Left; dir++ {
		if fb.Margins[dir].IsAuto() {
			fb.Margins[dir] = css.SomeDimen(0)
		}
	}
	if bw < 0 {
		constraintViolation("negative width %v for %s", bw, b)
		bw = 0
	}
	fb.FixBorderBoxWidth(bw)
	return nil
}

// centerHorizontally resolves auto margins of a block-level box in the
// normal flow.
func centerHorizontally(fb *frame.Box, cbw, bw dimen.Dimen) {
	ml, mr := fb.Margins[frame.Left], fb.Margins[frame.Right]
	free := cbw - bw - ml.UnwrapOr(0) - mr.UnwrapOr(0)
	switch {
	case ml.IsAuto() && mr.IsAuto():
		if free < 0 {
			fb.Margins[frame.Left], fb.Margins[frame.Right] = css.SomeDimen(0), css.SomeDimen(free)
			return
		}
		fb.Margins[frame.Left] = css.SomeDimen(free / 2)
		fb.Margins[frame.Right] = css.SomeDimen(free - free/2)
	case ml.IsAuto():
		fb.Margins[frame.Left] = css.SomeDimen(free)
	case mr.IsAuto():
		fb.Margins[frame.Right] = css.SomeDimen(free)
	}
}

// replacedSize returns the content size of a replaced element, keeping the
// aspect ratio of its intrinsic size if only one dimension is given.
func replacedSize(b *boxtree.Box) (w, h dimen.Dimen) {
	iw, ih := b.Intrinsic.W.UnwrapOr(0), b.Intrinsic.H.UnwrapOr(0)
	content := func(d css.DimenT, deco dimen.Dimen) (dimen.Dimen, bool) {
		if !d.IsAbsolute() {
			return 0, false
		}
		if b.BorderBoxSizing {
			return dimen.Max(0, d.Unwrap()-deco), true
		}
		return d.Unwrap(), true
	}
	w, hasW := content(b.W, decorationW(&b.Box))
	h, hasH := content(b.H, decorationH(&b.Box))
	switch {
	case hasW && hasH:
	case hasW:
		h = ih
		if iw > 0 {
			h = dimen.Dimen(int64(w) * int64(ih) / int64(iw))
		}
	case hasH:
		w = iw
		if ih > 0 {
			w = dimen.Dimen(int64(h) * int64(iw) / int64(ih))
		}
	default:
		w, h = iw, ih
	}
	return w, h
}

// --- Heights ---------------------------------------------------------------

// innerHeight returns the height of the content box of b, if it is known
// before laying out the content.
func innerHeight(b *boxtree.Box, c constraint) css.DimenT {
	fb := &b.Box
	switch {
	case c.fixH.IsAbsolute():
		return css.SomeDimen(dimen.Max(0, c.fixH.Unwrap()-decorationH(fb)))
	case fb.H.IsAbsolute():
		bh := clampH(fb, borderBoxH(fb, fb.H.Unwrap()))
		return css.SomeDimen(bh - decorationH(fb))
	}
	return css.Dimen()
}

// resolveHeight fixes the border box height of b, given the height of its
// content.
func resolveHeight(b *boxtree.Box, c constraint, content dimen.Dimen) {
	fb := &b.Box
	var bh dimen.Dimen
	switch {
	case c.fixH.IsAbsolute():
		bh = c.fixH.Unwrap()
	case fb.H.IsAbsolute():
		bh = clampH(fb, borderBoxH(fb, fb.H.Unwrap()))
	default:
		bh = clampH(fb, content+decorationH(fb))
	}
	if bh < 0 {
		constraintViolation("negative height %v for %s", bh, b)
		bh = 0
	}
	if fb.BorderBoxSizing {
		fb.H = css.SomeDimen(bh)
	} else {
		fb.FixContentHeight(bh - decorationH(fb))
	}
}

// --- Block formatting context ----------------------------------------------

func inFlow(b *boxtree.Box) []*boxtree.Box {
	kids := make([]*boxtree.Box, 0, len(b.Children))
	for _, c := range b.Children {
		if !c.IsOutOfFlow() {
			kids = append(kids, c)
		}
	}
	return kids
}

// layoutChildren lays out boxes against the same containing block. With
// parallel layout enabled, boxes near the root are laid out concurrently.
func (e *Engine) layoutChildren(ctx context.Context, kids []*boxtree.Box, c constraint, depth int) error {
	if !e.Parallel || depth >= maxParallelDepth || len(kids) < 2 {
		for _, k := range kids {
			if err := e.layoutBox(ctx, k, c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, k := range kids {
		k := k
		g.Go(func() error {
			return e.layoutBox(gctx, k, c, depth+1)
		})
	}
	return g.Wait()
}

// layoutBlock stacks the children of b vertically, collapsing the margins
// of adjacent siblings. It returns the height of the content.
func (e *Engine) layoutBlock(ctx context.Context, b *boxtree.Box, cw dimen.Dimen, ch css.DimenT,
	depth int) (dimen.Dimen, error) {
	//
	kids := inFlow(b)
	if err := e.layoutChildren(ctx, kids, available(cw, ch), depth); err != nil {
		return 0, err
	}
	bottom, prevMargin := dimen.Zero, dimen.Zero
	first := true
	for _, k := range b.Children {
		if k.IsOutOfFlow() {
			k.TopL = staticPosition(k, cw, dimen.Point{Y: bottom + prevMargin})
			continue
		}
		mt := k.Margins[frame.Top].UnwrapOr(0)
		top := mt
		if !first {
			top = bottom + frame.CollapseMargins(prevMargin, mt)
		}
		k.TopL = dimen.Point{X: k.Margins[frame.Left].UnwrapOr(0), Y: top}
		bottom = top + k.BorderBoxHeight().UnwrapOr(0)
		prevMargin = k.Margins[frame.Bottom].UnwrapOr(0)
		first = false
	}
	for _, k := range kids {
		shiftRelative(k, cw, ch)
	}
	if first {
		return 0, nil
	}
	return bottom + prevMargin, nil
}

// shiftRelative moves a relatively positioned box by its offsets.
func shiftRelative(b *boxtree.Box, cw dimen.Dimen, ch css.DimenT) {
	s := b.Styles
	if s == nil || (s.Position != css.PositionRelative && s.Position != css.PositionSticky) {
		return
	}
	off := func(d css.DimenT, base css.DimenT) (dimen.Dimen, bool) {
		if d.IsPercent() && base.IsAbsolute() {
			d = d.ResolvePercent(base.Unwrap())
		}
		return d.Unwrap(), d.IsAbsolute()
	}
	w := css.SomeDimen(cw)
	if l, ok := off(s.Offsets[frame.Left], w); ok {
		b.TopL.X += l
	} else if r, ok := off(s.Offsets[frame.Right], w); ok {
		b.TopL.X -= r
	}
	if t, ok := off(s.Offsets[frame.Top], ch); ok {
		b.TopL.Y += t
	} else if bt, ok := off(s.Offsets[frame.Bottom], ch); ok {
		b.TopL.Y -= bt
	}
}

// --- Inline formatting context ---------------------------------------------

// layoutInline lays out the atomic inline boxes of b and breaks its inline
// content into lines.
func (e *Engine) layoutInline(ctx context.Context, b *boxtree.Box, cw dimen.Dimen, ch css.DimenT,
	depth int) (dimen.Dimen, error) {
	//
	atomics := inline.Atomics(b)
	c := available(cw, ch)
	c.shrink = true
	if err := e.layoutChildren(ctx, atomics, c, depth); err != nil {
		return 0, err
	}
	res := inline.Layout(b, cw, e.measurer)
	b.Lines = res.Lines
	for _, a := range atomics {
		shiftRelative(a, cw, ch)
	}
	return res.Height, nil
}
