package layout

import (
	"context"
	"math"
	"sort"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
)

// flexItem holds the state of an item during flex layout. All sizes are
// border box sizes.
type flexItem struct {
	box          *boxtree.Box
	fb           frame.Box   // box model with percentages resolved
	base         dimen.Dimen // flex base size
	hypo         dimen.Dimen // hypothetical main size
	min, max     dimen.Dimen // main size constraints
	grow, shrink float64
	target       float64 // main size while resolving flexible lengths
	violation    float64
	frozen       bool
	main, cross  dimen.Dimen
	mainMargin   dimen.Dimen // sum of both main axis margins
	crossMargin  dimen.Dimen
	align        css.Align
}

type flexLine struct {
	items []*flexItem
	cross dimen.Dimen
}

// flexAxes describes the direction of a flex container.
type flexAxes struct {
	row     bool
	reverse bool
}

func (ax flexAxes) startMargin(fb *frame.Box, main bool) dimen.Dimen {
	if ax.row == main {
		return fb.Margins[frame.Left].UnwrapOr(0)
	}
	return fb.Margins[frame.Top].UnwrapOr(0)
}

// layoutFlex lays out the items of a flex container with content width cw
// and content height ch, if known. It returns the height of the content.
func (e *Engine) layoutFlex(ctx context.Context, b *boxtree.Box, cw dimen.Dimen, ch css.DimenT,
	depth int) (dimen.Dimen, error) {
	//
	s := b.Styles
	ax := flexAxes{row: !s.FlexDirection.IsColumn(), reverse: s.FlexDirection.IsReverse()}
	mainGap := s.ColumnGap.ResolvePercent(cw).UnwrapOr(0)
	crossGap := s.RowGap.ResolvePercent(cw).UnwrapOr(0)
	mainSize, crossSize := css.SomeDimen(cw), ch
	if !ax.row {
		mainGap, crossGap = crossGap, mainGap
		mainSize, crossSize = ch, css.SomeDimen(cw)
	}
	for _, k := range b.Children {
		if k.IsOutOfFlow() {
			k.TopL = staticPosition(k, cw, dimen.Origin)
		}
	}
	wrap := s.FlexWrap != css.FlexNoWrap
	items, err := e.flexItems(ctx, b, ax, cw, ch, mainSize, !wrap, depth)
	if err != nil {
		return 0, err
	}
	lines := collectLines(items, mainSize, mainGap, wrap)
	// main sizes
	for _, l := range lines {
		if !mainSize.IsAbsolute() {
			for _, it := range l.items {
				it.main = it.hypo
			}
			continue
		}
		avail := mainSize.Unwrap() - dimen.Dimen(len(l.items)-1)*mainGap
		for _, it := range l.items {
			avail -= it.mainMargin
		}
		resolveFlexible(l.items, avail)
	}
	// cross sizes
	for _, l := range lines {
		for _, it := range l.items {
			if err := e.layoutItem(ctx, it, ax, cw, ch, css.Dimen(), depth); err != nil {
				return 0, err
			}
			l.cross = dimen.Max(l.cross, it.cross+it.crossMargin)
		}
	}
	if !wrap && crossSize.IsAbsolute() {
		lines[0].cross = crossSize.Unwrap()
	}
	for _, l := range lines {
		for _, it := range l.items {
			if it.align != css.AlignStretch || !autoCross(it, ax) {
				continue
			}
			var target dimen.Dimen
			if ax.row {
				target = clampH(&it.box.Box, l.cross-it.crossMargin)
			} else {
				target = clampW(&it.fb, l.cross-it.crossMargin)
			}
			if target != it.cross {
				if err := e.layoutItem(ctx, it, ax, cw, ch, css.SomeDimen(target), depth); err != nil {
					return 0, err
				}
			}
		}
	}
	// positions
	var mainUsed dimen.Dimen
	for _, l := range lines {
		mainUsed = dimen.Max(mainUsed, placeMain(l, ax, s.Justify, mainSize, mainGap))
	}
	if mainSize.IsAbsolute() {
		mainUsed = mainSize.Unwrap()
	}
	crossUsed := placeCross(lines, ax, crossGap, s.FlexWrap == css.FlexWrapReverse)
	for _, it := range items {
		shiftRelative(it.box, cw, ch)
	}
	if ax.row {
		return crossUsed, nil
	}
	return mainUsed, nil
}

// flexItems collects the in-flow children of a flex container in order and
// determines their flex base sizes.
func (e *Engine) flexItems(ctx context.Context, b *boxtree.Box, ax flexAxes, cw dimen.Dimen,
	ch, mainSize css.DimenT, singleLine bool, depth int) ([]*flexItem, error) {
	//
	kids := inFlow(b)
	sort.SliceStable(kids, func(i, j int) bool {
		return kids[i].Styles.Order < kids[j].Styles.Order
	})
	items := make([]*flexItem, 0, len(kids))
	for _, k := range kids {
		it := &flexItem{box: k, fb: edges(k, cw), grow: k.Styles.FlexGrow, shrink: k.Styles.FlexShrink}
		fb := &it.fb
		it.align = k.Styles.AlignSelf
		if it.align == css.AlignAuto {
			it.align = b.Styles.AlignItems
		}
		basis := k.Styles.FlexBasis
		if basis.IsPercent() {
			if mainSize.IsAbsolute() {
				basis = basis.ResolvePercent(mainSize.Unwrap())
			} else {
				basis = css.DimenOption("max-content")
			}
		}
		if ax.row {
			it.mainMargin, it.crossMargin = marginsW(fb), marginsH(fb)
			it.min, it.max = widthConstraints(fb)
			if basis.IsAuto() {
				basis = fb.W
			}
		} else {
			it.mainMargin, it.crossMargin = marginsH(fb), marginsW(fb)
			it.min, it.max = heightConstraints(fb, ch)
			if basis.IsAuto() {
				basis = fb.H
				if basis.IsPercent() && ch.IsAbsolute() {
					basis = basis.ResolvePercent(ch.Unwrap())
				}
			}
		}
		switch {
		case basis.IsAbsolute() && ax.row:
			it.base = borderBoxW(fb, basis.Unwrap())
		case basis.IsAbsolute():
			it.base = borderBoxH(fb, basis.Unwrap())
		case ax.row:
			min, max, err := e.intrinsic(ctx, k, depth+1)
			if err != nil {
				return nil, err
			}
			if basis.ContentKeyword() == css.DimenContentMin {
				max = min
			}
			it.base = max + decorationW(fb)
		default:
			c := available(cw, css.Dimen())
			if singleLine && it.align == css.AlignStretch && autoCross(it, ax) {
				c.fixW = css.SomeDimen(clampW(fb, cw-it.crossMargin))
			} else {
				c.shrink = true
			}
			if err := e.layoutBox(ctx, k, c, depth+1); err != nil {
				return nil, err
			}
			it.base = k.BorderBoxHeight().UnwrapOr(0)
		}
		it.hypo = dimen.Clamp(it.base, it.min, it.max)
		items = append(items, it)
	}
	return items, nil
}

// autoCross is true if the cross size of an item depends on its content.
func autoCross(it *flexItem, ax flexAxes) bool {
	if ax.row {
		return !it.fb.H.IsAbsolute() && !it.fb.H.IsPercent()
	}
	return !it.fb.W.IsAbsolute()
}

func widthConstraints(fb *frame.Box) (min, max dimen.Dimen) {
	min = decorationW(fb)
	if fb.Min.W.IsAbsolute() {
		min = dimen.Max(min, borderBoxW(fb, fb.Min.W.Unwrap()))
	}
	max = unbounded
	if fb.Max.W.IsAbsolute() {
		max = dimen.Max(min, borderBoxW(fb, fb.Max.W.Unwrap()))
	}
	return min, max
}

func heightConstraints(fb *frame.Box, ch css.DimenT) (min, max dimen.Dimen) {
	mn, mx := fb.Min.H, fb.Max.H
	if ch.IsAbsolute() {
		mn, mx = mn.ResolvePercent(ch.Unwrap()), mx.ResolvePercent(ch.Unwrap())
	}
	min = decorationH(fb)
	if mn.IsAbsolute() {
		min = dimen.Max(min, borderBoxH(fb, mn.Unwrap()))
	}
	max = unbounded
	if mx.IsAbsolute() {
		max = dimen.Max(min, borderBoxH(fb, mx.Unwrap()))
	}
	return min, max
}

// collectLines distributes items over flex lines.
func collectLines(items []*flexItem, mainSize css.DimenT, gap dimen.Dimen, wrap bool) []*flexLine {
	if !wrap || !mainSize.IsAbsolute() {
		return []*flexLine{{items: items}}
	}
	limit := mainSize.Unwrap()
	var lines []*flexLine
	cur := &flexLine{}
	used := dimen.Zero
	for _, it := range items {
		outer := it.hypo + it.mainMargin
		if len(cur.items) > 0 && used+gap+outer > limit {
			lines = append(lines, cur)
			cur, used = &flexLine{}, 0
		}
		if len(cur.items) > 0 {
			used += gap
		}
		cur.items = append(cur.items, it)
		used += outer
	}
	return append(lines, cur)
}

// resolveFlexible distributes the free space of a line among its items,
// according to their flex factors. It iterates until no item violates its
// min or max constraint.
func resolveFlexible(items []*flexItem, avail dimen.Dimen) {
	sumHypo := dimen.Zero
	for _, it := range items {
		sumHypo += it.hypo
	}
	growing := sumHypo < avail
	factor := func(it *flexItem) float64 {
		if growing {
			return it.grow
		}
		return it.shrink
	}
	for _, it := range items {
		it.target = float64(it.hypo)
		it.frozen = factor(it) == 0 || (growing && it.base > it.hypo) ||
			(!growing && it.base < it.hypo)
	}
	free := func() float64 {
		f := float64(avail)
		for _, it := range items {
			if it.frozen {
				f -= it.target
			} else {
				f -= float64(it.base)
			}
		}
		return f
	}
	initial := free()
	for {
		var unfrozen []*flexItem
		for _, it := range items {
			if !it.frozen {
				unfrozen = append(unfrozen, it)
			}
		}
		if len(unfrozen) == 0 {
			break
		}
		remaining := free()
		sum, scaled := 0.0, 0.0
		for _, it := range unfrozen {
			sum += factor(it)
			scaled += it.shrink * float64(it.base)
		}
		if sum < 1 {
			if v := initial * sum; math.Abs(v) < math.Abs(remaining) {
				remaining = v
			}
		}
		for _, it := range unfrozen {
			it.target = float64(it.base)
			switch {
			case growing:
				it.target += remaining * it.grow / sum
			case scaled > 0:
				it.target += remaining * it.shrink * float64(it.base) / scaled
			}
		}
		total := 0.0
		for _, it := range unfrozen {
			clamped := math.Max(float64(it.min), math.Min(it.target, float64(it.max)))
			it.violation = clamped - it.target
			it.target = clamped
			total += it.violation
		}
		for _, it := range unfrozen {
			switch {
			case total == 0:
				it.frozen = true
			case total > 0 && it.violation > 0:
				it.frozen = true
			case total < 0 && it.violation < 0:
				it.frozen = true
			}
		}
	}
	for _, it := range items {
		it.main = dimen.Dimen(math.Round(it.target))
	}
}

// layoutItem lays out a flex item at its main size. If cross is set, the
// item is stretched to it. The cross size of the item is recorded.
func (e *Engine) layoutItem(ctx context.Context, it *flexItem, ax flexAxes, cw dimen.Dimen,
	ch, cross css.DimenT, depth int) error {
	//
	c := available(cw, ch)
	if ax.row {
		c.fixW, c.fixH = css.SomeDimen(it.main), cross
	} else {
		c.fixH, c.fixW = css.SomeDimen(it.main), cross
		if !cross.IsAbsolute() {
			if it.align == css.AlignStretch && autoCross(it, ax) {
				c.fixW = css.SomeDimen(clampW(&it.fb, cw-it.crossMargin))
			} else {
				c.shrink = true
			}
		}
	}
	if err := e.layoutBox(ctx, it.box, c, depth+1); err != nil {
		return err
	}
	if ax.row {
		it.cross = it.box.BorderBoxHeight().UnwrapOr(0)
	} else {
		it.cross = it.box.BorderBoxWidth().UnwrapOr(0)
	}
	return nil
}

// justify returns the offset of the first item and the extra space between
// items for justify-content.
func justify(j css.Justify, free dimen.Dimen, n int) (start, between dimen.Dimen) {
	switch j {
	case css.JustifyEnd:
		return free, 0
	case css.JustifyCenter:
		return free / 2, 0
	case css.JustifySpaceBetween:
		if free > 0 && n > 1 {
			return 0, free / dimen.Dimen(n-1)
		}
	case css.JustifySpaceAround:
		if free > 0 {
			a := free / dimen.Dimen(n)
			return a / 2, a
		}
		return free / 2, 0
	case css.JustifySpaceEvenly:
		if free > 0 {
			a := free / dimen.Dimen(n+1)
			return a, a
		}
		return free / 2, 0
	}
	return 0, 0
}

// placeMain positions the items of a line along the main axis and returns
// the main size used by the line.
func placeMain(l *flexLine, ax flexAxes, j css.Justify, mainSize css.DimenT, gap dimen.Dimen) dimen.Dimen {
	used := dimen.Zero
	for i, it := range l.items {
		if i > 0 {
			used += gap
		}
		used += it.main + it.mainMargin
	}
	size := used
	if mainSize.IsAbsolute() {
		size = mainSize.Unwrap()
	}
	pos, between := justify(j, size-used, len(l.items))
	for i, it := range l.items {
		if i > 0 {
			pos += gap + between
		}
		outer := it.main + it.mainMargin
		start := pos
		if ax.reverse {
			start = size - pos - outer
		}
		start += ax.startMargin(&it.box.Box, true)
		if ax.row {
			it.box.TopL.X = start
		} else {
			it.box.TopL.Y = start
		}
		pos += outer
	}
	return used
}

// placeCross stacks the lines along the cross axis and aligns the items
// within their line. It returns the cross size of all lines.
func placeCross(lines []*flexLine, ax flexAxes, gap dimen.Dimen, reverse bool) dimen.Dimen {
	order := lines
	if reverse {
		order = make([]*flexLine, len(lines))
		for i, l := range lines {
			order[len(lines)-1-i] = l
		}
	}
	pos := dimen.Zero
	for i, l := range order {
		if i > 0 {
			pos += gap
		}
		for _, it := range l.items {
			var offset dimen.Dimen
			switch it.align {
			case css.AlignEnd:
				offset = l.cross - it.cross - it.crossMargin
			case css.AlignCenter:
				offset = (l.cross - it.cross - it.crossMargin) / 2
			}
			start := pos + offset + ax.startMargin(&it.box.Box, false)
			if ax.row {
				it.box.TopL.Y = start
			} else {
				it.box.TopL.X = start
			}
		}
		pos += l.cross
	}
	return pos
}
