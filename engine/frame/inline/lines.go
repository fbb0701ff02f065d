package inline

import (
	"math"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/text"
)

// Result is the outcome of breaking inline content into lines.
type Result struct {
	Lines  []*boxtree.LineBox
	Height dimen.Dimen // sum of line heights
	Width  dimen.Dimen // natural width of the widest line
}

// line is a line under construction.
type line struct {
	items  []item
	forced bool // ended by a forced break
	first  bool
}

// natural returns the width of a line's content, without collapsible spaces
// at its end.
func (l *line) natural() dimen.Dimen {
	w := dimen.Zero
	for _, it := range trimmed(l.items) {
		w += it.width
	}
	return w
}

// trimmed strips collapsible and hanging spaces from the end of a line.
// Edges of inline boxes and forced breaks behind them are kept.
func trimmed(items []item) []item {
	var keep []item
	i := len(items) - 1
	for ; i >= 0; i-- {
		it := items[i]
		if it.kind == spaceItem && (it.collapsible || it.wrap) {
			continue
		}
		if it.kind == openItem || it.kind == closeItem || it.kind == breakItem {
			keep = append(keep, it)
			continue
		}
		break
	}
	if i == len(items)-1 {
		return items
	}
	out := make([]item, 0, i+1+len(keep))
	out = append(out, items[:i+1]...)
	for k := len(keep) - 1; k >= 0; k-- {
		out = append(out, keep[k])
	}
	return out
}

// Layout breaks the inline content of container into lines of the given
// width. Atomic inline boxes must have been laid out before, as their size
// is needed. Layout positions atomic boxes and sets the boxes of text runs
// and inline boxes to the union of their fragments.
//
// Coordinates are relative to the content box of the container.
func Layout(container *boxtree.Box, width dimen.Dimen, m text.Measurer) *Result {
	items := flatten(container, m)
	s := container.Styles
	indent := s.TextIndent.ResolvePercent(width).UnwrapOr(0)
	lines := breakLines(items, width, indent)
	res := &Result{}
	strut := metricsOf(s, m)
	extents := make(map[*boxtree.Box]dimen.Rect)
	y := dimen.Zero
	var carried []*boxtree.Box
	for i, l := range lines {
		last := i == len(lines)-1
		var lbox *boxtree.LineBox
		lbox, carried = setLine(l, carried, y, width, indent, s.TextAlign, last, strut, m, extents)
		res.Lines = append(res.Lines, lbox)
		res.Width = dimen.Max(res.Width, l.natural())
		y = lbox.Rect.BotR.Y
	}
	res.Height = y
	for b, r := range extents {
		b.TopL = r.TopL
		b.BorderBoxSizing = true
		b.W = css.SomeDimen(r.Width())
		b.H = css.SomeDimen(r.Height())
	}
	tracer().Debugf("%s: %d lines, height %v", container, len(res.Lines), res.Height)
	return res
}

// Measure returns the min-content and max-content widths of the inline
// content of container.
func Measure(container *boxtree.Box, m text.Measurer) (min, max dimen.Dimen) {
	items := flatten(container, m)
	edge := dimen.Zero
	for _, it := range items {
		switch it.kind {
		case wordItem, atomicItem:
			min = dimen.Max(min, it.width+edge)
			edge = 0
		case openItem, closeItem:
			edge += it.width
		default:
			edge = 0
		}
	}
	indent := container.Styles.TextIndent.UnwrapOr(0)
	for _, l := range breakLines(items, math.MaxInt32, indent) {
		w := l.natural()
		if l.first {
			w += indent
		}
		max = dimen.Max(max, w)
	}
	return dimen.Max(min, 0), dimen.Max(max, min)
}

// breakLines fills items into lines greedily.
func breakLines(items []item, width, indent dimen.Dimen) []*line {
	var lines []*line
	cur := &line{first: true}
	x := indent
	hasContent := false
	lastBreak := -1 // a break is allowed before cur.items[lastBreak]
	for _, it := range items {
		switch it.kind {
		case breakItem:
			cur.items = append(cur.items, it)
			cur.forced = true
			lines = append(lines, cur)
			cur, x, hasContent, lastBreak = &line{}, 0, false, -1
			continue
		case spaceItem:
			if it.collapsible && !hasContent {
				continue
			}
			cur.items = append(cur.items, it)
			x += it.width
			if it.wrap {
				lastBreak = len(cur.items)
			}
			continue
		case wordItem, atomicItem:
			if hasContent && lastBreak > 0 && x+it.width > width {
				rest := append([]item(nil), cur.items[lastBreak:]...)
				cur.items = cur.items[:lastBreak]
				lines = append(lines, cur)
				cur, x, lastBreak = &line{items: rest}, 0, -1
				for _, r := range rest {
					x += r.width
				}
			}
			hasContent = true
		}
		cur.items = append(cur.items, it)
		x += it.width
	}
	if len(cur.items) > 0 && hasLineContent(cur.items) {
		lines = append(lines, cur)
	}
	return lines
}

func hasLineContent(items []item) bool {
	for _, it := range items {
		if it.isContent() || it.kind == openItem || it.kind == breakItem {
			return true
		}
	}
	return false
}

// vmetrics are the vertical extents of an item above and below the baseline.
type vmetrics struct {
	above, below dimen.Dimen
}

// metricsOf computes the extents of a run of text: its line height with the
// font's ascent and descent centered in it.
func metricsOf(s *frame.Styling, m text.Measurer) vmetrics {
	fm := m.Metrics(FontOf(s))
	leading := s.LineHeight - fm.Height()
	above := leading/2 + fm.Ascent
	return vmetrics{above: above, below: s.LineHeight - above}
}

type placed struct {
	item
	x    dimen.Dimen
	vm   vmetrics
	cont bool // inline box continued from the previous line
	open int  // inline boxes: index of the fragment at the start edge
}

// setLine positions the items of a line and creates its line box. Inline
// boxes still open at the start of the line are passed in carried; the
// boxes still open at its end are returned.
func setLine(l *line, carried []*boxtree.Box, y, width, indent dimen.Dimen, align css.TextAlign,
	last bool, strut vmetrics, m text.Measurer,
	extents map[*boxtree.Box]dimen.Rect) (*boxtree.LineBox, []*boxtree.Box) {
	//
	items := trimmed(l.items)
	x := dimen.Zero
	if l.first {
		x = indent
	}
	natural := x
	spaces := 0
	for _, it := range items {
		natural += it.width
		if it.kind == spaceItem {
			spaces++
		}
	}
	extra := dimen.Max(0, width-natural)
	var perSpace, remainder dimen.Dimen
	switch align {
	case css.TextAlignRight:
		x += extra
	case css.TextAlignCenter:
		x += extra / 2
	case css.TextAlignJustify:
		if !last && !l.forced && spaces > 0 {
			perSpace = extra / dimen.Dimen(spaces)
			remainder = extra - perSpace*dimen.Dimen(spaces)
		}
	}
	// horizontal placement and vertical extents
	above, below := strut.above, strut.below
	pl := make([]placed, 0, len(carried)+len(items))
	for _, b := range carried {
		vm := metricsOf(b.Styles, m)
		pl = append(pl, placed{item: item{kind: openItem, box: b}, x: x, vm: vm, cont: true})
		above, below = dimen.Max(above, vm.above), dimen.Max(below, vm.below)
	}
	for _, it := range items {
		p := placed{item: it, x: x}
		if it.kind == atomicItem {
			b := it.box
			p.vm = vmetrics{above: b.TotalHeight().UnwrapOr(b.BorderBoxHeight().UnwrapOr(0))}
		} else {
			p.vm = metricsOf(it.box.Styles, m)
		}
		if it.kind == spaceItem && perSpace > 0 {
			p.width += perSpace
			if remainder > 0 {
				p.width += dimen.LU
				remainder -= dimen.LU
			}
		}
		above = dimen.Max(above, p.vm.above)
		below = dimen.Max(below, p.vm.below)
		x += p.width
		pl = append(pl, p)
	}
	lbox := &boxtree.LineBox{
		Rect:     dimen.RectOf(0, y, width, above+below),
		Baseline: above,
	}
	base := y + above
	var open []*placed
	for i := range pl {
		p := &pl[i]
		switch p.kind {
		case wordItem, spaceItem:
			r := dimen.RectOf(p.x, base-p.vm.above, p.width, p.vm.above+p.vm.below)
			if n := len(lbox.Items); n > 0 && lbox.Items[n-1].Box == p.box &&
				lbox.Items[n-1].Rect.BotR.X == p.x {
				f := &lbox.Items[n-1]
				f.Rect = f.Rect.Union(r)
				f.Text += p.text
			} else {
				lbox.Items = append(lbox.Items, boxtree.Fragment{Box: p.box, Rect: r, Text: p.text})
			}
		case atomicItem:
			b := p.box
			b.TopL = dimen.Point{
				X: p.x + b.Margins[frame.Left].UnwrapOr(0),
				Y: base - p.vm.above + b.Margins[frame.Top].UnwrapOr(0),
			}
			lbox.Items = append(lbox.Items, boxtree.Fragment{Box: b, Rect: b.BorderRect()})
		case openItem:
			p.open = len(lbox.Items)
			open = append(open, p)
		case closeItem:
			if k := len(open) - 1; k >= 0 && open[k].box == p.box {
				right := p.x + p.width - p.box.Margins[frame.Right].UnwrapOr(0)
				insertFragment(lbox, open[k], right, base)
				open = open[:k]
			}
		}
	}
	var still []*boxtree.Box
	for k := len(open) - 1; k >= 0; k-- {
		insertFragment(lbox, open[k], x, base)
	}
	for _, p := range open {
		still = append(still, p.box)
	}
	for _, f := range lbox.Items {
		if f.Box.Kind == boxtree.AtomicInlineBox {
			continue
		}
		if r, ok := extents[f.Box]; ok {
			extents[f.Box] = r.Union(f.Rect)
		} else {
			extents[f.Box] = f.Rect
		}
	}
	return lbox, still
}

// insertFragment adds the fragment of an inline box in front of the
// fragments of its content. Horizontally it spans the border box up to
// right; vertically the content area plus padding and borders.
func insertFragment(lbox *boxtree.LineBox, p *placed, right, base dimen.Dimen) {
	b := p.box
	left := p.x
	if !p.cont {
		left += b.Margins[frame.Left].UnwrapOr(0)
	}
	if right < left {
		right = left
	}
	top := base - p.vm.above - b.Padding[frame.Top].UnwrapOr(0) - b.BorderWidth[frame.Top].UnwrapOr(0)
	bottom := base + p.vm.below + b.Padding[frame.Bottom].UnwrapOr(0) + b.BorderWidth[frame.Bottom].UnwrapOr(0)
	f := boxtree.Fragment{Box: b, Rect: dimen.Rect{
		TopL: dimen.Point{X: left, Y: top},
		BotR: dimen.Point{X: right, Y: bottom},
	}}
	lbox.Items = append(lbox.Items, boxtree.Fragment{})
	copy(lbox.Items[p.open+1:], lbox.Items[p.open:])
	lbox.Items[p.open] = f
}
