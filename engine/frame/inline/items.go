package inline

import (
	"strings"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/text"
)

type itemKind uint8

const (
	wordItem itemKind = iota
	spaceItem
	atomicItem
	breakItem // forced line break
	openItem  // start edge of an inline box
	closeItem // end edge of an inline box
)

// item is an atom of inline content.
type item struct {
	kind        itemKind
	box         *boxtree.Box // text box, inline box or atomic box
	text        string
	width       dimen.Dimen
	wrap        bool // spaces: a line may be broken after this space
	collapsible bool // spaces: removed at the start and end of lines
}

func (it item) isContent() bool {
	return it.kind == wordItem || it.kind == atomicItem ||
		(it.kind == spaceItem && !it.collapsible)
}

// FontOf returns the font for text styled with s.
func FontOf(s *frame.Styling) text.Font {
	return text.Font{Family: s.FontFamily, Size: s.FontSize, Bold: s.Bold, Italic: s.Italic}
}

// flattener collects the items of an inline formatting context.
type flattener struct {
	m         text.Measurer
	items     []item
	lastSpace bool // previous item ended in collapsible white-space
}

func flatten(container *boxtree.Box, m text.Measurer) []item {
	f := &flattener{m: m, lastSpace: true}
	f.children(container)
	return f.items
}

func (f *flattener) children(box *boxtree.Box) {
	for _, c := range box.Children {
		switch c.Kind {
		case boxtree.TextBox:
			f.text(c)
		case boxtree.InlineBox:
			if c.IsLineBreak() {
				f.items = append(f.items, item{kind: breakItem, box: c})
				f.lastSpace = true
				continue
			}
			f.items = append(f.items, item{kind: openItem, box: c, width: startEdge(c)})
			f.children(c)
			f.items = append(f.items, item{kind: closeItem, box: c, width: endEdge(c)})
		case boxtree.AtomicInlineBox:
			w := c.BorderBoxWidth().UnwrapOr(0) +
				c.Margins[frame.Left].UnwrapOr(0) + c.Margins[frame.Right].UnwrapOr(0)
			f.items = append(f.items, item{kind: atomicItem, box: c, width: w})
			f.lastSpace = false
		default:
			// out-of-flow boxes take no space in the line
		}
	}
}

// text splits the text of a text box into words and spaces, processing
// white-space as demanded by the box's style.
func (f *flattener) text(b *boxtree.Box) {
	ws := b.Styles.WhiteSpace
	font := FontOf(b.Styles)
	s := strings.ReplaceAll(b.Text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if !ws.PreserveNewlines() {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	if ws.CollapseSpaces() {
		s = strings.ReplaceAll(s, "\t", " ")
	} else {
		s = strings.ReplaceAll(s, "\t", "        ")
	}
	for i, segment := range strings.Split(s, "\n") {
		if i > 0 {
			f.items = append(f.items, item{kind: breakItem, box: b})
			f.lastSpace = true
		}
		f.segment(b, segment, font, ws.CollapseSpaces(), ws.Wrap())
	}
}

func (f *flattener) segment(b *boxtree.Box, s string, font text.Font, collapse, wrap bool) {
	for len(s) > 0 {
		if s[0] == ' ' {
			n := len(s) - len(strings.TrimLeft(s, " "))
			spaces := s[:n]
			s = s[n:]
			if collapse {
				if f.lastSpace {
					continue
				}
				spaces = " "
				f.lastSpace = true
			} else {
				f.lastSpace = false
			}
			f.items = append(f.items, item{
				kind:        spaceItem,
				box:         b,
				text:        spaces,
				width:       f.m.Advance(spaces, font),
				wrap:        wrap,
				collapsible: collapse,
			})
			continue
		}
		n := strings.IndexByte(s, ' ')
		if n < 0 {
			n = len(s)
		}
		word := s[:n]
		s = s[n:]
		f.items = append(f.items, item{kind: wordItem, box: b, text: word, width: f.m.Advance(word, font)})
		f.lastSpace = false
	}
}

// startEdge is the width of margin, border and padding at the start of an
// inline box.
func startEdge(b *boxtree.Box) dimen.Dimen {
	return b.Margins[frame.Left].UnwrapOr(0) + b.BorderWidth[frame.Left].UnwrapOr(0) +
		b.Padding[frame.Left].UnwrapOr(0)
}

func endEdge(b *boxtree.Box) dimen.Dimen {
	return b.Margins[frame.Right].UnwrapOr(0) + b.BorderWidth[frame.Right].UnwrapOr(0) +
		b.Padding[frame.Right].UnwrapOr(0)
}

// Atomics returns the atomic inline boxes of an inline formatting context,
// which have to be laid out before the lines.
func Atomics(container *boxtree.Box) []*boxtree.Box {
	var atomics []*boxtree.Box
	var collect func(*boxtree.Box)
	collect = func(b *boxtree.Box) {
		for _, c := range b.Children {
			switch c.Kind {
			case boxtree.AtomicInlineBox:
				atomics = append(atomics, c)
			case boxtree.InlineBox:
				collect(c)
			}
		}
	}
	collect(container)
	return atomics
}

// InlineBoxes returns the non-atomic inline boxes of an inline formatting
// context, in document order.
func InlineBoxes(container *boxtree.Box) []*boxtree.Box {
	var boxes []*boxtree.Box
	var collect func(*boxtree.Box)
	collect = func(b *boxtree.Box) {
		for _, c := range b.Children {
			if c.Kind == boxtree.InlineBox {
				boxes = append(boxes, c)
				collect(c)
			}
		}
	}
	collect(container)
	return boxes
}
