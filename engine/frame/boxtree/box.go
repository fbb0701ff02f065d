package boxtree

import (
	"fmt"
	"strings"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
)

// Kind classifies boxes by the role they play in their parent's formatting
// context.
type Kind uint8

// Kinds of boxes
const (
	BlockBox        Kind = iota // block-level box, including flex items
	InlineBox                   // non-atomic inline box, split across lines
	AtomicInlineBox             // inline-level box laid out as a unit, e.g. inline-block
	AnonymousBox                // anonymous block box or flex item wrapping inline content
	TextBox                     // run of text from a DOM text node
)

func (k Kind) String() string {
	switch k {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case AtomicInlineBox:
		return "atomic"
	case AnonymousBox:
		return "anon"
	case TextBox:
		return "text"
	}
	return "?"
}

// Box is a node of the box tree.
//
// The embedded frame.Box holds the geometry. Its TopL is the top left corner
// of the border box, relative to the content box of the nearest ancestor
// which is not an inline box. Inline boxes and text boxes are split across
// line boxes; their fragments are held in the line boxes of the container
// establishing the inline formatting context.
type Box struct {
	frame.Box
	Kind      Kind
	Display   css.DisplayMode // display mode used for layout
	Node      dom.NodeID      // NoNode for anonymous boxes
	Tag       string          // tag name of the element, if any
	Styles    *frame.Styling  // shared with the DOM parent's box for text boxes
	Text      string          // text boxes only; white-space is processed by layout
	FlexItem  bool            // box is an item of a flex container
	Replaced  bool            // replaced element, e.g. an image
	Intrinsic frame.Size      // intrinsic size of replaced elements
	Parent    *Box
	Children  []*Box
	Lines     []*LineBox // line boxes, if the box establishes an inline context
	Cache     LayoutCache
	context   frame.Context
	own       css.DisplayMode // display before flex item blockification
}

// LayoutCache is used by layout to skip boxes which are up to date.
// Key identifies the constraints the box has been laid out for; layout
// compares keys with ==.
type LayoutCache struct {
	Valid bool
	Key   interface{}
}

// LineBox is a line of an inline formatting context.
type LineBox struct {
	Rect     dimen.Rect  // relative to the content box of the container
	Baseline dimen.Dimen // offset of the baseline from the top of the line
	Items    []Fragment
}

// Fragment is the part of an inline-level box placed on a single line.
type Fragment struct {
	Box  *Box
	Rect dimen.Rect // relative to the content box of the container
	Text string     // for text boxes: the text on this line, white-space processed
}

var _ frame.Container = (*Box)(nil)

func newPrincipal(n dom.NodeID, tag string, s *frame.Styling) *Box {
	box := &Box{Node: n, Tag: tag, Styles: s, Display: s.Display}
	box.own = box.Display
	box.Kind = kindOf(box.Display)
	return box
}

func newTextBox(n dom.NodeID, text string, s *frame.Styling) *Box {
	box := &Box{
		Kind:    TextBox,
		Node:    n,
		Styles:  s,
		Text:    text,
		Display: css.InlineMode | css.InnerInlineMode,
	}
	box.own = box.Display
	frame.InitEmptyBox(&box.Box)
	return box
}

func newAnonymousBox(parent *Box) *Box {
	box := &Box{
		Kind:    AnonymousBox,
		Node:    dom.NoNode,
		Styles:  anonymousStyling(parent.Styles),
		Display: css.BlockMode | css.InnerBlockMode,
	}
	box.own = box.Display
	frame.InitEmptyBox(&box.Box)
	return box
}

// anonymousStyling creates styles for an anonymous box, which inherits from
// its parent and has initial values otherwise.
func anonymousStyling(parent *frame.Styling) *frame.Styling {
	s := frame.StylingFrom(nil)
	s.Display = css.BlockMode | css.InnerBlockMode
	if parent == nil {
		return s
	}
	s.Colors.Foreground = parent.Colors.Foreground
	s.Visibility = parent.Visibility
	s.FontFamily = parent.FontFamily
	s.FontSize = parent.FontSize
	s.Bold, s.Italic = parent.Bold, parent.Italic
	s.LineHeight = parent.LineHeight
	s.TextAlign = parent.TextAlign
	s.WhiteSpace = parent.WhiteSpace
	return s
}

func kindOf(d css.DisplayMode) Kind {
	switch {
	case d.IsBlockLevel():
		return BlockBox
	case d.IsAtomicInline():
		return AtomicInlineBox
	}
	return InlineBox
}

// DOMNode returns the DOM node a box has been generated for, or NoNode for
// anonymous boxes.
func (b *Box) DOMNode() dom.NodeID {
	return b.Node
}

// CSSBox returns the CSS box model of b.
func (b *Box) CSSBox() *frame.Box {
	return &b.Box
}

// DisplayMode returns the display mode used for layout.
func (b *Box) DisplayMode() css.DisplayMode {
	return b.Display
}

// Context returns the formatting context b establishes for its children.
func (b *Box) Context() frame.Context {
	return b.context
}

// IsPrincipal is true for boxes generated for an element.
func (b *Box) IsPrincipal() bool {
	return b.Kind != AnonymousBox && b.Kind != TextBox
}

// IsAnonymous is true for anonymous boxes.
func (b *Box) IsAnonymous() bool {
	return b.Kind == AnonymousBox
}

// IsText is true for text boxes.
func (b *Box) IsText() bool {
	return b.Kind == TextBox
}

// IsBlockLevel is true for boxes stacked vertically in a block context.
func (b *Box) IsBlockLevel() bool {
	return b.Kind == BlockBox || b.Kind == AnonymousBox
}

// IsOutOfFlow is true for absolutely positioned boxes.
func (b *Box) IsOutOfFlow() bool {
	return b.Styles != nil && b.Styles.Position.IsOutOfFlow()
}

// IsLineBreak is true for boxes of `<br>` elements.
func (b *Box) IsLineBreak() bool {
	return b.Tag == "br"
}

// FlowParent returns the box TopL of b is relative to: the nearest ancestor
// which is not an inline box.
func (b *Box) FlowParent() *Box {
	p := b.Parent
	for p != nil && p.Kind == InlineBox {
		p = p.Parent
	}
	return p
}

// Walk visits b and its descendants in document order. If f returns false,
// the children of a box are skipped.
func (b *Box) Walk(f func(*Box) bool) {
	if !f(b) {
		return
	}
	for _, c := range b.Children {
		c.Walk(f)
	}
}

// Invalidate drops cached layout for b and its ancestors.
func (b *Box) Invalidate() {
	for p := b; p != nil; p = p.Parent {
		p.Cache.Valid = false
	}
}

func (b *Box) String() string {
	switch b.Kind {
	case TextBox:
		t := strings.Join(strings.Fields(b.Text), " ")
		if len(t) > 20 {
			t = t[:17] + "..."
		}
		return fmt.Sprintf("text(%q)", t)
	case AnonymousBox:
		if b.FlexItem {
			return "anon[flex-item]"
		}
		return fmt.Sprintf("anon[%s]", b.context)
	}
	s := fmt.Sprintf("<%s>[%s", b.Tag, b.Kind)
	if b.FlexItem {
		s += ",flex-item"
	}
	if b.context != frame.NoContext {
		s += "," + b.context.String()
	}
	return s + "]"
}
