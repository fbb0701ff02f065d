package frame

import (
	"github.com/npillmayer/webcore/engine/dom/style/css"
)

// Context is the type of formatting context a container establishes for its
// children.
//
// “Boxes in the normal flow belong to a formatting context, which may be block or
// inline, but not both simultaneously. Block-level boxes participate in a block
// formatting context. Inline-level boxes participate in an inline formatting context.”
type Context uint8

// Formatting contexts
const (
	NoContext     Context = iota // leaf boxes, e.g. text
	BlockContext                 // children are stacked vertically
	InlineContext                // children are broken into line boxes
	FlexContext                  // children are flex items
)

func (ctx Context) String() string {
	switch ctx {
	case BlockContext:
		return "block"
	case InlineContext:
		return "inline"
	case FlexContext:
		return "flex"
	}
	return "none"
}

// ContextFor decides the formatting context of a container, given its
// display mode and the display modes of its children.
//
// Flex containers establish a flex context. Block containers holding only
// inline-level children establish an inline context, as do block containers
// without children. Inline boxes take part in the inline context of their
// container; for them, ContextFor returns InlineContext as well.
func ContextFor(display css.DisplayMode, children []css.DisplayMode) Context {
	if display.Contains(css.FlexMode) {
		return FlexContext
	}
	if display.IsInlineLevel() && !display.IsAtomicInline() {
		return InlineContext
	}
	for _, ch := range children {
		if ch.IsBlockLevel() {
			return BlockContext
		}
	}
	return InlineContext
}
