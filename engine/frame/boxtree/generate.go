package boxtree

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/dom/styledtree"
	"github.com/npillmayer/webcore/engine/frame"
)

// ErrNoBoxTreeCreated is returned if the document yields no boxes, e.g. for
// an empty document or a root element with `display: none`.
var ErrNoBoxTreeCreated = errors.New("no box tree created")

// Builder generates box trees for a styled document. It keeps the boxes of
// the previous run and re-uses them for subtrees which have not changed.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	styles *styledtree.Tree
	root   *Box
	boxes  map[dom.NodeID]*Box // principal boxes
	reused int
}

// NewBuilder creates a box tree builder for a styled document.
func NewBuilder(styles *styledtree.Tree) *Builder {
	return &Builder{
		styles: styles,
		boxes:  make(map[dom.NodeID]*Box),
	}
}

// BuildBoxTree creates a box tree from a styled document in a single run.
func BuildBoxTree(ctx context.Context, styles *styledtree.Tree) (*Box, error) {
	return NewBuilder(styles).Build(ctx)
}

// Root returns the root box of the last successful run.
func (b *Builder) Root() *Box {
	return b.root
}

// BoxOf returns the principal box of a DOM node, or nil.
func (b *Builder) BoxOf(n dom.NodeID) *Box {
	return b.boxes[n]
}

// Reused returns the number of subtrees re-used by the last run.
func (b *Builder) Reused() int {
	return b.reused
}

// Build generates the box tree. Styles have to be up to date, i.e. the
// styled tree must have been restyled after the latest DOM mutation.
//
// Subtrees of elements which carry no tree-dirty flag, neither themselves
// nor in any descendant, keep their boxes. Dirty flags are not cleared; this
// is up to layout.
//
// If ctx is canceled, Build stops between elements and the boxes of the
// previous run remain in effect.
func (b *Builder) Build(ctx context.Context) (*Box, error) {
	doc := b.styles.Document()
	el := doc.DocumentElement()
	if el == dom.NoNode {
		return nil, ErrNoBoxTreeCreated
	}
	if b.styles.Style(el) == nil {
		return nil, core.Error(core.EMISSING, "document has not been styled")
	}
	s := b.styling(el)
	if s.Display.Contains(css.DisplayNone) {
		b.root, b.boxes = nil, make(map[dom.NodeID]*Box)
		return nil, ErrNoBoxTreeCreated
	}
	old, reused := b.boxes, b.reused
	b.boxes = make(map[dom.NodeID]*Box, len(old))
	b.reused = 0
	root := b.reuse(el, s, old)
	if root == nil {
		var err error
		if root, err = b.principal(ctx, el, s, old, true); err != nil {
			b.boxes, b.reused = old, reused
			return nil, err
		}
	}
	root.Kind = BlockBox
	b.root = root
	tracer().Infof("box tree with %d principal boxes, %d subtrees re-used", len(b.boxes), b.reused)
	return root, nil
}

// styling returns the layout styles of an element, or nil if the element
// has not been styled.
func (b *Builder) styling(n dom.NodeID) *frame.Styling {
	cs := b.styles.Style(n)
	if cs == nil {
		return nil
	}
	return frame.StylingFrom(cs)
}

// principal generates the principal box of an element and its descendants.
func (b *Builder) principal(ctx context.Context, n dom.NodeID, s *frame.Styling,
	old map[dom.NodeID]*Box, isRoot bool) (*Box, error) {
	//
	if err := core.Canceled(ctx); err != nil {
		return nil, err
	}
	doc := b.styles.Document()
	box := newPrincipal(n, doc.TagName(n), s)
	frame.InitEmptyBox(&box.Box)
	if isRoot || s.Position.IsOutOfFlow() || s.Float || box.Display.Contains(css.ContentsMode) {
		box.Display = blockify(box.Display)
	}
	if replacedTags[box.Tag] {
		box.Replaced = true
		box.Intrinsic = b.intrinsicSize(n)
		if !box.Display.IsBlockLevel() {
			box.Display = css.InlineMode | css.InnerBlockMode
		}
	}
	box.Kind = kindOf(box.Display)
	kids, err := b.childBoxes(ctx, n, s, old)
	if err != nil {
		return nil, err
	}
	if box.Replaced {
		kids = nil
	}
	arrange(box, kids)
	box.own = box.Display
	b.boxes[n] = box
	return box, nil
}

// childBoxes generates the boxes for the children of an element. Children
// with `display: contents` are replaced by their own children.
func (b *Builder) childBoxes(ctx context.Context, n dom.NodeID, s *frame.Styling,
	old map[dom.NodeID]*Box) ([]*Box, error) {
	//
	doc := b.styles.Document()
	var kids []*Box
	for ch := doc.FirstChild(n); ch != dom.NoNode; ch = doc.NextSibling(ch) {
		switch doc.NodeType(ch) {
		case dom.TextNode:
			if text := doc.Data(ch); text != "" {
				kids = append(kids, newTextBox(ch, text, s))
			}
		case dom.ElementNode:
			chs := b.styling(ch)
			if chs == nil {
				tracer().Errorf("element <%s> has not been styled, skipped", doc.TagName(ch))
				continue
			}
			switch {
			case chs.Display.Contains(css.DisplayNone):
				continue
			case chs.Display.Contains(css.ContentsMode):
				hoisted, err := b.childBoxes(ctx, ch, chs, old)
				if err != nil {
					return nil, err
				}
				kids = append(kids, hoisted...)
				continue
			}
			if box := b.reuse(ch, chs, old); box != nil {
				kids = append(kids, box)
				continue
			}
			box, err := b.principal(ctx, ch, chs, old, false)
			if err != nil {
				return nil, err
			}
			kids = append(kids, box)
		}
	}
	return kids, nil
}

// reuse returns the box of the previous run for an element, if neither the
// element nor any of its descendants changed in a way requiring new boxes.
func (b *Builder) reuse(n dom.NodeID, s *frame.Styling, old map[dom.NodeID]*Box) *Box {
	box, ok := old[n]
	if !ok {
		return nil
	}
	doc := b.styles.Document()
	if doc.IsDirty(n, dom.StyleDirty|dom.TreeDirty) || len(doc.DirtyNodes(n, dom.TreeDirty)) > 0 {
		return nil
	}
	if box.Styles.Display != s.Display || box.Styles.Position != s.Position ||
		box.Styles.Float != s.Float {
		return nil
	}
	box.Parent = nil
	b.refresh(box, s)
	b.reused++
	return box
}

// refresh updates the styles of a re-used subtree and registers its
// principal boxes. Elements flagged layout-dirty may have changed style.
func (b *Builder) refresh(box *Box, s *frame.Styling) {
	doc := b.styles.Document()
	box.Styles = s
	if box.IsPrincipal() {
		b.boxes[box.Node] = box
	}
	for _, c := range box.Children {
		c.Parent = box
		switch c.Kind {
		case TextBox:
			if p := doc.Parent(c.Node); doc.IsDirty(p, dom.LayoutDirty) {
				c.Styles = b.styling(p)
			}
		case AnonymousBox:
			b.refresh(c, anonymousStyling(box.Styles))
		default:
			cs := c.Styles
			if doc.IsDirty(c.Node, dom.LayoutDirty) {
				cs = b.styling(c.Node)
			}
			b.refresh(c, cs)
		}
	}
}

// arrange attaches child boxes to a box. It decides the formatting context
// of the box, wraps inline content into anonymous boxes where needed and
// classifies the children for the context.
func arrange(box *Box, kids []*Box) {
	switch {
	case box.Display.Contains(css.FlexMode):
		box.context = frame.FlexContext
		kids = flexItems(box, kids)
	case box.Kind == InlineBox && !containsBlock(kids):
		box.context = frame.InlineContext
	default:
		if box.Kind == InlineBox {
			// block inside inline: the inline box is blockified instead of split
			tracer().Debugf("<%s> contains block-level boxes, blockified", box.Tag)
			box.Display = css.BlockMode | css.InnerBlockMode
			box.Kind = BlockBox
		}
		box.context = frame.ContextFor(box.Display, inFlowDisplays(kids))
		if box.context == frame.BlockContext {
			kids = wrapInlineRuns(box, kids)
		}
	}
	for _, c := range kids {
		c.Parent = box
		if box.context != frame.FlexContext {
			c.FlexItem = false
			if c.Kind != AnonymousBox && c.Kind != TextBox {
				c.Display = c.own
				c.Kind = kindOf(c.Display)
			}
		}
	}
	box.Children = kids
}

// flexItems turns the children of a flex container into flex items. Runs of
// text are wrapped into anonymous flex items; runs consisting of collapsible
// white-space only are dropped.
func flexItems(box *Box, kids []*Box) []*Box {
	var items []*Box
	var run []*Box
	flush := func() {
		if len(run) > 0 && !isWhiteSpaceRun(run) {
			anon := newAnonymousBox(box)
			anon.FlexItem = true
			arrange(anon, run)
			items = append(items, anon)
		}
		run = nil
	}
	for _, c := range kids {
		if c.Kind == TextBox {
			run = append(run, c)
			continue
		}
		flush()
		c.Display = blockify(c.own)
		c.Kind = BlockBox
		c.FlexItem = !c.IsOutOfFlow()
		items = append(items, c)
	}
	flush()
	return items
}

// wrapInlineRuns wraps runs of consecutive inline-level children of a block
// container into anonymous block boxes.
func wrapInlineRuns(box *Box, kids []*Box) []*Box {
	var blocks []*Box
	var run []*Box
	flush := func() {
		if len(run) > 0 && !isWhiteSpaceRun(run) {
			anon := newAnonymousBox(box)
			arrange(anon, run)
			blocks = append(blocks, anon)
		}
		run = nil
	}
	for _, c := range kids {
		if c.Kind == TextBox || !c.own.IsBlockLevel() {
			run = append(run, c)
			continue
		}
		flush()
		blocks = append(blocks, c)
	}
	flush()
	return blocks
}

func containsBlock(kids []*Box) bool {
	for _, c := range kids {
		if c.Kind != TextBox && c.own.IsBlockLevel() && !c.IsOutOfFlow() {
			return true
		}
	}
	return false
}

func inFlowDisplays(kids []*Box) []css.DisplayMode {
	modes := make([]css.DisplayMode, 0, len(kids))
	for _, c := range kids {
		if !c.IsOutOfFlow() {
			modes = append(modes, c.own)
		}
	}
	return modes
}

// isWhiteSpaceRun is true if a run of boxes holds nothing but collapsible
// white-space.
func isWhiteSpaceRun(run []*Box) bool {
	for _, c := range run {
		if c.Kind != TextBox || !c.Styles.WhiteSpace.CollapseSpaces() ||
			strings.TrimSpace(c.Text) != "" {
			return false
		}
	}
	return true
}

// blockify computes the block-level equivalent of a display mode.
func blockify(d css.DisplayMode) css.DisplayMode {
	if d.IsBlockLevel() {
		return d
	}
	inner := d.Inner()
	if inner == css.NoMode || inner.Contains(css.InnerInlineMode) {
		return css.BlockMode | css.InnerBlockMode
	}
	return css.BlockMode | inner
}

// replacedTags are elements whose content is outside the scope of CSS.
var replacedTags = map[string]bool{
	"img": true, "video": true, "canvas": true, "iframe": true,
}

// intrinsicSize reads the size of a replaced element from its width and
// height attributes. Canvas, video and iframe default to 300×150.
func (b *Builder) intrinsicSize(n dom.NodeID) frame.Size {
	doc := b.styles.Document()
	w, h := 0, 0
	if doc.TagName(n) != "img" {
		w, h = 300, 150
	}
	if v, ok := doc.GetAttribute(n, "width"); ok {
		if x, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && x >= 0 {
			w = x
		}
	}
	if v, ok := doc.GetAttribute(n, "height"); ok {
		if x, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && x >= 0 {
			h = x
		}
	}
	return frame.Size{
		W: css.SomeDimen(dimen.Dimen(w) * dimen.PX),
		H: css.SomeDimen(dimen.Dimen(h) * dimen.PX),
	}
}
