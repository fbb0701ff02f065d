package layout

import (
	"context"
	"sync/atomic"

	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/text"
	"github.com/npillmayer/webcore/engine/text/monospace"
)

// Engine lays out the box trees of a document.
//
// An engine is not safe for concurrent use. With Parallel set, it lays out
// sibling subtrees concurrently during a single call to Layout.
type Engine struct {
	doc      *dom.Document
	measurer text.Measurer
	Parallel bool  // lay out independent siblings concurrently
	laidOut  int64 // boxes laid out, i.e. not served from cache
}

// NewEngine creates a layout engine for a document. If m is nil, text is
// measured with a monospace measurer.
func NewEngine(doc *dom.Document, m text.Measurer) *Engine {
	if m == nil {
		m = monospace.New()
	}
	return &Engine{doc: doc, measurer: m}
}

// LaidOut returns the number of boxes laid out by e so far. Boxes served
// from the layout cache are not counted.
func (e *Engine) LaidOut() int {
	return int(atomic.LoadInt64(&e.laidOut))
}

// Layout computes the geometry of the box tree starting at root, for a
// viewport. Boxes which are up to date are skipped.
//
// After a successful pass, the layout related dirty flags of the document are
// cleared. If ctx is canceled, Layout returns an error with code ECANCELED
// and leaves the dirty flags untouched.
func (e *Engine) Layout(ctx context.Context, root *boxtree.Box, view View) error {
	if root == nil {
		return core.Error(core.EMISSING, "no box tree to lay out")
	}
	before := e.LaidOut()
	if err := e.layoutBox(ctx, root, view.constraint(), 0); err != nil {
		return err
	}
	root.TopL = dimen.Point{
		X: root.Margins[frame.Left].UnwrapOr(0),
		Y: root.Margins[frame.Top].UnwrapOr(0),
	}
	if err := e.positionOutOfFlow(ctx, root, view); err != nil {
		return err
	}
	e.clearDirty()
	tracer().Infof("layout: %d boxes laid out", e.LaidOut()-before)
	return nil
}

// clearDirty clears the flags layout has dealt with. Flags marking
// descendants are kept as long as some element still waits for restyling.
func (e *Engine) clearDirty() {
	mask := dom.TreeDirty | dom.LayoutDirty
	if len(e.doc.DirtyNodes(e.doc.Root(), dom.StyleDirty)) == 0 {
		mask |= dom.ChildrenDirty
	}
	e.doc.ClearAllDirty(e.doc.Root(), mask)
}

// constraint holds the input of laying out a single box. It serves as the
// key of the layout cache.
type constraint struct {
	width  dimen.Dimen // width of the containing block
	height css.DimenT  // height of the containing block, if definite
	fixW   css.DimenT  // border box width imposed by the parent, if any
	fixH   css.DimenT  // border box height imposed by the parent, if any
	shrink bool        // auto width shrinks to fit the content
}

func available(width dimen.Dimen, height css.DimenT) constraint {
	return constraint{width: width, height: height, fixW: css.Dimen(), fixH: css.Dimen()}
}

// upToDate is true if b has been laid out for c and nothing it depends on
// has changed since.
func (e *Engine) upToDate(b *boxtree.Box, c constraint) bool {
	return b.Cache.Valid && b.Cache.Key == c && !e.dirty(b)
}

// dirty checks the DOM for changes affecting the layout of b. Anonymous
// boxes have no DOM node and check their children.
func (e *Engine) dirty(b *boxtree.Box) bool {
	switch b.Kind {
	case boxtree.TextBox:
		return e.doc.IsDirty(b.Node, dom.TreeDirty|dom.LayoutDirty)
	case boxtree.AnonymousBox:
		for _, c := range b.Children {
			if e.dirty(c) {
				return true
			}
		}
		return false
	}
	return e.doc.IsDirty(b.Node, dom.AllDirty)
}

func (e *Engine) done(b *boxtree.Box, c constraint) {
	b.Cache = boxtree.LayoutCache{Valid: true, Key: c}
	atomic.AddInt64(&e.laidOut, 1)
}
