package page

import (
	"context"
	"io"
	"strings"

	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/config"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/cssom"
	"github.com/npillmayer/webcore/engine/dom/styledtree"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/frame/layout"
	"github.com/npillmayer/webcore/engine/frame/paint"
	"github.com/npillmayer/webcore/engine/text"
	"github.com/npillmayer/webcore/input/html"
)

// Page is a document together with everything derived from it.
type Page struct {
	params  *config.Parameters
	parsed  *html.Result
	sheets  []*cssom.StyleSheet
	styles  *styledtree.Tree
	builder *boxtree.Builder
	engine  *layout.Engine
	view    layout.View
}

// Option configures a page.
type Option func(*Page)

// WithMeasurer sets the text measurer used by inline layout. The default
// measures monospaced text.
func WithMeasurer(m text.Measurer) Option {
	return func(p *Page) {
		p.engine = layout.NewEngine(p.parsed.Document, m)
	}
}

// New parses a document from r and creates a page for it. Stylesheets
// embedded with `<style>` elements are parsed and applied; linked
// stylesheets are listed in Resources and have to be supplied with
// AddStyleSheet. params may be nil, in which case defaults are used.
//
// If ctx is canceled, New returns the page for the partial document
// together with an ECANCELED error.
func New(ctx context.Context, r io.Reader, params *config.Parameters, opts ...Option) (*Page, error) {
	if params == nil {
		params = config.Defaults()
	}
	res, err := html.Parse(ctx, r, html.WithParameters(params))
	if res == nil {
		return nil, err
	}
	p := &Page{
		params: params,
		parsed: res,
		engine: layout.NewEngine(res.Document, nil),
		view:   layout.NewView(params.D(config.ViewportWidth), params.D(config.ViewportHeight)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.engine.Parallel = params.B(config.ParallelLayout)
	if err != nil {
		p.styles = styledtree.NewTree(res.Document, styledtree.DefaultRuleSet(), p.env())
		p.builder = boxtree.NewBuilder(p.styles)
		return p, err
	}
	for _, rsc := range res.Resources {
		if rsc.Kind != html.InlineStyle || !forScreen(rsc.Media) {
			continue
		}
		sheet, err := cssom.Parse(ctx, rsc.Text, cssom.WithParameters(params))
		p.sheets = append(p.sheets, sheet)
		if err != nil {
			break
		}
	}
	p.styles = styledtree.NewTree(res.Document, styledtree.DefaultRuleSet(p.sheets...), p.env())
	p.builder = boxtree.NewBuilder(p.styles)
	tracer().Infof("page with %d nodes, %d embedded stylesheets, %d resources",
		res.Document.Len(), len(p.sheets), len(res.Resources))
	return p, core.Canceled(ctx)
}

// Parse creates a page from a markup string.
func Parse(ctx context.Context, markup string, params *config.Parameters, opts ...Option) (*Page, error) {
	return New(ctx, strings.NewReader(markup), params, opts...)
}

// forScreen is true for media attributes applying to a screen device.
func forScreen(media string) bool {
	for _, m := range strings.Split(media, ",") {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "", "all", "screen":
			return true
		}
	}
	return false
}

func (p *Page) env() styledtree.Env {
	return styledtree.Env{
		ViewportWidth:   p.view.Width(),
		ViewportHeight:  p.view.Height(),
		DefaultFontSize: p.params.D(config.DefaultFontSize),
	}
}

// Document returns the DOM of the page. Scripts mutate the page through it.
func (p *Page) Document() *dom.Document {
	return p.parsed.Document
}

// Resources returns the resources referenced by the document.
func (p *Page) Resources() []html.Resource {
	return p.parsed.Resources
}

// ParseErrors returns the diagnostics of the markup parser.
func (p *Page) ParseErrors() []html.ParseError {
	return p.parsed.Errors
}

// StyleSheets returns the author stylesheets of the page, in cascade order.
func (p *Page) StyleSheets() []*cssom.StyleSheet {
	return p.sheets
}

// AddStyleSheet parses a stylesheet, e.g. one referenced by a `<link>`
// element, and appends it to the author stylesheets. Malformed content is
// dropped with diagnostics in the returned stylesheet. All elements are
// restyled on the next request.
func (p *Page) AddStyleSheet(ctx context.Context, source string) (*cssom.StyleSheet, error) {
	sheet, err := cssom.Parse(ctx, source, cssom.WithParameters(p.params))
	if err != nil {
		return sheet, err
	}
	p.sheets = append(p.sheets, sheet)
	p.styles.SetRules(styledtree.DefaultRuleSet(p.sheets...))
	return sheet, nil
}

// Viewport returns the viewport the page is laid out for.
func (p *Page) Viewport() layout.View {
	return p.view
}

// SetViewport resizes the viewport. Viewport-relative lengths are
// recomputed and the page is laid out anew on the next request.
func (p *Page) SetViewport(width, height dimen.Dimen) {
	if width == p.view.Width() && height == p.view.Height() {
		return
	}
	p.view = layout.NewView(width, height)
	p.styles.SetEnv(p.env())
}

// Restyle recomputes the styles of style-dirty elements.
func (p *Page) Restyle(ctx context.Context) error {
	n, err := p.styles.Restyle(ctx)
	if n > 0 {
		tracer().Debugf("restyled %d elements", n)
	}
	return err
}

// Layout runs all passes which are out of date. A page without dirty
// nodes is not touched.
func (p *Page) Layout(ctx context.Context) error {
	if err := p.Restyle(ctx); err != nil {
		return err
	}
	root, err := p.builder.Build(ctx)
	if err != nil {
		return err
	}
	if root == nil {
		return nil
	}
	return p.engine.Layout(ctx, root, p.view)
}

// BoxTree returns the box tree of the most recent layout.
func (p *Page) BoxTree() *boxtree.Box {
	return p.builder.Root()
}

// LaidOut returns the number of boxes laid out since the page was created.
func (p *Page) LaidOut() int {
	return p.engine.LaidOut()
}

func (p *Page) check(n dom.NodeID) error {
	if p.Document().NodeType(n) == dom.InvalidNode {
		return core.WrapError(dom.ErrInvalidNode, core.EINVALID, "node %d does not exist", n)
	}
	return nil
}

// GetComputedStyle returns the computed style of a node. Text nodes report
// the style of their parent element. Nodes which are not connected to the
// document have no style.
func (p *Page) GetComputedStyle(ctx context.Context, n dom.NodeID) (*style.ComputedStyle, error) {
	if err := p.check(n); err != nil {
		return nil, err
	}
	if err := p.Restyle(ctx); err != nil {
		return nil, err
	}
	cs := p.styles.Style(n)
	if cs == nil || !p.Document().IsConnected(n) {
		return nil, core.Error(core.EMISSING, "node %d has no computed style", n)
	}
	return cs, nil
}

// BoundingClientRect returns the union of the border boxes generated for a
// node, in viewport coordinates. Nodes without boxes, e.g. because of
// `display: none`, yield an empty rectangle.
func (p *Page) BoundingClientRect(ctx context.Context, n dom.NodeID) (dimen.Rect, error) {
	if err := p.check(n); err != nil {
		return dimen.Rect{}, err
	}
	if err := p.Layout(ctx); err != nil {
		return dimen.Rect{}, err
	}
	r, _ := layout.BoundingClientRect(p.BoxTree(), n)
	return r, nil
}

// ContentRect returns the content box of the principal box of an element.
func (p *Page) ContentRect(ctx context.Context, n dom.NodeID) (dimen.Rect, error) {
	if err := p.check(n); err != nil {
		return dimen.Rect{}, err
	}
	if err := p.Layout(ctx); err != nil {
		return dimen.Rect{}, err
	}
	if b := p.builder.BoxOf(n); b != nil {
		return layout.ContentBox(b), nil
	}
	return dimen.Rect{}, nil
}

// NodeAt returns the element whose box is painted at a point in viewport
// coordinates, or NoNode.
func (p *Page) NodeAt(ctx context.Context, pt dimen.Point) (dom.NodeID, error) {
	if err := p.Layout(ctx); err != nil {
		return dom.NoNode, err
	}
	b := layout.BoxAt(p.BoxTree(), pt)
	if b == nil {
		return dom.NoNode, nil
	}
	n := b.Node
	if b.IsText() {
		n = p.Document().Parent(n)
	}
	return n, nil
}

// Paint lays out the page, if necessary, and returns its paint list.
func (p *Page) Paint(ctx context.Context) (paint.List, error) {
	if err := p.Layout(ctx); err != nil {
		return nil, err
	}
	return paint.Build(p.BoxTree()), nil
}
