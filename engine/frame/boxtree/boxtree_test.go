package boxtree

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/cssom"
	"github.com/npillmayer/webcore/engine/dom/styledtree"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/input/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, markup, stylesheet string) (*Builder, *styledtree.Tree) {
	ctx := context.Background()
	res, err := html.ParseString(ctx, markup)
	require.NoError(t, err)
	rules := styledtree.DefaultRuleSet(cssom.MustParse(stylesheet))
	tree := styledtree.NewTree(res.Document, rules, styledtree.DefaultEnv())
	_, err = tree.Restyle(ctx)
	require.NoError(t, err)
	b := NewBuilder(tree)
	_, err = b.Build(ctx)
	require.NoError(t, err)
	return b, tree
}

func boxOf(t *testing.T, b *Builder, tree *styledtree.Tree, id string) *Box {
	n := tree.Document().GetElementByID(id)
	require.NotEqual(t, dom.NoNode, n, "element #%s", id)
	return b.BoxOf(n)
}

func rebuild(t *testing.T, b *Builder, tree *styledtree.Tree) {
	ctx := context.Background()
	_, err := tree.Restyle(ctx)
	require.NoError(t, err)
	_, err = b.Build(ctx)
	require.NoError(t, err)
}

func TestAnonymousBlockBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<div id="d">Hello <b>world</b><p id="p">para</p>tail</div>`, "")
	d := boxOf(t, b, tree, "d")
	require.NotNil(t, d)
	assert.Equal(t, frame.BlockContext, d.Context())
	require.Len(t, d.Children, 3)
	first := d.Children[0]
	assert.True(t, first.IsAnonymous())
	assert.Equal(t, frame.InlineContext, first.Context())
	require.Len(t, first.Children, 2)
	assert.Equal(t, "Hello ", first.Children[0].Text)
	assert.Equal(t, InlineBox, first.Children[1].Kind)
	assert.Same(t, first, first.Children[1].Parent)
	assert.Same(t, boxOf(t, b, tree, "p"), d.Children[1])
	last := d.Children[2]
	assert.True(t, last.IsAnonymous())
	require.Len(t, last.Children, 1)
	assert.Equal(t, "tail", last.Children[0].Text)
	assert.True(t, last.Children[0].IsText())
}

func TestDisplayNoneAndContents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<div id="d"><span id="n" style="display: none">x</span><p id="c" style="display: contents">y</p></div>`, "")
	assert.Nil(t, boxOf(t, b, tree, "n"))
	assert.Nil(t, boxOf(t, b, tree, "c"))
	d := boxOf(t, b, tree, "d")
	assert.Equal(t, frame.InlineContext, d.Context())
	require.Len(t, d.Children, 1)
	assert.Equal(t, "y", d.Children[0].Text)
	// head and its children are not displayed
	assert.Nil(t, b.BoxOf(tree.Document().Head()))
}

func TestFlexItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<div id="f"> <span id="s">a</span> text <p id="p">b</p> </div>`,
		`#f { display: flex }`)
	f := boxOf(t, b, tree, "f")
	assert.Equal(t, frame.FlexContext, f.Context())
	require.Len(t, f.Children, 3)
	s := f.Children[0]
	assert.Same(t, boxOf(t, b, tree, "s"), s)
	assert.True(t, s.FlexItem)
	assert.Equal(t, BlockBox, s.Kind)
	assert.True(t, s.Display.IsBlockLevel())
	assert.Equal(t, frame.InlineContext, s.Context())
	anon := f.Children[1]
	assert.True(t, anon.IsAnonymous())
	assert.True(t, anon.FlexItem)
	assert.Equal(t, " text ", anon.Children[0].Text)
	assert.True(t, f.Children[2].FlexItem)
}

func TestWhiteSpaceBetweenBlocksDropped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, "<div id=\"d\">\n  <p>a</p>\n  <p>b</p>\n</div>", "")
	d := boxOf(t, b, tree, "d")
	require.Len(t, d.Children, 2)
	for _, c := range d.Children {
		assert.True(t, c.IsPrincipal())
		assert.Equal(t, "p", c.Tag)
	}
}

func TestRootIsBlockified(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, _ := build(t, `<p>x</p>`, `html { display: inline }`)
	root := b.Root()
	require.NotNil(t, root)
	assert.Equal(t, "html", root.Tag)
	assert.Equal(t, BlockBox, root.Kind)
	assert.True(t, root.Display.IsBlockLevel())
	assert.Nil(t, root.Parent)
}

func TestBlockInsideInline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<span id="s">a<div>b</div>c</span>`, "")
	s := boxOf(t, b, tree, "s")
	assert.Equal(t, BlockBox, s.Kind)
	assert.Equal(t, frame.BlockContext, s.Context())
	require.Len(t, s.Children, 3)
	assert.True(t, s.Children[0].IsAnonymous())
	assert.Equal(t, "div", s.Children[1].Tag)
}

func TestReplacedElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<p><img id="i" width="20" height="10"></p>`, "")
	img := boxOf(t, b, tree, "i")
	require.NotNil(t, img)
	assert.Equal(t, AtomicInlineBox, img.Kind)
	assert.True(t, img.Replaced)
	assert.Equal(t, 20*dimen.PX, img.Intrinsic.W.Unwrap())
	assert.Equal(t, 10*dimen.PX, img.Intrinsic.H.Unwrap())
	assert.Empty(t, img.Children)
}

func TestRebuildKeepsUntouchedSubtrees(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<div id="a"><p id="x">x</p></div><div id="b"><p>y</p></div>`, "")
	doc := tree.Document()
	doc.ClearAllDirty(doc.Root(), dom.AllDirty)
	a, bb, x := boxOf(t, b, tree, "a"), boxOf(t, b, tree, "b"), boxOf(t, b, tree, "x")
	p := doc.CreateElement("p")
	require.NoError(t, doc.AppendChild(doc.GetElementByID("a"), p))
	rebuild(t, b, tree)
	assert.Same(t, bb, boxOf(t, b, tree, "b"))
	assert.Same(t, x, boxOf(t, b, tree, "x"))
	assert.NotSame(t, a, boxOf(t, b, tree, "a"))
	assert.Equal(t, 2, b.Reused())
	require.NotNil(t, b.BoxOf(p))
	assert.Same(t, boxOf(t, b, tree, "a"), b.BoxOf(p).Parent)
	assert.Same(t, b.Root(), boxOf(t, b, tree, "b").Parent.Parent)
}

func TestDisplayChangeRegeneratesBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<div id="a">x</div><div id="b">y</div>`, "")
	doc := tree.Document()
	doc.ClearAllDirty(doc.Root(), dom.AllDirty)
	a := boxOf(t, b, tree, "a")
	require.NoError(t, doc.SetAttribute(doc.GetElementByID("b"), "style", "display: none"))
	rebuild(t, b, tree)
	assert.Nil(t, boxOf(t, b, tree, "b"))
	assert.Same(t, a, boxOf(t, b, tree, "a"))
	body := b.BoxOf(doc.Body())
	require.Len(t, body.Children, 1)
}

func TestStyleChangeRefreshesReusedBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	b, tree := build(t, `<div id="a"><p id="p">x</p></div><div id="b">y</div>`, `.wide { width: 50px }`)
	doc := tree.Document()
	doc.ClearAllDirty(doc.Root(), dom.AllDirty)
	p := boxOf(t, b, tree, "p")
	require.NoError(t, doc.SetAttribute(doc.GetElementByID("p"), "class", "wide"))
	rebuild(t, b, tree)
	assert.Same(t, p, boxOf(t, b, tree, "p"))
	assert.Equal(t, 50*dimen.PX, p.Styles.Size.W.Unwrap())
}

func TestBuildErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	empty := styledtree.NewTree(dom.NewDocument(), nil, styledtree.DefaultEnv())
	_, err := BuildBoxTree(context.Background(), empty)
	assert.ErrorIs(t, err, ErrNoBoxTreeCreated)
	//
	res, err := html.ParseString(context.Background(), `<p>x</p>`)
	require.NoError(t, err)
	tree := styledtree.NewTree(res.Document, nil, styledtree.DefaultEnv())
	_, err = BuildBoxTree(context.Background(), tree)
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, err = tree.Restyle(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBuilder(tree)
	_, err = b.Build(ctx)
	assert.Equal(t, core.ECANCELED, core.Code(err))
	assert.Nil(t, b.Root())
}
