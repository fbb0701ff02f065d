package styledtree

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/dom/style/cssom"
	"github.com/npillmayer/webcore/input/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styled(t *testing.T, markup, stylesheet string, ua bool) *Tree {
	res, err := html.ParseString(context.Background(), markup)
	require.NoError(t, err)
	sheet := cssom.MustParse(stylesheet)
	var rules *RuleSet
	if ua {
		rules = DefaultRuleSet(sheet)
	} else {
		rules = NewRuleSet(Sheet{Origin: Author, Sheet: sheet})
	}
	tree := NewTree(res.Document, rules, DefaultEnv())
	_, err = tree.Restyle(context.Background())
	require.NoError(t, err)
	return tree
}

func byID(t *testing.T, tree *Tree, id string) dom.NodeID {
	n := tree.Document().GetElementByID(id)
	require.NotEqual(t, dom.NoNode, n, "element #%s", id)
	return n
}

func prop(tree *Tree, n dom.NodeID, key string) style.Property {
	return tree.Style(n).GetPropertyValue(key)
}

func TestSpecificityBeatsOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<p id="x" class="a b c">text</p>`, `
		#x { color: red }
		.a.b.c { color: blue }
		p.a { color: green }
	`, false)
	x := byID(t, tree, "x")
	assert.Equal(t, style.Property("#ff0000"), prop(tree, x, "color"))
}

func TestLaterRuleWinsOnEqualSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d" class="k">x</div>`, `
		.k { width: 10px }
		.k { width: 20px }
	`, false)
	assert.Equal(t, style.Property("20px"), prop(tree, byID(t, tree, "d"), "width"))
}

func TestInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d"><span id="s">x</span></div>`, `
		div { color: green; margin-top: 10px }
	`, false)
	s := byID(t, tree, "s")
	assert.Equal(t, style.Property("#008000"), prop(tree, s, "color"))
	assert.Equal(t, style.Property("0px"), prop(tree, s, "margin-top"))
	assert.Equal(t, style.Property("10px"), prop(tree, byID(t, tree, "d"), "margin-top"))
	assert.Equal(t, style.Property("inline"), prop(tree, s, "display"))
	// text nodes report their parent's style
	txt := tree.Document().FirstChild(s)
	assert.Equal(t, dom.TextNode, tree.Document().NodeType(txt))
	assert.Same(t, tree.Style(s), tree.Style(txt))
}

func TestGlobalKeywords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div><p id="a">x</p><p id="b">y</p><p id="c">z</p></div>`, `
		div { color: blue; margin-left: 5px }
		#a { margin-left: inherit }
		#b { color: initial }
		#c { color: red }
		#c { color: unset }
	`, false)
	assert.Equal(t, style.Property("5px"), prop(tree, byID(t, tree, "a"), "margin-left"))
	assert.Equal(t, style.Property("#000000"), prop(tree, byID(t, tree, "b"), "color"))
	assert.Equal(t, style.Property("#0000ff"), prop(tree, byID(t, tree, "c"), "color"))
}

func TestRelativeUnits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d"><p id="p">x</p><p id="q">y</p></div>`, `
		html { font-size: 10px }
		div { font-size: 20px }
		#p { font-size: 2em; width: 10em; padding-left: 50% }
		#q { width: 3rem; height: 12pt; margin-top: 25vw }
	`, false)
	p, q := byID(t, tree, "p"), byID(t, tree, "q")
	assert.Equal(t, style.Property("40px"), prop(tree, p, "font-size"))
	assert.Equal(t, style.Property("400px"), prop(tree, p, "width"))
	assert.Equal(t, style.Property("50%"), prop(tree, p, "padding-left"))
	assert.Equal(t, style.Property("30px"), prop(tree, q, "width"))
	assert.Equal(t, style.Property("16px"), prop(tree, q, "height"))
	assert.Equal(t, style.Property("256px"), prop(tree, q, "margin-top"))
	assert.Equal(t, style.Property("20px"), prop(tree, q, "font-size"))
}

func TestCurrentColorAndBorders(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d">x</div><div id="e">y</div>`, `
		#d { color: #00f; border: thick solid }
		#e { border-top-width: 7px }
	`, false)
	d, e := byID(t, tree, "d"), byID(t, tree, "e")
	assert.Equal(t, style.Property("#0000ff"), prop(tree, d, "border-top-color"))
	assert.Equal(t, style.Property("5px"), prop(tree, d, "border-left-width"))
	// border width of a border without style computes to zero
	assert.Equal(t, style.Property("0px"), prop(tree, e, "border-top-width"))
}

func TestInlineStylePrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<p id="x" style="color: blue; width: 7px">a</p><p id="y" style="color: blue">b</p>`, `
		#x { color: red; width: 1px !important }
		#y { color: red !important }
	`, false)
	x, y := byID(t, tree, "x"), byID(t, tree, "y")
	assert.Equal(t, style.Property("#0000ff"), prop(tree, x, "color"))
	assert.Equal(t, style.Property("1px"), prop(tree, x, "width"))
	assert.Equal(t, style.Property("#ff0000"), prop(tree, y, "color"))
}

func TestUserAgentDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<h1 id="h">Title</h1><p id="p">Text <b id="b">bold</b></p><script id="s"></script>`,
		`p { margin-top: 0 }`, true)
	h := byID(t, tree, "h")
	assert.Equal(t, style.Property("block"), prop(tree, h, "display"))
	assert.Equal(t, style.Property("32px"), prop(tree, h, "font-size"))
	p := byID(t, tree, "p")
	assert.Equal(t, style.Property("0px"), prop(tree, p, "margin-top"))
	assert.Equal(t, style.Property("16px"), prop(tree, p, "margin-bottom"))
	assert.Equal(t, style.Property("bold"), prop(tree, byID(t, tree, "b"), "font-weight"))
	assert.Equal(t, css.DisplayNone, tree.Display(byID(t, tree, "s")))
	body := tree.Document().Body()
	assert.Equal(t, style.Property("8px"), prop(tree, body, "margin-left"))
}

func TestUnsupportedValuesIgnored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	rules := NewRuleSet(Sheet{Origin: Author, Sheet: cssom.MustParse(`
		div { width: 10px; width: banana; color: red; color: 12px; frobnicate: 3 }
	`)})
	assert.Equal(t, 3, rules.Ignored())
	res, err := html.ParseString(context.Background(), `<div id="d">x</div>`)
	require.NoError(t, err)
	tree := NewTree(res.Document, rules, DefaultEnv())
	_, err = tree.Restyle(context.Background())
	require.NoError(t, err)
	d := byID(t, tree, "d")
	assert.Equal(t, style.Property("10px"), prop(tree, d, "width"))
	assert.Equal(t, style.Property("#ff0000"), prop(tree, d, "color"))
}

func TestRestyleIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d"><p id="p">x</p></div>`, `p { color: red }`, true)
	before := tree.Style(byID(t, tree, "p")).Clone()
	n, err := tree.Restyle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, before.Equal(tree.Style(byID(t, tree, "p"))))
}

func TestRestyleDirtySubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d"><p id="p">x <span id="s">y</span></p><p id="q">z</p></div>`, `
		.hot { color: red }
	`, false)
	doc := tree.Document()
	p, s, q := byID(t, tree, "p"), byID(t, tree, "s"), byID(t, tree, "q")
	qstyle := tree.Style(q)
	require.NoError(t, doc.SetAttribute(p, "class", "hot"))
	n, err := tree.Restyle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n) // p and its child span
	assert.Equal(t, style.Property("#ff0000"), prop(tree, s, "color"))
	assert.Same(t, qstyle, tree.Style(q))
	assert.False(t, doc.IsDirty(p, dom.StyleDirty))
	assert.True(t, doc.IsDirty(p, dom.LayoutDirty))
}

func TestRestyleAfterInsertAndRemove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d"><p id="p">x</p></div>`, `div > em { font-weight: bold }`, false)
	doc := tree.Document()
	d := byID(t, tree, "d")
	em := doc.CreateElement("em")
	require.NoError(t, doc.AppendChild(d, em))
	assert.Nil(t, tree.Style(em))
	_, err := tree.Restyle(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tree.Style(em))
	assert.Equal(t, style.Property("bold"), prop(tree, em, "font-weight"))
	require.NoError(t, doc.RemoveChild(d, em))
	_, err = tree.Restyle(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tree.Style(em))
}

func TestSetEnvRestylesAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	tree := styled(t, `<div id="d">x</div>`, `div { width: 50vw }`, false)
	d := byID(t, tree, "d")
	assert.Equal(t, style.Property("512px"), prop(tree, d, "width"))
	env := tree.Env()
	env.ViewportWidth = env.ViewportWidth / 2
	tree.SetEnv(env)
	_, err := tree.Restyle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, style.Property("256px"), prop(tree, d, "width"))
}

func TestRestyleCanceled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.style")
	defer teardown()
	//
	res, err := html.ParseString(context.Background(), `<p>x</p>`)
	require.NoError(t, err)
	tree := NewTree(res.Document, nil, DefaultEnv())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tree.Restyle(ctx)
	require.Error(t, err)
	assert.Equal(t, core.ECANCELED, core.Code(err))
}
