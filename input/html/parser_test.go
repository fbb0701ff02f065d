package html

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeNode is a structural dump of a subtree, used to compare parse results.
type treeNode struct {
	Kind     dom.NodeType
	Name     string
	Attrs    []dom.Attribute
	Text     string
	Children []treeNode
}

func dump(doc *dom.Document, id dom.NodeID) treeNode {
	n := treeNode{Kind: doc.NodeType(id)}
	switch n.Kind {
	case dom.ElementNode:
		n.Name = doc.TagName(id)
		n.Attrs = doc.Attributes(id)
	case dom.TextNode, dom.CommentNode:
		n.Text = doc.Data(id)
	case dom.DoctypeNode:
		n.Name, _ = doc.Doctype()
	}
	for _, ch := range doc.Children(id) {
		n.Children = append(n.Children, dump(doc, ch))
	}
	return n
}

func parse(t *testing.T, s string, opts ...Option) *Result {
	res, err := ParseString(context.Background(), s, opts...)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// bodyHTML serializes the children of <body>.
func bodyHTML(doc *dom.Document) string {
	var b strings.Builder
	for _, ch := range doc.Children(doc.Body()) {
		b.WriteString(doc.SerializeString(ch))
	}
	return b.String()
}

func TestUnclosedParagraphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	res := parse(t, "<p>a<p>b")
	doc := res.Document
	body := doc.Body()
	require.NotEqual(t, dom.NoNode, body)
	ps := doc.ElementChildren(body)
	require.Len(t, ps, 2)
	assert.Equal(t, "p", doc.TagName(ps[0]))
	assert.Equal(t, "p", doc.TagName(ps[1]))
	assert.Equal(t, "a", doc.TextContent(ps[0]))
	assert.Equal(t, "b", doc.TextContent(ps[1]))
	assert.True(t, doc.QuirksMode())
	assert.NotEmpty(t, res.Errors) // missing doctype
}

func TestImpliedStructure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	res := parse(t, "<!DOCTYPE html><title>T &amp; U</title>Hello")
	doc := res.Document
	name, ok := doc.Doctype()
	assert.True(t, ok)
	assert.Equal(t, "html", name)
	assert.False(t, doc.QuirksMode())
	html := doc.DocumentElement()
	require.NotEqual(t, dom.NoNode, html)
	assert.Equal(t, "html", doc.TagName(html))
	head := doc.Head()
	require.NotEqual(t, dom.NoNode, head)
	titles := doc.GetElementsByTagName(head, "title")
	require.Len(t, titles, 1)
	assert.Equal(t, "T & U", doc.TextContent(titles[0]))
	assert.Equal(t, "Hello", doc.TextContent(doc.Body()))
}

func TestAdoptionAgency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	res := parse(t, "<b>1<p>2</b>3</p>")
	assert.Equal(t, "<b>1</b><p><b>2</b>3</p>", bodyHTML(res.Document))
	res = parse(t, "<a href=x>1<a href=y>2</a>")
	assert.Equal(t, `<a href="x">1</a><a href="y">2</a>`, bodyHTML(res.Document))
	res = parse(t, "<b><i>x</b>y</i>")
	assert.Equal(t, "<b><i>x</i></b><i>y</i>", bodyHTML(res.Document))
}

func TestListsAndHeadings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	res := parse(t, "<ul><li>a<li>b</ul><h1>x<h2>y")
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul><h1>x</h1><h2>y</h2>", bodyHTML(res.Document))
	res = parse(t, "<dl><dt>t<dd>d</dl></p>")
	assert.Equal(t, "<dl><dt>t</dt><dd>d</dd></dl><p></p>", bodyHTML(res.Document))
}

func TestTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	res := parse(t, "<table><tr><td>x</td></tr></table>")
	assert.Equal(t, "<table><tbody><tr><td>x</td></tr></tbody></table>", bodyHTML(res.Document))
	res = parse(t, "<table>x<tr><td>y</table>z")
	assert.Equal(t, "x<table><tbody><tr><td>y</td></tr></tbody></table>z", bodyHTML(res.Document))
	res = parse(t, "<table><td>1<td>2<tr><td>3</table>")
	assert.Equal(t, "<table><tbody><tr><td>1</td><td>2</td></tr><tr><td>3</td></tr></tbody></table>",
		bodyHTML(res.Document))
}

func TestRawText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	res := parse(t, "<script>if (a<b) { x = '</p>' }</script><pre>\nfoo</pre><textarea>\n&lt;b&gt;</textarea>")
	doc := res.Document
	scripts := doc.GetElementsByTagName(doc.Root(), "script")
	require.Len(t, scripts, 1)
	assert.Equal(t, "if (a<b) { x = '</p>' }", doc.TextContent(scripts[0]))
	pres := doc.GetElementsByTagName(doc.Root(), "pre")
	require.Len(t, pres, 1)
	assert.Equal(t, "foo", doc.TextContent(pres[0]))
	tas := doc.GetElementsByTagName(doc.Root(), "textarea")
	require.Len(t, tas, 1)
	assert.Equal(t, "<b>", doc.TextContent(tas[0]))
}

func TestMalformedInputIsWellFormedTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	inputs := []string{
		"",
		"</p></div>",
		"<<<>>>",
		"<!--",
		"<p <a",
		"<td>cell",
		"</br>",
		"</html>x",
		"<image src=x>",
		"<table><b><tr><td>x</b></table>",
		"<a><p><a>x</a></p>",
		"<b><i><u><s>x</b>y</i>",
		"<table><tr><td><table><tr><td>x</td></tr></table></td></tr></table>",
		"<select><option>a<option>b</select>",
		"<p>" + strings.Repeat("<b><p>", 40) + strings.Repeat("</b>", 40),
		strings.Repeat("<div>", 200),
		"<table><caption>c<td>x</caption></table>",
		"<table><colgroup><col><tr><td>1</table>",
		"<html><head><title>t</head><body></html></body>",
		"<ruby>a<rt>b<rp>c</ruby>",
	}
	for _, in := range inputs {
		res, err := ParseString(context.Background(), in)
		require.NoError(t, err, in)
		doc := res.Document
		assert.NoError(t, doc.CheckTree(), in)
		assert.Equal(t, dom.NoNode, doc.Parent(doc.Root()), in)
		assert.Equal(t, dom.DocumentNode, doc.NodeType(doc.Root()), in)
		assert.Len(t, doc.ElementChildren(doc.Root()), 1, in)
		assert.NotEqual(t, dom.NoNode, doc.Body(), in)
	}
}

const wellFormed = `<!DOCTYPE html>
<html><head><title>Test</title><meta charset="utf-8"></head>
<body class="main"><h1 id="top">Caf&eacute; &amp; cr&#232;me</h1>
<p>One <em>two</em> <a href="x.html">three</a></p><!-- note -->
<ul><li>a</li><li>b</li></ul><img src="i.png" alt="pic"><br>
<table><tbody><tr><td>1</td><td>2</td></tr></tbody></table>
</body></html>`

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	first := parse(t, wellFormed)
	assert.Empty(t, first.Errors)
	out := first.Document.SerializeString(first.Document.Root())
	second := parse(t, out)
	want := dump(first.Document, first.Document.Root())
	got := dump(second.Document, second.Document.Root())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("re-parsed tree differs (-want +got):\n%s", diff)
	}
}

func TestChunkedFeed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	whole := parse(t, wellFormed)
	want := dump(whole.Document, whole.Document.Root())
	for _, size := range []int{1, 2, 3, 7, 64} {
		p := NewParser(Encoding("utf-8"))
		in := []byte(wellFormed)
		for len(in) > 0 {
			n := size
			if n > len(in) {
				n = len(in)
			}
			require.NoError(t, p.Feed(context.Background(), in[:n]))
			in = in[n:]
		}
		res, err := p.Close(context.Background())
		require.NoError(t, err)
		got := dump(res.Document, res.Document.Root())
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("chunk size %d: tree differs (-want +got):\n%s", size, diff)
		}
	}
}

func TestEncodingSniffing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	latin1 := []byte("<meta charset=\"iso-8859-1\"><p>caf\xe9</p>")
	res, err := ParseBytes(context.Background(), latin1)
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", res.Encoding)
	assert.Equal(t, "café", res.Document.TextContent(res.Document.Body()))
	//
	bom := []byte("\xef\xbb\xbf<p>x</p>")
	res, err = ParseBytes(context.Background(), bom)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", res.Encoding)
	assert.Equal(t, "x", res.Document.TextContent(res.Document.Body()))
	//
	ascii := []byte("<p>plain</p>")
	res, err = ParseBytes(context.Background(), ascii)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", res.Encoding)
}

func TestResources(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	src := `<html><head><base href="/static/"><link rel="stylesheet" href="a.css" media="screen">
<link rel="icon" href="i.ico"><style>p { color: red }</style></head>
<body><img src="pic.png"><script src="s.js"></script></body></html>`
	res := parse(t, src, BaseURL("https://example.org/dir/page.html"))
	require.Len(t, res.Resources, 4)
	assert.Equal(t, "https://example.org/static/", res.BaseURL.String())
	assert.Equal(t, StylesheetLink, res.Resources[0].Kind)
	assert.Equal(t, "https://example.org/static/a.css", res.Resources[0].URL.String())
	assert.Equal(t, "screen", res.Resources[0].Media)
	assert.Equal(t, InlineStyle, res.Resources[1].Kind)
	assert.Equal(t, "p { color: red }", res.Resources[1].Text)
	assert.Equal(t, ImageSource, res.Resources[2].Kind)
	assert.Equal(t, "https://example.org/static/pic.png", res.Resources[2].URL.String())
	assert.Equal(t, ScriptSource, res.Resources[3].Kind)
}

func TestErrorCap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	res := parse(t, strings.Repeat("</x>", 20), MaxErrors(5))
	assert.Len(t, res.Errors, 5)
	assert.Greater(t, res.DroppedErrors, 0)
}

func TestCancellation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	ctx, cancel := context.WithCancel(context.Background())
	p := NewParser(Encoding("utf-8"))
	require.NoError(t, p.Feed(ctx, []byte("<div><p>first</p>")))
	cancel()
	err := p.Feed(ctx, []byte("<p>second</p></div>"))
	require.Error(t, err)
	assert.Equal(t, core.ECANCELED, core.Code(err))
	res, err := p.Close(ctx)
	assert.Error(t, err)
	require.NotNil(t, res)
	doc := res.Document
	assert.NoError(t, doc.CheckTree())
	assert.Equal(t, "first", doc.TextContent(doc.Body()))
}
