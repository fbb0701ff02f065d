package inline

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/cssom"
	"github.com/npillmayer/webcore/engine/dom/styledtree"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/text/monospace"
	"github.com/npillmayer/webcore/input/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Text is set in a monospace font of 16px, i.e. 8px per character, with
// lines of 20px.
const base = `p { font-size: 16px; line-height: 20px } `

func paragraph(t *testing.T, markup, stylesheet string) (*boxtree.Builder, *boxtree.Box) {
	ctx := context.Background()
	res, err := html.ParseString(ctx, markup)
	require.NoError(t, err)
	rules := styledtree.DefaultRuleSet(cssom.MustParse(base + stylesheet))
	tree := styledtree.NewTree(res.Document, rules, styledtree.DefaultEnv())
	_, err = tree.Restyle(ctx)
	require.NoError(t, err)
	b := boxtree.NewBuilder(tree)
	_, err = b.Build(ctx)
	require.NoError(t, err)
	p := b.BoxOf(res.Document.GetElementByID("p"))
	require.NotNil(t, p)
	return b, p
}

func texts(l *boxtree.LineBox) []string {
	var s []string
	for _, f := range l.Items {
		if f.Box.IsText() {
			s = append(s, f.Text)
		}
	}
	return s
}

func TestBreakLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, `<p id="p">aaa bbb ccc</p>`, "")
	res := Layout(p, 70*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 2)
	assert.Equal(t, []string{"aaa bbb"}, texts(res.Lines[0]))
	assert.Equal(t, []string{"ccc"}, texts(res.Lines[1]))
	assert.Equal(t, 40*dimen.PX, res.Height)
	assert.Equal(t, 56*dimen.PX, res.Width)
	assert.Equal(t, 20*dimen.PX, res.Lines[1].Rect.TopL.Y)
}

func TestTextAlignCenter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, `<p id="p">ab</p>`, `p { text-align: center }`)
	res := Layout(p, 100*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 42*dimen.PX, res.Lines[0].Items[0].Rect.TopL.X)
}

func TestJustify(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, `<p id="p">aaa bbb ccc</p>`, `p { text-align: justify }`)
	res := Layout(p, 70*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 2)
	assert.Equal(t, 70*dimen.PX, res.Lines[0].Items[0].Rect.Width())
	// last line is not justified
	assert.Equal(t, 24*dimen.PX, res.Lines[1].Items[0].Rect.Width())
}

func TestWhiteSpaceCollapsing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, "<p id=\"p\">  a \n <b> b </b>  c </p>", "")
	res := Layout(p, 500*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 1)
	assert.Equal(t, []string{"a ", "b ", "c"}, texts(res.Lines[0]))
	assert.Equal(t, 40*dimen.PX, res.Width)
}

func TestWhiteSpaceOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, "<p id=\"p\">  \n  </p>", "")
	res := Layout(p, 500*dimen.PX, monospace.New())
	assert.Empty(t, res.Lines)
	assert.Equal(t, dimen.Zero, res.Height)
}

func TestPreservedNewlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, "<p id=\"p\">a\nb  c</p>", `p { white-space: pre }`)
	res := Layout(p, 16*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 2)
	assert.Equal(t, []string{"a"}, texts(res.Lines[0]))
	assert.Equal(t, []string{"b  c"}, texts(res.Lines[1]))
}

func TestNoWrap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, `<p id="p">aaa bbb</p>`, `p { white-space: nowrap }`)
	res := Layout(p, 10*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 56*dimen.PX, res.Width)
}

func TestForcedBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, `<p id="p">a<br>b</p>`, "")
	res := Layout(p, 500*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 2)
	assert.Equal(t, []string{"b"}, texts(res.Lines[1]))
}

func TestLineHeightIsMaximum(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, `<p id="p">a <span>b</span></p>`, `span { line-height: 40px }`)
	res := Layout(p, 500*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 40*dimen.PX, res.Lines[0].Rect.Height())
	assert.Equal(t, 40*dimen.PX, res.Height)
}

func TestInlineBoxAcrossLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	b, p := paragraph(t, `<p id="p">aa <b id="b">bb cc</b> dd</p>`, "")
	bold := b.BoxOf(p.Children[1].Node)
	require.NotNil(t, bold)
	res := Layout(p, 50*dimen.PX, monospace.New())
	require.Len(t, res.Lines, 2)
	first := res.Lines[0].Items
	require.Len(t, first, 3)
	assert.Same(t, bold, first[1].Box)
	assert.Equal(t, 24*dimen.PX, first[1].Rect.TopL.X)
	assert.Equal(t, 40*dimen.PX, first[1].Rect.BotR.X)
	second := res.Lines[1].Items
	require.NotEmpty(t, second)
	assert.Same(t, bold, second[0].Box)
	assert.Equal(t, 16*dimen.PX, second[0].Rect.BotR.X)
	assert.Equal(t, []string{"cc", " dd"}, texts(res.Lines[1]))
	assert.Equal(t, 40*dimen.PX, bold.BorderBoxHeight().Unwrap())
}

func TestMeasure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	_, p := paragraph(t, `<p id="p">aaa bbbbb</p>`, "")
	min, max := Measure(p, monospace.New())
	assert.Equal(t, 40*dimen.PX, min)
	assert.Equal(t, 72*dimen.PX, max)
}
