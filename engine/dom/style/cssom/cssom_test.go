package cssom

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/input/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	sheet, err := Parse(context.Background(), `
		/* headings */
		h1, h2.title { color: red; margin: 0 auto }
		p > a:first-child{font-weight:bold !important}
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 2)
	assert.Empty(t, sheet.Errors)
	r := sheet.Rules[0]
	assert.Equal(t, "h1, h2.title", r.SelectorText())
	require.Len(t, r.Declarations, 2)
	assert.Equal(t, "color", r.Declarations[0].Property)
	assert.Equal(t, "red", string(r.Declarations[0].Value))
	assert.Equal(t, "0 auto", string(r.Declarations[1].Value))
	r = sheet.Rules[1]
	assert.Equal(t, 1, r.Order)
	assert.Equal(t, "p > a:first-child", r.SelectorText())
	assert.True(t, r.Declarations[0].Important)
	assert.Equal(t, "bold", string(r.Declarations[0].Value))
}

func TestRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	sheet, err := Parse(context.Background(), `
		p { color: red; 12: x; width: 10px; height: }
		] bad { x: y }
		div { color: blue }
		a:unknown-pseudo { color: green }
		span { color
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)
	assert.Len(t, sheet.Rules[0].Declarations, 2)
	assert.Equal(t, "width", sheet.Rules[0].Declarations[1].Property)
	assert.Equal(t, "div", sheet.Rules[1].SelectorText())
	assert.Equal(t, "span", sheet.Rules[2].SelectorText())
	assert.Empty(t, sheet.Rules[2].Declarations)
	assert.GreaterOrEqual(t, len(sheet.Errors), 4)
}

func TestErrorCap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	sheet, err := Parse(context.Background(), "p { 1:a; 2:b; 3:c; 4:d }", MaxErrors(2))
	require.NoError(t, err)
	assert.Len(t, sheet.Errors, 2)
	assert.Equal(t, 2, sheet.DroppedErrors)
}

func TestSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	for _, tc := range []struct {
		sel  string
		spec Specificity
	}{
		{"*", Specificity{0, 0, 0}},
		{"div p", Specificity{0, 0, 2}},
		{"#a", Specificity{1, 0, 0}},
		{".a.b.c.d", Specificity{0, 4, 0}},
		{"[href]", Specificity{0, 1, 0}},
		{"a:not(#x)", Specificity{1, 0, 1}},
		{"li::before", Specificity{0, 0, 2}},
		{"ul > li.item:first-child", Specificity{0, 2, 2}},
	} {
		sels, err := ParseSelectorList(tc.sel)
		require.NoError(t, err, tc.sel)
		require.Len(t, sels, 1)
		assert.Equal(t, tc.spec, sels[0].Specificity(), tc.sel)
	}
	id := Specificity{1, 0, 0}
	assert.True(t, Specificity{0, 99, 99}.Less(id))
	assert.Equal(t, 0, id.Compare(Specificity{1, 0, 0}))
}

func TestInvalidSelectors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	for _, s := range []string{"", "> p", "p >", "a..b", "[=x]", "p:nope", "p, ", "a::before span"} {
		_, err := ParseSelectorList(s)
		assert.Error(t, err, s)
	}
}

func TestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	res, err := html.ParseString(context.Background(),
		`<div id="main" class="a b"><p>one</p><p lang="en-US">two</p><span title="x y"></span></div>`)
	require.NoError(t, err)
	doc := res.Document
	ps := doc.GetElementsByTagName(doc.Root(), "p")
	require.Len(t, ps, 2)
	span := doc.GetElementsByTagName(doc.Root(), "span")[0]
	div := doc.GetElementByID("main")
	match := func(sel string, n dom.NodeID) bool {
		sels, err := ParseSelectorList(sel)
		require.NoError(t, err, sel)
		return sels[0].Match(doc, n)
	}
	assert.True(t, match("div > p", ps[0]))
	assert.True(t, match("div > p", ps[1]))
	assert.True(t, match("body p", ps[0]))
	assert.False(t, match("body > p", ps[0]))
	assert.True(t, match("p:first-child", ps[0]))
	assert.False(t, match("p:first-child", ps[1]))
	assert.True(t, match("p + p", ps[1]))
	assert.False(t, match("p + p", ps[0]))
	assert.True(t, match("p ~ span", span))
	assert.True(t, match("[lang|=en]", ps[1]))
	assert.True(t, match("[lang^=en]", ps[1]))
	assert.True(t, match("[title~=y]", span))
	assert.True(t, match("span:empty:last-child", span))
	assert.True(t, match("div#main.a p", ps[0]))
	assert.False(t, match("div#main.c p", ps[0]))
	assert.True(t, match("p:not(:first-child)", ps[1]))
	assert.True(t, match("*", div))
	assert.True(t, match("html:root", doc.DocumentElement()))
	assert.False(t, match("p:hover", ps[0]))
	assert.False(t, match("p::before", ps[0]))
}

func TestMediaAndImport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	sheet, err := Parse(context.Background(), `
		@charset "utf-8";
		@import url(base.css) screen;
		@import "print.css" print;
		@media (min-width: 600px) { p { color: red } }
		@media print { p { color: blue } }
		@font-face { font-family: x; src: url(x.woff) }
		@media screen and (max-width: 40em), print { p { color: green } }
		a { color: black }
	`, WithMedia(Media{ViewportWidth: 1024 * dimen.PX, ViewportHeight: 768 * dimen.PX}))
	require.NoError(t, err)
	require.Len(t, sheet.Imports, 1)
	assert.Equal(t, "base.css", sheet.Imports[0].Href)
	require.Len(t, sheet.Rules, 2)
	assert.Equal(t, "(min-width: 600px)", sheet.Rules[0].Media)
	assert.Equal(t, "a", sheet.Rules[1].SelectorText())
	//
	m := Media{ViewportWidth: 500 * dimen.PX, ViewportHeight: 800 * dimen.PX}
	assert.True(t, m.Matches("screen and (max-width: 40em)"))
	assert.True(t, m.Matches("(orientation: portrait)"))
	assert.False(t, m.Matches("not screen"))
	assert.False(t, m.Matches("(min-resolution: 2dppx)"))
	assert.True(t, m.Matches("all"))
}

func TestInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	decls, errs := ParseInlineStyle(`color: Red; width:10px !important; bogus; background: url("a;b.png")`)
	require.Len(t, decls, 3)
	assert.Len(t, errs, 1)
	assert.Equal(t, "color", decls[0].Property)
	assert.Equal(t, "red", string(decls[0].Value))
	assert.Equal(t, "width", decls[1].Property)
	assert.True(t, decls[1].Important)
	assert.Equal(t, "background", decls[2].Property)
	require.Len(t, decls[2].Components, 1)
	assert.Equal(t, URLValue, decls[2].Components[0].Kind)
	assert.Equal(t, "a;b.png", decls[2].Components[0].Text)
}

func TestComponents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	sheet, err := Parse(context.Background(), `p { margin: 10px 50% auto; border: 1px solid rgb(1, 2, 3); color: #fff }`)
	require.NoError(t, err)
	decls := sheet.Rules[0].Declarations
	require.Len(t, decls, 3)
	c := decls[0].Components
	require.Len(t, c, 3)
	assert.Equal(t, DimensionValue, c[0].Kind)
	assert.Equal(t, 10.0, c[0].Number)
	assert.Equal(t, "px", c[0].Unit)
	assert.Equal(t, PercentageValue, c[1].Kind)
	assert.Equal(t, 50.0, c[1].Number)
	assert.Equal(t, KeywordValue, c[2].Kind)
	c = decls[1].Components
	require.Len(t, c, 3)
	assert.Equal(t, ColorValue, c[2].Kind)
	assert.Equal(t, "rgb(1, 2, 3)", c[2].Text)
	assert.Equal(t, "rgb(1, 2, 3)", string(decls[1].Value[len("1px solid "):]))
	assert.Equal(t, ColorValue, decls[2].Components[0].Kind)
}

func TestCancellation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sheet, err := Parse(ctx, "p { color: red } div { color: blue }")
	require.Error(t, err)
	assert.Equal(t, core.ECANCELED, core.Code(err))
	assert.NotNil(t, sheet)
}

// countdown is a context which is canceled after a number of checks.
type countdown struct {
	context.Context
	checks int
	done   chan struct{}
}

func newCountdown(checks int) *countdown {
	return &countdown{Context: context.Background(), checks: checks, done: make(chan struct{})}
}

func (c *countdown) Done() <-chan struct{} {
	if c.checks > 0 {
		c.checks--
	} else if c.Err() == nil {
		close(c.done)
	}
	return c.done
}

func (c *countdown) Err() error {
	select {
	case <-c.done:
		return context.Canceled
	default:
		return nil
	}
}

func TestCancellationWithinMedia(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	ctx := newCountdown(2) // the @media rule and the first token of its block
	sheet, err := Parse(ctx, "@media screen { a { color: red } b { color: blue } i { color: green } }")
	require.Error(t, err)
	assert.Equal(t, core.ECANCELED, core.Code(err))
	require.NotNil(t, sheet)
	assert.Less(t, len(sheet.Rules), 3)
}
