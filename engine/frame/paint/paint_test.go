package paint

import (
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/cssom"
	"github.com/npillmayer/webcore/engine/dom/styledtree"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/frame/layout"
	"github.com/npillmayer/webcore/input/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reset = `body { margin: 0 } div, p { font-size: 16px; line-height: 20px; margin: 0 } `

func paintList(t *testing.T, markup, stylesheet string) (List, *dom.Document) {
	ctx := context.Background()
	res, err := html.ParseString(ctx, markup)
	require.NoError(t, err)
	rules := styledtree.DefaultRuleSet(cssom.MustParse(reset + stylesheet))
	tree := styledtree.NewTree(res.Document, rules, styledtree.DefaultEnv())
	_, err = tree.Restyle(ctx)
	require.NoError(t, err)
	root, err := boxtree.BuildBoxTree(ctx, tree)
	require.NoError(t, err)
	engine := layout.NewEngine(res.Document, nil)
	require.NoError(t, engine.Layout(ctx, root, layout.NewView(800*dimen.PX, 600*dimen.PX)))
	return Build(root), res.Document
}

func find(list List, n dom.NodeID) *Item {
	for i := range list {
		if list[i].Node == n {
			return &list[i]
		}
	}
	return nil
}

func TestPaintOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	list, doc := paintList(t, `<div id="a"><p id="e">x</p></div><div id="b"></div><div id="c"></div><div id="d"></div>`,
		`#a { position: relative; z-index: 2 } #c { position: absolute; z-index: -1 }
		 #d { position: relative }`)
	require.NotEmpty(t, list)
	assert.Equal(t, doc.DocumentElement(), list[0].Node)
	assert.Equal(t, RootLayer, list[0].Layer)
	var order []string
	for _, it := range list {
		if !doc.IsElement(it.Node) {
			continue
		}
		if id, _ := doc.GetAttribute(it.Node, "id"); id != "" {
			order = append(order, id)
		}
	}
	assert.Equal(t, []string{"c", "b", "d", "a", "e"}, order)
	e := find(list, doc.GetElementByID("e"))
	require.NotNil(t, e)
	assert.Equal(t, PositiveLayer, e.Layer)
	assert.Equal(t, 2, e.ZIndex)
}

func TestPaintGeometryAndColors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	list, doc := paintList(t, `<div id="box"></div>`,
		`#box { width: 100px; height: 50px; border: 2px solid blue; background-color: red; color: green }`)
	it := find(list, doc.GetElementByID("box"))
	require.NotNil(t, it)
	assert.Equal(t, dimen.RectOf(0, 0, 104*dimen.PX, 54*dimen.PX), it.Rect)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, it.Background)
	assert.True(t, it.HasBackground())
	assert.Equal(t, color.RGBA{G: 128, A: 255}, it.Color)
	for dir := frame.Top; dir <= frame.Left; dir++ {
		assert.Equal(t, 2*dimen.PX, it.Borders[dir].Width)
		assert.Equal(t, color.RGBA{B: 255, A: 255}, it.Borders[dir].Color)
		assert.Equal(t, "solid", it.Borders[dir].Style)
	}
	assert.Equal(t, FlowLayer, it.Layer)
}

func TestTextRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	list, doc := paintList(t, `<p id="p">hello world</p>`, `#p { width: 48px; color: green }`)
	p := doc.GetElementByID("p")
	txt := find(list, doc.FirstChild(p))
	require.NotNil(t, txt)
	require.True(t, txt.IsText())
	require.Len(t, txt.Text, 2)
	assert.Equal(t, "hello", strings.TrimSpace(txt.Text[0].Text))
	assert.Equal(t, "world", strings.TrimSpace(txt.Text[1].Text))
	assert.Greater(t, txt.Text[1].Rect.TopL.Y, txt.Text[0].Rect.TopL.Y)
	for _, run := range txt.Text {
		assert.Greater(t, run.Baseline, run.Rect.TopL.Y)
		assert.LessOrEqual(t, run.Baseline, run.Rect.BotR.Y)
	}
	assert.Equal(t, color.RGBA{G: 128, A: 255}, txt.Color)
	assert.Equal(t, 16*dimen.PX, txt.Font.Size)
	// text paints after its element
	el := find(list, p)
	require.NotNil(t, el)
	assert.Empty(t, el.Text)
}

func TestHiddenBoxesAreKept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	list, doc := paintList(t, `<div id="h">x</div><div id="v">y</div>`, `#h { visibility: hidden }`)
	h, v := doc.GetElementByID("h"), doc.GetElementByID("v")
	hidden := find(list, h)
	require.NotNil(t, hidden)
	assert.True(t, hidden.Hidden)
	assert.Equal(t, dimen.RectOf(0, 0, 800*dimen.PX, 20*dimen.PX), hidden.Rect)
	for _, it := range list.Visible() {
		assert.NotEqual(t, h, it.Node)
		if it.IsText() {
			assert.NotEqual(t, h, doc.Parent(it.Node))
		}
	}
	assert.NotNil(t, find(list.Visible(), v))
}

func TestEmptyTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	assert.Empty(t, Build(nil))
}
