package frame

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/stretchr/testify/assert"
)

func TestBoxNullbox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	box := InitEmptyBox(&Box{})
	assert.Equal(t, box.Padding[Top], css.SomeDimen(0))
	assert.Equal(t, css.SomeDimen(0), box.BorderWidth[Right])
	assert.Equal(t, css.SomeDimen(0), box.Margins[Left])
	assert.True(t, box.W.IsAuto())
	assert.False(t, box.HasFixedBorderBoxWidth(true))
	assert.False(t, box.HasFixedBorderBoxHeight(true))
}

func TestFixContent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	box := InitEmptyBox(&Box{})
	box.Padding[Left] = css.DimenOption("50%")
	box.Padding[Right] = css.DimenOption("10px")
	assert.True(t, box.FixPercentages(60*dimen.PX))
	assert.True(t, box.FixContentWidth(60*dimen.PX))
	assert.Equal(t, css.SomeDimen(60*dimen.PX), box.ContentWidth())
	assert.True(t, box.HasFixedBorderBoxWidth(false))
	t.Logf(box.DebugString())
	assert.Equal(t, css.SomeDimen(100*dimen.PX), box.BorderBoxWidth())
	box.Margins[Left] = css.SomeDimen(5 * dimen.PX)
	assert.Equal(t, css.SomeDimen(105*dimen.PX), box.TotalWidth())
}

func TestFixContentBorderBoxSizing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	box := &Box{BorderBoxSizing: true}
	assert.False(t, box.FixContentWidth(60*dimen.PX))
	InitEmptyBox(box)
	box.Padding[Left] = css.SomeDimen(10 * dimen.PX)
	box.BorderWidth[Right] = css.SomeDimen(2 * dimen.PX)
	assert.True(t, box.FixContentWidth(60*dimen.PX))
	assert.Equal(t, css.SomeDimen(72*dimen.PX), box.W)
	assert.Equal(t, css.SomeDimen(60*dimen.PX), box.ContentWidth())
	box.FixBorderBoxWidth(50 * dimen.PX)
	assert.Equal(t, css.SomeDimen(38*dimen.PX), box.ContentWidth())
}

func TestNegativeWidthClamped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	box := InitEmptyBox(nil)
	box.FixContentWidth(-10 * dimen.PX)
	assert.Equal(t, css.SomeDimen(0), box.ContentWidth())
	box.Padding[Left] = css.SomeDimen(20 * dimen.PX)
	box.FixBorderBoxWidth(10 * dimen.PX)
	assert.Equal(t, css.SomeDimen(0), box.ContentWidth())
}

func TestRects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	box := InitEmptyBox(nil)
	box.TopL = dimen.Point{X: 10 * dimen.PX, Y: 20 * dimen.PX}
	box.Padding[Left] = css.SomeDimen(5 * dimen.PX)
	box.BorderWidth[Top] = css.SomeDimen(1 * dimen.PX)
	box.Margins[Left] = css.SomeDimen(3 * dimen.PX)
	box.FixContentWidth(100 * dimen.PX)
	box.FixContentHeight(50 * dimen.PX)
	assert.Equal(t, dimen.RectOf(10*dimen.PX, 20*dimen.PX, 105*dimen.PX, 51*dimen.PX), box.BorderRect())
	assert.Equal(t, dimen.RectOf(15*dimen.PX, 21*dimen.PX, 100*dimen.PX, 50*dimen.PX), box.ContentRect())
	assert.Equal(t, dimen.RectOf(7*dimen.PX, 20*dimen.PX, 108*dimen.PX, 51*dimen.PX), box.MarginRect())
	assert.Equal(t, dimen.Point{X: 5 * dimen.PX, Y: 1 * dimen.PX}, box.ContentOffset())
}

func TestCollapseMargins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	assert.Equal(t, 20*dimen.PX, CollapseMargins(10*dimen.PX, 20*dimen.PX))
	assert.Equal(t, 10*dimen.PX, CollapseMargins(20*dimen.PX, -10*dimen.PX))
	assert.Equal(t, -10*dimen.PX, CollapseMargins(-5*dimen.PX, -10*dimen.PX))
	assert.Equal(t, dimen.Zero, CollapseMargins(0, 0))
}

func TestContextFor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	block, _ := css.ParseDisplay("block")
	inline, _ := css.ParseDisplay("inline")
	flex, _ := css.ParseDisplay("flex")
	ib, _ := css.ParseDisplay("inline-block")
	assert.Equal(t, BlockContext, ContextFor(block, []css.DisplayMode{inline, block}))
	assert.Equal(t, InlineContext, ContextFor(block, []css.DisplayMode{inline, ib}))
	assert.Equal(t, InlineContext, ContextFor(block, nil))
	assert.Equal(t, FlexContext, ContextFor(flex, []css.DisplayMode{inline}))
	assert.Equal(t, InlineContext, ContextFor(inline, []css.DisplayMode{block}))
	assert.Equal(t, BlockContext, ContextFor(ib, []css.DisplayMode{block}))
}

func TestStyling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.frame")
	defer teardown()
	//
	cs := style.NewComputedStyle()
	cs.Set("display", "flex")
	cs.Set("width", "50%")
	cs.Set("padding-left", "4px")
	cs.Set("border-top-width", "3px")
	cs.Set("font-size", "20px")
	cs.Set("line-height", "1.5")
	cs.Set("flex-grow", "2")
	cs.Set("z-index", "3")
	cs.Set("background-color", "#ff0000")
	s := StylingFrom(cs)
	assert.True(t, s.Display.IsFlexContainer())
	assert.True(t, s.Size.W.IsPercent())
	assert.Equal(t, css.SomeDimen(4*dimen.PX), s.Padding[Left])
	assert.Equal(t, 30*dimen.PX, s.LineHeight)
	assert.Equal(t, 2.0, s.FlexGrow)
	assert.Equal(t, 1.0, s.FlexShrink)
	assert.Equal(t, 3, s.ZIndex)
	assert.False(t, s.ZAuto)
	assert.Equal(t, uint8(0xff), s.Colors.Background.R)
	box := &Box{}
	s.InitBox(box)
	// border style defaults to none, so the border has no width
	assert.Equal(t, css.SomeDimen(0), box.BorderWidth[Top])
	assert.True(t, StylingFrom(nil).ZAuto)
}
