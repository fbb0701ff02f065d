package css

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	d := DimenOption(style.Property("12pt"))
	require.True(t, d.IsAbsolute())
	assert.Equal(t, 16*dimen.PX, d.Unwrap())
	d = DimenOption("auto")
	assert.True(t, d.IsAuto())
	assert.Equal(t, "auto", d.String())
	d = DimenOption("none")
	assert.True(t, d.IsUnbound())
	d = DimenOption("fit-content")
	assert.True(t, d.IsContentScaled())
	d = DimenOption("50%")
	assert.True(t, d.IsPercent())
	assert.Equal(t, 50.0, d.Percentage())
	assert.Equal(t, "50%", d.String())
	assert.Equal(t, 100*dimen.PX, d.ResolvePercent(200*dimen.PX).Unwrap())
	d = DimenOption("0")
	assert.True(t, d.IsAbsolute())
	assert.True(t, DimenOption("12").IsNone())
	assert.True(t, DimenOption("wide").IsNone())
	assert.True(t, DimenOption("").IsNone())
}

func TestResolveRelativeUnits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	ctx := UnitContext{
		FontSize:       20 * dimen.PX,
		RootFontSize:   16 * dimen.PX,
		ViewportWidth:  1000 * dimen.PX,
		ViewportHeight: 500 * dimen.PX,
	}
	for _, tc := range []struct {
		in  style.Property
		out dimen.Dimen
	}{
		{"1.5em", 30 * dimen.PX},
		{"2rem", 32 * dimen.PX},
		{"10vw", 100 * dimen.PX},
		{"10vh", 50 * dimen.PX},
		{"10vmax", 100 * dimen.PX},
		{"1ex", 10 * dimen.PX},
		{"7px", 7 * dimen.PX},
	} {
		d := DimenOption(tc.in)
		r := d.Resolve(ctx)
		require.True(t, r.IsAbsolute(), tc.in)
		assert.Equal(t, tc.out, r.Unwrap(), tc.in)
	}
	p := Percent(10).Resolve(ctx)
	assert.True(t, p.IsPercent())
	assert.True(t, DimenOption("2em").IsFontScaled())
	assert.True(t, DimenOption("2vw").IsViewScaled())
}

func TestMinMax(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	a, b := SomeDimen(10), SomeDimen(20)
	assert.Equal(t, b, MaxDimen(a, b))
	assert.Equal(t, a, MinDimen(a, b))
	assert.Equal(t, a, MaxDimen(Dimen(), a))
	assert.Equal(t, a, MinDimen(a, Auto()))
	assert.Equal(t, dimen.Dimen(5), Auto().UnwrapOr(5))
}

func TestParseDisplay(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	d, err := ParseDisplay("flex")
	require.NoError(t, err)
	assert.True(t, d.IsBlockLevel())
	assert.True(t, d.IsFlexContainer())
	d, _ = ParseDisplay("inline-block")
	assert.True(t, d.IsInlineLevel())
	assert.True(t, d.IsAtomicInline())
	d, _ = ParseDisplay("inline")
	assert.False(t, d.IsAtomicInline())
	d, _ = ParseDisplay("list-item")
	assert.True(t, d.IsBlockLevel())
	assert.Equal(t, "BlockMode ListItemMode InnerBlockMode", d.FullString())
	d, err = ParseDisplay("weird")
	assert.Error(t, err)
	assert.Equal(t, InlineMode|InnerInlineMode, d)
}

func TestKeywords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.css")
	defer teardown()
	//
	assert.True(t, ParseFlexDirection("column-reverse").IsColumn())
	assert.True(t, ParseFlexDirection("column-reverse").IsReverse())
	assert.Equal(t, FlexRow, ParseFlexDirection("bogus"))
	assert.Equal(t, FlexWrapOn, ParseFlexWrap("wrap"))
	assert.Equal(t, JustifySpaceEvenly, ParseJustify("space-evenly"))
	assert.Equal(t, AlignStretch, ParseAlign("normal"))
	assert.Equal(t, AlignCenter, ParseAlign("center"))
	assert.False(t, ParseWhiteSpace("nowrap").Wrap())
	assert.True(t, ParseWhiteSpace("pre").PreserveNewlines())
	assert.False(t, ParseWhiteSpace("pre").CollapseSpaces())
	assert.Equal(t, Hidden, ParseVisibility("hidden"))
	assert.Equal(t, PositionAbsolute, ParsePosition("absolute"))
	assert.Equal(t, 2.5, ParseNumber("2.5", 0))
	assert.Equal(t, 1.0, ParseNumber("2px", 1))
}
