package frame

import (
	"image/color"
	"strconv"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/css"
)

// Styling holds the subset of a computed style which layout and painting
// depend on, converted to typed values.
//
// Lengths have been resolved to pixels by the cascade, except for
// percentages, which refer to the containing block and are resolved during
// layout.
type Styling struct {
	Display    css.DisplayMode
	Position   css.Position
	Offsets    [4]css.DimenT // top, right, bottom, left
	ZIndex     int
	ZAuto      bool // z-index: auto
	Float      bool
	Visibility css.Visibility

	Size            Size
	Min, Max        Size
	BorderBoxSizing bool
	Padding         [4]css.DimenT
	BorderWidth     [4]css.DimenT
	Margins         [4]css.DimenT

	Colors ColorStyle
	Border [4]BorderStyle

	FontFamily string
	FontSize   dimen.Dimen
	Bold       bool
	Italic     bool
	LineHeight dimen.Dimen
	TextAlign  css.TextAlign
	TextIndent css.DimenT
	WhiteSpace css.WhiteSpace

	FlexDirection css.FlexDirection
	FlexWrap      css.FlexWrap
	Justify       css.Justify
	AlignItems    css.Align
	AlignSelf     css.Align
	FlexGrow      float64
	FlexShrink    float64
	FlexBasis     css.DimenT // `content` is represented as DimenContentMax
	Order         int
	RowGap        css.DimenT
	ColumnGap     css.DimenT
}

// ColorStyle is a type for styling with color.
type ColorStyle struct {
	Foreground color.RGBA
	Background color.RGBA // may be (semi-)transparent
}

// BorderStyle is a type for simple borders.
type BorderStyle struct {
	LineColor color.RGBA
	LineStyle string // solid, dashed, …; none and hidden have zero width
}

var sides = [4]string{"top", "right", "bottom", "left"}

// StylingFrom converts a computed style. A nil style yields initial values.
func StylingFrom(cs *style.ComputedStyle) *Styling {
	if cs == nil {
		cs = style.NewComputedStyle()
	}
	get := cs.GetPropertyValue
	s := &Styling{}
	var err error
	if s.Display, err = css.ParseDisplay(string(get("display"))); err != nil {
		tracer().Debugf("%v", err)
	}
	s.Position = css.ParsePosition(get("position"))
	s.Float = get("float") != "none" && get("float") != ""
	s.Visibility = css.ParseVisibility(get("visibility"))
	if z := get("z-index"); z == "auto" {
		s.ZAuto = true
	} else if n, err := strconv.Atoi(string(z)); err == nil {
		s.ZIndex = n
	} else {
		s.ZAuto = true
	}
	s.Size = Size{W: css.DimenOption(get("width")), H: css.DimenOption(get("height"))}
	s.Min = Size{W: css.DimenOption(get("min-width")), H: css.DimenOption(get("min-height"))}
	s.Max = Size{W: css.DimenOption(get("max-width")), H: css.DimenOption(get("max-height"))}
	s.BorderBoxSizing = css.IsBorderBox(get("box-sizing"))
	for dir, side := range sides {
		s.Offsets[dir] = css.DimenOption(get(side))
		s.Padding[dir] = css.DimenOption(get("padding-" + side))
		s.Margins[dir] = css.DimenOption(get("margin-" + side))
		s.BorderWidth[dir] = css.DimenOption(get("border-" + side + "-width"))
		if !s.BorderWidth[dir].IsAbsolute() {
			s.BorderWidth[dir] = css.SomeDimen(0)
		}
		s.Border[dir] = BorderStyle{
			LineColor: colorOf(get("border-" + side + "-color")),
			LineStyle: string(get("border-" + side + "-style")),
		}
	}
	s.Colors = ColorStyle{
		Foreground: colorOf(get("color")),
		Background: colorOf(get("background-color")),
	}
	s.FontFamily = string(get("font-family"))
	s.FontSize = css.DimenOption(get("font-size")).UnwrapOr(16 * dimen.PX)
	switch w := get("font-weight"); w {
	case "bold", "bolder":
		s.Bold = true
	default:
		s.Bold = css.ParseNumber(w, 400) >= 600
	}
	s.Italic = get("font-style") == "italic" || get("font-style") == "oblique"
	s.LineHeight = lineHeight(get("line-height"), s.FontSize)
	s.TextAlign = css.ParseTextAlign(get("text-align"))
	s.TextIndent = css.DimenOption(get("text-indent"))
	s.WhiteSpace = css.ParseWhiteSpace(get("white-space"))
	s.FlexDirection = css.ParseFlexDirection(get("flex-direction"))
	s.FlexWrap = css.ParseFlexWrap(get("flex-wrap"))
	s.Justify = css.ParseJustify(get("justify-content"))
	s.AlignItems = css.ParseAlign(get("align-items"))
	if s.AlignItems == css.AlignAuto {
		s.AlignItems = css.AlignStretch
	}
	s.AlignSelf = css.ParseAlign(get("align-self"))
	s.FlexGrow = css.ParseNumber(get("flex-grow"), 0)
	s.FlexShrink = css.ParseNumber(get("flex-shrink"), 1)
	if b := get("flex-basis"); b == "content" {
		s.FlexBasis = css.DimenOption("max-content")
	} else {
		s.FlexBasis = css.DimenOption(b)
	}
	s.Order = int(css.ParseNumber(get("order"), 0))
	s.RowGap = gap(get("row-gap"))
	s.ColumnGap = gap(get("column-gap"))
	return s
}

// normalLineHeight is the factor for line-height: normal.
const normalLineHeight = 1.2

func lineHeight(p style.Property, fontSize dimen.Dimen) dimen.Dimen {
	if p == "normal" || p == "" {
		return fontSize.Scale(normalLineHeight)
	}
	if style.IsNumber(p) {
		return fontSize.Scale(css.ParseNumber(p, normalLineHeight))
	}
	d := css.DimenOption(p).ResolvePercent(fontSize)
	if d.IsAbsolute() {
		return dimen.Max(0, d.Unwrap())
	}
	return fontSize.Scale(normalLineHeight)
}

func gap(p style.Property) css.DimenT {
	if p == "normal" {
		return css.SomeDimen(0)
	}
	return css.DimenOption(p)
}

func colorOf(p style.Property) color.RGBA {
	c, _ := style.ParseColor(p)
	return c
}

// IsTransparent is true for fully transparent colors.
func IsTransparent(c color.RGBA) bool {
	return c.A == 0
}

// InitBox initializes a layout box from styling, with percentages not yet
// resolved.
func (s *Styling) InitBox(box *Box) {
	box.Rect = Rect{Size: s.Size}
	box.Min, box.Max = s.Min, s.Max
	box.BorderBoxSizing = s.BorderBoxSizing
	box.Padding = s.Padding
	box.Margins = s.Margins
	for dir := Top; dir <= Left; dir++ {
		box.BorderWidth[dir] = s.BorderWidth[dir]
		if ls := s.Border[dir].LineStyle; ls == "none" || ls == "hidden" {
			box.BorderWidth[dir] = css.SomeDimen(0)
		}
	}
}
