package css

import (
	"github.com/npillmayer/webcore/engine/dom/style"
)

// --- Position --------------------------------------------------------------

// Position is an enum type for the CSS position property.
type Position uint16

// Enum values for type Position
const (
	PositionStatic   Position = iota // CSS static (default)
	PositionRelative                 // CSS relative
	PositionAbsolute                 // CSS absolute
	PositionFixed                    // CSS fixed
	PositionSticky                   // CSS sticky, currently mapped to relative
)

var positionStringMap = map[style.Property]Position{
	"static":   PositionStatic,
	"relative": PositionRelative,
	"absolute": PositionAbsolute,
	"fixed":    PositionFixed,
	"sticky":   PositionSticky,
}

// ParsePosition converts a value of property `position`.
func ParsePosition(p style.Property) Position {
	return positionStringMap[p]
}

// IsPositioned is true for all positions except static.
func (p Position) IsPositioned() bool {
	return p != PositionStatic
}

// IsOutOfFlow is true for absolute and fixed positioning.
func (p Position) IsOutOfFlow() bool {
	return p == PositionAbsolute || p == PositionFixed
}

// --- Flexbox ---------------------------------------------------------------

// FlexDirection is an enum type for CSS property flex-direction.
type FlexDirection uint8

// Values for flex-direction.
const (
	FlexRow FlexDirection = iota
	FlexRowReverse
	FlexColumn
	FlexColumnReverse
)

// ParseFlexDirection converts a value of property `flex-direction`.
func ParseFlexDirection(p style.Property) FlexDirection {
	switch p {
	case "row-reverse":
		return FlexRowReverse
	case "column":
		return FlexColumn
	case "column-reverse":
		return FlexColumnReverse
	}
	return FlexRow
}

// IsColumn is true if the main axis is vertical.
func (d FlexDirection) IsColumn() bool {
	return d == FlexColumn || d == FlexColumnReverse
}

// IsReverse is true if items are placed against the main axis.
func (d FlexDirection) IsReverse() bool {
	return d == FlexRowReverse || d == FlexColumnReverse
}

// FlexWrap is an enum type for CSS property flex-wrap.
type FlexWrap uint8

// Values for flex-wrap.
const (
	FlexNoWrap FlexWrap = iota
	FlexWrapOn
	FlexWrapReverse
)

// ParseFlexWrap converts a value of property `flex-wrap`.
func ParseFlexWrap(p style.Property) FlexWrap {
	switch p {
	case "wrap":
		return FlexWrapOn
	case "wrap-reverse":
		return FlexWrapReverse
	}
	return FlexNoWrap
}

// Justify is an enum type for CSS property justify-content.
type Justify uint8

// Values for justify-content.
const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// ParseJustify converts a value of property `justify-content`.
func ParseJustify(p style.Property) Justify {
	switch p {
	case "flex-end", "end", "right":
		return JustifyEnd
	case "center":
		return JustifyCenter
	case "space-between":
		return JustifySpaceBetween
	case "space-around":
		return JustifySpaceAround
	case "space-evenly":
		return JustifySpaceEvenly
	}
	return JustifyStart
}

// Align is an enum type for CSS properties align-items and align-self.
type Align uint8

// Values for align-items and align-self.
const (
	AlignAuto Align = iota // align-self only: use align-items of container
	AlignStretch
	AlignStart
	AlignEnd
	AlignCenter
	AlignBaseline
)

// ParseAlign converts a value of property `align-items` or `align-self`.
// Unknown values are mapped to stretch, the initial value of align-items.
func ParseAlign(p style.Property) Align {
	switch p {
	case "auto":
		return AlignAuto
	case "flex-start", "start", "self-start":
		return AlignStart
	case "flex-end", "end", "self-end":
		return AlignEnd
	case "center":
		return AlignCenter
	case "baseline":
		return AlignBaseline
	}
	return AlignStretch
}

// --- Text ------------------------------------------------------------------

// TextAlign is an enum type for CSS property text-align.
type TextAlign uint8

// Values for text-align.
const (
	TextAlignLeft TextAlign = iota
	TextAlignRight
	TextAlignCenter
	TextAlignJustify
)

// ParseTextAlign converts a value of property `text-align`.
func ParseTextAlign(p style.Property) TextAlign {
	switch p {
	case "right", "end":
		return TextAlignRight
	case "center":
		return TextAlignCenter
	case "justify":
		return TextAlignJustify
	}
	return TextAlignLeft
}

// WhiteSpace is an enum type for CSS property white-space.
/*
                  New lines    Spaces and tabs     Text wrapping     End-of-line spaces
                  ---------------------------------------------------------------------
    normal        Collapse     Collapse            Wrap              Remove
    nowrap        Collapse     Collapse            No wrap           Remove
    pre           Preserve     Preserve            No wrap           Preserve
    pre-wrap      Preserve     Preserve            Wrap              Hang
    pre-line      Preserve     Collapse            Wrap              Remove
*/
type WhiteSpace uint8

// Values for white-space.
const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpaceNoWrap
	WhiteSpacePre
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// ParseWhiteSpace converts a value of property `white-space`.
func ParseWhiteSpace(p style.Property) WhiteSpace {
	switch p {
	case "nowrap":
		return WhiteSpaceNoWrap
	case "pre":
		return WhiteSpacePre
	case "pre-wrap", "break-spaces":
		return WhiteSpacePreWrap
	case "pre-line":
		return WhiteSpacePreLine
	}
	return WhiteSpaceNormal
}

// CollapseSpaces is true if runs of spaces and tabs collapse to one space.
func (ws WhiteSpace) CollapseSpaces() bool {
	return ws == WhiteSpaceNormal || ws == WhiteSpaceNoWrap || ws == WhiteSpacePreLine
}

// PreserveNewlines is true if newlines force line breaks.
func (ws WhiteSpace) PreserveNewlines() bool {
	return ws == WhiteSpacePre || ws == WhiteSpacePreWrap || ws == WhiteSpacePreLine
}

// Wrap is true if lines may be broken at soft wrap opportunities.
func (ws WhiteSpace) Wrap() bool {
	return ws != WhiteSpaceNoWrap && ws != WhiteSpacePre
}

// Visibility is an enum type for CSS property visibility.
type Visibility uint8

// Values for visibility.
const (
	Visible Visibility = iota
	Hidden
	Collapse
)

// ParseVisibility converts a value of property `visibility`.
func ParseVisibility(p style.Property) Visibility {
	switch p {
	case "hidden":
		return Hidden
	case "collapse":
		return Collapse
	}
	return Visible
}

// IsBorderBox is true if property `box-sizing` has value border-box.
func IsBorderBox(p style.Property) bool {
	return p == "border-box"
}

// ParseNumber converts a unitless number, e.g. for flex-grow. Invalid values
// yield the default dflt.
func ParseNumber(p style.Property, dflt float64) float64 {
	n, unit, ok := style.SplitNumber(p)
	if !ok || unit != "" {
		return dflt
	}
	return n
}
