package css

import (
	"errors"
	"fmt"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
)

const (
	dimenNone     uint32 = 0
	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	dimenUnbound  uint32 = 0x0005 // keyword none, e.g. for max-width
	keywordMask   uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPRCNT   uint32 = 0x0900
	relativeMask uint32 = 0x0f00
)

// --- DimenT-----------------------------------------------------------------

// DimenT is an option type for CSS dimensions.
// Relative dimensions hold their numeric value scaled like pixels, i.e.
// 1.5em is stored as 1.5 × dimen.PX.
type DimenT struct {
	d     dimen.Dimen
	flags uint32
}

// SomeDimen creates an optional dimen with an initial value of x.
func SomeDimen(x dimen.Dimen) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Dimen creates an optional dimen without an initial value.
func Dimen() DimenT {
	return DimenT{d: 0, flags: dimenNone}
}

// Auto creates a dimension with value `auto`.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Percent creates a percentage dimension, e.g. Percent(50) for 50%.
func Percent(p float64) DimenT {
	return DimenT{d: dimen.FromPixels(p), flags: dimenPRCNT}
}

// Unwrap returns the underlying dimension of o.
func (o DimenT) Unwrap() dimen.Dimen {
	return o.d
}

// UnwrapOr returns the underlying dimension of o if o is absolute, and
// d otherwise.
func (o DimenT) UnwrapOr(d dimen.Dimen) dimen.Dimen {
	if o.IsAbsolute() {
		return o.d
	}
	return d
}

// IsNone returns true if o is unset.
func (o DimenT) IsNone() bool {
	return o.flags == dimenNone
}

// IsAuto returns true if o is `auto`.
func (o DimenT) IsAuto() bool {
	return o.flags == dimenAuto
}

// IsUnbound returns true if o is the keyword `none` (used by max-width).
func (o DimenT) IsUnbound() bool {
	return o.flags == dimenUnbound
}

// IsRelative returns true if o represents a valid relative dimension (`%`, `em`, etc.).
func (o DimenT) IsRelative() bool {
	return o.flags&relativeMask > 0
}

// IsPercent returns true if o is a percentage.
func (o DimenT) IsPercent() bool {
	return o.flags&relativeMask == dimenPRCNT
}

// IsFontScaled is true for dimensions depending on a font size.
func (o DimenT) IsFontScaled() bool {
	u := o.flags & relativeMask
	return u == dimenEM || u == dimenEX || u == dimenCH || u == dimenREM
}

// IsViewScaled is true for dimensions depending on the viewport.
func (o DimenT) IsViewScaled() bool {
	u := o.flags & relativeMask
	return u == dimenVW || u == dimenVH || u == dimenVMIN || u == dimenVMAX
}

// IsContentScaled is true for dimensions depending on content.
func (o DimenT) IsContentScaled() bool {
	return o.flags&contentMask > 0
}

// ContentKeyword returns one of DimenContentMax, DimenContentMin or
// DimenContentFit for content dependent dimensions, and 0 otherwise.
func (o DimenT) ContentKeyword() uint32 {
	return o.flags & contentMask
}

// IsAbsolute returns true if o represents a valid absolute dimension.
func (o DimenT) IsAbsolute() bool {
	return o.flags == dimenAbsolute
}

// Percentage returns the value of a percentage dimension, e.g. 50 for 50%.
func (o DimenT) Percentage() float64 {
	return o.d.Pixels()
}

// Equals compares two dimensions, including their unit.
func (o DimenT) Equals(other DimenT) bool {
	return o.d == other.d && o.flags == other.flags
}

// UnitString returns the unit of a relative dimension, "px" for absolute
// dimensions and the empty string for all others.
func (o DimenT) UnitString() string {
	if o.IsAbsolute() {
		return "px"
	}
	return relUnitMap[o.flags&relativeMask]
}

func (o DimenT) String() string {
	if o.IsNone() {
		return "DimenT.None"
	}
	switch o.flags & keywordMask {
	case dimenAuto:
		return "auto"
	case dimenInitial:
		return "initial"
	case dimenInherit:
		return "inherit"
	case dimenUnbound:
		return "none"
	}
	switch o.flags & contentMask {
	case DimenContentMax:
		return "max-content"
	case DimenContentMin:
		return "min-content"
	case DimenContentFit:
		return "fit-content"
	}
	if o.IsRelative() {
		if unit, ok := relUnitMap[o.flags&relativeMask]; ok {
			return fmt.Sprintf("%g%s", o.d.Pixels(), unit)
		}
	}
	return o.d.String()
}

var relUnitMap map[uint32]string = map[uint32]string{
	dimenEM:    "em",
	dimenEX:    "ex",
	dimenCH:    "ch",
	dimenREM:   "rem",
	dimenVW:    "vw",
	dimenVH:    "vh",
	dimenVMIN:  "vmin",
	dimenVMAX:  "vmax",
	dimenPRCNT: "%",
}

var relUnitStringMap map[string]uint32 = map[string]uint32{
	"em":   dimenEM,
	"ex":   dimenEX,
	"ch":   dimenCH,
	"rem":  dimenREM,
	"vw":   dimenVW,
	"vh":   dimenVH,
	"vmin": dimenVMIN,
	"vmax": dimenVMAX,
	"%":    dimenPRCNT,
}

// DimenOption returns an optional dimension type from a property string.
// It will never return an error, even with illegal input, but instead will then
// return an unset dimension.
func DimenOption(p style.Property) DimenT {
	switch p {
	case style.NullStyle:
		return Dimen()
	case "auto":
		return DimenT{flags: dimenAuto}
	case "initial":
		return DimenT{flags: dimenInitial}
	case "inherit":
		return DimenT{flags: dimenInherit}
	case "none":
		return DimenT{flags: dimenUnbound}
	case "max-content":
		return DimenT{flags: DimenContentMax}
	case "min-content":
		return DimenT{flags: DimenContentMin}
	case "fit-content":
		return DimenT{flags: DimenContentFit}
	}
	d, err := ParseDimen(string(p))
	if err != nil {
		return Dimen()
	}
	return d
}

var errDimenFormat = errors.New("format error parsing dimension")

// ParseDimen parses a string to return an optional dimension. Syntax is CSS Unit.
// Valid dimensions are
//
//	15px
//	80%
//	-33rem
//	0
//
// Unitless numbers other than zero are not valid lengths.
func ParseDimen(s string) (DimenT, error) {
	n, unit, ok := style.SplitNumber(style.Property(s))
	if !ok {
		return Dimen(), errDimenFormat
	}
	if u, ok := relUnitStringMap[unit]; ok {
		return DimenT{d: dimen.FromPixels(n), flags: u}, nil
	}
	if unit == "" && n != 0 {
		return Dimen(), errDimenFormat
	}
	px, ok := dimen.AbsoluteToPixels(n, unit)
	if !ok {
		return Dimen(), errDimenFormat
	}
	return SomeDimen(dimen.FromPixels(px)), nil
}

// --- Resolving relative units ----------------------------------------------

// UnitContext holds the sizes relative units refer to.
type UnitContext struct {
	FontSize       dimen.Dimen // font size of the element (em)
	RootFontSize   dimen.Dimen // font size of the root element (rem)
	ViewportWidth  dimen.Dimen
	ViewportHeight dimen.Dimen
}

// scaled multiplies base with a value stored in pixel scale.
func scaled(v, base dimen.Dimen) dimen.Dimen {
	return dimen.Dimen(int64(v) * int64(base) / int64(dimen.PX))
}

// Resolve converts font- and viewport-relative dimensions to absolute ones.
// Percentages, keywords and absolute dimensions are returned unchanged.
func (o DimenT) Resolve(ctx UnitContext) DimenT {
	switch o.flags & relativeMask {
	case dimenEM:
		return SomeDimen(scaled(o.d, ctx.FontSize))
	case dimenEX, dimenCH:
		return SomeDimen(scaled(o.d, ctx.FontSize) / 2)
	case dimenREM:
		return SomeDimen(scaled(o.d, ctx.RootFontSize))
	case dimenVW:
		return SomeDimen(scaled(o.d, ctx.ViewportWidth) / 100)
	case dimenVH:
		return SomeDimen(scaled(o.d, ctx.ViewportHeight) / 100)
	case dimenVMIN:
		return SomeDimen(scaled(o.d, dimen.Min(ctx.ViewportWidth, ctx.ViewportHeight)) / 100)
	case dimenVMAX:
		return SomeDimen(scaled(o.d, dimen.Max(ctx.ViewportWidth, ctx.ViewportHeight)) / 100)
	}
	return o
}

// ResolvePercent converts a percentage to an absolute dimension, relative
// to base. Other dimensions are returned unchanged.
func (o DimenT) ResolvePercent(base dimen.Dimen) DimenT {
	if !o.IsPercent() {
		return o
	}
	return SomeDimen(scaled(o.d, base) / 100)
}

// MaxDimen returns the greater of two dimensions. Unset and non-absolute
// dimensions lose against absolute ones.
func MaxDimen(d1, d2 DimenT) DimenT {
	if !d1.IsAbsolute() {
		if d2.IsAbsolute() || d1.IsNone() {
			return d2
		}
		return d1
	}
	if !d2.IsAbsolute() {
		return d1
	}
	return SomeDimen(dimen.Max(d1.d, d2.d))
}

// MinDimen returns the lesser of two dimensions. Unset and non-absolute
// dimensions lose against absolute ones.
func MinDimen(d1, d2 DimenT) DimenT {
	if !d1.IsAbsolute() {
		if d2.IsAbsolute() || d1.IsNone() {
			return d2
		}
		return d1
	}
	if !d2.IsAbsolute() {
		return d1
	}
	return SomeDimen(dimen.Min(d1.d, d2.d))
}
