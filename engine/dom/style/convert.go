package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var lengthUnits = map[string]bool{
	"px": true, "pt": true, "pc": true, "in": true, "cm": true, "mm": true, "q": true,
	"em": true, "rem": true, "ex": true, "ch": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true,
}

// IsLengthUnit is true for CSS length units.
func IsLengthUnit(unit string) bool {
	return lengthUnits[strings.ToLower(unit)]
}

// SplitNumber splits a numeric value into number and unit, e.g.
// "12.5px" → (12.5, "px"). The unit of a percentage is "%".
func SplitNumber(p Property) (float64, string, bool) {
	s := string(p)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
		digits = true
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') && i+1 < len(s) &&
		(s[i+1] >= '0' && s[i+1] <= '9' || s[i+1] == '-' || s[i+1] == '+') {
		i += 2
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if !digits {
		return 0, "", false
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return n, strings.ToLower(s[i:]), true
}

// IsNumber is true for unitless numbers.
func IsNumber(p Property) bool {
	_, unit, ok := SplitNumber(p)
	return ok && unit == ""
}

// IsPercentage is true for percentages.
func IsPercentage(p Property) bool {
	_, unit, ok := SplitNumber(p)
	return ok && unit == "%"
}

// IsLength is true for lengths, including unitless zero.
func IsLength(p Property) bool {
	n, unit, ok := SplitNumber(p)
	if !ok {
		return false
	}
	return lengthUnits[unit] || (unit == "" && n == 0)
}

// IsColor is true if p denotes a color, without currentcolor.
func IsColor(p Property) bool {
	_, ok := ParseColor(p)
	return ok
}

// Color returns the color of a property value, or nil if p is not a color.
func (p Property) Color() color.Color {
	if c, ok := ParseColor(p); ok {
		return c
	}
	return nil
}

// ParseColor parses a CSS color: a named color, transparent, a hex color of
// 3, 4, 6 or 8 digits, or rgb()/rgba() with numbers or percentages.
func ParseColor(p Property) (color.RGBA, bool) {
	s := strings.ToLower(strings.TrimSpace(string(p)))
	if s == "" {
		return color.RGBA{}, false
	}
	if s == "transparent" {
		return color.RGBA{}, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunction(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	return color.RGBA{}, false
}

func parseHexColor(hex string) (color.RGBA, bool) {
	for _, c := range hex {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return color.RGBA{}, false
		}
	}
	digit := func(i int) uint8 {
		v, _ := strconv.ParseUint(hex[i:i+1], 16, 8)
		return uint8(v)
	}
	byteAt := func(i int) uint8 {
		v, _ := strconv.ParseUint(hex[i:i+2], 16, 8)
		return uint8(v)
	}
	switch len(hex) {
	case 3, 4:
		c := color.RGBA{digit(0) * 17, digit(1) * 17, digit(2) * 17, 0xff}
		if len(hex) == 4 {
			c.A = digit(3) * 17
		}
		return c, true
	case 6, 8:
		c := color.RGBA{byteAt(0), byteAt(2), byteAt(4), 0xff}
		if len(hex) == 8 {
			c.A = byteAt(6)
		}
		return c, true
	}
	return color.RGBA{}, false
}

func parseRGBFunction(s string) (color.RGBA, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if end < open {
		return color.RGBA{}, false
	}
	args := strings.FieldsFunc(s[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
	if len(args) != 3 && len(args) != 4 {
		return color.RGBA{}, false
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i, a := range args {
		n, unit, ok := SplitNumber(Property(a))
		if !ok || (unit != "" && unit != "%") {
			return color.RGBA{}, false
		}
		if i == 3 {
			if unit == "%" {
				n /= 100
			}
			ch[3] = uint8(math.Round(clamp(n, 0, 1) * 255))
			continue
		}
		if unit == "%" {
			n = n * 255 / 100
		}
		ch[i] = uint8(math.Round(clamp(n, 0, 255)))
	}
	// image/color uses alpha-premultiplied values
	a := uint16(ch[3])
	return color.RGBA{
		R: uint8(uint16(ch[0]) * a / 255),
		G: uint8(uint16(ch[1]) * a / 255),
		B: uint8(uint16(ch[2]) * a / 255),
		A: ch[3],
	}, true
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// FormatColor creates the canonical computed value for a color:
// #rrggbb for opaque colors, rgba(…) otherwise.
func FormatColor(c color.RGBA) Property {
	if c.A == 0xff {
		return Property(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	if c.A == 0 {
		return "transparent"
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Property(fmt.Sprintf("rgba(%d, %d, %d, %.3g)", nc.R, nc.G, nc.B, float64(nc.A)/255))
}
