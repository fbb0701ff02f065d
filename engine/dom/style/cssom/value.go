package cssom

import (
	"strings"

	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/strconv"
)

// ValueKind classifies a component of a declaration value.
type ValueKind uint8

// Kinds of value components.
const (
	KeywordValue ValueKind = iota
	StringValue
	NumberValue
	PercentageValue
	DimensionValue
	ColorValue
	URLValue
	FunctionValue
	CommaValue
	DelimValue
)

func (k ValueKind) String() string {
	switch k {
	case KeywordValue:
		return "keyword"
	case StringValue:
		return "string"
	case NumberValue:
		return "number"
	case PercentageValue:
		return "percentage"
	case DimensionValue:
		return "dimension"
	case ColorValue:
		return "color"
	case URLValue:
		return "url"
	case FunctionValue:
		return "function"
	case CommaValue:
		return "comma"
	}
	return "delim"
}

// Component is a single component of a declaration value. Numeric values
// carry their unit tag, e.g. Number=12, Unit="px" for `12px`.
type Component struct {
	Kind   ValueKind
	Text   string  // source text, for strings and urls the unquoted content
	Number float64 // numeric value of numbers, percentages and dimensions
	Unit   string  // lower case unit of dimensions, "%" for percentages
}

func (c Component) String() string {
	return c.Kind.String() + "(" + c.Text + ")"
}

// Declaration is a property declaration of a rule.
type Declaration struct {
	Property   string         // lower case property name
	Value      style.Property // normalized value text
	Important  bool           // declared with !important
	Components []Component    // value split into components
	Offset     int            // byte offset in the stylesheet source
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + string(d.Value) + " !important"
	}
	return d.Property + ": " + string(d.Value)
}

// components splits value tokens into components. Functions are kept as a
// single component, including their arguments.
func components(toks []token) []Component {
	var comps []Component
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.IdentToken:
			kind := KeywordValue
			if _, ok := style.ParseColor(style.Property(strings.ToLower(t.data))); ok {
				kind = ColorValue
			}
			comps = append(comps, Component{Kind: kind, Text: t.data})
		case css.StringToken:
			comps = append(comps, Component{Kind: StringValue, Text: unquote(t.data)})
		case css.NumberToken:
			n, _ := strconv.ParseFloat([]byte(t.data))
			comps = append(comps, Component{Kind: NumberValue, Text: t.data, Number: n})
		case css.PercentageToken:
			n, _ := strconv.ParseFloat([]byte(t.data))
			comps = append(comps, Component{Kind: PercentageValue, Text: t.data, Number: n, Unit: "%"})
		case css.DimensionToken:
			n, k := strconv.ParseFloat([]byte(t.data))
			comps = append(comps, Component{Kind: DimensionValue, Text: t.data, Number: n,
				Unit: strings.ToLower(t.data[k:])})
		case css.HashToken:
			comps = append(comps, Component{Kind: ColorValue, Text: t.data})
		case css.URLToken:
			comps = append(comps, Component{Kind: URLValue, Text: urlContent(t.data)})
		case css.FunctionToken:
			end := blockEnd(toks, i)
			if end >= len(toks) {
				end = len(toks) - 1
			}
			src := text(toks[i : end+1])
			name := strings.ToLower(strings.TrimSuffix(t.data, "("))
			switch name {
			case "rgb", "rgba", "hsl", "hsla":
				comps = append(comps, Component{Kind: ColorValue, Text: src})
			case "url":
				comps = append(comps, Component{Kind: URLValue, Text: urlContent(src)})
			default:
				comps = append(comps, Component{Kind: FunctionValue, Text: src})
			}
			i = end
		case css.CommaToken:
			comps = append(comps, Component{Kind: CommaValue, Text: ","})
		default:
			comps = append(comps, Component{Kind: DelimValue, Text: t.data})
		}
	}
	return comps
}

// urlContent extracts the reference from `url(…)`.
func urlContent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 4 && strings.EqualFold(s[:4], "url(") {
		s = strings.TrimSuffix(s[4:], ")")
	}
	return unquote(strings.TrimSpace(s))
}

// splitImportant strips a trailing `!important` from value tokens.
func splitImportant(toks []token) ([]token, bool) {
	toks = trimSpace(toks)
	n := len(toks)
	if n >= 2 && toks[n-1].is(css.IdentToken) && strings.EqualFold(toks[n-1].data, "important") {
		j := n - 2
		for j >= 0 && toks[j].isSpace() {
			j--
		}
		if j >= 0 && toks[j].isDelim("!") {
			return trimSpace(toks[:j]), true
		}
	}
	return toks, false
}
