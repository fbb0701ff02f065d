package cssom

import (
	"strings"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
)

// Matches evaluates a media query list, e.g.
//
//	screen and (min-width: 600px), print
//
// Media types `all` and `screen` apply to a screen device; supported
// features are width, height and orientation, with min-/max- prefixes.
// Queries with unknown features do not match.
func (m Media) Matches(query string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	for _, q := range strings.Split(query, ",") {
		if m.matchQuery(strings.TrimSpace(q)) {
			return true
		}
	}
	return false
}

func (m Media) matchQuery(q string) bool {
	q = strings.NewReplacer("(", " ( ", ")", " ) ").Replace(q)
	words := strings.Fields(q)
	negate := false
	if len(words) > 0 && (words[0] == "not" || words[0] == "only") {
		negate = words[0] == "not"
		words = words[1:]
	}
	if len(words) == 0 {
		return false
	}
	result := true
	expectType := true
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case w == "and":
			expectType = false
		case w == "(":
			j := i + 1
			for j < len(words) && words[j] != ")" {
				j++
			}
			if j >= len(words) {
				return false
			}
			result = result && m.matchFeature(strings.Join(words[i+1:j], ""))
			i = j
			expectType = false
		case expectType:
			result = result && m.matchType(w)
			expectType = false
		default:
			return false
		}
	}
	if negate {
		return !result
	}
	return result
}

func (m Media) matchType(t string) bool {
	typ := m.Type
	if typ == "" {
		typ = "screen"
	}
	return t == "all" || t == typ
}

// matchFeature evaluates a feature expression like `min-width:600px`.
func (m Media) matchFeature(f string) bool {
	name, value, ok := strings.Cut(f, ":")
	if !ok {
		// boolean context: feature is true if non-zero
		switch name {
		case "width":
			return m.ViewportWidth > 0
		case "height":
			return m.ViewportHeight > 0
		case "color":
			return true
		}
		return false
	}
	if name == "orientation" {
		if m.ViewportHeight >= m.ViewportWidth {
			return value == "portrait"
		}
		return value == "landscape"
	}
	prefix := ""
	if strings.HasPrefix(name, "min-") || strings.HasPrefix(name, "max-") {
		prefix, name = name[:3], name[4:]
	}
	var actual dimen.Dimen
	switch name {
	case "width":
		actual = m.ViewportWidth
	case "height":
		actual = m.ViewportHeight
	default:
		return false
	}
	d, ok := mediaLength(value)
	if !ok {
		return false
	}
	switch prefix {
	case "min":
		return actual >= d
	case "max":
		return actual <= d
	}
	return actual == d
}

// mediaLength converts a length of a media feature. Relative units refer
// to the initial font size of 16px.
func mediaLength(s string) (dimen.Dimen, bool) {
	n, unit, ok := style.SplitNumber(style.Property(s))
	if !ok {
		return 0, false
	}
	switch unit {
	case "em", "rem":
		return dimen.FromPixels(n * 16), true
	case "":
		if n != 0 {
			return 0, false
		}
	}
	px, ok := dimen.AbsoluteToPixels(n, unit)
	if !ok {
		return 0, false
	}
	return dimen.FromPixels(px), true
}
