package style

import (
	"fmt"
	"strings"
)

// SplitValues splits a property value into its space separated components.
// Parenthesized parts, like "rgb(1, 2, 3)", and quoted strings stay together.
func SplitValues(p Property) []string {
	var parts []string
	var quote byte
	depth, start := 0, -1
	s := string(p)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if start < 0 && !isSpace(c) {
			start = i
		}
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case isSpace(c) && depth == 0 && start >= 0:
			parts = append(parts, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		parts = append(parts, s[start:])
	}
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// IsShorthand is true for the shorthand properties which ExpandShorthand
// knows how to split.
func IsShorthand(key string) bool {
	switch key {
	case "margin", "padding", "border", "border-width", "border-style", "border-color",
		"border-top", "border-right", "border-bottom", "border-left", "border-radius",
		"flex", "flex-flow", "background", "gap", "list-style", "overflow-x", "overflow-y":
		return true
	}
	return false
}

var sides = [4]string{"top", "right", "bottom", "left"}

// ExpandShorthand splits up a shorthand property into its individual
// components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//
//	padding: 10px 20px   ⇒   padding-top: 10px, padding-right: 20px,
//	                         padding-bottom: 10px, padding-left: 20px
//
// Global keywords (inherit, initial, unset) are copied to every longhand.
// If key is not a shorthand or value is malformed, false is returned.
func ExpandShorthand(key string, value Property) ([]KeyValue, bool) {
	if !IsShorthand(key) {
		return nil, false
	}
	if value.IsGlobalKeyword() {
		keys := longhands(key)
		kv := make([]KeyValue, len(keys))
		for i, k := range keys {
			kv[i] = KeyValue{k, value}
		}
		return kv, true
	}
	parts := SplitValues(value)
	if len(parts) == 0 {
		return nil, false
	}
	switch key {
	case "margin", "padding":
		return fourSides(key+"-%s", parts)
	case "border-width", "border-style", "border-color":
		return fourSides("border-%s-"+strings.TrimPrefix(key, "border-"), parts)
	case "border-radius":
		if len(parts) > 4 {
			return nil, false
		}
		corners := []string{"top-left", "top-right", "bottom-right", "bottom-left"}
		v := fourValues(parts)
		kv := make([]KeyValue, 4)
		for i, c := range corners {
			kv[i] = KeyValue{"border-" + c + "-radius", Property(v[i])}
		}
		return kv, true
	case "border":
		var kv []KeyValue
		for _, side := range sides {
			s, ok := borderSide("border-"+side, parts)
			if !ok {
				return nil, false
			}
			kv = append(kv, s...)
		}
		return kv, true
	case "border-top", "border-right", "border-bottom", "border-left":
		return borderSide(key, parts)
	case "flex":
		return expandFlex(parts)
	case "flex-flow":
		return expandFlexFlow(parts)
	case "background":
		return expandBackground(parts)
	case "gap":
		if len(parts) > 2 {
			return nil, false
		}
		col := parts[0]
		if len(parts) == 2 {
			col = parts[1]
		}
		return []KeyValue{{"row-gap", Property(parts[0])}, {"column-gap", Property(col)}}, true
	case "list-style":
		for _, p := range parts {
			if p == "inside" || p == "outside" {
				continue
			}
			return []KeyValue{{"list-style-type", Property(p)}}, true
		}
		return nil, false
	case "overflow-x", "overflow-y":
		return []KeyValue{{"overflow", value}}, true
	}
	return nil, false
}

func longhands(key string) []string {
	switch key {
	case "margin", "padding":
		return []string{key + "-top", key + "-right", key + "-bottom", key + "-left"}
	case "border-width", "border-style", "border-color":
		attr := strings.TrimPrefix(key, "border-")
		return []string{"border-top-" + attr, "border-right-" + attr,
			"border-bottom-" + attr, "border-left-" + attr}
	case "border-radius":
		return []string{"border-top-left-radius", "border-top-right-radius",
			"border-bottom-right-radius", "border-bottom-left-radius"}
	case "border":
		var keys []string
		for _, side := range sides {
			keys = append(keys, longhands("border-"+side)...)
		}
		return keys
	case "border-top", "border-right", "border-bottom", "border-left":
		return []string{key + "-width", key + "-style", key + "-color"}
	case "flex":
		return []string{"flex-grow", "flex-shrink", "flex-basis"}
	case "flex-flow":
		return []string{"flex-direction", "flex-wrap"}
	case "background":
		return []string{"background-color"}
	case "gap":
		return []string{"row-gap", "column-gap"}
	case "list-style":
		return []string{"list-style-type", "list-style-position"}
	case "overflow-x", "overflow-y":
		return []string{"overflow"}
	}
	return nil
}

// fourValues distributes 1–4 values to top, right, bottom, left.
func fourValues(parts []string) [4]string {
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}
	}
	return [4]string{parts[0], parts[1], parts[2], parts[3]}
}

func fourSides(pattern string, parts []string) ([]KeyValue, bool) {
	if len(parts) > 4 {
		return nil, false
	}
	v := fourValues(parts)
	kv := make([]KeyValue, 4)
	for i, side := range sides {
		kv[i] = KeyValue{fmt.Sprintf(pattern, side), Property(v[i])}
	}
	return kv, true
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// IsBorderStyle is true for valid values of border-*-style.
func IsBorderStyle(s string) bool {
	return borderStyles[s]
}

func isBorderWidth(s string) bool {
	return s == "thin" || s == "medium" || s == "thick" || IsLength(Property(s))
}

// borderSide expands "border-top: 1px solid red" and friends. Missing
// components are reset to their initial values.
func borderSide(key string, parts []string) ([]KeyValue, bool) {
	width, style, color := InitialValue(key+"-width"), InitialValue(key+"-style"),
		InitialValue(key+"-color")
	var seenW, seenS, seenC bool
	for _, p := range parts {
		switch {
		case !seenS && IsBorderStyle(p):
			style, seenS = Property(p), true
		case !seenW && isBorderWidth(p):
			width, seenW = Property(p), true
		case !seenC && (IsColor(Property(p)) || p == "currentcolor"):
			color, seenC = Property(p), true
		default:
			return nil, false
		}
	}
	return []KeyValue{
		{key + "-width", width},
		{key + "-style", style},
		{key + "-color", color},
	}, true
}

// expandFlex implements the flex shorthand:
//
//	flex: none      ⇒  0 0 auto
//	flex: auto      ⇒  1 1 auto
//	flex: <grow>    ⇒  <grow> 1 0%
//	flex: <basis>   ⇒  1 1 <basis>
//	flex: <grow> <shrink>? <basis>?
func expandFlex(parts []string) ([]KeyValue, bool) {
	grow, shrink, basis := "0", "1", "auto"
	if len(parts) == 1 {
		switch p := parts[0]; {
		case p == "none":
			grow, shrink, basis = "0", "0", "auto"
		case p == "auto":
			grow, shrink, basis = "1", "1", "auto"
		case IsNumber(Property(p)):
			grow, shrink, basis = p, "1", "0%"
		case IsLength(Property(p)) || IsPercentage(Property(p)) || p == "content":
			grow, shrink, basis = "1", "1", p
		default:
			return nil, false
		}
	} else if len(parts) <= 3 {
		if !IsNumber(Property(parts[0])) {
			return nil, false
		}
		grow, basis = parts[0], "0%"
		rest := parts[1:]
		if IsNumber(Property(rest[0])) {
			shrink = rest[0]
			rest = rest[1:]
		}
		if len(rest) == 1 {
			b := rest[0]
			if !IsLength(Property(b)) && !IsPercentage(Property(b)) && b != "auto" && b != "content" {
				return nil, false
			}
			basis = b
		} else if len(rest) > 1 {
			return nil, false
		}
	} else {
		return nil, false
	}
	return []KeyValue{
		{"flex-grow", Property(grow)},
		{"flex-shrink", Property(shrink)},
		{"flex-basis", Property(basis)},
	}, true
}

func expandFlexFlow(parts []string) ([]KeyValue, bool) {
	dir, wrap := InitialValue("flex-direction"), InitialValue("flex-wrap")
	for _, p := range parts {
		switch p {
		case "row", "row-reverse", "column", "column-reverse":
			dir = Property(p)
		case "nowrap", "wrap", "wrap-reverse":
			wrap = Property(p)
		default:
			return nil, false
		}
	}
	return []KeyValue{{"flex-direction", dir}, {"flex-wrap", wrap}}, true
}

// expandBackground keeps the color component of a background shorthand only.
func expandBackground(parts []string) ([]KeyValue, bool) {
	color := InitialValue("background-color")
	for _, p := range parts {
		if IsColor(Property(p)) || p == "currentcolor" {
			color = Property(p)
		}
	}
	return []KeyValue{{"background-color", color}}, true
}
