package styledtree

import (
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/css"
	"github.com/npillmayer/webcore/engine/dom/style/cssom"
)

// Origin is the origin of a stylesheet.
type Origin uint8

// Stylesheet origins, in ascending precedence for normal declarations.
const (
	UserAgent Origin = iota
	Author
)

func (o Origin) String() string {
	if o == UserAgent {
		return "user-agent"
	}
	return "author"
}

// Sheet pairs a stylesheet with its origin.
type Sheet struct {
	Origin Origin
	Sheet  *cssom.StyleSheet
}

// declaration is a longhand declaration, ready for the cascade.
type declaration struct {
	key       string
	value     style.Property
	important bool
}

// entry is a single selector of a rule, with the rule's declarations.
type entry struct {
	sel    *cssom.Selector
	spec   cssom.Specificity
	origin Origin
	order  int // source order across all sheets of a rule set
	decls  []declaration
}

// RuleSet is an immutable, ordered set of style rules. Rules are indexed by
// the rightmost compound of their selectors.
type RuleSet struct {
	entries   []*entry
	byID      map[string][]*entry
	byClass   map[string][]*entry
	byTag     map[string][]*entry
	universal []*entry
	ignored   int // declarations dropped as unsupported
}

// NewRuleSet creates a rule set from stylesheets, given in source order.
func NewRuleSet(sheets ...Sheet) *RuleSet {
	rs := &RuleSet{
		byID:    make(map[string][]*entry),
		byClass: make(map[string][]*entry),
		byTag:   make(map[string][]*entry),
	}
	order := 0
	for _, sh := range sheets {
		if sh.Sheet == nil {
			continue
		}
		for _, r := range sh.Sheet.Rules {
			decls := rs.longhands(r.Declarations)
			if len(decls) == 0 {
				order++
				continue
			}
			for _, sel := range r.Selectors {
				if sel.PseudoElement() != "" {
					continue
				}
				e := &entry{sel: sel, spec: sel.Specificity(), origin: sh.Origin, order: order, decls: decls}
				rs.add(e)
			}
			order++
		}
	}
	tracer().Debugf("rule set with %d selectors, %d declarations ignored", len(rs.entries), rs.ignored)
	return rs
}

// DefaultRuleSet creates a rule set from the user-agent stylesheet and
// author stylesheets.
func DefaultRuleSet(author ...*cssom.StyleSheet) *RuleSet {
	sheets := make([]Sheet, 0, len(author)+1)
	sheets = append(sheets, Sheet{Origin: UserAgent, Sheet: UserAgentStyleSheet()})
	for _, a := range author {
		sheets = append(sheets, Sheet{Origin: Author, Sheet: a})
	}
	return NewRuleSet(sheets...)
}

// Len returns the number of selectors in the rule set.
func (rs *RuleSet) Len() int {
	return len(rs.entries)
}

// Ignored returns the number of declarations dropped because of an unknown
// property or an unsupported value.
func (rs *RuleSet) Ignored() int {
	return rs.ignored
}

func (rs *RuleSet) add(e *entry) {
	rs.entries = append(rs.entries, e)
	last := e.sel.Compounds[len(e.sel.Compounds)-1]
	switch {
	case last.ID != "":
		rs.byID[last.ID] = append(rs.byID[last.ID], e)
	case len(last.Classes) > 0:
		rs.byClass[last.Classes[0]] = append(rs.byClass[last.Classes[0]], e)
	case last.Tag != "" && last.Tag != "*":
		rs.byTag[last.Tag] = append(rs.byTag[last.Tag], e)
	default:
		rs.universal = append(rs.universal, e)
	}
}

// candidates returns the entries which may match element n.
func (rs *RuleSet) candidates(doc *dom.Document, n dom.NodeID) []*entry {
	var c []*entry
	if id, ok := doc.GetAttribute(n, "id"); ok && id != "" {
		c = append(c, rs.byID[id]...)
	}
	seen := map[string]bool{}
	for _, cl := range doc.Classes(n) {
		if !seen[cl] {
			seen[cl] = true
			c = append(c, rs.byClass[cl]...)
		}
	}
	c = append(c, rs.byTag[doc.TagName(n)]...)
	return append(c, rs.universal...)
}

// longhands converts parsed declarations to longhand declarations,
// dropping unknown properties and unsupported values.
func (rs *RuleSet) longhands(decls []cssom.Declaration) []declaration {
	var result []declaration
	for _, d := range decls {
		for _, kv := range expand(d.Property, d.Value) {
			if !style.IsKnown(kv.Key) || !IsValidValue(kv.Key, kv.Value) {
				tracer().Debugf("ignoring unsupported declaration %s: %s", kv.Key, kv.Value)
				rs.ignored++
				continue
			}
			result = append(result, declaration{key: kv.Key, value: kv.Value, important: d.Important})
		}
	}
	return result
}

// expand expands shorthands. Non-shorthands are returned as they are, as
// are malformed shorthands, which will then fail validation.
func expand(key string, value style.Property) []style.KeyValue {
	if style.IsShorthand(key) {
		if kv, ok := style.ExpandShorthand(key, value); ok {
			return kv
		}
	}
	return []style.KeyValue{{Key: key, Value: value}}
}

// --- Value validation ------------------------------------------------------

var fontSizeKeywords = map[style.Property]float64{
	"xx-small": 9.0 / 16, "x-small": 10.0 / 16, "small": 13.0 / 16, "medium": 1,
	"large": 18.0 / 16, "x-large": 24.0 / 16, "xx-large": 32.0 / 16, "xxx-large": 48.0 / 16,
}

func isLengthProperty(key string) bool {
	switch style.GroupNameFromPropertyKey(key) {
	case style.PGMargins, style.PGPadding:
		return true
	case style.PGDimension:
		return key != "box-sizing"
	}
	switch key {
	case "top", "right", "bottom", "left", "text-indent", "flex-basis", "row-gap", "column-gap",
		"border-top-left-radius", "border-top-right-radius",
		"border-bottom-left-radius", "border-bottom-right-radius":
		return true
	}
	return false
}

func isColorProperty(key string) bool {
	return key == "color" || key == "background-color" || strings.HasSuffix(key, "-color")
}

// IsValidValue checks if a value is supported for a longhand property.
// Properties without specific checks accept any keyword value.
func IsValidValue(key string, v style.Property) bool {
	if v.IsEmpty() {
		return false
	}
	if v.IsGlobalKeyword() {
		return true
	}
	switch {
	case isLengthProperty(key):
		if key == "flex-basis" && v == "content" {
			return true
		}
		if (key == "row-gap" || key == "column-gap") && v == "normal" {
			return true
		}
		d := css.DimenOption(v)
		return !d.IsNone()
	case isColorProperty(key):
		return v == "currentcolor" || style.IsColor(v)
	case strings.HasSuffix(key, "-width") && strings.HasPrefix(key, "border-"):
		return v == "thin" || v == "medium" || v == "thick" || style.IsLength(v)
	case strings.HasSuffix(key, "-style") && strings.HasPrefix(key, "border-"):
		return style.IsBorderStyle(string(v))
	}
	switch key {
	case "display":
		_, err := css.ParseDisplay(string(v))
		return err == nil
	case "font-size":
		if _, ok := fontSizeKeywords[v]; ok || v == "smaller" || v == "larger" {
			return true
		}
		d := css.DimenOption(v)
		return d.IsAbsolute() || d.IsRelative()
	case "line-height":
		return v == "normal" || style.IsNumber(v) || css.DimenOption(v).IsAbsolute() ||
			css.DimenOption(v).IsRelative()
	case "flex-grow", "flex-shrink", "opacity":
		n, unit, ok := style.SplitNumber(v)
		return ok && unit == "" && n >= 0
	case "order":
		return style.IsNumber(v)
	case "z-index":
		return v == "auto" || style.IsNumber(v)
	case "position":
		return v == "static" || v == "relative" || v == "absolute" || v == "fixed" || v == "sticky"
	case "visibility":
		return v == "visible" || v == "hidden" || v == "collapse"
	case "box-sizing":
		return v == "content-box" || v == "border-box"
	case "white-space":
		switch v {
		case "normal", "nowrap", "pre", "pre-wrap", "pre-line", "break-spaces":
			return true
		}
		return false
	}
	return true
}
