package cssom

import (
	"fmt"
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	"github.com/tdewolff/parse/v2/css"
)

// Combinator relates a compound selector to the one on its left.
type Combinator uint8

// Combinators of complex selectors.
const (
	NoCombinator Combinator = iota // leftmost compound
	Descendant                     // A B
	Child                          // A > B
	Adjacent                       // A + B
	GeneralSibling                 // A ~ B
)

func (c Combinator) String() string {
	switch c {
	case Descendant:
		return " "
	case Child:
		return " > "
	case Adjacent:
		return " + "
	case GeneralSibling:
		return " ~ "
	}
	return ""
}

// AttrOp is an operator of an attribute selector.
type AttrOp uint8

// Attribute selector operators.
const (
	AttrExists    AttrOp = iota // [a]
	AttrEquals                  // [a=v]
	AttrIncludes                // [a~=v]
	AttrDashMatch               // [a|=v]
	AttrPrefix                  // [a^=v]
	AttrSuffix                  // [a$=v]
	AttrSubstring               // [a*=v]
)

var attrOpNames = [...]string{"", "=", "~=", "|=", "^=", "$=", "*="}

// AttrMatcher is an attribute selector.
type AttrMatcher struct {
	Name  string
	Op    AttrOp
	Value string
}

func (a AttrMatcher) String() string {
	if a.Op == AttrExists {
		return "[" + a.Name + "]"
	}
	return fmt.Sprintf("[%s%s%q]", a.Name, attrOpNames[a.Op], a.Value)
}

func (a AttrMatcher) match(doc *dom.Document, n dom.NodeID) bool {
	v, ok := doc.GetAttribute(n, a.Name)
	if !ok {
		return false
	}
	switch a.Op {
	case AttrExists:
		return true
	case AttrEquals:
		return v == a.Value
	case AttrIncludes:
		for _, w := range strings.Fields(v) {
			if w == a.Value {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return v == a.Value || strings.HasPrefix(v, a.Value+"-")
	case AttrPrefix:
		return a.Value != "" && strings.HasPrefix(v, a.Value)
	case AttrSuffix:
		return a.Value != "" && strings.HasSuffix(v, a.Value)
	case AttrSubstring:
		return a.Value != "" && strings.Contains(v, a.Value)
	}
	return false
}

// PseudoClass is a pseudo-class selector such as :first-child. For :not(),
// Not holds the negated compound.
type PseudoClass struct {
	Name string
	Not  *Compound
}

func (p PseudoClass) String() string {
	if p.Not != nil {
		return ":not(" + p.Not.String() + ")"
	}
	return ":" + p.Name
}

// Pseudo-classes which depend on user interaction never match statically.
var dynamicPseudoClasses = map[string]bool{
	"hover": true, "focus": true, "active": true, "visited": true,
	"focus-within": true, "focus-visible": true, "target": true,
}

var structuralPseudoClasses = map[string]bool{
	"first-child": true, "last-child": true, "only-child": true,
	"first-of-type": true, "last-of-type": true, "only-of-type": true,
	"root": true, "empty": true, "link": true,
	"checked": true, "disabled": true, "enabled": true,
}

// Legacy pseudo-elements may be written with a single colon.
var legacyPseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
}

func (p PseudoClass) match(doc *dom.Document, n dom.NodeID) bool {
	if p.Not != nil {
		return !p.Not.match(doc, n)
	}
	switch p.Name {
	case "first-child":
		return prevElement(doc, n, "") == dom.NoNode
	case "last-child":
		return nextElement(doc, n, "") == dom.NoNode
	case "only-child":
		return prevElement(doc, n, "") == dom.NoNode && nextElement(doc, n, "") == dom.NoNode
	case "first-of-type":
		return prevElement(doc, n, doc.TagName(n)) == dom.NoNode
	case "last-of-type":
		return nextElement(doc, n, doc.TagName(n)) == dom.NoNode
	case "only-of-type":
		tag := doc.TagName(n)
		return prevElement(doc, n, tag) == dom.NoNode && nextElement(doc, n, tag) == dom.NoNode
	case "root":
		return doc.NodeType(doc.Parent(n)) == dom.DocumentNode
	case "empty":
		for ch := doc.FirstChild(n); ch != dom.NoNode; ch = doc.NextSibling(ch) {
			switch doc.NodeType(ch) {
			case dom.ElementNode:
				return false
			case dom.TextNode:
				if doc.Data(ch) != "" {
					return false
				}
			}
		}
		return true
	case "link":
		tag := doc.TagName(n)
		return (tag == "a" || tag == "area") && doc.HasAttribute(n, "href")
	case "checked":
		return doc.HasAttribute(n, "checked") || doc.HasAttribute(n, "selected")
	case "disabled":
		return doc.HasAttribute(n, "disabled")
	case "enabled":
		return isFormControl(doc.TagName(n)) && !doc.HasAttribute(n, "disabled")
	}
	return false
}

func isFormControl(tag string) bool {
	switch tag {
	case "input", "button", "select", "textarea", "option", "optgroup", "fieldset":
		return true
	}
	return false
}

// prevElement finds the previous element sibling, optionally with a given tag.
func prevElement(doc *dom.Document, n dom.NodeID, tag string) dom.NodeID {
	for s := doc.PreviousSibling(n); s != dom.NoNode; s = doc.PreviousSibling(s) {
		if doc.IsElement(s) && (tag == "" || doc.TagName(s) == tag) {
			return s
		}
	}
	return dom.NoNode
}

// nextElement finds the next element sibling, optionally with a given tag.
func nextElement(doc *dom.Document, n dom.NodeID, tag string) dom.NodeID {
	for s := doc.NextSibling(n); s != dom.NoNode; s = doc.NextSibling(s) {
		if doc.IsElement(s) && (tag == "" || doc.TagName(s) == tag) {
			return s
		}
	}
	return dom.NoNode
}

// Compound is a sequence of simple selectors which all have to match the
// same element, e.g. `div.note#main[lang]:first-child`.
type Compound struct {
	Tag           string // lower case tag name, "" or "*" for any element
	ID            string
	Classes       []string
	Attrs         []AttrMatcher
	Pseudo        []PseudoClass
	PseudoElement string     // e.g. "before"; a compound with a pseudo-element never matches an element
	Combinator    Combinator // relation to the compound on the left
}

func (c *Compound) String() string {
	var b strings.Builder
	if c.Tag != "" {
		b.WriteString(c.Tag)
	}
	if c.ID != "" {
		b.WriteString("#" + c.ID)
	}
	for _, cl := range c.Classes {
		b.WriteString("." + cl)
	}
	for _, a := range c.Attrs {
		b.WriteString(a.String())
	}
	for _, p := range c.Pseudo {
		b.WriteString(p.String())
	}
	if c.PseudoElement != "" {
		b.WriteString("::" + c.PseudoElement)
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

func (c *Compound) isEmpty() bool {
	return c.Tag == "" && c.ID == "" && len(c.Classes) == 0 && len(c.Attrs) == 0 &&
		len(c.Pseudo) == 0 && c.PseudoElement == ""
}

func (c *Compound) specificity() Specificity {
	var s Specificity
	if c.ID != "" {
		s[0]++
	}
	s[1] += len(c.Classes) + len(c.Attrs)
	for _, p := range c.Pseudo {
		if p.Not != nil {
			s = s.Add(p.Not.specificity())
		} else {
			s[1]++
		}
	}
	if c.Tag != "" && c.Tag != "*" {
		s[2]++
	}
	if c.PseudoElement != "" {
		s[2]++
	}
	return s
}

func (c *Compound) match(doc *dom.Document, n dom.NodeID) bool {
	if !doc.IsElement(n) || c.PseudoElement != "" {
		return false
	}
	if c.Tag != "" && c.Tag != "*" && doc.TagName(n) != c.Tag {
		return false
	}
	if c.ID != "" {
		if id, _ := doc.GetAttribute(n, "id"); id != c.ID {
			return false
		}
	}
	if len(c.Classes) > 0 {
		classes := doc.Classes(n)
		for _, cl := range c.Classes {
			if !contains(classes, cl) {
				return false
			}
		}
	}
	for _, a := range c.Attrs {
		if !a.match(doc, n) {
			return false
		}
	}
	for _, p := range c.Pseudo {
		if !p.match(doc, n) {
			return false
		}
	}
	return true
}

func contains(l []string, s string) bool {
	for _, x := range l {
		if x == s {
			return true
		}
	}
	return false
}

// --- Specificity -----------------------------------------------------------

// Specificity is the weight of a selector: (ids, classes/attributes/pseudo-
// classes, types/pseudo-elements), compared lexicographically.
type Specificity [3]int

// Add returns the component-wise sum of two specificities.
func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{s[0] + o[0], s[1] + o[1], s[2] + o[2]}
}

// Compare returns -1, 0 or 1 if s is lower, equal or higher than o.
func (s Specificity) Compare(o Specificity) int {
	for i := 0; i < 3; i++ {
		if s[i] < o[i] {
			return -1
		} else if s[i] > o[i] {
			return 1
		}
	}
	return 0
}

// Less is true if s is lower than o.
func (s Specificity) Less(o Specificity) bool {
	return s.Compare(o) < 0
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s[0], s[1], s[2])
}

// --- Complex selectors -----------------------------------------------------

// Selector is a complex selector: compounds joined by combinators.
type Selector struct {
	Compounds []*Compound
}

func (sel *Selector) String() string {
	var b strings.Builder
	for _, c := range sel.Compounds {
		b.WriteString(c.Combinator.String())
		b.WriteString(c.String())
	}
	return b.String()
}

// Specificity returns the specificity of a selector.
func (sel *Selector) Specificity() Specificity {
	var s Specificity
	for _, c := range sel.Compounds {
		s = s.Add(c.specificity())
	}
	return s
}

// PseudoElement returns the pseudo-element the selector addresses, if any.
func (sel *Selector) PseudoElement() string {
	if len(sel.Compounds) == 0 {
		return ""
	}
	return sel.Compounds[len(sel.Compounds)-1].PseudoElement
}

// Match checks if a selector matches an element of a document.
func (sel *Selector) Match(doc *dom.Document, n dom.NodeID) bool {
	if len(sel.Compounds) == 0 {
		return false
	}
	return sel.matchAt(doc, n, len(sel.Compounds)-1)
}

// matchAt matches compounds[0…i] right to left, with compounds[i]
// matched against n.
func (sel *Selector) matchAt(doc *dom.Document, n dom.NodeID, i int) bool {
	c := sel.Compounds[i]
	if !c.match(doc, n) {
		return false
	}
	if i == 0 {
		return true
	}
	switch c.Combinator {
	case Child:
		p := doc.Parent(n)
		return doc.IsElement(p) && sel.matchAt(doc, p, i-1)
	case Descendant:
		for p := doc.Parent(n); doc.IsElement(p); p = doc.Parent(p) {
			if sel.matchAt(doc, p, i-1) {
				return true
			}
		}
	case Adjacent:
		s := prevElement(doc, n, "")
		return s != dom.NoNode && sel.matchAt(doc, s, i-1)
	case GeneralSibling:
		for s := prevElement(doc, n, ""); s != dom.NoNode; s = prevElement(doc, s, "") {
			if sel.matchAt(doc, s, i-1) {
				return true
			}
		}
	}
	return false
}

// --- Parsing selectors -----------------------------------------------------

// ParseSelectorList parses a comma separated list of selectors. If any
// selector of the list is invalid, the whole list is invalid.
func ParseSelectorList(s string) ([]*Selector, error) {
	return parseSelectorList(tokenize(s))
}

func parseSelectorList(toks []token) ([]*Selector, error) {
	var list []*Selector
	for _, part := range splitTopLevel(toks, css.CommaToken) {
		sel, err := parseSelector(trimSpace(part))
		if err != nil {
			return nil, err
		}
		list = append(list, sel)
	}
	return list, nil
}

func parseSelector(toks []token) (*Selector, error) {
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	sel := &Selector{}
	comb := NoCombinator
	i := 0
	for i < len(toks) {
		// combinator
		space := false
		for i < len(toks) && toks[i].isSpace() {
			space = true
			i++
		}
		if i >= len(toks) {
			break
		}
		if len(sel.Compounds) > 0 {
			comb = Descendant
			if !space {
				comb = NoCombinator
			}
			if c, ok := combinatorOf(toks[i]); ok {
				comb = c
				i++
				for i < len(toks) && toks[i].isSpace() {
					i++
				}
			}
			if comb == NoCombinator {
				return nil, fmt.Errorf("unexpected %q in selector", toks[i].data)
			}
		}
		c, next, err := parseCompound(toks, i)
		if err != nil {
			return nil, err
		}
		if len(sel.Compounds) > 0 && sel.Compounds[len(sel.Compounds)-1].PseudoElement != "" {
			return nil, fmt.Errorf("pseudo-element must be last in selector")
		}
		c.Combinator = comb
		sel.Compounds = append(sel.Compounds, c)
		i = next
	}
	if len(sel.Compounds) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	return sel, nil
}

func combinatorOf(t token) (Combinator, bool) {
	if t.tt != css.DelimToken {
		return NoCombinator, false
	}
	switch t.data {
	case ">":
		return Child, true
	case "+":
		return Adjacent, true
	case "~":
		return GeneralSibling, true
	}
	return NoCombinator, false
}

// parseCompound parses simple selectors starting at toks[i] until whitespace,
// a combinator or the end of input. It returns the index after the compound.
func parseCompound(toks []token, i int) (*Compound, int, error) {
	c := &Compound{}
	start := i
	for i < len(toks) {
		t := toks[i]
		switch {
		case t.is(css.IdentToken) && i == start:
			c.Tag = strings.ToLower(t.data)
		case t.isDelim("*") && i == start:
			c.Tag = "*"
		case t.is(css.HashToken):
			c.ID = t.data[1:]
		case t.isDelim("."):
			if i+1 >= len(toks) || !toks[i+1].is(css.IdentToken) {
				return nil, i, fmt.Errorf("class name expected after '.'")
			}
			i++
			c.Classes = append(c.Classes, toks[i].data)
		case t.is(css.LeftBracketToken):
			end := blockEnd(toks, i)
			if end >= len(toks) {
				return nil, i, fmt.Errorf("unterminated attribute selector")
			}
			a, err := parseAttrMatcher(trimSpace(toks[i+1 : end]))
			if err != nil {
				return nil, i, err
			}
			c.Attrs = append(c.Attrs, a)
			i = end
		case t.is(css.ColonToken):
			next, err := parsePseudo(c, toks, i)
			if err != nil {
				return nil, i, err
			}
			i = next
		default:
			if i == start {
				return nil, i, fmt.Errorf("unexpected %q in selector", t.data)
			}
			return c, i, nil
		}
		i++
		if i < len(toks) && (toks[i].isSpace() || isCombinator(toks[i])) {
			break
		}
	}
	if c.isEmpty() {
		return nil, i, fmt.Errorf("selector expected")
	}
	return c, i, nil
}

func isCombinator(t token) bool {
	_, ok := combinatorOf(t)
	return ok
}

func parseAttrMatcher(toks []token) (AttrMatcher, error) {
	var a AttrMatcher
	if len(toks) == 0 || !toks[0].is(css.IdentToken) {
		return a, fmt.Errorf("attribute name expected")
	}
	a.Name = strings.ToLower(toks[0].data)
	rest := trimSpace(toks[1:])
	if len(rest) == 0 {
		return a, nil
	}
	switch {
	case rest[0].isDelim("="):
		a.Op = AttrEquals
	case rest[0].is(css.IncludeMatchToken):
		a.Op = AttrIncludes
	case rest[0].is(css.DashMatchToken):
		a.Op = AttrDashMatch
	case rest[0].is(css.PrefixMatchToken):
		a.Op = AttrPrefix
	case rest[0].is(css.SuffixMatchToken):
		a.Op = AttrSuffix
	case rest[0].is(css.SubstringMatchToken):
		a.Op = AttrSubstring
	default:
		return a, fmt.Errorf("invalid attribute operator %q", rest[0].data)
	}
	rest = trimSpace(rest[1:])
	// an optional case flag `i` or `s` may follow the value
	if len(rest) == 3 && rest[1].isSpace() && rest[2].is(css.IdentToken) {
		rest = rest[:1]
	}
	if len(rest) != 1 {
		return a, fmt.Errorf("invalid attribute value")
	}
	switch rest[0].tt {
	case css.IdentToken:
		a.Value = rest[0].data
	case css.StringToken:
		a.Value = unquote(rest[0].data)
	case css.NumberToken:
		a.Value = rest[0].data
	default:
		return a, fmt.Errorf("invalid attribute value %q", rest[0].data)
	}
	return a, nil
}

// parsePseudo parses a pseudo-class or pseudo-element starting with the
// colon at toks[i]. It returns the index of the last token consumed.
func parsePseudo(c *Compound, toks []token, i int) (int, error) {
	element := false
	if i+1 < len(toks) && toks[i+1].is(css.ColonToken) {
		element = true
		i++
	}
	if i+1 >= len(toks) {
		return i, fmt.Errorf("pseudo-class name expected")
	}
	i++
	t := toks[i]
	switch t.tt {
	case css.IdentToken:
		name := strings.ToLower(t.data)
		if element || legacyPseudoElements[name] {
			c.PseudoElement = name
			return i, nil
		}
		if !dynamicPseudoClasses[name] && !structuralPseudoClasses[name] {
			return i, fmt.Errorf("unsupported pseudo-class :%s", name)
		}
		c.Pseudo = append(c.Pseudo, PseudoClass{Name: name})
		return i, nil
	case css.FunctionToken:
		name := strings.ToLower(strings.TrimSuffix(t.data, "("))
		end := blockEnd(toks, i)
		if end >= len(toks) {
			return i, fmt.Errorf("unterminated :%s()", name)
		}
		if name != "not" || element {
			return i, fmt.Errorf("unsupported pseudo-class :%s()", name)
		}
		arg := trimSpace(toks[i+1 : end])
		inner, next, err := parseCompound(arg, 0)
		if err != nil {
			return i, err
		}
		if next != len(arg) || inner.PseudoElement != "" {
			return i, fmt.Errorf(":not() takes a simple selector")
		}
		c.Pseudo = append(c.Pseudo, PseudoClass{Name: name, Not: inner})
		return end, nil
	}
	return i, fmt.Errorf("unexpected %q after ':'", t.data)
}

// unquote removes the quotes from a CSS string token and resolves simple
// escapes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
		q := s[0]
		s = s[1:]
		if s[len(s)-1] == q {
			s = s[:len(s)-1]
		}
	}
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			if s[i] == '\n' {
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
