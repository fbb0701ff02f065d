package cssom

import (
	"context"
	"fmt"
	"strings"

	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/config"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/tdewolff/parse/v2/css"
)

// ParseError is a diagnostic for a malformed part of a stylesheet. The
// offending declaration or rule has been dropped.
type ParseError struct {
	Offset int // byte offset in the stylesheet source
	Msg    string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("css:%d: %s", e.Offset, e.Msg)
}

// DefaultMaxErrors is the number of parse errors kept per stylesheet if not
// configured otherwise.
const DefaultMaxErrors = 100

// Rule is a style rule: a selector list with a block of declarations.
type Rule struct {
	Selectors    []*Selector
	Declarations []Declaration
	Media        string // condition of an enclosing @media block, or ""
	Order        int    // position in the stylesheet, counting from 0
}

// SelectorText returns the selector list as CSS source.
func (r *Rule) SelectorText() string {
	s := make([]string, len(r.Selectors))
	for i, sel := range r.Selectors {
		s[i] = sel.String()
	}
	return strings.Join(s, ", ")
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.SelectorText())
	b.WriteString(" {")
	for i, d := range r.Declarations {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte(' ')
		b.WriteString(d.String())
	}
	b.WriteString(" }")
	return b.String()
}

// Import is a stylesheet referenced by @import. The core does not fetch it.
type Import struct {
	Href  string
	Media string
}

// StyleSheet is a parsed stylesheet.
type StyleSheet struct {
	Rules         []*Rule
	Imports       []Import
	Errors        []ParseError
	DroppedErrors int // parse errors beyond the configured maximum
}

// Empty checks if this stylesheet contains any rules.
func (sheet *StyleSheet) Empty() bool {
	return sheet == nil || len(sheet.Rules) == 0
}

// AppendRules appends the rules of another stylesheet, continuing the
// source order of sheet.
func (sheet *StyleSheet) AppendRules(other *StyleSheet) {
	if other == nil {
		return
	}
	for _, r := range other.Rules {
		rule := *r
		rule.Order = len(sheet.Rules)
		sheet.Rules = append(sheet.Rules, &rule)
	}
}

// Media describes the output device @media conditions are evaluated against.
type Media struct {
	Type           string      // media type, "screen" if empty
	ViewportWidth  dimen.Dimen // used for width conditions
	ViewportHeight dimen.Dimen // used for height conditions
}

// Option configures parsing.
type Option func(*parser)

// WithMedia sets the device @media conditions are evaluated against.
func WithMedia(m Media) Option {
	return func(p *parser) {
		p.media = m
	}
}

// MaxErrors limits the number of parse errors kept. Zero means no limit.
func MaxErrors(n int) Option {
	return func(p *parser) {
		p.max = n
	}
}

// WithParameters applies engine parameters (viewport and error limit).
func WithParameters(params *config.Parameters) Option {
	return func(p *parser) {
		if params == nil {
			return
		}
		p.media.ViewportWidth = params.D(config.ViewportWidth)
		p.media.ViewportHeight = params.D(config.ViewportHeight)
		p.max = params.N(config.MaxParseErrors)
	}
}

type parser struct {
	ctx   context.Context
	sheet *StyleSheet
	media Media
	max   int
	err   error // set if a nested rule list has been aborted
}

func (p *parser) errorf(offset int, format string, args ...interface{}) {
	if p.max > 0 && len(p.sheet.Errors) >= p.max {
		p.sheet.DroppedErrors++
		return
	}
	msg := fmt.Sprintf(format, args...)
	tracer().Debugf("css:%d: %s", offset, msg)
	p.sheet.Errors = append(p.sheet.Errors, ParseError{Offset: offset, Msg: msg})
}

// Parse parses a stylesheet. Malformed rules and declarations are dropped
// and reported in the Errors of the stylesheet; an error is returned only
// if ctx is canceled, together with the rules parsed so far.
func Parse(ctx context.Context, source string, opts ...Option) (*StyleSheet, error) {
	p := &parser{
		ctx:   ctx,
		sheet: &StyleSheet{},
		media: Media{Type: "screen", ViewportWidth: 1024 * dimen.PX, ViewportHeight: 768 * dimen.PX},
		max:   DefaultMaxErrors,
	}
	for _, opt := range opts {
		opt(p)
	}
	toks := tokenize(source)
	err := p.ruleList(toks, "", true)
	tracer().Infof("css: parsed %d rules, %d errors", len(p.sheet.Rules), len(p.sheet.Errors))
	return p.sheet, err
}

// MustParse parses a stylesheet which is known to be well-formed, like a
// built-in default stylesheet. It panics on a canceled context only, which
// cannot happen for a background context.
func MustParse(source string) *StyleSheet {
	sheet, err := Parse(context.Background(), source)
	if err != nil {
		panic(err)
	}
	return sheet
}

// ruleList parses a list of rules and at-rules. topLevel is false for the
// contents of @media blocks.
func (p *parser) ruleList(toks []token, media string, topLevel bool) error {
	i := 0
	for i < len(toks) {
		if err := core.Canceled(p.ctx); err != nil {
			return err
		}
		t := toks[i]
		switch {
		case t.isSpace(), t.is(css.CDOToken) && topLevel, t.is(css.CDCToken) && topLevel:
			i++
		case t.is(css.AtKeywordToken):
			i = p.atRule(toks, i, media)
		default:
			i = p.qualifiedRule(toks, i, media)
		}
	}
	return p.err
}

// qualifiedRule parses a style rule starting at toks[i] and returns the
// index after it.
func (p *parser) qualifiedRule(toks []token, i int, media string) int {
	start := i
	for i < len(toks) && !toks[i].is(css.LeftBraceToken) {
		if closing(toks[i].tt) != css.ErrorToken {
			i = blockEnd(toks, i)
		}
		i++
	}
	if i >= len(toks) {
		p.errorf(toks[start].offset, "rule without declaration block dropped")
		return len(toks)
	}
	end := blockEnd(toks, i)
	prelude := trimSpace(toks[start:i])
	selectors, err := parseSelectorList(prelude)
	if err != nil {
		p.errorf(offsetOf(prelude, toks[i].offset), "rule dropped: %v", err)
		return end + 1
	}
	rule := &Rule{
		Selectors:    selectors,
		Declarations: p.declarationList(toks[i+1 : minInt(end, len(toks))]),
		Media:        media,
		Order:        len(p.sheet.Rules),
	}
	p.sheet.Rules = append(p.sheet.Rules, rule)
	return end + 1
}

// declarationList parses the contents of a declaration block.
func (p *parser) declarationList(toks []token) []Declaration {
	var decls []Declaration
	for _, part := range splitTopLevel(toks, css.SemicolonToken) {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		if d, ok := p.declaration(part); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

func (p *parser) declaration(toks []token) (Declaration, bool) {
	d := Declaration{Offset: toks[0].offset}
	if !toks[0].is(css.IdentToken) && !toks[0].is(css.CustomPropertyNameToken) {
		p.errorf(toks[0].offset, "declaration dropped: property name expected, have %q", toks[0].data)
		return d, false
	}
	d.Property = strings.ToLower(toks[0].data)
	if toks[0].is(css.CustomPropertyNameToken) {
		d.Property = toks[0].data // custom properties are case-sensitive
	}
	rest := trimSpace(toks[1:])
	if len(rest) == 0 || !rest[0].is(css.ColonToken) {
		p.errorf(toks[0].offset, "declaration dropped: ':' expected after %s", d.Property)
		return d, false
	}
	value, important := splitImportant(rest[1:])
	if len(value) == 0 {
		p.errorf(toks[0].offset, "declaration dropped: empty value for %s", d.Property)
		return d, false
	}
	for _, t := range value {
		if t.is(css.BadStringToken) || t.is(css.BadURLToken) || t.is(css.LeftBraceToken) {
			p.errorf(t.offset, "declaration dropped: invalid value for %s", d.Property)
			return d, false
		}
	}
	d.Value = style.Normalize(text(value))
	d.Important = important
	d.Components = components(value)
	return d, true
}

// atRule parses an at-rule starting at toks[i] and returns the index after it.
func (p *parser) atRule(toks []token, i int, media string) int {
	name := strings.ToLower(strings.TrimPrefix(toks[i].data, "@"))
	start := i
	i++
	for i < len(toks) && !toks[i].is(css.SemicolonToken) && !toks[i].is(css.LeftBraceToken) {
		if closing(toks[i].tt) != css.ErrorToken {
			i = blockEnd(toks, i)
		}
		i++
	}
	prelude := trimSpace(toks[start+1 : minInt(i, len(toks))])
	var block []token
	hasBlock := false
	next := i + 1
	if i < len(toks) && toks[i].is(css.LeftBraceToken) {
		end := blockEnd(toks, i)
		block = toks[i+1 : minInt(end, len(toks))]
		hasBlock = true
		next = end + 1
	}
	switch name {
	case "media":
		if !hasBlock {
			p.errorf(toks[start].offset, "@media without block dropped")
			break
		}
		cond := text(prelude)
		if !p.media.Matches(cond) {
			tracer().Debugf("css: @media %s does not apply", cond)
			break
		}
		if media != "" {
			cond = media + " and " + cond
		}
		if err := p.ruleList(block, cond, false); err != nil {
			p.err = err
			return len(toks)
		}
	case "import":
		if hasBlock || len(prelude) == 0 {
			p.errorf(toks[start].offset, "malformed @import dropped")
			break
		}
		var href string
		switch prelude[0].tt {
		case css.StringToken:
			href = unquote(prelude[0].data)
		case css.URLToken:
			href = urlContent(prelude[0].data)
		case css.FunctionToken:
			href = urlContent(text(prelude[:minInt(blockEnd(prelude, 0)+1, len(prelude))]))
		default:
			p.errorf(prelude[0].offset, "malformed @import dropped")
		}
		if href != "" {
			imp := Import{Href: href, Media: text(prelude[1:])}
			if imp.Media == "" || p.media.Matches(imp.Media) {
				p.sheet.Imports = append(p.sheet.Imports, imp)
			}
		}
	case "charset", "namespace":
		// nothing to do
	default:
		tracer().Debugf("css: skipping @%s", name)
	}
	return next
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
