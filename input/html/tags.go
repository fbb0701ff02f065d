package html

import (
	"golang.org/x/net/html/atom"
)

// Capability is a set of flags describing how the tokenizer and the tree
// builder treat an element. Elements are not typed by tag; code asks the
// capability table instead.
type Capability uint32

// Element capabilities
const (
	Void             Capability = 1 << iota // no content, no end tag
	Formatting                              // subject to the adoption agency
	Special                                 // "special" category of the HTML standard
	RawText                                 // content is raw text (script, style)
	EscapableRawText                        // raw text with character references (textarea, title)
	ClosesP                                 // start tag closes an open <p> in button scope
	ImpliedEnd                              // end tag may be implied
	Heading                                 // h1 … h6
	ScopeBoundary                           // delimits the default scope
	TableScope                              // delimits table scope
	TableStructure                          // table, tbody, thead, tfoot, tr
	HeadContent                             // processed with in-head rules wherever it appears
)

var capabilityTable = map[atom.Atom]Capability{
	atom.Area:     Void | Special,
	atom.Base:     Void | Special | HeadContent,
	atom.Basefont: Void | Special | HeadContent,
	atom.Bgsound:  Void | Special | HeadContent,
	atom.Br:       Void | Special,
	atom.Col:      Void | Special,
	atom.Embed:    Void | Special,
	atom.Hr:       Void | Special,
	atom.Img:      Void | Special,
	atom.Input:    Void | Special,
	atom.Keygen:   Void | Special,
	atom.Link:     Void | Special | HeadContent,
	atom.Meta:     Void | Special | HeadContent,
	atom.Param:    Void | Special,
	atom.Source:   Void | Special,
	atom.Track:    Void | Special,
	atom.Wbr:      Void | Special,
	//
	atom.A:      Formatting,
	atom.B:      Formatting,
	atom.Big:    Formatting,
	atom.Code:   Formatting,
	atom.Em:     Formatting,
	atom.Font:   Formatting,
	atom.I:      Formatting,
	atom.Nobr:   Formatting,
	atom.S:      Formatting,
	atom.Small:  Formatting,
	atom.Strike: Formatting,
	atom.Strong: Formatting,
	atom.Tt:     Formatting,
	atom.U:      Formatting,
	//
	atom.Script:   RawText | Special | HeadContent,
	atom.Style:    RawText | Special | HeadContent,
	atom.Xmp:      RawText | Special | ClosesP,
	atom.Iframe:   RawText | Special,
	atom.Noembed:  RawText | Special,
	atom.Noframes: RawText | Special | HeadContent,
	atom.Textarea: EscapableRawText | Special,
	atom.Title:    EscapableRawText | Special | HeadContent,
	//
	atom.Address:    Special | ClosesP,
	atom.Article:    Special | ClosesP,
	atom.Aside:      Special | ClosesP,
	atom.Blockquote: Special | ClosesP,
	atom.Center:     Special | ClosesP,
	atom.Details:    Special | ClosesP,
	atom.Dialog:     Special | ClosesP,
	atom.Dir:        Special | ClosesP,
	atom.Div:        Special | ClosesP,
	atom.Dl:         Special | ClosesP,
	atom.Fieldset:   Special | ClosesP,
	atom.Figcaption: Special | ClosesP,
	atom.Figure:     Special | ClosesP,
	atom.Footer:     Special | ClosesP,
	atom.Form:       Special | ClosesP,
	atom.Header:     Special | ClosesP,
	atom.Hgroup:     Special | ClosesP,
	atom.Listing:    Special | ClosesP,
	atom.Main:       Special | ClosesP,
	atom.Menu:       Special | ClosesP,
	atom.Nav:        Special | ClosesP,
	atom.Ol:         Special | ClosesP,
	atom.Plaintext:  Special | ClosesP,
	atom.Pre:        Special | ClosesP,
	atom.Section:    Special | ClosesP,
	atom.Summary:    Special | ClosesP,
	atom.Ul:         Special | ClosesP,
	atom.H1:         Special | ClosesP | Heading,
	atom.H2:         Special | ClosesP | Heading,
	atom.H3:         Special | ClosesP | Heading,
	atom.H4:         Special | ClosesP | Heading,
	atom.H5:         Special | ClosesP | Heading,
	atom.H6:         Special | ClosesP | Heading,
	atom.P:          Special | ClosesP | ImpliedEnd,
	atom.Li:         Special | ImpliedEnd,
	atom.Dd:         Special | ImpliedEnd,
	atom.Dt:         Special | ImpliedEnd,
	atom.Option:     ImpliedEnd,
	atom.Optgroup:   ImpliedEnd,
	atom.Rb:         ImpliedEnd,
	atom.Rp:         ImpliedEnd,
	atom.Rt:         ImpliedEnd,
	atom.Rtc:        ImpliedEnd,
	//
	atom.Html:     Special | ScopeBoundary | TableScope,
	atom.Table:    Special | ScopeBoundary | TableScope | TableStructure,
	atom.Template: Special | ScopeBoundary | TableScope | HeadContent,
	atom.Applet:   Special | ScopeBoundary,
	atom.Caption:  Special | ScopeBoundary,
	atom.Marquee:  Special | ScopeBoundary,
	atom.Object:   Special | ScopeBoundary,
	atom.Td:       Special | ScopeBoundary,
	atom.Th:       Special | ScopeBoundary,
	atom.Tbody:    Special | TableStructure,
	atom.Thead:    Special | TableStructure,
	atom.Tfoot:    Special | TableStructure,
	atom.Tr:       Special | TableStructure,
	atom.Colgroup: Special,
	//
	atom.Body:     Special,
	atom.Head:     Special,
	atom.Button:   Special,
	atom.Frame:    Special,
	atom.Frameset: Special,
	atom.Noscript: Special,
	atom.Select:   Special,
	atom.Image:    Special,
}

// capabilities returns the capability set of a tag. Unknown tags (atom 0)
// have no capabilities.
func capabilities(a atom.Atom) Capability {
	return capabilityTable[a]
}

// Is checks if a tag has all capabilities of c.
func Is(a atom.Atom, c Capability) bool {
	return capabilityTable[a]&c == c
}

// IsVoid is true for elements without content and end tag.
func IsVoid(a atom.Atom) bool {
	return Is(a, Void)
}

// scope is a kind of element scope, given by the set of tags delimiting it.
type scope uint8

const (
	defaultScope scope = iota
	listItemScope
	buttonScope
	tableScope
)

// isScopeBoundary checks if an element with atom a delimits scope sc.
func (sc scope) isBoundary(a atom.Atom) bool {
	switch sc {
	case tableScope:
		return Is(a, TableScope)
	case listItemScope:
		if a == atom.Ol || a == atom.Ul {
			return true
		}
	case buttonScope:
		if a == atom.Button {
			return true
		}
	}
	return Is(a, ScopeBoundary)
}
