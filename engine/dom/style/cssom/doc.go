/*
Package cssom parses CSS stylesheets into an object model of rules.

A stylesheet is a sequence of rules, each consisting of a selector list and
a block of declarations. Parsing never fails on malformed input: an
unparsable declaration is dropped and parsing resumes after the next
semicolon, an unparsable rule is dropped and parsing resumes at the next
rule boundary. Problems are reported as ParseError diagnostics.

Tokenization is done by the CSS3 lexer of github.com/tdewolff/parse. On top
of the token stream, this package implements a recursive descent parser
for rules, selectors, declarations and the at-rules @media and @import.
Inline style attributes are parsed with github.com/aymerick/douceur.

Selectors are matched against nodes of an arena DOM (package dom). Their
specificity is a triple (ids, classes/attributes/pseudo-classes, types),
compared lexicographically.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.css'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.css")
}
