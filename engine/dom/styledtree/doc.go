/*
Package styledtree is the cascade engine: it computes styles for the nodes
of a document.

A RuleSet is an immutable, ordered collection of style rules from user-agent
and author stylesheets. ComputeStyle applies a rule set to a single element,
given the computed style of its parent, and returns a fresh ComputedStyle.
It has no side effects, so independent subtrees may be styled concurrently.

Tree keeps the computed styles of a document and recomputes them on demand:
only elements flagged as style-dirty, and their subtrees, are restyled.

Cascade order follows CSS: declarations are sorted by origin and importance,
then by selector specificity, then by source order. Important declarations
win in reversed origin order. Inline style attributes are author
declarations with a precedence above all selectors.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.style'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.style")
}
