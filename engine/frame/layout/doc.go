/*
Package layout computes the geometry of a box tree.

Overview

Layout proceeds top-down: widths are resolved from the containing block,
heights bottom-up from the content. Block containers stack their children
vertically, collapsing the vertical margins of adjacent siblings. Inline
formatting contexts are broken into line boxes by package inline. Flex
containers resolve the main sizes of their items with the flex-basis,
flex-grow and flex-shrink algorithm, iterating until no item violates its
min or max constraints. Absolutely positioned boxes are laid out after the
normal flow, relative to their containing block.

Reflow

Layout is incremental. A box keeps its geometry if it has been laid out
before for the same available width and neither its DOM node nor any
descendant has been flagged as dirty since. After a successful pass, the
dirty flags of the document are cleared. Independent children of a block
container may be laid out concurrently.

Layout checks for cancellation between boxes. A canceled pass leaves boxes
laid out so far with valid geometry and the dirty flags untouched, so that
the next pass picks up the remainder.

Known simplifications: floats are treated as blocks in the normal flow,
margins do not collapse through parents or empty boxes, and tables are
laid out as stacks of blocks.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.layout'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.layout")
}
