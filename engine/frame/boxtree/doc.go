/*
Package boxtree produces a box tree from a styled document.

Every element yields zero, one or more boxes, depending on its computed
display mode: `display: none` yields no box, `display: contents` yields no
box but contributes its children, other modes yield a principal box.
Consecutive inline-level children of a block container holding block-level
children as well are wrapped into anonymous block boxes, which establish an
inline formatting context. Children of flex containers become flex items,
regardless of their own display mode.

Box trees are generated incrementally: a Builder keeps the boxes of the
previous run and re-uses the boxes of subtrees which have not been flagged
as tree-dirty in the DOM.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package boxtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.frame'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.frame")
}
