/*
Package frame implements the CSS box model.

Boxes follow the CSS box model: a content box, surrounded by padding, border
and margins. During box generation the dimensions of a box are known only
partially, as percentages refer to the containing block and `auto` widths
depend on the layout context. Type Box therefore holds optional dimensions
(css.DimenT), which layout fixes step by step.

Styling converts a computed style into the typed values layout and painting
need. Context tells which formatting context a container establishes for
its children.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package frame

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.frame'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.frame")
}
