/*
Package paint creates the display list handed to a rendering backend.

A paint list is a flat sequence of items in painting order. Each item holds
the geometry of a box in absolute coordinates and the subset of its style
needed to draw it: background, borders, text color, font and text runs.
The list is read-only input for the renderer; it is rebuilt from the box
tree for every paint request and shares no mutable state with it.

Painting order follows a simplified stacking model. The root box is painted
first, then positioned boxes with negative z-index, then boxes in normal
flow, then positioned boxes with z-index auto or 0, then positioned boxes
with positive z-index. Within a layer, items keep document order. A
positioned box with an explicit z-index carries its descendants into its
layer; nested stacking contexts are flattened into this single ordering.

Boxes with `visibility: hidden` are kept in the list, flagged as hidden, so
that backends may still use their geometry.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package paint

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.frame'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.frame")
}
