/*
Package inline breaks inline content into line boxes.

The content of a container establishing an inline formatting context is
flattened into a sequence of items: words, spaces, atomic inline boxes,
forced breaks, and the start and end edges of inline boxes. White-space is
processed according to the `white-space` property of each text run. Items
are then filled into lines greedily, breaking at soft wrap opportunities
whenever the next word would overflow the available width.

Line boxes are as high as their tallest item, aligned at a common baseline,
following a simplified model of half-leading: each run of text occupies its
line height, with the font's ascent and descent centered in it.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package inline

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.layout'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.layout")
}
