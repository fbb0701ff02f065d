/*
Package text measures runs of text for inline layout.

Layout does not shape text. It only needs the advance width of a run of
characters and the vertical metrics of a font, which a Measurer provides.
Two measurers are available: package monospace measures by character cells,
which is predictable and the default; FaceMeasurer measures with an
x/image font face.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package text

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.layout'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.layout")
}
