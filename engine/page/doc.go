/*
Package page ties the engine's passes together into a single document
pipeline.

A Page owns a parsed document, its stylesheets, the computed styles, the
box tree and the layout engine. Collaborators see the page only: the
network collaborator feeds it markup and stylesheet sources, scripts mutate
its DOM and read back computed styles and geometry, and the renderer asks
it for a paint list.

Mutations of the DOM never trigger work by themselves. They flag nodes as
dirty, and the next request needing styles or geometry runs the passes
which are out of date:

    restyle (style-dirty elements)  →  box generation (dirty subtrees)  →  layout (dirty boxes)

A Page is not safe for concurrent use. Callbacks from other goroutines have
to be serialized by the embedding application.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package page

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.layout'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.layout")
}
