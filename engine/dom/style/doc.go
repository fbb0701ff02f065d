/*
Package style holds CSS property values and computed styles.

A property value is kept as a normalized string of type Property, the way it
appears in a declaration. Every property known to the engine is listed in a
static registry, together with its initial value and whether it is inherited
by default. Shorthand properties are expanded into their longhands before they
take part in the cascade.

ComputedStyle is the per-node result of the cascade. Computed styles are
values: the cascade creates a fresh map for every node and never mutates a
map once it has been handed out.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.style'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.style")
}
