/*
Package css provides typed CSS values: dimensions with unit tags, display
modes and the keyword enumerations used by layout.

Computed styles hold property values as strings. Layout code converts them
with the helpers of this package, e.g.

    w := css.DimenOption(styles.GetPropertyValue("width"))
    if w.IsAuto() {
        …
    }

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.css'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.css")
}
