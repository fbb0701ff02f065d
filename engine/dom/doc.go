/*
Package dom implements the document tree.

Nodes live in an arena owned by a Document and are addressed by stable
handles of type NodeID. Parent and sibling links are plain handles, never
owning references. Removing a child detaches its subtree; the detached
nodes stay in the arena, usable by handle, until Sweep reclaims them.

Element-specific behavior is not modelled with types per tag. An element
carries its tag name (and the corresponding atom of golang.org/x/net/html/atom);
clients look up capabilities of a tag from static tables.

Every structural mutation invalidates cached style and box state through
dirty flags (see type DirtyFlags), which later passes check and clear.
Events are dispatched in three phases: capture, target and bubble.

The document is not safe for concurrent mutation. Concurrent readers are
fine as long as nobody mutates.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.dom'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.dom")
}
