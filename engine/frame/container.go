package frame

import (
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style/css"
)

// Container is an interface type for nodes of the box tree.
type Container interface {
	DOMNode() dom.NodeID         // boxes link back to nodes in the DOM; NoNode for anonymous boxes
	CSSBox() *Box                // CSS box which is the visual representation of this node
	DisplayMode() css.DisplayMode // computed inner and outer display mode
	Context() Context            // formatting context established for children
}
