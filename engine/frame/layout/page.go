package layout

import (
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style/css"
)

// View is the viewport a document is laid out for. It is the initial
// containing block of the root box.
type View struct {
	dimen.Rect
}

// NewView creates a view of the given size, located at the origin.
func NewView(width, height dimen.Dimen) View {
	v := View{}
	v.BotR = dimen.Point{X: width, Y: height}
	return v
}

func (v View) constraint() constraint {
	return available(v.Width(), css.SomeDimen(v.Height()))
}
