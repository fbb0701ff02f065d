package text

import (
	"sync"

	"github.com/npillmayer/webcore/core/dimen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Font selects the font a run of text is measured with.
type Font struct {
	Family string
	Size   dimen.Dimen // font size (em)
	Bold   bool
	Italic bool
}

// Metrics are the vertical metrics of a font at a given size.
type Metrics struct {
	Ascent  dimen.Dimen
	Descent dimen.Dimen
}

// Height returns ascent plus descent.
func (m Metrics) Height() dimen.Dimen {
	return m.Ascent + m.Descent
}

// Measurer measures text for layout. Implementations must be safe for
// concurrent use, as independent subtrees may be laid out in parallel.
type Measurer interface {
	Advance(s string, f Font) dimen.Dimen // advance width of a run of text
	Metrics(f Font) Metrics
}

// --- Font faces ------------------------------------------------------------

// FaceMeasurer measures text with a font face, scaling from the face's
// nominal size to the requested font size.
type FaceMeasurer struct {
	mu      sync.Mutex // font.Face is not safe for concurrent use
	face    font.Face
	nominal dimen.Dimen
}

var _ Measurer = &FaceMeasurer{}

// NewFaceMeasurer creates a measurer for a face with a given nominal size.
func NewFaceMeasurer(face font.Face, nominal dimen.Dimen) *FaceMeasurer {
	if nominal <= 0 {
		nominal = dimen.FromPixels(fixedToPixels(face.Metrics().Height))
	}
	return &FaceMeasurer{face: face, nominal: nominal}
}

// BasicFace returns a measurer for the 7×13 pixel font of package basicfont.
func BasicFace() *FaceMeasurer {
	return NewFaceMeasurer(basicfont.Face7x13, 13*dimen.PX)
}

func (fm *FaceMeasurer) scale(f Font) float64 {
	if f.Size <= 0 || fm.nominal <= 0 {
		return 1
	}
	return float64(f.Size) / float64(fm.nominal)
}

// Advance measures s at the font size of f. Family and weight are ignored.
func (fm *FaceMeasurer) Advance(s string, f Font) dimen.Dimen {
	fm.mu.Lock()
	adv := font.MeasureString(fm.face, s)
	fm.mu.Unlock()
	return dimen.FromPixels(fixedToPixels(adv) * fm.scale(f))
}

// Metrics returns the face's ascent and descent, scaled to f.
func (fm *FaceMeasurer) Metrics(f Font) Metrics {
	fm.mu.Lock()
	m := fm.face.Metrics()
	fm.mu.Unlock()
	sc := fm.scale(f)
	return Metrics{
		Ascent:  dimen.FromPixels(fixedToPixels(m.Ascent) * sc),
		Descent: dimen.FromPixels(fixedToPixels(m.Descent) * sc),
	}
}

func fixedToPixels(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
