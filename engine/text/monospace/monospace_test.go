package monospace

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/text"
	"github.com/stretchr/testify/assert"
)

func TestCells(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	assert.Equal(t, 5, Cells("Hello"))
	assert.Equal(t, 4, Cells("日本"))
	assert.Equal(t, 1, Cells("e\u0301")) // e + combining acute
	assert.Equal(t, 0, Cells(""))
}

func TestAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.layout")
	defer teardown()
	//
	m := New()
	f := text.Font{Size: 16 * dimen.PX}
	assert.Equal(t, 40*dimen.PX, m.Advance("Hello", f))
	assert.Equal(t, 16*dimen.PX, m.Metrics(f).Height())
	assert.Equal(t, 40*dimen.PX, Measurer{}.Advance("Hello", f))
}
