package config

import (
	"testing"
	"time"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.core")
	defer teardown()
	//
	params := Defaults()
	assert.Equal(t, 1024*dimen.PX, params.D(ViewportWidth))
	assert.Equal(t, 16*dimen.PX, params.D(DefaultFontSize))
	assert.Equal(t, 100, params.N(MaxParseErrors))
	assert.False(t, params.B(ParallelLayout))
	assert.Equal(t, 30*time.Second, params.Duration(FetchTimeout))
}

func TestFromConfiguration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.core")
	defer teardown()
	//
	conf := testconfig.Conf{
		"webcore.document":        "file:///tmp/index.html",
		"webcore.fetch-timeout":   "5s",
		"webcore.viewport.width":  "800px",
		"webcore.max-parse-errors": "7",
		"webcore.parallel-layout": "true",
		"webcore.font-size":       "large", // malformed, keeps default
	}
	params := FromConfiguration(conf)
	assert.Equal(t, "file:///tmp/index.html", params.S(DocumentSource))
	assert.Equal(t, 5*time.Second, params.Duration(FetchTimeout))
	assert.Equal(t, 800*dimen.PX, params.D(ViewportWidth))
	assert.Equal(t, 7, params.N(MaxParseErrors))
	assert.True(t, params.B(ParallelLayout))
	assert.Equal(t, 16*dimen.PX, params.D(DefaultFontSize))
}

func TestSetPanicsOnWrongType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.core")
	defer teardown()
	//
	params := Defaults()
	params.Set(MaxParseErrors, 3)
	assert.Equal(t, 3, params.N(MaxParseErrors))
	assert.Panics(t, func() { params.Set(MaxParseErrors, "three") })
}

func TestTraceFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.core")
	defer teardown()
	//
	flags := ParseTraceFlags("webcore.html=Debug, webcore.layout , webcore.css=error")
	assert.Equal(t, tracing.LevelDebug, flags["webcore.html"])
	assert.Equal(t, tracing.LevelInfo, flags["webcore.layout"])
	assert.Equal(t, tracing.LevelError, flags["webcore.css"])
	assert.Len(t, flags, 3)
}
