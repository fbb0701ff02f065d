/*
Package config holds the parameters an embedding application passes to the engine.

Parameters are read from any schuko.Configuration. The engine does not own
them: document source, fetch timeout and trace flags are handed through to
collaborators without interpretation, while viewport and font parameters
feed into cascade and layout.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/webcore/core/dimen"
)

// tracer traces with key 'webcore.core'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.core")
}

// Parameter is a key for an engine parameter.
type Parameter int

// Engine parameters.
const (
	_               Parameter = iota
	DocumentSource            // file path or URL of the document, opaque to the engine
	FetchTimeout              // time.Duration, opaque to the engine
	TraceFlags                // comma separated list of "selector=level"
	ViewportWidth             // dimension
	ViewportHeight            // dimension
	DefaultFontSize           // dimension
	MaxParseErrors            // number of parse diagnostics kept per document
	ParallelLayout            // bool: lay out independent dirty subtrees concurrently
	stopper
)

// Configuration keys to look up parameters in a schuko.Configuration.
var configKeys = [stopper]string{
	DocumentSource:  "webcore.document",
	FetchTimeout:    "webcore.fetch-timeout",
	TraceFlags:      "webcore.trace",
	ViewportWidth:   "webcore.viewport.width",
	ViewportHeight:  "webcore.viewport.height",
	DefaultFontSize: "webcore.font-size",
	MaxParseErrors:  "webcore.max-parse-errors",
	ParallelLayout:  "webcore.parallel-layout",
}

func (p Parameter) String() string {
	if p <= 0 || p >= stopper {
		return "<unknown parameter>"
	}
	return configKeys[p]
}

// Parameters is a set of engine parameters. Every parameter has a default value.
type Parameters struct {
	base [stopper]interface{}
}

// Defaults returns a parameter set with default values.
func Defaults() *Parameters {
	params := &Parameters{}
	initParameters(&params.base)
	return params
}

func initParameters(p *[stopper]interface{}) {
	p[DocumentSource] = ""                 // a string
	p[FetchTimeout] = 30 * time.Second     // a duration
	p[TraceFlags] = ""                     // a string
	p[ViewportWidth] = 1024 * dimen.PX     // dimension
	p[ViewportHeight] = 768 * dimen.PX     // dimension
	p[DefaultFontSize] = 16 * dimen.PX     // dimension
	p[MaxParseErrors] = 100                // an int
	p[ParallelLayout] = false              // a bool
}

// FromConfiguration creates a parameter set from a configuration. Keys not set
// in conf keep their default values. Malformed values are reported and ignored.
func FromConfiguration(conf schuko.Configuration) *Parameters {
	params := Defaults()
	if conf == nil {
		return params
	}
	for key := DocumentSource; key < stopper; key++ {
		ckey := configKeys[key]
		if !conf.IsSet(ckey) {
			continue
		}
		if err := params.setFromString(key, conf.GetString(ckey)); err != nil {
			tracer().Errorf("config: %s", err.Error())
		}
	}
	return params
}

func (params *Parameters) setFromString(key Parameter, s string) error {
	s = strings.TrimSpace(s)
	switch params.base[key].(type) {
	case string:
		params.base[key] = s
	case time.Duration:
		d, err := time.ParseDuration(s)
		if err != nil {
			secs, err2 := strconv.Atoi(s)
			if err2 != nil {
				return fmt.Errorf("parameter %s: %w", key, err)
			}
			d = time.Duration(secs) * time.Second
		}
		params.base[key] = d
	case dimen.Dimen:
		d, pcnt, err := dimen.ParseDimen(s)
		if err != nil || pcnt {
			return fmt.Errorf("parameter %s: cannot use %q as a dimension", key, s)
		}
		params.base[key] = d
	case int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", key, err)
		}
		params.base[key] = n
	case bool:
		params.base[key] = strings.EqualFold(s, "true") || s == "1" || strings.EqualFold(s, "yes")
	}
	return nil
}

// Set overrides a parameter. The value must have the type of the parameter's default.
func (params *Parameters) Set(key Parameter, value interface{}) {
	if key <= 0 || key >= stopper {
		panic("parameter key outside range of engine parameters")
	}
	if fmt.Sprintf("%T", value) != fmt.Sprintf("%T", params.base[key]) {
		panic(fmt.Sprintf("parameter %s expects %T, got %T", key, params.base[key], value))
	}
	params.base[key] = value
}

// Get returns the value of a parameter.
func (params *Parameters) Get(key Parameter) interface{} {
	if key <= 0 || key >= stopper {
		panic("parameter key outside range of engine parameters")
	}
	return params.base[key]
}

// S returns a string parameter.
func (params *Parameters) S(key Parameter) string {
	return params.Get(key).(string)
}

// N returns an integer parameter.
func (params *Parameters) N(key Parameter) int {
	return params.Get(key).(int)
}

// D returns a dimension parameter.
func (params *Parameters) D(key Parameter) dimen.Dimen {
	return params.Get(key).(dimen.Dimen)
}

// B returns a boolean parameter.
func (params *Parameters) B(key Parameter) bool {
	return params.Get(key).(bool)
}

// Duration returns a duration parameter.
func (params *Parameters) Duration(key Parameter) time.Duration {
	return params.Get(key).(time.Duration)
}

// --- Tracing ---------------------------------------------------------------

// InitTracing registers the trace adapters known to the engine ("go" and "logrus")
// and configures the root tracer from conf. The adapter is selected with key
// "tracing.adapter" (default "go"). Trace levels are taken from TraceFlags, a
// comma separated list of entries like "webcore.layout=Debug".
func InitTracing(conf schuko.Configuration, params *Parameters) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	tconf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.root":      "Error",
	}
	if conf != nil && conf.IsSet("tracing.adapter") {
		tconf["tracing.adapter"] = conf.GetString("tracing.adapter")
	}
	if params != nil {
		for sel, level := range ParseTraceFlags(params.S(TraceFlags)) {
			tconf["trace."+sel] = level.String()
		}
	}
	if err := trace2go.ConfigureRoot(tconf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// ParseTraceFlags splits a trace flag string into selectors and levels.
// Entries without a level, or with an unknown level, are set to Info.
func ParseTraceFlags(flags string) map[string]tracing.TraceLevel {
	m := make(map[string]tracing.TraceLevel)
	for _, entry := range strings.Split(flags, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		sel, level, found := strings.Cut(entry, "=")
		if !found {
			m[sel] = tracing.LevelInfo
			continue
		}
		m[strings.TrimSpace(sel)] = tracing.TraceLevelFromString(strings.TrimSpace(level))
	}
	return m
}
