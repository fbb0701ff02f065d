package styledtree

import (
	"sort"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/cssom"
)

// Env holds the environment values computed styles depend on.
type Env struct {
	ViewportWidth   dimen.Dimen
	ViewportHeight  dimen.Dimen
	DefaultFontSize dimen.Dimen // font size of keyword `medium`
	RootFontSize    dimen.Dimen // computed font size of the root element, for rem
}

// DefaultEnv returns an environment for a viewport of 1024×768 pixels and a
// default font size of 16 pixels.
func DefaultEnv() Env {
	return Env{
		ViewportWidth:   1024 * dimen.PX,
		ViewportHeight:  768 * dimen.PX,
		DefaultFontSize: 16 * dimen.PX,
		RootFontSize:    16 * dimen.PX,
	}
}

func (env Env) normalized() Env {
	if env.DefaultFontSize <= 0 {
		env.DefaultFontSize = 16 * dimen.PX
	}
	if env.RootFontSize <= 0 {
		env.RootFontSize = env.DefaultFontSize
	}
	return env
}

// matched is a declaration which applies to an element, with its cascade
// precedence.
type matched struct {
	declaration
	layer int
	spec  cssom.Specificity
	order int
}

// cascadeLayer orders declarations by origin and importance. Lower values
// have lower precedence. Important declarations reverse the origin order.
func cascadeLayer(origin Origin, important, inline bool) int {
	if important {
		switch {
		case origin == UserAgent:
			return 5
		case inline:
			return 4
		}
		return 3
	}
	switch {
	case origin == UserAgent:
		return 0
	case inline:
		return 2
	}
	return 1
}

// Cascade returns the winning declared value for every property which has
// at least one declaration applying to element n.
func (rs *RuleSet) Cascade(doc *dom.Document, n dom.NodeID) map[string]style.Property {
	var decls []matched
	for _, e := range rs.candidates(doc, n) {
		if !e.sel.Match(doc, n) {
			continue
		}
		for _, d := range e.decls {
			decls = append(decls, matched{
				declaration: d,
				layer:       cascadeLayer(e.origin, d.important, false),
				spec:        e.spec,
				order:       e.order,
			})
		}
	}
	if attr, ok := doc.GetAttribute(n, "style"); ok {
		inline, errs := cssom.ParseInlineStyle(attr)
		for _, err := range errs {
			tracer().Debugf("element <%s>: %v", doc.TagName(n), err)
		}
		for i, d := range rs.longhands(inline) {
			decls = append(decls, matched{
				declaration: d,
				layer:       cascadeLayer(Author, d.important, true),
				order:       i,
			})
		}
	}
	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i], decls[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if c := a.spec.Compare(b.spec); c != 0 {
			return c < 0
		}
		return a.order < b.order
	})
	specified := make(map[string]style.Property, len(decls))
	for _, d := range decls {
		specified[d.key] = d.value
	}
	return specified
}

// ComputeStyle computes the style of element n from the rules of rs and the
// computed style of its parent element, which is nil for the root element.
// It returns a fresh style and does not modify any of its inputs.
func ComputeStyle(rs *RuleSet, doc *dom.Document, n dom.NodeID, parent *style.ComputedStyle, env Env) *style.ComputedStyle {
	env = env.normalized()
	specified := rs.Cascade(doc, n)
	cs := style.NewComputedStyle()
	for _, key := range style.Properties() {
		v, ok := specified[key]
		switch {
		case !ok || v.IsUnset():
			if style.IsCascading(key) && parent != nil {
				v = parent.GetPropertyValue(key)
			} else {
				v = style.InitialValue(key)
			}
		case v.IsInherit():
			if parent != nil {
				v = parent.GetPropertyValue(key)
			} else {
				v = style.InitialValue(key)
			}
		case v.IsInitial():
			v = style.InitialValue(key)
		}
		cs.Set(key, v)
	}
	computeValues(cs, parent, env)
	return cs
}
