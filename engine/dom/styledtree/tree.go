package styledtree

import (
	"context"

	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/css"
)

// Tree holds the computed styles for the elements of a document.
//
// Styles are computed lazily by Restyle, which visits elements flagged as
// style-dirty. Restyling an element restyles its subtree if its style changed
// or if it was flagged itself, as descendant selectors may depend on it.
// Newly inserted elements are styled on first visit.
type Tree struct {
	doc    *dom.Document
	rules  *RuleSet
	env    Env
	styles map[dom.NodeID]*style.ComputedStyle
}

// NewTree creates a styled tree for a document. Styles are computed by the
// first call to Restyle.
func NewTree(doc *dom.Document, rules *RuleSet, env Env) *Tree {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &Tree{
		doc:    doc,
		rules:  rules,
		env:    env.normalized(),
		styles: make(map[dom.NodeID]*style.ComputedStyle),
	}
}

// Document returns the document of the tree.
func (t *Tree) Document() *dom.Document {
	return t.doc
}

// Rules returns the rule set styles are computed from.
func (t *Tree) Rules() *RuleSet {
	return t.rules
}

// SetRules replaces the rule set, e.g. after a stylesheet has been loaded.
// All elements are flagged for restyling.
func (t *Tree) SetRules(rules *RuleSet) {
	t.rules = rules
	t.invalidateAll()
}

// Env returns the environment of the tree.
func (t *Tree) Env() Env {
	return t.env
}

// SetEnv changes the environment, e.g. on viewport resize. All elements are
// flagged for restyling.
func (t *Tree) SetEnv(env Env) {
	t.env = env.normalized()
	t.invalidateAll()
}

func (t *Tree) invalidateAll() {
	if el := t.doc.DocumentElement(); el != dom.NoNode {
		t.doc.MarkDirty(el, dom.StyleDirty)
	}
}

// Style returns the computed style of a node. Text nodes report the style of
// their parent element. If the node has not been styled yet, nil is returned.
func (t *Tree) Style(n dom.NodeID) *style.ComputedStyle {
	if !t.doc.IsElement(n) {
		n = t.doc.Parent(n)
	}
	return t.styles[n]
}

// Display returns the display mode of a node. Unstyled nodes and nodes other
// than elements and text have no display mode.
func (t *Tree) Display(n dom.NodeID) css.DisplayMode {
	switch t.doc.NodeType(n) {
	case dom.TextNode:
		return css.InlineMode | css.InnerInlineMode
	case dom.ElementNode:
		if cs := t.styles[n]; cs != nil {
			d, _ := css.ParseDisplay(string(cs.GetPropertyValue("display")))
			return d
		}
	}
	return css.NoMode
}

// Restyle recomputes the styles of all elements which need it and returns
// the number of elements restyled. If ctx is canceled, Restyle stops between
// elements; elements not yet visited keep their dirty flags.
func (t *Tree) Restyle(ctx context.Context) (int, error) {
	t.prune()
	count := 0
	err := t.restyleChildren(ctx, t.doc.Root(), nil, false, &count)
	tracer().Infof("restyled %d elements", count)
	return count, err
}

func (t *Tree) restyleChildren(ctx context.Context, n dom.NodeID, parent *style.ComputedStyle,
	force bool, count *int) error {
	//
	doc := t.doc
	for ch := doc.FirstChild(n); ch != dom.NoNode; ch = doc.NextSibling(ch) {
		if !doc.IsElement(ch) {
			continue
		}
		if err := core.Canceled(ctx); err != nil {
			return err
		}
		flags := doc.Dirty(ch)
		cs := t.styles[ch]
		forceChildren := force || flags&dom.StyleDirty != 0
		if force || cs == nil || flags&dom.StyleDirty != 0 {
			env := t.env
			if parent == nil { // root element
				env.RootFontSize = env.DefaultFontSize
			}
			computed := ComputeStyle(t.rules, doc, ch, parent, env)
			*count++
			doc.ClearDirty(ch, dom.StyleDirty)
			if parent == nil {
				if d := css.DimenOption(computed.GetPropertyValue("font-size")); d.IsAbsolute() {
					t.env.RootFontSize = d.Unwrap()
				}
			}
			if !computed.Equal(cs) {
				if cs != nil {
					t.changed(n, ch, cs, computed)
				}
				t.styles[ch] = computed
				cs = computed
				forceChildren = true
			}
		}
		if forceChildren || flags&dom.ChildrenDirty != 0 {
			if err := t.restyleChildren(ctx, ch, cs, forceChildren, count); err != nil {
				return err
			}
		}
	}
	return nil
}

// boxProperties are properties whose change requires new boxes.
var boxProperties = []string{"display", "position", "float"}

// changed flags an element whose style changed for layout.
func (t *Tree) changed(parent, n dom.NodeID, old, cs *style.ComputedStyle) {
	t.doc.MarkDirty(n, dom.LayoutDirty)
	for _, key := range boxProperties {
		if old.GetPropertyValue(key) != cs.GetPropertyValue(key) {
			t.doc.MarkDirty(parent, dom.TreeDirty)
			return
		}
	}
}

// prune drops styles of nodes which are no longer part of the document.
func (t *Tree) prune() {
	for n := range t.styles {
		if !t.doc.IsElement(n) || !t.doc.IsConnected(n) {
			delete(t.styles, n)
		}
	}
}
