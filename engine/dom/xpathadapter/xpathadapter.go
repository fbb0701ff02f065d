/*
Package xpathadapter implements an xpath.NodeNavigator.

We use this library for XPath queries:

	github.com/antchfx/xpath

Package xpathadapter implements an adapter to enable antchfx/xpath to
access the arena DOM of package dom, where nodes are addressed by handles
of type dom.NodeID.

For a description of the various methods of interface xpath.NodeNavigator
please refer to the documentation of antchfx/xpath. It is not replicated here.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package xpathadapter

import (
	"github.com/antchfx/xpath"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/engine/dom"
)

// tracer traces with key 'webcore.dom'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.dom")
}

// NodeNavigator navigates a document, starting at a root node.
type NodeNavigator struct {
	doc           *dom.Document
	root, current dom.NodeID
	attrs         []dom.Attribute // attributes of current, if positioned on an attribute
	attr          int             // attributes index
}

// NewNavigator creates a new xpath.NodeNavigator for a (sub-)tree.
func NewNavigator(doc *dom.Document, root dom.NodeID) *NodeNavigator {
	return &NodeNavigator{
		doc:     doc,
		current: root,
		root:    root,
		attr:    -1,
	}
}

// Current returns the node the navigator is positioned on.
func (nav *NodeNavigator) Current() dom.NodeID {
	return nav.current
}

// NodeType implements xpath.NodeNavigator.
func (nav *NodeNavigator) NodeType() xpath.NodeType {
	switch nav.doc.NodeType(nav.current) {
	case dom.TextNode:
		return xpath.TextNode
	case dom.DocumentNode:
		return xpath.RootNode
	case dom.ElementNode:
		if nav.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	}
	// comments and doctypes never match element or text tests
	return xpath.CommentNode
}

// LocalName implements xpath.NodeNavigator.
func (nav *NodeNavigator) LocalName() string {
	if nav.attr != -1 {
		return nav.attrs[nav.attr].Key
	}
	return nav.doc.TagName(nav.current)
}

// Prefix implements xpath.NodeNavigator. Namespaces are not supported.
func (*NodeNavigator) Prefix() string {
	return ""
}

// Value implements xpath.NodeNavigator.
func (nav *NodeNavigator) Value() string {
	switch nav.doc.NodeType(nav.current) {
	case dom.ElementNode:
		if nav.attr != -1 {
			return nav.attrs[nav.attr].Val
		}
		return nav.doc.TextContent(nav.current)
	case dom.TextNode, dom.CommentNode:
		return nav.doc.Data(nav.current)
	case dom.DocumentNode:
		return nav.doc.TextContent(nav.current)
	}
	return ""
}

// Copy implements xpath.NodeNavigator.
func (nav *NodeNavigator) Copy() xpath.NodeNavigator {
	n := *nav
	return &n
}

// MoveToRoot implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveToRoot() {
	nav.current = nav.root
	nav.attr = -1
}

// MoveToParent implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveToParent() bool {
	if nav.attr != -1 {
		nav.attr = -1 // move from attributes to element
		return true
	}
	if nav.current == nav.root {
		return false
	}
	p := nav.doc.Parent(nav.current)
	if p == dom.NoNode {
		return false
	}
	nav.current = p
	return true
}

// MoveToNextAttribute implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveToNextAttribute() bool {
	if nav.attr == -1 {
		nav.attrs = nav.doc.Attributes(nav.current)
	}
	if nav.attr >= len(nav.attrs)-1 {
		return false
	}
	nav.attr++
	return true
}

// MoveToChild implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveToChild() bool {
	if nav.attr != -1 {
		return false
	}
	ch := nav.doc.FirstChild(nav.current)
	if ch == dom.NoNode {
		return false
	}
	nav.current = ch
	return true
}

// MoveToFirst implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveToFirst() bool {
	if nav.attr != -1 || nav.current == nav.root {
		return false
	}
	first := nav.doc.FirstChild(nav.doc.Parent(nav.current))
	if first == dom.NoNode || first == nav.current {
		return false
	}
	nav.current = first
	return true
}

// MoveToNext implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveToNext() bool {
	if nav.attr != -1 || nav.current == nav.root {
		return false
	}
	next := nav.doc.NextSibling(nav.current)
	if next == dom.NoNode {
		return false
	}
	nav.current = next
	return true
}

// MoveToPrevious implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveToPrevious() bool {
	if nav.attr != -1 || nav.current == nav.root {
		return false
	}
	prev := nav.doc.PreviousSibling(nav.current)
	if prev == dom.NoNode {
		return false
	}
	nav.current = prev
	return true
}

// MoveTo implements xpath.NodeNavigator.
func (nav *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	n, ok := other.(*NodeNavigator)
	if !ok || n.root != nav.root || n.doc != nav.doc {
		return false
	}
	nav.current = n.current
	nav.attr = n.attr
	nav.attrs = n.attrs
	return true
}

func (nav *NodeNavigator) String() string {
	return nav.Value()
}

var _ xpath.NodeNavigator = &NodeNavigator{}

// Select evaluates an XPath expression on the subtree rooted at root and
// returns the nodes selected, in document order. Attribute results are
// reported as their owning elements.
func Select(doc *dom.Document, root dom.NodeID, expr string) ([]dom.NodeID, error) {
	xp, err := xpath.Compile(expr)
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "cannot compile XPath %q", expr)
	}
	var result []dom.NodeID
	seen := make(map[dom.NodeID]bool)
	iter := xp.Select(NewNavigator(doc, root))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*NodeNavigator)
		if !ok {
			continue
		}
		if !seen[nav.current] {
			seen[nav.current] = true
			result = append(result, nav.current)
		}
	}
	tracer().Debugf("XPath %q selected %d nodes", expr, len(result))
	return result, nil
}
