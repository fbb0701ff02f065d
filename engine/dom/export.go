package dom

import (
	"bytes"
	"io"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/webcore/core"
	"golang.org/x/net/html"
)

// Export is a snapshot of a subtree as golang.org/x/net/html nodes, with a
// mapping back to arena handles. It connects the arena DOM to libraries
// working on html.Node, i.e. the renderer of x/net/html and the selector
// engine of cascadia.
type Export struct {
	Root    *html.Node
	handles map[*html.Node]NodeID
	nodes   map[NodeID]*html.Node
}

// Handle returns the arena handle for an exported node.
func (x *Export) Handle(n *html.Node) NodeID {
	return x.handles[n]
}

// Node returns the exported node for an arena handle.
func (x *Export) Node(id NodeID) *html.Node {
	return x.nodes[id]
}

// ExportTree creates an html.Node copy of the subtree rooted at id.
func (doc *Document) ExportTree(id NodeID) (*Export, error) {
	if err := doc.check(id); err != nil {
		return nil, err
	}
	x := &Export{
		handles: make(map[*html.Node]NodeID),
		nodes:   make(map[NodeID]*html.Node),
	}
	x.Root = doc.export(id, x)
	return x, nil
}

func (doc *Document) export(id NodeID, x *Export) *html.Node {
	n := &doc.nodes[id.slot()]
	h := &html.Node{DataAtom: n.atom}
	switch n.typ {
	case DocumentNode:
		h.Type = html.DocumentNode
	case DoctypeNode:
		h.Type = html.DoctypeNode
		h.Data = n.name
	case ElementNode:
		h.Type = html.ElementNode
		h.Data = n.name
		for _, a := range n.attrs {
			h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	case TextNode:
		h.Type = html.TextNode
		h.Data = n.data
	case CommentNode:
		h.Type = html.CommentNode
		h.Data = n.data
	}
	x.handles[h] = id
	x.nodes[id] = h
	for ch := n.first; ch != NoNode; ch = doc.nodes[ch.slot()].next {
		h.AppendChild(doc.export(ch, x))
	}
	return h
}

// Serialize writes the subtree rooted at id as HTML.
func (doc *Document) Serialize(w io.Writer, id NodeID) error {
	x, err := doc.ExportTree(id)
	if err != nil {
		return err
	}
	return html.Render(w, x.Root)
}

// SerializeString returns the HTML serialization of the subtree rooted at id.
func (doc *Document) SerializeString(id NodeID) string {
	var buf bytes.Buffer
	if err := doc.Serialize(&buf, id); err != nil {
		tracer().Errorf("serialize: %v", err)
	}
	return buf.String()
}

// QuerySelectorAll returns all elements below root which match a CSS selector
// group, in document order.
func (doc *Document) QuerySelectorAll(root NodeID, selector string) ([]NodeID, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "cannot parse selector %q", selector)
	}
	x, err := doc.ExportTree(root)
	if err != nil {
		return nil, err
	}
	var result []NodeID
	for _, h := range cascadia.QueryAll(x.Root, sel) {
		result = append(result, x.Handle(h))
	}
	return result, nil
}

// QuerySelector returns the first element below root which matches a CSS
// selector group, or NoNode.
func (doc *Document) QuerySelector(root NodeID, selector string) (NodeID, error) {
	all, err := doc.QuerySelectorAll(root, selector)
	if err != nil || len(all) == 0 {
		return NoNode, err
	}
	return all[0], nil
}

// Matches checks if an element matches a CSS selector group.
func (doc *Document) Matches(id NodeID, selector string) (bool, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return false, core.WrapError(err, core.EMALFORMED, "cannot parse selector %q", selector)
	}
	if err = doc.check(id); err != nil {
		return false, err
	}
	top := id
	for doc.nodes[top.slot()].parent != NoNode {
		top = doc.nodes[top.slot()].parent
	}
	x, err := doc.ExportTree(top)
	if err != nil {
		return false, err
	}
	h := x.Node(id)
	return h != nil && sel.Match(h), nil
}
