package dom

import (
	"strings"

	"github.com/npillmayer/webcore/core"
)

// AppendChild appends child as the last child of parent. If child is
// currently attached somewhere else, it is moved.
func (doc *Document) AppendChild(parent, child NodeID) error {
	return doc.InsertBefore(parent, child, NoNode)
}

// InsertBefore inserts child into the children of parent, in front of ref.
// If ref is NoNode, child is appended. Inserting a node into its own subtree
// is refused with ErrHierarchy.
func (doc *Document) InsertBefore(parent, child, ref NodeID) error {
	if err := doc.check(parent, child); err != nil {
		return err
	}
	if err := doc.checkInsertion(parent, child); err != nil {
		return err
	}
	if ref != NoNode {
		if err := doc.check(ref); err != nil {
			return err
		}
		if doc.nodes[ref.slot()].parent != parent {
			return core.WrapError(ErrNotFound, core.EINVALID,
				"node %d is not a child of %d", ref, parent)
		}
		if ref == child {
			return nil
		}
	}
	if doc.nodes[child.slot()].parent != NoNode {
		doc.unlink(child)
	}
	c := &doc.nodes[child.slot()]
	c.parent = parent
	if ref == NoNode {
		c.prev = doc.nodes[parent.slot()].last
		c.next = NoNode
		if c.prev != NoNode {
			doc.nodes[c.prev.slot()].next = child
		} else {
			doc.nodes[parent.slot()].first = child
		}
		doc.nodes[parent.slot()].last = child
	} else {
		c.next = ref
		c.prev = doc.nodes[ref.slot()].prev
		if c.prev != NoNode {
			doc.nodes[c.prev.slot()].next = child
		} else {
			doc.nodes[parent.slot()].first = child
		}
		doc.nodes[ref.slot()].prev = child
	}
	doc.markInserted(parent, child)
	doc.mutations++
	return nil
}

func (doc *Document) checkInsertion(parent, child NodeID) error {
	if child == doc.root {
		return core.WrapError(ErrHierarchy, core.EINVARIANT, "document node cannot be inserted")
	}
	switch doc.nodes[parent.slot()].typ {
	case TextNode, CommentNode, DoctypeNode:
		return core.WrapError(ErrHierarchy, core.EINVALID,
			"%s cannot have children", doc.nodes[parent.slot()].typ)
	}
	if doc.IsAncestor(child, parent) {
		return core.WrapError(ErrHierarchy, core.EINVARIANT,
			"inserting %s into %s would create a cycle", doc.String(child), doc.String(parent))
	}
	return nil
}

// RemoveChild detaches child from parent. The detached subtree stays in the
// arena and may be re-inserted, until Sweep reclaims it.
func (doc *Document) RemoveChild(parent, child NodeID) error {
	if err := doc.check(parent, child); err != nil {
		return err
	}
	if doc.nodes[child.slot()].parent != parent {
		return core.WrapError(ErrNotFound, core.EINVALID,
			"node %d is not a child of %d", child, parent)
	}
	doc.unlink(child)
	doc.mutations++
	return nil
}

// ReplaceChild replaces old with child in the children of parent.
func (doc *Document) ReplaceChild(parent, child, old NodeID) error {
	if child == old {
		return doc.check(child)
	}
	if err := doc.InsertBefore(parent, child, old); err != nil {
		return err
	}
	return doc.RemoveChild(parent, old)
}

// unlink removes a node from its parent's child list and marks the former
// parent chain dirty.
func (doc *Document) unlink(id NodeID) {
	n := &doc.nodes[id.slot()]
	parent := n.parent
	if n.prev != NoNode {
		doc.nodes[n.prev.slot()].next = n.next
	} else {
		doc.nodes[parent.slot()].first = n.next
	}
	if n.next != NoNode {
		doc.nodes[n.next.slot()].prev = n.prev
	} else {
		doc.nodes[parent.slot()].last = n.prev
	}
	n.parent, n.prev, n.next = NoNode, NoNode, NoNode
	if id == doc.doctype {
		doc.doctype = NoNode
	}
	doc.markRemoved(parent)
}

// --- Attributes ------------------------------------------------------------

// SetAttribute sets an attribute of an element. Attribute names are
// case-insensitive.
func (doc *Document) SetAttribute(id NodeID, key, value string) error {
	if err := doc.check(id); err != nil {
		return err
	}
	n := &doc.nodes[id.slot()]
	if n.typ != ElementNode {
		return core.Error(core.EINVALID, "cannot set attribute on %s", doc.String(id))
	}
	key = strings.ToLower(key)
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			if n.attrs[i].Val == value {
				return nil
			}
			n.attrs[i].Val = value
			doc.markAttributeChanged(id)
			return nil
		}
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Val: value})
	doc.markAttributeChanged(id)
	return nil
}

// GetAttribute returns the value of an attribute and a flag indicating
// whether the attribute is present.
func (doc *Document) GetAttribute(id NodeID, key string) (string, bool) {
	if !doc.valid(id) || doc.nodes[id.slot()].typ != ElementNode {
		return "", false
	}
	for _, a := range doc.nodes[id.slot()].attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	key = strings.ToLower(key)
	for _, a := range doc.nodes[id.slot()].attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute is a predicate for the presence of an attribute.
func (doc *Document) HasAttribute(id NodeID, key string) bool {
	_, ok := doc.GetAttribute(id, key)
	return ok
}

// RemoveAttribute removes an attribute. Removing an absent attribute is a no-op.
func (doc *Document) RemoveAttribute(id NodeID, key string) error {
	if err := doc.check(id); err != nil {
		return err
	}
	key = strings.ToLower(key)
	n := &doc.nodes[id.slot()]
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			doc.markAttributeChanged(id)
			return nil
		}
	}
	return nil
}

// Attributes returns a copy of the attributes of an element, in order of
// definition.
func (doc *Document) Attributes(id NodeID) []Attribute {
	if !doc.valid(id) || len(doc.nodes[id.slot()].attrs) == 0 {
		return nil
	}
	attrs := make([]Attribute, len(doc.nodes[id.slot()].attrs))
	copy(attrs, doc.nodes[id.slot()].attrs)
	return attrs
}

// Classes returns the class names of an element.
func (doc *Document) Classes(id NodeID) []string {
	cls, ok := doc.GetAttribute(id, "class")
	if !ok {
		return nil
	}
	return strings.Fields(cls)
}

// SetTextData replaces the character data of a text or comment node.
func (doc *Document) SetTextData(id NodeID, data string) error {
	if err := doc.check(id); err != nil {
		return err
	}
	n := &doc.nodes[id.slot()]
	if n.typ != TextNode && n.typ != CommentNode {
		return core.Error(core.EINVALID, "cannot set character data on %s", doc.String(id))
	}
	if n.data == data {
		return nil
	}
	n.data = data
	if n.typ == TextNode {
		doc.markTextChanged(id)
	}
	doc.mutations++
	return nil
}

// AppendText appends character data to a text node. The tree builder uses
// this to coalesce adjacent character tokens.
func (doc *Document) AppendText(id NodeID, data string) error {
	return doc.SetTextData(id, doc.Data(id)+data)
}

// --- Cloning and sweeping --------------------------------------------------

// CloneNode copies a node. If deep is true, the subtree is copied as well.
// The copy is detached and all of its nodes are dirty.
func (doc *Document) CloneNode(id NodeID, deep bool) (NodeID, error) {
	if err := doc.check(id); err != nil {
		return NoNode, err
	}
	if id == doc.root {
		return NoNode, core.Error(core.EINVALID, "cannot clone the document node")
	}
	src := doc.nodes[id.slot()]
	n := node{
		typ:   src.typ,
		name:  src.name,
		atom:  src.atom,
		data:  src.data,
		flags: StyleDirty | TreeDirty | LayoutDirty,
	}
	if len(src.attrs) > 0 {
		n.attrs = make([]Attribute, len(src.attrs))
		copy(n.attrs, src.attrs)
	}
	clone := doc.alloc(n)
	if deep {
		for _, ch := range doc.Children(id) {
			c, err := doc.CloneNode(ch, true)
			if err != nil {
				return NoNode, err
			}
			if err = doc.AppendChild(clone, c); err != nil {
				return NoNode, err
			}
		}
	}
	return clone, nil
}

// Sweep reclaims all nodes not connected to the document root. Handles to
// reclaimed nodes become invalid for good, even after their slots have been
// re-used. Returns the number of nodes reclaimed.
func (doc *Document) Sweep() int {
	live := make([]bool, len(doc.nodes))
	doc.Walk(doc.root, func(n NodeID) bool {
		live[n.slot()] = true
		return true
	})
	cnt := 0
	for i := 1; i < len(doc.nodes); i++ {
		if live[i] || doc.nodes[i].free {
			continue
		}
		gen := doc.nodes[i].gen
		doc.events.clear(handle(uint32(i), gen))
		doc.nodes[i] = node{free: true, gen: gen}
		doc.freelist = append(doc.freelist, uint32(i))
		cnt++
	}
	tracer().Debugf("sweep reclaimed %d nodes", cnt)
	return cnt
}

// CheckTree verifies the structural invariants of the tree below the document
// root: back links match child lists and there are no cycles. A violation is
// a defect and is reported with error code EINVARIANT.
func (doc *Document) CheckTree() error {
	seen := make(map[NodeID]bool)
	var check func(NodeID) error
	check = func(id NodeID) error {
		if seen[id] {
			return core.Error(core.EINVARIANT, "cycle detected at %s", doc.String(id))
		}
		seen[id] = true
		prev := NoNode
		for ch := doc.nodes[id.slot()].first; ch != NoNode; ch = doc.nodes[ch.slot()].next {
			if !doc.valid(ch) {
				return core.Error(core.EINVARIANT, "dangling child %d of %s", ch, doc.String(id))
			}
			if doc.nodes[ch.slot()].parent != id || doc.nodes[ch.slot()].prev != prev {
				return core.Error(core.EINVARIANT, "broken links at %s", doc.String(ch))
			}
			if err := check(ch); err != nil {
				return err
			}
			prev = ch
		}
		if doc.nodes[id.slot()].last != prev {
			return core.Error(core.EINVARIANT, "broken last-child link at %s", doc.String(id))
		}
		return nil
	}
	if doc.nodes[doc.root.slot()].parent != NoNode {
		return core.Error(core.EINVARIANT, "document node has a parent")
	}
	return check(doc.root)
}
