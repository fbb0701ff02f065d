package dom

import "strings"

// DirtyFlags mark cached state derived from a node as stale.
type DirtyFlags uint8

// Dirty flags, checked and cleared by cascade, box generation and layout.
const (
	StyleDirty    DirtyFlags = 1 << iota // computed style must be recomputed
	TreeDirty                            // boxes for the node's children must be regenerated
	LayoutDirty                          // geometry must be recomputed
	ChildrenDirty                        // some descendant carries a dirty flag
)

// AllDirty is the set of all dirty flags.
const AllDirty = StyleDirty | TreeDirty | LayoutDirty | ChildrenDirty

func (f DirtyFlags) String() string {
	if f == 0 {
		return "clean"
	}
	var s []string
	if f&StyleDirty != 0 {
		s = append(s, "style")
	}
	if f&TreeDirty != 0 {
		s = append(s, "tree")
	}
	if f&LayoutDirty != 0 {
		s = append(s, "layout")
	}
	if f&ChildrenDirty != 0 {
		s = append(s, "children")
	}
	return strings.Join(s, "|")
}

// Dirty returns the dirty flags of a node.
func (doc *Document) Dirty(id NodeID) DirtyFlags {
	if !doc.valid(id) {
		return 0
	}
	return doc.nodes[id.slot()].flags
}

// IsDirty checks if any of the flags in mask are set for a node.
func (doc *Document) IsDirty(id NodeID, mask DirtyFlags) bool {
	return doc.Dirty(id)&mask != 0
}

// ClearDirty clears flags for a single node.
func (doc *Document) ClearDirty(id NodeID, mask DirtyFlags) {
	if doc.valid(id) {
		doc.nodes[id.slot()].flags &^= mask
	}
}

// ClearAllDirty clears flags for a whole subtree.
func (doc *Document) ClearAllDirty(id NodeID, mask DirtyFlags) {
	doc.Walk(id, func(n NodeID) bool {
		doc.nodes[n.slot()].flags &^= mask
		return true
	})
}

// MarkDirty sets flags on a node and marks its ancestors as having dirty
// descendants. Ancestors get LayoutDirty whenever the node's geometry may
// change, as their heights depend on it.
func (doc *Document) MarkDirty(id NodeID, flags DirtyFlags) {
	if !doc.valid(id) {
		return
	}
	doc.nodes[id.slot()].flags |= flags
	anc := ChildrenDirty
	if flags&(TreeDirty|LayoutDirty|StyleDirty) != 0 {
		anc |= LayoutDirty
	}
	doc.propagate(doc.nodes[id.slot()].parent, anc)
}

func (doc *Document) propagate(id NodeID, flags DirtyFlags) {
	for n := id; n != NoNode; n = doc.nodes[n.slot()].parent {
		if doc.nodes[n.slot()].flags&flags == flags {
			return // already marked, including all ancestors
		}
		doc.nodes[n.slot()].flags |= flags
	}
}

func (doc *Document) markSubtree(id NodeID, flags DirtyFlags) {
	doc.Walk(id, func(n NodeID) bool {
		f := flags
		if doc.nodes[n.slot()].typ != ElementNode {
			f &^= StyleDirty
		}
		doc.nodes[n.slot()].flags |= f
		if doc.nodes[n.slot()].first != NoNode {
			doc.nodes[n.slot()].flags |= ChildrenDirty
		}
		return true
	})
}

// markInserted is called after child has been linked into parent. The new
// subtree needs style, boxes and geometry; the parent must regenerate its
// box children; ancestors must recompute their heights.
func (doc *Document) markInserted(parent, child NodeID) {
	doc.markSubtree(child, StyleDirty|TreeDirty|LayoutDirty)
	doc.nodes[parent.slot()].flags |= TreeDirty | LayoutDirty | ChildrenDirty
	doc.propagate(doc.nodes[parent.slot()].parent, LayoutDirty|ChildrenDirty)
}

func (doc *Document) markRemoved(parent NodeID) {
	if parent == NoNode {
		return
	}
	doc.nodes[parent.slot()].flags |= TreeDirty | LayoutDirty
	doc.propagate(doc.nodes[parent.slot()].parent, LayoutDirty|ChildrenDirty)
}

func (doc *Document) markAttributeChanged(id NodeID) {
	doc.mutations++
	doc.MarkDirty(id, StyleDirty|LayoutDirty)
}

func (doc *Document) markTextChanged(id NodeID) {
	doc.MarkDirty(id, TreeDirty|LayoutDirty)
	if p := doc.nodes[id.slot()].parent; p != NoNode {
		doc.nodes[p.slot()].flags |= TreeDirty
	}
}

// DirtyNodes returns all nodes below root which have any of the flags in mask
// set, in document order. Subtrees without dirty descendants are skipped.
func (doc *Document) DirtyNodes(root NodeID, mask DirtyFlags) []NodeID {
	var dirty []NodeID
	doc.Walk(root, func(n NodeID) bool {
		f := doc.nodes[n.slot()].flags
		if f&mask != 0 {
			dirty = append(dirty, n)
		}
		return f&(ChildrenDirty|mask) != 0 || n == root
	})
	return dirty
}
