package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/webcore/core"
	"golang.org/x/net/html/atom"
)

// NodeID is a stable handle for a node in a document's arena.
// The zero value denotes "no node".
//
// The low bits of a handle address an arena slot, the high bits count
// re-uses of the slot. A handle to a swept node therefore never denotes the
// node re-using its slot.
type NodeID uint32

// NoNode is the null handle.
const NoNode NodeID = 0

// slotBits is the number of handle bits addressing an arena slot.
const slotBits = 24

const slotMask = 1<<slotBits - 1

func (id NodeID) slot() uint32 {
	return uint32(id) & slotMask
}

func (id NodeID) generation() uint8 {
	return uint8(id >> slotBits)
}

func handle(slot uint32, gen uint8) NodeID {
	return NodeID(uint32(gen)<<slotBits | slot)
}

// NodeType is the kind of a node.
type NodeType uint8

// Node types
const (
	InvalidNode NodeType = iota
	DocumentNode
	DoctypeNode
	ElementNode
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "#document"
	case DoctypeNode:
		return "#doctype"
	case ElementNode:
		return "#element"
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	}
	return "#invalid"
}

// Attribute is a name/value pair of an element. Attribute names are unique
// within an element; their order is the order of first definition.
type Attribute struct {
	Key, Val string
}

// Errors returned by mutation calls.
var (
	ErrInvalidNode = errors.New("invalid node handle")
	ErrHierarchy   = errors.New("insertion would violate the tree hierarchy")
	ErrNotFound    = errors.New("reference node is not a child of this parent")
)

type node struct {
	typ    NodeType
	name   string    // tag name for elements, name for doctypes
	atom   atom.Atom // atom of tag name, 0 for unknown tags
	attrs  []Attribute
	data   string // character data of text and comment nodes
	parent NodeID
	first  NodeID // first child
	last   NodeID // last child
	prev   NodeID
	next   NodeID
	flags  DirtyFlags
	free   bool  // node has been swept and may be re-used
	gen    uint8 // re-uses of the slot
}

// Document is an arena of nodes, rooted in a single document node.
type Document struct {
	nodes     []node // index 0 is unused, handles start at 1
	root      NodeID
	freelist  []uint32 // slots of swept nodes
	doctype   NodeID
	quirks    bool
	events    eventRegistry
	mutations uint64 // count of structural and attribute mutations
}

// NewDocument creates an empty document, consisting of the document node only.
func NewDocument() *Document {
	doc := &Document{
		nodes: make([]node, 1, 64),
	}
	doc.root = doc.alloc(node{typ: DocumentNode, name: "#document"})
	return doc
}

// Root returns the document node.
func (doc *Document) Root() NodeID {
	return doc.root
}

func (doc *Document) alloc(n node) NodeID {
	if l := len(doc.freelist); l > 0 {
		slot := doc.freelist[l-1]
		doc.freelist = doc.freelist[:l-1]
		n.gen = doc.nodes[slot].gen + 1
		doc.nodes[slot] = n
		return handle(slot, n.gen)
	}
	if len(doc.nodes) > slotMask {
		panic(core.Error(core.EINTERNAL, "document exceeds %d nodes", slotMask))
	}
	n.gen = 0
	doc.nodes = append(doc.nodes, n)
	return handle(uint32(len(doc.nodes)-1), 0)
}

// valid checks if a handle denotes a live node.
func (doc *Document) valid(id NodeID) bool {
	s := id.slot()
	return s != 0 && int(s) < len(doc.nodes) && !doc.nodes[s].free &&
		doc.nodes[s].gen == id.generation()
}

func (doc *Document) check(ids ...NodeID) error {
	for _, id := range ids {
		if !doc.valid(id) {
			return core.WrapError(ErrInvalidNode, core.EINVALID, "node %d does not exist", id)
		}
	}
	return nil
}

// Len returns the number of arena slots, including detached and swept nodes.
func (doc *Document) Len() int {
	return len(doc.nodes) - 1
}

// Mutations returns a counter, incremented for each mutation of the document.
func (doc *Document) Mutations() uint64 {
	return doc.mutations
}

// --- Creating nodes --------------------------------------------------------

// CreateElement creates a detached element node. Tag names are case-insensitive
// and stored in lower case.
func (doc *Document) CreateElement(tag string) NodeID {
	tag = strings.ToLower(tag)
	return doc.alloc(node{
		typ:   ElementNode,
		name:  tag,
		atom:  atom.Lookup([]byte(tag)),
		flags: StyleDirty | TreeDirty | LayoutDirty,
	})
}

// CreateText creates a detached text node.
func (doc *Document) CreateText(data string) NodeID {
	return doc.alloc(node{typ: TextNode, name: "#text", data: data, flags: TreeDirty | LayoutDirty})
}

// CreateComment creates a detached comment node.
func (doc *Document) CreateComment(data string) NodeID {
	return doc.alloc(node{typ: CommentNode, name: "#comment", data: data})
}

// SetDoctype sets the document type declaration. It inserts a doctype node as
// the first child of the document, replacing an existing one.
func (doc *Document) SetDoctype(name string, quirks bool) NodeID {
	if doc.doctype != NoNode {
		doc.nodes[doc.doctype.slot()].name = name
		doc.quirks = quirks
		return doc.doctype
	}
	id := doc.alloc(node{typ: DoctypeNode, name: name})
	doc.doctype = id
	doc.quirks = quirks
	_ = doc.InsertBefore(doc.root, id, doc.nodes[doc.root.slot()].first)
	return id
}

// Doctype returns the name of the document type declaration, if any.
func (doc *Document) Doctype() (string, bool) {
	if doc.doctype == NoNode {
		return "", false
	}
	return doc.nodes[doc.doctype.slot()].name, true
}

// QuirksMode is true if the document type declaration asked for quirks mode,
// or if the document has no document type declaration.
func (doc *Document) QuirksMode() bool {
	return doc.quirks
}

// SetQuirksMode sets the compatibility mode of the document.
func (doc *Document) SetQuirksMode(quirks bool) {
	doc.quirks = quirks
}

// --- Accessors -------------------------------------------------------------

// NodeType returns the type of a node, or InvalidNode for invalid handles.
func (doc *Document) NodeType(id NodeID) NodeType {
	if !doc.valid(id) {
		return InvalidNode
	}
	return doc.nodes[id.slot()].typ
}

// IsElement is a predicate for element nodes.
func (doc *Document) IsElement(id NodeID) bool {
	return doc.NodeType(id) == ElementNode
}

// TagName returns the (lower case) tag name of an element, or the node's
// type name for other nodes ("#text", "#document", …).
func (doc *Document) TagName(id NodeID) string {
	if !doc.valid(id) {
		return ""
	}
	return doc.nodes[id.slot()].name
}

// Atom returns the atom for the tag of an element, or 0.
func (doc *Document) Atom(id NodeID) atom.Atom {
	if !doc.valid(id) {
		return 0
	}
	return doc.nodes[id.slot()].atom
}

// Data returns the character data of a text or comment node.
func (doc *Document) Data(id NodeID) string {
	if !doc.valid(id) {
		return ""
	}
	return doc.nodes[id.slot()].data
}

// Parent returns the parent of a node, or NoNode.
func (doc *Document) Parent(id NodeID) NodeID {
	if !doc.valid(id) {
		return NoNode
	}
	return doc.nodes[id.slot()].parent
}

// FirstChild returns the first child of a node, or NoNode.
func (doc *Document) FirstChild(id NodeID) NodeID {
	if !doc.valid(id) {
		return NoNode
	}
	return doc.nodes[id.slot()].first
}

// LastChild returns the last child of a node, or NoNode.
func (doc *Document) LastChild(id NodeID) NodeID {
	if !doc.valid(id) {
		return NoNode
	}
	return doc.nodes[id.slot()].last
}

// NextSibling returns the next sibling of a node, or NoNode.
func (doc *Document) NextSibling(id NodeID) NodeID {
	if !doc.valid(id) {
		return NoNode
	}
	return doc.nodes[id.slot()].next
}

// PreviousSibling returns the previous sibling of a node, or NoNode.
func (doc *Document) PreviousSibling(id NodeID) NodeID {
	if !doc.valid(id) {
		return NoNode
	}
	return doc.nodes[id.slot()].prev
}

// Children returns the children of a node in document order.
func (doc *Document) Children(id NodeID) []NodeID {
	if !doc.valid(id) {
		return nil
	}
	var children []NodeID
	for ch := doc.nodes[id.slot()].first; ch != NoNode; ch = doc.nodes[ch.slot()].next {
		children = append(children, ch)
	}
	return children
}

// ChildCount returns the number of children of a node.
func (doc *Document) ChildCount(id NodeID) int {
	cnt := 0
	if !doc.valid(id) {
		return 0
	}
	for ch := doc.nodes[id.slot()].first; ch != NoNode; ch = doc.nodes[ch.slot()].next {
		cnt++
	}
	return cnt
}

// ElementChildren returns the element children of a node in document order.
func (doc *Document) ElementChildren(id NodeID) []NodeID {
	var children []NodeID
	for _, ch := range doc.Children(id) {
		if doc.nodes[ch.slot()].typ == ElementNode {
			children = append(children, ch)
		}
	}
	return children
}

// IsAncestor checks if anc is an ancestor of id or id itself.
func (doc *Document) IsAncestor(anc, id NodeID) bool {
	for n := id; n != NoNode; n = doc.nodes[n.slot()].parent {
		if n == anc {
			return true
		}
	}
	return false
}

// IsConnected is true for nodes which are part of the document tree.
func (doc *Document) IsConnected(id NodeID) bool {
	return doc.valid(id) && doc.IsAncestor(doc.root, id)
}

// Walk traverses the subtree rooted at id in pre-order. If f returns false,
// the children of the current node are skipped.
func (doc *Document) Walk(id NodeID, f func(NodeID) bool) {
	if !doc.valid(id) {
		return
	}
	if !f(id) {
		return
	}
	for ch := doc.nodes[id.slot()].first; ch != NoNode; {
		next := doc.nodes[ch.slot()].next
		doc.Walk(ch, f)
		ch = next
	}
}

// DocumentElement returns the root element (usually <html>), or NoNode.
func (doc *Document) DocumentElement() NodeID {
	for ch := doc.nodes[doc.root.slot()].first; ch != NoNode; ch = doc.nodes[ch.slot()].next {
		if doc.nodes[ch.slot()].typ == ElementNode {
			return ch
		}
	}
	return NoNode
}

// Head returns the <head> element, or NoNode.
func (doc *Document) Head() NodeID {
	return doc.childElement(doc.DocumentElement(), atom.Head)
}

// Body returns the <body> element, or NoNode.
func (doc *Document) Body() NodeID {
	return doc.childElement(doc.DocumentElement(), atom.Body)
}

func (doc *Document) childElement(parent NodeID, a atom.Atom) NodeID {
	if parent == NoNode {
		return NoNode
	}
	for ch := doc.nodes[parent.slot()].first; ch != NoNode; ch = doc.nodes[ch.slot()].next {
		if doc.nodes[ch.slot()].typ == ElementNode && doc.nodes[ch.slot()].atom == a {
			return ch
		}
	}
	return NoNode
}

// TextContent returns the concatenated character data of all text descendants.
func (doc *Document) TextContent(id NodeID) string {
	if doc.NodeType(id) == TextNode || doc.NodeType(id) == CommentNode {
		return doc.nodes[id.slot()].data
	}
	var b strings.Builder
	doc.Walk(id, func(n NodeID) bool {
		if doc.nodes[n.slot()].typ == TextNode {
			b.WriteString(doc.nodes[n.slot()].data)
		}
		return true
	})
	return b.String()
}

// GetElementByID returns the first element in document order with the given id.
func (doc *Document) GetElementByID(id string) NodeID {
	found := NoNode
	doc.Walk(doc.root, func(n NodeID) bool {
		if found != NoNode {
			return false
		}
		if v, ok := doc.GetAttribute(n, "id"); ok && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// GetElementsByTagName returns all elements below root with a given tag name,
// in document order. Tag "*" matches all elements.
func (doc *Document) GetElementsByTagName(root NodeID, tag string) []NodeID {
	tag = strings.ToLower(tag)
	var result []NodeID
	doc.Walk(root, func(n NodeID) bool {
		if n != root && doc.nodes[n.slot()].typ == ElementNode && (tag == "*" || doc.nodes[n.slot()].name == tag) {
			result = append(result, n)
		}
		return true
	})
	return result
}

// String returns a short description of a node, for debugging.
func (doc *Document) String(id NodeID) string {
	if !doc.valid(id) {
		return fmt.Sprintf("<invalid %d>", id)
	}
	n := &doc.nodes[id.slot()]
	switch n.typ {
	case ElementNode:
		return fmt.Sprintf("<%s #%d>", n.name, id)
	case TextNode:
		s := n.data
		if len(s) > 16 {
			s = s[:16] + "…"
		}
		return fmt.Sprintf("%q #%d", s, id)
	}
	return fmt.Sprintf("%s #%d", n.name, id)
}
