package html

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/webcore/engine/dom"
	"golang.org/x/net/html/atom"
)

// TreeBuilder consumes tokens and builds a document tree. It is driven by an
// explicit insertion-mode state machine (see InsertionMode).
type TreeBuilder struct {
	doc        *dom.Document
	mode       InsertionMode
	original   InsertionMode   // mode to return to after Text mode
	stack      []dom.NodeID    // stack of open elements, current node last
	afe        *arraylist.List // list of active formatting elements (*formattingEntry)
	head       dom.NodeID      // head element pointer
	form       dom.NodeID      // form element pointer
	foster     bool            // foster parenting enabled
	framesetOK bool
	skipLF     bool // drop a leading newline of the next token
	dropLF     bool // drop a leading newline of the current token
	done       bool // EOF has been processed
	tokenizer  *Tokenizer
	errorf     func(tok *Token, format string, args ...interface{})
	onElement  func(el dom.NodeID, tok *Token)
}

// formattingEntry is an entry in the list of active formatting elements.
// Markers have no token.
type formattingEntry struct {
	node dom.NodeID
	tok  *Token
}

func (e *formattingEntry) isMarker() bool {
	return e.tok == nil
}

// maxReprocess limits the number of times a single token is re-dispatched
// after mode switches. No valid transition chain is longer than this.
const maxReprocess = 16

// NewTreeBuilder creates a tree builder which inserts nodes into doc.
func NewTreeBuilder(doc *dom.Document) *TreeBuilder {
	if doc == nil {
		doc = dom.NewDocument()
	}
	return &TreeBuilder{
		doc:        doc,
		mode:       Initial,
		afe:        arraylist.New(),
		framesetOK: true,
		errorf:     func(*Token, string, ...interface{}) {},
	}
}

// Document returns the document the tree builder inserts into.
func (tb *TreeBuilder) Document() *dom.Document {
	return tb.doc
}

// Mode returns the current insertion mode.
func (tb *TreeBuilder) Mode() InsertionMode {
	return tb.mode
}

// OpenElements returns a copy of the stack of open elements, current node last.
func (tb *TreeBuilder) OpenElements() []dom.NodeID {
	s := make([]dom.NodeID, len(tb.stack))
	copy(s, tb.stack)
	return s
}

// Done is true after the end-of-file token has been processed.
func (tb *TreeBuilder) Done() bool {
	return tb.done
}

// Process hands a token to the tree builder. The token is dispatched to the
// current insertion mode, and re-dispatched as long as a mode asks for it.
func (tb *TreeBuilder) Process(tok *Token) {
	tb.dropLF, tb.skipLF = tb.skipLF, false
	for i := 0; i < maxReprocess; i++ {
		next, reprocess := tb.Step(tb.mode, tok)
		if next != tb.mode {
			tracer().Debugf("insertion mode %s → %s at %s", tb.mode, next, tok)
			tb.mode = next
		}
		if !reprocess {
			return
		}
	}
	tb.errorf(tok, "token %s dropped after %d mode switches", tok, maxReprocess)
}

// Step is the transition function of the insertion-mode state machine. It
// applies the rules of mode to tok and returns the next mode, together with
// a flag telling if tok has to be processed again in the next mode.
// Rules of a mode which do not change the mode return tb.Mode().
func (tb *TreeBuilder) Step(mode InsertionMode, tok *Token) (InsertionMode, bool) {
	switch mode {
	case Initial:
		return tb.initialMode(tok)
	case BeforeHTML:
		return tb.beforeHTMLMode(tok)
	case BeforeHead:
		return tb.beforeHeadMode(tok)
	case InHead:
		return tb.inHeadMode(tok)
	case AfterHead:
		return tb.afterHeadMode(tok)
	case InBody:
		return tb.inBodyMode(tok)
	case Text:
		return tb.textMode(tok)
	case InTable:
		return tb.inTableMode(tok)
	case InRow:
		return tb.inRowMode(tok)
	case AfterBody:
		return tb.afterBodyMode(tok)
	case AfterAfterBody:
		return tb.afterAfterBodyMode(tok)
	}
	panic(fmt.Sprintf("unknown insertion mode %d", mode))
}

// --- Inserting nodes -------------------------------------------------------

func (tb *TreeBuilder) currentNode() dom.NodeID {
	if len(tb.stack) == 0 {
		return dom.NoNode
	}
	return tb.stack[len(tb.stack)-1]
}

func (tb *TreeBuilder) currentAtom() atom.Atom {
	return tb.doc.Atom(tb.currentNode())
}

// insertionPoint returns the appropriate place for inserting a node: a parent
// and a reference child to insert before (NoNode to append). With foster
// parenting enabled, content misplaced inside a table is inserted before the
// table.
func (tb *TreeBuilder) insertionPoint() (dom.NodeID, dom.NodeID) {
	target := tb.currentNode()
	if target == dom.NoNode {
		return tb.doc.Root(), dom.NoNode
	}
	if tb.foster && Is(tb.doc.Atom(target), TableStructure) {
		return tb.fosterParent()
	}
	return target, dom.NoNode
}

func (tb *TreeBuilder) fosterParent() (dom.NodeID, dom.NodeID) {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		if tb.doc.Atom(tb.stack[i]) != atom.Table {
			continue
		}
		table := tb.stack[i]
		if p := tb.doc.Parent(table); p != dom.NoNode {
			return p, table
		}
		return tb.stack[i-1], dom.NoNode
	}
	return tb.stack[0], dom.NoNode
}

func (tb *TreeBuilder) insertAt(parent, before, n dom.NodeID) {
	if err := tb.doc.InsertBefore(parent, n, before); err != nil {
		// the tree builder only inserts fresh or detached nodes
		tracer().Errorf("tree builder: %v", err)
	}
}

// createElement creates an element for a start tag token.
func (tb *TreeBuilder) createElement(tok *Token) dom.NodeID {
	el := tb.doc.CreateElement(tok.Name)
	for _, a := range tok.Attr {
		_ = tb.doc.SetAttribute(el, a.Key, a.Val)
	}
	if tb.onElement != nil {
		tb.onElement(el, tok)
	}
	return el
}

// insertElement creates an element for tok, inserts it at the appropriate
// place and pushes it onto the stack of open elements.
func (tb *TreeBuilder) insertElement(tok *Token) dom.NodeID {
	el := tb.createElement(tok)
	parent, before := tb.insertionPoint()
	tb.insertAt(parent, before, el)
	tb.push(el)
	return el
}

// insertVoid inserts an element which is popped immediately.
func (tb *TreeBuilder) insertVoid(tok *Token) dom.NodeID {
	el := tb.insertElement(tok)
	tb.pop()
	return el
}

// insertText inserts character data, merging it into a preceding text node.
func (tb *TreeBuilder) insertText(s string) {
	if s == "" {
		return
	}
	parent, before := tb.insertionPoint()
	if parent == tb.doc.Root() {
		return // no text at document level
	}
	prev := tb.doc.LastChild(parent)
	if before != dom.NoNode {
		prev = tb.doc.PreviousSibling(before)
	}
	if tb.doc.NodeType(prev) == dom.TextNode {
		_ = tb.doc.AppendText(prev, s)
		return
	}
	tb.insertAt(parent, before, tb.doc.CreateText(s))
}

// insertComment inserts a comment at the appropriate place, or as the last
// child of parent if parent is given.
func (tb *TreeBuilder) insertComment(tok *Token, parent dom.NodeID) {
	c := tb.doc.CreateComment(tok.Data)
	before := dom.NoNode
	if parent == dom.NoNode {
		parent, before = tb.insertionPoint()
	}
	tb.insertAt(parent, before, c)
}

// mergeAttributes adds attributes of tok missing from el.
func (tb *TreeBuilder) mergeAttributes(el dom.NodeID, tok *Token) {
	for _, a := range tok.Attr {
		if !tb.doc.HasAttribute(el, a.Key) {
			_ = tb.doc.SetAttribute(el, a.Key, a.Val)
		}
	}
}

// --- Stack of open elements ------------------------------------------------

func (tb *TreeBuilder) push(n dom.NodeID) {
	tb.stack = append(tb.stack, n)
}

func (tb *TreeBuilder) pop() dom.NodeID {
	if len(tb.stack) == 0 {
		return dom.NoNode
	}
	n := tb.stack[len(tb.stack)-1]
	tb.stack = tb.stack[:len(tb.stack)-1]
	return n
}

func (tb *TreeBuilder) indexOf(n dom.NodeID) int {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		if tb.stack[i] == n {
			return i
		}
	}
	return -1
}

func (tb *TreeBuilder) removeFromStack(n dom.NodeID) {
	if i := tb.indexOf(n); i >= 0 {
		tb.stack = append(tb.stack[:i], tb.stack[i+1:]...)
	}
}

// inScope checks if an element with atom a is in scope sc.
func (tb *TreeBuilder) inScope(a atom.Atom, sc scope) bool {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		b := tb.doc.Atom(tb.stack[i])
		if b == a {
			return true
		}
		if sc.isBoundary(b) {
			return false
		}
	}
	return false
}

// nodeInScope checks if a specific element is in the default scope.
func (tb *TreeBuilder) nodeInScope(n dom.NodeID) bool {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		if tb.stack[i] == n {
			return true
		}
		if defaultScope.isBoundary(tb.doc.Atom(tb.stack[i])) {
			return false
		}
	}
	return false
}

func (tb *TreeBuilder) headingInScope() bool {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		b := tb.doc.Atom(tb.stack[i])
		if Is(b, Heading) {
			return true
		}
		if defaultScope.isBoundary(b) {
			return false
		}
	}
	return false
}

// popUntil pops elements up to and including the topmost element matching pred.
func (tb *TreeBuilder) popUntil(pred func(atom.Atom) bool) {
	for len(tb.stack) > 0 {
		if pred(tb.doc.Atom(tb.pop())) {
			return
		}
	}
}

func (tb *TreeBuilder) popUntilTag(a atom.Atom) {
	tb.popUntil(func(b atom.Atom) bool { return a == b })
}

// popWhile pops elements as long as the current node matches pred.
func (tb *TreeBuilder) popWhile(pred func(atom.Atom) bool) {
	for len(tb.stack) > 1 && pred(tb.currentAtom()) {
		tb.pop()
	}
}

// generateImpliedEndTags pops elements with optional end tags, except for
// elements with atom except.
func (tb *TreeBuilder) generateImpliedEndTags(except atom.Atom) {
	tb.popWhile(func(a atom.Atom) bool {
		return a != except && Is(a, ImpliedEnd)
	})
}

// closeP closes a <p> element in button scope, if there is one.
func (tb *TreeBuilder) closeP(tok *Token) {
	if !tb.inScope(atom.P, buttonScope) {
		return
	}
	tb.generateImpliedEndTags(atom.P)
	if tb.currentAtom() != atom.P {
		tb.errorf(tok, "unclosed elements inside <p>")
	}
	tb.popUntilTag(atom.P)
}

func (tb *TreeBuilder) clearStackBackTo(tags ...atom.Atom) {
	tb.popWhile(func(a atom.Atom) bool {
		for _, t := range tags {
			if a == t {
				return false
			}
		}
		return true
	})
}

func (tb *TreeBuilder) clearBackToTable() {
	tb.clearStackBackTo(atom.Table, atom.Template, atom.Html)
}

func (tb *TreeBuilder) clearBackToTableBody() {
	tb.clearStackBackTo(atom.Tbody, atom.Thead, atom.Tfoot, atom.Template, atom.Html)
}

func (tb *TreeBuilder) clearBackToTableRow() {
	tb.clearStackBackTo(atom.Tr, atom.Template, atom.Html)
}

// resetInsertionMode determines the insertion mode from the stack of open
// elements, as after closing a table.
func (tb *TreeBuilder) resetInsertionMode() InsertionMode {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		last := i == 0
		switch tb.doc.Atom(tb.stack[i]) {
		case atom.Td, atom.Th:
			if !last {
				return InRow
			}
		case atom.Tr, atom.Tbody, atom.Thead, atom.Tfoot, atom.Caption:
			return InRow
		case atom.Table:
			return InTable
		case atom.Head:
			if !last {
				return InHead
			}
		case atom.Body:
			return InBody
		case atom.Html:
			if tb.head == dom.NoNode {
				return BeforeHead
			}
			return AfterHead
		}
	}
	return InBody
}

// --- Active formatting elements --------------------------------------------

func (tb *TreeBuilder) afeEntry(i int) *formattingEntry {
	e, ok := tb.afe.Get(i)
	if !ok {
		return nil
	}
	return e.(*formattingEntry)
}

func (tb *TreeBuilder) afeIndexOf(n dom.NodeID) int {
	for i := tb.afe.Size() - 1; i >= 0; i-- {
		if e := tb.afeEntry(i); !e.isMarker() && e.node == n {
			return i
		}
	}
	return -1
}

// lastFormatting finds the last formatting element with a given tag name
// after the last marker.
func (tb *TreeBuilder) lastFormatting(name string) (int, *formattingEntry) {
	for i := tb.afe.Size() - 1; i >= 0; i-- {
		e := tb.afeEntry(i)
		if e.isMarker() {
			break
		}
		if e.tok.Name == name {
			return i, e
		}
	}
	return -1, nil
}

func (tb *TreeBuilder) pushMarker() {
	tb.afe.Add(&formattingEntry{})
}

// pushFormatting appends a formatting element. No more than three elements
// with identical tag name and attributes are kept after the last marker.
func (tb *TreeBuilder) pushFormatting(n dom.NodeID, tok *Token) {
	count, earliest := 0, -1
	for i := tb.afe.Size() - 1; i >= 0; i-- {
		e := tb.afeEntry(i)
		if e.isMarker() {
			break
		}
		if sameStartTag(e.tok, tok) {
			count++
			earliest = i
		}
	}
	if count >= 3 {
		tb.afe.Remove(earliest)
	}
	tb.afe.Add(&formattingEntry{node: n, tok: tok})
}

func sameStartTag(a, b *Token) bool {
	if a.Name != b.Name || len(a.Attr) != len(b.Attr) {
		return false
	}
	for _, attr := range a.Attr {
		if v, ok := b.Attribute(attr.Key); !ok || v != attr.Val {
			return false
		}
	}
	return true
}

func (tb *TreeBuilder) clearToLastMarker() {
	for tb.afe.Size() > 0 {
		i := tb.afe.Size() - 1
		e := tb.afeEntry(i)
		tb.afe.Remove(i)
		if e.isMarker() {
			return
		}
	}
}

// reconstructFormatting re-opens formatting elements which have been closed
// implicitly, e.g. by the end of a paragraph.
func (tb *TreeBuilder) reconstructFormatting() {
	n := tb.afe.Size()
	if n == 0 {
		return
	}
	if e := tb.afeEntry(n - 1); e.isMarker() || tb.indexOf(e.node) >= 0 {
		return
	}
	i := n - 1
	for i > 0 {
		e := tb.afeEntry(i - 1)
		if e.isMarker() || tb.indexOf(e.node) >= 0 {
			break
		}
		i--
	}
	for ; i < n; i++ {
		e := tb.afeEntry(i)
		el := tb.insertElement(e.tok)
		tb.afe.Set(i, &formattingEntry{node: el, tok: e.tok})
	}
}
