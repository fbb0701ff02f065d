package html

import (
	"github.com/npillmayer/webcore/engine/dom"
)

// adoptionAgency handles end tags of formatting elements which are
// misnested with other elements, e.g.
//
//	<b>1<p>2</b>3</p>   ⇒   <b>1</b><p><b>2</b>3</p>
//
// It returns false if there is no matching formatting element, in which case
// the end tag is to be handled like any other end tag.
func (tb *TreeBuilder) adoptionAgency(tok *Token) bool {
	subject := tok.Name
	if cur := tb.currentNode(); tb.doc.TagName(cur) == subject && tb.afeIndexOf(cur) < 0 {
		tb.pop()
		return true
	}
	for outer := 0; outer < 8; outer++ {
		fi, fe := tb.lastFormatting(subject)
		if fe == nil {
			return false
		}
		feIndex := tb.indexOf(fe.node)
		if feIndex < 0 {
			tb.errorf(tok, "formatting element <%s> is not open", subject)
			tb.afe.Remove(fi)
			return true
		}
		if !tb.nodeInScope(fe.node) {
			tb.errorf(tok, "formatting element <%s> is not in scope", subject)
			return true
		}
		if fe.node != tb.currentNode() {
			tb.errorf(tok, "misnested %s", tok)
		}
		fbIndex := -1
		for i := feIndex + 1; i < len(tb.stack); i++ {
			if Is(tb.doc.Atom(tb.stack[i]), Special) {
				fbIndex = i
				break
			}
		}
		if fbIndex < 0 {
			tb.stack = tb.stack[:feIndex]
			tb.afe.Remove(fi)
			return true
		}
		furthestBlock := tb.stack[fbIndex]
		commonAncestor := tb.stack[feIndex-1]
		bookmark := fi + 1
		lastNode := furthestBlock
		nodeIndex := fbIndex
		for inner := 1; ; inner++ {
			nodeIndex--
			node := tb.stack[nodeIndex]
			if node == fe.node {
				break
			}
			ni := tb.afeIndexOf(node)
			if inner > 3 && ni >= 0 {
				tb.afe.Remove(ni)
				if ni < bookmark {
					bookmark--
				}
				if ni < fi {
					fi--
				}
				ni = -1
			}
			if ni < 0 {
				tb.stack = append(tb.stack[:nodeIndex], tb.stack[nodeIndex+1:]...)
				continue
			}
			e := tb.afeEntry(ni)
			clone := tb.createElement(e.tok)
			tb.afe.Set(ni, &formattingEntry{node: clone, tok: e.tok})
			tb.stack[nodeIndex] = clone
			if lastNode == furthestBlock {
				bookmark = ni + 1
			}
			tb.reparent(clone, lastNode)
			lastNode = clone
		}
		tb.insertAtCommonAncestor(commonAncestor, lastNode)
		el := tb.createElement(fe.tok)
		for c := tb.doc.FirstChild(furthestBlock); c != dom.NoNode; c = tb.doc.FirstChild(furthestBlock) {
			tb.reparent(el, c)
		}
		tb.reparent(furthestBlock, el)
		// move the formatting entry to the bookmark
		tb.afe.Remove(fi)
		if fi < bookmark {
			bookmark--
		}
		if bookmark > tb.afe.Size() {
			bookmark = tb.afe.Size()
		}
		tb.afe.Insert(bookmark, &formattingEntry{node: el, tok: fe.tok})
		tb.removeFromStack(fe.node)
		i := tb.indexOf(furthestBlock) + 1
		tb.stack = append(tb.stack, dom.NoNode)
		copy(tb.stack[i+1:], tb.stack[i:])
		tb.stack[i] = el
	}
	return true
}

// reparent appends child to parent, detaching it first if necessary.
func (tb *TreeBuilder) reparent(parent, child dom.NodeID) {
	if err := tb.doc.AppendChild(parent, child); err != nil {
		tracer().Errorf("tree builder: %v", err)
	}
}

// insertAtCommonAncestor inserts a node below the common ancestor of the
// adoption agency, foster parenting it if the ancestor is table structure.
func (tb *TreeBuilder) insertAtCommonAncestor(ancestor, n dom.NodeID) {
	if Is(tb.doc.Atom(ancestor), TableStructure) {
		parent, before := tb.fosterParent()
		if parent != ancestor {
			if before != dom.NoNode {
				if err := tb.doc.InsertBefore(parent, n, before); err != nil {
					tracer().Errorf("tree builder: %v", err)
				}
				return
			}
			tb.reparent(parent, n)
			return
		}
	}
	tb.reparent(ancestor, n)
}
