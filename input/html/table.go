package html

import (
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	"golang.org/x/net/html/atom"
)

// fostered applies the in-body rules with foster parenting enabled: content
// misplaced inside table structure is moved in front of the table.
func (tb *TreeBuilder) fostered(tok *Token) (InsertionMode, bool) {
	tb.errorf(tok, "%s inside table", tok)
	tb.foster = true
	next, reprocess := tb.inBodyMode(tok)
	tb.foster = false
	return next, reprocess
}

func (tb *TreeBuilder) inTableMode(tok *Token) (InsertionMode, bool) {
	if tb.currentAtom() == atom.Colgroup && !(tok.Type == StartTagToken && tok.Atom == atom.Col) &&
		tok.Type != CommentToken && !tok.IsWhitespace() {
		tb.pop() // implied </colgroup>
		if tok.Type == EndTagToken && tok.Atom == atom.Colgroup {
			return tb.mode, false
		}
	}
	switch tok.Type {
	case TextToken:
		if !Is(tb.currentAtom(), TableStructure) {
			return tb.inBodyMode(tok)
		}
		if tok.IsWhitespace() {
			tb.insertText(tok.Data)
			return tb.mode, false
		}
		return tb.fostered(tok)
	case CommentToken:
		tb.insertComment(tok, dom.NoNode)
		return tb.mode, false
	case DoctypeToken:
		tb.errorf(tok, "misplaced doctype")
		return tb.mode, false
	case StartTagToken:
		switch tok.Atom {
		case atom.Caption:
			tb.clearBackToTable()
			tb.pushMarker()
			tb.insertElement(tok)
			return InRow, false
		case atom.Colgroup:
			tb.clearBackToTable()
			tb.insertElement(tok)
			return tb.mode, false
		case atom.Col:
			if tb.currentAtom() != atom.Colgroup {
				tb.clearBackToTable()
				tb.insertElement(startTag("colgroup"))
			}
			tb.insertVoid(tok)
			return tb.mode, false
		case atom.Tbody, atom.Tfoot, atom.Thead:
			tb.clearBackToTable()
			tb.insertElement(tok)
			return InRow, false
		case atom.Td, atom.Th, atom.Tr:
			tb.clearBackToTable()
			tb.insertElement(startTag("tbody"))
			return InRow, true
		case atom.Table:
			tb.errorf(tok, "nested <table>")
			if !tb.inScope(atom.Table, tableScope) {
				return tb.mode, false
			}
			tb.popUntilTag(atom.Table)
			return tb.resetInsertionMode(), true
		case atom.Style, atom.Script, atom.Template:
			return tb.inHeadMode(tok)
		case atom.Input:
			if t, _ := tok.Attribute("type"); strings.EqualFold(t, "hidden") {
				tb.errorf(tok, "hidden <input> inside table")
				tb.insertVoid(tok)
				return tb.mode, false
			}
		case atom.Form:
			tb.errorf(tok, "<form> inside table")
			if tb.form == dom.NoNode {
				tb.form = tb.insertVoid(tok)
			}
			return tb.mode, false
		}
	case EndTagToken:
		switch tok.Atom {
		case atom.Table:
			if !tb.inScope(atom.Table, tableScope) {
				tb.errorf(tok, "stray </table>")
				return tb.mode, false
			}
			tb.popUntilTag(atom.Table)
			return tb.resetInsertionMode(), false
		case atom.Body, atom.Caption, atom.Col, atom.Colgroup, atom.Html,
			atom.Tbody, atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Tr:
			tb.errorf(tok, "stray %s", tok)
			return tb.mode, false
		case atom.Template:
			return tb.inHeadMode(tok)
		}
	case EOFToken:
		return tb.inBodyMode(tok)
	}
	return tb.fostered(tok)
}

// tableContext returns the innermost table-related element on the stack of
// open elements. It selects the rules InRow mode applies.
func (tb *TreeBuilder) tableContext() atom.Atom {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		switch a := tb.doc.Atom(tb.stack[i]); a {
		case atom.Td, atom.Th, atom.Tr, atom.Tbody, atom.Thead, atom.Tfoot,
			atom.Caption, atom.Table, atom.Html:
			return a
		}
	}
	return 0
}

// inRowMode covers the contents of table sections, rows, cells and captions.
func (tb *TreeBuilder) inRowMode(tok *Token) (InsertionMode, bool) {
	switch tb.tableContext() {
	case atom.Td, atom.Th:
		return tb.inCell(tok)
	case atom.Caption:
		return tb.inCaption(tok)
	case atom.Tr:
		return tb.inTableRow(tok)
	case atom.Tbody, atom.Thead, atom.Tfoot:
		return tb.inTableBody(tok)
	}
	return tb.resetInsertionMode(), true
}

func isTableSectionTag(a atom.Atom) bool {
	switch a {
	case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Td, atom.Tfoot,
		atom.Th, atom.Thead, atom.Tr:
		return true
	}
	return false
}

func (tb *TreeBuilder) closeCell() {
	tb.generateImpliedEndTags(0)
	tb.popUntil(func(a atom.Atom) bool { return a == atom.Td || a == atom.Th })
	tb.clearToLastMarker()
}

func (tb *TreeBuilder) cellInScope() bool {
	return tb.inScope(atom.Td, tableScope) || tb.inScope(atom.Th, tableScope)
}

func (tb *TreeBuilder) inCell(tok *Token) (InsertionMode, bool) {
	switch {
	case tok.Type == StartTagToken && isTableSectionTag(tok.Atom):
		if !tb.cellInScope() {
			tb.errorf(tok, "misplaced %s", tok)
			return tb.mode, false
		}
		tb.closeCell()
		return tb.mode, true
	case tok.Type == EndTagToken:
		switch tok.Atom {
		case atom.Td, atom.Th:
			if !tb.inScope(tok.Atom, tableScope) {
				tb.errorf(tok, "stray %s", tok)
				return tb.mode, false
			}
			tb.generateImpliedEndTags(0)
			if tb.currentAtom() != tok.Atom {
				tb.errorf(tok, "unclosed elements inside cell")
			}
			tb.popUntilTag(tok.Atom)
			tb.clearToLastMarker()
			return tb.mode, false
		case atom.Body, atom.Caption, atom.Col, atom.Colgroup, atom.Html:
			tb.errorf(tok, "stray %s", tok)
			return tb.mode, false
		case atom.Table, atom.Tbody, atom.Tfoot, atom.Thead, atom.Tr:
			if !tb.inScope(tok.Atom, tableScope) {
				tb.errorf(tok, "stray %s", tok)
				return tb.mode, false
			}
			tb.closeCell()
			return tb.mode, true
		}
	}
	return tb.inBodyMode(tok)
}

func (tb *TreeBuilder) closeCaption(tok *Token) bool {
	if !tb.inScope(atom.Caption, tableScope) {
		tb.errorf(tok, "stray %s", tok)
		return false
	}
	tb.generateImpliedEndTags(0)
	tb.popUntilTag(atom.Caption)
	tb.clearToLastMarker()
	return true
}

func (tb *TreeBuilder) inCaption(tok *Token) (InsertionMode, bool) {
	switch {
	case tok.Type == EndTagToken && tok.Atom == atom.Caption:
		if tb.closeCaption(tok) {
			return InTable, false
		}
		return tb.mode, false
	case tok.Type == StartTagToken && isTableSectionTag(tok.Atom),
		tok.Type == EndTagToken && tok.Atom == atom.Table:
		if tb.closeCaption(tok) {
			return InTable, true
		}
		return tb.mode, false
	case tok.Type == EndTagToken && (isTableSectionTag(tok.Atom) ||
		tok.Atom == atom.Body || tok.Atom == atom.Html):
		tb.errorf(tok, "stray %s", tok)
		return tb.mode, false
	}
	return tb.inBodyMode(tok)
}

func (tb *TreeBuilder) inTableRow(tok *Token) (InsertionMode, bool) {
	closeRow := func() bool {
		if !tb.inScope(atom.Tr, tableScope) {
			tb.errorf(tok, "stray %s", tok)
			return false
		}
		tb.clearBackToTableRow()
		tb.pop()
		return true
	}
	switch tok.Type {
	case StartTagToken:
		switch tok.Atom {
		case atom.Td, atom.Th:
			tb.clearBackToTableRow()
			tb.insertElement(tok)
			tb.pushMarker()
			return tb.mode, false
		case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Tfoot, atom.Thead, atom.Tr:
			return tb.mode, closeRow()
		}
	case EndTagToken:
		switch tok.Atom {
		case atom.Tr:
			closeRow()
			return tb.mode, false
		case atom.Table:
			return tb.mode, closeRow()
		case atom.Tbody, atom.Tfoot, atom.Thead:
			if !tb.inScope(tok.Atom, tableScope) {
				tb.errorf(tok, "stray %s", tok)
				return tb.mode, false
			}
			return tb.mode, closeRow()
		case atom.Body, atom.Caption, atom.Col, atom.Colgroup, atom.Html, atom.Td, atom.Th:
			tb.errorf(tok, "stray %s", tok)
			return tb.mode, false
		}
	}
	return tb.inTableMode(tok)
}

func (tb *TreeBuilder) inTableBody(tok *Token) (InsertionMode, bool) {
	sectionInScope := func() bool {
		return tb.inScope(atom.Tbody, tableScope) || tb.inScope(atom.Thead, tableScope) ||
			tb.inScope(atom.Tfoot, tableScope)
	}
	switch tok.Type {
	case StartTagToken:
		switch tok.Atom {
		case atom.Tr:
			tb.clearBackToTableBody()
			tb.insertElement(tok)
			return tb.mode, false
		case atom.Td, atom.Th:
			tb.errorf(tok, "%s outside of row", tok)
			tb.clearBackToTableBody()
			tb.insertElement(startTag("tr"))
			return tb.mode, true
		case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Tfoot, atom.Thead:
			if !sectionInScope() {
				tb.errorf(tok, "misplaced %s", tok)
				return tb.mode, false
			}
			tb.clearBackToTableBody()
			tb.pop()
			return InTable, true
		}
	case EndTagToken:
		switch tok.Atom {
		case atom.Tbody, atom.Tfoot, atom.Thead:
			if !tb.inScope(tok.Atom, tableScope) {
				tb.errorf(tok, "stray %s", tok)
				return tb.mode, false
			}
			tb.clearBackToTableBody()
			tb.pop()
			return InTable, false
		case atom.Table:
			if !sectionInScope() {
				tb.errorf(tok, "stray %s", tok)
				return tb.mode, false
			}
			tb.clearBackToTableBody()
			tb.pop()
			return InTable, true
		case atom.Body, atom.Caption, atom.Col, atom.Colgroup, atom.Html, atom.Td, atom.Th, atom.Tr:
			tb.errorf(tok, "stray %s", tok)
			return tb.mode, false
		}
	}
	return tb.inTableMode(tok)
}
