package html

import (
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	"golang.org/x/net/html/atom"
)

// InsertionMode is a state of the tree builder.
type InsertionMode uint8

// Insertion modes. InRow covers the table body, row and cell modes of the
// HTML standard; the applicable rules are derived from the stack of open
// elements.
const (
	Initial InsertionMode = iota
	BeforeHTML
	BeforeHead
	InHead
	AfterHead
	InBody
	Text
	InTable
	InRow
	AfterBody
	AfterAfterBody
)

var modeNames = [...]string{
	"initial", "before html", "before head", "in head", "after head", "in body",
	"text", "in table", "in row", "after body", "after after body",
}

func (m InsertionMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// splitSpace splits text into leading whitespace and the rest.
func splitSpace(s string) (string, string) {
	rest := strings.TrimLeft(s, whitespace)
	return s[:len(s)-len(rest)], rest
}

// --- Initial, before html, before head ------------------------------------

func (tb *TreeBuilder) initialMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case TextToken:
		if _, rest := splitSpace(tok.Data); rest == "" {
			return tb.mode, false
		} else {
			tok.Data = rest
		}
	case CommentToken:
		tb.insertComment(tok, tb.doc.Root())
		return tb.mode, false
	case DoctypeToken:
		quirks := tok.Doctype != nil && tok.Doctype.ForceQuirks
		tb.doc.SetDoctype(tok.Name, quirks)
		return BeforeHTML, false
	}
	tb.errorf(tok, "missing doctype, document is in quirks mode")
	tb.doc.SetQuirksMode(true)
	return BeforeHTML, true
}

func (tb *TreeBuilder) beforeHTMLMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case DoctypeToken:
		tb.errorf(tok, "misplaced doctype")
		return tb.mode, false
	case CommentToken:
		tb.insertComment(tok, tb.doc.Root())
		return tb.mode, false
	case TextToken:
		if _, rest := splitSpace(tok.Data); rest == "" {
			return tb.mode, false
		} else {
			tok.Data = rest
		}
	case StartTagToken:
		if tok.Atom == atom.Html {
			tb.insertElement(tok)
			return BeforeHead, false
		}
	case EndTagToken:
		switch tok.Atom {
		case atom.Head, atom.Body, atom.Html, atom.Br:
		default:
			tb.errorf(tok, "stray end tag %s", tok)
			return tb.mode, false
		}
	}
	tb.insertElement(startTag("html"))
	return BeforeHead, true
}

func (tb *TreeBuilder) beforeHeadMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case TextToken:
		if _, rest := splitSpace(tok.Data); rest == "" {
			return tb.mode, false
		} else {
			tok.Data = rest
		}
	case CommentToken:
		tb.insertComment(tok, dom.NoNode)
		return tb.mode, false
	case DoctypeToken:
		tb.errorf(tok, "misplaced doctype")
		return tb.mode, false
	case StartTagToken:
		switch tok.Atom {
		case atom.Html:
			return tb.inBodyMode(tok)
		case atom.Head:
			tb.head = tb.insertElement(tok)
			return InHead, false
		}
	case EndTagToken:
		switch tok.Atom {
		case atom.Head, atom.Body, atom.Html, atom.Br:
		default:
			tb.errorf(tok, "stray end tag %s", tok)
			return tb.mode, false
		}
	}
	tb.head = tb.insertElement(startTag("head"))
	return InHead, true
}

// --- In head, after head --------------------------------------------------

func (tb *TreeBuilder) inHeadMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case TextToken:
		ws, rest := splitSpace(tok.Data)
		tb.insertText(ws)
		if rest == "" {
			return tb.mode, false
		}
		tok.Data = rest
	case CommentToken:
		tb.insertComment(tok, dom.NoNode)
		return tb.mode, false
	case DoctypeToken:
		tb.errorf(tok, "misplaced doctype")
		return tb.mode, false
	case StartTagToken:
		switch tok.Atom {
		case atom.Html:
			return tb.inBodyMode(tok)
		case atom.Base, atom.Basefont, atom.Bgsound, atom.Link, atom.Meta:
			tb.insertVoid(tok)
			return tb.mode, false
		case atom.Title, atom.Noframes, atom.Style, atom.Script:
			tb.insertElement(tok)
			tb.original = tb.mode
			return Text, false
		case atom.Noscript:
			tb.insertElement(tok)
			return tb.mode, false
		case atom.Template:
			tb.insertElement(tok)
			tb.pushMarker()
			return tb.mode, false
		case atom.Head:
			tb.errorf(tok, "duplicate <head>")
			return tb.mode, false
		}
	case EndTagToken:
		switch tok.Atom {
		case atom.Head:
			tb.popHead()
			return AfterHead, false
		case atom.Noscript:
			if tb.currentAtom() == atom.Noscript {
				tb.pop()
			}
			return tb.mode, false
		case atom.Template:
			if tb.inScope(atom.Template, tableScope) {
				tb.generateImpliedEndTags(0)
				tb.popUntilTag(atom.Template)
				tb.clearToLastMarker()
			}
			return tb.mode, false
		case atom.Body, atom.Html, atom.Br:
		default:
			tb.errorf(tok, "stray end tag %s", tok)
			return tb.mode, false
		}
	}
	tb.popHead()
	return AfterHead, true
}

// popHead pops the head element and everything above it.
func (tb *TreeBuilder) popHead() {
	if i := tb.indexOf(tb.head); i >= 0 {
		tb.stack = tb.stack[:i]
	}
}

func (tb *TreeBuilder) afterHeadMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case TextToken:
		ws, rest := splitSpace(tok.Data)
		tb.insertText(ws)
		if rest == "" {
			return tb.mode, false
		}
		tok.Data = rest
	case CommentToken:
		tb.insertComment(tok, dom.NoNode)
		return tb.mode, false
	case DoctypeToken:
		tb.errorf(tok, "misplaced doctype")
		return tb.mode, false
	case StartTagToken:
		switch {
		case tok.Atom == atom.Html:
			return tb.inBodyMode(tok)
		case tok.Atom == atom.Body || tok.Atom == atom.Frameset:
			tb.insertElement(tok)
			tb.framesetOK = false
			return InBody, false
		case Is(tok.Atom, HeadContent):
			tb.errorf(tok, "%s after </head>", tok)
			if tb.head == dom.NoNode {
				return tb.mode, false
			}
			tb.push(tb.head)
			next, reprocess := tb.inHeadMode(tok)
			tb.removeFromStack(tb.head)
			return next, reprocess
		case tok.Atom == atom.Head:
			tb.errorf(tok, "duplicate <head>")
			return tb.mode, false
		}
	case EndTagToken:
		switch tok.Atom {
		case atom.Body, atom.Html, atom.Br:
		default:
			tb.errorf(tok, "stray end tag %s", tok)
			return tb.mode, false
		}
	}
	tb.insertElement(startTag("body"))
	return InBody, true
}

// --- Text ------------------------------------------------------------------

// textMode handles the content of raw text elements, which the tokenizer
// delivers as a single text token, followed by an end tag.
func (tb *TreeBuilder) textMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case TextToken:
		data := tok.Data
		if tb.dropLF {
			data = strings.TrimPrefix(data, "\n")
		}
		tb.insertText(data)
		return tb.mode, false
	case EOFToken:
		tb.errorf(tok, "end of file in <%s>", tb.doc.TagName(tb.currentNode()))
		tb.pop()
		return tb.original, true
	case EndTagToken:
		tb.pop()
		return tb.original, false
	}
	tb.pop()
	return tb.original, true
}

// --- After body ------------------------------------------------------------

func (tb *TreeBuilder) afterBodyMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case TextToken:
		if tok.IsWhitespace() {
			return tb.inBodyMode(tok)
		}
	case CommentToken:
		if len(tb.stack) > 0 {
			tb.insertComment(tok, tb.stack[0])
		}
		return tb.mode, false
	case DoctypeToken:
		return tb.mode, false
	case StartTagToken:
		if tok.Atom == atom.Html {
			return tb.inBodyMode(tok)
		}
	case EndTagToken:
		if tok.Atom == atom.Html {
			return AfterAfterBody, false
		}
	case EOFToken:
		tb.done = true
		return tb.mode, false
	}
	tb.errorf(tok, "content after </body>: %s", tok)
	return InBody, true
}

func (tb *TreeBuilder) afterAfterBodyMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case CommentToken:
		tb.insertComment(tok, tb.doc.Root())
		return tb.mode, false
	case DoctypeToken:
		return tb.inBodyMode(tok)
	case TextToken:
		if tok.IsWhitespace() {
			return tb.inBodyMode(tok)
		}
	case StartTagToken:
		if tok.Atom == atom.Html {
			return tb.inBodyMode(tok)
		}
	case EOFToken:
		tb.done = true
		return tb.mode, false
	}
	tb.errorf(tok, "content after </html>: %s", tok)
	return InBody, true
}
