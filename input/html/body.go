package html

import (
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	"golang.org/x/net/html/atom"
)

// inBodyMode applies the rules for the content of <body>. Most recovery of
// malformed markup happens here.
func (tb *TreeBuilder) inBodyMode(tok *Token) (InsertionMode, bool) {
	switch tok.Type {
	case TextToken:
		data := tok.Data
		if tb.dropLF {
			data = strings.TrimPrefix(data, "\n")
		}
		if data == "" {
			return tb.mode, false
		}
		tb.reconstructFormatting()
		tb.insertText(data)
		if strings.TrimLeft(data, whitespace) != "" {
			tb.framesetOK = false
		}
	case CommentToken:
		tb.insertComment(tok, dom.NoNode)
	case DoctypeToken:
		tb.errorf(tok, "misplaced doctype")
	case StartTagToken:
		return tb.inBodyStartTag(tok)
	case EndTagToken:
		return tb.inBodyEndTag(tok)
	case EOFToken:
		tb.done = true
	}
	return tb.mode, false
}

func (tb *TreeBuilder) inBodyStartTag(tok *Token) (InsertionMode, bool) {
	switch a := tok.Atom; {
	case a == atom.Html:
		tb.errorf(tok, "misplaced <html>")
		if len(tb.stack) > 0 {
			tb.mergeAttributes(tb.stack[0], tok)
		}
	case Is(a, HeadContent) && a != atom.Head:
		return tb.inHeadMode(tok)
	case a == atom.Body:
		tb.errorf(tok, "misplaced <body>")
		if len(tb.stack) > 1 && tb.doc.Atom(tb.stack[1]) == atom.Body {
			tb.framesetOK = false
			tb.mergeAttributes(tb.stack[1], tok)
		}
	case a == atom.Frameset:
		tb.errorf(tok, "misplaced <frameset>")
	case Is(a, Heading):
		tb.closeP(tok)
		if Is(tb.currentAtom(), Heading) {
			tb.errorf(tok, "nested heading %s", tok)
			tb.pop()
		}
		tb.insertElement(tok)
	case a == atom.Pre || a == atom.Listing:
		tb.closeP(tok)
		tb.insertElement(tok)
		tb.skipLF = true
		tb.framesetOK = false
	case a == atom.Form:
		if tb.form != dom.NoNode {
			tb.errorf(tok, "nested <form>")
			break
		}
		tb.closeP(tok)
		tb.form = tb.insertElement(tok)
	case a == atom.Plaintext:
		tb.closeP(tok)
		tb.insertElement(tok)
		if tb.tokenizer != nil {
			tb.tokenizer.SetRawText("plaintext", false)
		}
	case a == atom.Xmp:
		tb.closeP(tok)
		tb.reconstructFormatting()
		tb.framesetOK = false
		return tb.rawTextElement(tok)
	case a == atom.Li:
		tb.closeListItem(tok, func(b atom.Atom) bool { return b == atom.Li })
		tb.insertElement(tok)
	case a == atom.Dd || a == atom.Dt:
		tb.closeListItem(tok, func(b atom.Atom) bool { return b == atom.Dd || b == atom.Dt })
		tb.insertElement(tok)
	case Is(a, ClosesP):
		tb.closeP(tok)
		tb.insertElement(tok)
	case a == atom.Button:
		if tb.inScope(atom.Button, defaultScope) {
			tb.errorf(tok, "nested <button>")
			tb.generateImpliedEndTags(0)
			tb.popUntilTag(atom.Button)
		}
		tb.reconstructFormatting()
		tb.insertElement(tok)
		tb.framesetOK = false
	case a == atom.A:
		if _, e := tb.lastFormatting("a"); e != nil {
			tb.errorf(tok, "nested <a>")
			node := e.node
			tb.adoptionAgency(&Token{Type: EndTagToken, Name: "a", Atom: atom.A})
			if i := tb.afeIndexOf(node); i >= 0 {
				tb.afe.Remove(i)
			}
			tb.removeFromStack(node)
		}
		tb.reconstructFormatting()
		tb.pushFormatting(tb.insertElement(tok), tok)
	case a == atom.Nobr:
		tb.reconstructFormatting()
		if tb.inScope(atom.Nobr, defaultScope) {
			tb.errorf(tok, "nested <nobr>")
			tb.adoptionAgency(&Token{Type: EndTagToken, Name: "nobr", Atom: atom.Nobr})
			tb.reconstructFormatting()
		}
		tb.pushFormatting(tb.insertElement(tok), tok)
	case Is(a, Formatting):
		tb.reconstructFormatting()
		tb.pushFormatting(tb.insertElement(tok), tok)
	case a == atom.Applet || a == atom.Marquee || a == atom.Object:
		tb.reconstructFormatting()
		tb.insertElement(tok)
		tb.pushMarker()
		tb.framesetOK = false
	case a == atom.Table:
		if !tb.doc.QuirksMode() {
			tb.closeP(tok)
		}
		tb.insertElement(tok)
		tb.framesetOK = false
		return InTable, false
	case a == atom.Area || a == atom.Br || a == atom.Embed || a == atom.Img ||
		a == atom.Keygen || a == atom.Wbr:
		tb.reconstructFormatting()
		tb.insertVoid(tok)
		tb.framesetOK = false
	case a == atom.Input:
		tb.reconstructFormatting()
		tb.insertVoid(tok)
		if t, _ := tok.Attribute("type"); !strings.EqualFold(t, "hidden") {
			tb.framesetOK = false
		}
	case a == atom.Param || a == atom.Source || a == atom.Track:
		tb.insertVoid(tok)
	case a == atom.Hr:
		tb.closeP(tok)
		tb.insertVoid(tok)
		tb.framesetOK = false
	case a == atom.Image:
		tb.errorf(tok, "<image> treated as <img>")
		tok.Name, tok.Atom = "img", atom.Img
		return tb.mode, true
	case a == atom.Textarea:
		tb.skipLF = true
		tb.framesetOK = false
		return tb.rawTextElement(tok)
	case a == atom.Iframe:
		tb.framesetOK = false
		return tb.rawTextElement(tok)
	case a == atom.Noembed:
		return tb.rawTextElement(tok)
	case a == atom.Select:
		tb.reconstructFormatting()
		tb.insertElement(tok)
		tb.framesetOK = false
	case a == atom.Optgroup || a == atom.Option:
		if tb.currentAtom() == atom.Option {
			tb.pop()
		}
		tb.reconstructFormatting()
		tb.insertElement(tok)
	case a == atom.Rb || a == atom.Rtc:
		if tb.inScope(atom.Ruby, defaultScope) {
			tb.generateImpliedEndTags(0)
		}
		tb.insertElement(tok)
	case a == atom.Rp || a == atom.Rt:
		if tb.inScope(atom.Ruby, defaultScope) {
			tb.generateImpliedEndTags(atom.Rtc)
		}
		tb.insertElement(tok)
	case a == atom.Caption || a == atom.Col || a == atom.Colgroup || a == atom.Frame ||
		a == atom.Head || a == atom.Tbody || a == atom.Td || a == atom.Tfoot ||
		a == atom.Th || a == atom.Thead || a == atom.Tr:
		tb.errorf(tok, "misplaced %s", tok)
	default:
		tb.reconstructFormatting()
		tb.insertElement(tok)
	}
	return tb.mode, false
}

// rawTextElement inserts an element whose content the tokenizer delivers as
// raw text, and switches to Text mode.
func (tb *TreeBuilder) rawTextElement(tok *Token) (InsertionMode, bool) {
	tb.insertElement(tok)
	tb.original = tb.mode
	return Text, false
}

// closeListItem implicitly closes an open list item before a new one starts.
func (tb *TreeBuilder) closeListItem(tok *Token, isItem func(atom.Atom) bool) {
	tb.framesetOK = false
	for i := len(tb.stack) - 1; i >= 0; i-- {
		a := tb.doc.Atom(tb.stack[i])
		if isItem(a) {
			tb.generateImpliedEndTags(a)
			if tb.currentAtom() != a {
				tb.errorf(tok, "unclosed elements inside <%s>", tb.doc.TagName(tb.stack[i]))
			}
			tb.popUntilTag(a)
			break
		}
		if Is(a, Special) && a != atom.Address && a != atom.Div && a != atom.P {
			break
		}
	}
	tb.closeP(tok)
}

func (tb *TreeBuilder) inBodyEndTag(tok *Token) (InsertionMode, bool) {
	switch a := tok.Atom; {
	case a == atom.Template:
		return tb.inHeadMode(tok)
	case a == atom.Body:
		if !tb.inScope(atom.Body, defaultScope) {
			tb.errorf(tok, "stray </body>")
			break
		}
		return AfterBody, false
	case a == atom.Html:
		if !tb.inScope(atom.Body, defaultScope) {
			tb.errorf(tok, "stray </html>")
			break
		}
		return AfterBody, true
	case a == atom.Form:
		node := tb.form
		tb.form = dom.NoNode
		if node == dom.NoNode || !tb.nodeInScope(node) {
			tb.errorf(tok, "stray </form>")
			break
		}
		tb.generateImpliedEndTags(0)
		if tb.currentNode() != node {
			tb.errorf(tok, "unclosed elements inside <form>")
		}
		tb.removeFromStack(node)
	case a == atom.P:
		if !tb.inScope(atom.P, buttonScope) {
			tb.errorf(tok, "stray </p>")
			tb.insertElement(startTag("p"))
		}
		tb.closeP(tok)
	case a == atom.Li:
		if !tb.inScope(atom.Li, listItemScope) {
			tb.errorf(tok, "stray </li>")
			break
		}
		tb.closeElement(tok, atom.Li)
	case a == atom.Dd || a == atom.Dt:
		if !tb.inScope(a, defaultScope) {
			tb.errorf(tok, "stray %s", tok)
			break
		}
		tb.closeElement(tok, a)
	case Is(a, Heading):
		if !tb.headingInScope() {
			tb.errorf(tok, "stray %s", tok)
			break
		}
		tb.generateImpliedEndTags(0)
		if tb.currentAtom() != a {
			tb.errorf(tok, "heading closed by %s", tok)
		}
		tb.popUntil(func(b atom.Atom) bool { return Is(b, Heading) })
	case Is(a, Formatting):
		if !tb.adoptionAgency(tok) {
			tb.anyOtherEndTag(tok)
		}
	case a == atom.Applet || a == atom.Marquee || a == atom.Object:
		if !tb.inScope(a, defaultScope) {
			tb.errorf(tok, "stray %s", tok)
			break
		}
		tb.generateImpliedEndTags(0)
		tb.popUntilTag(a)
		tb.clearToLastMarker()
	case a == atom.Br:
		tb.errorf(tok, "</br> treated as <br>")
		tb.reconstructFormatting()
		tb.insertVoid(startTag("br"))
		tb.framesetOK = false
	case a == atom.Button || Is(a, ClosesP):
		if !tb.inScope(a, defaultScope) {
			tb.errorf(tok, "stray %s", tok)
			break
		}
		tb.generateImpliedEndTags(0)
		if tb.currentAtom() != a {
			tb.errorf(tok, "unclosed elements inside <%s>", tok.Name)
		}
		tb.popUntilTag(a)
	default:
		tb.anyOtherEndTag(tok)
	}
	return tb.mode, false
}

// closeElement closes an element with optional end tag, which is known to be
// in scope.
func (tb *TreeBuilder) closeElement(tok *Token, a atom.Atom) {
	tb.generateImpliedEndTags(a)
	if tb.currentAtom() != a {
		tb.errorf(tok, "unclosed elements inside <%s>", tok.Name)
	}
	tb.popUntilTag(a)
}

// anyOtherEndTag closes the innermost open element with the tag name of tok,
// unless a special element is open inside of it.
func (tb *TreeBuilder) anyOtherEndTag(tok *Token) {
	for i := len(tb.stack) - 1; i >= 0; i-- {
		n := tb.stack[i]
		if tb.doc.TagName(n) == tok.Name {
			tb.popWhile(func(b atom.Atom) bool {
				return Is(b, ImpliedEnd) && tb.doc.TagName(tb.currentNode()) != tok.Name
			})
			if tb.currentNode() != n {
				tb.errorf(tok, "unclosed elements inside <%s>", tok.Name)
			}
			if i > 0 {
				tb.stack = tb.stack[:i]
			}
			return
		}
		if Is(tb.doc.Atom(n), Special) {
			tb.errorf(tok, "stray %s", tok)
			return
		}
	}
}
