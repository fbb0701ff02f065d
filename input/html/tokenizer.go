package html

import (
	"bytes"
	"errors"
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tokState is a state of the tokenizer's state machine.
type tokState uint8

// Tokenizer states. The names follow the states of the HTML standard, with
// some of them merged.
const (
	stateData tokState = iota
	stateTagOpen
	stateEndTagOpen
	stateTagName
	stateBeforeAttrName
	stateAttrName
	stateAfterAttrName
	stateBeforeAttrValue
	stateAttrValueDoubleQuoted
	stateAttrValueSingleQuoted
	stateAttrValueUnquoted
	stateAfterAttrValueQuoted
	stateSelfClosingStartTag
	stateMarkupDeclarationOpen
	stateComment
	stateBogusComment
	stateDoctype
)

var stateNames = [...]string{
	"data", "tag-open", "end-tag-open", "tag-name", "before-attr-name", "attr-name",
	"after-attr-name", "before-attr-value", "attr-value-dq", "attr-value-sq",
	"attr-value-unquoted", "after-attr-value", "self-closing", "markup-declaration",
	"comment", "bogus-comment", "doctype",
}

func (s tokState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "?"
}

type scanStatus uint8

const (
	scanOK         scanStatus = iota // token complete
	scanIncomplete                   // more input needed
	scanSkip                         // input consumed without a token
)

// ErrInputClosed is returned when writing to a tokenizer after CloseInput.
var ErrInputClosed = errors.New("tokenizer input has been closed")

// Tokenizer splits UTF-8 encoded HTML into tokens. It implements io.Writer:
// clients write input in chunks and pull tokens with Next. A token is not
// produced before it is complete; a chunk boundary inside a token lets Next
// report that it needs more input.
type Tokenizer struct {
	buf        []byte
	pos        int // read position in buf, start of the next token
	base       int // stream offset of buf[0]
	line       int // line number at pos, starting at 1
	eof        bool
	emittedEOF bool
	rawTag     string // if set, scan raw text until the end tag of rawTag
	rcdata     bool   // raw text contains character references
	errors     []tokError
}

type tokError struct {
	offset, line int
	msg          string
}

// NewTokenizer creates a tokenizer without input.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{line: 1}
}

// Write appends input. It implements io.Writer.
func (z *Tokenizer) Write(p []byte) (int, error) {
	if z.eof {
		return 0, ErrInputClosed
	}
	if z.pos > 0 && z.pos >= len(z.buf)/2 {
		n := copy(z.buf, z.buf[z.pos:])
		z.buf = z.buf[:n]
		z.base += z.pos
		z.pos = 0
	}
	z.buf = append(z.buf, p...)
	return len(p), nil
}

// CloseInput signals that no more input will follow. Pending incomplete
// tokens are completed with end-of-file recovery.
func (z *Tokenizer) CloseInput() {
	z.eof = true
}

// Offset returns the stream offset of the next token.
func (z *Tokenizer) Offset() int {
	return z.base + z.pos
}

// Line returns the line number of the next token.
func (z *Tokenizer) Line() int {
	return z.line
}

// SetRawText switches the tokenizer into raw text mode, where everything up
// to the end tag of tag is a single text token. If rcdata is set, character
// references in the text are decoded. The tokenizer switches on its own after
// start tags of raw text elements; the tree builder uses this for other cases.
func (z *Tokenizer) SetRawText(tag string, rcdata bool) {
	z.rawTag = tag
	z.rcdata = rcdata
}

// Next returns the next token. If the input seen so far does not hold a
// complete token, Next returns false; the client should write more input or
// close it. After CloseInput, the last token is an EOFToken.
func (z *Tokenizer) Next() (Token, bool) {
	for {
		if z.pos >= len(z.buf) {
			if z.eof && !z.emittedEOF {
				z.emittedEOF = true
				return Token{Type: EOFToken, Offset: z.Offset(), Line: z.line}, true
			}
			return Token{}, false
		}
		var tok Token
		var status scanStatus
		if z.rawTag != "" {
			tok, status = z.scanRawText()
		} else if z.buf[z.pos] == '<' {
			tok, status = z.scanMarkup()
		} else {
			tok, status = z.scanText()
		}
		switch status {
		case scanIncomplete:
			return Token{}, false
		case scanOK:
			return tok, true
		}
	}
}

func (z *Tokenizer) errorf(msg string) {
	z.errors = append(z.errors, tokError{offset: z.Offset(), line: z.line, msg: msg})
}

// takeErrors returns and clears the errors collected so far.
func (z *Tokenizer) takeErrors() []tokError {
	errs := z.errors
	z.errors = nil
	return errs
}

// advance moves the read position to i.
func (z *Tokenizer) advance(i int) {
	z.line += bytes.Count(z.buf[z.pos:i], []byte{'\n'})
	z.pos = i
}

func (z *Tokenizer) emit(tok Token, end int) (Token, scanStatus) {
	tok.Offset, tok.Line = z.Offset(), z.line
	z.advance(end)
	if tok.Type == StartTagToken {
		if c := capabilities(tok.Atom); c&RawText != 0 {
			z.SetRawText(tok.Name, false)
		} else if c&EscapableRawText != 0 {
			z.SetRawText(tok.Name, true)
		}
	}
	return tok, scanOK
}

// opensTag is true if c, following '<', starts markup.
func opensTag(c byte) bool {
	return isASCIILetter(c) || c == '/' || c == '!' || c == '?'
}

// scanText scans character data up to the next markup.
func (z *Tokenizer) scanText() (Token, scanStatus) {
	i := z.pos
	for {
		j := bytes.IndexByte(z.buf[i:], '<')
		if j < 0 {
			if !z.eof {
				return Token{}, scanIncomplete
			}
			return z.emit(textToken(z.buf[z.pos:], true), len(z.buf))
		}
		k := i + j
		if k+1 >= len(z.buf) {
			if !z.eof {
				return Token{}, scanIncomplete
			}
			return z.emit(textToken(z.buf[z.pos:], true), len(z.buf))
		}
		if opensTag(z.buf[k+1]) {
			return z.emit(textToken(z.buf[z.pos:k], true), k)
		}
		i = k + 1
	}
}

func textToken(b []byte, decode bool) Token {
	s := string(b)
	if decode && strings.IndexByte(s, '&') >= 0 {
		s = xhtml.UnescapeString(s)
	}
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", "�")
	}
	return Token{Type: TextToken, Data: s}
}

// scanRawText scans the content of raw text elements like <script>.
func (z *Tokenizer) scanRawText() (Token, scanStatus) {
	i := z.pos
	n := len(z.rawTag)
	for {
		j := bytes.Index(z.buf[i:], []byte("</"))
		if j < 0 {
			break
		}
		k := i + j
		if k+2+n >= len(z.buf) { // need the character after the tag name
			if !z.eof {
				return Token{}, scanIncomplete
			}
			break
		}
		if strings.EqualFold(string(z.buf[k+2:k+2+n]), z.rawTag) {
			if c := z.buf[k+2+n]; isSpace(c) || c == '/' || c == '>' {
				rcdata := z.rcdata
				z.rawTag, z.rcdata = "", false
				if k == z.pos {
					return Token{}, scanSkip
				}
				return z.emit(textToken(z.buf[z.pos:k], rcdata), k)
			}
		}
		i = k + 2
	}
	if !z.eof {
		return Token{}, scanIncomplete
	}
	z.errorf("end of file in raw text of <" + z.rawTag + ">")
	rcdata := z.rcdata
	z.rawTag, z.rcdata = "", false
	return z.emit(textToken(z.buf[z.pos:], rcdata), len(z.buf))
}

// scanMarkup runs the tag and markup-declaration states, starting at '<'.
func (z *Tokenizer) scanMarkup() (Token, scanStatus) {
	var tok Token
	var nameStart, keyStart, valStart, dataStart int
	var key string
	state := stateTagOpen
	i := z.pos + 1
	setName := func(end int) {
		tok.Name = strings.ToLower(string(z.buf[nameStart:end]))
		tok.Atom = atom.Lookup([]byte(tok.Name))
	}
	addAttr := func(val string, decode bool) {
		if decode && strings.IndexByte(val, '&') >= 0 {
			val = xhtml.UnescapeString(val)
		}
		if _, dup := tok.Attribute(key); dup {
			z.errorf("duplicate attribute " + key)
			return
		}
		tok.Attr = append(tok.Attr, dom.Attribute{Key: key, Val: val})
	}
	for {
		if i >= len(z.buf) {
			if !z.eof {
				return Token{}, scanIncomplete
			}
			return z.eofInMarkup(state, dataStart)
		}
		c := z.buf[i]
		switch state {
		case stateTagOpen:
			switch {
			case c == '!':
				state = stateMarkupDeclarationOpen
				i++
			case c == '/':
				state = stateEndTagOpen
				i++
			case c == '?':
				z.errorf("processing instruction treated as comment")
				state, dataStart = stateBogusComment, i
			case isASCIILetter(c):
				tok.Type, nameStart, state = StartTagToken, i, stateTagName
			default: // '<' is literal text
				return z.emit(Token{Type: TextToken, Data: "<"}, i)
			}
		case stateEndTagOpen:
			switch {
			case isASCIILetter(c):
				tok.Type, nameStart, state = EndTagToken, i, stateTagName
			case c == '>':
				z.errorf("empty end tag")
				z.advance(i + 1)
				return Token{}, scanSkip
			default:
				z.errorf("invalid end tag treated as comment")
				state, dataStart = stateBogusComment, i
			}
		case stateTagName:
			switch {
			case isSpace(c):
				setName(i)
				state = stateBeforeAttrName
				i++
			case c == '/':
				setName(i)
				state = stateSelfClosingStartTag
				i++
			case c == '>':
				setName(i)
				return z.emitTag(tok, i+1)
			default:
				i++
			}
		case stateBeforeAttrName:
			switch {
			case isSpace(c):
				i++
			case c == '/':
				state = stateSelfClosingStartTag
				i++
			case c == '>':
				return z.emitTag(tok, i+1)
			default:
				keyStart, state = i, stateAttrName
				if c == '=' {
					i++
				}
			}
		case stateAttrName:
			switch {
			case isSpace(c):
				key = strings.ToLower(string(z.buf[keyStart:i]))
				state = stateAfterAttrName
				i++
			case c == '/' || c == '>':
				key = strings.ToLower(string(z.buf[keyStart:i]))
				addAttr("", false)
				state = stateBeforeAttrName
			case c == '=':
				key = strings.ToLower(string(z.buf[keyStart:i]))
				state = stateBeforeAttrValue
				i++
			default:
				i++
			}
		case stateAfterAttrName:
			switch {
			case isSpace(c):
				i++
			case c == '=':
				state = stateBeforeAttrValue
				i++
			default:
				addAttr("", false)
				state = stateBeforeAttrName
			}
		case stateBeforeAttrValue:
			switch {
			case isSpace(c):
				i++
			case c == '"':
				state, valStart = stateAttrValueDoubleQuoted, i+1
				i++
			case c == '\'':
				state, valStart = stateAttrValueSingleQuoted, i+1
				i++
			case c == '>':
				z.errorf("missing attribute value")
				addAttr("", false)
				return z.emitTag(tok, i+1)
			default:
				state, valStart = stateAttrValueUnquoted, i
			}
		case stateAttrValueDoubleQuoted, stateAttrValueSingleQuoted:
			q := byte('"')
			if state == stateAttrValueSingleQuoted {
				q = '\''
			}
			j := bytes.IndexByte(z.buf[i:], q)
			if j < 0 {
				i = len(z.buf)
				continue
			}
			addAttr(string(z.buf[valStart:i+j]), true)
			state = stateAfterAttrValueQuoted
			i += j + 1
		case stateAttrValueUnquoted:
			switch {
			case isSpace(c):
				addAttr(string(z.buf[valStart:i]), true)
				state = stateBeforeAttrName
				i++
			case c == '>':
				addAttr(string(z.buf[valStart:i]), true)
				return z.emitTag(tok, i+1)
			default:
				i++
			}
		case stateAfterAttrValueQuoted:
			switch {
			case isSpace(c):
				state = stateBeforeAttrName
				i++
			case c == '/':
				state = stateSelfClosingStartTag
				i++
			case c == '>':
				return z.emitTag(tok, i+1)
			default:
				z.errorf("missing whitespace between attributes")
				state = stateBeforeAttrName
			}
		case stateSelfClosingStartTag:
			if c == '>' {
				tok.SelfClosing = true
				return z.emitTag(tok, i+1)
			}
			z.errorf("unexpected solidus in tag")
			state = stateBeforeAttrName
		case stateMarkupDeclarationOpen:
			rest := z.buf[i:]
			switch {
			case bytes.HasPrefix(rest, []byte("--")):
				state, dataStart = stateComment, i+2
				i += 2
			case hasPrefixFold(rest, "doctype"):
				state, dataStart = stateDoctype, i+7
				i += 7
			case !z.eof && (isPrefixOf(rest, "--") || isPrefixFold(rest, "doctype")):
				return Token{}, scanIncomplete
			default:
				z.errorf("bogus comment")
				state, dataStart = stateBogusComment, i
			}
		case stateComment:
			rest := z.buf[dataStart:]
			if rest[0] == '>' { // <!-->
				return z.emit(Token{Type: CommentToken}, dataStart+1)
			}
			if bytes.HasPrefix(rest, []byte("->")) { // <!--->
				return z.emit(Token{Type: CommentToken}, dataStart+2)
			}
			j := bytes.Index(rest, []byte("-->"))
			if j < 0 {
				if k := bytes.Index(rest, []byte("--!>")); k >= 0 {
					return z.emit(Token{Type: CommentToken, Data: string(rest[:k])}, dataStart+k+4)
				}
				i = len(z.buf)
				continue
			}
			return z.emit(Token{Type: CommentToken, Data: string(rest[:j])}, dataStart+j+3)
		case stateBogusComment:
			j := bytes.IndexByte(z.buf[i:], '>')
			if j < 0 {
				i = len(z.buf)
				continue
			}
			return z.emit(Token{Type: CommentToken, Data: string(z.buf[dataStart : i+j])}, i+j+1)
		case stateDoctype:
			j := bytes.IndexByte(z.buf[i:], '>')
			if j < 0 {
				i = len(z.buf)
				continue
			}
			return z.emit(parseDoctype(z.buf[dataStart:i+j]), i+j+1)
		}
	}
}

func (z *Tokenizer) emitTag(tok Token, end int) (Token, scanStatus) {
	if tok.Type == EndTagToken && (len(tok.Attr) > 0 || tok.SelfClosing) {
		z.errorf("end tag with attributes")
		tok.Attr, tok.SelfClosing = nil, false
	}
	return z.emit(tok, end)
}

// eofInMarkup applies end-of-file recovery for markup cut short.
func (z *Tokenizer) eofInMarkup(state tokState, dataStart int) (Token, scanStatus) {
	z.errorf("end of file in " + state.String())
	switch state {
	case stateTagOpen:
		return z.emit(Token{Type: TextToken, Data: "<"}, len(z.buf))
	case stateComment, stateBogusComment:
		if dataStart > len(z.buf) {
			dataStart = len(z.buf)
		}
		return z.emit(Token{Type: CommentToken, Data: string(z.buf[dataStart:])}, len(z.buf))
	case stateMarkupDeclarationOpen:
		return z.emit(Token{Type: CommentToken, Data: string(z.buf[z.pos+2:])}, len(z.buf))
	case stateDoctype:
		tok := parseDoctype(z.buf[dataStart:])
		tok.Doctype.ForceQuirks = true
		return z.emit(tok, len(z.buf))
	}
	z.advance(len(z.buf)) // a tag cut off by end of file is dropped
	return Token{}, scanSkip
}

// parseDoctype parses the content of a doctype declaration, i.e. the text
// between "<!DOCTYPE" and ">".
func parseDoctype(b []byte) Token {
	tok := Token{Type: DoctypeToken, Doctype: &DoctypeInfo{}}
	s := strings.TrimLeft(string(b), whitespace)
	if s == "" {
		tok.Doctype.ForceQuirks = true
		return tok
	}
	end := strings.IndexAny(s, whitespace)
	if end < 0 {
		end = len(s)
	}
	tok.Name = strings.ToLower(s[:end])
	s = strings.TrimLeft(s[end:], whitespace)
	keyword := func(k string) bool {
		if len(s) >= len(k) && strings.EqualFold(s[:len(k)], k) {
			s = strings.TrimLeft(s[len(k):], whitespace)
			return true
		}
		return false
	}
	quoted := func() (string, bool) {
		if s == "" || (s[0] != '"' && s[0] != '\'') {
			return "", false
		}
		j := strings.IndexByte(s[1:], s[0])
		if j < 0 {
			v := s[1:]
			s = ""
			return v, false
		}
		v := s[1 : j+1]
		s = strings.TrimLeft(s[j+2:], whitespace)
		return v, true
	}
	switch {
	case keyword("public"):
		var ok bool
		if tok.Doctype.PublicID, ok = quoted(); !ok {
			tok.Doctype.ForceQuirks = true
		}
		tok.Doctype.SystemID, _ = quoted()
	case keyword("system"):
		var ok bool
		if tok.Doctype.SystemID, ok = quoted(); !ok {
			tok.Doctype.ForceQuirks = true
		}
	}
	tok.Doctype.ForceQuirks = tok.Doctype.ForceQuirks || quirksDoctype(tok.Name, tok.Doctype)
	return tok
}

var quirkyPublicIDPrefixes = []string{
	"+//silmaril//dtd html pro v0r11 19970101//",
	"-//as//dtd html 3.0 aswedit + extensions//",
	"-//ietf//dtd html",
	"-//microsoft//dtd internet explorer",
	"-//netscape comm. corp.//dtd html//",
	"-//w3c//dtd html 3",
	"-//w3c//dtd html 4.0 frameset//",
	"-//w3c//dtd html 4.0 transitional//",
	"-//w3o//dtd w3 html",
	"-//webtechs//dtd mozilla html",
}

// quirksDoctype decides if a doctype puts a document into quirks mode.
func quirksDoctype(name string, dt *DoctypeInfo) bool {
	if name != "html" {
		return true
	}
	pub := strings.ToLower(dt.PublicID)
	for _, q := range quirkyPublicIDPrefixes {
		if strings.HasPrefix(pub, q) {
			return true
		}
	}
	if dt.SystemID == "" && (strings.HasPrefix(pub, "-//w3c//dtd html 4.01 frameset//") ||
		strings.HasPrefix(pub, "-//w3c//dtd html 4.01 transitional//")) {
		return true
	}
	return strings.EqualFold(dt.SystemID, "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd")
}

// --- Helpers ---------------------------------------------------------------

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
}

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && strings.EqualFold(string(b[:len(prefix)]), prefix)
}

// isPrefixOf is true if b is a proper prefix of s.
func isPrefixOf(b []byte, s string) bool {
	return len(b) < len(s) && string(b) == s[:len(b)]
}

// isPrefixFold is true if b is a proper prefix of s, ignoring case.
func isPrefixFold(b []byte, s string) bool {
	return len(b) < len(s) && strings.EqualFold(string(b), s[:len(b)])
}
