package html

import (
	"fmt"
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	"golang.org/x/net/html/atom"
)

// TokenType is the kind of a token.
type TokenType uint8

// Token types
const (
	ErrorToken TokenType = iota // no token, input exhausted
	StartTagToken
	EndTagToken
	TextToken
	CommentToken
	DoctypeToken
	EOFToken
)

func (t TokenType) String() string {
	switch t {
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case TextToken:
		return "Text"
	case CommentToken:
		return "Comment"
	case DoctypeToken:
		return "Doctype"
	case EOFToken:
		return "EOF"
	}
	return "Error"
}

// Token is a lexical unit of HTML. Tokens are ephemeral and consumed by the
// tree builder right after they have been produced.
type Token struct {
	Type        TokenType
	Name        string    // lower case tag name, or doctype name
	Atom        atom.Atom // atom of tag name, or 0
	Attr        []dom.Attribute
	SelfClosing bool
	Data        string // text or comment content, entities decoded
	Offset      int    // byte offset of the token in the decoded stream
	Line        int    // line of the token, starting at 1
	Doctype     *DoctypeInfo
}

// DoctypeInfo holds the fields of a doctype declaration.
type DoctypeInfo struct {
	PublicID    string
	SystemID    string
	ForceQuirks bool
}

// Attribute returns the value of an attribute of a start tag.
func (t *Token) Attribute(key string) (string, bool) {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// IsWhitespace is true for text tokens consisting of HTML whitespace only.
func (t *Token) IsWhitespace() bool {
	return t.Type == TextToken && strings.TrimLeft(t.Data, whitespace) == ""
}

const whitespace = " \t\n\f\r"

func (t Token) String() string {
	switch t.Type {
	case StartTagToken:
		var b strings.Builder
		b.WriteString("<" + t.Name)
		for _, a := range t.Attr {
			fmt.Fprintf(&b, " %s=%q", a.Key, a.Val)
		}
		if t.SelfClosing {
			b.WriteString("/")
		}
		b.WriteString(">")
		return b.String()
	case EndTagToken:
		return "</" + t.Name + ">"
	case TextToken:
		return fmt.Sprintf("%q", t.Data)
	case CommentToken:
		return "<!--" + t.Data + "-->"
	case DoctypeToken:
		return "<!DOCTYPE " + t.Name + ">"
	}
	return t.Type.String()
}

// startTag creates a start tag token, as used for synthesized elements.
func startTag(name string) *Token {
	return &Token{Type: StartTagToken, Name: name, Atom: atom.Lookup([]byte(name))}
}
