package cssom

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// token is a lexical CSS token with its byte offset in the source.
type token struct {
	tt     css.TokenType
	data   string
	offset int
}

func (t token) is(tt css.TokenType) bool {
	return t.tt == tt
}

// isDelim checks for a delimiter token with the given character.
func (t token) isDelim(c string) bool {
	return t.tt == css.DelimToken && t.data == c
}

func (t token) isSpace() bool {
	return t.tt == css.WhitespaceToken || t.tt == css.CommentToken
}

// tokenize splits CSS source into tokens. Comments are dropped, whitespace
// is kept, as it is significant in selectors. The result does not contain
// a final error token.
func tokenize(source string) []token {
	l := css.NewLexer(parse.NewInputString(source))
	toks := make([]token, 0, len(source)/4+1)
	offset := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt != css.CommentToken {
			toks = append(toks, token{tt: tt, data: string(data), offset: offset})
		}
		offset += len(data)
	}
	return toks
}

// closing returns the token type which closes a block opened by tt, or
// ErrorToken if tt does not open a block.
func closing(tt css.TokenType) css.TokenType {
	switch tt {
	case css.LeftBraceToken:
		return css.RightBraceToken
	case css.LeftBracketToken:
		return css.RightBracketToken
	case css.LeftParenthesisToken, css.FunctionToken:
		return css.RightParenthesisToken
	}
	return css.ErrorToken
}

// blockEnd returns the index of the token closing the block opened at
// toks[i]. Blocks nest. An unterminated block is closed by the end of input,
// for which len(toks) is returned.
func blockEnd(toks []token, i int) int {
	stack := []css.TokenType{closing(toks[i].tt)}
	for j := i + 1; j < len(toks); j++ {
		tt := toks[j].tt
		if c := closing(tt); c != css.ErrorToken {
			stack = append(stack, c)
		} else if tt == stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return j
			}
		}
	}
	return len(toks)
}

// splitTopLevel splits tokens at separators of type sep which are not
// nested in a block.
func splitTopLevel(toks []token, sep css.TokenType) [][]token {
	var parts [][]token
	start := 0
	for i := 0; i < len(toks); i++ {
		if closing(toks[i].tt) != css.ErrorToken {
			i = blockEnd(toks, i)
			continue
		}
		if toks[i].tt == sep {
			parts = append(parts, toks[start:i])
			start = i + 1
		}
	}
	return append(parts, toks[start:])
}

// trimSpace removes leading and trailing whitespace tokens.
func trimSpace(toks []token) []token {
	for len(toks) > 0 && toks[0].isSpace() {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].isSpace() {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// text concatenates tokens to CSS source text, collapsing whitespace.
func text(toks []token) string {
	var b strings.Builder
	space := false
	for _, t := range trimSpace(toks) {
		if t.isSpace() {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteString(t.data)
	}
	return b.String()
}

func offsetOf(toks []token, dflt int) int {
	if len(toks) == 0 {
		return dflt
	}
	return toks[0].offset
}
