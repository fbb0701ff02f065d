package html

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func collectTokens(t *testing.T, chunks ...string) []Token {
	z := NewTokenizer()
	var toks []Token
	pull := func() {
		for {
			tok, ok := z.Next()
			if !ok {
				return
			}
			toks = append(toks, tok)
		}
	}
	for _, c := range chunks {
		_, err := z.Write([]byte(c))
		require.NoError(t, err)
		pull()
	}
	z.CloseInput()
	pull()
	return toks
}

func TestTokenizerBasics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	toks := collectTokens(t, `<!DOCTYPE html><DIV Class="a &amp; b" id=x hidden>Hi &lt;you&gt;</div><!-- c --><br/>`)
	require.Len(t, toks, 7)
	assert.Equal(t, DoctypeToken, toks[0].Type)
	assert.Equal(t, "html", toks[0].Name)
	assert.False(t, toks[0].Doctype.ForceQuirks)
	assert.Equal(t, StartTagToken, toks[1].Type)
	assert.Equal(t, "div", toks[1].Name)
	assert.Equal(t, atom.Div, toks[1].Atom)
	assert.Equal(t, []dom.Attribute{{Key: "class", Val: "a & b"}, {Key: "id", Val: "x"},
		{Key: "hidden", Val: ""}}, toks[1].Attr)
	assert.Equal(t, TextToken, toks[2].Type)
	assert.Equal(t, "Hi <you>", toks[2].Data)
	assert.Equal(t, EndTagToken, toks[3].Type)
	assert.Equal(t, CommentToken, toks[4].Type)
	assert.Equal(t, " c ", toks[4].Data)
	assert.Equal(t, StartTagToken, toks[5].Type)
	assert.True(t, toks[5].SelfClosing)
	assert.Equal(t, EOFToken, toks[6].Type)
	assert.Equal(t, 15, toks[1].Offset)
}

func TestTokenizerChunkBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	toks := collectTokens(t, "<p cla", "ss='x'>a&am", "p;b</", "p><!-", "- z -", "->")
	require.Len(t, toks, 5)
	assert.Equal(t, "p", toks[0].Name)
	v, ok := toks[0].Attribute("class")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, "a&b", toks[1].Data)
	assert.Equal(t, EndTagToken, toks[2].Type)
	assert.Equal(t, " z ", toks[3].Data)
	assert.Equal(t, EOFToken, toks[4].Type)
}

func TestTokenizerRawTextAndRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.html")
	defer teardown()
	//
	toks := collectTokens(t, "<style>a < b {}</style>x<y")
	require.Len(t, toks, 5)
	assert.Equal(t, "a < b {}", toks[1].Data)
	assert.Equal(t, "style", toks[2].Name)
	assert.Equal(t, "x", toks[3].Data) // "<y" cut off by end of file is dropped
	assert.Equal(t, EOFToken, toks[4].Type)
	//
	z := NewTokenizer()
	_, _ = z.Write([]byte("<a b=1 b=2>"))
	tok, ok := z.Next()
	require.True(t, ok)
	assert.Len(t, tok.Attr, 1)
	assert.Len(t, z.takeErrors(), 1)
}
