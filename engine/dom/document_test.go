package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDoc creates
//
//	<html><body><div id="a" class="x y"><p>hello</p></div><div id="b"></div></body></html>
func buildDoc(t *testing.T) (*Document, map[string]NodeID) {
	doc := NewDocument()
	ids := make(map[string]NodeID)
	html := doc.CreateElement("HTML")
	body := doc.CreateElement("body")
	a := doc.CreateElement("div")
	b := doc.CreateElement("div")
	p := doc.CreateElement("p")
	txt := doc.CreateText("hello")
	require.NoError(t, doc.AppendChild(doc.Root(), html))
	require.NoError(t, doc.AppendChild(html, body))
	require.NoError(t, doc.AppendChild(body, a))
	require.NoError(t, doc.AppendChild(body, b))
	require.NoError(t, doc.AppendChild(a, p))
	require.NoError(t, doc.AppendChild(p, txt))
	require.NoError(t, doc.SetAttribute(a, "id", "a"))
	require.NoError(t, doc.SetAttribute(a, "class", "x y"))
	require.NoError(t, doc.SetAttribute(b, "ID", "b"))
	ids["html"], ids["body"], ids["a"], ids["b"], ids["p"], ids["text"] = html, body, a, b, p, txt
	return doc, ids
}

func TestCreateAndTraverse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	assert.Equal(t, "html", doc.TagName(ids["html"]))
	assert.Equal(t, ids["html"], doc.DocumentElement())
	assert.Equal(t, ids["body"], doc.Body())
	assert.Equal(t, NoNode, doc.Head())
	assert.Equal(t, []NodeID{ids["a"], ids["b"]}, doc.Children(ids["body"]))
	assert.Equal(t, ids["b"], doc.NextSibling(ids["a"]))
	assert.Equal(t, ids["a"], doc.PreviousSibling(ids["b"]))
	assert.Equal(t, ids["body"], doc.Parent(ids["a"]))
	assert.Equal(t, "hello", doc.TextContent(ids["body"]))
	assert.Equal(t, ids["b"], doc.GetElementByID("b"))
	assert.Equal(t, []NodeID{ids["a"], ids["b"]}, doc.GetElementsByTagName(doc.Root(), "DIV"))
	assert.Equal(t, []string{"x", "y"}, doc.Classes(ids["a"]))
	assert.NoError(t, doc.CheckTree())
}

func TestInsertBeforeAndRemove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	c := doc.CreateElement("span")
	require.NoError(t, doc.InsertBefore(ids["body"], c, ids["b"]))
	assert.Equal(t, []NodeID{ids["a"], c, ids["b"]}, doc.Children(ids["body"]))
	require.NoError(t, doc.RemoveChild(ids["body"], ids["a"]))
	assert.Equal(t, []NodeID{c, ids["b"]}, doc.Children(ids["body"]))
	// detached subtree is still usable
	assert.Equal(t, NoNode, doc.Parent(ids["a"]))
	assert.Equal(t, ids["p"], doc.FirstChild(ids["a"]))
	assert.False(t, doc.IsConnected(ids["p"]))
	// moving an attached node
	require.NoError(t, doc.AppendChild(ids["body"], c))
	assert.Equal(t, []NodeID{ids["b"], c}, doc.Children(ids["body"]))
	// replacing
	require.NoError(t, doc.ReplaceChild(ids["body"], ids["a"], ids["b"]))
	assert.Equal(t, []NodeID{ids["a"], c}, doc.Children(ids["body"]))
	assert.NoError(t, doc.CheckTree())
	// removing a non-child
	err := doc.RemoveChild(ids["a"], c)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCycleRefused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	err := doc.AppendChild(ids["p"], ids["body"])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHierarchy))
	assert.Equal(t, core.EINVARIANT, core.Code(err))
	err = doc.AppendChild(ids["a"], ids["a"])
	assert.True(t, errors.Is(err, ErrHierarchy))
	err = doc.AppendChild(ids["text"], doc.CreateText("x"))
	assert.True(t, errors.Is(err, ErrHierarchy))
	err = doc.AppendChild(ids["a"], NodeID(9999))
	assert.True(t, errors.Is(err, ErrInvalidNode))
	assert.NoError(t, doc.CheckTree())
}

func TestAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	v, ok := doc.GetAttribute(ids["b"], "id")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	require.NoError(t, doc.SetAttribute(ids["a"], "id", "z"))
	assert.Equal(t, []Attribute{{"id", "z"}, {"class", "x y"}}, doc.Attributes(ids["a"]))
	require.NoError(t, doc.RemoveAttribute(ids["a"], "id"))
	assert.False(t, doc.HasAttribute(ids["a"], "id"))
	assert.Error(t, doc.SetAttribute(ids["text"], "id", "t"))
}

func TestCloneAndSweep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	clone, err := doc.CloneNode(ids["a"], true)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.TextContent(clone))
	v, _ := doc.GetAttribute(clone, "class")
	assert.Equal(t, "x y", v)
	require.NoError(t, doc.RemoveChild(ids["body"], ids["b"]))
	// detached: clone (3 nodes) and b (1 node)
	assert.Equal(t, 4, doc.Sweep())
	assert.Equal(t, InvalidNode, doc.NodeType(ids["b"]))
	l := doc.Len()
	doc.CreateElement("em")
	assert.Equal(t, l, doc.Len(), "swept slots are re-used")
	assert.NoError(t, doc.CheckTree())
}

func TestStaleHandleAfterSweep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	stale := ids["b"]
	require.NoError(t, doc.RemoveChild(ids["body"], stale))
	require.Equal(t, 1, doc.Sweep())
	l := doc.Len()
	em := doc.CreateElement("em")
	require.Equal(t, l, doc.Len(), "slot of b is re-used")
	assert.NotEqual(t, stale, em)
	assert.Equal(t, ElementNode, doc.NodeType(em))
	assert.Equal(t, InvalidNode, doc.NodeType(stale))
	err := doc.SetAttribute(stale, "id", "x")
	assert.True(t, errors.Is(err, ErrInvalidNode))
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.False(t, doc.HasAttribute(em, "id"))
	// handles of the re-used slot work as usual
	require.NoError(t, doc.AppendChild(ids["body"], em))
	assert.Equal(t, ids["body"], doc.Parent(em))
	c, err := doc.CloneNode(em, false)
	require.NoError(t, err)
	assert.Equal(t, ElementNode, doc.NodeType(c))
	assert.NoError(t, doc.CheckTree())
}

func TestDirtyAfterAppend(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	doc.ClearAllDirty(doc.Root(), AllDirty)
	n := doc.CreateElement("span")
	require.NoError(t, doc.AppendChild(ids["a"], n))
	assert.True(t, doc.IsDirty(n, StyleDirty))
	assert.True(t, doc.IsDirty(n, LayoutDirty))
	assert.True(t, doc.IsDirty(ids["a"], TreeDirty|LayoutDirty))
	for _, anc := range []NodeID{ids["body"], ids["html"], doc.Root()} {
		assert.True(t, doc.IsDirty(anc, LayoutDirty), "ancestor %s", doc.String(anc))
		assert.False(t, doc.IsDirty(anc, StyleDirty), "ancestor %s", doc.String(anc))
	}
	// unrelated subtrees stay clean
	for _, id := range []NodeID{ids["b"], ids["p"], ids["text"]} {
		assert.Equal(t, DirtyFlags(0), doc.Dirty(id), "node %s", doc.String(id))
	}
	dirty := doc.DirtyNodes(doc.Root(), StyleDirty)
	assert.Equal(t, []NodeID{n}, dirty)
}

func TestDirtyAfterAttributeChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	doc.ClearAllDirty(doc.Root(), AllDirty)
	m := doc.Mutations()
	require.NoError(t, doc.SetAttribute(ids["b"], "class", "big"))
	assert.True(t, doc.IsDirty(ids["b"], StyleDirty))
	assert.True(t, doc.IsDirty(ids["body"], ChildrenDirty))
	assert.False(t, doc.IsDirty(ids["a"], StyleDirty))
	assert.Greater(t, doc.Mutations(), m)
	// setting the same value again is not a mutation
	m = doc.Mutations()
	require.NoError(t, doc.SetAttribute(ids["b"], "class", "big"))
	assert.Equal(t, m, doc.Mutations())
}

func TestSerializeAndQuery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	s := doc.SerializeString(doc.Root())
	assert.Equal(t, `<html><body><div id="a" class="x y"><p>hello</p></div><div id="b"></div></body></html>`, s)
	found, err := doc.QuerySelectorAll(doc.Root(), "div.x > p, #b")
	require.NoError(t, err)
	assert.Equal(t, []NodeID{ids["p"], ids["b"]}, found)
	first, err := doc.QuerySelector(doc.Root(), "div")
	require.NoError(t, err)
	assert.Equal(t, ids["a"], first)
	ok, err := doc.Matches(ids["b"], "body > div:last-child")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = doc.QuerySelectorAll(doc.Root(), "div[")
	assert.Equal(t, core.EMALFORMED, core.Code(err))
	assert.True(t, strings.Contains(doc.String(ids["a"]), "div"))
}
