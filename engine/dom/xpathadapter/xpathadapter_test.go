package xpathadapter

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webcore/engine/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc := dom.NewDocument()
	html := doc.CreateElement("html")
	body := doc.CreateElement("body")
	p1 := doc.CreateElement("p")
	p2 := doc.CreateElement("p")
	require.NoError(t, doc.AppendChild(doc.Root(), html))
	require.NoError(t, doc.AppendChild(html, body))
	require.NoError(t, doc.AppendChild(body, p1))
	require.NoError(t, doc.AppendChild(body, p2))
	require.NoError(t, doc.AppendChild(p2, doc.CreateText("second")))
	require.NoError(t, doc.SetAttribute(p2, "class", "note"))
	//
	nodes, err := Select(doc, doc.Root(), "//p")
	require.NoError(t, err)
	assert.Equal(t, []dom.NodeID{p1, p2}, nodes)
	nodes, err = Select(doc, doc.Root(), "//p[@class='note']")
	require.NoError(t, err)
	assert.Equal(t, []dom.NodeID{p2}, nodes)
	nodes, err = Select(doc, doc.Root(), "/html/body/p[text()='second']")
	require.NoError(t, err)
	assert.Equal(t, []dom.NodeID{p2}, nodes)
	_, err = Select(doc, doc.Root(), "//p[")
	assert.Error(t, err)
}
