package dom

import (
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(doc *Document, log *[]string, name string) Listener {
	return func(ev *Event) {
		*log = append(*log, fmt.Sprintf("%s:%s", name, ev.Phase()))
	}
}

func TestEventPhases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	var log []string
	add := func(id NodeID, name string, capture bool) {
		_, err := doc.AddEventListener(id, "click", record(doc, &log, name), ListenerOptions{Capture: capture})
		require.NoError(t, err)
	}
	add(ids["body"], "body-bubble", false)
	add(ids["body"], "body-capture", true)
	add(ids["a"], "a-capture", true)
	add(ids["p"], "p-1", false)
	add(ids["p"], "p-2", true)
	add(ids["b"], "b", false) // not on path
	ok, err := doc.DispatchEvent(ids["p"], NewEvent("click"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{
		"body-capture:capture",
		"a-capture:capture",
		"p-1:target",
		"p-2:target",
		"body-bubble:bubble",
	}, log)
	assert.Equal(t, 1, doc.EventStats().Dispatched)
	assert.Equal(t, 5, doc.EventStats().ListenerCalls)
}

func TestStopPropagation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	var log []string
	doc.AddEventListener(ids["a"], "click", func(ev *Event) {
		log = append(log, "a1")
		ev.StopPropagation()
	}, ListenerOptions{})
	doc.AddEventListener(ids["a"], "click", record(doc, &log, "a2"), ListenerOptions{})
	doc.AddEventListener(ids["body"], "click", record(doc, &log, "body"), ListenerOptions{})
	doc.DispatchEvent(ids["p"], NewEvent("click"))
	assert.Equal(t, []string{"a1", "a2:bubble"}, log)
	//
	log = nil
	doc.AddEventListener(ids["p"], "click", func(ev *Event) {
		log = append(log, "p1")
		ev.StopImmediatePropagation()
	}, ListenerOptions{})
	doc.AddEventListener(ids["p"], "click", record(doc, &log, "p2"), ListenerOptions{})
	doc.DispatchEvent(ids["p"], NewEvent("click"))
	assert.Equal(t, []string{"p1"}, log)
}

func TestPreventDefault(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	var reachedBody bool
	doc.AddEventListener(ids["p"], "submit", func(ev *Event) { ev.PreventDefault() }, ListenerOptions{})
	doc.AddEventListener(ids["body"], "submit", func(ev *Event) { reachedBody = true }, ListenerOptions{})
	ok, err := doc.DispatchEvent(ids["p"], NewEvent("submit"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, reachedBody, "preventDefault must not stop propagation")
	// passive listeners cannot cancel
	doc.AddEventListener(ids["b"], "wheel", func(ev *Event) { ev.PreventDefault() }, ListenerOptions{Passive: true})
	ok, _ = doc.DispatchEvent(ids["b"], NewEvent("wheel"))
	assert.True(t, ok)
	// non-cancelable events cannot be canceled
	ok, _ = doc.DispatchEvent(ids["p"], &Event{Type: "submit", Bubbles: true})
	assert.True(t, ok)
}

func TestOnceAndRemove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.dom")
	defer teardown()
	//
	doc, ids := buildDoc(t)
	cnt := 0
	doc.AddEventListener(ids["a"], "ping", func(*Event) { cnt++ }, ListenerOptions{Once: true})
	lid, _ := doc.AddEventListener(ids["a"], "ping", func(*Event) { cnt += 10 }, ListenerOptions{})
	doc.DispatchEvent(ids["a"], NewEvent("ping"))
	doc.DispatchEvent(ids["a"], NewEvent("ping"))
	assert.Equal(t, 21, cnt)
	assert.True(t, doc.RemoveEventListener(lid))
	assert.False(t, doc.RemoveEventListener(lid))
	doc.DispatchEvent(ids["a"], NewEvent("ping"))
	assert.Equal(t, 21, cnt)
	// non-bubbling events skip the bubble phase
	bubbled := false
	doc.AddEventListener(ids["body"], "focus", func(*Event) { bubbled = true }, ListenerOptions{})
	doc.DispatchEvent(ids["a"], &Event{Type: "focus"})
	assert.False(t, bubbled)
}
