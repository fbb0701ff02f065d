package dom

import (
	"github.com/npillmayer/webcore/core"
)

// EventPhase is the phase an event is currently dispatched in.
type EventPhase uint8

// Event phases
const (
	PhaseNone EventPhase = iota
	PhaseCapture
	PhaseTarget
	PhaseBubble
)

func (p EventPhase) String() string {
	switch p {
	case PhaseCapture:
		return "capture"
	case PhaseTarget:
		return "target"
	case PhaseBubble:
		return "bubble"
	}
	return "none"
}

// Event is an event dispatched to a node of a document.
// Type, Bubbles, Cancelable and Detail are set by clients; the remaining
// state is maintained during dispatch.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool
	Detail     interface{}

	target             NodeID
	current            NodeID
	phase              EventPhase
	stopped            bool
	stoppedImmediately bool
	canceled           bool
	passive            bool // current listener is passive
	dispatching        bool
}

// NewEvent creates a bubbling, cancelable event.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true, Cancelable: true}
}

// Target is the node the event has been dispatched to.
func (ev *Event) Target() NodeID { return ev.target }

// CurrentTarget is the node whose listeners are currently invoked.
func (ev *Event) CurrentTarget() NodeID { return ev.current }

// Phase is the current dispatch phase.
func (ev *Event) Phase() EventPhase { return ev.phase }

// StopPropagation prevents the event from reaching further nodes. Remaining
// listeners of the current node are still invoked.
func (ev *Event) StopPropagation() { ev.stopped = true }

// StopImmediatePropagation prevents any further listener from being invoked.
func (ev *Event) StopImmediatePropagation() {
	ev.stopped = true
	ev.stoppedImmediately = true
}

// PreventDefault cancels the default action of the event. It has no effect for
// events which are not cancelable or when called from a passive listener.
// It does not stop propagation.
func (ev *Event) PreventDefault() {
	if ev.Cancelable && !ev.passive {
		ev.canceled = true
	}
}

// DefaultPrevented is true if a listener called PreventDefault successfully.
func (ev *Event) DefaultPrevented() bool { return ev.canceled }

// Listener is a callback for events.
type Listener func(*Event)

// ListenerOptions modify the behavior of a listener.
type ListenerOptions struct {
	Capture bool // invoke during capture phase instead of bubble phase
	Once    bool // remove listener after first invocation
	Passive bool // listener will not cancel the event
}

// ListenerID identifies a registered listener.
type ListenerID uint64

type listenerEntry struct {
	id       ListenerID
	typ      string
	callback Listener
	options  ListenerOptions
	removed  bool
}

// EventStats counts dispatches.
type EventStats struct {
	Dispatched    int // number of events dispatched
	ListenerCalls int // number of listener invocations
	Canceled      int // number of events with default prevented
}

type eventRegistry struct {
	nextID    ListenerID
	listeners map[NodeID][]*listenerEntry
	byID      map[ListenerID]NodeID
	stats     EventStats
}

func (r *eventRegistry) clear(id NodeID) {
	if r.listeners == nil {
		return
	}
	for _, l := range r.listeners[id] {
		delete(r.byID, l.id)
	}
	delete(r.listeners, id)
}

// AddEventListener registers a listener for events of type typ at a node.
// Listeners of a node are invoked in registration order.
func (doc *Document) AddEventListener(id NodeID, typ string, l Listener, opts ListenerOptions) (ListenerID, error) {
	if err := doc.check(id); err != nil {
		return 0, err
	}
	if l == nil {
		return 0, core.Error(core.EINVALID, "listener for %q is nil", typ)
	}
	r := &doc.events
	if r.listeners == nil {
		r.listeners = make(map[NodeID][]*listenerEntry)
		r.byID = make(map[ListenerID]NodeID)
	}
	r.nextID++
	entry := &listenerEntry{id: r.nextID, typ: typ, callback: l, options: opts}
	r.listeners[id] = append(r.listeners[id], entry)
	r.byID[entry.id] = id
	return entry.id, nil
}

// RemoveEventListener unregisters a listener. Removing a listener during
// dispatch prevents it from being invoked later in the same dispatch.
func (doc *Document) RemoveEventListener(lid ListenerID) bool {
	r := &doc.events
	id, ok := r.byID[lid]
	if !ok {
		return false
	}
	delete(r.byID, lid)
	list := r.listeners[id]
	for i, l := range list {
		if l.id == lid {
			l.removed = true
			r.listeners[id] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(r.listeners[id]) == 0 {
		delete(r.listeners, id)
	}
	return true
}

// EventStats returns dispatch statistics for the document.
func (doc *Document) EventStats() EventStats {
	return doc.events.stats
}

// DispatchEvent dispatches an event to a target node. The event is delivered
// to capture listeners from the root down to the target's parent, then to the
// target's listeners, and, if the event bubbles, to non-capture listeners
// from the target's parent up to the root. The path is fixed before the first
// listener runs; listeners may mutate the tree without affecting it.
//
// The result is false if a listener prevented the default action.
func (doc *Document) DispatchEvent(target NodeID, ev *Event) (bool, error) {
	if err := doc.check(target); err != nil {
		return false, err
	}
	if ev == nil || ev.Type == "" {
		return false, core.Error(core.EINVALID, "event without type")
	}
	if ev.dispatching {
		return false, core.Error(core.EINVALID, "event %q is already being dispatched", ev.Type)
	}
	ev.dispatching = true
	ev.target = target
	ev.stopped, ev.stoppedImmediately, ev.canceled = false, false, false
	defer func() {
		ev.dispatching = false
		ev.phase = PhaseNone
		ev.current = NoNode
	}()
	path := make([]NodeID, 0, 16) // target's ancestors, root last
	for n := doc.nodes[target.slot()].parent; n != NoNode; n = doc.nodes[n.slot()].parent {
		path = append(path, n)
	}
	doc.events.stats.Dispatched++
	tracer().Debugf("dispatch %q to %s", ev.Type, doc.String(target))
	ev.phase = PhaseCapture
	for i := len(path) - 1; i >= 0 && !ev.stopped; i-- {
		doc.invoke(path[i], ev, func(l *listenerEntry) bool { return l.options.Capture })
	}
	if !ev.stopped {
		ev.phase = PhaseTarget
		doc.invoke(target, ev, func(*listenerEntry) bool { return true })
	}
	if ev.Bubbles {
		ev.phase = PhaseBubble
		for i := 0; i < len(path) && !ev.stopped; i++ {
			doc.invoke(path[i], ev, func(l *listenerEntry) bool { return !l.options.Capture })
		}
	}
	if ev.canceled {
		doc.events.stats.Canceled++
	}
	return !ev.canceled, nil
}

func (doc *Document) invoke(id NodeID, ev *Event, accept func(*listenerEntry) bool) {
	list := doc.events.listeners[id]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*listenerEntry, len(list))
	copy(snapshot, list)
	ev.current = id
	for _, l := range snapshot {
		if l.removed || l.typ != ev.Type || !accept(l) {
			continue
		}
		if l.options.Once {
			doc.RemoveEventListener(l.id)
		}
		ev.passive = l.options.Passive
		doc.events.stats.ListenerCalls++
		l.callback(ev)
		ev.passive = false
		if ev.stoppedImmediately {
			return
		}
	}
}
