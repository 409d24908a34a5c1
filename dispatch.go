package arbor

import "slices"

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, every dispatched event is forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent is a dispatched DomEvent as seen by the ECS bridge.
type InteractionEvent struct {
	DomEvent
	// EntityID is the target node's EntityID (zero when unset).
	EntityID uint32
	// AccessibilityID is the target's accessibility id, if it has one.
	AccessibilityID AccessibilityID
}

// EventContext is passed to every handler. Node is the event target; Current
// is the node whose listener is running, which differs from Node while the
// event bubbles. Current is nil for scene-level handlers.
type EventContext struct {
	Event   DomEvent
	Node    *Node
	Current *Node
	Scene   *Scene
	stopped bool
}

// StopPropagation prevents delivery to further ancestors.
func (c *EventContext) StopPropagation() {
	c.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (c *EventContext) Stopped() bool {
	return c.stopped
}

// RequestFocus asks the scene to focus the nearest accessible node at or
// above Current (or Node for scene-level handlers). It reports whether such
// a node exists.
func (c *EventContext) RequestFocus() bool {
	n := c.Current
	if n == nil {
		n = c.Node
	}
	for ; n != nil; n = n.Parent {
		if id := n.AccessibilityID(); !id.IsZero() {
			c.Scene.focus.RequestFocus(id)
			return true
		}
	}
	return false
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(*EventContext)
}

type handlerRegistry struct {
	byName map[EventName][]eventHandler
	nextID uint32
}

func (r *handlerRegistry) add(name EventName, fn func(*EventContext)) uint32 {
	if r.byName == nil {
		r.byName = make(map[EventName][]eventHandler)
	}
	r.nextID++
	r.byName[name] = append(r.byName[name], eventHandler{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *handlerRegistry) has(name EventName) bool {
	return len(r.byName[name]) > 0
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id   uint32
	reg  *handlerRegistry
	name EventName
}

// Remove unregisters this callback so it no longer fires. It is safe to call
// from inside a running handler: the registry gets a new slice, so a dispatch
// in progress finishes over the handlers it started with.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.byName[h.name]
	if !slices.ContainsFunc(s, func(e eventHandler) bool { return e.id == h.id }) {
		return
	}
	h.reg.byName[h.name] = slices.DeleteFunc(slices.Clone(s), func(e eventHandler) bool {
		return e.id == h.id
	})
}

// --- Scene-level event registration ---

// On registers a scene-level callback for name. Scene-level callbacks run
// before the target's own listener for every event of that name.
func (s *Scene) On(name EventName, fn func(*EventContext)) CallbackHandle {
	id := s.handlers.add(name, fn)
	return CallbackHandle{id: id, reg: &s.handlers, name: name}
}

// OnClick registers a scene-level callback for click events.
func (s *Scene) OnClick(fn func(*EventContext)) CallbackHandle {
	return s.On(EventClick, fn)
}

// OnKeyDown registers a scene-level callback for keydown events.
func (s *Scene) OnKeyDown(fn func(*EventContext)) CallbackHandle {
	return s.On(EventKeyDown, fn)
}

// OnFocusChange registers a scene-level callback for focus events.
func (s *Scene) OnFocusChange(fn func(*EventContext)) CallbackHandle {
	return s.On(EventFocus, fn)
}

// --- Event dispatch ---

// dispatch delivers ev: scene-level handlers first, then the target's
// listener, then each ancestor's listener while the event bubbles and
// propagation has not been stopped.
func (s *Scene) dispatch(ev DomEvent, target *Node) {
	ctx := &EventContext{Event: ev, Node: target, Scene: s}

	for _, h := range s.handlers.byName[ev.Name] {
		h.fn(ctx)
	}

	if target != nil {
		for n := target; n != nil && !ctx.stopped; n = n.Parent {
			if fn := n.listener(ev.Name); fn != nil {
				ctx.Current = n
				fn(ctx)
			}
			if !ev.Bubbles {
				break
			}
		}
		ctx.Current = nil
	}

	s.metrics.observeEvent(ev.Name)
	s.emitInteractionEvent(ev, target)
}

// wants reports whether anything would receive name delivered to target.
func (s *Scene) wants(name EventName, target *Node) bool {
	if s.handlers.has(name) || s.store != nil {
		return true
	}
	for n := target; n != nil; n = n.Parent {
		if n.Listens(name) {
			return true
		}
		if !name.Bubbles() {
			return false
		}
	}
	return false
}

// --- ECS bridge ---

func (s *Scene) emitInteractionEvent(ev DomEvent, target *Node) {
	if s.store == nil {
		return
	}
	ie := InteractionEvent{DomEvent: ev}
	if target != nil {
		ie.EntityID = target.EntityID
		ie.AccessibilityID = target.AccessibilityID()
	}
	s.store.EmitEvent(ie)
}
