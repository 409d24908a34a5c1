package arbor

// --- Constants ---

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	hitNode   *Node // node under the pointer when it was pressed
	hoverNode *Node // last node the pointer was hovering over (for enter/leave)
	button    MouseButton
	last      Vec2
}

// CapturePointer routes all events for pointerID to the given node until the
// pointer is released.
func (s *Scene) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = node
	}
}

// ReleasePointer stops routing events for pointerID to a captured node.
func (s *Scene) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = nil
	}
}

// --- Hit testing ---

// interactable reports whether n and all of its ancestors accept input.
func interactable(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Interactable {
			return false
		}
	}
	return true
}

// hitTest finds the topmost interactable node whose resolved area contains
// the device-pixel point (x, y). Returns nil if nothing is hit.
func (s *Scene) hitTest(x, y float64) *Node {
	var hit *Node
	s.layers.EachFrontToBack(func(_ int16, id NodeID) bool {
		n, ok := s.index.Node(id)
		if !ok || !interactable(n) {
			return true
		}
		area, ok := s.layout.Area(id)
		if !ok || area.IsEmpty() || !area.Contains(x, y) {
			return true
		}
		hit = n
		return false
	})
	return hit
}

// --- Input processing ---

// processInput resolves a batch of platform events against the current
// layers and layout. It returns the potential events in the order they were
// produced; the returned slice is reused on the next call.
func (s *Scene) processInput(events []PlatformEvent) []PotentialEvent {
	s.potential = s.potential[:0]
	for _, ev := range events {
		switch e := ev.(type) {
		case MouseInput:
			s.processMouse(e)
		case WheelInput:
			if target := s.hitTest(e.Cursor.X, e.Cursor.Y); target != nil {
				s.emit(EventWheel, target, e)
			}
		case KeyboardInput:
			s.processKey(e)
		case TouchInput:
			s.processTouch(e)
		}
	}
	return s.potential
}

// processMouse handles mouse input (pointer 0). Raw names are mousemove,
// mousedown and mouseup; each resolves to both its mouse and pointer forms.
func (s *Scene) processMouse(e MouseInput) {
	switch e.Name {
	case EventMouseDown:
		s.processPointer(0, e.Cursor, true, e.Button, e)
	case EventMouseUp:
		s.processPointer(0, e.Cursor, false, e.Button, e)
	default:
		ps := &s.pointers[0]
		s.processPointer(0, e.Cursor, ps.down, ps.button, e)
	}
}

// processTouch handles touch input, mapping each finger to a pointer slot.
func (s *Scene) processTouch(e TouchInput) {
	slot := s.touchSlot(e.FingerID)
	if slot < 0 {
		return
	}
	device := Vec2{e.Location.X * s.scaleFactor, e.Location.Y * s.scaleFactor}
	switch e.Phase {
	case TouchEnded, TouchCancelled:
		s.processPointer(slot, device, false, MouseButtonLeft, e)
		s.hover(slot, nil, e)
		delete(s.touchSlots, e.FingerID)
	default:
		s.processPointer(slot, device, true, MouseButtonLeft, e)
	}
}

// touchSlot maps a finger to a pointer slot (1-9), allocating one on first
// use. Returns -1 if every slot is taken.
func (s *Scene) touchSlot(finger uint64) int {
	if slot, ok := s.touchSlots[finger]; ok {
		return slot
	}
	if s.touchSlots == nil {
		s.touchSlots = make(map[uint64]int)
	}
	for i := 1; i < maxPointers; i++ {
		taken := false
		for _, used := range s.touchSlots {
			if used == i {
				taken = true
				break
			}
		}
		if !taken {
			s.touchSlots[finger] = i
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer. pos is
// in device pixels; raw is the platform event the resolved events are
// derived from.
func (s *Scene) processPointer(pointerID int, pos Vec2, pressed bool, button MouseButton, raw PlatformEvent) {
	ps := &s.pointers[pointerID]

	// Determine target node: captured node or hit test.
	target := s.captured[pointerID]
	if target == nil {
		target = s.hitTest(pos.X, pos.Y)
	}

	s.hover(pointerID, target, raw)

	_, touch := raw.(TouchInput)
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitNode = target
		if touch {
			s.emit(EventTouchStart, target, raw)
		} else {
			s.emit(EventMouseDown, target, raw)
		}
		s.emit(EventPointerDown, target, raw)

	case !pressed && ps.down:
		cancelled := false
		if touch {
			name := EventTouchEnd
			if t := raw.(TouchInput); t.Phase == TouchCancelled {
				name = EventTouchCancel
				cancelled = true
			}
			s.emit(name, target, raw)
		} else {
			s.emit(EventMouseUp, target, raw)
		}
		s.emit(EventPointerUp, target, raw)
		// A cancelled contact never clicks.
		if !cancelled && ps.hitNode != nil && ps.hitNode == target {
			s.emit(EventClick, target, raw)
			s.focusOnClick(target)
		}

		// Auto-release capture.
		s.captured[pointerID] = nil
		ps.down = false
		ps.hitNode = nil

	default:
		if pos == ps.last && raw.EventName() != EventTouchMove {
			break
		}
		if touch {
			s.emit(EventTouchMove, target, raw)
		} else {
			s.emit(EventMouseOver, target, raw)
		}
		s.emit(EventPointerOver, target, raw)
	}
	ps.last = pos
}

// hover moves pointerID's hover to target, emitting leave events for every
// node that is no longer under the pointer (innermost first) and enter events
// for every node that now is (outermost first).
func (s *Scene) hover(pointerID int, target *Node, raw PlatformEvent) {
	ps := &s.pointers[pointerID]
	prev := ps.hoverNode
	if prev == target {
		return
	}
	ps.hoverNode = target

	_, touch := raw.(TouchInput)
	for n := prev; n != nil; n = n.Parent {
		if target != nil && isAncestor(n, target) {
			break
		}
		if !touch {
			s.emit(EventMouseLeave, n, raw)
		}
		s.emit(EventPointerLeave, n, raw)
	}

	var entered []*Node
	for n := target; n != nil; n = n.Parent {
		if prev != nil && isAncestor(n, prev) {
			break
		}
		entered = append(entered, n)
	}
	for i := len(entered) - 1; i >= 0; i-- {
		if !touch {
			s.emit(EventMouseEnter, entered[i], raw)
		}
		s.emit(EventPointerEnter, entered[i], raw)
	}
}

// processKey routes key events to the focused node, or to the root when
// nothing is focused. Tab and Shift+Tab move focus before the keydown is
// delivered.
func (s *Scene) processKey(e KeyboardInput) {
	if e.Name == EventKeyDown && e.Key == "Tab" {
		dir := FocusForward
		if e.Modifiers.Has(ModShift) {
			dir = FocusBackward
		}
		s.access.FocusNext(dir)
	}
	target := s.root
	if n, ok := s.accessNodes[s.access.FocusID()]; ok {
		target = n
	}
	s.emit(e.Name, target, e)
}

// focusOnClick requests focus for the nearest focusable accessible node at or
// above n.
func (s *Scene) focusOnClick(n *Node) {
	for ; n != nil; n = n.Parent {
		if id := n.AccessibilityID(); !id.IsZero() && n.Access.Focusable {
			s.focus.RequestFocus(id)
			return
		}
	}
}

// emit queues a potential event for target when something would receive it.
func (s *Scene) emit(name EventName, target *Node, raw PlatformEvent) {
	if target == nil || !s.wants(name, target) {
		return
	}
	var layer *int16
	if d, ok := s.layerOf[target.ID]; ok {
		layer = &d
	}
	s.potential = append(s.potential, PotentialEvent{
		NodeID: target.ID,
		Layer:  layer,
		Event:  withName(raw, name),
	})
}
