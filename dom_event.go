package arbor

import (
	"slices"
	"strings"
)

// EventName is the DOM-style name of an event ("click", "pointerleave", ...).
type EventName string

const (
	EventClick      EventName = "click"
	EventMouseDown  EventName = "mousedown"
	EventMouseUp    EventName = "mouseup"
	EventMouseMove  EventName = "mousemove"
	EventMouseOver  EventName = "mouseover"
	EventMouseEnter EventName = "mouseenter"
	EventMouseLeave EventName = "mouseleave"

	EventPointerDown  EventName = "pointerdown"
	EventPointerUp    EventName = "pointerup"
	EventPointerOver  EventName = "pointerover"
	EventPointerEnter EventName = "pointerenter"
	EventPointerLeave EventName = "pointerleave"

	EventWheel   EventName = "wheel"
	EventKeyDown EventName = "keydown"
	EventKeyUp   EventName = "keyup"

	EventTouchStart  EventName = "touchstart"
	EventTouchMove   EventName = "touchmove"
	EventTouchEnd    EventName = "touchend"
	EventTouchCancel EventName = "touchcancel"

	EventFocus EventName = "focus"
	EventBlur  EventName = "blur"
)

// nonBubbling lists every event that is delivered to its target only.
var nonBubbling = map[EventName]bool{
	EventMouseEnter:   true,
	EventMouseLeave:   true,
	EventPointerEnter: true,
	EventPointerLeave: true,
	EventFocus:        true,
	EventBlur:         true,
}

// Bubbles reports whether the event is also delivered to the target's
// ancestors.
func (e EventName) Bubbles() bool {
	return !nonBubbling[e]
}

// IsPointer reports whether the name belongs to the pointer family, whose
// payload is PointerData instead of MouseData or TouchData.
func (e EventName) IsPointer() bool {
	return strings.HasPrefix(string(e), "pointer")
}

// IsLeave reports whether the name is one of the leave notifications, which
// dispatch after everything else in a batch.
func (e EventName) IsLeave() bool {
	return e == EventMouseLeave || e == EventPointerLeave
}

// CanChangeHoverState reports whether the event may change an element's hover
// state.
func (e EventName) CanChangeHoverState() bool {
	switch e {
	case EventMouseOver, EventMouseEnter, EventPointerOver, EventPointerEnter:
		return true
	}
	return false
}

// MovesCursor reports whether the event signals cursor movement for cursor
// tracking.
func (e EventName) MovesCursor() bool {
	switch e {
	case EventPointerOver, EventPointerEnter, EventMouseOver, EventMouseEnter:
		return true
	}
	return false
}

// --- Platform input ---

// PlatformEvent is one raw input event as reported by the windowing layer.
// The implementations are MouseInput, WheelInput, KeyboardInput and
// TouchInput.
type PlatformEvent interface {
	EventName() EventName
	platformEvent()
}

// MouseInput is a cursor event. Cursor is in device pixels.
type MouseInput struct {
	Name   EventName
	Cursor Vec2
	Button MouseButton
}

// WheelInput is a scroll event. Cursor is in device pixels.
type WheelInput struct {
	Name   EventName
	Cursor Vec2
	Scroll Vec2
}

// KeyboardInput is a key event. Key is the logical key ("a", "Enter", "Tab"),
// Code the layout-independent physical key ("KeyA").
type KeyboardInput struct {
	Name      EventName
	Key       string
	Code      string
	Modifiers KeyModifiers
}

// TouchInput is a touch contact event. Location is already in logical units.
type TouchInput struct {
	Name     EventName
	Location Vec2
	FingerID uint64
	Phase    TouchPhase
	Force    float64
}

func (e MouseInput) EventName() EventName    { return e.Name }
func (e WheelInput) EventName() EventName    { return e.Name }
func (e KeyboardInput) EventName() EventName { return e.Name }
func (e TouchInput) EventName() EventName    { return e.Name }

func (MouseInput) platformEvent()    {}
func (WheelInput) platformEvent()    {}
func (KeyboardInput) platformEvent() {}
func (TouchInput) platformEvent()    {}

// withName returns a copy of ev renamed to name.
func withName(ev PlatformEvent, name EventName) PlatformEvent {
	switch e := ev.(type) {
	case MouseInput:
		e.Name = name
		return e
	case WheelInput:
		e.Name = name
		return e
	case KeyboardInput:
		e.Name = name
		return e
	case TouchInput:
		e.Name = name
		return e
	}
	return ev
}

// PotentialEvent is a platform event resolved to a candidate target node. It
// lives for one input pass.
type PotentialEvent struct {
	NodeID NodeID
	Layer  *int16
	Event  PlatformEvent
}

// --- DOM events ---

// PointerType distinguishes the device behind a PointerData payload.
type PointerType uint8

const (
	PointerMouse PointerType = iota
	PointerTouch
)

// DomEventData is the typed payload of a DomEvent: MouseData, PointerData,
// KeyboardData, WheelData or TouchData. Focus and blur events carry none.
type DomEventData interface {
	domEventData()
}

// MouseData is the payload of mouse-family events. Screen and Element are in
// logical units.
type MouseData struct {
	Screen  Vec2
	Element Vec2
	Button  MouseButton
}

// PointerData is the payload of pointer-family events. Button is set for
// mouse pointers; FingerID, Phase and Force for touch pointers.
type PointerData struct {
	Screen   Vec2
	Element  Vec2
	Type     PointerType
	Button   MouseButton
	FingerID uint64
	Phase    TouchPhase
	Force    float64
}

// KeyboardData is the payload of key events.
type KeyboardData struct {
	Key       string
	Code      string
	Modifiers KeyModifiers
}

// WheelData is the payload of wheel events.
type WheelData struct {
	DeltaX, DeltaY float64
}

// TouchData is the payload of touch-family events.
type TouchData struct {
	Screen   Vec2
	Element  Vec2
	FingerID uint64
	Phase    TouchPhase
	Force    float64
}

func (MouseData) domEventData()    {}
func (PointerData) domEventData()  {}
func (KeyboardData) domEventData() {}
func (WheelData) domEventData()    {}
func (TouchData) domEventData()    {}

// DomEvent is an event ready for delivery to the application.
type DomEvent struct {
	Name      EventName
	NodeID    NodeID
	ElementID ElementID
	Data      DomEventData
	Bubbles   bool
	Layer     *int16
}

// NewDomEvent converts a potential event into its delivered form.
//
// area is the target's resolved area in logical units; nil is treated as an
// area at the origin. Mouse and wheel cursors arrive in device pixels and are
// divided by scaleFactor: screen = cursor / scale and
// element = screen - area.min. Touch locations are already logical, so
// element = location - area.min with no division.
func NewDomEvent(p PotentialEvent, elementID ElementID, area *Rect, scaleFactor float64) DomEvent {
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	var origin Vec2
	if area != nil {
		origin = Vec2{area.MinX(), area.MinY()}
	}

	name := p.Event.EventName()
	ev := DomEvent{
		Name:      name,
		NodeID:    p.NodeID,
		ElementID: elementID,
		Bubbles:   name.Bubbles(),
		Layer:     p.Layer,
	}

	switch e := p.Event.(type) {
	case MouseInput:
		screen := e.Cursor.Div(scaleFactor)
		element := Vec2{screen.X - origin.X, screen.Y - origin.Y}
		if name.IsPointer() {
			ev.Data = PointerData{Screen: screen, Element: element, Type: PointerMouse, Button: e.Button}
		} else {
			ev.Data = MouseData{Screen: screen, Element: element, Button: e.Button}
		}
	case WheelInput:
		ev.Data = WheelData{DeltaX: e.Scroll.X, DeltaY: e.Scroll.Y}
	case KeyboardInput:
		ev.Data = KeyboardData{Key: e.Key, Code: e.Code, Modifiers: e.Modifiers}
	case TouchInput:
		element := Vec2{e.Location.X - origin.X, e.Location.Y - origin.Y}
		if name.IsPointer() {
			ev.Data = PointerData{
				Screen: e.Location, Element: element, Type: PointerTouch,
				FingerID: e.FingerID, Phase: e.Phase, Force: e.Force,
			}
		} else {
			ev.Data = TouchData{
				Screen: e.Location, Element: element,
				FingerID: e.FingerID, Phase: e.Phase, Force: e.Force,
			}
		}
	}
	return ev
}

// CanChangeHoverState reports whether the event may change the target's
// hover state.
func (e DomEvent) CanChangeHoverState() bool {
	return e.Name.CanChangeHoverState()
}

// MovesCursor reports whether the event signals cursor movement.
func (e DomEvent) MovesCursor() bool {
	return e.Name.MovesCursor()
}

// Compare ranks a against b for dispatch. It is a partial order, not a
// total one: a leave event is Equal (0) to a leave event of the same name and
// Less (-1) than anything else; every other event is Greater (1), even when
// compared with itself. Callers must not feed Compare to a general-purpose
// sort; use SortForDispatch.
func Compare(a, b DomEvent) int {
	if a.Name.IsLeave() {
		if a.Name == b.Name {
			return 0
		}
		return -1
	}
	return 1
}

// SortForDispatch orders a batch for delivery, greatest first under
// Compare: non-leave events keep their arrival order and go first, leave
// events keep their arrival order and go last. It sorts in place.
func SortForDispatch(events []DomEvent) {
	slices.SortStableFunc(events, func(a, b DomEvent) int {
		switch {
		case a.Name.IsLeave() == b.Name.IsLeave():
			return 0
		case a.Name.IsLeave():
			return 1
		default:
			return -1
		}
	})
}
