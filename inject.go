package arbor

// Injected events use the same coordinate spaces as real input: mouse and
// wheel positions in device pixels, touch locations in logical units. One
// injected event is consumed per frame, and while any are queued the scene's
// input source is not polled.

// InjectPress queues a left-button press at the given device coordinates.
func (s *Scene) InjectPress(x, y float64) {
	s.inject(MouseInput{Name: EventMouseDown, Cursor: Vec2{x, y}, Button: MouseButtonLeft})
}

// InjectRelease queues a left-button release at the given device coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.inject(MouseInput{Name: EventMouseUp, Cursor: Vec2{x, y}, Button: MouseButtonLeft})
}

// InjectMove queues a cursor move to the given device coordinates.
func (s *Scene) InjectMove(x, y float64) {
	s.inject(MouseInput{Name: EventMouseMove, Cursor: Vec2{x, y}, Button: MouseButtonNone})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectKey queues a keydown followed by a keyup. Consumes two frames.
func (s *Scene) InjectKey(key, code string, mods KeyModifiers) {
	s.inject(KeyboardInput{Name: EventKeyDown, Key: key, Code: code, Modifiers: mods})
	s.inject(KeyboardInput{Name: EventKeyUp, Key: key, Code: code, Modifiers: mods})
}

// InjectTab queues a Tab key press, or Shift+Tab when backward is set.
func (s *Scene) InjectTab(backward bool) {
	var mods KeyModifiers
	if backward {
		mods = ModShift
	}
	s.InjectKey("Tab", "Tab", mods)
}

// InjectWheel queues a scroll of (dx, dy) at the given device coordinates.
func (s *Scene) InjectWheel(x, y, dx, dy float64) {
	s.inject(WheelInput{Name: EventWheel, Cursor: Vec2{x, y}, Scroll: Vec2{dx, dy}})
}

// InjectTouch queues a touch contact event for finger at the given logical
// coordinates.
func (s *Scene) InjectTouch(finger uint64, phase TouchPhase, x, y float64) {
	name := EventTouchMove
	switch phase {
	case TouchStarted:
		name = EventTouchStart
	case TouchEnded:
		name = EventTouchEnd
	case TouchCancelled:
		name = EventTouchCancel
	}
	s.inject(TouchInput{Name: name, Location: Vec2{x, y}, FingerID: finger, Phase: phase, Force: 1})
}

// InjectTap queues a touch start and end at the same logical coordinates.
func (s *Scene) InjectTap(finger uint64, x, y float64) {
	s.InjectTouch(finger, TouchStarted, x, y)
	s.InjectTouch(finger, TouchEnded, x, y)
}

// PendingInjections returns the number of queued injected events.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}

func (s *Scene) inject(ev PlatformEvent) {
	s.injectQueue = append(s.injectQueue, ev)
}

// popInjected removes and returns the oldest injected event.
func (s *Scene) popInjected() (PlatformEvent, bool) {
	if len(s.injectQueue) == 0 {
		return nil, false
	}
	ev := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue[len(s.injectQueue)-1] = nil
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	return ev, true
}
