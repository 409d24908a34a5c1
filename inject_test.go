package arbor

import "testing"

func TestInjectClick(t *testing.T) {
	s, btns := buttonScene(t)
	var clicked *Node
	s.OnClick(func(ctx *EventContext) { clicked = ctx.Node })

	s.InjectClick(10, 10)
	if s.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.PendingInjections())
	}

	// Frame 1: press
	s.Update()
	if s.PendingInjections() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", s.PendingInjections())
	}
	if clicked != nil {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release, click fires
	s.Update()
	if s.PendingInjections() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", s.PendingInjections())
	}
	if clicked != btns[0] {
		t.Errorf("clicked = %v, want a", clicked)
	}
}

func TestInjectClickMiss(t *testing.T) {
	s, _ := buttonScene(t)
	clicked := false
	s.OnClick(func(*EventContext) { clicked = true })

	s.InjectClick(45, 10) // gap between a and b
	drain(s)
	if clicked {
		t.Error("click in empty space should not fire")
	}
}

func TestInjectPressReleaseDifferentTargets(t *testing.T) {
	s, _ := buttonScene(t)
	var log eventLog
	s.On(EventMouseDown, log.record)
	s.On(EventMouseUp, log.record)
	s.OnClick(log.record)

	s.InjectPress(5, 5)
	s.InjectMove(60, 5)
	s.InjectRelease(60, 5)
	drain(s)

	want := []string{"mousedown:a", "mouseup:b"}
	if len(log) != len(want) || log[0] != want[0] || log[1] != want[1] {
		t.Errorf("events = %v, want %v (no click across targets)", log, want)
	}
}

func TestInjectKey(t *testing.T) {
	s := NewScene()
	var got []KeyboardData
	record := func(ctx *EventContext) { got = append(got, ctx.Event.Data.(KeyboardData)) }
	s.On(EventKeyDown, record)
	s.On(EventKeyUp, record)

	s.InjectKey("a", "KeyA", ModCtrl|ModShift)
	drain(s)

	if len(got) != 2 {
		t.Fatalf("got %d key events, want 2", len(got))
	}
	for _, k := range got {
		if k.Key != "a" || k.Code != "KeyA" || !k.Modifiers.Has(ModCtrl) || !k.Modifiers.Has(ModShift) {
			t.Errorf("key = %+v", k)
		}
	}
}

func TestInjectWheel(t *testing.T) {
	s, btns := buttonScene(t)
	var target *Node
	var data WheelData
	s.On(EventWheel, func(ctx *EventContext) {
		target = ctx.Node
		data = ctx.Event.Data.(WheelData)
	})

	s.InjectWheel(105, 5, 0, -3)
	drain(s)

	if target != btns[2] {
		t.Errorf("target = %v, want c", target)
	}
	if data.DeltaX != 0 || data.DeltaY != -3 {
		t.Errorf("delta = %+v", data)
	}
}

func TestInjectSkipsSourceWhileQueued(t *testing.T) {
	polled := 0
	s := NewScene(WithInputSource(InputSourceFunc(func() []PlatformEvent {
		polled++
		return nil
	})))

	s.InjectTab(false)
	s.Update()
	s.Update()
	if polled != 0 {
		t.Fatalf("source polled %d times while injections were queued", polled)
	}
	s.Update()
	if polled != 1 {
		t.Errorf("source polled %d times, want 1 once the queue drained", polled)
	}
}
