package arbor

import (
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// buttonScene returns a scene holding interactable buttons a, b and c laid
// out left to right at x = 0, 50 and 100, after one Update.
func buttonScene(t *testing.T, opts ...Option) (*Scene, []*Node) {
	t.Helper()
	s := NewScene(opts...)
	var btns []*Node
	for i, name := range []string{"a", "b", "c"} {
		b := button(name, float64(i*50))
		b.Interactable = true
		s.Root().AddChild(b)
		btns = append(btns, b)
	}
	s.Update()
	return s, btns
}

// drain runs frames until every injected event has been consumed.
func drain(s *Scene) {
	for s.PendingInjections() > 0 {
		s.Update()
	}
}

// eventLog records "name:node" for every delivered event it is attached to.
type eventLog []string

func (l *eventLog) record(ctx *EventContext) {
	name := "<nil>"
	if ctx.Node != nil {
		name = ctx.Node.Name
	}
	*l = append(*l, string(ctx.Event.Name)+":"+name)
}

func TestNewScene(t *testing.T) {
	s := NewScene(WithScaleFactor(-2))
	if s.Root() == nil || s.Root().Name != "root" {
		t.Fatal("root should be created")
	}
	if !s.Root().Interactable {
		t.Error("root should be interactable")
	}
	if s.ScaleFactor() != 1 {
		t.Errorf("ScaleFactor = %v, want 1", s.ScaleFactor())
	}
	if s.Focus() == nil || s.Accessibility() == nil {
		t.Error("focus and accessibility state should be created")
	}
	s.SetScaleFactor(0)
	if s.ScaleFactor() != 1 {
		t.Error("SetScaleFactor(0) should be ignored")
	}
}

func TestSceneUpdateProjects(t *testing.T) {
	s, btns := buttonScene(t, WithTitle("app"))

	snap := s.Snapshot()
	if len(snap.Nodes) != 4 {
		t.Fatalf("Nodes = %d, want window + 3 buttons", len(snap.Nodes))
	}
	win, _ := snap.Node(WindowID)
	if win.Name != "app" {
		t.Errorf("window name = %q, want app", win.Name)
	}
	for _, b := range btns {
		n, ok := s.NodeByAccessibilityID(b.AccessibilityID())
		if !ok || n != b {
			t.Errorf("NodeByAccessibilityID(%s) = %v", b.Name, n)
		}
	}
	if s.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame())
	}
}

func TestSceneTabNavigation(t *testing.T) {
	s, btns := buttonScene(t)
	var log eventLog
	s.OnFocusChange(log.record)
	btns[0].On(EventBlur, log.record)

	s.InjectTab(false)
	drain(s)
	s.InjectTab(false)
	drain(s)
	s.InjectTab(true)
	drain(s)

	if got := s.Snapshot().Focus; got != btns[0].AccessibilityID() {
		t.Errorf("focus = %v, want a", got)
	}
	want := []string{"focus:a", "blur:a", "focus:b", "focus:a"}
	if !slices.Equal(log, want) {
		t.Errorf("events = %v, want %v", log, want)
	}
}

func TestSceneKeyTarget(t *testing.T) {
	s, btns := buttonScene(t)
	var log eventLog
	s.Root().On(EventKeyDown, log.record)

	s.InjectKey("Enter", "Enter", 0)
	drain(s)
	s.InjectTab(false)
	drain(s)

	// keydown bubbles from the focused node up to the root listener.
	want := []string{"keydown:root", "keydown:a"}
	if !slices.Equal(log, want) {
		t.Errorf("events = %v, want %v", log, want)
	}
	if s.Focus().Focused() != btns[0].AccessibilityID() {
		t.Error("focus context should report a")
	}
}

func TestSceneClickFocuses(t *testing.T) {
	s, btns := buttonScene(t)
	var clicked *Node
	s.OnClick(func(ctx *EventContext) { clicked = ctx.Node })

	s.InjectClick(60, 10)
	s.Update()
	if clicked != nil {
		t.Fatal("click should not fire on the press frame")
	}
	s.Update()

	if clicked != btns[1] {
		t.Errorf("clicked = %v, want b", clicked)
	}
	if got := s.Snapshot().Focus; got != btns[1].AccessibilityID() {
		t.Errorf("focus = %v, want b", got)
	}
}

func TestSceneClickCoordinates(t *testing.T) {
	s, _ := buttonScene(t, WithScaleFactor(2))
	var data MouseData
	s.OnClick(func(ctx *EventContext) { data = ctx.Event.Data.(MouseData) })

	// b spans logical x 50..90, device x 100..180.
	s.InjectClick(120, 20)
	drain(s)

	if data.Screen != (Vec2{60, 10}) {
		t.Errorf("Screen = %v, want (60, 10)", data.Screen)
	}
	if data.Element != (Vec2{10, 10}) {
		t.Errorf("Element = %v, want (10, 10)", data.Element)
	}
}

func TestSceneBubbling(t *testing.T) {
	s := NewScene()
	panel := NewElement("panel")
	panel.Interactable = true
	panel.SetSize(200, 100)
	btn := button("ok", 10)
	btn.Interactable = true
	s.Root().AddChild(panel)
	panel.AddChild(btn)

	var order []string
	btn.On(EventClick, func(ctx *EventContext) {
		order = append(order, "btn")
		if ctx.Current != btn || ctx.Node != btn {
			t.Error("target listener should see itself as Current")
		}
	})
	panel.On(EventClick, func(ctx *EventContext) {
		order = append(order, "panel")
		if ctx.Current != panel || ctx.Node != btn {
			t.Error("ancestor listener should see the original target")
		}
	})
	panel.On(EventFocus, func(*EventContext) { order = append(order, "panel-focus") })

	s.Update()
	s.InjectClick(15, 5)
	drain(s)

	want := []string{"btn", "panel"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSceneStopPropagation(t *testing.T) {
	s := NewScene()
	panel := NewElement("panel")
	panel.Interactable = true
	btn := button("ok", 0)
	btn.Interactable = true
	s.Root().AddChild(panel)
	panel.AddChild(btn)

	var panelHit bool
	btn.On(EventClick, func(ctx *EventContext) { ctx.StopPropagation() })
	panel.On(EventClick, func(*EventContext) { panelHit = true })

	s.Update()
	s.InjectClick(5, 5)
	drain(s)

	if panelHit {
		t.Error("StopPropagation should keep the click from the panel")
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	s, _ := buttonScene(t)
	var first, second int
	h := s.OnClick(func(*EventContext) { first++ })
	s.OnClick(func(*EventContext) { second++ })

	s.InjectClick(5, 5)
	drain(s)
	h.Remove()
	h.Remove() // already gone
	s.InjectClick(5, 5)
	drain(s)

	if first != 1 || second != 2 {
		t.Errorf("first = %d, second = %d, want 1 and 2", first, second)
	}
	CallbackHandle{}.Remove() // zero handle is a no-op
}

func TestCallbackHandleRemoveDuringDispatch(t *testing.T) {
	s, _ := buttonScene(t)
	var once, always int
	var h CallbackHandle
	h = s.OnClick(func(*EventContext) {
		once++
		h.Remove()
	})
	s.OnClick(func(*EventContext) { always++ })

	s.InjectClick(5, 5)
	drain(s)
	s.InjectClick(5, 5)
	drain(s)

	if once != 1 || always != 2 {
		t.Errorf("once = %d, always = %d, want 1 and 2", once, always)
	}
}

func TestSceneHoverEnterLeave(t *testing.T) {
	s, _ := buttonScene(t)
	var log eventLog
	for _, name := range []EventName{EventMouseEnter, EventMouseLeave, EventPointerEnter, EventPointerLeave} {
		s.On(name, log.record)
	}

	s.InjectMove(5, 5)
	drain(s)
	want := []string{"mouseenter:root", "pointerenter:root", "mouseenter:a", "pointerenter:a"}
	if !slices.Equal(log, want) {
		t.Errorf("entering a: %v, want %v", log, want)
	}

	log = nil
	s.InjectMove(55, 5)
	drain(s)
	// Leave events dispatch after everything else in the batch.
	want = []string{"mouseenter:b", "pointerenter:b", "mouseleave:a", "pointerleave:a"}
	if !slices.Equal(log, want) {
		t.Errorf("a to b: %v, want %v", log, want)
	}

	log = nil
	s.InjectMove(55, 5)
	drain(s)
	if len(log) != 0 {
		t.Errorf("standing still: %v, want nothing", log)
	}
}

func TestSceneCapturePointer(t *testing.T) {
	s, btns := buttonScene(t)
	var log eventLog
	s.On(EventMouseDown, log.record)
	s.OnClick(log.record)

	s.CapturePointer(0, btns[0])
	s.InjectClick(105, 5) // over c
	drain(s)
	s.InjectClick(105, 5)
	drain(s)

	want := []string{"mousedown:a", "click:a", "mousedown:c", "click:c"}
	if !slices.Equal(log, want) {
		t.Errorf("events = %v, want %v", log, want)
	}
}

func TestSceneFocusRequest(t *testing.T) {
	s, btns := buttonScene(t)
	committed := s.Focus().Subscribe()

	s.Focus().RequestFocus(btns[2].AccessibilityID())
	s.Update()
	if got := s.Snapshot().Focus; got != btns[2].AccessibilityID() {
		t.Fatalf("focus = %v, want c", got)
	}
	if !committed.HasChanged() || committed.Borrow() != btns[2].AccessibilityID() {
		t.Error("committed focus should be published")
	}

	s.Focus().RequestFocus(NewAccessibilityID())
	s.Update()
	if got := s.Snapshot().Focus; got != btns[2].AccessibilityID() {
		t.Errorf("unknown request changed focus to %v", got)
	}
}

func TestSceneHandlerRequestFocus(t *testing.T) {
	s, btns := buttonScene(t)
	btns[1].On(EventKeyDown, func(ctx *EventContext) {
		if ctx.Event.Data.(KeyboardData).Key == "ArrowRight" {
			ctx.Scene.Focus().RequestFocus(btns[2].AccessibilityID())
		}
	})
	s.Focus().RequestFocus(btns[1].AccessibilityID())
	s.Update()

	var focused []string
	s.OnFocusChange(func(ctx *EventContext) { focused = append(focused, ctx.Node.Name) })
	s.InjectKey("ArrowRight", "ArrowRight", 0)
	s.Update()

	// Requests made by handlers apply in the same frame.
	if got := s.Snapshot().Focus; got != btns[2].AccessibilityID() {
		t.Errorf("focus = %v, want c", got)
	}
	if !slices.Equal(focused, []string{"c"}) {
		t.Errorf("focus events = %v, want [c]", focused)
	}
}

func TestEventContextRequestFocus(t *testing.T) {
	s := NewScene()
	group := NewElement("group")
	group.SetRole(RoleGroup)
	inner := NewElement("inner")
	inner.Interactable = true
	inner.SetSize(10, 10)
	group.Interactable = true
	s.Root().AddChild(group)
	group.AddChild(inner)

	ok := false
	inner.On(EventClick, func(ctx *EventContext) { ok = ctx.RequestFocus() })
	s.Update()
	s.InjectClick(5, 5)
	drain(s)

	if !ok {
		t.Fatal("RequestFocus should find the accessible ancestor")
	}
	if got := s.Snapshot().Focus; got != group.AccessibilityID() {
		t.Errorf("focus = %v, want group", got)
	}
}

func TestSceneRemovedFocusCleared(t *testing.T) {
	s, btns := buttonScene(t)
	s.Focus().RequestFocus(btns[1].AccessibilityID())
	s.Update()

	var blurred bool
	btns[1].On(EventBlur, func(*EventContext) { blurred = true })
	btns[1].RemoveFromParent()
	s.Update()

	snap := s.Snapshot()
	if !snap.Focus.IsZero() {
		t.Errorf("snapshot focus = %v, want zero", snap.Focus)
	}
	if snap.Has(btns[1].AccessibilityID()) {
		t.Error("removed node should leave the tree")
	}
	if !s.Focus().Focused().IsZero() {
		t.Error("focus context should be cleared")
	}
	if blurred {
		t.Error("a node that left the tree gets no blur")
	}
}

func TestSceneAdapter(t *testing.T) {
	adapter := &recordingAdapter{}
	s, _ := buttonScene(t, WithAdapter(adapter))
	s.InjectTab(false)
	drain(s)

	if len(adapter.focusUpdates()) != 1 {
		t.Errorf("focus updates = %d, want 1", len(adapter.focusUpdates()))
	}
	full := 0
	for _, u := range adapter.updates {
		if !u.IsFocusOnly() {
			full++
		}
	}
	if full != 3 {
		t.Errorf("full updates = %d, want one per frame (3)", full)
	}
}

func TestSceneMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s, _ := buttonScene(t, WithMetrics(m))
	s.OnKeyDown(func(*EventContext) {})

	s.InjectTab(false)
	drain(s)
	s.Focus().RequestFocus(NewAccessibilityID())
	s.Update()

	if got := testutil.ToFloat64(m.projections); got != 4 {
		t.Errorf("projections = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.accessNodes); got != 3 {
		t.Errorf("nodes = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.focusChanges); got != 1 {
		t.Errorf("focus changes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.focusDropped); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventsByName.WithLabelValues("keydown")); got != 1 {
		t.Errorf("keydown = %v, want 1", got)
	}
}

type recordingStore struct {
	events []InteractionEvent
}

func (r *recordingStore) EmitEvent(ev InteractionEvent) {
	r.events = append(r.events, ev)
}

func TestSceneEntityStore(t *testing.T) {
	store := &recordingStore{}
	s, btns := buttonScene(t, WithEntityStore(store))
	btns[0].EntityID = 7

	s.InjectClick(5, 5)
	drain(s)

	var click *InteractionEvent
	for i := range store.events {
		if store.events[i].Name == EventClick {
			click = &store.events[i]
		}
	}
	if click == nil {
		t.Fatal("click not forwarded")
	}
	if click.EntityID != 7 || click.AccessibilityID != btns[0].AccessibilityID() {
		t.Errorf("click = %+v", click)
	}
	if store.events[len(store.events)-1].Name != EventFocus {
		t.Error("the focus event should be forwarded last")
	}
}

func TestSceneInputSource(t *testing.T) {
	var polls int
	src := InputSourceFunc(func() []PlatformEvent {
		polls++
		return []PlatformEvent{KeyboardInput{Name: EventKeyDown, Key: "Tab", Code: "Tab"}}
	})
	s, btns := buttonScene(t, WithInputSource(src))
	if s.Snapshot().Focus != btns[0].AccessibilityID() {
		t.Error("polled Tab should focus a")
	}

	s.InjectKey("x", "KeyX", 0)
	s.Update()
	if polls != 1 {
		t.Errorf("polls = %d, the source is skipped while injections are queued", polls)
	}
}
