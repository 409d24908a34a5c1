package arbor

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// discardLogger is used wherever no logger was configured.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// InputSource supplies the platform events of one frame. Mouse and wheel
// cursors are in device pixels, touch locations in logical units.
type InputSource interface {
	Poll() []PlatformEvent
}

// InputSourceFunc adapts a function to InputSource.
type InputSourceFunc func() []PlatformEvent

// Poll implements InputSource.
func (f InputSourceFunc) Poll() []PlatformEvent { return f() }

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scene) {
		s.logger = logger
	}
}

// WithTitle sets the name of the synthetic window root.
func WithTitle(title string) Option {
	return func(s *Scene) {
		s.title = title
	}
}

// WithScaleFactor sets the device scale factor (device pixels per logical
// unit). Values <= 0 mean 1.
func WithScaleFactor(f float64) Option {
	return func(s *Scene) {
		s.scaleFactor = f
	}
}

// WithAdapter sets the platform accessibility adapter that receives pushed
// updates.
func WithAdapter(a PlatformAdapter) Option {
	return func(s *Scene) {
		s.adapter = a
	}
}

// WithMetrics records projection, focus and dispatch counters.
func WithMetrics(m *Metrics) Option {
	return func(s *Scene) {
		s.metrics = m
	}
}

// WithEntityStore forwards every dispatched event to an ECS.
func WithEntityStore(store EntityStore) Option {
	return func(s *Scene) {
		s.store = store
	}
}

// WithFocusContext shares an existing focus context with the scene. By
// default the scene creates its own.
func WithFocusContext(f *FocusContext) Option {
	return func(s *Scene) {
		s.focus = f
	}
}

// WithInputSource sets where Update reads platform input from.
func WithInputSource(src InputSource) Option {
	return func(s *Scene) {
		s.source = src
	}
}

// WithDebug enables debug mode (see SetDebugMode). The node checks it turns
// on are process-wide, so only one scene per process should use it.
func WithDebug(enabled bool) Option {
	return func(s *Scene) {
		s.debug = enabled
	}
}

// Scene is the top-level object that owns the node tree, the per-frame
// layer and layout snapshots, the accessibility state, input state and
// handler registrations.
type Scene struct {
	root        *Node
	title       string
	scaleFactor float64
	debug       bool

	logger  *slog.Logger
	metrics *Metrics
	store   EntityStore
	adapter PlatformAdapter
	source  InputSource

	// Accessibility & focus
	access    *AccessibilityState
	focus     *FocusContext
	requests  *Receiver[AccessibilityID]
	lastFocus AccessibilityID

	// Per-frame snapshots, rebuilt by refresh
	layout      LayoutMap
	layers      *Layers
	index       NodeIndex
	layerOf     map[NodeID]int16
	accessNodes map[AccessibilityID]*Node

	// Input state
	handlers    handlerRegistry
	captured    [maxPointers]*Node
	pointers    [maxPointers]pointerState
	touchSlots  map[uint64]int
	potential   []PotentialEvent
	domBuf      []DomEvent
	injectQueue []PlatformEvent
	testRunner  *TestRunner

	frame uint64
}

// NewScene creates a new scene with a pre-created, interactable root element.
func NewScene(opts ...Option) *Scene {
	root := NewElement("root")
	root.Interactable = true
	s := &Scene{
		root:        root,
		scaleFactor: 1,
		layers:      NewLayers(),
		layout:      make(LayoutMap),
		index:       make(NodeIndex),
		layerOf:     make(map[NodeID]int16),
		accessNodes: make(map[AccessibilityID]*Node),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = discardLogger
	}
	if s.scaleFactor <= 0 {
		s.scaleFactor = 1
	}
	if s.focus == nil {
		s.focus = NewFocusContext()
	}
	s.requests = s.focus.Requests()
	s.access = NewAccessibilityState(s.title, s.focus, s.adapter, s.logger, s.metrics)
	if s.debug {
		s.SetDebugMode(true)
	}
	return s
}

// Root returns the scene's root element.
func (s *Scene) Root() *Node {
	return s.root
}

// Focus returns the scene's focus context.
func (s *Scene) Focus() *FocusContext {
	return s.focus
}

// Accessibility returns the scene's accessibility state.
func (s *Scene) Accessibility() *AccessibilityState {
	return s.access
}

// Snapshot returns the full accessibility tree as of the last projection.
// It is safe to call from any goroutine.
func (s *Scene) Snapshot() TreeUpdate {
	return s.access.Snapshot()
}

// ScaleFactor returns the device scale factor.
func (s *Scene) ScaleFactor() float64 {
	return s.scaleFactor
}

// SetScaleFactor changes the device scale factor. Values <= 0 are ignored.
func (s *Scene) SetScaleFactor(f float64) {
	if f > 0 {
		s.scaleFactor = f
	}
}

// SetAdapter replaces the platform adapter.
func (s *Scene) SetAdapter(a PlatformAdapter) {
	s.adapter = a
	s.access.SetAdapter(a)
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetInputSource sets where Update reads platform input from.
func (s *Scene) SetInputSource(src InputSource) {
	s.source = src
}

// Frame returns the number of completed Update calls.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// NodeByAccessibilityID returns the projected node carrying id.
func (s *Scene) NodeByAccessibilityID(id AccessibilityID) (*Node, bool) {
	n, ok := s.accessNodes[id]
	return n, ok
}

// NodeByID returns the live node with id as of the last refresh.
func (s *Scene) NodeByID(id NodeID) (*Node, bool) {
	return s.index.Node(id)
}

// Layout returns the resolved areas from the last refresh.
func (s *Scene) Layout() LayoutMap {
	return s.layout
}

// Layers returns the layer index from the last refresh.
func (s *Scene) Layers() *Layers {
	return s.layers
}

// Update runs one frame: resolve layout and layers, project the
// accessibility tree, apply pending focus requests, turn the frame's input
// into DOM events and dispatch them, then apply focus requests made by
// handlers.
func (s *Scene) Update() {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.refresh()

	if s.debug {
		stats.layoutTime = time.Since(t0)
		t0 = time.Now()
	}

	s.access.Build(s.layers, s.layout, s.index)
	s.applyFocusRequests()

	if s.debug {
		stats.projectTime = time.Since(t0)
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	events := s.pollInput()
	potential := s.processInput(events)
	batch := s.resolveEvents(potential)

	if s.debug {
		stats.inputTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, ev := range batch {
		target, _ := s.index.Node(ev.NodeID)
		s.dispatch(ev, target)
	}
	s.applyFocusRequests()
	s.dispatchFocusChange()

	if s.debug {
		stats.dispatchTime = time.Since(t0)
		stats.layerCount = len(s.layers.Depths())
		stats.nodeCount = s.layers.Len()
		stats.accessCount = s.access.Len()
		stats.eventCount = len(batch)
		s.debugLog(stats)
	}
	s.frame++
}

// refresh rebuilds the per-frame snapshots from the live tree.
func (s *Scene) refresh() {
	s.layout = ComputeLayout(s.root, s.scaleFactor)
	s.layers = BuildLayers(s.root)
	s.index = IndexTree(s.root)

	clear(s.layerOf)
	clear(s.accessNodes)
	s.layers.Each(func(depth int16, id NodeID) bool {
		s.layerOf[id] = depth
		if n, ok := s.index[id]; ok {
			if aid := n.AccessibilityID(); !aid.IsZero() {
				s.accessNodes[aid] = n
			}
		}
		return true
	})
}

// applyFocusRequests applies the latest application focus request, if one
// arrived since the last call.
func (s *Scene) applyFocusRequests() {
	if !s.requests.HasChanged() {
		return
	}
	id := s.requests.Borrow()
	if !s.access.SetFocus(id) {
		s.logger.Debug("focus request for unknown node", "id", id)
	}
}

// pollInput drains one injected event, or reads the input source when the
// inject queue is empty.
func (s *Scene) pollInput() []PlatformEvent {
	if ev, ok := s.popInjected(); ok {
		return []PlatformEvent{ev}
	}
	if s.source == nil {
		return nil
	}
	return s.source.Poll()
}

// resolveEvents turns potential events into DOM events ordered for dispatch.
func (s *Scene) resolveEvents(potential []PotentialEvent) []DomEvent {
	s.domBuf = s.domBuf[:0]
	for _, p := range potential {
		n, ok := s.index.Node(p.NodeID)
		if !ok {
			continue
		}
		var area *Rect
		if r, ok := s.layout.Area(p.NodeID); ok {
			logical := Rect{
				X: r.X / s.scaleFactor, Y: r.Y / s.scaleFactor,
				Width: r.Width / s.scaleFactor, Height: r.Height / s.scaleFactor,
			}
			area = &logical
		}
		s.domBuf = append(s.domBuf, NewDomEvent(p, n.ElementID, area, s.scaleFactor))
	}
	SortForDispatch(s.domBuf)
	return s.domBuf
}

// dispatchFocusChange delivers blur and focus when the committed focus moved
// since the previous call.
func (s *Scene) dispatchFocusChange() {
	current := s.access.FocusID()
	if current == s.lastFocus {
		return
	}
	prev := s.lastFocus
	s.lastFocus = current

	if n, ok := s.accessNodes[prev]; ok {
		s.dispatch(s.focusEvent(EventBlur, n), n)
	}
	if n, ok := s.accessNodes[current]; ok {
		s.dispatch(s.focusEvent(EventFocus, n), n)
	}
}

func (s *Scene) focusEvent(name EventName, n *Node) DomEvent {
	ev := DomEvent{Name: name, NodeID: n.ID, ElementID: n.ElementID, Bubbles: name.Bubbles()}
	if d, ok := s.layerOf[n.ID]; ok {
		ev.Layer = &d
	}
	return ev
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
//
// Node operations have no scene pointer, so the disposal checks and tree
// warnings read a process-wide flag and logger. They follow whichever scene
// called SetDebugMode last; with several scenes, enable debug mode on one.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug.Store(enabled)
	if enabled {
		debugLogger.Store(s.logger)
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations can check it cheaply.
var globalDebug atomic.Bool
