package arbor

import (
	"fmt"
	"log/slog"
	"sync"
)

// FocusDirection selects the neighbor FocusNext moves to.
type FocusDirection uint8

const (
	FocusForward FocusDirection = iota
	FocusBackward
)

func (d FocusDirection) String() string {
	if d == FocusBackward {
		return "backward"
	}
	return "forward"
}

// PlatformAdapter receives pushed accessibility updates: a full tree after
// each projection and focus-only updates on navigation. Implementations may
// call back into AccessibilityState.Snapshot from Update.
type PlatformAdapter interface {
	Update(update TreeUpdate)
}

// AdapterFunc adapts a function to PlatformAdapter.
type AdapterFunc func(TreeUpdate)

// Update implements PlatformAdapter.
func (f AdapterFunc) Update(u TreeUpdate) { f(u) }

// AccessibilityProvider is the capability set of the accessibility side of a
// scene: build the tree from layers, fold in one layer at a time, move focus,
// and serve snapshots.
type AccessibilityProvider interface {
	Build(layers *Layers, layout Layout, tree NodeLookup)
	ProcessLayer(depth int16, ids []NodeID, layout Layout, tree NodeLookup)
	SetFocus(id AccessibilityID) bool
	FocusNext(dir FocusDirection) bool
	FocusID() AccessibilityID
	Snapshot() TreeUpdate
}

// AccessibilityState owns the projected nodes and the focused id. It is safe
// for concurrent use: the scene writes it every frame while the platform
// adapter may request snapshots from its own goroutine. Adapter pushes and
// focus publication always happen after the lock is released.
type AccessibilityState struct {
	mu      sync.Mutex
	title   string
	entries []AccessEntry
	index   map[AccessibilityID]int
	focus   AccessibilityID

	adapter PlatformAdapter
	focusCx *FocusContext
	logger  *slog.Logger
	metrics *Metrics
}

var _ AccessibilityProvider = (*AccessibilityState)(nil)

// NewAccessibilityState creates an empty state. adapter and metrics may be
// nil; focusCx must not be.
func NewAccessibilityState(title string, focusCx *FocusContext, adapter PlatformAdapter, logger *slog.Logger, metrics *Metrics) *AccessibilityState {
	if logger == nil {
		logger = discardLogger
	}
	if focusCx == nil {
		focusCx = NewFocusContext()
	}
	return &AccessibilityState{
		title:   title,
		index:   make(map[AccessibilityID]int),
		adapter: adapter,
		focusCx: focusCx,
		logger:  logger,
		metrics: metrics,
	}
}

// SetAdapter replaces the platform adapter.
func (s *AccessibilityState) SetAdapter(adapter PlatformAdapter) {
	s.mu.Lock()
	s.adapter = adapter
	s.mu.Unlock()
}

// Build replaces every projected node with a fresh pass over layers. If the
// focused node did not survive, focus is cleared and the application is told.
// The full tree is then pushed to the adapter.
func (s *AccessibilityState) Build(layers *Layers, layout Layout, tree NodeLookup) {
	entries := collectAccessNodes(layers, layout, tree, s.logger)

	s.mu.Lock()
	s.entries = entries
	s.reindexLocked()
	lostFocus := !s.focus.IsZero() && !s.hasLocked(s.focus)
	if lostFocus {
		s.logger.Debug("focused node left the tree", "id", s.focus)
		s.focus = AccessibilityID{}
	}
	update := assembleTree(s.entries, s.title, s.focus)
	adapter := s.adapter
	s.mu.Unlock()

	s.metrics.observeProjection(len(entries))
	if lostFocus {
		s.focusCx.publish(AccessibilityID{})
	}
	if adapter != nil {
		adapter.Update(update)
	}
}

// ProcessLayer appends the accessible nodes of one layer to the current node
// list. Build is the usual entry point; ProcessLayer lets a driver feed layers
// incrementally. A node that is already in the list keeps its position and
// gets its refreshed projection. It does not push to the adapter.
func (s *AccessibilityState) ProcessLayer(depth int16, ids []NodeID, layout Layout, tree NodeLookup) {
	l := NewLayers()
	for _, id := range ids {
		l.Add(depth, id)
	}
	entries := collectAccessNodes(l, layout, tree, s.logger)

	s.mu.Lock()
	next := make([]AccessEntry, 0, len(s.entries)+len(entries))
	next = append(next, s.entries...)
	for _, e := range entries {
		if i, ok := s.index[e.ID]; ok {
			next[i] = e
			continue
		}
		s.index[e.ID] = len(next)
		next = append(next, e)
	}
	s.entries = next
	s.reindexLocked()
	s.mu.Unlock()
}

// Clear drops every projected node. Focus is left for the next Build to
// validate.
func (s *AccessibilityState) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.reindexLocked()
	s.mu.Unlock()
}

// Snapshot returns the full tree. It only waits on the state's own lock.
func (s *AccessibilityState) Snapshot() TreeUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return assembleTree(s.entries, s.title, s.focus)
}

// FocusID returns the focused id, or the zero id.
func (s *AccessibilityState) FocusID() AccessibilityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// Len returns the number of projected nodes, excluding the window root.
func (s *AccessibilityState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// IDs returns the projected ids in navigation order.
func (s *AccessibilityState) IDs() []AccessibilityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]AccessibilityID, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// SetFocus focuses id. The zero id clears focus. An id that is not in the
// current node list is dropped and SetFocus reports false; the adapter is
// never pointed at a node that does not exist.
func (s *AccessibilityState) SetFocus(id AccessibilityID) bool {
	s.mu.Lock()
	if id.IsZero() {
		had := !s.focus.IsZero()
		s.focus = AccessibilityID{}
		s.mu.Unlock()
		if had {
			s.metrics.observeFocusChange()
			s.focusCx.publish(AccessibilityID{})
		}
		return true
	}
	if !s.hasLocked(id) {
		s.mu.Unlock()
		s.logger.Debug("focus request dropped", "err", fmt.Errorf("%w: %s", ErrMissingTarget, id))
		s.metrics.observeFocusDropped()
		return false
	}
	s.focus = id
	adapter := s.adapter
	s.mu.Unlock()

	s.commit(adapter, id)
	return true
}

// FocusNext moves focus to the neighbor of the focused node in layer order,
// wrapping at both ends. With nothing focused (or a focus that is no longer in
// the tree), Forward picks the first node and Backward picks the last. With
// no nodes it does nothing and reports false.
func (s *AccessibilityState) FocusNext(dir FocusDirection) bool {
	s.mu.Lock()
	n := len(s.entries)
	if n == 0 {
		s.mu.Unlock()
		return false
	}
	current, ok := s.index[s.focus]
	var target int
	switch {
	case !ok || s.focus.IsZero():
		if dir == FocusBackward {
			target = n - 1
		} else {
			target = 0
		}
	case dir == FocusBackward:
		target = (current - 1 + n) % n
	default:
		target = (current + 1) % n
	}
	id := s.entries[target].ID
	s.focus = id
	adapter := s.adapter
	s.mu.Unlock()

	s.logger.Debug("focus moved", "direction", dir, "id", id)
	s.commit(adapter, id)
	return true
}

// commit tells the adapter and the application about a new focus.
func (s *AccessibilityState) commit(adapter PlatformAdapter, id AccessibilityID) {
	s.metrics.observeFocusChange()
	if adapter != nil {
		adapter.Update(TreeUpdate{Focus: id})
	}
	s.focusCx.publish(id)
}

func (s *AccessibilityState) reindexLocked() {
	clear(s.index)
	for i, e := range s.entries {
		s.index[e.ID] = i
	}
}

func (s *AccessibilityState) hasLocked(id AccessibilityID) bool {
	_, ok := s.index[id]
	return ok
}
