package arbor

import (
	"context"
	"sync"
)

// Watch is a single-slot broadcast value. Send stores the latest value and
// wakes every waiter; receivers only ever observe the most recent value, never
// a backlog. Any number of goroutines may receive; sends are last-write-wins.
type Watch[T comparable] struct {
	mu      sync.Mutex
	value   T
	version uint64
	changed chan struct{} // closed and replaced on every Send
}

// NewWatch returns a Watch holding initial at version 0.
func NewWatch[T comparable](initial T) *Watch[T] {
	return &Watch[T]{value: initial, changed: make(chan struct{})}
}

// Send replaces the stored value and notifies all waiters.
func (w *Watch[T]) Send(v T) {
	w.mu.Lock()
	w.value = v
	w.version++
	close(w.changed)
	w.changed = make(chan struct{})
	w.mu.Unlock()
}

// Load returns the latest value and its version.
func (w *Watch[T]) Load() (T, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value, w.version
}

// Subscribe returns a receiver that has already seen the current value.
func (w *Watch[T]) Subscribe() *Receiver[T] {
	_, version := w.Load()
	return &Receiver[T]{w: w, seen: version}
}

// Receiver tracks which version of a Watch its owner has observed. A
// Receiver is not safe for concurrent use; give each goroutine its own.
type Receiver[T comparable] struct {
	w    *Watch[T]
	seen uint64
}

// HasChanged reports whether a value newer than the last observed one is
// available, without blocking.
func (r *Receiver[T]) HasChanged() bool {
	_, version := r.w.Load()
	return version != r.seen
}

// Borrow returns the latest value and marks it observed.
func (r *Receiver[T]) Borrow() T {
	v, version := r.w.Load()
	r.seen = version
	return v
}

// Changed blocks until a value newer than the last observed one is sent, then
// marks it observed. It returns ctx.Err() if ctx is done first.
func (r *Receiver[T]) Changed(ctx context.Context) error {
	for {
		r.w.mu.Lock()
		if r.w.version != r.seen {
			r.seen = r.w.version
			r.w.mu.Unlock()
			return nil
		}
		ch := r.w.changed
		r.w.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// FocusContext is the focus state shared between the application and the
// focus navigator. The application writes requests and reads the committed
// focus; the navigator reads requests and writes the committed focus. One
// FocusContext lives for the lifetime of a scene.
type FocusContext struct {
	requests  *Watch[AccessibilityID]
	committed *Watch[AccessibilityID]
}

// NewFocusContext returns a context with nothing focused.
func NewFocusContext() *FocusContext {
	return &FocusContext{
		requests:  NewWatch(AccessibilityID{}),
		committed: NewWatch(AccessibilityID{}),
	}
}

// RequestFocus asks the navigator to focus id. A later request supersedes
// an earlier one that has not been applied yet. Requests for ids that are not
// in the accessibility tree when applied are dropped.
func (f *FocusContext) RequestFocus(id AccessibilityID) {
	f.requests.Send(id)
}

// ClearFocus asks the navigator to drop focus.
func (f *FocusContext) ClearFocus() {
	f.requests.Send(AccessibilityID{})
}

// Focused returns the committed focus, or the zero id when nothing is focused.
func (f *FocusContext) Focused() AccessibilityID {
	id, _ := f.committed.Load()
	return id
}

// IsFocused reports whether id holds the committed focus.
func (f *FocusContext) IsFocused(id AccessibilityID) bool {
	return !id.IsZero() && f.Focused() == id
}

// Subscribe returns a receiver for committed focus changes.
func (f *FocusContext) Subscribe() *Receiver[AccessibilityID] {
	return f.committed.Subscribe()
}

// Requests returns a receiver for application focus requests. The navigator
// side owns it.
func (f *FocusContext) Requests() *Receiver[AccessibilityID] {
	return f.requests.Subscribe()
}

// publish commits id as the focus observed by the application.
func (f *FocusContext) publish(id AccessibilityID) {
	f.committed.Send(id)
}
