package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for every dispatched arbor
// event.
var InteractionEventType = events.NewEventType[arbor.InteractionEvent]()

// FocusEvent reports a focus or blur delivered to an accessible node.
type FocusEvent struct {
	Focused         bool
	EntityID        uint32
	AccessibilityID arbor.AccessibilityID
}

// FocusEventType is the Donburi event type for focus and blur.
var FocusEventType = events.NewEventType[FocusEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are queued on InteractionEventType (and FocusEventType for focus
// changes) and can be consumed with Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) arbor.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event arbor.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
	switch event.Name {
	case arbor.EventFocus, arbor.EventBlur:
		FocusEventType.Publish(s.world, FocusEvent{
			Focused:         event.Name == arbor.EventFocus,
			EntityID:        event.EntityID,
			AccessibilityID: event.AccessibilityID,
		})
	}
}
