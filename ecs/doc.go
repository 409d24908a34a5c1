// Package ecs provides ECS adapters for arbor's dispatched events.
//
// The primary adapter is [NewDonburiStore], which bridges every event a scene
// dispatches (pointer, mouse, keyboard, wheel, touch, focus) into a [Donburi]
// world as typed events. Subscribe to [InteractionEventType] in your ECS
// systems to receive them, or to [FocusEventType] for focus and blur only.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene := arbor.NewScene(arbor.WithEntityStore(store))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
