// Package arbor projects a retained, layered scene graph into a platform
// accessibility tree and turns raw platform input into ordered DOM-style
// events.
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a tree rooted at [Scene.Root].
// Children are placed relative to their parent; [ComputeLayout] resolves
// every node to an area in device pixels and [BuildLayers] files nodes into
// paint layers (tree depth plus [Node.Layer], ZIndex order inside a layer).
//
//	scene := arbor.NewScene(arbor.WithTitle("Settings"))
//	ok := arbor.NewElement("ok")
//	ok.SetPosition(10, 10)
//	ok.SetSize(80, 24)
//	ok.SetRole(arbor.RoleButton)
//	ok.SetFocusable(true)
//	scene.Root().AddChild(ok)
//
// # Accessibility
//
// Each [Scene.Update] rebuilds the accessibility tree from scratch: layers
// are walked back-to-front and every node with accessibility semantics
// becomes an [AccessNode] under a synthetic window root ([WindowID]). The
// full tree is pushed to the [PlatformAdapter] and is always available from
// [Scene.Snapshot], which is safe to call from any goroutine.
//
// # Focus
//
// Focus lives in a [FocusContext] shared by the application and the scene.
// The application requests focus with [FocusContext.RequestFocus] and
// observes the committed focus with [FocusContext.Subscribe]. Tab and
// Shift+Tab move focus through accessible nodes in layer order, wrapping at
// both ends. From no focus, forward selects the first node and backward the
// last.
//
// # Events
//
// Platform input ([MouseInput], [WheelInput], [KeyboardInput], [TouchInput])
// is hit-tested against layers front-to-back and converted into [DomEvent]s.
// A mouse event is delivered in its mouse form, its pointer form, or both,
// depending on which listeners exist. Leave events are dispatched after
// everything else in a batch. Handlers registered with [Scene.On] run first,
// then the target's listener ([Node.On]), then ancestors for bubbling events.
//
// ECS integration is available through the [EntityStore] interface; the
// arbor/ecs package provides a Donburi adapter.
package arbor
