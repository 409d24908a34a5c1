// Package ebitenio connects an arbor scene to Ebitengine: [Source] polls
// mouse, wheel, keyboard and touch state into arbor platform events, [Run]
// drives a scene in a window, and [FocusRing] animates a focus outline toward
// the committed focus.
package ebitenio
