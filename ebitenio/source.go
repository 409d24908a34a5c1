package ebitenio

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/arbor"
)

// Source polls Ebitengine input once per tick. The game screen is expected to
// be laid out in device pixels (see Run), so cursor positions are already
// device pixels; touch positions are divided by the scale factor.
type Source struct {
	scale func() float64

	lastCursor arbor.Vec2
	hasCursor  bool
	keys       []ebiten.Key
	touches    []ebiten.TouchID
	events     []arbor.PlatformEvent
}

// NewSource returns a Source that reads the device scale factor from scale
// on every poll. A nil scale uses the current monitor's factor.
func NewSource(scale func() float64) *Source {
	if scale == nil {
		scale = DeviceScaleFactor
	}
	return &Source{scale: scale}
}

// DeviceScaleFactor returns the current monitor's device scale factor.
func DeviceScaleFactor() float64 {
	if m := ebiten.Monitor(); m != nil {
		if f := m.DeviceScaleFactor(); f > 0 {
			return f
		}
	}
	return 1
}

// Poll implements arbor.InputSource. The returned slice is reused on the
// next call.
func (s *Source) Poll() []arbor.PlatformEvent {
	s.events = s.events[:0]
	mods := readModifiers()

	cx, cy := ebiten.CursorPosition()
	cursor := arbor.Vec2{X: float64(cx), Y: float64(cy)}
	if !s.hasCursor || cursor != s.lastCursor {
		s.events = append(s.events, arbor.MouseInput{Name: arbor.EventMouseMove, Cursor: cursor, Button: arbor.MouseButtonNone})
		s.lastCursor = cursor
		s.hasCursor = true
	}

	for _, b := range []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonRight, ebiten.MouseButtonMiddle} {
		if inpututil.IsMouseButtonJustPressed(b) {
			s.events = append(s.events, arbor.MouseInput{Name: arbor.EventMouseDown, Cursor: cursor, Button: mouseButton(b)})
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			s.events = append(s.events, arbor.MouseInput{Name: arbor.EventMouseUp, Cursor: cursor, Button: mouseButton(b)})
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		s.events = append(s.events, arbor.WheelInput{Name: arbor.EventWheel, Cursor: cursor, Scroll: arbor.Vec2{X: dx, Y: dy}})
	}

	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		key, code := KeyNames(k, mods)
		s.events = append(s.events, arbor.KeyboardInput{Name: arbor.EventKeyDown, Key: key, Code: code, Modifiers: mods})
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		key, code := KeyNames(k, mods)
		s.events = append(s.events, arbor.KeyboardInput{Name: arbor.EventKeyUp, Key: key, Code: code, Modifiers: mods})
	}

	s.pollTouches()
	return s.events
}

func (s *Source) pollTouches() {
	scale := s.scale()
	if scale <= 0 {
		scale = 1
	}
	logical := func(x, y int) arbor.Vec2 {
		return arbor.Vec2{X: float64(x) / scale, Y: float64(y) / scale}
	}

	s.touches = inpututil.AppendJustPressedTouchIDs(s.touches[:0])
	started := make(map[ebiten.TouchID]bool, len(s.touches))
	for _, id := range s.touches {
		started[id] = true
		x, y := ebiten.TouchPosition(id)
		s.events = append(s.events, arbor.TouchInput{
			Name: arbor.EventTouchStart, Location: logical(x, y),
			FingerID: uint64(id), Phase: arbor.TouchStarted, Force: 1,
		})
	}

	s.touches = ebiten.AppendTouchIDs(s.touches[:0])
	for _, id := range s.touches {
		if started[id] {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if x == px && y == py {
			continue
		}
		s.events = append(s.events, arbor.TouchInput{
			Name: arbor.EventTouchMove, Location: logical(x, y),
			FingerID: uint64(id), Phase: arbor.TouchMoved, Force: 1,
		})
	}

	s.touches = inpututil.AppendJustReleasedTouchIDs(s.touches[:0])
	for _, id := range s.touches {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		s.events = append(s.events, arbor.TouchInput{
			Name: arbor.EventTouchEnd, Location: logical(x, y),
			FingerID: uint64(id), Phase: arbor.TouchEnded,
		})
	}
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() arbor.KeyModifiers {
	var mods arbor.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= arbor.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= arbor.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= arbor.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= arbor.ModMeta
	}
	return mods
}

func mouseButton(b ebiten.MouseButton) arbor.MouseButton {
	switch b {
	case ebiten.MouseButtonLeft:
		return arbor.MouseButtonLeft
	case ebiten.MouseButtonRight:
		return arbor.MouseButtonRight
	case ebiten.MouseButtonMiddle:
		return arbor.MouseButtonMiddle
	}
	return arbor.MouseButtonNone
}

var namedKeys = map[ebiten.Key]string{
	ebiten.KeyTab:        "Tab",
	ebiten.KeyEnter:      "Enter",
	ebiten.KeyEscape:     "Escape",
	ebiten.KeySpace:      " ",
	ebiten.KeyBackspace:  "Backspace",
	ebiten.KeyDelete:     "Delete",
	ebiten.KeyArrowUp:    "ArrowUp",
	ebiten.KeyArrowDown:  "ArrowDown",
	ebiten.KeyArrowLeft:  "ArrowLeft",
	ebiten.KeyArrowRight: "ArrowRight",
	ebiten.KeyHome:       "Home",
	ebiten.KeyEnd:        "End",
	ebiten.KeyPageUp:     "PageUp",
	ebiten.KeyPageDown:   "PageDown",
}

// KeyNames returns the logical key and the physical code for k. Letters are
// upper-cased when Shift is held; codes follow the "KeyA" / "Digit1"
// convention.
func KeyNames(k ebiten.Key, mods arbor.KeyModifiers) (key, code string) {
	name := k.String()
	if named, ok := namedKeys[k]; ok {
		code = name
		if k == ebiten.KeySpace {
			code = "Space"
		}
		return named, code
	}
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		code = "Key" + name
		if mods.Has(arbor.ModShift) {
			return name, code
		}
		return strings.ToLower(name), code
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return strings.TrimPrefix(name, "Digit"), name
	}
	return name, name
}
