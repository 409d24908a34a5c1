package arbor

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and deltas
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Div returns v with both components divided by f. A zero factor returns v
// unchanged.
func (v Vec2) Div(f float64) Vec2 {
	if f == 0 {
		return v
	}
	return Vec2{v.X / f, v.Y / f}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text color.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA32 packs the color big-endian into 0xRRGGBBAA, the encoding platform
// accessibility layers use for foreground/background colors.
func (c Color) RGBA32() uint32 {
	to8 := func(v float64) uint32 {
		return uint32(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return to8(c.R)<<24 | to8(c.G)<<16 | to8(c.B)<<8 | to8(c.A)
}

// NodeType distinguishes how a Node participates in projection.
type NodeType uint8

const (
	NodeTypeElement NodeType = iota // generic element (rect, container)
	NodeTypeText                    // literal text leaf
	NodeTypeLabel                   // single-line text element
	NodeTypeImage                   // raster/svg element
)

// Tag returns the element tag used for default-role resolution.
func (t NodeType) Tag() string {
	switch t {
	case NodeTypeText:
		return "text"
	case NodeTypeLabel:
		return "label"
	case NodeTypeImage:
		return "image"
	default:
		return "rect"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
	MouseButtonNone                      // no button involved (hover, enter/leave)
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "none"
	}
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether all bits of m are set.
func (k KeyModifiers) Has(m KeyModifiers) bool {
	return k&m == m
}

// TouchPhase is the lifecycle stage of a touch contact.
type TouchPhase uint8

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)
