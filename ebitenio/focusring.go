package ebitenio

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/arbor"
)

// FocusRing draws an outline around the focused node and glides it to the
// new bounds whenever focus moves. Call Target every frame with the committed
// focus bounds, then Update and Draw.
type FocusRing struct {
	Color       color.Color
	StrokeWidth float32
	Duration    float32
	Ease        ease.TweenFunc

	tweens  [4]*gween.Tween
	current arbor.Rect
	target  arbor.Rect
	visible bool
}

// NewFocusRing returns a ring with a 0.15s ease-out glide.
func NewFocusRing() *FocusRing {
	return &FocusRing{
		Color:       color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
		StrokeWidth: 2,
		Duration:    0.15,
		Ease:        ease.OutCubic,
	}
}

// Target sets where the ring should be. ok=false hides it. A ring that was
// hidden jumps straight to the new bounds instead of gliding.
func (r *FocusRing) Target(bounds arbor.Rect, ok bool) {
	if !ok {
		r.visible = false
		r.tweens = [4]*gween.Tween{}
		return
	}
	if !r.visible {
		r.visible = true
		r.current = bounds
		r.target = bounds
		r.tweens = [4]*gween.Tween{}
		return
	}
	if bounds == r.target {
		return
	}
	r.target = bounds
	from := [4]float64{r.current.X, r.current.Y, r.current.Width, r.current.Height}
	to := [4]float64{bounds.X, bounds.Y, bounds.Width, bounds.Height}
	for i := range r.tweens {
		r.tweens[i] = gween.New(float32(from[i]), float32(to[i]), r.Duration, r.Ease)
	}
}

// Update advances the glide by dt seconds.
func (r *FocusRing) Update(dt float32) {
	if r.tweens[0] == nil {
		return
	}
	var vals [4]float64
	done := true
	for i, tw := range r.tweens {
		v, finished := tw.Update(dt)
		vals[i] = float64(v)
		if !finished {
			done = false
		}
	}
	r.current = arbor.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if done {
		r.current = r.target
		r.tweens = [4]*gween.Tween{}
	}
}

// Bounds returns the ring's current bounds and whether it is shown.
func (r *FocusRing) Bounds() (arbor.Rect, bool) {
	return r.current, r.visible
}

// Draw strokes the ring onto dst.
func (r *FocusRing) Draw(dst *ebiten.Image) {
	if !r.visible {
		return
	}
	pad := float64(r.StrokeWidth)
	vector.StrokeRect(dst,
		float32(r.current.X-pad), float32(r.current.Y-pad),
		float32(r.current.Width+2*pad), float32(r.current.Height+2*pad),
		r.StrokeWidth, r.Color, true)
}
