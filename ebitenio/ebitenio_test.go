package ebitenio

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/phanxgames/arbor"
)

func TestFocusRing_FirstTargetJumps(t *testing.T) {
	r := NewFocusRing()
	_, visible := r.Bounds()
	assert.False(t, visible)

	target := arbor.Rect{X: 10, Y: 20, Width: 30, Height: 40}
	r.Target(target, true)
	got, visible := r.Bounds()
	assert.True(t, visible)
	assert.Equal(t, target, got)
}

func TestFocusRing_GlidesToNewTarget(t *testing.T) {
	r := NewFocusRing()
	r.Target(arbor.Rect{X: 0, Y: 0, Width: 10, Height: 10}, true)
	r.Target(arbor.Rect{X: 100, Y: 0, Width: 10, Height: 10}, true)

	r.Update(r.Duration / 2)
	mid, _ := r.Bounds()
	assert.Greater(t, mid.X, 0.0)
	assert.Less(t, mid.X, 100.0)

	r.Update(r.Duration)
	end, _ := r.Bounds()
	assert.Equal(t, arbor.Rect{X: 100, Y: 0, Width: 10, Height: 10}, end)
}

func TestFocusRing_Hide(t *testing.T) {
	r := NewFocusRing()
	r.Target(arbor.Rect{Width: 5, Height: 5}, true)
	r.Target(arbor.Rect{}, false)
	_, visible := r.Bounds()
	assert.False(t, visible)
}

func TestKeyNames(t *testing.T) {
	tests := []struct {
		name     string
		key      ebiten.Key
		mods     arbor.KeyModifiers
		wantKey  string
		wantCode string
	}{
		{"letter", ebiten.KeyA, 0, "a", "KeyA"},
		{"shifted letter", ebiten.KeyA, arbor.ModShift, "A", "KeyA"},
		{"digit", ebiten.KeyDigit7, 0, "7", "Digit7"},
		{"tab", ebiten.KeyTab, 0, "Tab", "Tab"},
		{"shift tab", ebiten.KeyTab, arbor.ModShift, "Tab", "Tab"},
		{"space", ebiten.KeySpace, 0, " ", "Space"},
		{"arrow", ebiten.KeyArrowLeft, 0, "ArrowLeft", "ArrowLeft"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, code := KeyNames(tt.key, tt.mods)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMouseButton(t *testing.T) {
	assert.Equal(t, arbor.MouseButtonLeft, mouseButton(ebiten.MouseButtonLeft))
	assert.Equal(t, arbor.MouseButtonRight, mouseButton(ebiten.MouseButtonRight))
	assert.Equal(t, arbor.MouseButtonMiddle, mouseButton(ebiten.MouseButtonMiddle))
}
