package ebitenio

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/arbor"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Background fills the screen before the scene is drawn.
	Background color.Color
	// Outlines strokes every laid-out node, which helps when inspecting a
	// scene that has no paint of its own.
	Outlines bool
}

// Run opens a window and drives scene until the window is closed. It installs
// a Source as the scene's input source.
func Run(scene *arbor.Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Background == nil {
		cfg.Background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	}
	scene.SetInputSource(NewSource(nil))

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{scene: scene, cfg: cfg, ring: NewFocusRing()})
}

type game struct {
	scene *arbor.Scene
	cfg   RunConfig
	ring  *FocusRing
}

func (g *game) Update() error {
	g.scene.SetScaleFactor(DeviceScaleFactor())
	g.scene.Update()

	var bounds arbor.Rect
	ok := false
	if n, found := g.scene.NodeByAccessibilityID(g.scene.Accessibility().FocusID()); found {
		bounds, ok = g.scene.Layout().Area(n.ID)
	}
	g.ring.Target(bounds, ok)
	g.ring.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	layout := g.scene.Layout()
	g.scene.Layers().Each(func(_ int16, id arbor.NodeID) bool {
		area, ok := layout.Area(id)
		if !ok {
			return true
		}
		n, ok := g.scene.NodeByID(id)
		if !ok {
			return true
		}
		if bg := n.Access.Background; bg != nil {
			vector.DrawFilledRect(screen, float32(area.X), float32(area.Y),
				float32(area.Width), float32(area.Height), toRGBA(*bg), false)
		}
		if g.cfg.Outlines && !area.IsEmpty() {
			vector.StrokeRect(screen, float32(area.X), float32(area.Y),
				float32(area.Width), float32(area.Height), 1, color.RGBA{R: 0x55, G: 0x55, B: 0x66, A: 0xff}, false)
		}
		if n.Type == arbor.NodeTypeText && n.Text != "" {
			ebitenutil.DebugPrintAt(screen, n.Text, int(area.X), int(area.Y))
		}
		return true
	})
	g.ring.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// LayoutF lays the screen out in device pixels so cursor positions and
// resolved areas share one space.
func (g *game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	s := DeviceScaleFactor()
	return outsideWidth * s, outsideHeight * s
}

func toRGBA(c arbor.Color) color.NRGBA {
	v := c.RGBA32()
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
