package player

import (
	"github.com/depeter/couchbreak/internal/device"
	"github.com/depeter/couchbreak/internal/display"
)

// Rects are authored against this viewport.
const (
	ReferenceWidth  = 1920
	ReferenceHeight = 1080
)

// Geometry keeps the windowed video rect and the full screen bounds.
type Geometry struct {
	windowed device.Rect
	screen   display.Resolution
	scaled   bool
}

func NewGeometry(authored device.Rect) *Geometry {
	return &Geometry{
		windowed: authored,
		screen:   display.Resolution{Width: ReferenceWidth, Height: ReferenceHeight},
	}
}

// Scale rescales the authored rect to res. Only the first call has effect.
func (g *Geometry) Scale(res display.Resolution) {
	if g.scaled || !res.Valid() {
		return
	}
	wr := float64(res.Width) / ReferenceWidth
	hr := float64(res.Height) / ReferenceHeight
	g.windowed.X *= wr
	g.windowed.Width *= wr
	g.windowed.Y *= hr
	g.windowed.Height *= hr
	g.screen = res
	g.scaled = true
}

// Windowed is the rect restored when leaving fullscreen.
func (g *Geometry) Windowed() device.Rect {
	return g.windowed
}

// Fullscreen covers the whole screen.
func (g *Geometry) Fullscreen() device.Rect {
	return device.Rect{Width: float64(g.screen.Width), Height: float64(g.screen.Height)}
}
