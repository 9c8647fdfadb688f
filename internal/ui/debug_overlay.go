package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// DebugOverlay is a status panel toggled with F12.
type DebugOverlay struct {
	visible bool
}

// HandleInput toggles the panel on F12.
func (d *DebugOverlay) HandleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		d.Toggle()
	}
}

func (d *DebugOverlay) Toggle() { d.visible = !d.visible }

func (d *DebugOverlay) Visible() bool { return d.visible }

// Draw renders status lines and the most recent remote key presses in the
// top right corner of screen.
func (d *DebugOverlay) Draw(screen *ebiten.Image, status []string, remote []EvdevEvent) {
	if !d.visible {
		return
	}

	const (
		padX    = 16.0
		padY    = 12.0
		lineH   = 20.0
		marginR = 20.0
		marginT = 20.0
	)

	lines := 1 + len(status)
	lines += 2 // blank + remote header
	lines += max(len(remote), 1)
	panelH := float64(lines)*lineH + padY*2
	panelW := 520.0
	px := float64(screen.Bounds().Dx()) - panelW - marginR
	py := marginT

	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), ColorOverlay, false)

	x := px + padX
	y := py + padY

	DrawText(screen, "Debug: playback (F12 to close)", x, y, FontSizeSmall, ColorPrimary)
	y += lineH
	for _, line := range status {
		DrawText(screen, line, x, y, FontSizeSmall, ColorText)
		y += lineH
	}

	y += lineH * 0.5
	DrawText(screen, "--- remote key presses ---", x, y, FontSizeSmall, ColorTextMuted)
	y += lineH

	if len(remote) == 0 {
		DrawText(screen, "(none)", x, y, FontSizeSmall, ColorTextSecondary)
		return
	}
	now := time.Now()
	for _, ev := range remote {
		age := now.Sub(ev.Time).Truncate(time.Millisecond)
		line := fmt.Sprintf("%s  code=%-4d  %-12s %s ago", ev.Device, ev.Code, remoteAction(ev), age)
		DrawText(screen, line, x, y, FontSizeSmall, ColorText)
		y += lineH
	}
}
