package display

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// Monitor reads the native size of the monitor the window is on.
type Monitor struct{}

func (Monitor) Resolution(ctx context.Context) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}
	m := ebiten.Monitor()
	if m == nil {
		return Resolution{}, errors.New("no monitor")
	}
	w, h := m.Size()
	scale := m.DeviceScaleFactor()
	return Resolution{
		Width:  int(float64(w) * scale),
		Height: int(float64(h) * scale),
	}, nil
}

// WindowSize is the fallback: the window's inner size.
func WindowSize() Resolution {
	w, h := ebiten.WindowSize()
	return Resolution{Width: w, Height: h}
}
