package app

import (
	"log/slog"

	"github.com/depeter/couchbreak/internal/device"
)

// EmbedWindow returns a Deps.Embed that points every driver able to render
// into a foreign window at the game window.
func EmbedWindow(log *slog.Logger) func(drivers ...device.Driver) {
	return func(drivers ...device.Driver) {
		wid, err := windowHandle()
		if err != nil {
			log.Error("failed to get window handle", "error", err)
			return
		}
		for _, d := range drivers {
			e, ok := d.(interface{ SetWindowID(int64) error })
			if !ok {
				continue
			}
			if err := e.SetWindowID(wid); err != nil {
				log.Error("failed to set window ID", "error", err)
			}
		}
		log.Info("video embedded", "wid", wid)
	}
}
