//go:build linux

package ui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unsafe"
)

// inputEventSize is the size of a Linux input_event struct (timeval + u16 + u16 + s32).
var inputEventSize = int(unsafe.Sizeof(struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}{}))

// StartRemote scans /dev/input/event* devices for media key presses until
// ctx is cancelled.
func StartRemote(ctx context.Context, log *slog.Logger) *Remote {
	r := newRemote(log)
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(matches) == 0 {
		log.Info("no input devices, remote disabled")
		return r
	}
	for _, path := range matches {
		go r.readEvdev(ctx, path)
	}
	return r
}

func (r *Remote) readEvdev(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		// no permission or device not accessible
		r.log.Debug("skip input device", "path", path, "error", err)
		return
	}
	go func() {
		<-ctx.Done()
		f.Close()
	}()

	device := filepath.Base(path)
	buf := make([]byte, inputEventSize)
	for {
		if _, err := f.Read(buf); err != nil {
			return
		}
		typ, code, value, ok := decodeEvent(buf)
		if !ok {
			continue
		}
		r.deliver(EvdevEvent{
			Time:   time.Now(),
			Device: device,
			Type:   typ,
			Code:   code,
			Value:  value,
		})
	}
}
