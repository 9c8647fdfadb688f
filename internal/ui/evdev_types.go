package ui

import (
	"encoding/binary"
	"log/slog"
	"sync"
	"time"
)

// Linux evdev constants for TV remote media keys.
const (
	evKey          = 0x01
	keyPlayPause   = 164 // KEY_PLAYPAUSE
	keyStopCD      = 166 // KEY_STOPCD
	keyRewind      = 168 // KEY_REWIND
	keyPauseCD     = 201 // KEY_PAUSECD
	keyPlay        = 207 // KEY_PLAY
	keyFastForward = 208 // KEY_FASTFORWARD
	keyStop        = 128 // KEY_STOP
)

var remoteKeys = map[uint16]Action{
	keyPlayPause:   ActionPlayPause,
	keyStopCD:      ActionStop,
	keyStop:        ActionStop,
	keyRewind:      ActionRewind,
	keyPauseCD:     ActionPause,
	keyPlay:        ActionPlay,
	keyFastForward: ActionFastForward,
}

// EvdevEvent represents a captured evdev input event.
type EvdevEvent struct {
	Time   time.Time
	Device string // e.g. "event3"
	Type   uint16
	Code   uint16
	Value  int32
}

// decodeEvent parses a 64-bit input_event: type at offset 16, code at 18,
// value at 20.
func decodeEvent(buf []byte) (typ, code uint16, value int32, ok bool) {
	if len(buf) < 24 {
		return 0, 0, 0, false
	}
	typ = binary.LittleEndian.Uint16(buf[16:18])
	code = binary.LittleEndian.Uint16(buf[18:20])
	value = int32(binary.LittleEndian.Uint32(buf[20:24]))
	return typ, code, value, true
}

// remoteAction maps a key press to an action. Releases and repeats are ignored.
func remoteAction(ev EvdevEvent) Action {
	if ev.Type != evKey || ev.Value != 1 {
		return ActionNone
	}
	return remoteKeys[ev.Code]
}

const recentEventsMax = 8

// Remote collects media key presses from input devices.
type Remote struct {
	log     *slog.Logger
	actions chan Action

	mu     sync.Mutex
	recent []EvdevEvent
}

func newRemote(log *slog.Logger) *Remote {
	return &Remote{log: log, actions: make(chan Action, 16)}
}

// deliver queues the action for ev, dropping it if Poll has fallen behind.
func (r *Remote) deliver(ev EvdevEvent) {
	a := remoteAction(ev)
	if a == ActionNone {
		return
	}
	r.log.Debug("remote key", "device", ev.Device, "code", ev.Code, "action", a)
	r.mu.Lock()
	r.recent = append(r.recent, ev)
	if len(r.recent) > recentEventsMax {
		r.recent = r.recent[len(r.recent)-recentEventsMax:]
	}
	r.mu.Unlock()

	select {
	case r.actions <- a:
	default:
		r.log.Warn("remote key dropped", "action", a)
	}
}

// Poll returns the next pending action, or ActionNone.
func (r *Remote) Poll() Action {
	select {
	case a := <-r.actions:
		return a
	default:
		return ActionNone
	}
}

// Recent returns a snapshot of the most recent media key presses.
func (r *Remote) Recent() []EvdevEvent {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EvdevEvent, len(r.recent))
	copy(out, r.recent)
	return out
}
