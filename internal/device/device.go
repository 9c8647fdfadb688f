package device

import (
	"errors"
	"time"
)

// State is the playback state reported by a driver.
type State int

const (
	StateNone State = iota
	StateIdle
	StateReady
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateIdle:
		return "IDLE"
	case StateReady:
		return "READY"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	default:
		return "UNKNOWN"
	}
}

// Rect is a display rectangle in screen pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// DisplayMethod controls how video is fitted into the display rect.
type DisplayMethod int

// DisplayAutoAspectRatio letterboxes the video inside the rect.
const DisplayAutoAspectRatio DisplayMethod = 0

// Direction of a relative seek.
type Direction int

const (
	Forward Direction = iota
	Backward
)

var (
	ErrNotOpened   = errors.New("device: no stream opened")
	ErrNotPrepared = errors.New("device: stream not prepared")
)

// Listener receives asynchronous driver notifications. Nil fields are skipped.
// Drivers deliver every callback on the host loop, one at a time.
type Listener struct {
	OnBufferingStart    func()
	OnBufferingProgress func(percent int)
	OnBufferingComplete func()
	OnCurrentPlaytime   func(pos time.Duration)
	OnStreamCompleted   func()
	OnEvent             func(kind, data string)
	OnError             func(err error)
}

// Driver is the imperative control surface of a media playback device.
// Every call may fail; callers are expected to log and carry on.
type Driver interface {
	Open(url string) error
	SetDisplayRect(r Rect) error
	SetDisplayMethod(m DisplayMethod) error
	// PrepareAsync starts buffering the opened stream and returns immediately.
	// Exactly one of onSuccess or onError is called later on the host loop.
	PrepareAsync(onSuccess func(), onError func(error)) error
	Play() error
	Pause() error
	Stop() error
	SeekRelative(delta time.Duration, dir Direction) error
	Suspend() error
	// Restore reacquires a suspended stream. It returns with the driver
	// PAUSED, so Play may follow immediately.
	Restore() error
	State() (State, error)
	Duration() (time.Duration, error)
	CurrentTime() (time.Duration, error)
	SetListener(l Listener)
}

// UHD is implemented by drivers that can switch into 4K decoding.
type UHD interface {
	Supports4K() bool
	Enable4K() error
}
