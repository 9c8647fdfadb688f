// Package devicetest provides a scripted device.Driver for tests.
package devicetest

import (
	"fmt"
	"time"

	"github.com/depeter/couchbreak/internal/device"
)

type pendingPrepare struct {
	onSuccess func()
	onError   func(error)
}

// Driver records every call and moves through states the way a real device
// would, except that prepare completions are released by the test.
type Driver struct {
	St       device.State
	Dur      time.Duration
	Pos      time.Duration
	UHD      bool
	Calls    []string
	Rects    []device.Rect
	Seeks    []time.Duration
	Listener device.Listener
	// Fail makes the named operation return an error.
	Fail map[string]error

	// Record, when set, also receives every call name.
	Record func(call string)

	pending []pendingPrepare
}

// New returns a driver in the IDLE state.
func New() *Driver {
	return &Driver{St: device.StateIdle, Fail: map[string]error{}}
}

func (d *Driver) call(name string) error {
	d.Calls = append(d.Calls, name)
	if d.Record != nil {
		d.Record(name)
	}
	return d.Fail[name]
}

// Count returns how many times the named call was made.
func (d *Driver) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Pending returns the number of prepare requests not yet completed.
func (d *Driver) Pending() int { return len(d.pending) }

// CompletePrepare finishes the oldest pending prepare successfully.
func (d *Driver) CompletePrepare() {
	if len(d.pending) == 0 {
		panic("devicetest: no pending prepare")
	}
	p := d.pending[0]
	d.pending = d.pending[1:]
	if d.St == device.StateIdle {
		d.St = device.StateReady
	}
	if p.onSuccess != nil {
		p.onSuccess()
	}
}

// FailPrepare finishes the oldest pending prepare with err.
func (d *Driver) FailPrepare(err error) {
	if len(d.pending) == 0 {
		panic("devicetest: no pending prepare")
	}
	p := d.pending[0]
	d.pending = d.pending[1:]
	if p.onError != nil {
		p.onError(err)
	}
}

func (d *Driver) Open(url string) error {
	if err := d.call("open"); err != nil {
		return err
	}
	d.St = device.StateIdle
	return nil
}

func (d *Driver) SetDisplayRect(r device.Rect) error {
	if err := d.call("setDisplayRect"); err != nil {
		return err
	}
	d.Rects = append(d.Rects, r)
	return nil
}

func (d *Driver) SetDisplayMethod(m device.DisplayMethod) error {
	return d.call("setDisplayMethod")
}

func (d *Driver) PrepareAsync(onSuccess func(), onError func(error)) error {
	if err := d.call("prepare"); err != nil {
		return err
	}
	d.pending = append(d.pending, pendingPrepare{onSuccess: onSuccess, onError: onError})
	return nil
}

func (d *Driver) Play() error {
	if err := d.call("play"); err != nil {
		return err
	}
	d.St = device.StatePlaying
	return nil
}

func (d *Driver) Pause() error {
	if err := d.call("pause"); err != nil {
		return err
	}
	d.St = device.StatePaused
	return nil
}

func (d *Driver) Stop() error {
	if err := d.call("stop"); err != nil {
		return err
	}
	d.St = device.StateIdle
	return nil
}

func (d *Driver) SeekRelative(delta time.Duration, dir device.Direction) error {
	if err := d.call("seek"); err != nil {
		return err
	}
	if dir == device.Backward {
		delta = -delta
	}
	d.Seeks = append(d.Seeks, delta)
	return nil
}

func (d *Driver) Suspend() error {
	if err := d.call("suspend"); err != nil {
		return err
	}
	d.St = device.StateNone
	return nil
}

// Restore leaves a suspended stream PAUSED straight away, like the mpv
// driver, so Play is legal before the reload completes.
func (d *Driver) Restore() error {
	if err := d.call("restore"); err != nil {
		return err
	}
	if d.St == device.StateNone {
		d.St = device.StatePaused
	}
	return nil
}

func (d *Driver) State() (device.State, error) {
	if err := d.Fail["state"]; err != nil {
		return device.StateNone, err
	}
	return d.St, nil
}

func (d *Driver) Duration() (time.Duration, error) {
	if err := d.Fail["duration"]; err != nil {
		return 0, err
	}
	return d.Dur, nil
}

func (d *Driver) CurrentTime() (time.Duration, error) {
	if err := d.Fail["currentTime"]; err != nil {
		return 0, err
	}
	return d.Pos, nil
}

func (d *Driver) SetListener(l device.Listener) {
	d.Calls = append(d.Calls, "setListener")
	d.Listener = l
}

func (d *Driver) Supports4K() bool { return d.UHD }

func (d *Driver) Enable4K() error { return d.call("enable4K") }

// Errorf is a convenience for building injected failures.
func Errorf(format string, args ...any) error {
	return fmt.Errorf("devicetest: "+format, args...)
}
