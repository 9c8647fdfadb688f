// Package switchboard keeps one of two playback sessions active and hands the
// device between them on commercial cues and stream completion.
package switchboard

import (
	"log/slog"

	"github.com/depeter/couchbreak/internal/bus"
	"github.com/depeter/couchbreak/internal/metrics"
)

// DefaultBreakSignal is the cue signal that starts a commercial break.
const DefaultBreakSignal = "Commercial"

// Session is the part of a playback session the switchboard drives.
type Session interface {
	Name() string
	Prepare()
	Play()
	PlayPause()
	Pause()
	Stop(keepFullscreen bool)
	FastForward()
	Rewind()
	ToggleFullscreen()
	Suspend()
	Restore()
}

// Label is the on-screen "commercial" marker.
type Label interface {
	SetVisible(on bool)
}

// HandoffFunc is called after every completed handoff.
type HandoffFunc func(from, to Session)

type Option func(*Switchboard)

// WithBreakSignal overrides DefaultBreakSignal.
func WithBreakSignal(signal string) Option {
	return func(s *Switchboard) {
		if signal != "" {
			s.breakSignal = signal
		}
	}
}

// WithHandoffHook registers fn to run after each handoff.
func WithHandoffHook(fn HandoffFunc) Option {
	return func(s *Switchboard) { s.hooks = append(s.hooks, fn) }
}

// Switchboard holds the active session. It never owns the sessions.
type Switchboard struct {
	primary      Session
	interstitial Session
	active       Session
	label        Label
	met          *metrics.Metrics
	log          *slog.Logger
	breakSignal  string
	hooks        []HandoffFunc
}

// New wires the switchboard to the bus. The interstitial starts active.
func New(primary, interstitial Session, label Label, b *bus.Bus, met *metrics.Metrics, log *slog.Logger, opts ...Option) *Switchboard {
	s := &Switchboard{
		primary:      primary,
		interstitial: interstitial,
		active:       interstitial,
		label:        label,
		met:          met,
		log:          log,
		breakSignal:  DefaultBreakSignal,
	}
	for _, opt := range opts {
		opt(s)
	}
	b.Subscribe(bus.CueFired, s.onCue)
	b.Subscribe(bus.StreamEnded, s.onStreamEnded)
	return s
}

// Start pre-buffers the interstitial so the first break starts quickly.
func (s *Switchboard) Start() {
	s.met.SetActive(s.active.Name(), s.primary.Name(), s.interstitial.Name())
	s.log.Info("switchboard started", "active", s.active.Name())
	s.active.Prepare()
}

func (s *Switchboard) Active() Session { return s.active }

// SwitchTo suspends the active session, makes next active, restores it and
// plays it. The old session always releases the device before the new one
// reacquires it.
func (s *Switchboard) SwitchTo(next Session) {
	prev := s.active
	prev.Suspend()
	s.active = next
	next.Restore()
	next.Play()

	s.log.Info("handoff", "from", prev.Name(), "to", next.Name())
	s.met.IncHandoff(next.Name())
	s.met.SetActive(next.Name(), s.primary.Name(), s.interstitial.Name())
	for _, fn := range s.hooks {
		fn(prev, next)
	}
}

func (s *Switchboard) onCue(e bus.Event) {
	if e.Name != s.breakSignal || s.active != s.primary {
		return
	}
	s.SwitchTo(s.interstitial)
	s.label.SetVisible(true)
}

func (s *Switchboard) onStreamEnded(bus.Event) {
	if s.active != s.interstitial {
		return
	}
	s.label.SetVisible(false)
	s.SwitchTo(s.primary)
}

func (s *Switchboard) Play() { s.active.Play() }
func (s *Switchboard) Pause() { s.active.Pause() }
func (s *Switchboard) PlayPause() { s.active.PlayPause() }
func (s *Switchboard) FastForward() { s.active.FastForward() }
func (s *Switchboard) Rewind() { s.active.Rewind() }

// Stop stops both sessions and leaves fullscreen.
func (s *Switchboard) Stop() {
	s.primary.Stop(false)
	s.interstitial.Stop(false)
}

// ToggleFullscreen keeps both sessions in the same mode.
func (s *Switchboard) ToggleFullscreen() {
	s.primary.ToggleFullscreen()
	s.interstitial.ToggleFullscreen()
}
