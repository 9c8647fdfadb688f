package player

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/depeter/couchbreak/internal/bus"
	"github.com/depeter/couchbreak/internal/device"
	"github.com/depeter/couchbreak/internal/display"
	"github.com/depeter/couchbreak/internal/metrics"
)

// JumpStep is the distance of a fast-forward or rewind.
const JumpStep = 3000 * time.Millisecond

// Surface is a visual element that takes a fullscreen marker.
type Surface interface {
	SetFullscreen(on bool)
}

// TextSurface is a Surface that shows a line of text.
type TextSurface interface {
	Surface
	SetText(s string)
}

// Config is fixed at construction.
type Config struct {
	Name     string
	URL      string
	Rect     device.Rect
	Video    Surface
	Controls Surface
	// Timer is optional.
	Timer    TextSurface
	Cues     []Cue
	Logger   *slog.Logger
	Enable4K bool
	Seekable bool
}

// Session controls one stream on one device. All methods must be called on
// the host loop.
type Session struct {
	id   uuid.UUID
	cfg  Config
	drv  device.Driver
	bus  *bus.Bus
	met  *metrics.Metrics
	log  *slog.Logger
	geo  *Geometry
	cues *CueScheduler

	fullscreen bool
	duration   time.Duration
	// resume is set when visibility was lost mid-playback.
	resume bool
}

// New creates a session and subscribes it to visibility changes.
func New(cfg Config, drv device.Driver, b *bus.Bus, met *metrics.Metrics) *Session {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		id:   uuid.New(),
		cfg:  cfg,
		drv:  drv,
		bus:  b,
		met:  met,
		log:  log.With("player", cfg.Name),
		geo:  NewGeometry(cfg.Rect),
		cues: NewCueScheduler(cfg.Cues),
	}
	b.Subscribe(bus.VisibilityLost, s.onHidden)
	b.Subscribe(bus.VisibilityRestored, s.onShown)
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }
func (s *Session) Name() string { return s.cfg.Name }
func (s *Session) Seekable() bool { return s.cfg.Seekable }
func (s *Session) Fullscreen() bool { return s.fullscreen }
func (s *Session) CueCursor() int { return s.cues.Cursor() }
func (s *Session) DisplayRect() device.Rect {
	return s.geo.Windowed()
}

// VideoDuration is known after the first buffering-complete notification.
func (s *Session) VideoDuration() time.Duration { return s.duration }

// State is the driver's current state; None if the driver cannot say.
func (s *Session) State() device.State {
	st, err := s.drv.State()
	if err != nil {
		s.driverError("get state", err)
		return device.StateNone
	}
	return st
}

// Position is the driver's current playback time.
func (s *Session) Position() time.Duration {
	pos, err := s.drv.CurrentTime()
	if err != nil {
		s.driverError("get current time", err)
		return 0
	}
	return pos
}

// Init scales the geometry to the detected screen and opens the stream.
// The first failing step aborts the rest and is returned.
func (s *Session) Init(res display.Resolution) error {
	s.geo.Scale(res)
	s.log.Info("open", "url", s.cfg.URL, "screen", res.String())

	if err := s.drv.Open(s.cfg.URL); err != nil {
		s.driverError("open", err)
		return err
	}
	if err := s.drv.SetDisplayRect(s.geo.Windowed()); err != nil {
		s.driverError("set display rect", err)
		return err
	}
	s.drv.SetListener(s.listener())
	if err := s.drv.SetDisplayMethod(device.DisplayAutoAspectRatio); err != nil {
		s.driverError("set display method", err)
		return err
	}

	if s.cfg.Enable4K {
		uhd, ok := s.drv.(device.UHD)
		if !ok || !uhd.Supports4K() {
			s.log.Info("4K is not supported")
			return nil
		}
		if err := uhd.Enable4K(); err != nil {
			s.driverError("enable 4K", err)
			return err
		}
		s.log.Info("4K mode is active")
	}
	return nil
}

// Prepare buffers the stream without playing it.
func (s *Session) Prepare() {
	err := s.drv.PrepareAsync(
		func() { s.log.Info("prepared", "session", s.id) },
		func(err error) { s.driverError("prepare", err) },
	)
	if err != nil {
		s.driverError("prepare", err)
	}
}

// Play starts or resumes playback, preparing first when the stream is idle.
// Overlapping calls are not merged: each idle Play issues its own prepare.
func (s *Session) Play() {
	st, err := s.drv.State()
	if err != nil {
		s.driverError("play", err)
		return
	}
	switch Check(OpPlay, st) {
	case PrepareFirst:
		s.log.Info("prepare")
		if err := s.drv.PrepareAsync(s.Play, func(err error) { s.driverError("prepare", err) }); err != nil {
			s.driverError("prepare", err)
		}
	case Allowed:
		if err := s.drv.Play(); err != nil {
			s.driverError("play", err)
			return
		}
		s.log.Info("play")
	default:
		s.illegal(OpPlay, st)
	}
}

// PlayPause pauses a playing stream and plays anything else.
func (s *Session) PlayPause() {
	if s.State() == device.StatePlaying {
		s.Pause()
		return
	}
	s.Play()
}

func (s *Session) Pause() {
	st := s.State()
	if Check(OpPause, st) != Allowed {
		s.illegal(OpPause, st)
		return
	}
	if err := s.drv.Pause(); err != nil {
		s.driverError("pause", err)
		return
	}
	s.log.Info("video paused")
}

// Stop ends playback. Fullscreen is left unless keepFullscreen is set.
func (s *Session) Stop(keepFullscreen bool) {
	st := s.State()
	if Check(OpStop, st) != Allowed {
		s.illegal(OpStop, st)
		return
	}
	if err := s.drv.Stop(); err != nil {
		s.driverError("stop", err)
		return
	}
	s.log.Info("video stopped")
	s.refreshTime(s.Position())

	if s.fullscreen && !keepFullscreen {
		s.ToggleFullscreen()
	}
}

func (s *Session) FastForward() { s.jump(device.Forward) }
func (s *Session) Rewind() { s.jump(device.Backward) }

func (s *Session) jump(dir device.Direction) {
	if !s.cfg.Seekable {
		s.log.Warn("seeking is not available on this player")
		s.met.IncIllegalRequest(s.cfg.Name, OpSeek.String())
		return
	}
	if err := s.drv.SeekRelative(JumpStep, dir); err != nil {
		s.driverError("seek", err)
		return
	}
	s.refreshTime(s.Position())
}

// ToggleFullscreen switches between the full screen and the windowed rect.
// A failing display rect request is logged; the mode flips regardless.
func (s *Session) ToggleFullscreen() {
	enter := !s.fullscreen
	rect := s.geo.Windowed()
	if enter {
		rect = s.geo.Fullscreen()
	}
	if err := s.drv.SetDisplayRect(rect); err != nil {
		s.driverError("set display rect", err)
	}

	s.cfg.Video.SetFullscreen(enter)
	s.cfg.Controls.SetFullscreen(enter)
	if s.cfg.Timer != nil {
		s.cfg.Timer.SetFullscreen(enter)
	}
	s.fullscreen = enter
}

// Suspend releases the device when the state allows it.
func (s *Session) Suspend() {
	st := s.State()
	if Check(OpSuspend, st) != Allowed {
		s.log.Debug("suspend skipped", "state", st)
		return
	}
	if err := s.drv.Suspend(); err != nil {
		s.driverError("suspend", err)
	}
}

// Restore reacquires the device when the state allows it.
func (s *Session) Restore() {
	st := s.State()
	if Check(OpRestore, st) != Allowed {
		s.log.Debug("restore skipped", "state", st)
		return
	}
	if err := s.drv.Restore(); err != nil {
		s.driverError("restore", err)
	}
}

func (s *Session) onHidden(bus.Event) {
	s.resume = s.State() == device.StatePlaying
	s.Suspend()
}

func (s *Session) onShown(bus.Event) {
	s.Restore()
	if s.resume {
		s.resume = false
		s.Play()
	}
}

func (s *Session) listener() device.Listener {
	return device.Listener{
		OnBufferingStart: func() {
			s.log.Debug("buffering start")
		},
		OnBufferingProgress: func(percent int) {
			s.log.Debug("buffering progress", "percent", percent)
		},
		OnBufferingComplete: s.onBufferingComplete,
		OnCurrentPlaytime:   s.onCurrentPlaytime,
		OnStreamCompleted:   s.onStreamCompleted,
		OnEvent: func(kind, data string) {
			s.log.Debug("device event", "type", kind, "data", data)
		},
		OnError: func(err error) {
			s.driverError("device", err)
		},
	}
}

func (s *Session) onBufferingComplete() {
	s.log.Debug("buffering complete")
	if s.duration != 0 {
		return
	}
	d, err := s.drv.Duration()
	if err != nil {
		s.driverError("get duration", err)
		return
	}
	s.duration = d
}

func (s *Session) onCurrentPlaytime(pos time.Duration) {
	for _, c := range s.cues.Advance(pos) {
		s.log.Info("cue fired", "signal", c.Signal, "at", c.At, "pos", pos)
		s.met.IncCueFired(c.Signal)
		s.bus.Publish(bus.Event{Kind: bus.CueFired, Name: c.Signal, Source: s.id.String()})
	}
	s.refreshTime(pos)
}

func (s *Session) onStreamCompleted() {
	s.log.Info("stream completed")
	s.met.IncStreamCompleted(s.cfg.Name)
	if s.cfg.Timer != nil {
		s.cfg.Timer.SetText("")
	}
	s.Stop(true)
	s.bus.Publish(bus.Event{Kind: bus.StreamEnded, Source: s.id.String()})
}

func (s *Session) refreshTime(pos time.Duration) {
	if s.cfg.Timer == nil {
		return
	}
	s.cfg.Timer.SetText(formatTime(pos) + " / " + formatTime(s.duration))
}

func (s *Session) illegal(op Op, st device.State) {
	s.log.Warn("unhandled player state", "op", op, "state", st)
	s.met.IncIllegalRequest(s.cfg.Name, op.String())
}

func (s *Session) driverError(what string, err error) {
	s.log.Error("driver error", "op", what, "error", err)
	s.met.IncDriverError(s.cfg.Name)
}
