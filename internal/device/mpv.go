package device

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/gen2brain/go-mpv"

	"github.com/depeter/couchbreak/internal/config"
)

// handle is the part of libmpv the driver calls after initialization.
type handle interface {
	SetOptionString(name, value string) error
	SetPropertyString(name, value string) error
	Command(cmd []string) error
	TerminateDestroy()
}

// Mpv drives one libmpv instance through the Driver contract.
// Property changes arrive on a private goroutine and are handed to post,
// which must run them on the host loop.
type Mpv struct {
	m    handle
	log  *slog.Logger
	post func(func())

	mu        sync.Mutex
	url       string
	state     State
	duration  float64
	position  float64
	resumeAt  float64
	suspended bool
	loading   bool
	buffering bool
	onLoaded  func()
	onFailed  func(error)
	listener  Listener
	viewW     float64
	viewH     float64
}

// NewMpv creates and initializes an mpv instance for one playback session.
func NewMpv(cfg *config.PlaybackConfig, log *slog.Logger, post func(func())) (*Mpv, error) {
	m := mpv.New()
	must := func(err error) {
		if err != nil {
			log.Warn("mpv option warning", "error", err)
		}
	}

	must(m.SetOptionString("hwdec", cfg.HWAccel))
	must(m.SetOptionString("vo", "gpu"))
	// Controls are drawn by the app, not by mpv.
	must(m.SetOptionString("osc", "no"))
	must(m.SetOptionString("keep-open", "yes"))
	must(m.SetOptionString("idle", "yes"))
	must(m.SetOptionString("volume", fmt.Sprintf("%d", cfg.Volume)))
	if cfg.AudioLanguage != "" {
		must(m.SetOptionString("alang", cfg.AudioLanguage))
	}

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv init: %w", err)
	}

	d := &Mpv{m: m, log: log, post: post, state: StateNone}

	m.ObserveProperty(0, "time-pos", mpv.FormatDouble)
	m.ObserveProperty(0, "duration", mpv.FormatDouble)
	m.ObserveProperty(0, "paused-for-cache", mpv.FormatFlag)
	m.ObserveProperty(0, "cache-buffering-state", mpv.FormatInt64)
	m.ObserveProperty(0, "eof-reached", mpv.FormatFlag)

	go d.eventLoop(m)

	return d, nil
}

// SetWindowID embeds the video output into a native window.
func (d *Mpv) SetWindowID(wid int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.SetOptionString("wid", fmt.Sprintf("%d", wid))
}

// SetViewport records the screen size display rects are relative to.
func (d *Mpv) SetViewport(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewW = float64(width)
	d.viewH = float64(height)
}

func (d *Mpv) Open(url string) error {
	if url == "" {
		return ErrNotOpened
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
	d.state = StateIdle
	d.clearResume()
	d.duration = 0
	d.position = 0
	return nil
}

func (d *Mpv) SetDisplayRect(r Rect) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.viewW <= 0 || d.viewH <= 0 {
		return fmt.Errorf("set display rect: viewport unknown")
	}
	margins := map[string]float64{
		"video-margin-ratio-left":   r.X / d.viewW,
		"video-margin-ratio-top":    r.Y / d.viewH,
		"video-margin-ratio-right":  (d.viewW - r.X - r.Width) / d.viewW,
		"video-margin-ratio-bottom": (d.viewH - r.Y - r.Height) / d.viewH,
	}
	for name, v := range margins {
		if err := d.m.SetPropertyString(name, fmt.Sprintf("%.4f", clampRatio(v))); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (d *Mpv) SetDisplayMethod(m DisplayMethod) error {
	if m != DisplayAutoAspectRatio {
		return fmt.Errorf("display method %d: unsupported", m)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.SetPropertyString("keepaspect", "yes")
}

func (d *Mpv) PrepareAsync(onSuccess func(), onError func(error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.url == "" {
		return ErrNotOpened
	}
	switch {
	case d.loading:
		// join the load in flight instead of restarting it
		d.onLoaded = joinDone(d.onLoaded, onSuccess)
		d.onFailed = joinFailed(d.onFailed, onError)
		return nil
	case d.loaded():
		if onSuccess != nil {
			d.post(onSuccess)
		}
		return nil
	}
	return d.load(onSuccess, onError)
}

func joinDone(a, b func()) func() {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func() { a(); b() }
}

func joinFailed(a, b func(error)) func(error) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(err error) { a(err); b(err) }
}

// load starts loading the stream paused. Caller holds d.mu.
func (d *Mpv) load(onSuccess func(), onError func(error)) error {
	if err := d.m.SetPropertyString("pause", "yes"); err != nil {
		return fmt.Errorf("pause before load: %w", err)
	}
	if err := d.m.Command([]string{"loadfile", d.url, "replace"}); err != nil {
		return fmt.Errorf("loadfile: %w", err)
	}
	d.loading = true
	d.onLoaded = onSuccess
	d.onFailed = onError
	return nil
}

func (d *Mpv) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady && d.state != StatePaused {
		return fmt.Errorf("play in %s: %w", d.state, ErrNotPrepared)
	}
	if err := d.m.SetPropertyString("pause", "no"); err != nil {
		return err
	}
	d.state = StatePlaying
	return nil
}

func (d *Mpv) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded() {
		return fmt.Errorf("pause in %s: %w", d.state, ErrNotPrepared)
	}
	if err := d.m.SetPropertyString("pause", "yes"); err != nil {
		return err
	}
	d.state = StatePaused
	return nil
}

func (d *Mpv) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.m.Command([]string{"stop"}); err != nil {
		return err
	}
	d.state = StateIdle
	d.loading = false
	d.clearResume()
	return nil
}

func (d *Mpv) SeekRelative(delta time.Duration, dir Direction) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded() {
		return fmt.Errorf("seek in %s: %w", d.state, ErrNotPrepared)
	}
	secs := delta.Seconds()
	if dir == Backward {
		secs = -secs
	}
	return d.m.Command([]string{"seek", fmt.Sprintf("%.3f", secs), "relative"})
}

// Suspend releases the decoder and remembers where playback was.
func (d *Mpv) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded() {
		return fmt.Errorf("suspend in %s: %w", d.state, ErrNotPrepared)
	}
	d.resumeAt = d.position
	if err := d.m.Command([]string{"stop"}); err != nil {
		return err
	}
	d.state = StateNone
	d.suspended = true
	d.loading = false
	d.onLoaded, d.onFailed = nil, nil
	return nil
}

// clearResume drops a pending resume position. Caller holds d.mu.
func (d *Mpv) clearResume() {
	if !d.suspended {
		return
	}
	d.suspended = false
	if err := d.m.SetPropertyString("start", "none"); err != nil {
		d.log.Warn("mpv reset start", "error", err)
	}
}

// Restore reloads a suspended stream paused at the remembered position.
// The driver is PAUSED as soon as the reload is issued, so Play may follow
// immediately; mpv applies pause=no to the file while it loads.
func (d *Mpv) Restore() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.suspended || d.loading {
		return nil
	}
	if err := d.m.SetPropertyString("start", fmt.Sprintf("%.3f", d.resumeAt)); err != nil {
		return fmt.Errorf("restore start: %w", err)
	}
	if err := d.load(nil, nil); err != nil {
		return err
	}
	d.state = StatePaused
	d.position = d.resumeAt
	return nil
}

func (d *Mpv) State() (State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, nil
}

func (d *Mpv) Duration() (time.Duration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seconds(d.duration), nil
}

func (d *Mpv) CurrentTime() (time.Duration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seconds(d.position), nil
}

func (d *Mpv) SetListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listener = l
}

func (d *Mpv) Supports4K() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewW >= 3840 && d.viewH >= 2160
}

func (d *Mpv) Enable4K() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.SetPropertyString("hwdec", "auto")
}

// Destroy cleans up the mpv instance.
func (d *Mpv) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.m.TerminateDestroy()
}

func (d *Mpv) loaded() bool {
	return d.state == StateReady || d.state == StatePlaying || d.state == StatePaused
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func (d *Mpv) eventLoop(m *mpv.Mpv) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		ev := m.WaitEvent(1.0)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			d.propertyChanged(ev.Property())

		case mpv.EventFileLoaded:
			d.fileLoaded()

		case mpv.EventEnd:
			if ev.Data == nil {
				continue
			}
			ef := ev.EndFile()
			if ef.Reason != mpv.EndFileError {
				// stop/suspend and replaced files end this way
				continue
			}
			d.loadFailed(fmt.Errorf("mpv end-file: %w", ef.Error))

		case mpv.EventShutdown:
			return
		}
	}
}

func (d *Mpv) propertyChanged(prop mpv.EventProperty) {
	d.mu.Lock()
	l := d.listener
	var notify func()
	switch prop.Name {
	case "time-pos":
		if v, ok := prop.Data.(float64); ok {
			d.position = v
			if d.state == StatePlaying && l.OnCurrentPlaytime != nil {
				pos := seconds(v)
				notify = func() { l.OnCurrentPlaytime(pos) }
			}
		}
	case "duration":
		if v, ok := prop.Data.(float64); ok {
			d.duration = v
		}
	case "paused-for-cache":
		if v, ok := prop.Data.(int); ok {
			switch {
			case v == 1 && !d.buffering:
				d.buffering = true
				notify = l.OnBufferingStart
			case v == 0 && d.buffering:
				d.buffering = false
				notify = l.OnBufferingComplete
			}
		}
	case "cache-buffering-state":
		if v, ok := prop.Data.(int64); ok && d.buffering && l.OnBufferingProgress != nil {
			notify = func() { l.OnBufferingProgress(int(v)) }
		}
	case "eof-reached":
		if v, ok := prop.Data.(int); ok && v == 1 && d.state == StatePlaying {
			notify = l.OnStreamCompleted
		}
	}
	d.mu.Unlock()

	if notify != nil {
		d.post(notify)
	}
}

func (d *Mpv) fileLoaded() {
	d.mu.Lock()
	if !d.loading {
		d.mu.Unlock()
		return
	}
	d.loading = false
	d.clearResume()
	// A restored stream is already PAUSED or PLAYING; only a fresh load
	// becomes READY.
	if d.state == StateIdle {
		d.state = StateReady
	}
	done := d.onLoaded
	complete := d.listener.OnBufferingComplete
	d.onLoaded, d.onFailed = nil, nil
	d.mu.Unlock()

	if complete != nil {
		d.post(complete)
	}
	if done != nil {
		d.post(done)
	}
}

func (d *Mpv) loadFailed(err error) {
	d.mu.Lock()
	failed := d.onFailed
	if d.loading {
		d.loading = false
		d.state = StateIdle
		d.clearResume()
	} else {
		failed = nil
	}
	d.onLoaded, d.onFailed = nil, nil
	onErr := d.listener.OnError
	d.mu.Unlock()

	if failed != nil {
		d.post(func() { failed(err) })
	}
	if onErr != nil {
		d.post(func() { onErr(err) })
	}
}
