package device

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/gen2brain/go-mpv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	props map[string]string
	cmds  [][]string
}

func (h *fakeHandle) SetOptionString(name, value string) error {
	h.props[name] = value
	return nil
}

func (h *fakeHandle) SetPropertyString(name, value string) error {
	h.props[name] = value
	return nil
}

func (h *fakeHandle) Command(cmd []string) error {
	h.cmds = append(h.cmds, cmd)
	return nil
}

func (h *fakeHandle) TerminateDestroy() {}

// posted collects callbacks the driver hands to the host loop.
type posted struct {
	fns []func()
}

func (p *posted) post(fn func()) { p.fns = append(p.fns, fn) }

func (p *posted) run() {
	fns := p.fns
	p.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func newTestMpv() (*Mpv, *fakeHandle, *posted) {
	h := &fakeHandle{props: map[string]string{}}
	p := &posted{}
	d := &Mpv{m: h, log: slog.New(slog.DiscardHandler), post: p.post, state: StateNone}
	return d, h, p
}

func prop(name string, v any) mpv.EventProperty {
	return mpv.EventProperty{Name: name, Data: v}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "NONE", StateNone.String())
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "READY", StateReady.String())
	assert.Equal(t, "PLAYING", StatePlaying.String())
	assert.Equal(t, "PAUSED", StatePaused.String())
	assert.Equal(t, "UNKNOWN", State(42).String())
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-0.2))
	assert.Equal(t, 0.25, clampRatio(0.25))
	assert.Equal(t, 1.0, clampRatio(1.5))
}

// These paths fail before libmpv is touched.
func TestMpvGuards(t *testing.T) {
	d := &Mpv{}

	assert.ErrorIs(t, d.Open(""), ErrNotOpened)
	assert.ErrorIs(t, d.PrepareAsync(nil, nil), ErrNotOpened)
	assert.ErrorIs(t, d.Play(), ErrNotPrepared)
	assert.ErrorIs(t, d.Pause(), ErrNotPrepared)
	assert.ErrorIs(t, d.Suspend(), ErrNotPrepared)
	assert.Error(t, d.SetDisplayRect(Rect{Width: 100, Height: 100}))

	st, err := d.State()
	assert.NoError(t, err)
	assert.Equal(t, StateNone, st)
}

func TestMpvOpenResetsState(t *testing.T) {
	d, h, _ := newTestMpv()
	d.state, d.duration, d.position, d.suspended = StatePaused, 12, 4, true

	assert.NoError(t, d.Open("http://example.com/a.mp4"))

	st, _ := d.State()
	dur, _ := d.Duration()
	pos, _ := d.CurrentTime()
	assert.Equal(t, StateIdle, st)
	assert.Zero(t, dur)
	assert.Zero(t, pos)
	assert.False(t, d.suspended)
	assert.Equal(t, "none", h.props["start"])
	// nothing suspended, nothing to reload
	assert.NoError(t, d.Restore())
	assert.Empty(t, h.cmds)
}

func TestMpvPrepareCompletesReady(t *testing.T) {
	d, h, p := newTestMpv()
	var order []string
	d.SetListener(Listener{OnBufferingComplete: func() { order = append(order, "buffered") }})
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(func() { order = append(order, "prepared") }, nil))

	assert.Equal(t, "yes", h.props["pause"])
	assert.Equal(t, []string{"loadfile", "http://example.com/a.mp4", "replace"}, h.cmds[0])

	d.fileLoaded()
	st, _ := d.State()
	assert.Equal(t, StateReady, st)

	p.run()
	assert.Equal(t, []string{"buffered", "prepared"}, order)

	// a late duplicate load event is ignored
	d.fileLoaded()
	assert.Empty(t, p.fns)
}

func TestMpvPrepareWhileLoadingJoins(t *testing.T) {
	d, h, p := newTestMpv()
	var done []string
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(func() { done = append(done, "first") }, nil))
	require.NoError(t, d.PrepareAsync(func() { done = append(done, "second") }, nil))
	assert.Len(t, h.cmds, 1)

	d.fileLoaded()
	p.run()
	assert.Equal(t, []string{"first", "second"}, done)
}

func TestMpvPrepareWhilePlayingKeepsPlaying(t *testing.T) {
	d, h, p := newTestMpv()
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(nil, nil))
	d.fileLoaded()
	require.NoError(t, d.Play())

	called := false
	require.NoError(t, d.PrepareAsync(func() { called = true }, nil))
	p.run()

	assert.True(t, called)
	assert.Len(t, h.cmds, 1, "no second loadfile")
	assert.Equal(t, "no", h.props["pause"])
	st, _ := d.State()
	assert.Equal(t, StatePlaying, st)
}

func TestMpvSuspendRestoreThenPlay(t *testing.T) {
	d, h, p := newTestMpv()
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(nil, nil))
	d.fileLoaded()
	require.NoError(t, d.Play())
	d.propertyChanged(prop("time-pos", 42.5))

	require.NoError(t, d.Suspend())
	st, _ := d.State()
	assert.Equal(t, StateNone, st)
	assert.Equal(t, []string{"stop"}, h.cmds[len(h.cmds)-1])

	require.NoError(t, d.Restore())
	assert.Equal(t, "42.500", h.props["start"])
	st, _ = d.State()
	assert.Equal(t, StatePaused, st, "play must be legal before the reload finishes")

	require.NoError(t, d.Play())
	assert.Equal(t, "no", h.props["pause"])

	d.fileLoaded()
	p.run()
	st, _ = d.State()
	assert.Equal(t, StatePlaying, st)
	assert.Equal(t, "none", h.props["start"])
	pos, _ := d.CurrentTime()
	assert.Equal(t, 42500*time.Millisecond, pos)
}

func TestMpvRestoreWithoutPlayStaysPaused(t *testing.T) {
	d, _, _ := newTestMpv()
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(nil, nil))
	d.fileLoaded()
	require.NoError(t, d.Suspend())
	require.NoError(t, d.Restore())
	// a second restore while reloading does nothing
	require.NoError(t, d.Restore())

	d.fileLoaded()
	st, _ := d.State()
	assert.Equal(t, StatePaused, st)
}

func TestMpvSuspendDuringReload(t *testing.T) {
	d, h, _ := newTestMpv()
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(nil, nil))
	d.fileLoaded()
	require.NoError(t, d.Suspend())
	require.NoError(t, d.Restore())

	require.NoError(t, d.Suspend())
	n := len(h.cmds)
	require.NoError(t, d.Restore())
	assert.Len(t, h.cmds, n+1, "restore reloads again")
}

func TestMpvPropertyNotifications(t *testing.T) {
	d, _, p := newTestMpv()
	var got []string
	var playtime time.Duration
	d.SetListener(Listener{
		OnBufferingStart:    func() { got = append(got, "start") },
		OnBufferingProgress: func(pct int) { got = append(got, "progress") },
		OnBufferingComplete: func() { got = append(got, "complete") },
		OnCurrentPlaytime:   func(pos time.Duration) { playtime = pos },
		OnStreamCompleted:   func() { got = append(got, "ended") },
	})
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(nil, nil))
	d.fileLoaded()
	p.run()
	got = nil

	// not playing yet: time and eof are not reported
	d.propertyChanged(prop("time-pos", 1.0))
	d.propertyChanged(prop("eof-reached", 1))
	p.run()
	assert.Empty(t, got)
	assert.Zero(t, playtime)

	require.NoError(t, d.Play())
	d.propertyChanged(prop("duration", 90.0))
	d.propertyChanged(prop("time-pos", 2.0))
	d.propertyChanged(prop("cache-buffering-state", int64(40)))
	d.propertyChanged(prop("paused-for-cache", 1))
	d.propertyChanged(prop("paused-for-cache", 1))
	d.propertyChanged(prop("cache-buffering-state", int64(60)))
	d.propertyChanged(prop("paused-for-cache", 0))
	d.propertyChanged(prop("paused-for-cache", 0))
	d.propertyChanged(prop("eof-reached", 1))
	p.run()

	assert.Equal(t, []string{"start", "progress", "complete", "ended"}, got)
	assert.Equal(t, 2*time.Second, playtime)
	dur, _ := d.Duration()
	assert.Equal(t, 90*time.Second, dur)
}

func TestMpvLoadFailed(t *testing.T) {
	d, _, p := newTestMpv()
	var failed, reported error
	d.SetListener(Listener{OnError: func(err error) { reported = err }})
	require.NoError(t, d.Open("http://example.com/a.mp4"))
	require.NoError(t, d.PrepareAsync(func() { t.Error("unexpected success") }, func(err error) { failed = err }))

	boom := errors.New("boom")
	d.loadFailed(boom)
	p.run()

	assert.ErrorIs(t, failed, boom)
	assert.ErrorIs(t, reported, boom)
	st, _ := d.State()
	assert.Equal(t, StateIdle, st)

	// errors outside a load only reach the listener
	failed, reported = nil, nil
	d.loadFailed(boom)
	p.run()
	assert.NoError(t, failed)
	assert.ErrorIs(t, reported, boom)
}

func TestMpvDisplayRectMargins(t *testing.T) {
	d, h, _ := newTestMpv()
	d.SetViewport(1920, 1080)

	require.NoError(t, d.SetDisplayRect(Rect{X: 240, Y: 135, Width: 1440, Height: 810}))
	assert.Equal(t, "0.1250", h.props["video-margin-ratio-left"])
	assert.Equal(t, "0.1250", h.props["video-margin-ratio-top"])
	assert.Equal(t, "0.1250", h.props["video-margin-ratio-right"])
	assert.Equal(t, "0.1250", h.props["video-margin-ratio-bottom"])

	require.NoError(t, d.SetDisplayMethod(DisplayAutoAspectRatio))
	assert.Equal(t, "yes", h.props["keepaspect"])
	assert.Error(t, d.SetDisplayMethod(DisplayMethod(7)))
}

func TestMpvSupports4K(t *testing.T) {
	d := &Mpv{}
	d.SetViewport(1920, 1080)
	assert.False(t, d.Supports4K())
	d.SetViewport(3840, 2160)
	assert.True(t, d.Supports4K())
}
