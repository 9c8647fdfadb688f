package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/samber/lo"

	"github.com/depeter/couchbreak/internal/bus"
	"github.com/depeter/couchbreak/internal/config"
	"github.com/depeter/couchbreak/internal/device"
	"github.com/depeter/couchbreak/internal/display"
	"github.com/depeter/couchbreak/internal/eventloop"
	"github.com/depeter/couchbreak/internal/jellyfin"
	"github.com/depeter/couchbreak/internal/metrics"
	"github.com/depeter/couchbreak/internal/player"
	"github.com/depeter/couchbreak/internal/switchboard"
	"github.com/depeter/couchbreak/internal/ui"
)

const (
	PrimaryName      = "primary"
	InterstitialName = "interstitial"

	detectTimeout = 3 * time.Second
)

// Deps are the collaborators built by main.
type Deps struct {
	Log          *slog.Logger
	Loop         *eventloop.Loop
	Metrics      *metrics.Metrics
	Primary      device.Driver
	Interstitial device.Driver

	// Optional.
	Remote   *ui.Remote
	Reporter *jellyfin.Reporter
	Source   display.Source
	Fallback func() display.Resolution
	// Embed, when set, is called once before the sessions open their streams.
	Embed func(drivers ...device.Driver)
}

// Game implements ebiten.Game and owns the playback coordinator: one bus,
// two sessions and the switchboard between them.
type Game struct {
	cfg  *config.Config
	log  *slog.Logger
	loop *eventloop.Loop
	bus  *bus.Bus
	deps Deps

	Primary      *player.Session
	Interstitial *player.Session
	Board        *switchboard.Switchboard

	video    *ui.VideoFrame
	controls *ui.ControlsBar
	timer    *ui.TimeText
	label    *ui.CommercialLabel
	debug    ui.DebugOverlay

	Width, Height int

	detecting bool
	started   bool
	minimized bool
	quit      bool
}

// NewGame wires the sessions and the switchboard. Nothing touches the
// drivers until the first Update.
func NewGame(cfg *config.Config, deps Deps) *Game {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Loop == nil {
		deps.Loop = eventloop.New(0)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Source == nil {
		deps.Source = display.Monitor{}
	}
	if deps.Fallback == nil {
		deps.Fallback = display.WindowSize
	}

	g := &Game{
		cfg:      cfg,
		log:      deps.Log,
		loop:     deps.Loop,
		bus:      bus.New(deps.Log.With("component", "bus")),
		deps:     deps,
		video:    &ui.VideoFrame{},
		controls: ui.NewControlsBar(),
		timer:    &ui.TimeText{},
		label:    &ui.CommercialLabel{Text: cfg.BreakSignal},
		Width:    cfg.UI.Width,
		Height:   cfg.UI.Height,
	}

	g.Primary = g.newSession(PrimaryName, cfg.Primary, deps.Primary)
	g.Interstitial = g.newSession(InterstitialName, cfg.Interstitial, deps.Interstitial)

	opts := []switchboard.Option{switchboard.WithBreakSignal(cfg.BreakSignal)}
	if deps.Reporter != nil {
		opts = append(opts, switchboard.WithHandoffHook(g.reportHandoff))
	}
	g.Board = switchboard.New(g.Primary, g.Interstitial, g.label, g.bus, deps.Metrics,
		deps.Log.With("component", "switchboard"), opts...)
	return g
}

func (g *Game) newSession(name string, sc config.SessionConfig, drv device.Driver) *player.Session {
	cues := lo.Map(sc.CueList(), func(c config.Cue, _ int) player.Cue {
		return player.Cue{At: c.At, Signal: c.Signal}
	})
	return player.New(player.Config{
		Name: name,
		URL:  sc.URL,
		Rect: device.Rect{
			X:      sc.Rect.X,
			Y:      sc.Rect.Y,
			Width:  sc.Rect.Width,
			Height: sc.Rect.Height,
		},
		Video:    g.video,
		Controls: g.controls,
		Timer:    g.timer,
		Cues:     cues,
		Logger:   g.log,
		Enable4K: sc.Enable4K,
		Seekable: sc.Seekable,
	}, drv, g.bus, g.deps.Metrics)
}

func (g *Game) session(name string) *player.Session {
	if name == PrimaryName {
		return g.Primary
	}
	return g.Interstitial
}

func (g *Game) reportHandoff(from, to switchboard.Session) {
	g.deps.Reporter.Handoff(
		from.Name(), g.session(from.Name()).Position(),
		to.Name(), g.session(to.Name()).Position(),
	)
}

// Started reports whether the sessions have been initialized.
func (g *Game) Started() bool { return g.started }

// Quit ends the game on its next Update. Safe for concurrent use.
func (g *Game) Quit() {
	g.loop.Post(func() { g.quit = true })
}

// detect starts the resolution query; start runs on the loop when it answers.
func (g *Game) detect() {
	g.detecting = true
	ctx, cancel := context.WithTimeout(context.Background(), detectTimeout)
	display.DetectAsync(ctx, g.deps.Source, g.deps.Fallback, g.loop.Post, func(r display.Result) {
		cancel()
		g.start(r)
	})
}

func (g *Game) start(r display.Result) {
	if r.Fallback {
		g.log.Warn("resolution query failed, using window size", "error", r.Err, "size", r.Resolution.String())
	}
	res := r.Resolution
	if res.Valid() {
		g.Width, g.Height = res.Width, res.Height
	}

	drivers := []device.Driver{g.deps.Primary, g.deps.Interstitial}
	for _, d := range drivers {
		if v, ok := d.(interface{ SetViewport(w, h int) }); ok {
			v.SetViewport(g.Width, g.Height)
		}
	}
	if g.cfg.Playback.Embed && g.deps.Embed != nil {
		g.deps.Embed(drivers...)
	}

	for _, s := range []*player.Session{g.Primary, g.Interstitial} {
		if err := s.Init(res); err != nil {
			g.log.Error("session init failed", "player", s.Name(), "error", err)
		}
	}
	g.layout()
	g.Board.Start()
	g.started = true
}

// layout places the overlays around the primary's windowed rect.
func (g *Game) layout() {
	r := g.Primary.DisplayRect()
	win := ui.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
	screen := ui.Rect{W: float64(g.Width), H: float64(g.Height)}

	g.video.Windowed = win
	g.controls.Y = win.Y + win.H + ui.ControlsPadding
	g.controls.CenterX = win.X + win.W/2
	g.timer.Windowed = win
	g.timer.Screen = screen
	g.label.Screen = screen
}

func (g *Game) Update() error {
	if !g.detecting {
		g.detect()
	}
	g.loop.Drain()
	g.trackVisibility()

	g.debug.HandleInput()

	// Alt+Enter toggles the window's fullscreen mode
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyAlt) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if g.started {
		for a := g.pollAction(); a != ui.ActionNone; a = g.nextRemote() {
			g.dispatch(a)
		}
		g.controls.Hover(ebiten.CursorPosition())
	}

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

// trackVisibility turns window minimize/restore into visibility events.
func (g *Game) trackVisibility() {
	minimized := ebiten.IsWindowMinimized()
	if minimized == g.minimized {
		return
	}
	g.minimized = minimized
	if minimized {
		g.bus.Publish(bus.Event{Kind: bus.VisibilityLost})
	} else {
		g.bus.Publish(bus.Event{Kind: bus.VisibilityRestored})
	}
}

func (g *Game) nextRemote() ui.Action {
	if g.deps.Remote == nil {
		return ui.ActionNone
	}
	return g.deps.Remote.Poll()
}

func (g *Game) dispatch(a ui.Action) {
	g.log.Debug("action", "action", a)
	switch a {
	case ui.ActionPlay:
		g.Board.Play()
	case ui.ActionPause:
		g.Board.Pause()
	case ui.ActionPlayPause:
		g.Board.PlayPause()
	case ui.ActionStop:
		g.Board.Stop()
	case ui.ActionFastForward:
		g.Board.FastForward()
	case ui.ActionRewind:
		g.Board.Rewind()
	case ui.ActionFullscreen:
		g.Board.ToggleFullscreen()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.cfg.Playback.Embed {
		// mpv owns the window surface via --wid and renders directly.
		return
	}
	screen.Fill(ui.ColorBackground)
	g.video.Draw(screen)
	g.controls.Draw(screen)
	g.timer.Draw(screen)
	g.label.Draw(screen)
	if lines := g.debugStatus(); lines != nil {
		g.debug.Draw(screen, lines, g.deps.Remote.Recent())
	}
}

// debugStatus is nil while the overlay is hidden, so the drivers are only
// queried when someone is looking.
func (g *Game) debugStatus() []string {
	if !g.debug.Visible() {
		return nil
	}
	return g.status()
}

// status describes both sessions for the debug overlay.
func (g *Game) status() []string {
	if !g.started {
		return []string{"waiting for screen resolution"}
	}
	lines := []string{fmt.Sprintf("screen %dx%d  active %s", g.Width, g.Height, g.Board.Active().Name())}
	for _, s := range []*player.Session{g.Primary, g.Interstitial} {
		lines = append(lines, fmt.Sprintf("%-12s %-7s pos %-8s dur %-8s cue %d",
			s.Name(), s.State(), s.Position().Truncate(time.Second), s.VideoDuration().Truncate(time.Second), s.CueCursor()))
	}
	return lines
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}
