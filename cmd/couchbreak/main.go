package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/depeter/couchbreak/assets/icon"
	"github.com/depeter/couchbreak/internal/app"
	"github.com/depeter/couchbreak/internal/config"
	"github.com/depeter/couchbreak/internal/device"
	"github.com/depeter/couchbreak/internal/eventloop"
	"github.com/depeter/couchbreak/internal/jellyfin"
	"github.com/depeter/couchbreak/internal/logger"
	"github.com/depeter/couchbreak/internal/metrics"
	"github.com/depeter/couchbreak/internal/ui"
)

type flags struct {
	configPath    string
	logLevel      string
	logFormat     string
	metricsListen string
	writeConfig   bool
}

func parseFlags() flags {
	var f flags
	pflag.StringVarP(&f.configPath, "config", "c", "", "Path to config.toml (default $XDG_CONFIG_HOME/couchbreak/config.toml)")
	pflag.StringVar(&f.logLevel, "log-level", "", "Logging level: debug, info, warn, error")
	pflag.StringVar(&f.logFormat, "log-format", "", "Log format: text or json")
	pflag.StringVar(&f.metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address")
	pflag.BoolVar(&f.writeConfig, "write-config", false, "Write the effective config to the config path and exit")
	pflag.Parse()
	return f
}

func loadConfig(f flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.metricsListen != "" {
		cfg.Metrics.Listen = f.metricsListen
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeConfig saves cfg where loadConfig would read it and returns the path.
func writeConfig(f flags, cfg *config.Config) (string, error) {
	path := f.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := cfg.Save(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// resolveItems turns item_id sessions into stream URLs and returns the
// session name to item ID map used for playstate reporting.
func resolveItems(ctx context.Context, client *jellyfin.Client, cfg *config.Config, log *slog.Logger) (map[string]string, error) {
	items := map[string]string{}
	sessions := map[string]*config.SessionConfig{
		app.PrimaryName:      &cfg.Primary,
		app.InterstitialName: &cfg.Interstitial,
	}
	for name, sc := range sessions {
		if sc.ItemID == "" {
			continue
		}
		if client == nil {
			return nil, fmt.Errorf("%s: item_id needs [server] url", name)
		}
		item, url, err := client.ResolveStream(ctx, sc.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		log.Info("resolved library item", "player", name, "item", item.Name, "runtime", item.Runtime())
		sc.URL = url
		items[name] = item.ID
	}
	return items, nil
}

func run() error {
	f := parseFlags()
	cfg, err := loadConfig(f)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if f.writeConfig {
		path, err := writeConfig(f, cfg)
		if err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ui.InitFonts(nil); err != nil {
		return fmt.Errorf("init fonts: %w", err)
	}

	met := metrics.New()
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, met, log); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	var client *jellyfin.Client
	if cfg.Server.URL != "" {
		client = jellyfin.NewClient(cfg.Server.URL)
		if cfg.Server.Token != "" {
			client.SetToken(cfg.Server.Token, cfg.Server.UserID)
		}
	}
	items, err := resolveItems(ctx, client, cfg, log)
	if err != nil {
		return fmt.Errorf("resolve items: %w", err)
	}

	loop := eventloop.New(0)
	primary, err := device.NewMpv(&cfg.Playback, log.With("player", app.PrimaryName), loop.Post)
	if err != nil {
		return err
	}
	defer primary.Destroy()
	interstitial, err := device.NewMpv(&cfg.Playback, log.With("player", app.InterstitialName), loop.Post)
	if err != nil {
		return err
	}
	defer interstitial.Destroy()

	deps := app.Deps{
		Log:          log,
		Loop:         loop,
		Metrics:      met,
		Primary:      primary,
		Interstitial: interstitial,
		Remote:       ui.StartRemote(ctx, log.With("component", "remote")),
		Embed:        app.EmbedWindow(log),
	}
	if client != nil && len(items) > 0 {
		deps.Reporter = jellyfin.NewReporter(client, items, log.With("component", "playstate"))
	}
	game := app.NewGame(cfg, deps)

	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("CouchBreak")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	go func() {
		<-ctx.Done()
		game.Quit()
	}()

	err = ebiten.RunGame(game)
	if deps.Reporter != nil {
		deps.Reporter.Wait()
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "couchbreak:", err)
		os.Exit(1)
	}
}
