package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/five82/ideas/internal/banner"
	"github.com/five82/ideas/internal/config"
	"github.com/five82/ideas/internal/controller"
	"github.com/five82/ideas/internal/listing"
	"github.com/five82/ideas/internal/location"
	"github.com/five82/ideas/internal/logging"
	"github.com/five82/ideas/internal/metrics"
	"github.com/five82/ideas/internal/prefs"
	"github.com/five82/ideas/internal/session"
	"github.com/five82/ideas/internal/state"
	"github.com/five82/ideas/internal/storage"
	"github.com/five82/ideas/internal/ui"
)

// Options configure the ideas application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/ideas/prefs.toml
	ViewURL    string // shared view URL to open; empty restores the last view
	Verbose    bool
	Version    string
}

// Env is everything the UI needs, built from the configuration.
type Env struct {
	Config        config.Config
	Prefs         prefs.Prefs
	PrefsPath     string
	Store         *storage.Store
	Bar           *location.Bar
	Controller    *controller.Controller
	Metrics       *metrics.Recorder
	Banner        banner.Banner
	BannerUpdates <-chan banner.Banner
}

// Close releases the local storage.
func (e *Env) Close() error {
	if e == nil || e.Store == nil {
		return nil
	}
	return e.Store.Close()
}

// Run boots the ideas TUI until the user quits or ctx is cancelled. It returns
// the view URL in effect at exit so the caller can print it.
func Run(ctx context.Context, opts Options) (string, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}

	logFile, err := logging.Setup(cfg.LogFile, opts.Verbose)
	if err != nil {
		return "", fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	env, err := Boot(ctx, cfg, opts)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := env.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing local storage")
		}
	}()

	log.Info().Str("view", env.Bar.String()).Msg("Starting")
	err = ui.Run(ui.Options{
		Context:       ctx,
		Controller:    env.Controller,
		Bar:           env.Bar,
		Banner:        env.Banner,
		BannerUpdates: env.BannerUpdates,
		ThemeName:     env.Prefs.Theme,
		Columns:       env.Prefs.Columns,
		PrefsPath:     env.PrefsPath,
	})
	return env.Bar.String(), err
}

// Boot opens local storage, restores the view state and builds the listing
// controller. The banner is loaded and, for a local document, watched.
func Boot(ctx context.Context, cfg config.Config, opts Options) (*Env, error) {
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	store, err := storage.Open(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	env, err := assemble(ctx, cfg, opts, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	env.Prefs = userPrefs
	env.PrefsPath = prefsPath
	return env, nil
}

func assemble(ctx context.Context, cfg config.Config, opts Options, store *storage.Store) (*Env, error) {
	bar, err := location.NewBar(cfg.PageURL, opts.ViewURL)
	if err != nil {
		return nil, fmt.Errorf("parse view url: %w", err)
	}

	sess, err := session.Restore(store, bar)
	if err != nil {
		return nil, fmt.Errorf("restore view state: %w", err)
	}

	client, err := listing.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init listing client: %w", err)
	}
	if opts.Version != "" {
		client.SetUserAgent("ideas/" + opts.Version)
	}

	rec := metrics.New()
	if cfg.MetricsAddr != "" {
		rec.Serve(ctx, cfg.MetricsAddr)
	}

	// Load falls back and logs on its own.
	b, _ := banner.Load(ctx, cfg.BannerSource)

	return &Env{
		Config:        cfg,
		Store:         store,
		Bar:           bar,
		Controller:    controller.New(sess, client, &state.Store{}, rec),
		Metrics:       rec,
		Banner:        b,
		BannerUpdates: WatchBanner(ctx, cfg),
	}, nil
}
