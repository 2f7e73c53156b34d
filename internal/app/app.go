package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/config"
	"github.com/mcpdash/mcpdash/internal/prefs"
	"github.com/mcpdash/mcpdash/internal/refresh"
	"github.com/mcpdash/mcpdash/internal/state"
	"github.com/mcpdash/mcpdash/internal/ui"
)

// Options configure the mcpdash application. Zero values keep whatever the
// config file and environment say.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/mcpdash/prefs.toml
	APIURL     string        // overrides api_url
	PollEvery  time.Duration // overrides poll_interval
	Debug      bool
}

// Run boots the mcpdash TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger, closer, err := newLogger(cfg.DebugLog, opts.Debug)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load preferences, using defaults")
		userPrefs = prefs.Default()
	}

	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}
	store.SetActive(state.ParseTab(userPrefs.Tab))

	refresher := refresh.New(client, store, refresh.Options{
		EventsSource: cfg.EventsSource,
		LogFile:      cfg.LogFile,
		LogLimit:     cfg.LogLimit,
	}, logger)

	logger.Info().
		Str("api_url", client.BaseURL()).
		Dur("poll_interval", cfg.PollInterval).
		Str("events_source", cfg.EventsSource).
		Msg("starting")

	// Load every panel once so the first frame has data; failures surface
	// as toasts from the store.
	if err := refresher.All(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial load incomplete")
	}

	StartPoller(ctx, refresher, cfg.PollInterval)

	return ui.Run(ui.Options{
		Context:       ctx,
		Refresher:     refresher,
		Mutator:       client,
		Store:         store,
		Config:        &cfg,
		Logger:        logger,
		ToastDuration: cfg.ToastDuration,
		ThemeName:     userPrefs.Theme,
		PrefsPath:     opts.PrefsPath,
	})
}

// newLogger opens the debug log for appending. The terminal belongs to the
// TUI, so nothing is written to stderr.
func newLogger(path string, debug bool) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(file).
		Level(level).
		With().
		Timestamp().
		Str("app", "mcpdash").
		Logger()
	return logger, file, nil
}
