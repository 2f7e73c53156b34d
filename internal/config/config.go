package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Events sources.
const (
	EventsPlaceholder = "placeholder"
	EventsAPI         = "api"
)

// Config holds everything mcpdash needs to reach the backend and render.
type Config struct {
	APIURL         string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	LogLimit       int
	LogFile        string
	EventsSource   string
	ToastDuration  time.Duration
	DebugLog       string
}

const (
	defaultConfigPath     = "~/.config/mcpdash/config.toml"
	defaultAPIURL         = "http://localhost:5000/api"
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 5 * time.Second
	defaultLogLimit       = 100
	defaultToastDuration  = 3 * time.Second
	defaultDebugLog       = "~/.local/state/mcpdash/mcpdash.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		LogLimit:       defaultLogLimit,
		EventsSource:   EventsPlaceholder,
		ToastDuration:  defaultToastDuration,
		DebugLog:       mustExpand(defaultDebugLog),
	}
}

type fileConfig struct {
	APIURL         string `toml:"api_url"`
	PollInterval   string `toml:"poll_interval"`
	RequestTimeout string `toml:"request_timeout"`
	LogLimit       int    `toml:"log_limit"`
	LogFile        string `toml:"log_file"`
	EventsSource   string `toml:"events_source"`
	ToastDuration  string `toml:"toast_duration"`
	DebugLog       string `toml:"debug_log"`
}

type envConfig struct {
	APIURL       string        `env:"MCPDASH_API_URL"`
	PollInterval time.Duration `env:"MCPDASH_POLL_INTERVAL"`
	LogFile      string        `env:"MCPDASH_LOG_FILE"`
	EventsSource string        `env:"MCPDASH_EVENTS_SOURCE"`
	DebugLog     string        `env:"MCPDASH_DEBUG_LOG"`
}

// Load reads the TOML config at path (or the default location), applies
// MCPDASH_* environment overrides, and validates the result. A missing file
// yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw fileConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := applyFile(&cfg, raw); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	applyEnv(&cfg, env)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw fileConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"poll_interval", raw.PollInterval, &cfg.PollInterval},
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
		{"toast_duration", raw.ToastDuration, &cfg.ToastDuration},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.value)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	if raw.LogLimit != 0 {
		cfg.LogLimit = raw.LogLimit
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.EventsSource); v != "" {
		cfg.EventsSource = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.DebugLog); v != "" {
		cfg.DebugLog = mustExpand(v)
	}
	return nil
}

func applyEnv(cfg *Config, env envConfig) {
	if v := strings.TrimSpace(env.APIURL); v != "" {
		cfg.APIURL = v
	}
	if env.PollInterval != 0 {
		cfg.PollInterval = env.PollInterval
	}
	if v := strings.TrimSpace(env.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(env.EventsSource); v != "" {
		cfg.EventsSource = strings.ToLower(v)
	}
	if v := strings.TrimSpace(env.DebugLog); v != "" {
		cfg.DebugLog = mustExpand(v)
	}
}

// Validate rejects values the poller and client cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url is empty")
	}
	if _, err := url.Parse(c.APIURL); err != nil {
		return fmt.Errorf("parse api_url: %w", err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.ToastDuration <= 0 {
		return fmt.Errorf("toast_duration must be positive, got %s", c.ToastDuration)
	}
	if c.LogLimit <= 0 {
		return fmt.Errorf("log_limit must be positive, got %d", c.LogLimit)
	}
	switch c.EventsSource {
	case EventsPlaceholder, EventsAPI:
	default:
		return fmt.Errorf("events_source %q: want %q or %q", c.EventsSource, EventsPlaceholder, EventsAPI)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
