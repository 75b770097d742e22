package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything ideas needs at boot.
type Config struct {
	APIURL         string        `validate:"required,url"`
	PageURL        string        `validate:"required,url"`
	BannerSource   string        `validate:"required"`
	StateDir       string        `validate:"required"`
	LogFile        string        `validate:"required"`
	RequestTimeout time.Duration `validate:"gte=0"`
	MetricsAddr    string        `validate:"omitempty,hostname_port"`
}

const (
	defaultConfigPath     = "~/.config/ideas/config.toml"
	defaultAPIURL         = "https://api.example.com/api/ideas"
	defaultPageURL        = "https://ideas.example.com/ideas"
	defaultBannerSource   = "config.json"
	defaultStateDir       = "~/.local/share/ideas/state"
	defaultLogFile        = "~/.local/state/ideas/ideas.log"
	defaultRequestTimeout = 10 * time.Second
)

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PageURL:        defaultPageURL,
		BannerSource:   defaultBannerSource,
		StateDir:       mustExpand(defaultStateDir),
		LogFile:        mustExpand(defaultLogFile),
		RequestTimeout: defaultRequestTimeout,
	}
}

type fileConfig struct {
	APIURL         string `toml:"api_url"`
	PageURL        string `toml:"page_url"`
	BannerSource   string `toml:"banner_source"`
	StateDir       string `toml:"state_dir"`
	LogFile        string `toml:"log_file"`
	RequestTimeout string `toml:"request_timeout"`
	MetricsAddr    string `toml:"metrics_addr"`
}

// Load reads .env, then the TOML file at path (or the default location), then
// IDEAS_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env")

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	applyEnv(&raw)

	cfg, err := merge(raw)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(raw *fileConfig) {
	overrides := []struct {
		key  string
		dest *string
	}{
		{"IDEAS_API_URL", &raw.APIURL},
		{"IDEAS_PAGE_URL", &raw.PageURL},
		{"IDEAS_BANNER_SOURCE", &raw.BannerSource},
		{"IDEAS_STATE_DIR", &raw.StateDir},
		{"IDEAS_LOG_FILE", &raw.LogFile},
		{"IDEAS_REQUEST_TIMEOUT", &raw.RequestTimeout},
		{"IDEAS_METRICS_ADDR", &raw.MetricsAddr},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && strings.TrimSpace(v) != "" {
			*o.dest = v
		}
	}
}

func merge(raw fileConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.PageURL); v != "" {
		cfg.PageURL = v
	}
	if v := strings.TrimSpace(raw.BannerSource); v != "" {
		cfg.BannerSource = v
	}
	if v := strings.TrimSpace(raw.StateDir); v != "" {
		cfg.StateDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
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
