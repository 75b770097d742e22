// Package prefs handles ideas user preferences persistence.
// Preferences are stored in ~/.config/ideas/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// Prefs holds user preferences for the card view.
type Prefs struct {
	Theme   string `toml:"theme"`
	Columns int    `toml:"columns"`
}

const (
	defaultPrefsPath = "~/.config/ideas/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultColumns   = 3

	// MaxColumns is the widest card grid offered.
	MaxColumns = 4
)

// Default returns the preferences used when nothing is saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Columns: defaultColumns}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// NextColumns cycles the card grid width through 1..MaxColumns.
func (p Prefs) NextColumns() int {
	if p.Columns >= MaxColumns || p.Columns < 1 {
		return 1
	}
	return p.Columns + 1
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", resolved).Msg("Preferences unreadable, using defaults")
		}
		return prefs, nil
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		log.Warn().Err(err).Str("path", resolved).Msg("Preferences malformed, using defaults")
		return Default(), nil
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.Columns < 1 || prefs.Columns > MaxColumns {
		prefs.Columns = defaultColumns
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
