// Package logging configures the global zerolog logger. The terminal belongs
// to the UI, so output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at path, creating its directory. It returns
// a closer for the log file. verbose enables debug output.
func Setup(path string, verbose bool) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	Configure(file, verbose)
	return file, nil
}

// Configure sets the global logger to write JSON lines to w.
func Configure(w io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}
