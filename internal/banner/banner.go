// Package banner loads the title band shown above the listing. The content
// comes from a small JSON document that editors maintain separately from the
// listing API.
package banner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	fallbackTitle    = "Ideas"
	fallbackSubtitle = "Where all our great things begin"

	fetchTimeout = 5 * time.Second
	maxDocBytes  = 1 << 20
)

// Banner is the rendered content of the title band.
type Banner struct {
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ClipPath string `json:"clip_path"`
}

// Fallback is shown when the document cannot be loaded.
func Fallback() Banner {
	return Banner{Title: fallbackTitle, Subtitle: fallbackSubtitle}
}

// ConfigFetchError reports a banner document that could not be read or
// decoded.
type ConfigFetchError struct {
	Source string
	Err    error
}

func (e *ConfigFetchError) Error() string {
	return fmt.Sprintf("load banner config %s: %v", e.Source, e.Err)
}

func (e *ConfigFetchError) Unwrap() error { return e.Err }

type document struct {
	Banner *Banner `json:"banner"`
}

// Load reads the banner document from source, a file path or an http(s) URL.
// On any failure it returns Fallback together with a *ConfigFetchError.
func Load(ctx context.Context, source string) (Banner, error) {
	data, err := read(ctx, source)
	if err == nil {
		var b Banner
		if b, err = decode(data); err == nil {
			return b, nil
		}
	}
	fetchErr := &ConfigFetchError{Source: source, Err: err}
	log.Warn().Err(fetchErr).Msg("Banner config unavailable, using fallback")
	return Fallback(), fetchErr
}

func read(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("no source configured")
	}
	if !IsRemote(source) {
		return os.ReadFile(source)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocBytes))
}

func decode(data []byte) (Banner, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Banner{}, fmt.Errorf("decode: %w", err)
	}
	if doc.Banner == nil {
		return Banner{}, errors.New("document has no banner")
	}
	return *doc.Banner, nil
}

// IsRemote reports whether source is an http(s) URL rather than a file path.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ParallaxOffset is how far the banner band shifts for a scroll position:
// it moves at half the speed of the content.
func ParallaxOffset(scrollY int) int {
	if scrollY <= 0 {
		return 0
	}
	return scrollY / 2
}
