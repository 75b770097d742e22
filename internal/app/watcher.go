package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/five82/ideas/internal/banner"
	"github.com/five82/ideas/internal/config"
)

// WatchBanner streams reloaded banners while ctx is live. Remote documents
// are loaded once at boot and never watched, so the channel is nil for them.
func WatchBanner(ctx context.Context, cfg config.Config) <-chan banner.Banner {
	if banner.IsRemote(cfg.BannerSource) {
		return nil
	}

	updates := make(chan banner.Banner, 1)
	err := banner.Watch(ctx, cfg.BannerSource, func(b banner.Banner, err error) {
		if err != nil {
			return
		}
		// Keep only the newest banner when the UI has not caught up.
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- b:
		case <-ctx.Done():
		}
	})
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.BannerSource).Msg("Banner hot reload disabled")
		return nil
	}
	return updates
}
