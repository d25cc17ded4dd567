package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vidfriends/webclient/internal/client"
	"github.com/vidfriends/webclient/internal/config"
	"github.com/vidfriends/webclient/internal/crypto"
	"github.com/vidfriends/webclient/internal/db"
	"github.com/vidfriends/webclient/internal/models"
	"github.com/vidfriends/webclient/internal/render"
	"github.com/vidfriends/webclient/internal/repositories"
	"github.com/vidfriends/webclient/internal/session"
	"github.com/vidfriends/webclient/internal/storage"
	"github.com/vidfriends/webclient/internal/ui"
	"github.com/vidfriends/webclient/internal/videos"
)

// dependencies holds the concrete implementations shared by every command.
type dependencies struct {
	cfg        config.Config
	sessions   *session.Store
	api        *client.Client
	feed       *client.FeedClient
	renderer   *render.Renderer
	controller *ui.Controller
	sources    *storage.Resolver
}

// buildDependencies wires together the client stack for cfg. The returned
// cleanup releases the token slot backend.
func buildDependencies(ctx context.Context, cfg config.Config) (*dependencies, func(), error) {
	slot, cleanup, err := newTokenSlot(ctx, cfg.State)
	if err != nil {
		return nil, nil, err
	}

	sessions := session.NewStore(slot)
	renderer := render.NewRenderer()

	api := client.New(cfg.ServerURL, &http.Client{Timeout: cfg.HTTPTimeout})
	feed := client.NewFeedClient(api, renderer, models.FeedQuery{
		Limit:    cfg.Feed.Limit,
		Category: cfg.Feed.Category,
	})

	controller := ui.NewController(ui.Dependencies{
		Sessions: sessions,
		Auth:     client.NewAuthClient(api, sessions),
		Uploads:  client.NewUploadClient(api, sessions),
		Feed:     feed,
		Details:  videos.NewCachingProvider(feed, cfg.Feed.DetailsCacheTTL),
		Links:    api,
		Renderer: renderer,
	}, ui.Options{GuardDoubleSubmit: cfg.Portal.GuardDoubleSubmit})

	return &dependencies{
		cfg:        cfg,
		sessions:   sessions,
		api:        api,
		feed:       feed,
		renderer:   renderer,
		controller: controller,
		sources:    storage.NewResolver(cfg.S3),
	}, cleanup, nil
}

// newTokenSlot selects where the bearer token is kept between runs.
func newTokenSlot(ctx context.Context, cfg config.StateConfig) (session.TokenSlot, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.StateBackendMemory:
		return session.NewMemorySlot(), noop, nil

	case config.StateBackendFile:
		var sealer session.Sealer
		if cfg.Passphrase != "" {
			s, err := crypto.NewSealer(cfg.Passphrase)
			if err != nil {
				return nil, nil, fmt.Errorf("configure token sealing: %w", err)
			}
			sealer = s
		}
		slot, err := session.NewFileSlot(cfg.File, sealer)
		if err != nil {
			return nil, nil, err
		}
		return slot, noop, nil

	case config.StateBackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		slot := repositories.NewPostgresTokenSlot(pool, repositories.DefaultSlotName)
		if err := slot.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return slot, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
