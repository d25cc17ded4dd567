package ui

import (
	"context"

	"github.com/vidfriends/webclient/internal/models"
)

// Authenticator performs login and registration against the service.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) error
	Register(ctx context.Context, req models.RegistrationRequest) error
}

// Uploader sends one video to the service.
type Uploader interface {
	Upload(ctx context.Context, req models.UploadRequest) error
}

// Feed refreshes the rendered feed.
type Feed interface {
	Refresh(ctx context.Context) []models.VideoSummary
}

// DetailsProvider resolves the watch view of one video.
type DetailsProvider interface {
	Details(ctx context.Context, id int64) (models.VideoDetails, error)
}

// Linker builds service URLs for full-page navigation.
type Linker interface {
	WatchURL(id int64) string
}

// invalidator is implemented by details caches that must forget stale entries.
type invalidator interface {
	Invalidate()
}
