package videos

import (
	"context"

	"github.com/vidfriends/webclient/internal/models"
)

// Provider returns the details shown on the watch view for one video.
type Provider interface {
	Details(ctx context.Context, id int64) (models.VideoDetails, error)
}
