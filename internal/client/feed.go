package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/go-querystring/query"

	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/models"
)

// FeedSink receives every freshly fetched feed.
type FeedSink interface {
	RenderFeed(videos []models.VideoSummary)
}

// FeedClient reads the public video list. It needs no session.
//
// Unlike AuthClient and UploadClient, FeedClient never reports failures: a
// failed fetch is logged and yields an empty feed.
type FeedClient struct {
	api   *Client
	sink  FeedSink
	query models.FeedQuery
}

// NewFeedClient returns a FeedClient that pipes refreshes into sink using defaults as the list filter.
func NewFeedClient(api *Client, sink FeedSink, defaults models.FeedQuery) *FeedClient {
	if api == nil {
		panic("client: feed client requires an API client")
	}
	return &FeedClient{api: api, sink: sink, query: defaults}
}

type feedResponse struct {
	Videos []models.VideoSummary `json:"videos"`
}

// FetchAll fetches one page of the feed. It always returns a non-nil slice.
func (f *FeedClient) FetchAll(ctx context.Context, q models.FeedQuery) []models.VideoSummary {
	ctx, span := logging.StartSpan(ctx, "feed.fetch")
	defer span.End()

	videos, err := f.fetch(ctx, q)
	if err != nil {
		span.Fail(err)
		logging.FromContext(ctx).Warn("feed unavailable, showing no videos", "error", err)
		return []models.VideoSummary{}
	}
	if videos == nil {
		videos = []models.VideoSummary{}
	}
	return videos
}

// Refresh re-fetches the feed with the default filter and hands it to the sink.
func (f *FeedClient) Refresh(ctx context.Context) []models.VideoSummary {
	videos := f.FetchAll(ctx, f.query)
	if f.sink != nil {
		f.sink.RenderFeed(videos)
	}
	return videos
}

func (f *FeedClient) fetch(ctx context.Context, q models.FeedQuery) ([]models.VideoSummary, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode feed query: %w", err)
	}

	target := f.api.endpoint(pathVideos)
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	var out feedResponse
	if err := f.api.send(ctx, "feed", req, &out); err != nil {
		return nil, err
	}
	return out.Videos, nil
}

type detailsResponse struct {
	Video models.VideoDetails `json:"video"`
}

// Details fetches one video for the watch view. Errors are returned because
// the call backs an explicit navigation rather than the ambient feed.
func (f *FeedClient) Details(ctx context.Context, id int64) (models.VideoDetails, error) {
	ctx, span := logging.StartSpan(ctx, "feed.details")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.api.endpoint(pathVideoDetails+strconv.FormatInt(id, 10)), nil)
	if err != nil {
		span.Fail(err)
		return models.VideoDetails{}, fmt.Errorf("build details request: %w", err)
	}

	var out detailsResponse
	err = f.api.send(ctx, "details", req, &out)
	logOutcome(ctx, "details", err)
	if err != nil {
		span.Fail(err)
		return models.VideoDetails{}, err
	}
	return out.Video, nil
}

// WatchURL is the full-page watch route on the service for a video.
func (c *Client) WatchURL(id int64) string {
	return c.endpoint(pathWatch) + "?id=" + strconv.FormatInt(id, 10)
}
