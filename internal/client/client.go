package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResponseBytes bounds how much of an API response is read.
const maxResponseBytes = 4 << 20

// Endpoints of the video service API.
const (
	pathLogin        = "/api/login"
	pathRegister     = "/api/register"
	pathUpload       = "/api/upload"
	pathVideos       = "/api/videos"
	pathVideoDetails = "/api/video_details/"
	pathWatch        = "/watch"
)

// Client performs raw exchanges with the video service API. Every endpoint
// answers with a JSON envelope carrying a success flag and, on failure, a
// user-facing message.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// send issues req once and decodes the envelope. On success the full body
// is also decoded into out when out is non-nil.
func (c *Client) send(ctx context.Context, op string, req *http.Request, out any) error {
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &RejectedError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decode %s payload: %w", op, err)}
		}
	}
	return nil
}
