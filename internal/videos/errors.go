package videos

import "errors"

var (
	// ErrProviderUnavailable indicates no details provider is configured.
	ErrProviderUnavailable = errors.New("video details provider unavailable")
	// ErrInvalidID rejects ids the service can never know.
	ErrInvalidID = errors.New("video id must be positive")
)
