package session

import (
	"context"
	"errors"
)

// ErrNoToken indicates the durable slot holds no token.
var ErrNoToken = errors.New("no stored token")

// TokenSlot is the single durable key-value slot holding the bearer token.
// Implementations treat the token as an opaque string.
type TokenSlot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	// Remove deletes the stored token. Removing an absent token is not an error.
	Remove(ctx context.Context) error
}
