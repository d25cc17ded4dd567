package session

import (
	"context"
	"sync"
)

// NewMemorySlot returns a TokenSlot that lives only as long as the process.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// MemorySlot implements TokenSlot for tests and throwaway sessions.
type MemorySlot struct {
	mu    sync.RWMutex
	token string
}

// Load returns the stored token or ErrNoToken.
func (s *MemorySlot) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Save replaces the stored token.
func (s *MemorySlot) Save(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Remove clears the stored token.
func (s *MemorySlot) Remove(_ context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Token reports the raw slot contents. Useful for tests.
func (s *MemorySlot) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
