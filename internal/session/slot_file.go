package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sealer encrypts the token before it touches disk.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// FileSlot keeps the token in a single file, optionally sealed.
type FileSlot struct {
	path   string
	sealer Sealer
}

// NewFileSlot returns a slot stored at path. A nil sealer stores the token as-is.
func NewFileSlot(path string, sealer Sealer) (*FileSlot, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("token file path is required")
	}
	return &FileSlot{path: path, sealer: sealer}, nil
}

// Load reads the token file.
func (s *FileSlot) Load(_ context.Context) (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	if len(b) == 0 {
		return "", ErrNoToken
	}

	if s.sealer != nil {
		b, err = s.sealer.Open(b)
		if err != nil {
			return "", fmt.Errorf("open token file: %w", err)
		}
	}
	if len(b) == 0 {
		return "", ErrNoToken
	}
	return string(b), nil
}

// Save writes the token through a temporary file so readers never see a partial write.
func (s *FileSlot) Save(_ context.Context, token string) error {
	b := []byte(token)
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(b)
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
		b = sealed
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir token dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*")
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Remove deletes the token file.
func (s *FileSlot) Remove(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
