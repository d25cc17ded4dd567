package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vidfriends/webclient/internal/config"
	"github.com/vidfriends/webclient/internal/models"
)

// ErrEmptyRef rejects an empty upload source.
var ErrEmptyRef = errors.New("storage: empty source reference")

const s3Scheme = "s3://"

// Staged is an upload source opened for reading. Close releases it and
// removes any temporary copy.
type Staged struct {
	Name string
	File *os.File

	cleanup func() error
}

// VideoFile exposes the staged content as the binary part of an upload.
func (s *Staged) VideoFile() models.VideoFile {
	return models.VideoFile{Name: s.Name, Content: s.File}
}

// Close releases the staged file.
func (s *Staged) Close() error {
	if s == nil || s.File == nil {
		return nil
	}
	err := s.File.Close()
	if s.cleanup != nil {
		if cerr := s.cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Resolver opens upload sources: local paths directly, s3://bucket/key
// references by staging the object to a temporary file first.
type Resolver struct {
	cfg config.S3Config

	mu sync.Mutex
	s3 *S3Source
}

// NewResolver returns a Resolver using cfg for s3:// references.
func NewResolver(cfg config.S3Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Open resolves ref to readable content.
func (r *Resolver) Open(ctx context.Context, ref string) (*Staged, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}
	if !strings.HasPrefix(ref, s3Scheme) {
		return OpenLocal(ref)
	}

	src, err := r.s3Source(ctx)
	if err != nil {
		return nil, err
	}
	return src.Stage(ctx, ref)
}

func (r *Resolver) s3Source(ctx context.Context) (*S3Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s3 != nil {
		return r.s3, nil
	}
	src, err := NewS3Source(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	r.s3 = src
	return src, nil
}

// OpenLocal opens a file on disk.
func OpenLocal(path string) (*Staged, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", path)
	}
	return &Staged{Name: filepath.Base(path), File: f}, nil
}
