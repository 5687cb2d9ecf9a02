// Package store is a small key-value store over afs. Each key is one
// <key>.json object under a base URL, so the same code serves a local
// directory, a file:// URL or an in-memory mem:// location.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// ErrNotFound is returned by Get for a key that was never stored.
var ErrNotFound = errors.New("store: key not found")

// KV stores opaque values by key.
type KV struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// New opens a store rooted at baseURL, creating the location when needed.
func New(ctx context.Context, baseURL string) (*KV, error) {
	return NewWithService(ctx, afs.New(), baseURL)
}

// NewWithService is New with a caller-provided afs service.
func NewWithService(ctx context.Context, fs afs.Service, baseURL string) (*KV, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("store: base URL cannot be empty")
	}
	baseURL = url.Normalize(baseURL, file.Scheme)

	exists, err := fs.Exists(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("store: check %s: %w", baseURL, err)
	}
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", baseURL, err)
		}
	}
	return &KV{baseURL: baseURL, fs: fs}, nil
}

// URL is the normalized location of the store.
func (s *KV) URL() string { return s.baseURL }

// Get returns the value stored under key.
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	u, err := s.keyURL(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	exists, err := s.fs.Exists(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("store: check %s: %w", key, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	data, err := s.fs.DownloadWithURL(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, nil
}

// Put stores value under key, replacing what was there.
func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	u, err := s.keyURL(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Upload(ctx, u, file.DefaultFileOsMode, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KV) Delete(ctx context.Context, key string) error {
	u, err := s.keyURL(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.fs.Exists(ctx, u)
	if err != nil {
		return fmt.Errorf("store: check %s: %w", key, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, u); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (s *KV) keyURL(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("store: invalid key %q", key)
	}
	return url.Join(s.baseURL, key+".json"), nil
}
