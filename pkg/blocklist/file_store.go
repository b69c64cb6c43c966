// Package blocklist reads the legacy user block list: a flat JSON object
// mapping user identifiers to a boolean, kept on disk next to the service.
// It predates the subscription tokensBlocked flag and is still honoured.
package blocklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	storeDirMode = 0o700
	storeFileMod = 0o600
)

type Store interface {
	// Ensure creates an empty list if none exists yet.
	Ensure(ctx context.Context) error
	Read(ctx context.Context) (map[string]bool, error)
	// IsBlocked is false for unknown users and on any read error.
	IsBlocked(ctx context.Context, userID string) bool
}

type FileStore struct {
	path string
	mu   sync.RWMutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

func (s *FileStore) Ensure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat block list %q: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirMode); err != nil {
		return fmt.Errorf("create block list directory: %w", err)
	}

	// O_EXCL so a concurrent creator in another process is not truncated.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, storeFileMod)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create block list %q: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("{}")); err != nil {
		return fmt.Errorf("write block list %q: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Read(ctx context.Context) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read block list %q: %w", s.path, err)
	}

	blocked := map[string]bool{}
	if err := json.Unmarshal(data, &blocked); err != nil {
		return nil, fmt.Errorf("decode block list %q: %w", s.path, err)
	}
	return blocked, nil
}

func (s *FileStore) IsBlocked(ctx context.Context, userID string) bool {
	if err := s.Ensure(ctx); err != nil {
		return false
	}
	blocked, err := s.Read(ctx)
	if err != nil {
		return false
	}
	return blocked[userID]
}
