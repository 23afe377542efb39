package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"chainregistry/pkg/domain"
	"chainregistry/pkg/platform/sentinel"
)

const payloadExt = ".b64"

// Store keeps one file per payload under dir, named by content hash. Writes go
// through a temp file and rename so a crash never leaves a partial payload
// under a valid key.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates dir if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(hash domain.ContentHash) (string, error) {
	// Keys reach the filesystem, so re-validate them here.
	key, err := domain.ParseContentHash(string(hash))
	if err != nil {
		return "", sentinel.ErrNotFound
	}
	return filepath.Join(s.dir, string(key)+payloadExt), nil
}

func (s *Store) SaveIfAbsent(_ context.Context, hash domain.ContentHash, payload string) (bool, error) {
	path, err := s.path(hash)
	if err != nil {
		return false, fmt.Errorf("invalid content hash %q", hash)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := writeFile(path, []byte(payload), 0o600); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Load(_ context.Context, hash domain.ContentHash) (string, error) {
	path, err := s.path(hash)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), payloadExt) {
			n++
		}
	}
	return n, nil
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
