package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileSlotStore keeps the snapshot in a single file.
// Writes go to a temp file in the same directory and are renamed into place.
type FileSlotStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileSlotStore creates a new instance of FileSlotStore.
func NewFileSlotStore(fsys afero.Fs, path string) *FileSlotStore {
	return &FileSlotStore{
		fs:   fsys,
		path: path,
	}
}

// Load reads the snapshot file.
func (s *FileSlotStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to read slot file %s: %w", s.path, err)
	}
	return data, nil
}

// Save writes the snapshot file atomically.
func (s *FileSlotStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create slot directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, s.path, err)
	}
	return nil
}
