package slot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File keeps the slot in a JSON file on disk.
type File struct {
	path string
}

var _ Store = (*File)(nil)

// NewFile returns a slot stored at path. Parent directories are created on save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the file, treating a missing file as an empty slot.
func (f *File) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("slot: read %s: %w", f.path, err)
	}
	return data, nil
}

// Save replaces the file atomically.
func (f *File) Save(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("slot: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("slot: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("slot: write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("slot: close %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("slot: rename %s: %w", f.path, err)
	}
	return nil
}
