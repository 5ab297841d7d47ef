package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Slot is one named value in a key-value store. Read returns ErrSlotEmpty
// when the key has never been written.
type Slot interface {
	Key() string
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// FileSlot keeps a slot as <dir>/<key>.json.
type FileSlot struct {
	dir string
	key string
}

// NewFileSlot creates dir if needed and returns a slot inside it.
func NewFileSlot(dir, key string) (*FileSlot, error) {
	if key == "" {
		return nil, fmt.Errorf("slot key is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &FileSlot{dir: dir, key: key}, nil
}

// Key returns the slot key.
func (s *FileSlot) Key() string { return s.key }

// Path returns the backing file path.
func (s *FileSlot) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

// Read returns the file content.
func (s *FileSlot) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path(), err)
	}
	if len(data) == 0 {
		return nil, ErrSlotEmpty
	}
	return data, nil
}

// Write replaces the file via a temp file and rename so a crash never
// leaves a half-written slot.
func (s *FileSlot) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+s.key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.Path(), err)
	}
	return nil
}

// Close is a no-op.
func (s *FileSlot) Close() error { return nil }

// MemorySlot is an in-process slot, used by tests and dry runs.
type MemorySlot struct {
	key  string
	data []byte
	// ReadErr and WriteErr, when set, are returned by every Read or Write.
	ReadErr  error
	WriteErr error
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot(key string) *MemorySlot {
	return &MemorySlot{key: key}
}

// Key returns the slot key.
func (s *MemorySlot) Key() string { return s.key }

// Read returns a copy of the stored bytes.
func (s *MemorySlot) Read(_ context.Context) ([]byte, error) {
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Write stores a copy of data.
func (s *MemorySlot) Write(_ context.Context, data []byte) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.data = append([]byte(nil), data...)
	return nil
}

// Close is a no-op.
func (s *MemorySlot) Close() error { return nil }
