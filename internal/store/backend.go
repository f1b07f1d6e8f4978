package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Backend durably holds one serialized document.
// Load returns nil bytes when nothing has been saved yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// MemoryBackend keeps the document in process memory
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
	// FailSaves makes every Save fail, for exercising storage errors
	FailSaves bool
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryBackend) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return errors.New("memory backend: save refused")
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}

// FileBackend keeps the document in a single JSON file
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend writing to path, creating its directory if needed
func NewFileBackend(path string) (*FileBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create store directory %s", dir)
		}
	}
	return &FileBackend{path: path}, nil
}

func (f *FileBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", f.path)
	}
	return data, nil
}

// Save writes to a temporary sibling and renames it over the previous version
func (f *FileBackend) Save(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrapf(err, "replace %s", f.path)
	}
	return nil
}

func (f *FileBackend) Close() error {
	return nil
}
