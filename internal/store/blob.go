package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrBlobNotFound is returned by Load when nothing has been saved yet.
var ErrBlobNotFound = errors.New("store: blob not found")

// BlobStore holds the serialized snapshot under one fixed key.
type BlobStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemoryBlob keeps the snapshot in process memory. SaveErr, when set, makes
// every Save fail.
type MemoryBlob struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	SaveErr error
}

func NewMemoryBlob(initial []byte) *MemoryBlob {
	return &MemoryBlob{data: initial}
}

func (m *MemoryBlob) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryBlob) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

// Saves counts successful writes.
func (m *MemoryBlob) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryBlob) SetSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErr = err
}

// FileBlob writes the snapshot to a single JSON file, replacing it atomically.
type FileBlob struct {
	Path string
}

func (f FileBlob) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return data, nil
}

func (f FileBlob) Save(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
