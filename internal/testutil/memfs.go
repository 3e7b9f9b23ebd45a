package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrInjected is the default error returned by MemFS fault hooks.
var ErrInjected = errors.New("injected failure")

// MemFS is an in-memory implementation of store.FS.
//
// The Fail* fields inject failures: when non-nil the matching operation
// returns that error without touching the files. Thread-safety: all methods
// are safe for concurrent use.
type MemFS struct {
	mu    sync.Mutex
	files map[string]string

	FailExists error
	FailRead   error
	FailWrite  error
	FailDelete error

	// Writes counts successful WriteAll calls.
	Writes int
}

// NewMemFS returns an empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string]string)}
}

func (m *MemFS) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailExists != nil {
		return false, m.FailExists
	}
	_, ok := m.files[name]
	return ok, nil
}

func (m *MemFS) ReadAll(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead != nil {
		return "", m.FailRead
	}
	content, ok := m.files[name]
	if !ok {
		return "", errors.New("file does not exist: " + name)
	}
	return content, nil
}

func (m *MemFS) WriteAll(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite != nil {
		return m.FailWrite
	}
	m.files[name] = content
	m.Writes++
	return nil
}

func (m *MemFS) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete != nil {
		return m.FailDelete
	}
	delete(m.files, name)
	return nil
}

// Put sets the raw content of name.
func (m *MemFS) Put(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = content
}

// Get returns the raw content of name and whether it exists.
func (m *MemFS) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[name]
	return content, ok
}
