package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the file primitive set the store is built on. Names are relative to
// whatever root the implementation manages.
type FS interface {
	// Exists reports whether name exists. Absence is not an error.
	Exists(ctx context.Context, name string) (bool, error)

	// ReadAll returns the whole content of name.
	ReadAll(ctx context.Context, name string) (string, error)

	// WriteAll replaces the whole content of name, creating it if needed.
	WriteAll(ctx context.Context, name, content string) error

	// Delete removes name. Deleting a missing file is not an error.
	Delete(ctx context.Context, name string) error
}

// OSFS is an FS rooted at a directory on the local disk.
//
// WriteAll goes through a temp file and a rename, so a crash mid-write leaves
// either the old content or the new, never a torn file.
type OSFS struct {
	Dir string
}

// NewOSFS returns an FS rooted at dir. The directory is created on first write.
func NewOSFS(dir string) *OSFS {
	return &OSFS{Dir: dir}
}

// Path returns the on-disk path of name.
func (o *OSFS) Path(name string) string {
	return filepath.Join(o.Dir, name)
}

func (o *OSFS) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(o.Path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (o *OSFS) ReadAll(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(o.Path(name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (o *OSFS) WriteAll(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return writeFileAtomic(o.Path(name), []byte(content), 0o644)
}

func (o *OSFS) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(o.Path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".surveylog-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
