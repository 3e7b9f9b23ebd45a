package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSharer copies the export into a directory, typically one kept in sync by
// a cloud client such as OneDrive. It is available when Dir exists.
type DirSharer struct {
	Dir string
}

func (d DirSharer) Name() string { return "dir" }

func (d DirSharer) Available(context.Context) bool {
	if d.Dir == "" {
		return false
	}
	info, err := os.Stat(d.Dir)
	return err == nil && info.IsDir()
}

func (d DirSharer) Share(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	dst := filepath.Join(d.Dir, filepath.Base(path))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("copy to %s: %w", d.Dir, err)
	}
	return nil
}
