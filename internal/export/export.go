// Package export hands the store's full CSV text to an external share target.
//
// An Exporter asks its Source for the export text (which fails with the
// store's NO_DATA error when there is nothing to export), checks that the
// chosen Sharer is available, writes the text unmodified to a spool file and
// passes that file to the Sharer.
// Unavailable targets fail with ErrUnavailable; nothing is retried.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable reports a share target that cannot be used on this machine.
var ErrUnavailable = errors.New("export target is not available")

// Source supplies the text to export. *store.Store implements it.
type Source interface {
	ExportText(ctx context.Context) (string, error)
}

// Sharer is an external mechanism that takes an exported file.
type Sharer interface {
	// Name identifies the target in logs and errors.
	Name() string

	// Available reports whether the target can be used right now.
	Available(ctx context.Context) bool

	// Share hands the file at path to the target.
	Share(ctx context.Context, path string) error
}

// Exporter writes export text to spool files and hands them to sharers.
type Exporter struct {
	source   Source
	spoolDir string
	logger   *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Exporter reading from src and spooling under spoolDir.
func New(src Source, spoolDir string, opts ...Option) *Exporter {
	e := &Exporter{source: src, spoolDir: spoolDir, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes one completed export.
type Result struct {
	ID     uuid.UUID // export id, also the spool subdirectory name
	Path   string    // spool file handed to the target
	Target string    // sharer name
	Bytes  int       // size of the exported text
}

// Share exports the current text to s under fileName.
//
// Each export gets its own UUIDv7-named spool directory, so fileName can stay
// stable (the backing file's own name, say) without clobbering earlier
// exports still open in another application.
func (e *Exporter) Share(ctx context.Context, s Sharer, fileName string) (*Result, error) {
	text, err := e.source.ExportText(ctx)
	if err != nil {
		return nil, err
	}

	if !s.Available(ctx) {
		return nil, fmt.Errorf("%s: %w", s.Name(), ErrUnavailable)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate export id: %w", err)
	}

	path, err := e.spool(id, fileName, text)
	if err != nil {
		return nil, err
	}

	log := e.logger.With("export_id", id.String(), "target", s.Name())
	log.Info("exporting survey data", "path", path, "bytes", len(text))

	if err := s.Share(ctx, path); err != nil {
		log.Error("export failed", "error", err)
		return nil, fmt.Errorf("share via %s: %w", s.Name(), err)
	}

	log.Info("export handed off")
	return &Result{ID: id, Path: path, Target: s.Name(), Bytes: len(text)}, nil
}

func (e *Exporter) spool(id uuid.UUID, fileName, text string) (string, error) {
	if fileName == "" || filepath.Base(fileName) != fileName {
		return "", fmt.Errorf("invalid export file name %q", fileName)
	}
	dir := filepath.Join(e.spoolDir, id.String())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create spool dir: %w", err)
	}
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("write spool file: %w", err)
	}
	return path, nil
}

// TimestampedName returns "export-<unix-ms>.csv", the attachment name used
// for mailed exports.
func TimestampedName(now time.Time) string {
	return fmt.Sprintf("export-%d.csv", now.UnixMilli())
}
