package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/surveylog/internal/codec"
	"github.com/roach88/surveylog/internal/record"
)

// DefaultFileName is the backing file name used when none is configured.
const DefaultFileName = "surveyData.csv"

// Store persists survey records in a single CSV file.
// All methods are safe for concurrent use; operations run one at a time.
type Store struct {
	mu     sync.Mutex
	fs     FS
	name   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a store over the file name inside fs. An empty name selects
// DefaultFileName. Nothing is touched on disk until the first operation.
func New(fs FS, name string, opts ...Option) *Store {
	if name == "" {
		name = DefaultFileName
	}
	s := &Store{fs: fs, name: name, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the backing file name.
func (s *Store) Name() string {
	return s.name
}

// LoadResult is the outcome of LoadAll.
type LoadResult struct {
	// Records holds the decoded rows in file order, oldest first.
	Records []record.SurveyRecord

	// HeaderMismatch is non-nil when the header line does not list the schema
	// columns in order. The rows were still decoded.
	HeaderMismatch *Error

	// Skipped lists data rows dropped for having too few columns.
	Skipped []SkippedRow
}

// SkippedRow identifies a dropped data row.
type SkippedRow struct {
	Line   int `json:"line"`   // 1-based physical line number in the file
	Fields int `json:"fields"` // columns found on the line
}

// EnsureHeader creates the backing file containing only the header line if
// it does not exist. An existing file is left untouched whatever it holds.
func (s *Store) EnsureHeader(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureHeader(ctx)
}

func (s *Store) ensureHeader(ctx context.Context) error {
	ok, err := s.fs.Exists(ctx, s.name)
	if err != nil {
		return newIOError("check file", s.name, err)
	}
	if ok {
		return nil
	}
	if err := s.fs.WriteAll(ctx, s.name, codec.HeaderLine()+"\n"); err != nil {
		return newIOError("write header", s.name, err)
	}
	s.logger.Debug("created survey file", "file", s.name)
	return nil
}

// Append adds r as the last row of the file.
//
// There is no append primitive: the whole file is read, the encoded row is
// added (after a newline if the content lacks a trailing one) and the whole
// content is written back. The record is not validated.
func (s *Store) Append(ctx context.Context, r record.SurveyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHeader(ctx); err != nil {
		return err
	}

	existing, err := s.fs.ReadAll(ctx, s.name)
	if err != nil {
		return newIOError("read file", s.name, err)
	}

	var b strings.Builder
	b.Grow(len(existing) + 128)
	b.WriteString(existing)
	if !strings.HasSuffix(existing, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(codec.EncodeRow(r))
	b.WriteByte('\n')

	if err := s.fs.WriteAll(ctx, s.name, b.String()); err != nil {
		return newIOError("write file", s.name, err)
	}

	s.logger.Debug("record appended", "file", s.name, "id", r.ID, "date", r.Date)
	return nil
}

// LoadAll decodes every data row in file order.
//
// A missing file, an empty file or a file holding only the header yields an
// empty result. Header drift and short rows are reported on the result, not
// as errors; see the package documentation.
func (s *Store) LoadAll(ctx context.Context) (*LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &LoadResult{Records: []record.SurveyRecord{}}

	ok, err := s.fs.Exists(ctx, s.name)
	if err != nil {
		return nil, newIOError("check file", s.name, err)
	}
	if !ok {
		return res, nil
	}

	text, err := s.fs.ReadAll(ctx, s.name)
	if err != nil {
		return nil, newIOError("read file", s.name, err)
	}

	lines := splitLines(text)
	if len(lines) <= 1 {
		return res, nil
	}

	header := codec.SplitLine(lines[0].text)
	idx := codec.DefaultHeaderIndex()
	if !headerMatches(header) {
		res.HeaderMismatch = newHeaderMismatch(s.name, record.Columns, header)
		s.logger.Warn("csv header mismatch",
			"file", s.name,
			"expected", codec.HeaderLine(),
			"got", lines[0].text,
		)
		// A reordered header still names every column; decode by name.
		if fileIdx := codec.NewHeaderIndex(header); fileIdx.Covers() {
			idx = fileIdx
		}
	}

	for _, ln := range lines[1:] {
		fields := codec.SplitLine(ln.text)
		r, err := codec.DecodeRow(fields, idx)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: ln.number, Fields: len(fields)})
			s.logger.Debug("skipping malformed row", "file", s.name, "line", ln.number, "fields", len(fields))
			continue
		}
		res.Records = append(res.Records, r)
	}

	return res, nil
}

// Clear deletes the backing file, if present, and re-creates it with only
// the header so the store is immediately ready for appends.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.fs.Exists(ctx, s.name)
	if err != nil {
		return newIOError("check file", s.name, err)
	}
	if ok {
		if err := s.fs.Delete(ctx, s.name); err != nil {
			return newIOError("delete file", s.name, err)
		}
	}

	if err := s.ensureHeader(ctx); err != nil {
		return err
	}

	s.logger.Info("survey data cleared", "file", s.name)
	return nil
}

// ExportText returns the full file content, header included.
//
// The header is created first if the file is missing. The result fails with
// NO_DATA unless the file holds at least one non-blank line after the header.
func (s *Store) ExportText(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHeader(ctx); err != nil {
		return "", err
	}

	text, err := s.fs.ReadAll(ctx, s.name)
	if err != nil {
		return "", newIOError("read file", s.name, err)
	}

	if len(splitLines(text)) <= 1 {
		return "", newNoDataError(s.name)
	}
	return text, nil
}

type line struct {
	number int
	text   string
}

// splitLines splits on "\n", strips a trailing "\r" and drops blank lines,
// keeping the 1-based physical line number of each survivor.
func splitLines(text string) []line {
	raw := strings.Split(text, "\n")
	out := make([]line, 0, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, line{number: i + 1, text: l})
	}
	return out
}

func headerMatches(header []string) bool {
	for i, want := range record.Columns {
		if i >= len(header) || header[i] != want {
			return false
		}
	}
	return true
}
