package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/surveylog/internal/codec"
	"github.com/roach88/surveylog/internal/record"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteSink mirrors an exported CSV into the entries table of a SQLite
// database, for ad-hoc analysis. Each share replaces the table content with
// the rows of the exported file, so the table always matches the latest
// export. Rows the store would skip are skipped here too.
//
// It is available when the database's parent directory exists.
type SQLiteSink struct {
	Path string
}

func (s SQLiteSink) Name() string { return "sqlite" }

func (s SQLiteSink) Available(context.Context) bool {
	if s.Path == "" {
		return false
	}
	info, err := os.Stat(filepath.Dir(s.Path))
	return err == nil && info.IsDir()
}

func (s SQLiteSink) Share(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	records := decodeCSV(string(data))

	db, err := openSQLite(s.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(seq, id, date, went_to_actc, peer_tutoring, writing_center, math_center, trio,
		 faculty_office_hours, informal_study_group, exercise, meditation, sleep_hours,
		 tao, together_all, medication, therapy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var id any = r.ID
		if r.ID == codec.InvalidID {
			id = nil
		}
		_, err := stmt.ExecContext(ctx,
			i+1, id, r.Date,
			yn(r.WentToACTC), yn(r.PeerTutoring), yn(r.WritingCenter), yn(r.MathCenter), yn(r.Trio),
			yn(r.FacultyOfficeHours), yn(r.InformalStudyGroup), r.Exercise, yn(r.Meditation), r.SleepHours,
			yn(r.Tao), yn(r.TogetherAll), r.Meds, yn(r.Therapy),
		)
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}
	return db, nil
}

// decodeCSV decodes an exported file with the store's rules: blank lines
// dropped, header used for lookup only when it names every column, short
// rows skipped.
func decodeCSV(text string) []record.SurveyRecord {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) <= 1 {
		return nil
	}

	idx := codec.NewHeaderIndex(codec.SplitLine(lines[0]))
	if !idx.Covers() {
		idx = codec.DefaultHeaderIndex()
	}

	out := make([]record.SurveyRecord, 0, len(lines)-1)
	for _, l := range lines[1:] {
		r, err := codec.DecodeLine(l, idx)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
