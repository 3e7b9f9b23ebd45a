package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/surveylog/internal/codec"
	"github.com/roach88/surveylog/internal/testutil"
)

const testFile = "surveyData.csv"

var header = codec.HeaderLine() + "\n"

// createTestStore creates a store over a fresh MemFS with logging discarded.
func createTestStore(t *testing.T) (*Store, *testutil.MemFS) {
	t.Helper()
	fs := testutil.NewMemFS()
	return New(fs, testFile, WithLogger(discardLogger())), fs
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mustRaw returns the raw backing file content or fails the test.
func mustRaw(t *testing.T, fs *testutil.MemFS) string {
	t.Helper()
	content, ok := fs.Get(testFile)
	if !ok {
		t.Fatalf("backing file %s does not exist", testFile)
	}
	return content
}
