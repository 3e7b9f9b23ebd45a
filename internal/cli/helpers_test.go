package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/surveylog/internal/config"
	"github.com/roach88/surveylog/internal/store"
	"github.com/roach88/surveylog/internal/testutil"
)

// testEnv is a CLI wired to an in-memory survey file and a fixed clock.
type testEnv struct {
	opts  *RootOptions
	fs    *testutil.MemFS
	clock *testutil.DeterministicClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Export.SpoolDir = t.TempDir()

	fs := testutil.NewMemFS()
	clock := testutil.NewDeterministicClock(testutil.DefaultEpoch)
	return &testEnv{
		opts:  &RootOptions{Config: cfg, FS: fs, Clock: clock},
		fs:    fs,
		clock: clock,
	}
}

// seed appends the first n fixture records to the survey file.
func (e *testEnv) seed(t *testing.T, n int) {
	t.Helper()
	st := store.New(e.fs, e.opts.Config.FileName)
	for _, r := range testutil.Records(n) {
		require.NoError(t, st.Append(context.Background(), r))
	}
}

func (e *testEnv) file() string {
	content, _ := e.fs.Get(e.opts.Config.FileName)
	return content
}

// run executes the root command with args and returns stdout and stderr.
func (e *testEnv) run(args ...string) (string, string, error) {
	// Each invocation gets a fresh store, as a new process would.
	e.opts.store = nil
	cmd := newRootCommand(e.opts)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
