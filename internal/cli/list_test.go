package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/surveylog/internal/codec"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestList_Text(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 2)

	out, errOut, err := env.run("list")

	require.NoError(t, err)
	assert.Empty(t, errOut)
	newGoldie(t).Assert(t, "list_text", []byte(out))
}

func TestList_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 2)

	out, _, err := env.run("--format", "json", "list")

	require.NoError(t, err)
	newGoldie(t).Assert(t, "list_json", []byte(out))
}

func TestList_Empty(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"no_file", nil},
		{"header_only", ptr(codec.HeaderLine() + "\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.content != nil {
				env.fs.Put(env.opts.Config.FileName, *tt.content)
			}

			out, _, err := env.run("list")

			require.NoError(t, err)
			assert.Equal(t, "No entries recorded.\n", out)

			out, _, err = env.run("--format", "json", "list")
			require.NoError(t, err)
			assert.JSONEq(t, `{"status":"ok","data":{"count":0,"records":[]}}`, out)
		})
	}
}

func TestList_HeaderMismatchWarns(t *testing.T) {
	env := newTestEnv(t)
	env.fs.Put(env.opts.Config.FileName,
		"a,b,c\n"+"1,2025-01-04,Y,N,N,N,N,N,N,low,N,7,N,N,no,N\n")

	out, errOut, err := env.run("list")

	require.NoError(t, err)
	assert.Contains(t, errOut, "warning: header does not match")
	assert.Contains(t, out, "Entry 1 (2025-01-04)")
}

func TestList_ReadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 1)
	env.fs.FailRead = assert.AnError

	_, _, err := env.run("list")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeIO)
}

func ptr(s string) *string { return &s }
