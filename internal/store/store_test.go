package store

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/surveylog/internal/codec"
	"github.com/roach88/surveylog/internal/record"
	"github.com/roach88/surveylog/internal/testutil"
)

func TestNew_DefaultFileName(t *testing.T) {
	s := New(testutil.NewMemFS(), "")
	assert.Equal(t, DefaultFileName, s.Name())
}

// =============================================================================
// EnsureHeader
// =============================================================================

func TestEnsureHeader_CreatesFile(t *testing.T) {
	s, fs := createTestStore(t)

	require.NoError(t, s.EnsureHeader(context.Background()))

	assert.Equal(t, header, mustRaw(t, fs))
}

func TestEnsureHeader_Idempotent(t *testing.T) {
	s, fs := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureHeader(ctx))
	once := mustRaw(t, fs)
	require.NoError(t, s.EnsureHeader(ctx))

	assert.Equal(t, once, mustRaw(t, fs))
	assert.Equal(t, 1, fs.Writes)
}

func TestEnsureHeader_LeavesExistingContent(t *testing.T) {
	s, fs := createTestStore(t)
	fs.Put(testFile, "garbage")

	require.NoError(t, s.EnsureHeader(context.Background()))

	assert.Equal(t, "garbage", mustRaw(t, fs))
}

func TestEnsureHeader_ExistsFailure(t *testing.T) {
	s, fs := createTestStore(t)
	fs.FailExists = testutil.ErrInjected

	err := s.EnsureHeader(context.Background())

	require.Error(t, err)
	assert.True(t, IsIO(err))
	assert.ErrorIs(t, err, testutil.ErrInjected)
}

// =============================================================================
// Append / LoadAll
// =============================================================================

func TestAppend_CreatesHeaderThenRow(t *testing.T) {
	s, fs := createTestStore(t)
	r := testutil.Record(0)

	require.NoError(t, s.Append(context.Background(), r))

	assert.Equal(t, header+codec.EncodeRow(r)+"\n", mustRaw(t, fs))
}

func TestAppend_AddsNewlineWhenMissing(t *testing.T) {
	s, fs := createTestStore(t)
	r0, r1 := testutil.Record(0), testutil.Record(1)
	fs.Put(testFile, header+codec.EncodeRow(r0))

	require.NoError(t, s.Append(context.Background(), r1))

	assert.Equal(t, header+codec.EncodeRow(r0)+"\n"+codec.EncodeRow(r1)+"\n", mustRaw(t, fs))
}

func TestAppend_Accumulates(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()
	want := testutil.Records(5)

	for _, r := range want {
		require.NoError(t, s.Append(ctx, r))
	}

	res, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, res.Records)
	assert.Nil(t, res.HeaderMismatch)
	assert.Empty(t, res.Skipped)
}

func TestAppend_DuplicateIDsPreserved(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()
	r := testutil.Record(0)

	require.NoError(t, s.Append(ctx, r))
	require.NoError(t, s.Append(ctx, r))

	res, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []record.SurveyRecord{r, r}, res.Records)
}

func TestAppend_CommaInFreeText(t *testing.T) {
	s, fs := createTestStore(t)
	ctx := context.Background()
	r := testutil.Record(1)
	r.Exercise = "hi, there"
	r.Meds = "n/a"

	require.NoError(t, s.Append(ctx, r))

	raw := mustRaw(t, fs)
	assert.Contains(t, raw, `"hi, there"`)
	assert.Contains(t, raw, ",n/a,")
	assert.NotContains(t, raw, `"n/a"`)

	res, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "hi, there", res.Records[0].Exercise)
	assert.Equal(t, "n/a", res.Records[0].Meds)
}

func TestAppend_ReadFailureLeavesFile(t *testing.T) {
	s, fs := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureHeader(ctx))
	fs.FailRead = testutil.ErrInjected

	err := s.Append(ctx, testutil.Record(0))

	require.Error(t, err)
	assert.True(t, IsIO(err))
	assert.Equal(t, header, mustRaw(t, fs))
}

func TestAppend_WriteFailure(t *testing.T) {
	s, fs := createTestStore(t)
	fs.FailWrite = testutil.ErrInjected

	err := s.Append(context.Background(), testutil.Record(0))

	require.Error(t, err)
	assert.True(t, IsIO(err))
	_, exists := fs.Get(testFile)
	assert.False(t, exists)
}

func TestAppend_ConcurrentCallersLoseNothing(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, testutil.Record(i)))
		}(i)
	}
	wg.Wait()

	res, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Records, n)
	assert.ElementsMatch(t, testutil.Records(n), res.Records)
}

func TestLoadAll_MissingFile(t *testing.T) {
	s, fs := createTestStore(t)

	res, err := s.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.NotNil(t, res.Records)
	_, exists := fs.Get(testFile)
	assert.False(t, exists, "LoadAll must not create the file")
}

func TestLoadAll_HeaderOnlyOrBlank(t *testing.T) {
	for _, content := range []string{"", "\n\n", header, header + "\n   \n", codec.HeaderLine()} {
		s, fs := createTestStore(t)
		fs.Put(testFile, content)

		res, err := s.LoadAll(context.Background())

		require.NoError(t, err, "content %q", content)
		assert.Empty(t, res.Records, "content %q", content)
		assert.Nil(t, res.HeaderMismatch, "content %q", content)
	}
}

func TestLoadAll_CRLFAndMissingTerminator(t *testing.T) {
	s, fs := createTestStore(t)
	r0, r1 := testutil.Record(0), testutil.Record(1)
	fs.Put(testFile, codec.HeaderLine()+"\r\n"+codec.EncodeRow(r0)+"\r\n\r\n"+codec.EncodeRow(r1))

	res, err := s.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Nil(t, res.HeaderMismatch)
	assert.Equal(t, []record.SurveyRecord{r0, r1}, res.Records)
}

func TestLoadAll_SkipsShortRows(t *testing.T) {
	s, fs := createTestStore(t)
	good := testutil.Record(0)
	short := strings.Join(codec.SplitLine(codec.EncodeRow(testutil.Record(1)))[:10], ",")
	fs.Put(testFile, header+codec.EncodeRow(good)+"\n"+short+"\n")

	res, err := s.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []record.SurveyRecord{good}, res.Records)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkippedRow{Line: 3, Fields: 10}, res.Skipped[0])
}

func TestLoadAll_HeaderMismatchIsDiagnostic(t *testing.T) {
	s, fs := createTestStore(t)
	r := testutil.Record(2)
	fs.Put(testFile, "a,b,c\n"+codec.EncodeRow(r)+"\n")

	res, err := s.LoadAll(context.Background())

	require.NoError(t, err)
	require.NotNil(t, res.HeaderMismatch)
	assert.True(t, IsHeaderMismatch(res.HeaderMismatch))
	assert.Equal(t, []string{"a", "b", "c"}, res.HeaderMismatch.Got)
	assert.Equal(t, record.Columns, res.HeaderMismatch.Expected)
	// Decoded positionally anyway.
	assert.Equal(t, []record.SurveyRecord{r}, res.Records)
}

func TestLoadAll_ReorderedHeaderDecodesByName(t *testing.T) {
	s, fs := createTestStore(t)
	r := testutil.Record(1)

	cols := append([]string(nil), record.Columns...)
	fields := codec.SplitLine(codec.EncodeRow(r))
	cols[9], cols[14] = cols[14], cols[9]
	fields[9], fields[14] = fields[14], fields[9]
	fs.Put(testFile, strings.Join(cols, ",")+"\n"+strings.Join(fields, ",")+"\n")

	res, err := s.LoadAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, res.HeaderMismatch)
	assert.Equal(t, []record.SurveyRecord{r}, res.Records)
}

func TestLoadAll_ExtraHeaderColumnsAccepted(t *testing.T) {
	s, fs := createTestStore(t)
	r := testutil.Record(0)
	fs.Put(testFile, codec.HeaderLine()+",notes\n"+codec.EncodeRow(r)+",hello\n")

	res, err := s.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Nil(t, res.HeaderMismatch)
	assert.Equal(t, []record.SurveyRecord{r}, res.Records)
}

func TestLoadAll_ReadFailure(t *testing.T) {
	s, fs := createTestStore(t)
	fs.Put(testFile, header)
	fs.FailRead = testutil.ErrInjected

	_, err := s.LoadAll(context.Background())

	require.Error(t, err)
	assert.True(t, IsIO(err))
}

// =============================================================================
// Clear
// =============================================================================

func TestClear_ResetsToHeader(t *testing.T) {
	s, fs := createTestStore(t)
	ctx := context.Background()
	for _, r := range testutil.Records(3) {
		require.NoError(t, s.Append(ctx, r))
	}

	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, header, mustRaw(t, fs))
	res, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Records)

	r := testutil.Record(9)
	require.NoError(t, s.Append(ctx, r))
	res, err = s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []record.SurveyRecord{r}, res.Records)
}

func TestClear_MissingFileIsFine(t *testing.T) {
	s, fs := createTestStore(t)

	require.NoError(t, s.Clear(context.Background()))

	assert.Equal(t, header, mustRaw(t, fs))
}

func TestClear_RepairsCorruptHeader(t *testing.T) {
	s, fs := createTestStore(t)
	fs.Put(testFile, "nonsense\n1,2\n")

	require.NoError(t, s.Clear(context.Background()))

	assert.Equal(t, header, mustRaw(t, fs))
}

func TestClear_DeleteFailure(t *testing.T) {
	s, fs := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, testutil.Record(0)))
	fs.FailDelete = testutil.ErrInjected

	err := s.Clear(ctx)

	require.Error(t, err)
	assert.True(t, IsIO(err))
	res, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
}

// =============================================================================
// ExportText
// =============================================================================

func TestExportText_NoData(t *testing.T) {
	s, fs := createTestStore(t)
	ctx := context.Background()

	_, err := s.ExportText(ctx)

	require.Error(t, err)
	assert.True(t, IsNoData(err))
	assert.Equal(t, header, mustRaw(t, fs), "export ensures the header exists")

	fs.Put(testFile, header+"\n  \n")
	_, err = s.ExportText(ctx)
	assert.True(t, IsNoData(err))
}

func TestExportText_AfterAppend(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()
	r := testutil.Record(0)
	require.NoError(t, s.Append(ctx, r))

	text, err := s.ExportText(ctx)

	require.NoError(t, err)
	assert.Equal(t, header+codec.EncodeRow(r)+"\n", text)
}

func TestExportText_ReturnsContentVerbatim(t *testing.T) {
	s, fs := createTestStore(t)
	raw := "whatever,header\r\nrow\r\n"
	fs.Put(testFile, raw)

	text, err := s.ExportText(context.Background())

	require.NoError(t, err)
	assert.Equal(t, raw, text)
}

// =============================================================================
// Errors
// =============================================================================

func TestError_Message(t *testing.T) {
	err := newIOError("read file", "x.csv", testutil.ErrInjected)
	assert.Equal(t, "IO: read file (file=x.csv): injected failure", err.Error())
	assert.False(t, IsNoData(err))
	assert.False(t, IsNoData(nil))

	nd := newNoDataError("x.csv")
	assert.Equal(t, "NO_DATA: no survey data to export (file=x.csv)", nd.Error())
}

// =============================================================================
// Golden
// =============================================================================

func TestPersistedFileGolden(t *testing.T) {
	s, fs := createTestStore(t)
	ctx := context.Background()
	for _, r := range testutil.Records(4) {
		require.NoError(t, s.Append(ctx, r))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "four_appends", []byte(mustRaw(t, fs)))
}
