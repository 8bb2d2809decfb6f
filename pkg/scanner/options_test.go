package scanner

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() slog.Handler { return slog.NewTextHandler(io.Discard, nil) }

func TestWithDefaults(t *testing.T) {
	opts, err := Options{Logger: discard()}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, DefaultChunkSize, opts.ChunkSize)
	assert.Equal(t, defaultWorkerCount(), opts.MaxWorkers)
	assert.Equal(t, DefaultReaderType, opts.ReaderType)
	assert.Equal(t, DefaultAssetClassField, opts.AssetClassField)
	assert.IsType(t, &NoOpHooks{}, opts.EventHooks)
	assert.NotNil(t, opts.EncodingHandler)
	assert.NotNil(t, opts.ProcessorFactory)

	again, err := opts.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, opts.ChunkSize, again.ChunkSize)
	assert.Equal(t, opts.MaxWorkers, again.MaxWorkers)
	assert.Equal(t, opts.ChunkRetries, again.ChunkRetries)
}

func TestWithDefaults_KeepsExplicitValues(t *testing.T) {
	opts, err := Options{
		ScanRequest:     ScanRequest{MaxWorkers: 64, ChunkSize: 7},
		ReaderType:      ReaderBasic,
		AssetClassField: "kind",
		Logger:          discard(),
	}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, 64, opts.MaxWorkers, "an explicit worker count is not capped")
	assert.Equal(t, 7, opts.ChunkSize)
	assert.Equal(t, ReaderBasic, opts.ReaderType)
	assert.Equal(t, "kind", opts.AssetClassField)
}

func TestWithDefaults_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		opts Options
	}{
		{name: "nil logger", opts: Options{}},
		{name: "negative workers", opts: Options{ScanRequest: ScanRequest{MaxWorkers: -1}, Logger: discard()}},
		{name: "negative chunk size", opts: Options{ScanRequest: ScanRequest{ChunkSize: -5}, Logger: discard()}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.opts.withDefaults()
			assert.ErrorIs(t, err, ErrConfigValidation)
		})
	}
}

func TestRetryBudget(t *testing.T) {
	testCases := []struct {
		configured int
		want       int
	}{
		{configured: 0, want: DefaultChunkRetries},
		{configured: -1, want: 0},
		{configured: -10, want: 0},
		{configured: 3, want: 3},
	}
	for _, tc := range testCases {
		opts := Options{ChunkRetries: tc.configured}
		assert.Equal(t, tc.want, opts.retryBudget(), "ChunkRetries=%d", tc.configured)
	}
}

func TestDefaultWorkerCount(t *testing.T) {
	n := defaultWorkerCount()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, MaxWorkersCeiling)
}

func TestClassSet(t *testing.T) {
	s := classSet{}
	assert.Equal(t, []string{}, s.sorted())

	s.add("rds")
	s.addAll([]string{"ec2", "rds", "s3"})
	s.addAll(nil)
	assert.Equal(t, []string{"ec2", "rds", "s3"}, s.sorted())
}
