package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caremesh/caremesh-cli/internal/config"
	"github.com/caremesh/caremesh-cli/internal/model"
)

func init() {
	// Replace global logger with a no-op to avoid nil pointer panics in tests.
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteCreateAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "kenya-baseline", 120, 8)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "kenya-baseline", got.Label)
	assert.Equal(t, 120, got.FacilityCount)
	assert.Equal(t, 8, got.RegionCount)
	assert.Nil(t, got.Result)
}

func TestSQLiteGetRun_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteCompleteRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "", 3, 1)
	require.NoError(t, err)

	result := &model.OptimizationResult{
		Metrics: model.OptimizationMetrics{AvgResponseTimeMin: 42.5, CoveragePercent: 100},
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 42.5, got.Result.Metrics.AvgResponseTimeMin)
}

func TestSQLiteCompleteRun_UnknownID(t *testing.T) {
	s := newTestSQLite(t)

	err := s.CompleteRun(context.Background(), "missing", &model.OptimizationResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteFailRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "bad-input", 0, 0)
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, "no geocoded facilities"))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "no geocoded facilities", got.Error)
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	a, err := s.CreateRun(ctx, "alpha", 10, 2)
	require.NoError(t, err)
	b, err := s.CreateRun(ctx, "beta", 20, 3)
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, b.ID, &model.OptimizationResult{}))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, b.ID, complete[0].ID)

	byLabel, err := s.ListRuns(ctx, RunFilter{Label: "alpha"})
	require.NoError(t, err)
	require.Len(t, byLabel, 1)
	assert.Equal(t, a.ID, byLabel[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "cockroach"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
