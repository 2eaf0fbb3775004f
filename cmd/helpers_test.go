//go:build !integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh/caremesh-cli/internal/config"
	"github.com/caremesh/caremesh-cli/internal/model"
)

func TestWriteAndLoadResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	result := &model.OptimizationResult{
		Nodes: []model.Node{
			{ID: "F1", Name: "Kenyatta National", Region: "Nairobi"},
		},
		Metrics: model.OptimizationMetrics{TotalNodes: 1, CoveragePercent: 100, ParetoScore: 68},
	}

	require.NoError(t, writeResult(result, path))

	got, err := loadResult(path)
	require.NoError(t, err)
	assert.Equal(t, result, got)
}

func TestLoadResult_MissingFile(t *testing.T) {
	_, err := loadResult(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadResult_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := loadResult(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse result file")
}

func TestLoadGazetteer_Default(t *testing.T) {
	cfg = &config.Config{}

	gaz, err := loadGazetteer()
	require.NoError(t, err)
	assert.Greater(t, gaz.Len(), 0)
}
