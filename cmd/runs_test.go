//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caremesh/caremesh-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:            "abc12345-6789-0000-0000-000000000000",
			Label:         "kenya-baseline",
			FacilityCount: 120,
			Status:        model.RunStatusComplete,
			Result: &model.OptimizationResult{
				Metrics: model.OptimizationMetrics{GapCount: 3},
			},
			CreatedAt: now,
			UpdatedAt: now.Add(time.Minute),
		},
		{
			ID:            "def12345-6789-0000-0000-000000000000",
			Label:         "coastal",
			FacilityCount: 40,
			Status:        model.RunStatusRunning,
			CreatedAt:     now.Add(-time.Hour),
			UpdatedAt:     now.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "LABEL")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "kenya-baseline")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "coastal")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "abc12345")
}

func TestFormatRunsList_NoResultShowsDash(t *testing.T) {
	runs := []model.Run{
		{ID: "x", Label: "pending", Status: model.RunStatusRunning, CreatedAt: time.Now()},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	assert.Contains(t, buf.String(), "-")
}
