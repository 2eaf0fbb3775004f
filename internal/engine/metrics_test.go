package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caremesh/caremesh-cli/internal/model"
)

func nodesWithTimes(times ...float64) []model.Node {
	nodes := make([]model.Node, len(times))
	for i, t := range times {
		nodes[i] = model.Node{ResponseTimeMin: t, NearestKM: 10}
	}
	return nodes
}

func TestCalculateMetrics_Empty(t *testing.T) {
	e := newTestEngine(t)

	m := e.calculateMetrics(nil, 0, 0)
	assert.Equal(t, 0, m.TotalNodes)
	assert.Equal(t, 0.0, m.AvgResponseTimeMin)
	assert.Equal(t, 0.0, m.NetworkEfficiency)
	assert.Equal(t, 0, m.ParetoScore)
}

func TestCalculateMetrics_ResponseDistribution(t *testing.T) {
	e := newTestEngine(t)

	m := e.calculateMetrics(nodesWithTimes(10, 20, 30, 40, 200), 0, 0)

	assert.Equal(t, 60.0, m.AvgResponseTimeMin)
	assert.Equal(t, 30.0, m.MedianResponseTimeMin)
	assert.Equal(t, 200.0, m.P95ResponseTimeMin)
	assert.Equal(t, 80.0, m.CoveragePercent, "4 of 5 within the 90-minute standard")
}

func TestCalculateMetrics_NetworkEfficiency(t *testing.T) {
	e := newTestEngine(t)

	// 4 nodes, 3 edges out of a possible 6.
	m := e.calculateMetrics(nodesWithTimes(10, 10, 10, 10), 3, 0)
	assert.Equal(t, 50.0, m.NetworkEfficiency)

	// Single node: no division by zero.
	m = e.calculateMetrics(nodesWithTimes(10), 0, 0)
	assert.Equal(t, 0.0, m.NetworkEfficiency)
}

func TestCalculateMetrics_ParetoScore(t *testing.T) {
	e := newTestEngine(t)

	// All covered, mean 10, no gaps:
	// 0.4*100 + 0.4*90 + 0.2*100 = 96.
	m := e.calculateMetrics(nodesWithTimes(10, 10, 10, 10), 6, 0)
	assert.Equal(t, 96, m.ParetoScore)
}

func TestCalculateMetrics_ParetoScoreGoesNegative(t *testing.T) {
	e := newTestEngine(t)

	// The equity term has no floor: 30 gaps drive the composite score
	// below zero. 0.4*0 + 0.4*0 + 0.2*(100 - 300) = -40.
	m := e.calculateMetrics(nodesWithTimes(300, 300), 0, 30)
	assert.Equal(t, -40, m.ParetoScore)
}

func TestCalculateMetrics_NearestDistanceStats(t *testing.T) {
	e := newTestEngine(t)

	nodes := []model.Node{
		{ResponseTimeMin: 10, NearestKM: 5},
		{ResponseTimeMin: 10, NearestKM: 15},
		{ResponseTimeMin: 10, NearestKM: 0}, // zero is excluded
	}
	m := e.calculateMetrics(nodes, 0, 0)

	assert.Equal(t, 10.0, m.AvgNearestKM)
	assert.Equal(t, 5.0, m.MinNearestKM)
	assert.Equal(t, 15.0, m.MaxNearestKM)
}

func TestPercentileOfSorted(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 10.0, percentileOfSorted(xs, 0.95))
	assert.Equal(t, 5.0, percentileOfSorted(xs, 0.5))
	assert.Equal(t, 0.0, percentileOfSorted(nil, 0.95))
}

func TestMedianOfSorted(t *testing.T) {
	assert.Equal(t, 2.0, medianOfSorted([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, medianOfSorted([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, medianOfSorted(nil))
}
