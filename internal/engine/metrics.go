package engine

import (
	"math"
	"sort"

	"github.com/caremesh/caremesh-cli/internal/geo"
	"github.com/caremesh/caremesh-cli/internal/model"
)

// calculateMetrics aggregates the response-time distribution, network
// density, and the composite Pareto score in a single pass over the
// built nodes.
func (e *Engine) calculateMetrics(nodes []model.Node, edgeCount, gapCount int) model.OptimizationMetrics {
	m := model.OptimizationMetrics{
		TotalNodes: len(nodes),
		TotalEdges: edgeCount,
		GapCount:   gapCount,
	}
	if len(nodes) == 0 {
		return m
	}

	times := make([]float64, 0, len(nodes))
	covered := 0
	var sumKM, minKM, maxKM float64
	minKM = math.Inf(1)
	usableKM := 0

	for i := range nodes {
		t := nodes[i].ResponseTimeMin
		times = append(times, t)
		if t <= e.cfg.AccessStandardMin {
			covered++
		}

		d := nodes[i].NearestKM
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			continue
		}
		sumKM += d
		usableKM++
		if d < minKM {
			minKM = d
		}
		if d > maxKM {
			maxKM = d
		}
	}

	sort.Float64s(times)
	mean := meanOf(times)
	m.AvgResponseTimeMin = geo.Round1(mean)
	m.MedianResponseTimeMin = geo.Round1(medianOfSorted(times))
	m.P95ResponseTimeMin = geo.Round1(percentileOfSorted(times, 0.95))
	m.CoveragePercent = geo.Round1(float64(covered) / float64(len(nodes)) * 100)

	if len(nodes) > 1 {
		maxEdges := float64(len(nodes)) * float64(len(nodes)-1) / 2
		m.NetworkEfficiency = geo.Round1(float64(edgeCount) / maxEdges * 100)
	}

	if usableKM > 0 {
		m.AvgNearestKM = geo.Round1(sumKM / float64(usableKM))
		m.MinNearestKM = geo.Round1(minKM)
		m.MaxNearestKM = geo.Round1(maxKM)
	}

	// The equity term is intentionally unclamped: a large gap count
	// legitimately drives the composite score negative. Only the
	// response-time term has a floor.
	responseTerm := math.Max(0, 100-mean)
	equityTerm := 100 - e.cfg.ParetoGapPenalty*float64(gapCount)
	m.ParetoScore = int(math.Round(
		e.cfg.ParetoCoverageWeight*m.CoveragePercent +
			e.cfg.ParetoResponseWeight*responseTerm +
			e.cfg.ParetoEquityWeight*equityTerm,
	))

	return m
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func medianOfSorted(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}

// percentileOfSorted uses the nearest-rank method over an ascending
// sample.
func percentileOfSorted(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return xs[idx]
}
