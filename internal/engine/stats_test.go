package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_Empty(t *testing.T) {
	e := newTestEngine(t)

	a := e.analyze(nil)
	assert.Equal(t, 0, a.SampleSize)
	assert.Equal(t, SignificanceNone, a.Significance)
}

func TestAnalyze_ZeroVariance(t *testing.T) {
	e := newTestEngine(t)

	// 40 identical response times of exactly the access standard:
	// no NaN anywhere, standard error and effect size resolve to 0.
	times := make([]float64, 40)
	for i := range times {
		times[i] = 90
	}
	a := e.analyze(nodesWithTimes(times...))

	assert.Equal(t, 40, a.SampleSize)
	assert.Equal(t, 90.0, a.MeanMin)
	assert.Equal(t, 0.0, a.StdDevMin)
	assert.Equal(t, 0.0, a.StandardError)
	assert.Equal(t, 0.0, a.EffectSize)
	assert.Equal(t, 0.0, a.TStatistic)
	assert.Equal(t, 90.0, a.CI95Low)
	assert.Equal(t, 90.0, a.CI95High)
	assert.Equal(t, SignificanceNone, a.Significance)
}

func TestAnalyze_SmallSamplePlaceholder(t *testing.T) {
	e := newTestEngine(t)

	// n <= 30: the normal approximation is not applied; the placeholder
	// p-value is returned unchanged.
	a := e.analyze(nodesWithTimes(10, 20, 30, 40, 50))
	assert.Equal(t, 0.5, a.PValue)
	assert.Equal(t, SignificanceNone, a.Significance)
}

func TestAnalyze_LargeSampleSignificant(t *testing.T) {
	e := newTestEngine(t)

	// 40 samples far below the 90-minute standard with modest spread:
	// the approximation should report a clearly significant result.
	times := make([]float64, 40)
	for i := range times {
		times[i] = 20 + float64(i%5) // 20..24
	}
	a := e.analyze(nodesWithTimes(times...))

	assert.Less(t, a.PValue, 0.01)
	assert.Equal(t, SignificanceSignificant, a.Significance)
	assert.Negative(t, a.TStatistic)
	assert.Positive(t, a.EffectSize, "standard above mean gives positive effect size")
}

func TestAnalyze_ConfidenceIntervalBracketsMean(t *testing.T) {
	e := newTestEngine(t)

	a := e.analyze(nodesWithTimes(60, 70, 80, 90, 100, 110))
	assert.Less(t, a.CI95Low, a.MeanMin)
	assert.Greater(t, a.CI95High, a.MeanMin)
}

func TestTwoSidedP_Bounds(t *testing.T) {
	assert.InDelta(t, 1.0, twoSidedP(0), 1e-9)
	assert.Less(t, twoSidedP(3), 0.01)
	assert.GreaterOrEqual(t, twoSidedP(100), 0.0)
}

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-9)
	assert.InDelta(t, 0.975, normalCDF(1.96), 0.001)
	assert.InDelta(t, 0.025, normalCDF(-1.96), 0.001)
}
