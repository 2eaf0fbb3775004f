package engine

import (
	"math"

	"github.com/caremesh/caremesh-cli/internal/model"
)

const (
	// zCritical95 is the two-sided 95% critical value of the standard
	// normal distribution, used for the confidence interval regardless
	// of sample size.
	zCritical95 = 1.96
	// smallSampleCutoff is the sample size below which no p-value is
	// approximated. The normal-CDF closed form is a poor stand-in for
	// the t distribution at small n, so a fixed placeholder is returned
	// instead. This is a known simplification, kept on purpose.
	smallSampleCutoff = 30
	smallSamplePValue = 0.5
)

// Significance buckets.
const (
	SignificanceSignificant = "significant"
	SignificanceMarginal    = "marginal"
	SignificanceNone        = "not significant"
)

// analyze runs the one-sample test of the response-time sample mean
// against the access standard. All divisions are guarded: zero variance
// resolves standard error and effect size to 0, never NaN.
func (e *Engine) analyze(nodes []model.Node) model.StatisticalAnalysis {
	n := len(nodes)
	a := model.StatisticalAnalysis{
		SampleSize:   n,
		Significance: SignificanceNone,
	}
	if n == 0 {
		return a
	}

	var sum float64
	for i := range nodes {
		sum += nodes[i].ResponseTimeMin
	}
	mean := sum / float64(n)

	var sqSum float64
	for i := range nodes {
		d := nodes[i].ResponseTimeMin - mean
		sqSum += d * d
	}
	stdDev := 0.0
	if n > 1 {
		stdDev = math.Sqrt(sqSum / float64(n-1))
	}

	stdErr := 0.0
	effectSize := 0.0
	tStat := 0.0
	if stdDev > 0 {
		stdErr = stdDev / math.Sqrt(float64(n))
		effectSize = (e.cfg.AccessStandardMin - mean) / stdDev
		tStat = (mean - e.cfg.AccessStandardMin) / stdErr
	}

	pValue := smallSamplePValue
	if n > smallSampleCutoff {
		pValue = twoSidedP(tStat)
	}

	a.MeanMin = round2(mean)
	a.StdDevMin = round2(stdDev)
	a.StandardError = round2(stdErr)
	a.CI95Low = round2(mean - zCritical95*stdErr)
	a.CI95High = round2(mean + zCritical95*stdErr)
	a.EffectSize = round2(effectSize)
	a.TStatistic = round2(tStat)
	a.PValue = round4(pValue)

	switch {
	case pValue < 0.01:
		a.Significance = SignificanceSignificant
	case pValue < 0.05:
		a.Significance = SignificanceMarginal
	}

	return a
}

// twoSidedP approximates the two-sided p-value of a test statistic using
// the standard normal CDF.
func twoSidedP(t float64) float64 {
	p := 2 * (1 - normalCDF(math.Abs(t)))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
