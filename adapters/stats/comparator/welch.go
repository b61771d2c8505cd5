// Package comparator runs the mean-difference tests between demographic
// groups and attaches standardized effect sizes to significant results.
package comparator

import (
	"math"

	"goequity/adapters/stats/descriptive"
	"goequity/adapters/stats/distributions"
	"goequity/domain/core"
	"goequity/domain/equity"
)

// Welch runs Welch's t-test between exactly two samples. The correction for
// unequal variances is always applied, so no variance-homogeneity check is
// needed on this path. Reports the statistic, the two-sided p-value and the
// 95% confidence interval of the mean difference; when significant, Cohen's d
// from the pooled standard deviation is classified onto the magnitude ladder.
func Welch(a, b equity.Sample) (equity.TestResult, error) {
	dataA, dataB := a.Usable(), b.Usable()
	if len(dataA) < equity.MinGroupSize {
		return equity.TestResult{}, core.NewInsufficientDataError(string(a.Label), len(dataA), equity.MinGroupSize)
	}
	if len(dataB) < equity.MinGroupSize {
		return equity.TestResult{}, core.NewInsufficientDataError(string(b.Label), len(dataB), equity.MinGroupSize)
	}

	n1, n2 := float64(len(dataA)), float64(len(dataB))
	mean1, mean2 := descriptive.Mean(dataA), descriptive.Mean(dataB)
	var1, var2 := descriptive.SampleVariance(dataA), descriptive.SampleVariance(dataB)

	diff := mean1 - mean2
	se := math.Sqrt(var1/n1 + var2/n2)

	var tStat, df float64
	if se == 0 {
		// Zero variance in both groups; the statistic is undefined and the
		// report surfaces it as such, never as a significant finding.
		tStat = math.NaN()
		df = math.NaN()
	} else {
		tStat = diff / se
		// Welch-Satterthwaite degrees of freedom
		df = math.Pow(var1/n1+var2/n2, 2) /
			(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))
	}

	result := equity.NewTestResult(equity.TestWelchT, tStat, distributions.TTestPValue(tStat, df))
	result.GroupA = a.Label
	result.GroupB = b.Label

	if !math.IsNaN(df) {
		tCrit := distributions.TQuantile(1-equity.SignificanceLevel/2, df)
		result.CI = &equity.ConfidenceInterval{
			Low:  diff - tCrit*se,
			High: diff + tCrit*se,
		}
	}

	if result.Significant {
		result.Effect = equity.ClassifyEffectSize(CohenD(dataA, dataB))
	}

	return result, nil
}

// CohenD computes Cohen's d from the pooled sample standard deviation.
// Returns NaN when the pooled deviation is zero.
func CohenD(a, b []float64) float64 {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return math.NaN()
	}

	var1, var2 := descriptive.SampleVariance(a), descriptive.SampleVariance(b)
	pooled := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooled == 0 {
		return math.NaN()
	}
	return math.Abs(descriptive.Mean(a)-descriptive.Mean(b)) / pooled
}
