// Package variance decides whether groups have comparable variances, the
// gate between one-way ANOVA and Kruskal-Wallis.
package variance

import (
	"math"

	"goequity/adapters/stats/descriptive"
	"goequity/adapters/stats/distributions"
	"goequity/domain/core"
	"goequity/domain/equity"
)

// Homogeneous runs Levene's test (mean-centered) across the groups and
// reports whether the variances are equal enough: true iff p > 0.05.
// Every group must already hold at least equity.MinGroupSize usable values;
// the orchestrator excludes smaller groups before this check runs.
func Homogeneous(samples []equity.Sample) (bool, error) {
	_, p, err := Levene(samples)
	if err != nil {
		return false, err
	}
	// A NaN p-value (all spreads zero) fails the parametric gate.
	return p > equity.SignificanceLevel, nil
}

// Levene computes the Levene W statistic and p-value for k >= 2 groups.
// The statistic is an F-test on the absolute deviations from each group mean.
func Levene(samples []equity.Sample) (statistic, pValue float64, err error) {
	if len(samples) < 2 {
		return 0, 0, core.NewInsufficientDataError("levene", len(samples), 2)
	}

	groups := make([][]float64, 0, len(samples))
	for _, s := range samples {
		data := s.Usable()
		if len(data) < equity.MinGroupSize {
			return 0, 0, core.NewInsufficientDataError(string(s.Label), len(data), equity.MinGroupSize)
		}
		groups = append(groups, data)
	}

	// Absolute deviations from group means.
	deviations := make([][]float64, len(groups))
	totalN := 0
	for i, g := range groups {
		mean := descriptive.Mean(g)
		z := make([]float64, len(g))
		for j, v := range g {
			z[j] = math.Abs(v - mean)
		}
		deviations[i] = z
		totalN += len(g)
	}

	grand := 0.0
	for _, z := range deviations {
		for _, v := range z {
			grand += v
		}
	}
	grand /= float64(totalN)

	k := float64(len(groups))
	var between, within float64
	for _, z := range deviations {
		zMean := descriptive.Mean(z)
		between += float64(len(z)) * (zMean - grand) * (zMean - grand)
		for _, v := range z {
			within += (v - zMean) * (v - zMean)
		}
	}

	dfBetween := k - 1
	dfWithin := float64(totalN) - k
	if within == 0 {
		// Identical spreads in every group; the statistic is undefined.
		return math.NaN(), math.NaN(), nil
	}

	statistic = (between / dfBetween) / (within / dfWithin)
	pValue = distributions.FTailPValue(statistic, dfBetween, dfWithin)
	return statistic, pValue, nil
}
