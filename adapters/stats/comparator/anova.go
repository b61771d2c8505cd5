package comparator

import (
	"math"

	"goequity/adapters/stats/descriptive"
	"goequity/adapters/stats/distributions"
	"goequity/domain/core"
	"goequity/domain/equity"
)

// OneWayANOVA runs the parametric omnibus test across k >= 2 groups.
// Identical values across all groups leave the statistic undefined (NaN),
// which is surfaced as-is.
func OneWayANOVA(samples []equity.Sample) (equity.TestResult, error) {
	groups, err := usableGroups(samples)
	if err != nil {
		return equity.TestResult{}, err
	}

	grand, totalN := grandMean(groups)
	k := float64(len(groups))

	var between, within float64
	for _, g := range groups {
		mean := descriptive.Mean(g)
		between += float64(len(g)) * (mean - grand) * (mean - grand)
		for _, v := range g {
			within += (v - mean) * (v - mean)
		}
	}

	dfBetween := k - 1
	dfWithin := float64(totalN) - k

	var fStat float64
	if within == 0 || dfWithin <= 0 {
		fStat = math.NaN()
	} else {
		fStat = (between / dfBetween) / (within / dfWithin)
	}

	return equity.NewTestResult(equity.TestANOVA, fStat,
		distributions.FTailPValue(fStat, dfBetween, dfWithin)), nil
}

// usableGroups strips missing values and enforces the minimum group size.
func usableGroups(samples []equity.Sample) ([][]float64, error) {
	if len(samples) < 2 {
		return nil, core.NewInsufficientDataError("omnibus", len(samples), 2)
	}
	groups := make([][]float64, 0, len(samples))
	for _, s := range samples {
		data := s.Usable()
		if len(data) < equity.MinGroupSize {
			return nil, core.NewInsufficientDataError(string(s.Label), len(data), equity.MinGroupSize)
		}
		groups = append(groups, data)
	}
	return groups, nil
}

func grandMean(groups [][]float64) (mean float64, totalN int) {
	sum := 0.0
	for _, g := range groups {
		for _, v := range g {
			sum += v
		}
		totalN += len(g)
	}
	return sum / float64(totalN), totalN
}
