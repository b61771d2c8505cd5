package comparator

import (
	"math"

	"goequity/adapters/stats/descriptive"
	"goequity/adapters/stats/distributions"
	"goequity/domain/equity"
)

// TukeyHSD runs Tukey's honestly-significant-difference test over every
// unordered pair of groups, following a significant ANOVA. Each result
// carries the raw mean difference as its statistic, a studentized-range
// p-value, the Tukey-Kramer simultaneous confidence interval, and (when the
// pair is significant) a Cohen's d classification.
func TukeyHSD(samples []equity.Sample) ([]equity.TestResult, error) {
	groups, err := usableGroups(samples)
	if err != nil {
		return nil, err
	}

	k := len(groups)
	_, totalN := grandMean(groups)
	dfWithin := float64(totalN - k)

	// Mean square error from the within-group scatter.
	within := 0.0
	means := make([]float64, k)
	for i, g := range groups {
		means[i] = descriptive.Mean(g)
		for _, v := range g {
			within += (v - means[i]) * (v - means[i])
		}
	}
	mse := within / dfWithin

	// Critical studentized range for the simultaneous 95% intervals.
	qCrit := distributions.StudentizedRangeQuantile(1-equity.SignificanceLevel, k, dfWithin)

	results := make([]equity.TestResult, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			diff := means[i] - means[j]
			se := math.Sqrt(mse / 2 * (1/float64(len(groups[i])) + 1/float64(len(groups[j]))))

			var q float64
			if se == 0 {
				q = math.NaN()
				if diff != 0 {
					q = math.Inf(1)
				}
			} else {
				q = math.Abs(diff) / se
			}

			result := equity.NewTestResult(equity.TestTukeyHSD, diff,
				distributions.StudentizedRangeTail(q, k, dfWithin))
			result.GroupA = samples[i].Label
			result.GroupB = samples[j].Label

			if se > 0 && !math.IsNaN(qCrit) {
				result.CI = &equity.ConfidenceInterval{
					Low:  diff - qCrit*se,
					High: diff + qCrit*se,
				}
			}
			if result.Significant {
				result.Effect = equity.ClassifyEffectSize(CohenD(groups[i], groups[j]))
			}
			results = append(results, result)
		}
	}
	return results, nil
}
