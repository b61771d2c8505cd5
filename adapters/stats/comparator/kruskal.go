package comparator

import (
	"math"
	"sort"

	"goequity/adapters/stats/distributions"
	"goequity/domain/equity"
)

// KruskalWallis runs the rank-based omnibus test across k >= 2 groups. It is
// the fallback when normality or variance homogeneity fails, since it assumes
// neither. Average ranks are assigned to ties and the standard tie correction
// is applied; if every observation is identical the statistic is undefined.
func KruskalWallis(samples []equity.Sample) (equity.TestResult, error) {
	groups, err := usableGroups(samples)
	if err != nil {
		return equity.TestResult{}, err
	}

	type obs struct {
		value float64
		group int
	}
	all := make([]obs, 0)
	for gi, g := range groups {
		for _, v := range g {
			all = append(all, obs{value: v, group: gi})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	n := len(all)
	ranks := make([]float64, n)
	tieCorrection := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && all[j].value == all[i].value {
			j++
		}
		// Average rank for the tie run [i, j)
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[k] = avg
		}
		t := float64(j - i)
		tieCorrection += t*t*t - t
		i = j
	}

	rankSums := make([]float64, len(groups))
	for i, o := range all {
		rankSums[o.group] += ranks[i]
	}

	nf := float64(n)
	h := 0.0
	for gi, g := range groups {
		h += rankSums[gi] * rankSums[gi] / float64(len(g))
	}
	h = 12/(nf*(nf+1))*h - 3*(nf+1)

	correction := 1 - tieCorrection/(nf*nf*nf-nf)
	if correction <= 0 {
		// Every observation tied; no ordering information at all.
		h = math.NaN()
	} else {
		h /= correction
	}

	dfK := float64(len(groups) - 1)
	return equity.NewTestResult(equity.TestKruskalWallis, h,
		distributions.ChiSquaredTailPValue(h, dfK)), nil
}
