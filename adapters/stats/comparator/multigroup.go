package comparator

import (
	"goequity/adapters/stats/normality"
	"goequity/adapters/stats/variance"
	"goequity/domain/core"
	"goequity/domain/equity"
)

// OmnibusFamily names the omnibus test family chosen for 3+ groups.
type OmnibusFamily string

const (
	FamilyANOVA         OmnibusFamily = "anova"
	FamilyKruskalWallis OmnibusFamily = "kruskal_wallis"
)

// selection is the decision table for the omnibus family. Kruskal-Wallis is
// the fallback whenever either parametric assumption fails, regardless of the
// other, because it requires neither.
var selection = map[[2]bool]OmnibusFamily{
	{true, true}:   FamilyANOVA,
	{true, false}:  FamilyKruskalWallis,
	{false, true}:  FamilyKruskalWallis,
	{false, false}: FamilyKruskalWallis,
}

// SelectOmnibus resolves the omnibus family from the two assumption checks.
func SelectOmnibus(allNormal, equalVariance bool) OmnibusFamily {
	return selection[[2]bool{allNormal, equalVariance}]
}

// MultiGroupOutcome bundles the omnibus result with its post-hoc follow-up.
type MultiGroupOutcome struct {
	Family   OmnibusFamily
	Omnibus  equity.TestResult
	Pairwise []equity.TestResult
}

// MultiGroup compares three or more samples: it checks every group for
// normality, checks variance homogeneity, selects the omnibus test from the
// decision table, and on a significant omnibus result produces one pairwise
// result per unordered pair of groups. ANOVA follow-up uses Tukey HSD;
// Kruskal-Wallis follow-up reuses the Welch/Cohen machinery per pair so that
// pairwise reporting stays uniform across families.
//
// Callers must pass only samples with at least equity.MinGroupSize usable
// observations; smaller groups are excluded (and reported) upstream.
func MultiGroup(samples []equity.Sample) (*MultiGroupOutcome, error) {
	if len(samples) < 3 {
		return nil, core.NewInsufficientDataError("multi-group comparison", len(samples), 3)
	}

	allNormal := true
	for _, s := range samples {
		normal, err := normality.TreatAsNormal(s)
		if err != nil {
			// Too small for the formal test (2 usable values): the group
			// stays in the comparison but blocks the parametric path.
			if core.IsInsufficientData(err) {
				allNormal = false
				continue
			}
			return nil, err
		}
		if !normal {
			allNormal = false
		}
	}

	equalVariance, err := variance.Homogeneous(samples)
	if err != nil {
		return nil, err
	}

	outcome := &MultiGroupOutcome{Family: SelectOmnibus(allNormal, equalVariance)}

	switch outcome.Family {
	case FamilyANOVA:
		outcome.Omnibus, err = OneWayANOVA(samples)
	default:
		outcome.Omnibus, err = KruskalWallis(samples)
	}
	if err != nil {
		return nil, err
	}

	if !outcome.Omnibus.Significant {
		return outcome, nil
	}

	if outcome.Family == FamilyANOVA {
		outcome.Pairwise, err = TukeyHSD(samples)
		if err != nil {
			return nil, err
		}
		return outcome, nil
	}

	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			pair, err := Welch(samples[i], samples[j])
			if err != nil {
				return nil, err
			}
			outcome.Pairwise = append(outcome.Pairwise, pair)
		}
	}
	return outcome, nil
}
