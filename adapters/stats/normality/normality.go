// Package normality decides whether a sample may be treated as normally
// distributed for the purpose of choosing a parametric test.
package normality

import (
	"goequity/domain/core"
	"goequity/domain/equity"
)

// MinSampleSize is the smallest sample the formal test accepts.
const MinSampleSize = 3

// TreatAsNormal reports whether the sample is normal enough for parametric
// testing. Samples of at least equity.NormalSampleSize observations are
// accepted on the central limit theorem alone and no formal test runs.
// Smaller samples take a Shapiro-Wilk test: normal iff p > 0.05.
func TreatAsNormal(sample equity.Sample) (bool, error) {
	data := sample.Usable()
	if len(data) < MinSampleSize {
		return false, core.NewInsufficientDataError(string(sample.Label), len(data), MinSampleSize)
	}
	if len(data) >= equity.NormalSampleSize {
		return true, nil
	}
	_, p := ShapiroWilk(data)
	return p > equity.SignificanceLevel, nil
}
