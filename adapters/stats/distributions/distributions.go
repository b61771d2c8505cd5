// Package distributions wraps the reference distributions every comparator
// needs. All p-values and critical values in the engine come through here so
// that test code and report rendering agree on the numerics.
package distributions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestPValue computes the two-sided p-value for a t-statistic using
// Student's t-distribution with the given degrees of freedom.
func TTestPValue(tStatistic, degreesOfFreedom float64) float64 {
	if math.IsNaN(tStatistic) || !(degreesOfFreedom > 0) {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// TQuantile computes the quantile of Student's t-distribution.
func TQuantile(p, degreesOfFreedom float64) float64 {
	if !(degreesOfFreedom > 0) {
		return math.NaN()
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}.Quantile(p)
}

// FTailPValue computes the upper-tail p-value for an F-statistic
// (ANOVA, Levene).
func FTailPValue(fStatistic float64, df1, df2 float64) float64 {
	if math.IsNaN(fStatistic) || !(df1 > 0) || !(df2 > 0) {
		return math.NaN()
	}
	fDist := distuv.F{D1: df1, D2: df2}
	return 1 - fDist.CDF(fStatistic)
}

// ChiSquaredTailPValue computes the upper-tail p-value for a chi-squared
// statistic (Kruskal-Wallis approximation).
func ChiSquaredTailPValue(statistic float64, degreesOfFreedom float64) float64 {
	if math.IsNaN(statistic) || !(degreesOfFreedom > 0) {
		return math.NaN()
	}
	chiDist := distuv.ChiSquared{K: degreesOfFreedom}
	return 1 - chiDist.CDF(statistic)
}

// NormalCDF computes the standard normal CDF.
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the standard normal inverse CDF.
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}
