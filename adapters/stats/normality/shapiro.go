package normality

import (
	"math"
	"sort"

	"goequity/adapters/stats/distributions"
)

// ShapiroWilk computes the Shapiro-Wilk W statistic and its p-value for
// 3 <= n <= 5000 observations, following Royston's AS R94 algorithm.
// Degenerate input (fewer than 3 values, or zero spread) yields NaN, which
// callers must treat as "not normal" rather than an error.
func ShapiroWilk(data []float64) (w, pValue float64) {
	n := len(data)
	if n < MinSampleSize || n > 5000 {
		return math.NaN(), math.NaN()
	}

	x := make([]float64, n)
	copy(x, data)
	sort.Float64s(x)

	if x[n-1]-x[0] == 0 {
		// All observations identical; W is undefined.
		return math.NaN(), math.NaN()
	}

	weights := swWeights(n)

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var num, ssq float64
	for i, v := range x {
		num += weights[i] * v
		d := v - mean
		ssq += d * d
	}
	w = num * num / ssq
	if w > 1 {
		w = 1
	}

	return w, swPValue(w, n)
}

// swWeights computes the expected-order-statistic weights a_1..a_n
// (antisymmetric, so a_i = -a_{n+1-i}).
func swWeights(n int) []float64 {
	m := make([]float64, n)
	ssqM := 0.0
	for i := 0; i < n; i++ {
		// Blom plotting positions
		m[i] = distributions.NormalQuantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		ssqM += m[i] * m[i]
	}

	a := make([]float64, n)
	if n == 3 {
		a[0] = -math.Sqrt(0.5)
		a[1] = 0
		a[2] = math.Sqrt(0.5)
		return a
	}

	rsn := 1 / math.Sqrt(float64(n))
	rootSsqM := math.Sqrt(ssqM)

	// Royston's polynomial corrections for the two largest weights.
	an := poly([]float64{-2.706056, 4.434685, -2.071190, -0.147981, 0.221157, 0}, rsn) + m[n-1]/rootSsqM
	a[n-1] = an
	a[0] = -an

	i1 := 1
	var phi float64
	if n > 5 {
		an1 := poly([]float64{-3.582633, 5.682633, -1.752461, -0.293762, 0.042981, 0}, rsn) + m[n-2]/rootSsqM
		a[n-2] = an1
		a[1] = -an1
		i1 = 2
		phi = (ssqM - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
	} else {
		phi = (ssqM - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
	}

	rootPhi := math.Sqrt(phi)
	for i := i1; i < n-i1; i++ {
		a[i] = m[i] / rootPhi
	}
	return a
}

// poly evaluates c[0]*x^5 + c[1]*x^4 + ... + c[5] (Horner form).
func poly(c []float64, x float64) float64 {
	v := 0.0
	for _, coeff := range c {
		v = v*x + coeff
	}
	return v
}

// swPValue converts W to a p-value using Royston's normalizing transforms.
func swPValue(w float64, n int) float64 {
	if math.IsNaN(w) {
		return math.NaN()
	}

	if n == 3 {
		// Exact for n = 3.
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		if p < 0 {
			return 0
		}
		if p > 1 {
			return 1
		}
		return p
	}

	nf := float64(n)
	var z float64
	if n <= 11 {
		gamma := -2.273 + 0.459*nf
		mu := 0.5440 - 0.39978*nf + 0.025054*nf*nf - 0.0006714*nf*nf*nf
		sigma := math.Exp(1.3822 - 0.77857*nf + 0.062767*nf*nf - 0.0020322*nf*nf*nf)
		arg := gamma - math.Log(1-w)
		if arg <= 0 {
			return 0
		}
		z = (-math.Log(arg) - mu) / sigma
	} else {
		logN := math.Log(nf)
		mu := -1.5861 - 0.31082*logN - 0.083751*logN*logN + 0.0038915*logN*logN*logN
		sigma := math.Exp(-0.4803 - 0.082676*logN + 0.0030302*logN*logN)
		z = (math.Log(1-w) - mu) / sigma
	}

	return 1 - distributions.NormalCDF(z)
}
