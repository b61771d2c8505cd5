// Package descriptive computes summary statistics for a single sample.
package descriptive

import (
	"github.com/montanaflynn/stats"

	"goequity/domain/core"
	"goequity/domain/equity"
)

// Summarize computes count, mean, sample standard deviation, min, max, median
// and quartiles for a sample. Missing observations are excluded first.
// Pure; the only error is an empty sample.
func Summarize(sample equity.Sample) (equity.DescriptiveStats, error) {
	data := sample.Usable()
	if len(data) < 1 {
		return equity.DescriptiveStats{}, core.NewInsufficientDataError(string(sample.Label), len(data), 1)
	}

	mean, _ := stats.Mean(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	// Sample (N-1) standard deviation; zero for a single observation.
	stdDev := 0.0
	if len(data) > 1 {
		stdDev, _ = stats.StandardDeviationSample(data)
	}

	return equity.DescriptiveStats{
		Label:  sample.Label,
		Count:  len(data),
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Median: median,
		Q25:    q25,
		Q75:    q75,
	}, nil
}

// Mean returns the mean of the values, 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// SampleVariance returns the N-1 variance, 0 for fewer than 2 values.
func SampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	mean := Mean(data)
	sumSq := 0.0
	for _, v := range data {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(data)-1)
}
