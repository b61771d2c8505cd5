package app

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goequity/adapters/stats/distributions"
	"goequity/domain/core"
	"goequity/domain/equity"
)

// shapedGroup builds n observations on the expected normal order statistics
// around center, so every group shares the same spread exactly.
func shapedGroup(center float64, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = center + distributions.NormalQuantile((float64(i+1)-0.375)/(float64(n)+0.25))
	}
	return values
}

func buildDataset(t *testing.T, groups map[core.GroupLabel][]float64) *equity.GroupedDataset {
	t.Helper()
	var overall []float64
	for _, values := range groups {
		overall = append(overall, values...)
	}
	dataset, err := equity.NewGroupedDataset(equity.MeasureAttendance, equity.CategorySex, overall, groups)
	require.NoError(t, err)
	return dataset
}

func TestCompare_TwoGroups(t *testing.T) {
	svc := NewComparisonService(nil)
	dataset := buildDataset(t, map[core.GroupLabel][]float64{
		"Female": shapedGroup(0.95, 20),
		"Male":   shapedGroup(0.90, 20),
	})

	report, err := svc.Compare(dataset)
	require.NoError(t, err)

	assert.True(t, report.Comparable)
	require.NotNil(t, report.Omnibus)
	assert.Equal(t, equity.TestWelchT, report.Omnibus.Test)
	assert.Empty(t, report.Pairwise, "two groups need no post-hoc pass")
	assert.Len(t, report.Groups, 2)
	assert.Equal(t, 40, report.Overall.Count)
	assert.Equal(t, equity.MeasureAttendance, report.Measure)
	assert.NotEmpty(t, report.ID)
}

func TestCompare_ExcludesTinyGroups(t *testing.T) {
	svc := NewComparisonService(nil)
	dataset := buildDataset(t, map[core.GroupLabel][]float64{
		"A": shapedGroup(10, 15),
		"B": shapedGroup(12, 15),
		"C": {7.5},
		"D": {math.NaN(), math.NaN(), 3.0},
	})

	report, err := svc.Compare(dataset)
	require.NoError(t, err)

	// C and D fall below the minimum usable size; A and B proceed as a
	// two-group comparison.
	require.Len(t, report.Exclusions, 2)
	labels := []core.GroupLabel{report.Exclusions[0].Label, report.Exclusions[1].Label}
	assert.ElementsMatch(t, []core.GroupLabel{"C", "D"}, labels)
	for _, ex := range report.Exclusions {
		assert.Equal(t, 1, ex.Count)
		assert.Contains(t, ex.Reason, "fewer than 2")
	}

	assert.True(t, report.Comparable)
	require.NotNil(t, report.Omnibus)
	assert.Equal(t, equity.TestWelchT, report.Omnibus.Test)
	assert.Len(t, report.Groups, 2)
}

func TestCompare_NotComparable(t *testing.T) {
	svc := NewComparisonService(nil)
	dataset := buildDataset(t, map[core.GroupLabel][]float64{
		"Only":  shapedGroup(10, 10),
		"Empty": {math.NaN()},
	})

	report, err := svc.Compare(dataset)
	require.NoError(t, err)

	assert.False(t, report.Comparable)
	assert.Nil(t, report.Omnibus)
	assert.Empty(t, report.Pairwise)
	assert.Len(t, report.Exclusions, 1)
	// Descriptives still come out for the surviving group.
	assert.Len(t, report.Groups, 1)
}

func TestCompare_MultiGroupPairwise(t *testing.T) {
	svc := NewComparisonService(nil)
	dataset := buildDataset(t, map[core.GroupLabel][]float64{
		"W": shapedGroup(0, 12),
		"X": shapedGroup(5, 12),
		"Y": shapedGroup(10, 12),
		"Z": shapedGroup(15, 12),
	})

	report, err := svc.Compare(dataset)
	require.NoError(t, err)

	assert.True(t, report.Comparable)
	require.NotNil(t, report.Omnibus)
	require.True(t, report.Omnibus.Significant)
	// One pairwise result per unordered pair of the four groups.
	assert.Len(t, report.Pairwise, 6)
	for _, pair := range report.Pairwise {
		assert.NotEmpty(t, pair.GroupA)
		assert.NotEmpty(t, pair.GroupB)
	}
}

func TestCompare_Deterministic(t *testing.T) {
	svc := NewComparisonService(nil)
	dataset := buildDataset(t, map[core.GroupLabel][]float64{
		"A": shapedGroup(1, 12),
		"B": shapedGroup(2, 12),
		"C": shapedGroup(3, 12),
	})

	first, err := svc.Compare(dataset)
	require.NoError(t, err)
	second, err := svc.Compare(dataset)
	require.NoError(t, err)

	// Identical input yields an identical report body; only the identifier
	// and timestamp are fresh per invocation.
	first.ID, second.ID = "", ""
	first.CreatedAt, second.CreatedAt = core.Timestamp{}, core.Timestamp{}
	assert.Equal(t, first, second)
}

func TestCompare_UnknownMeasure(t *testing.T) {
	svc := NewComparisonService(nil)
	dataset, err := equity.NewGroupedDataset("ShoeSize", equity.CategorySex,
		[]float64{1, 2}, map[core.GroupLabel][]float64{"A": {1}, "B": {2}})
	require.NoError(t, err)

	_, err = svc.Compare(dataset)
	assert.ErrorIs(t, err, core.ErrUnknownMeasure)
}

func TestCompare_EmptyDataset(t *testing.T) {
	svc := NewComparisonService(nil)

	_, err := svc.Compare(nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestCompare_NoUsableObservations(t *testing.T) {
	svc := NewComparisonService(nil)
	dataset, err := equity.NewGroupedDataset(equity.MeasureAttendance, equity.CategorySex,
		[]float64{math.NaN(), math.NaN()},
		map[core.GroupLabel][]float64{"A": {math.NaN()}, "B": {math.NaN()}})
	require.NoError(t, err)

	_, err = svc.Compare(dataset)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}
