package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goequity/domain/core"
	"goequity/domain/equity"
)

// fakeReader serves the same two-group dataset for every pair and records
// which pairs were requested.
type fakeReader struct {
	mu       sync.Mutex
	requests []string
	err      error
}

func (f *fakeReader) FetchGrouped(_ context.Context, _ equity.OrgLevel,
	category core.CategoryKey, measure core.MeasureKey) (*equity.GroupedDataset, error) {

	f.mu.Lock()
	f.requests = append(f.requests, string(measure)+"/"+string(category))
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return equity.NewGroupedDataset(measure, category,
		[]float64{1, 2, 3, 4, 5, 6},
		map[core.GroupLabel][]float64{
			"A": {1, 2, 3},
			"B": {4, 5, 6},
		})
}

func TestSweepRun(t *testing.T) {
	reader := &fakeReader{}
	svc := NewSweepService(reader, NewComparisonService(nil), nil)

	reports, err := svc.Run(context.Background(), equity.OrgSchool)
	require.NoError(t, err)

	wantCount := len(equity.AllMeasures()) * len(equity.AllCategories())
	require.Len(t, reports, wantCount)
	assert.Len(t, reader.requests, wantCount)

	// Measure-major order regardless of completion order.
	categories := equity.AllCategories()
	for mi, measure := range equity.AllMeasures() {
		for ci, category := range categories {
			r := reports[mi*len(categories)+ci]
			require.NotNil(t, r)
			assert.Equal(t, measure, r.Measure)
			assert.Equal(t, category, r.Category)
		}
	}
}

func TestSweepRun_ReaderFailureAborts(t *testing.T) {
	readErr := errors.New("connection refused")
	reader := &fakeReader{err: readErr}
	svc := NewSweepService(reader, NewComparisonService(nil), nil)

	_, err := svc.Run(context.Background(), equity.OrgLEA)
	assert.ErrorIs(t, err, readErr)
}

func TestAnalyze(t *testing.T) {
	reader := &fakeReader{}
	svc := NewSweepService(reader, NewComparisonService(nil), nil)

	report, err := svc.Analyze(context.Background(), equity.OrgSchool,
		equity.CategoryRace, equity.MeasureDiscipline)
	require.NoError(t, err)
	assert.Equal(t, equity.MeasureDiscipline, report.Measure)
	assert.Equal(t, equity.CategoryRace, report.Category)
	assert.True(t, report.Comparable)
	assert.Len(t, reader.requests, 1)
}
