package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"goequity/domain/core"
	"goequity/domain/equity"
	"goequity/internal"
	"goequity/ports"
)

// SweepService runs the full equity sweep: every measure crossed with every
// demographic category. Analyses are independent (each owns its immutable
// dataset), so they run concurrently.
type SweepService struct {
	reader      ports.RosterReader
	comparisons *ComparisonService
	log         *internal.Logger
}

// NewSweepService wires the sweep over a roster reader.
func NewSweepService(reader ports.RosterReader, comparisons *ComparisonService, log *internal.Logger) *SweepService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &SweepService{reader: reader, comparisons: comparisons, log: log}
}

// Run fetches and analyzes all measure x category pairs for one education
// organization level. Results come back in stable (measure-major) order.
// Structural failures abort the sweep; non-comparable pairs do not.
func (s *SweepService) Run(ctx context.Context, level equity.OrgLevel) ([]*equity.ComparisonReport, error) {
	measures := equity.AllMeasures()
	categories := equity.AllCategories()

	reports := make([]*equity.ComparisonReport, len(measures)*len(categories))

	g, ctx := errgroup.WithContext(ctx)
	for mi, measure := range measures {
		for ci, category := range categories {
			idx := mi*len(categories) + ci
			measure, category := measure, category
			g.Go(func() error {
				dataset, err := s.reader.FetchGrouped(ctx, level, category, measure)
				if err != nil {
					return err
				}
				report, err := s.comparisons.Compare(dataset)
				if err != nil {
					return err
				}
				reports[idx] = report
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Info("sweep complete: %d reports for %s level", len(reports), level)
	return reports, nil
}

// Analyze runs a single (category, measure) analysis.
func (s *SweepService) Analyze(ctx context.Context, level equity.OrgLevel,
	category core.CategoryKey, measure core.MeasureKey) (*equity.ComparisonReport, error) {

	dataset, err := s.reader.FetchGrouped(ctx, level, category, measure)
	if err != nil {
		return nil, err
	}
	return s.comparisons.Compare(dataset)
}
