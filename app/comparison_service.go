package app

import (
	"fmt"

	"goequity/adapters/stats/comparator"
	"goequity/adapters/stats/descriptive"
	"goequity/domain/core"
	"goequity/domain/equity"
	"goequity/internal"
)

// ComparisonService is the orchestrator: the single entry point presentation
// code calls with a grouped dataset. It excludes missing values and
// too-small groups, computes descriptives, dispatches to the two-group or
// multi-group comparator, and assembles the report.
type ComparisonService struct {
	log *internal.Logger
}

// NewComparisonService creates the orchestrator.
func NewComparisonService(log *internal.Logger) *ComparisonService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &ComparisonService{log: log}
}

// Compare analyzes one (category, measure) grouped dataset and returns its
// ComparisonReport. Only structurally invalid input (nil/empty dataset,
// unknown measure) returns an error; data-level anomalies are recovered and
// annotated in the report. The same dataset always yields the same report
// body: group order is deterministic and no randomness is involved.
func (s *ComparisonService) Compare(dataset *equity.GroupedDataset) (*equity.ComparisonReport, error) {
	if dataset == nil || dataset.GroupCount() == 0 {
		return nil, core.ErrEmptyDataset
	}
	if !equity.KnownMeasure(dataset.Measure) {
		return nil, core.NewUnknownMeasureError(string(dataset.Measure))
	}

	report := equity.NewComparisonReport(dataset.Measure, dataset.Category)

	overall, err := descriptive.Summarize(equity.NewSample("", dataset.Overall))
	if err != nil {
		return nil, fmt.Errorf("%w: no usable observations for %s", core.ErrEmptyDataset, dataset.Measure)
	}
	overall.Label = ""
	report.Overall = overall

	// Partition groups into comparable samples and recorded exclusions.
	var kept []equity.Sample
	for _, label := range dataset.Labels() {
		sample, _ := dataset.Group(label)
		usable := sample.UsableCount()
		if usable < equity.MinGroupSize {
			report.Exclusions = append(report.Exclusions, equity.Exclusion{
				Label:  label,
				Count:  usable,
				Reason: fmt.Sprintf("fewer than %d usable observations", equity.MinGroupSize),
			})
			continue
		}
		stats, err := descriptive.Summarize(sample)
		if err != nil {
			return nil, err
		}
		report.Groups = append(report.Groups, stats)
		kept = append(kept, sample)
	}

	switch len(kept) {
	case 0, 1:
		// Degenerate comparison: surfaced as a non-comparable report, not
		// an error, so sibling analyses keep running.
		report.Comparable = false
		s.log.Warn("%s by %s is not comparable: %d group(s) remain after exclusion",
			dataset.Measure, dataset.Category, len(kept))

	case 2:
		result, err := comparator.Welch(kept[0], kept[1])
		if err != nil {
			return nil, err
		}
		report.Comparable = true
		report.Omnibus = &result

	default:
		outcome, err := comparator.MultiGroup(kept)
		if err != nil {
			return nil, err
		}
		report.Comparable = true
		report.Omnibus = &outcome.Omnibus
		report.Pairwise = outcome.Pairwise
		s.log.Debug("%s by %s: omnibus family %s, %d pairwise results",
			dataset.Measure, dataset.Category, outcome.Family, len(outcome.Pairwise))
	}

	if err := report.Validate(); err != nil {
		return nil, err
	}
	return report, nil
}
