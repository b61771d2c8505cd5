// Package excel exports comparison reports to a workbook, the tabular
// counterpart of the markdown narrative.
package excel

import (
	"context"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"goequity/domain/equity"
	"goequity/ports"
)

// reportWriter implements the ReportWriter interface over a single workbook.
type reportWriter struct {
	path string
}

// NewReportWriter creates a workbook exporter writing to path.
func NewReportWriter(path string) ports.ReportWriter {
	return &reportWriter{path: path}
}

// Write produces three sheets: per-test summary rows, per-group descriptive
// statistics, and the pairwise post-hoc table.
func (w *reportWriter) Write(ctx context.Context, reports []*equity.ComparisonReport) error {
	f := excelize.NewFile()
	defer f.Close()

	const (
		summarySheet      = "Summary"
		descriptivesSheet = "Descriptives"
		pairwiseSheet     = "Pairwise"
	)

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(descriptivesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(pairwiseSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	writeRow(f, summarySheet, 1, "Measure", "Category", "Comparable", "Test",
		"Statistic", "P Value", "Significant", "Effect Size", "Magnitude", "Excluded Groups")
	writeRow(f, descriptivesSheet, 1, "Measure", "Category", "Label", "Count",
		"Mean", "StD", "Min", "Max", "Median", "Q25", "Q75")
	writeRow(f, pairwiseSheet, 1, "Measure", "Category", "Label 1", "Label 2",
		"Test", "Stat", "P Value", "Low CI", "High CI", "Effect Size", "Magnitude")

	summaryRow, descRow, pairRow := 2, 2, 2
	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return err
		}

		excluded := ""
		for i, ex := range r.Exclusions {
			if i > 0 {
				excluded += "; "
			}
			excluded += fmt.Sprintf("%s (%s)", ex.Label, ex.Reason)
		}

		if r.Omnibus != nil {
			effect, magnitude := effectCells(r.Omnibus.Effect)
			writeRow(f, summarySheet, summaryRow, string(r.Measure), string(r.Category), r.Comparable,
				string(r.Omnibus.Test), cell(r.Omnibus.Statistic), cell(r.Omnibus.PValue),
				r.Omnibus.Significant, effect, magnitude, excluded)
		} else {
			writeRow(f, summarySheet, summaryRow, string(r.Measure), string(r.Category), r.Comparable,
				"", "", "", "", "", "", excluded)
		}
		summaryRow++

		all := append([]equity.DescriptiveStats{r.Overall}, r.Groups...)
		for i, d := range all {
			label := string(d.Label)
			if i == 0 {
				label = "(all students)"
			}
			writeRow(f, descriptivesSheet, descRow, string(r.Measure), string(r.Category), label,
				d.Count, cell(d.Mean), cell(d.StdDev), cell(d.Min), cell(d.Max),
				cell(d.Median), cell(d.Q25), cell(d.Q75))
			descRow++
		}

		for _, p := range r.Pairwise {
			low, high := interface{}(""), interface{}("")
			if p.CI != nil {
				low, high = cell(p.CI.Low), cell(p.CI.High)
			}
			effect, magnitude := effectCells(p.Effect)
			writeRow(f, pairwiseSheet, pairRow, string(r.Measure), string(r.Category),
				string(p.GroupA), string(p.GroupB), string(p.Test),
				cell(p.Statistic), cell(p.PValue), low, high, effect, magnitude)
			pairRow++
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		name, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, name, v)
	}
}

// cell keeps NaN statistics visible instead of producing broken cells.
func cell(v float64) interface{} {
	if math.IsNaN(v) {
		return "NaN"
	}
	return v
}

func effectCells(e *equity.EffectSize) (interface{}, interface{}) {
	if e == nil {
		return "", ""
	}
	return cell(e.D), string(e.Magnitude)
}
