package ports

import (
	"context"

	"goequity/domain/equity"
)

// ReportWriter exports finished comparison reports to some presentation
// medium (workbook, file, ...). The core never depends on the format.
type ReportWriter interface {
	Write(ctx context.Context, reports []*equity.ComparisonReport) error
}
