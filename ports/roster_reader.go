package ports

import (
	"context"

	"goequity/domain/core"
	"goequity/domain/equity"
)

// RosterReader is the data-access collaborator: it materializes flat
// per-student measure values from the records store into an immutable
// grouped dataset for one (category, measure) pair. How it queries its
// backing store is its own business.
type RosterReader interface {
	FetchGrouped(ctx context.Context, level equity.OrgLevel,
		category core.CategoryKey, measure core.MeasureKey) (*equity.GroupedDataset, error)
}
