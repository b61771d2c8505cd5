// Package postgres reads flattened student demographic and measure rows
// from the staging tables installed by the Staging migrator.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"goequity/domain/core"
	"goequity/domain/equity"
	"goequity/ports"
)

// Staging table per education organization level.
const (
	leaStudentsTable    = "edfi_dei.lea_students"
	schoolStudentsTable = "edfi_dei.school_students"
)

var categoryColumns = map[core.CategoryKey]string{
	equity.CategoryRace:       "race",
	equity.CategoryEthnicity:  "is_hispanic",
	equity.CategoryEnglish:    "limited_english_proficiency",
	equity.CategorySex:        "sex",
	equity.CategoryDisability: "disability",
	equity.CategoryLanguage:   "language",
	equity.CategoryTribal:     "tribal_affiliation",
}

var measureColumns = map[core.MeasureKey]string{
	equity.MeasureAttendance: "attendance_rate",
	equity.MeasureDiscipline: "number_discipline_incidents",
	equity.MeasureCoursePerf: "average_grade",
}

// rosterRepository implements the RosterReader interface
type rosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a roster reader over the staging tables.
func NewRosterRepository(db *sqlx.DB) ports.RosterReader {
	return &rosterRepository{db: db}
}

// FetchGrouped materializes one (category, measure) grouped dataset.
// Rows without a demographic classification are left out of the groups but
// still count toward the overall population. Missing measure values become
// NaN and are excluded later by the analysis core.
func (r *rosterRepository) FetchGrouped(ctx context.Context, level equity.OrgLevel,
	category core.CategoryKey, measure core.MeasureKey) (*equity.GroupedDataset, error) {

	table, err := tableFor(level)
	if err != nil {
		return nil, err
	}
	categoryCol, ok := categoryColumns[category]
	if !ok {
		return nil, fmt.Errorf("unknown demographic category: %s", category)
	}
	measureCol, ok := measureColumns[measure]
	if !ok {
		return nil, core.NewUnknownMeasureError(string(measure))
	}

	// Column names come from the fixed maps above, never from callers.
	query := fmt.Sprintf(`SELECT %s, %s FROM %s`, categoryCol, measureCol, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s by %s: %w", measure, category, err)
	}
	defer rows.Close()

	groups := make(map[core.GroupLabel][]float64)
	var overall []float64

	for rows.Next() {
		var label sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&label, &value); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}

		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		overall = append(overall, v)

		if label.Valid && label.String != "" {
			groupLabel := core.GroupLabel(label.String)
			groups[groupLabel] = append(groups[groupLabel], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate student rows: %w", err)
	}

	return equity.NewGroupedDataset(measure, category, overall, groups)
}

func tableFor(level equity.OrgLevel) (string, error) {
	switch level {
	case equity.OrgSchool:
		return schoolStudentsTable, nil
	case equity.OrgLEA:
		return leaStudentsTable, nil
	default:
		return "", fmt.Errorf("%w: %s", core.ErrUnknownOrgType, level)
	}
}
