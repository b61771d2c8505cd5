package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Staging installs and removes the temporary analysis tables. The analytics
// views carry one row per student per demographic classification; the staging
// tables flatten them to one row per student with the three summary measures.
type Staging struct {
	db *sqlx.DB
}

// NewStaging creates a staging migrator.
func NewStaging(db *sqlx.DB) *Staging {
	return &Staging{db: db}
}

const createSchema = `CREATE SCHEMA IF NOT EXISTS edfi_dei`

const dropLEAStudents = `DROP TABLE IF EXISTS edfi_dei.lea_students`

const dropSchoolStudents = `DROP TABLE IF EXISTS edfi_dei.school_students`

const dropSchema = `DROP SCHEMA IF EXISTS edfi_dei`

// One flattened row per student: demographic classifications plus the
// attendance, discipline, and course-grade summary measures.
const createStudentsTemplate = `
CREATE TABLE %s AS
SELECT
	d.student_key,
	d.race,
	d.is_hispanic,
	d.limited_english_proficiency,
	d.sex,
	d.disability,
	d.language,
	d.tribal_affiliation,
	a.attendance_rate,
	b.number_discipline_incidents,
	c.average_grade
FROM %s d
LEFT JOIN analytics.student_attendance_summary a ON a.student_key = d.student_key
LEFT JOIN analytics.student_discipline_summary b ON b.student_key = d.student_key
LEFT JOIN analytics.student_grade_summary c ON c.student_key = d.student_key`

const countSchoolDemographics = `SELECT count(1) FROM analytics.student_school_demographics_bridge`

const countLEADemographics = `SELECT count(1) FROM analytics.student_local_education_agency_demographics_bridge`

// Install creates the edfi_dei schema and rebuilds both staging tables.
func (s *Staging) Install(ctx context.Context) error {
	statements := []string{
		createSchema,
		dropLEAStudents,
		dropSchoolStudents,
		fmt.Sprintf(createStudentsTemplate, leaStudentsTable,
			"analytics.student_local_education_agency_demographics_bridge"),
		fmt.Sprintf(createStudentsTemplate, schoolStudentsTable,
			"analytics.student_school_demographics_bridge"),
	}
	return s.execAll(ctx, statements)
}

// Cleanup drops the staging tables and the edfi_dei schema itself.
func (s *Staging) Cleanup(ctx context.Context) error {
	return s.execAll(ctx, []string{dropLEAStudents, dropSchoolStudents, dropSchema})
}

// SchoolDemographicsCount returns the row count of the school-level
// demographics source, a cheap sanity check before installing.
func (s *Staging) SchoolDemographicsCount(ctx context.Context) (int, error) {
	return s.count(ctx, countSchoolDemographics)
}

// LEADemographicsCount returns the row count of the LEA-level source.
func (s *Staging) LEADemographicsCount(ctx context.Context) (int, error) {
	return s.count(ctx, countLEADemographics)
}

func (s *Staging) execAll(ctx context.Context, statements []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin staging transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("staging statement failed: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Staging) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}
