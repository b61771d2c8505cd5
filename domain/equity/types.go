package equity

import (
	"fmt"
	"math"
	"sort"

	"goequity/domain/core"
)

// Thresholds shared by every statistical component.
const (
	// SignificanceLevel is the alpha applied to every test in the engine.
	SignificanceLevel = 0.05
	// NormalSampleSize is the CLT cutoff: samples at least this large are
	// treated as normal without running a formal test.
	NormalSampleSize = 30
	// MinGroupSize is the smallest usable group; smaller groups are excluded
	// and reported rather than tested.
	MinGroupSize = 2
)

// Measures extracted from the student records store.
const (
	MeasureAttendance core.MeasureKey = "AttendanceRate"
	MeasureDiscipline core.MeasureKey = "NumberDisciplineIncidents"
	MeasureCoursePerf core.MeasureKey = "AverageGrade"
)

// Demographic categories students are partitioned by.
const (
	CategoryRace       core.CategoryKey = "Race"
	CategoryEthnicity  core.CategoryKey = "IsHispanic"
	CategoryEnglish    core.CategoryKey = "LimitedEnglishProficiency"
	CategorySex        core.CategoryKey = "Sex"
	CategoryDisability core.CategoryKey = "Disability"
	CategoryLanguage   core.CategoryKey = "Language"
	CategoryTribal     core.CategoryKey = "TribalAffiliation"
)

// OrgLevel selects which roster the data-access layer reads.
type OrgLevel string

const (
	OrgSchool OrgLevel = "school"
	OrgLEA    OrgLevel = "lea"
)

// AllMeasures returns the measure vocabulary in stable order.
func AllMeasures() []core.MeasureKey {
	return []core.MeasureKey{MeasureAttendance, MeasureDiscipline, MeasureCoursePerf}
}

// AllCategories returns the demographic vocabulary in stable order.
func AllCategories() []core.CategoryKey {
	return []core.CategoryKey{
		CategoryRace, CategoryEthnicity, CategoryEnglish, CategorySex,
		CategoryDisability, CategoryLanguage, CategoryTribal,
	}
}

// KnownMeasure reports whether the key belongs to the measure vocabulary.
func KnownMeasure(key core.MeasureKey) bool {
	for _, m := range AllMeasures() {
		if m == key {
			return true
		}
	}
	return false
}

// Sample holds the observations for one demographic group. Raw values may
// contain NaN for missing measurements; Usable strips them.
type Sample struct {
	Label  core.GroupLabel `json:"label"`
	Values []float64       `json:"values"`
}

// NewSample creates a sample for a group label.
func NewSample(label core.GroupLabel, values []float64) Sample {
	return Sample{Label: label, Values: values}
}

// Usable returns the observations with missing (NaN) entries excluded.
func (s Sample) Usable() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// UsableCount returns the number of non-missing observations.
func (s Sample) UsableCount() int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// GroupedDataset maps group labels to raw observations for one
// (category, measure) pair, plus the ungrouped population values.
// It is read-only after construction.
type GroupedDataset struct {
	Measure  core.MeasureKey
	Category core.CategoryKey
	Overall  []float64
	groups   map[core.GroupLabel][]float64
}

// NewGroupedDataset builds an immutable dataset. The group labels are assumed
// to be mutually exclusive partitions of the population; enforcing that is the
// upstream reader's job.
func NewGroupedDataset(measure core.MeasureKey, category core.CategoryKey,
	overall []float64, groups map[core.GroupLabel][]float64) (*GroupedDataset, error) {

	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no groups for %s by %s", core.ErrEmptyDataset, measure, category)
	}

	copied := make(map[core.GroupLabel][]float64, len(groups))
	for label, values := range groups {
		vs := make([]float64, len(values))
		copy(vs, values)
		copied[label] = vs
	}
	all := make([]float64, len(overall))
	copy(all, overall)

	return &GroupedDataset{
		Measure:  measure,
		Category: category,
		Overall:  all,
		groups:   copied,
	}, nil
}

// Labels returns the group labels in deterministic (sorted) order.
func (d *GroupedDataset) Labels() []core.GroupLabel {
	labels := make([]core.GroupLabel, 0, len(d.groups))
	for label := range d.groups {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// Group returns the sample for a label.
func (d *GroupedDataset) Group(label core.GroupLabel) (Sample, bool) {
	values, ok := d.groups[label]
	if !ok {
		return Sample{}, false
	}
	return NewSample(label, values), true
}

// GroupCount returns the number of group labels.
func (d *GroupedDataset) GroupCount() int {
	return len(d.groups)
}
