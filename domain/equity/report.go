package equity

import (
	"encoding/json"
	"fmt"
	"math"

	"goequity/domain/core"
)

// TestType identifies the statistical test behind a TestResult
type TestType string

const (
	TestWelchT        TestType = "welch_t"
	TestANOVA         TestType = "anova"
	TestKruskalWallis TestType = "kruskal_wallis"
	TestTukeyHSD      TestType = "tukey_hsd_pairwise"
)

// EffectMagnitude is the qualitative label for a standardized effect size
type EffectMagnitude string

const (
	EffectSmall  EffectMagnitude = "Small"
	EffectMedium EffectMagnitude = "Medium"
	EffectLarge  EffectMagnitude = "Large"
)

// Cohen's d ladder: below dSmall the effect is treated as negligible and no
// EffectSize is attached at all.
const (
	dSmall  = 0.2
	dMedium = 0.5
	dLarge  = 0.8
)

// EffectSize is a standardized magnitude (Cohen's d) with its label
type EffectSize struct {
	D         float64         `json:"d"`
	Magnitude EffectMagnitude `json:"magnitude"`
}

// ClassifyEffectSize maps Cohen's d onto the fixed magnitude ladder.
// Returns nil for negligible effects (|d| < 0.2).
func ClassifyEffectSize(d float64) *EffectSize {
	abs := math.Abs(d)
	switch {
	case math.IsNaN(abs) || abs < dSmall:
		return nil
	case abs < dMedium:
		return &EffectSize{D: d, Magnitude: EffectSmall}
	case abs < dLarge:
		return &EffectSize{D: d, Magnitude: EffectMedium}
	default:
		return &EffectSize{D: d, Magnitude: EffectLarge}
	}
}

// ConfidenceInterval is a two-sided interval at the 95% level
type ConfidenceInterval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// TestResult is the outcome of one statistical test. For pairwise tests
// GroupA/GroupB identify the compared labels; omnibus results leave them empty.
type TestResult struct {
	Test        TestType            `json:"test"`
	GroupA      core.GroupLabel     `json:"group_a,omitempty"`
	GroupB      core.GroupLabel     `json:"group_b,omitempty"`
	Statistic   float64             `json:"statistic"`
	PValue      float64             `json:"p_value"`
	Significant bool                `json:"significant"`
	CI          *ConfidenceInterval `json:"ci,omitempty"`
	Effect      *EffectSize         `json:"effect,omitempty"`
}

// NewTestResult builds a TestResult, deriving the significance flag.
// A NaN p-value (degenerate input) is never significant.
func NewTestResult(test TestType, statistic, pValue float64) TestResult {
	return TestResult{
		Test:        test,
		Statistic:   statistic,
		PValue:      pValue,
		Significant: pValue < SignificanceLevel,
	}
}

// MarshalJSON surfaces undefined (NaN) statistics as null rather than
// failing the whole report encode.
func (t TestResult) MarshalJSON() ([]byte, error) {
	type payload struct {
		Test        TestType            `json:"test"`
		GroupA      core.GroupLabel     `json:"group_a,omitempty"`
		GroupB      core.GroupLabel     `json:"group_b,omitempty"`
		Statistic   *float64            `json:"statistic"`
		PValue      *float64            `json:"p_value"`
		Significant bool                `json:"significant"`
		CI          *ConfidenceInterval `json:"ci,omitempty"`
		Effect      *EffectSize         `json:"effect,omitempty"`
	}
	return json.Marshal(payload{
		Test:        t.Test,
		GroupA:      t.GroupA,
		GroupB:      t.GroupB,
		Statistic:   nanToNil(t.Statistic),
		PValue:      nanToNil(t.PValue),
		Significant: t.Significant,
		CI:          t.CI,
		Effect:      t.Effect,
	})
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// DescriptiveStats summarizes one sample
type DescriptiveStats struct {
	Label  core.GroupLabel `json:"label,omitempty"`
	Count  int             `json:"count"`
	Mean   float64         `json:"mean"`
	StdDev float64         `json:"std_dev"`
	Min    float64         `json:"min"`
	Max    float64         `json:"max"`
	Median float64         `json:"median"`
	Q25    float64         `json:"q25"`
	Q75    float64         `json:"q75"`
}

// Exclusion records a group left out of the comparison and why
type Exclusion struct {
	Label  core.GroupLabel `json:"label"`
	Count  int             `json:"count"`
	Reason string          `json:"reason"`
}

// ComparisonReport is the top-level output of one analysis invocation:
// one demographic category crossed with one measure.
type ComparisonReport struct {
	ID         core.ReportID      `json:"id"`
	Measure    core.MeasureKey    `json:"measure"`
	Category   core.CategoryKey   `json:"category"`
	Overall    DescriptiveStats   `json:"overall"`
	Groups     []DescriptiveStats `json:"groups"`
	Comparable bool               `json:"comparable"`
	Omnibus    *TestResult        `json:"omnibus,omitempty"`
	Pairwise   []TestResult       `json:"pairwise,omitempty"`
	Exclusions []Exclusion        `json:"exclusions,omitempty"`
	CreatedAt  core.Timestamp     `json:"created_at"`
}

// NewComparisonReport creates a report shell with a fresh identifier.
func NewComparisonReport(measure core.MeasureKey, category core.CategoryKey) *ComparisonReport {
	return &ComparisonReport{
		ID:        core.ReportID(core.NewID()),
		Measure:   measure,
		Category:  category,
		CreatedAt: core.Now(),
	}
}

// Validate checks report invariants before it is handed to callers.
func (r *ComparisonReport) Validate() error {
	if r.Measure == "" || r.Category == "" {
		return fmt.Errorf("report must carry measure and category")
	}
	if r.Omnibus != nil {
		if err := validatePValue(r.Omnibus.PValue); err != nil {
			return fmt.Errorf("omnibus: %w", err)
		}
	}
	for i := range r.Pairwise {
		if err := validatePValue(r.Pairwise[i].PValue); err != nil {
			return fmt.Errorf("pairwise %s vs %s: %w", r.Pairwise[i].GroupA, r.Pairwise[i].GroupB, err)
		}
	}
	if !r.Comparable && (r.Omnibus != nil || len(r.Pairwise) > 0) {
		return fmt.Errorf("non-comparable report must not carry test results")
	}
	return nil
}

// validatePValue allows NaN: degenerate inputs surface as-is in the report.
func validatePValue(p float64) error {
	if math.IsNaN(p) {
		return nil
	}
	if p < 0 || p > 1 {
		return fmt.Errorf("p-value out of range: %f", p)
	}
	return nil
}
