package comparator

import (
	"math"
	"testing"

	"goequity/domain/core"
	"goequity/domain/equity"
)

// bimodal builds n observations split evenly between center-spread and
// center+spread, giving an exactly known mean and sample variance.
func bimodal(label string, center, spread float64, n int) equity.Sample {
	values := make([]float64, n)
	for i := range values {
		if i%2 == 0 {
			values[i] = center - spread
		} else {
			values[i] = center + spread
		}
	}
	return equity.NewSample(core.GroupLabel(label), values)
}

func TestWelch_IdenticalGroups(t *testing.T) {
	a := bimodal("a", 10, 0.5, 40)
	b := bimodal("b", 10, 0.5, 40)

	result, err := Welch(a, b)
	if err != nil {
		t.Fatalf("welch: %v", err)
	}
	if result.Statistic != 0 {
		t.Errorf("identical groups: statistic got %f, want 0", result.Statistic)
	}
	if math.Abs(result.PValue-1) > 1e-9 {
		t.Errorf("identical groups: p-value got %f, want 1", result.PValue)
	}
	if result.Significant {
		t.Errorf("identical groups must not be significant")
	}
	if result.Effect != nil {
		t.Errorf("non-significant result must not carry an effect size")
	}
	if result.CI == nil || result.CI.Low > 0 || result.CI.High < 0 {
		t.Errorf("confidence interval should straddle zero, got %+v", result.CI)
	}
}

func TestWelch_SmallShiftDetected(t *testing.T) {
	// Both groups have sample sd ~0.3015; the 0.1 mean shift gives
	// d ~0.33 ("Small"), t ~2.35 at ~198 df, p ~0.02.
	a := bimodal("Group A", 10.0, 0.3, 100)
	b := bimodal("Group B", 10.1, 0.3, 100)

	result, err := Welch(a, b)
	if err != nil {
		t.Fatalf("welch: %v", err)
	}
	if !result.Significant {
		t.Fatalf("expected significant result, got p=%f", result.PValue)
	}
	if result.PValue > 0.05 || result.PValue < 0.005 {
		t.Errorf("p-value out of expected band: got %f", result.PValue)
	}
	if math.Abs(math.Abs(result.Statistic)-2.345) > 0.01 {
		t.Errorf("t statistic: got %f, want ~2.345 in magnitude", result.Statistic)
	}
	if result.Effect == nil {
		t.Fatalf("significant result must carry an effect size")
	}
	if result.Effect.Magnitude != equity.EffectSmall {
		t.Errorf("effect magnitude: got %s, want %s", result.Effect.Magnitude, equity.EffectSmall)
	}
	if result.GroupA != "Group A" || result.GroupB != "Group B" {
		t.Errorf("group labels not carried: %s vs %s", result.GroupA, result.GroupB)
	}
}

func TestWelch_LargeShift(t *testing.T) {
	a := bimodal("low", 10, 0.5, 30)
	b := bimodal("high", 20, 0.5, 30)

	result, err := Welch(a, b)
	if err != nil {
		t.Fatalf("welch: %v", err)
	}
	if !result.Significant {
		t.Fatalf("huge separation must be significant, p=%f", result.PValue)
	}
	if result.Effect == nil || result.Effect.Magnitude != equity.EffectLarge {
		t.Errorf("expected Large effect, got %+v", result.Effect)
	}
	if result.CI == nil || result.CI.High >= 0 {
		t.Errorf("interval for low-high should sit entirely below zero, got %+v", result.CI)
	}
}

func TestWelch_ZeroVariance(t *testing.T) {
	a := equity.NewSample("a", []float64{5, 5, 5})
	b := equity.NewSample("b", []float64{5, 5, 5})

	result, err := Welch(a, b)
	if err != nil {
		t.Fatalf("welch: %v", err)
	}
	if !math.IsNaN(result.Statistic) || !math.IsNaN(result.PValue) {
		t.Errorf("zero variance: got stat=%f p=%f, want NaN", result.Statistic, result.PValue)
	}
	if result.Significant {
		t.Errorf("undefined statistic must never be significant")
	}
	if result.CI != nil {
		t.Errorf("undefined statistic must not carry an interval")
	}
}

func TestWelch_GroupTooSmall(t *testing.T) {
	a := equity.NewSample("a", []float64{1})
	b := equity.NewSample("b", []float64{1, 2, 3})

	_, err := Welch(a, b)
	if !core.IsInsufficientData(err) {
		t.Fatalf("expected insufficient data error, got %v", err)
	}

	// Missing values do not count toward the minimum.
	a = equity.NewSample("a", []float64{1, math.NaN()})
	_, err = Welch(a, b)
	if !core.IsInsufficientData(err) {
		t.Fatalf("expected insufficient data error after null exclusion, got %v", err)
	}
}

func TestCohenD(t *testing.T) {
	a := bimodal("a", 10.0, 0.3, 100)
	b := bimodal("b", 10.1, 0.3, 100)
	d := CohenD(a.Usable(), b.Usable())
	if math.Abs(d-0.3317) > 0.001 {
		t.Errorf("cohen's d: got %f, want ~0.3317", d)
	}

	// Direction-free by construction.
	if d2 := CohenD(b.Usable(), a.Usable()); math.Abs(d2-d) > 1e-12 {
		t.Errorf("cohen's d should be symmetric, got %f vs %f", d, d2)
	}

	if d := CohenD([]float64{4, 4}, []float64{4, 4}); !math.IsNaN(d) {
		t.Errorf("zero pooled deviation should give NaN, got %f", d)
	}
}
