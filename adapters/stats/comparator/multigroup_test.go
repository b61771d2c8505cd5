package comparator

import (
	"testing"

	"goequity/adapters/stats/distributions"
	"goequity/domain/core"
	"goequity/domain/equity"
)

func TestSelectOmnibus(t *testing.T) {
	if got := SelectOmnibus(true, true); got != FamilyANOVA {
		t.Errorf("normal + homogeneous: got %s, want %s", got, FamilyANOVA)
	}
	for _, flags := range [][2]bool{{true, false}, {false, true}, {false, false}} {
		if got := SelectOmnibus(flags[0], flags[1]); got != FamilyKruskalWallis {
			t.Errorf("flags %v: got %s, want %s", flags, got, FamilyKruskalWallis)
		}
	}
}

// normalShaped builds n observations on the expected normal order statistics,
// shifted to center. Every call with the same n has the same shape, so spread
// matches across groups exactly.
func normalShaped(label string, center float64, n int) equity.Sample {
	values := make([]float64, n)
	for i := range values {
		values[i] = center + distributions.NormalQuantile((float64(i+1)-0.375)/(float64(n)+0.25))
	}
	return equity.NewSample(core.GroupLabel(label), values)
}

func TestMultiGroup_ParametricPath(t *testing.T) {
	samples := []equity.Sample{
		normalShaped("a", 10, 30),
		normalShaped("b", 10, 30),
		normalShaped("c", 12, 30),
	}

	outcome, err := MultiGroup(samples)
	if err != nil {
		t.Fatalf("multigroup: %v", err)
	}
	if outcome.Family != FamilyANOVA {
		t.Fatalf("normal, equal-spread groups should take the parametric path, got %s", outcome.Family)
	}
	if outcome.Omnibus.Test != equity.TestANOVA {
		t.Errorf("omnibus type: got %s", outcome.Omnibus.Test)
	}
	if !outcome.Omnibus.Significant {
		t.Fatalf("a two-unit shift at this spread must be significant, p=%f", outcome.Omnibus.PValue)
	}
	if len(outcome.Pairwise) != 3 {
		t.Fatalf("pairwise count: got %d, want 3", len(outcome.Pairwise))
	}
	for _, r := range outcome.Pairwise {
		if r.Test != equity.TestTukeyHSD {
			t.Errorf("parametric follow-up should be Tukey HSD, got %s", r.Test)
		}
	}
}

func TestMultiGroup_RankPathOnNonNormalGroup(t *testing.T) {
	skewed := []float64{1, 1, 1, 1, 2, 2, 3, 5, 8, 13, 21, 34}
	samples := []equity.Sample{
		equity.NewSample("low", skewed),
		normalShaped("mid", 50, 12),
		normalShaped("high", 100, 12),
	}

	outcome, err := MultiGroup(samples)
	if err != nil {
		t.Fatalf("multigroup: %v", err)
	}
	if outcome.Family != FamilyKruskalWallis {
		t.Fatalf("a non-normal group must force the rank-based path, got %s", outcome.Family)
	}
	if outcome.Omnibus.Test != equity.TestKruskalWallis {
		t.Errorf("omnibus type: got %s", outcome.Omnibus.Test)
	}
	if !outcome.Omnibus.Significant {
		t.Fatalf("fully separated groups must be significant, p=%f", outcome.Omnibus.PValue)
	}
	if len(outcome.Pairwise) != 3 {
		t.Fatalf("pairwise count: got %d, want 3", len(outcome.Pairwise))
	}
	for _, r := range outcome.Pairwise {
		if r.Test != equity.TestWelchT {
			t.Errorf("rank-path follow-up should be pairwise Welch, got %s", r.Test)
		}
	}
}

func TestMultiGroup_NoFollowUpWithoutSignificance(t *testing.T) {
	samples := []equity.Sample{
		bimodal("a", 10, 1, 20),
		bimodal("b", 10, 1, 20),
		bimodal("c", 10, 1, 20),
	}

	outcome, err := MultiGroup(samples)
	if err != nil {
		t.Fatalf("multigroup: %v", err)
	}
	if outcome.Omnibus.Significant {
		t.Fatalf("identical groups must not be significant, p=%f", outcome.Omnibus.PValue)
	}
	if outcome.Pairwise != nil {
		t.Errorf("non-significant omnibus must not trigger pairwise tests")
	}
}

func TestMultiGroup_RequiresThreeGroups(t *testing.T) {
	samples := []equity.Sample{
		normalShaped("a", 1, 10),
		normalShaped("b", 2, 10),
	}
	_, err := MultiGroup(samples)
	if !core.IsInsufficientData(err) {
		t.Fatalf("expected insufficient data error, got %v", err)
	}
}
