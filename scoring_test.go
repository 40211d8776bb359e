package posture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoControlSet() []Control {
	return []Control{
		{ID: "gov-1", Domain: "Governance", Weight: 1.0},
		{ID: "sec-1", Domain: "Security", Weight: 1.0, Critical: true},
	}
}

func TestScoreCriticalWeighting(t *testing.T) {
	controls := twoControlSet()
	answers := map[string]Answer{
		"gov-1": Yes,
		"sec-1": No,
	}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	// Earned 1.0 out of 1.0 + 1.3 = 2.3 total effective weight.
	assert.InDelta(t, 43.478, result.OverallScore, 0.001)
	assert.Equal(t, VerdictFail, result.Verdict)
	assert.Equal(t, RiskHigh, result.Risk)
	assert.Equal(t, 1, result.CriticalFailures)
	assert.Equal(t, 1, result.Compliant)
	assert.Equal(t, 1, result.NonCompliant)
}

func TestScoreAllYes(t *testing.T) {
	controls := twoControlSet()
	answers := map[string]Answer{"gov-1": Yes, "sec-1": Yes}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.OverallScore)
	assert.Equal(t, VerdictPass, result.Verdict)
	assert.Equal(t, RiskLow, result.Risk)
	assert.Empty(t, result.Improvements)
}

func TestScoreNotApplicableExcluded(t *testing.T) {
	controls := twoControlSet()
	answers := map[string]Answer{"gov-1": Yes, "sec-1": NotApplicable}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	// The N/A control contributes to neither earned nor total.
	assert.Equal(t, 100.0, result.OverallScore)
	assert.Equal(t, 0, result.CriticalFailures)

	var security DomainScore
	for _, d := range result.Domains {
		if d.Name == "Security" {
			security = d
		}
	}
	assert.Equal(t, 0.0, security.Total)
	assert.Equal(t, 0.0, security.Score)
}

func TestScoreAllNotApplicable(t *testing.T) {
	controls := twoControlSet()
	answers := map[string]Answer{"gov-1": NotApplicable, "sec-1": NotApplicable}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.OverallScore)
	assert.Equal(t, VerdictFail, result.Verdict)
}

func TestScoreUnknownAnswerTreatedAsSkipped(t *testing.T) {
	controls := twoControlSet()
	answers := map[string]Answer{"gov-1": Yes, "sec-1": Answer("Maybe")}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.OverallScore)
	assert.Equal(t, 0, result.NonCompliant)
}

func TestScoreIncomplete(t *testing.T) {
	controls := twoControlSet()
	answers := map[string]Answer{"gov-1": Yes}

	_, err := Score(controls, answers, DefaultScoreConfig())
	require.Error(t, err)

	incomplete, ok := err.(*IncompleteError)
	require.True(t, ok, "expected *IncompleteError, got %T", err)
	assert.Equal(t, []string{"sec-1"}, incomplete.Missing)
}

func TestScoreNoControls(t *testing.T) {
	_, err := Score(nil, map[string]Answer{}, DefaultScoreConfig())
	require.Error(t, err)
}

func TestScoreDeterministic(t *testing.T) {
	controls := []Control{
		{ID: "a", Domain: "D1", Weight: 0.1},
		{ID: "b", Domain: "D1", Weight: 0.2, Critical: true},
		{ID: "c", Domain: "D2", Weight: 0.3},
		{ID: "d", Domain: "D2", Weight: 0.7, Critical: true},
	}
	answers := map[string]Answer{"a": Yes, "b": No, "c": Yes, "d": No}

	first, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)
	second, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	// Bit-identical, not just approximately equal.
	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.Domains, second.Domains)
}

func TestScoreMonotonicity(t *testing.T) {
	controls := []Control{
		{ID: "a", Domain: "D1", Weight: 1},
		{ID: "b", Domain: "D1", Weight: 2, Critical: true},
		{ID: "c", Domain: "D2", Weight: 1},
	}
	answers := map[string]Answer{"a": Yes, "b": No, "c": No}

	before, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	answers["b"] = Yes
	after, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	assert.Greater(t, after.OverallScore, before.OverallScore)
}

func TestScoreAggregationConsistency(t *testing.T) {
	controls := []Control{
		{ID: "a", Domain: "D1", Weight: 1.5},
		{ID: "b", Domain: "D1", Weight: 2, Critical: true},
		{ID: "c", Domain: "D2", Weight: 1},
		{ID: "d", Domain: "D3", Weight: 0.5},
	}
	answers := map[string]Answer{"a": Yes, "b": No, "c": NotApplicable, "d": Yes}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	var earned, total float64
	for _, d := range result.Domains {
		earned += d.Earned
		total += d.Total
	}
	assert.InDelta(t, 100*earned/total, result.OverallScore, 1e-9)
}

func TestScoreDomainOrder(t *testing.T) {
	controls := []Control{
		{ID: "a", Domain: "Zulu", Weight: 1},
		{ID: "b", Domain: "Alpha", Weight: 1},
		{ID: "c", Domain: "Zulu", Weight: 1},
	}
	answers := map[string]Answer{"a": Yes, "b": Yes, "c": Yes}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	// First appearance in the control list, not alphabetical.
	require.Len(t, result.Domains, 2)
	assert.Equal(t, "Zulu", result.Domains[0].Name)
	assert.Equal(t, "Alpha", result.Domains[1].Name)
}

func TestScoreImprovementsLoadOrder(t *testing.T) {
	controls := []Control{
		{ID: "a", Domain: "D1", Weight: 1, Tip: "fix a"},
		{ID: "b", Domain: "D1", Weight: 1},
		{ID: "c", Domain: "D2", Weight: 1, Tip: "fix c"},
	}
	answers := map[string]Answer{"a": No, "b": Yes, "c": No}

	result, err := Score(controls, answers, DefaultScoreConfig())
	require.NoError(t, err)

	require.Len(t, result.Improvements, 2)
	assert.Equal(t, "a", result.Improvements[0].ID)
	assert.Equal(t, "fix a", result.Improvements[0].Tip)
	assert.Equal(t, "c", result.Improvements[1].ID)
}

func TestVerdictThresholds(t *testing.T) {
	cfg := ScoreConfig{CriticalMultiplier: 1.3, PassThreshold: 70, ImproveThreshold: 50}

	tests := []struct {
		score    float64
		expected Verdict
	}{
		{70, VerdictPass},
		{69.9, VerdictImprove},
		{50, VerdictImprove},
		{49.9, VerdictFail},
		{0, VerdictFail},
	}
	for _, tt := range tests {
		if got := verdictFor(tt.score, cfg); got != tt.expected {
			t.Errorf("verdictFor(%v) = %v, want %v", tt.score, got, tt.expected)
		}
	}
}

func TestRiskBands(t *testing.T) {
	tests := []struct {
		score            float64
		criticalFailures int
		expected         RiskLevel
	}{
		{90, 0, RiskLow},
		{90, 1, RiskMedium},
		{85, 0, RiskLow},
		{70, 2, RiskMedium},
		{70, 3, RiskHigh},
		{59.9, 0, RiskHigh},
		{60, 0, RiskMedium},
	}
	for _, tt := range tests {
		if got := riskFor(tt.score, tt.criticalFailures); got != tt.expected {
			t.Errorf("riskFor(%v, %d) = %v, want %v", tt.score, tt.criticalFailures, got, tt.expected)
		}
	}
}

func TestRiskBandsIgnoreCustomThresholds(t *testing.T) {
	controls := []Control{
		{ID: "a", Domain: "D1", Weight: 1},
		{ID: "b", Domain: "D1", Weight: 1},
	}
	answers := map[string]Answer{"a": Yes, "b": No}
	cfg := ScoreConfig{CriticalMultiplier: 1.3, PassThreshold: 40, ImproveThreshold: 20}

	result, err := Score(controls, answers, cfg)
	require.NoError(t, err)

	// 50% passes the lowered verdict threshold but stays HIGH risk.
	assert.Equal(t, VerdictPass, result.Verdict)
	assert.Equal(t, RiskHigh, result.Risk)
}

func TestScoreConfigValidate(t *testing.T) {
	cfg := DefaultScoreConfig()
	require.NoError(t, cfg.Validate())

	cfg.CriticalMultiplier = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultScoreConfig()
	cfg.ImproveThreshold = 90
	assert.Error(t, cfg.Validate())
}

func TestWeakestDomains(t *testing.T) {
	result := &Result{Domains: []DomainScore{
		{Name: "A", Score: 80},
		{Name: "B", Score: 20},
		{Name: "C", Score: 50},
		{Name: "D", Score: 20},
	}}

	weakest := result.WeakestDomains(3)
	require.Len(t, weakest, 3)
	assert.Equal(t, "B", weakest[0].Name)
	assert.Equal(t, "D", weakest[1].Name) // tie keeps original order
	assert.Equal(t, "C", weakest[2].Name)

	// Asking for more than exists returns everything.
	assert.Len(t, result.WeakestDomains(10), 4)

	// The receiver keeps its original order.
	assert.Equal(t, "A", result.Domains[0].Name)
}
