package posture

import (
	"sort"

	"github.com/pkg/errors"
)

// Answer is the recorded response for one control.
type Answer string

const (
	Yes           Answer = "Yes"
	No            Answer = "No"
	NotApplicable Answer = "N/A"
	Unanswered    Answer = ""
)

// Verdict classifies the overall score against the configured thresholds.
type Verdict string

const (
	VerdictPass    Verdict = "PASS"
	VerdictImprove Verdict = "NEEDS IMPROVEMENT"
	VerdictFail    Verdict = "FAIL"
)

// RiskLevel combines the overall score with the number of failed critical
// controls. The bands are fixed (LOW: score ≥ 85 and no critical failures;
// MEDIUM: score ≥ 60 and at most 2 critical failures; else HIGH) and are
// intentionally independent of the configurable verdict thresholds.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ScoreConfig carries the caller-tunable scoring parameters.
type ScoreConfig struct {
	// CriticalMultiplier scales the weight of critical controls (default 1.3).
	CriticalMultiplier float64

	// PassThreshold is the minimum overall score for a PASS verdict (default 85).
	PassThreshold float64

	// ImproveThreshold is the minimum overall score for NEEDS IMPROVEMENT
	// (default 60). Must not exceed PassThreshold.
	ImproveThreshold float64
}

// DefaultScoreConfig returns the default scoring configuration.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		CriticalMultiplier: 1.3,
		PassThreshold:      85,
		ImproveThreshold:   60,
	}
}

// Validate checks the configuration invariants.
func (c ScoreConfig) Validate() error {
	if c.CriticalMultiplier <= 0 {
		return errors.Errorf("critical multiplier must be positive, got %g", c.CriticalMultiplier)
	}
	if c.PassThreshold < c.ImproveThreshold {
		return errors.Errorf("pass threshold %g is below improve threshold %g",
			c.PassThreshold, c.ImproveThreshold)
	}
	return nil
}

// DomainScore aggregates earned and total effective weight for one domain.
type DomainScore struct {
	Name   string
	Earned float64
	Total  float64
	Score  float64 // 0-100; 0 when Total is 0
}

// Improvement is a control answered No, surfaced as a remediation item.
type Improvement struct {
	ID      string
	Domain  string
	Text    string
	Tip     string
	Control string
}

// Result is a complete assessment outcome. It is recomputed whole on every
// Score call, never patched incrementally.
type Result struct {
	OverallScore     float64
	Verdict          Verdict
	Risk             RiskLevel
	CriticalFailures int

	TotalControls    int
	CriticalControls int
	Compliant        int // controls answered Yes
	NonCompliant     int // controls answered No

	Domains      []DomainScore // ordered by first appearance in the control list
	Improvements []Improvement // load order

	Config ScoreConfig // the configuration the result was computed under
}

// Score maps controls and answers to an assessment result.
//
// Every control must have a non-Unanswered entry in answers, otherwise an
// *IncompleteError is returned and nothing is scored. A Yes earns the
// control's effective weight; a No contributes the weight to the total only;
// an N/A contributes to neither. Summation follows control load order, so
// results are bit-identical across runs for identical inputs.
func Score(controls []Control, answers map[string]Answer, cfg ScoreConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scoring config")
	}
	if len(controls) == 0 {
		return nil, errors.New("no controls to score")
	}

	var missing []string
	for _, c := range controls {
		if answers[c.ID] == Unanswered {
			missing = append(missing, c.ID)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	result := &Result{
		TotalControls: len(controls),
		Config:        cfg,
	}

	domainIndex := make(map[string]int)
	for _, c := range controls {
		idx, ok := domainIndex[c.Domain]
		if !ok {
			idx = len(result.Domains)
			domainIndex[c.Domain] = idx
			result.Domains = append(result.Domains, DomainScore{Name: c.Domain})
		}

		if c.Critical {
			result.CriticalControls++
		}

		weight := c.Weight
		if c.Critical {
			weight *= cfg.CriticalMultiplier
		}

		switch answers[c.ID] {
		case Yes:
			result.Compliant++
			result.Domains[idx].Earned += weight
			result.Domains[idx].Total += weight
		case No:
			result.NonCompliant++
			result.Domains[idx].Total += weight
			if c.Critical {
				result.CriticalFailures++
			}
			result.Improvements = append(result.Improvements, Improvement{
				ID:      c.ID,
				Domain:  c.Domain,
				Text:    c.Text,
				Tip:     c.Tip,
				Control: c.Control,
			})
		default:
			// N/A (and anything else the caller supplied) is excluded from
			// both earned and total, per the verbatim-acceptance contract.
		}
	}

	var earned, total float64
	for i := range result.Domains {
		d := &result.Domains[i]
		if d.Total > 0 {
			d.Score = 100 * d.Earned / d.Total
		}
		earned += d.Earned
		total += d.Total
	}
	if total > 0 {
		result.OverallScore = 100 * earned / total
	}

	result.Verdict = verdictFor(result.OverallScore, cfg)
	result.Risk = riskFor(result.OverallScore, result.CriticalFailures)
	return result, nil
}

func verdictFor(score float64, cfg ScoreConfig) Verdict {
	switch {
	case score >= cfg.PassThreshold:
		return VerdictPass
	case score >= cfg.ImproveThreshold:
		return VerdictImprove
	default:
		return VerdictFail
	}
}

func riskFor(score float64, criticalFailures int) RiskLevel {
	switch {
	case score >= 85 && criticalFailures == 0:
		return RiskLow
	case score >= 60 && criticalFailures <= 2:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// WeakestDomains returns up to n domains ordered by ascending score. Ties keep
// the original domain order. The receiver is not modified.
func (r *Result) WeakestDomains(n int) []DomainScore {
	sorted := r.DomainsByScore()
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// DomainsByScore returns all domains ordered by ascending score. Ties keep the
// original domain order. The receiver is not modified.
func (r *Result) DomainsByScore() []DomainScore {
	sorted := make([]DomainScore, len(r.Domains))
	copy(sorted, r.Domains)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})
	return sorted
}
