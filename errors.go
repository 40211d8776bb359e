package posture

import (
	"fmt"
	"strings"
)

// ConfigError indicates a malformed or missing questionnaire definition.
// It is fatal: nothing can be scored against a broken control set.
type ConfigError struct {
	Path   string // source file, if loaded from disk
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid questionnaire %s: %s", e.Path, e.Reason)
	}
	return "invalid questionnaire: " + e.Reason
}

// IncompleteError indicates that scoring was requested while one or more
// controls are still unanswered. It is recoverable: the caller should collect
// the missing answers and retry. Unanswered is never treated as N/A.
type IncompleteError struct {
	Missing []string // control IDs in load order
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("assessment incomplete: %d unanswered control(s): %s",
		len(e.Missing), strings.Join(e.Missing, ", "))
}

// OverflowError indicates that a single required cell or row is taller than
// one full usable page, so pagination can never make progress.
type OverflowError struct {
	Section string
	Height  float64
	Usable  float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: row height %.1f exceeds usable page height %.1f",
		e.Section, e.Height, e.Usable)
}
