package posture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuestionnaire = `
domains:
  - name: Governance & Compliance (R.A. 10173)
    desc: Organizational accountability
    questions:
      - id: gov-1
        text: Is a Data Protection Officer appointed?
        ref: ["NPC Circular 16-01"]
        weight: 2
        critical: true
        tip: Appoint and register a DPO.
        control: GV.OC-01
      - id: gov-2
        text: Is there a privacy management program?
  - name: Security Measures
    questions:
      - id: sec-1
        text: Is MFA enforced for privileged accounts?
        critical: true
`

func TestParseControls(t *testing.T) {
	controls, err := ParseControls([]byte(sampleQuestionnaire))
	require.NoError(t, err)
	require.Len(t, controls, 3)

	first := controls[0]
	assert.Equal(t, "gov-1", first.ID)
	assert.Equal(t, "Governance & Compliance (R.A. 10173)", first.Domain)
	assert.Equal(t, "Organizational accountability", first.DomainDesc)
	assert.Equal(t, []string{"NPC Circular 16-01"}, first.Ref)
	assert.Equal(t, 2.0, first.Weight)
	assert.True(t, first.Critical)
	assert.Equal(t, "GV.OC-01", first.Control)

	// Omitted weight defaults to 1.0.
	assert.Equal(t, 1.0, controls[1].Weight)

	// Load order follows document order across domains.
	assert.Equal(t, []string{"gov-1", "gov-2", "sec-1"},
		[]string{controls[0].ID, controls[1].ID, controls[2].ID})
}

func TestParseControlsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "domains: ["},
		{"no domains", "domains: []"},
		{"empty domain name", "domains:\n  - name: \"\"\n    questions:\n      - id: a"},
		{"question without id", "domains:\n  - name: D\n    questions:\n      - text: hello"},
		{"duplicate id", "domains:\n  - name: D\n    questions:\n      - id: a\n      - id: a"},
		{"negative weight", "domains:\n  - name: D\n    questions:\n      - id: a\n        weight: -1"},
		{"no questions", "domains:\n  - name: D\n    questions: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseControls([]byte(tt.yaml))
			require.Error(t, err)
			_, ok := err.(*ConfigError)
			assert.True(t, ok, "expected *ConfigError, got %T", err)
		})
	}
}

func TestLoadControlsMissingFile(t *testing.T) {
	_, err := LoadControls("does-not-exist.yaml")
	require.Error(t, err)

	ce, ok := err.(*ConfigError)
	require.True(t, ok, "expected *ConfigError, got %T", err)
	assert.Equal(t, "does-not-exist.yaml", ce.Path)
}
