package posture

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Questionnaire is the on-disk shape of a control set: domains containing
// weighted yes/no/n-a questions.
type Questionnaire struct {
	Domains []Domain `yaml:"domains"`
}

// Domain is a named grouping of questions.
type Domain struct {
	Name      string     `yaml:"name"`
	Desc      string     `yaml:"desc"`
	Questions []Question `yaml:"questions"`
}

// Question is a single control as authored in the questionnaire file.
type Question struct {
	ID       string   `yaml:"id"`
	Text     string   `yaml:"text"`
	Ref      []string `yaml:"ref"`
	Weight   float64  `yaml:"weight"`
	Critical bool     `yaml:"critical"`
	Tip      string   `yaml:"tip"`
	Control  string   `yaml:"control"`
}

// Control is a flattened, load-ordered control record. Controls are loaded
// once and immutable thereafter; all scoring iterates them in this order so
// floating-point aggregation is reproducible run to run.
type Control struct {
	ID         string
	Domain     string
	DomainDesc string
	Text       string
	Ref        []string
	Weight     float64
	Critical   bool
	Tip        string
	Control    string // mapped control name, e.g. a framework reference
}

// LoadControls reads a questionnaire YAML file and flattens it into the
// ordered control list. Any structural problem is a *ConfigError.
func LoadControls(path string) ([]Control, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}
	controls, err := ParseControls(data)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.Path = path
			return nil, ce
		}
		return nil, errors.Wrapf(err, "failed to load questionnaire %s", path)
	}
	return controls, nil
}

// ParseControls parses questionnaire YAML bytes and flattens them.
func ParseControls(data []byte) ([]Control, error) {
	var q Questionnaire
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, &ConfigError{Reason: errors.Wrap(err, "failed to parse YAML").Error()}
	}
	return q.Flatten()
}

// Flatten converts the nested questionnaire into the ordered control list,
// applying defaults (weight 1.0) and validating structure.
func (q Questionnaire) Flatten() ([]Control, error) {
	if len(q.Domains) == 0 {
		return nil, &ConfigError{Reason: "no domains defined"}
	}

	var controls []Control
	seen := make(map[string]bool)
	for _, d := range q.Domains {
		if d.Name == "" {
			return nil, &ConfigError{Reason: "domain with empty name"}
		}
		for _, question := range d.Questions {
			if question.ID == "" {
				return nil, &ConfigError{Reason: "question without id in domain " + d.Name}
			}
			if seen[question.ID] {
				return nil, &ConfigError{Reason: "duplicate question id " + question.ID}
			}
			seen[question.ID] = true

			weight := question.Weight
			if weight == 0 {
				weight = 1.0
			}
			if weight < 0 {
				return nil, &ConfigError{Reason: "negative weight on question " + question.ID}
			}

			controls = append(controls, Control{
				ID:         question.ID,
				Domain:     d.Name,
				DomainDesc: d.Desc,
				Text:       question.Text,
				Ref:        question.Ref,
				Weight:     weight,
				Critical:   question.Critical,
				Tip:        question.Tip,
				Control:    question.Control,
			})
		}
	}
	if len(controls) == 0 {
		return nil, &ConfigError{Reason: "no questions defined"}
	}
	return controls, nil
}
