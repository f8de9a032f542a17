package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coachflow/internal/domain"
)

// FrameworkDefinition is the on-disk JSON structure for a custom framework.
type FrameworkDefinition struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	SkipPolicy  *SkipPolicyDef   `json:"skip_policy,omitempty"`
	Steps       []StepDefinition `json:"steps"`
}

type SkipPolicyDef struct {
	MaxSkips   int `json:"max_skips"`
	RelaxAfter int `json:"relax_after"`
}

type StepDefinition struct {
	Name   string          `json:"name"`
	Intro  string          `json:"intro,omitempty"`
	Fields []FieldSpecDef  `json:"fields"`
}

type FieldSpecDef struct {
	Name      string `json:"name"`
	Shape     string `json:"shape"`
	Mandatory bool   `json:"mandatory"`
	Question  string `json:"question"`
	Hint      string `json:"hint,omitempty"`
}

// ValidateDefinition checks a framework definition for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateDefinition(def *FrameworkDefinition) []error {
	var errs []error

	if def.ID == "" {
		errs = append(errs, fmt.Errorf("framework id is required"))
	}
	if def.Name == "" {
		errs = append(errs, fmt.Errorf("framework name is required"))
	}
	if len(def.Steps) == 0 {
		errs = append(errs, fmt.Errorf("at least one step is required"))
	}
	if def.ID == domain.StepClosed {
		errs = append(errs, fmt.Errorf("framework id %q is reserved", domain.StepClosed))
	}

	if sp := def.SkipPolicy; sp != nil {
		if sp.MaxSkips < 1 {
			errs = append(errs, fmt.Errorf("skip_policy.max_skips must be >= 1"))
		}
		if sp.RelaxAfter < 1 || sp.RelaxAfter > sp.MaxSkips {
			errs = append(errs, fmt.Errorf("skip_policy.relax_after must be in [1, max_skips]"))
		}
	}

	stepNames := map[string]bool{}
	for i, s := range def.Steps {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("step[%d]: name is required", i))
		}
		if s.Name == domain.StepClosed {
			errs = append(errs, fmt.Errorf("step[%d]: name %q is reserved", i, domain.StepClosed))
		}
		if stepNames[s.Name] {
			errs = append(errs, fmt.Errorf("step[%d]: duplicate name %q", i, s.Name))
		}
		stepNames[s.Name] = true

		if len(s.Fields) == 0 {
			errs = append(errs, fmt.Errorf("step[%d] %q: at least one field is required", i, s.Name))
		}

		fieldNames := map[string]bool{}
		for j, f := range s.Fields {
			if f.Name == "" {
				errs = append(errs, fmt.Errorf("step[%d].field[%d]: name is required", i, j))
			}
			if !domain.ValidFieldShapes[f.Shape] {
				errs = append(errs, fmt.Errorf("step[%d].field[%d]: unknown shape %q", i, j, f.Shape))
			}
			if f.Question == "" {
				errs = append(errs, fmt.Errorf("step[%d].field[%d]: question is required", i, j))
			}
			if fieldNames[f.Name] {
				errs = append(errs, fmt.Errorf("step[%d].field[%d]: duplicate name %q", i, j, f.Name))
			}
			fieldNames[f.Name] = true
		}
	}

	return errs
}

// ToFramework converts a validated definition into a domain framework.
func (def *FrameworkDefinition) ToFramework() domain.Framework {
	policy := domain.DefaultSkipPolicy()
	if def.SkipPolicy != nil {
		policy = domain.SkipPolicy{MaxSkips: def.SkipPolicy.MaxSkips, RelaxAfter: def.SkipPolicy.RelaxAfter}
	}

	fw := domain.Framework{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		SkipPolicy:  policy,
	}
	for i, s := range def.Steps {
		step := domain.Step{Name: s.Name, Ordinal: i, Intro: s.Intro}
		for _, f := range s.Fields {
			step.Fields = append(step.Fields, domain.FieldSpec{
				Name:      f.Name,
				Shape:     domain.FieldShape(f.Shape),
				Mandatory: f.Mandatory,
				Question:  f.Question,
				Hint:      f.Hint,
			})
		}
		fw.Steps = append(fw.Steps, step)
	}
	return fw
}

// LoadDir reads every *.json framework definition in dir and registers it.
// A missing directory is not an error; an invalid definition is.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading framework dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading framework file %s: %w", path, err)
		}

		var def FrameworkDefinition
		if err := json.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("parsing framework file %s: %w", path, err)
		}
		if errs := ValidateDefinition(&def); len(errs) > 0 {
			return fmt.Errorf("invalid framework definition %s: %v", path, errs[0])
		}

		r.Register(def.ToFramework())
	}
	return nil
}
