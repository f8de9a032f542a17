// Package registry holds the field schema registry: for each (framework,
// step) pair it declares the extractable fields, which are mandatory, and
// the static question list. Pure lookup over immutable configuration.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"coachflow/internal/domain"
)

var (
	// ErrUnknownFramework indicates a lookup for a framework that is not
	// registered. Configuration error, not user-retryable.
	ErrUnknownFramework = errors.New("unknown framework")

	// ErrUnknownStep indicates a lookup for a step that does not exist in
	// its framework. Indicates a corrupted session or definition.
	ErrUnknownStep = errors.New("unknown step")
)

// Registry is a read-only lookup of coaching frameworks. Safe for concurrent
// readers after construction.
type Registry struct {
	frameworks map[string]domain.Framework
}

// New creates a registry preloaded with the built-in frameworks.
func New() *Registry {
	r := &Registry{frameworks: map[string]domain.Framework{}}
	for _, fw := range builtinFrameworks() {
		r.frameworks[fw.ID] = fw
	}
	return r
}

// Register adds or replaces a framework. Intended for startup wiring only;
// the registry is not safe for registration after readers have started.
func (r *Registry) Register(fw domain.Framework) {
	r.frameworks[fw.ID] = fw
}

// Get returns the framework with the given ID.
func (r *Registry) Get(id string) (domain.Framework, error) {
	fw, ok := r.frameworks[id]
	if !ok {
		return domain.Framework{}, fmt.Errorf("%w: %q", ErrUnknownFramework, id)
	}
	return fw, nil
}

// List returns all registered frameworks ordered by ID.
func (r *Registry) List() []domain.Framework {
	out := make([]domain.Framework, 0, len(r.frameworks))
	for _, fw := range r.frameworks {
		out = append(out, fw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FieldSpecs returns the field specs for the given (framework, step) pair.
func (r *Registry) FieldSpecs(frameworkID, stepName string) ([]domain.FieldSpec, error) {
	step, err := r.step(frameworkID, stepName)
	if err != nil {
		return nil, err
	}
	return step.Fields, nil
}

// Questions returns the ordered static question list for the given
// (framework, step) pair.
func (r *Registry) Questions(frameworkID, stepName string) ([]string, error) {
	step, err := r.step(frameworkID, stepName)
	if err != nil {
		return nil, err
	}
	return step.Questions(), nil
}

func (r *Registry) step(frameworkID, stepName string) (domain.Step, error) {
	fw, err := r.Get(frameworkID)
	if err != nil {
		return domain.Step{}, err
	}
	step, ok := fw.StepByName(stepName)
	if !ok {
		return domain.Step{}, fmt.Errorf("%w: %q in framework %q", ErrUnknownStep, stepName, frameworkID)
	}
	return step, nil
}
