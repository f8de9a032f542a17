package domain

// FieldSpec declares one extractable datum for a step.
type FieldSpec struct {
	Name      string
	Shape     FieldShape
	Mandatory bool
	Question  string
	Hint      string
}

// Step is one stage of a framework. Immutable configuration.
type Step struct {
	Name    string
	Ordinal int
	Intro   string
	Fields  []FieldSpec
}

// MandatoryFields returns the names of mandatory fields in declaration order.
func (s Step) MandatoryFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Mandatory {
			names = append(names, f.Name)
		}
	}
	return names
}

// Questions returns the step's static question list in declaration order.
func (s Step) Questions() []string {
	var qs []string
	for _, f := range s.Fields {
		if f.Question != "" {
			qs = append(qs, f.Question)
		}
	}
	return qs
}

// FieldByName looks up a field spec by name.
func (s Step) FieldByName(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// SkipPolicy is the per-framework skip budget. The numeric policy is data,
// tuned per framework, not a hardcoded engine rule.
//
// RelaxAfter below 1 disables relaxation entirely; loaded definitions are
// validated to keep it in [1, MaxSkips].
type SkipPolicy struct {
	MaxSkips   int // forced step completion at this count
	RelaxAfter int // relaxed validation once skip count reaches this
}

// DefaultSkipPolicy returns the standard two-skip budget with relaxation
// after the first skip.
func DefaultSkipPolicy() SkipPolicy {
	return SkipPolicy{MaxSkips: 2, RelaxAfter: 1}
}

// Framework is a named, ordered sequence of coaching steps. Immutable
// configuration, loaded at startup and shared read-only across sessions.
type Framework struct {
	ID          string
	Name        string
	Description string
	Steps       []Step
	SkipPolicy  SkipPolicy
}

// FirstStep returns the name of the framework's first step.
func (f Framework) FirstStep() string {
	if len(f.Steps) == 0 {
		return ""
	}
	return f.Steps[0].Name
}

// StepByName looks up a step by name.
func (f Framework) StepByName(name string) (Step, bool) {
	for _, s := range f.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// NextStep returns the successor of the named step. The second return is
// false when the step is terminal. This is the single authoritative source
// of step order; nothing else compares step names.
func (f Framework) NextStep(name string) (string, bool) {
	for i, s := range f.Steps {
		if s.Name == name {
			if i+1 < len(f.Steps) {
				return f.Steps[i+1].Name, true
			}
			return "", false
		}
	}
	return "", false
}

// IsTerminal reports whether the named step is the framework's last step.
func (f Framework) IsTerminal(name string) bool {
	if len(f.Steps) == 0 {
		return false
	}
	return f.Steps[len(f.Steps)-1].Name == name
}

// HasStep reports whether the framework contains the named step.
func (f Framework) HasStep(name string) bool {
	_, ok := f.StepByName(name)
	return ok
}
