// Package engine implements the step state machine that drives a coaching
// session: per-turn field capture, skip budgets, loop detection, and the
// transition rules into the next step. The engine holds no global state;
// everything it needs arrives as explicit arguments, and the only mutation
// it performs is on the session passed in.
package engine

import (
	"fmt"
	"time"

	"coachflow/internal/domain"
	"coachflow/internal/extraction"
	"coachflow/internal/registry"
)

// Decision is the outcome of processing one turn. It carries everything
// prompt assembly and the rendering layer need.
type Decision struct {
	// CompletedStep names the step that just finished, empty when the
	// session stayed on its current step.
	CompletedStep string

	// CurrentStep is the session's step after the turn (StepClosed when the
	// session ended).
	CurrentStep string

	StepAdvanced  bool
	SessionClosed bool
	LoopDetected  bool
	Relaxed       bool

	// Missing lists mandatory fields still unanswered, in declaration order.
	Missing []string

	// Captured is a snapshot of all fields captured on the step so far.
	Captured map[string]domain.FieldValue

	// TargetQuestion is the next question to ask; empty when advancing.
	TargetQuestion string

	// Validation is the raw validator verdict for this turn's candidate.
	Validation extraction.ValidationResult
}

// SkipResult reports the effect of a user skip action.
type SkipResult struct {
	SkipCount       int
	Relaxed         bool
	BudgetExhausted bool
}

// ProcessTurn runs one turn of the state machine: validate the candidate
// payload, merge captured fields (last-writer-wins), detect loops, and
// decide whether to stay, advance, or close the session.
//
// captured is the accumulated state for the current step, rebuilt by the
// caller from the step's reflections; ProcessTurn merges into it. The
// session is mutated in place (step transition, counters, close timestamp).
// The engine never fails on bad candidate data; the only error is a
// session whose current step does not exist in its framework.
func ProcessTurn(fw domain.Framework, sess *domain.Session, captured map[string]domain.FieldValue, candidate any, now time.Time) (Decision, error) {
	step, ok := fw.StepByName(sess.CurrentStep)
	if !ok {
		return Decision{}, fmt.Errorf("session %s: %w: %q in framework %q",
			sess.ID, registry.ErrUnknownStep, sess.CurrentStep, fw.ID)
	}
	if captured == nil {
		captured = map[string]domain.FieldValue{}
	}

	skipCount := sess.SkipCount(step.Name)
	relaxed := skipCount >= fw.SkipPolicy.RelaxAfter && fw.SkipPolicy.RelaxAfter > 0

	var verdict extraction.ValidationResult
	if relaxed {
		verdict = extraction.ValidateRelaxed(candidate, step.Fields)
	} else {
		verdict = extraction.Validate(candidate, step.Fields)
	}

	// Merge, overwriting previous values for the same field. A field once
	// captured is never un-captured by the engine.
	newMandatory := false
	for name, value := range verdict.Present {
		if spec, ok := step.FieldByName(name); ok && spec.Mandatory {
			if _, had := captured[name]; !had {
				newMandatory = true
			}
		}
		captured[name] = value
	}

	missing := missingMandatory(step, captured)
	forced := skipCount >= fw.SkipPolicy.MaxSkips

	decision := Decision{
		Missing:    missing,
		Captured:   snapshot(captured),
		Relaxed:    relaxed,
		Validation: verdict,
	}

	if len(missing) == 0 || forced {
		decision.CompletedStep = step.Name
		if fw.IsTerminal(step.Name) {
			sess.Close(now)
			decision.SessionClosed = true
		} else {
			next, _ := fw.NextStep(step.Name)
			sess.EnterStep(next)
			decision.StepAdvanced = true
		}
		decision.CurrentStep = sess.CurrentStep
		return decision, nil
	}

	target := nextQuestion(step, missing)

	// Loop detection: the question we are about to ask is the one we asked
	// last turn and this turn captured nothing new. Flagged from the second
	// consecutive repeat; prompt assembly then forces extraction from the
	// conversation history instead of re-asking.
	if target != "" && target == sess.LastQuestion && !newMandatory {
		decision.LoopDetected = true
	}

	sess.TurnsOnStep++
	sess.LastQuestion = target

	decision.CurrentStep = step.Name
	decision.TargetQuestion = target
	return decision, nil
}

// ApplySkip records a user-driven skip on the session's current step. Skips
// beyond the budget are a no-op; the forced completion happens on the next
// ProcessTurn call.
func ApplySkip(fw domain.Framework, sess *domain.Session) (SkipResult, error) {
	if !fw.HasStep(sess.CurrentStep) {
		return SkipResult{}, fmt.Errorf("session %s: %w: %q in framework %q",
			sess.ID, registry.ErrUnknownStep, sess.CurrentStep, fw.ID)
	}

	count := sess.RecordSkip(sess.CurrentStep, fw.SkipPolicy.MaxSkips)
	return SkipResult{
		SkipCount:       count,
		Relaxed:         count >= fw.SkipPolicy.RelaxAfter && fw.SkipPolicy.RelaxAfter > 0,
		BudgetExhausted: count >= fw.SkipPolicy.MaxSkips,
	}, nil
}

// RebuildCaptured reconstructs the captured state for a step from its
// reflections, last-value-wins per field. Reflections must be in creation
// order; markers and other steps' reflections are ignored.
func RebuildCaptured(stepName string, reflections []*domain.Reflection) map[string]domain.FieldValue {
	captured := map[string]domain.FieldValue{}
	for _, r := range reflections {
		if r.StepName != stepName || r.Marker != domain.MarkerNone {
			continue
		}
		for name, value := range r.Payload {
			captured[name] = value
		}
	}
	return captured
}

func missingMandatory(step domain.Step, captured map[string]domain.FieldValue) []string {
	var missing []string
	for _, name := range step.MandatoryFields() {
		if _, ok := captured[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// nextQuestion returns the question for the first missing mandatory field.
func nextQuestion(step domain.Step, missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	if spec, ok := step.FieldByName(missing[0]); ok {
		return spec.Question
	}
	return ""
}

func snapshot(captured map[string]domain.FieldValue) map[string]domain.FieldValue {
	out := make(map[string]domain.FieldValue, len(captured))
	for k, v := range captured {
		out[k] = v
	}
	return out
}
