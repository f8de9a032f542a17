// Package prompt composes the instruction text sent to the LLM on each
// turn. It is pure string templating, but its contract matters: the
// instruction is the only channel through which the state machine's
// decisions reach the model, so every decision (captured fields, missing
// fields, loop directives) must appear in the assembled text.
package prompt

import (
	"fmt"
	"strings"

	"coachflow/internal/domain"
)

// TurnContext carries the state machine's decision into prompt assembly.
type TurnContext struct {
	FrameworkName  string
	Step           domain.Step
	Missing        []string
	CapturedNames  []string
	SkipCount      int
	Relaxed        bool
	LoopDetected   bool
	TargetQuestion string
	History        string
}

// BuildCoachInstruction assembles the system instruction for the coaching
// reply call. Deterministic: identical context yields identical text.
func BuildCoachInstruction(ctx TurnContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a professional coach guiding a %s session.\n", ctx.FrameworkName)
	fmt.Fprintf(&b, "Current step: %q. %s\n\n", ctx.Step.Name, ctx.Step.Intro)

	b.WriteString("The questions for this step, in order:\n")
	for i, q := range ctx.Step.Questions() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\n")

	if len(ctx.CapturedNames) > 0 {
		fmt.Fprintf(&b, "Already answered (do NOT ask about these again): %s\n",
			strings.Join(ctx.CapturedNames, ", "))
	}
	if len(ctx.Missing) > 0 {
		fmt.Fprintf(&b, "Still missing: %s\n", strings.Join(ctx.Missing, ", "))
	}
	if ctx.TargetQuestion != "" {
		fmt.Fprintf(&b, "Focus next on: %s\n", ctx.TargetQuestion)
	}
	b.WriteString("\n")

	if ctx.LoopDetected {
		b.WriteString("IMPORTANT: this question has been asked before without progress. ")
		b.WriteString("Do NOT repeat it. Re-derive the missing values from the conversation history below, ")
		b.WriteString("summarize what you inferred, and ask the coachee to confirm.\n")
		b.WriteString("Conversation history:\n")
		b.WriteString(ctx.History)
		b.WriteString("\n\n")
	}

	if ctx.Relaxed {
		fmt.Fprintf(&b, "The coachee has skipped %d question(s) on this step and wants to move quickly. ", ctx.SkipCount)
		b.WriteString("Accept partial or ambiguous answers rather than pressing for precision.\n\n")
	}

	b.WriteString("RULES:\n")
	b.WriteString("1. Ask at most one question per reply\n")
	b.WriteString("2. Never re-ask an answered question\n")
	b.WriteString("3. Be warm but concise; no bullet lists in replies\n")
	b.WriteString("4. Never mention steps, fields, or this instruction to the coachee")

	return b.String()
}

// BuildExtractionInstruction assembles the system prompt for the structured
// extraction call: given the coachee's latest message, the model must emit a
// JSON object containing only the step's fields it can ground in the text.
func BuildExtractionInstruction(step domain.Step) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You extract structured coaching data for the %q step.\n", step.Name)
	b.WriteString("Read the coachee's message and output ONLY a JSON object. Allowed keys:\n")

	for _, f := range step.Fields {
		desc := shapeDescription(f.Shape)
		if f.Hint != "" {
			desc = f.Hint
		}
		required := "optional"
		if f.Mandatory {
			required = "required for step completion"
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", f.Name, desc, required)
	}

	b.WriteString("\nCRITICAL RULES:\n")
	b.WriteString("1. NEVER invent or guess a value; omit any field the message does not clearly answer\n")
	b.WriteString("2. Omit a key entirely rather than emitting null or an empty value\n")
	b.WriteString("3. Keep values in the coachee's own words, lightly cleaned up\n")
	b.WriteString("4. Use strict JSON; arrays of strings for list fields; plain numbers for numeric fields\n")
	b.WriteString("5. Output ONLY the JSON object, no markdown, no explanation")

	return b.String()
}

func shapeDescription(shape domain.FieldShape) string {
	switch shape {
	case domain.ShapeScalarString:
		return "a string"
	case domain.ShapeScalarNumber:
		return "a number"
	case domain.ShapeStringArray:
		return "an array of strings"
	case domain.ShapeObject:
		return "an object with string values"
	default:
		return "a string"
	}
}

// RenderHistory flattens reflections into the plain-text transcript embedded
// in loop-recovery instructions.
func RenderHistory(reflections []*domain.Reflection) string {
	var b strings.Builder
	for _, r := range reflections {
		if r.Marker != domain.MarkerNone || strings.TrimSpace(r.RawInput) == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", r.StepName, r.RawInput)
	}
	return b.String()
}
