package intelligence

import (
	"fmt"
	"strings"
)

// ReplyContext carries the turn decision facts the fallback needs.
type ReplyContext struct {
	StepName       string
	StepIntro      string
	TargetQuestion string
	StepAdvanced   bool
	SessionClosed  bool
	LoopDetected   bool
}

// FallbackReply renders a deterministic coach message when the LLM is
// disabled or failed. The coachee sees the step's own question verbatim,
// never a system error.
func FallbackReply(ctx ReplyContext) string {
	var b strings.Builder

	switch {
	case ctx.SessionClosed:
		b.WriteString("That completes the session. Well done. Your reflections have been saved.")
		return b.String()

	case ctx.StepAdvanced:
		fmt.Fprintf(&b, "Thanks, that covers this part. Moving on to %q.", ctx.StepName)
		if ctx.StepIntro != "" {
			b.WriteString(" ")
			b.WriteString(ctx.StepIntro)
		}
		if ctx.TargetQuestion != "" {
			b.WriteString("\n\n")
			b.WriteString(ctx.TargetQuestion)
		}
		return b.String()

	case ctx.LoopDetected:
		b.WriteString("Let me put that differently, because I think we may be going in circles. ")
		b.WriteString("Feel free to answer in your own words, or skip this question.")
		if ctx.TargetQuestion != "" {
			b.WriteString("\n\n")
			b.WriteString(ctx.TargetQuestion)
		}
		return b.String()

	default:
		if ctx.TargetQuestion != "" {
			b.WriteString(ctx.TargetQuestion)
		} else {
			b.WriteString("Please continue.")
		}
		return b.String()
	}
}
