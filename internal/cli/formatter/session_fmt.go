package formatter

import (
	"fmt"
	"sort"
	"strings"

	"coachflow/internal/domain"
)

// FormatCoachReply renders the coach's message with a speaker label.
func FormatCoachReply(reply string) string {
	return StyleGreen.Render("coach") + Dim(" │ ") + reply
}

// FormatSessionLine is the one-line summary used by session list rows.
func FormatSessionLine(s *domain.Session) []string {
	return []string{
		TruncID(s.ID),
		s.FrameworkID,
		s.CurrentStep,
		StatusIndicator(s.IsClosed()),
		HumanTimestamp(s.StartedAt),
	}
}

// FormatSessionDetail renders a session with its capture state and history.
func FormatSessionDetail(s *domain.Session, captured map[string]domain.FieldValue, missing []string, reflections []*domain.Reflection) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Session %s", TruncID(s.ID))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Bold("Framework:"), s.FrameworkID)
	fmt.Fprintf(&b, "%s %s\n", Bold("Step:"), s.CurrentStep)
	fmt.Fprintf(&b, "%s %s\n", Bold("Status:"), StatusIndicator(s.IsClosed()))
	fmt.Fprintf(&b, "%s %s\n", Bold("Started:"), HumanTimestamp(s.StartedAt))
	if s.ClosedAt != nil {
		fmt.Fprintf(&b, "%s %s\n", Bold("Closed:"), HumanTimestamp(*s.ClosedAt))
	}

	if len(captured) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Captured"))
		b.WriteString("\n")
		names := make([]string, 0, len(captured))
		for name := range captured {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  %s %s\n", StyleBlue.Render(name+":"), captured[name].Display())
		}
	}
	if len(missing) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s\n", Bold("Still missing:"), Dim(strings.Join(missing, ", ")))
	}

	if len(reflections) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Reflections"))
		b.WriteString("\n")
		for _, r := range reflections {
			switch r.Marker {
			case domain.MarkerStepCompleted:
				fmt.Fprintf(&b, "  %s\n", StyleGreen.Render(fmt.Sprintf("✓ completed %q", r.StepName)))
			case domain.MarkerSessionClosed:
				fmt.Fprintf(&b, "  %s\n", StyleGreen.Render("✓ session closed"))
			default:
				fmt.Fprintf(&b, "  %s %s\n", Dim("["+r.StepName+"]"), Truncate(r.RawInput, 70))
			}
		}
	}

	return b.String()
}

// FormatStatsReport renders the aggregated session statistics.
func FormatStatsReport(report *domain.StatsReport) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Last %d days", report.WindowDays)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d total, %d closed, %d active\n",
		Bold("Sessions:"), report.TotalSessions, report.ClosedSessions, report.ActiveSessions)
	fmt.Fprintf(&b, "%s %s\n", Bold("Completion rate:"), Percent(report.CompletionRate))
	fmt.Fprintf(&b, "%s %.1f\n", Bold("Avg turns per closed session:"), report.AvgTurnsPerClosed)

	if len(report.ByFramework) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(report.ByFramework))
		for _, fs := range report.ByFramework {
			rows = append(rows, []string{
				fs.FrameworkID,
				fmt.Sprintf("%d", fs.Total),
				fmt.Sprintf("%d", fs.Closed),
			})
		}
		b.WriteString(RenderTable([]string{"FRAMEWORK", "TOTAL", "CLOSED"}, rows))
	}

	return b.String()
}

// FormatFramework renders a framework's step and field layout.
func FormatFramework(fw domain.Framework) string {
	var b strings.Builder

	b.WriteString(Header(fw.Name))
	b.WriteString("\n")
	b.WriteString(Dim(fw.Description))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d skips per step, relaxed after %d\n",
		Bold("Skip budget:"), fw.SkipPolicy.MaxSkips, fw.SkipPolicy.RelaxAfter)

	for _, step := range fw.Steps {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(fmt.Sprintf("%d.", step.Ordinal+1)), Bold(step.Name))
		fmt.Fprintf(&b, "   %s\n", Dim(step.Intro))
		for _, f := range step.Fields {
			tag := Dim("optional")
			if f.Mandatory {
				tag = StyleYellow.Render("mandatory")
			}
			fmt.Fprintf(&b, "   %s %s (%s, %s)\n", StyleBlue.Render("•"), f.Name, f.Shape, tag)
		}
	}

	return b.String()
}

// FormatChatWelcome is the opening banner of the interactive chat.
func FormatChatWelcome(frameworkName, stepName string) string {
	return Dim(fmt.Sprintf(
		"Interactive %s session, starting at %q. Type your answers, /skip to skip a question, /quit to leave.",
		frameworkName, stepName))
}
