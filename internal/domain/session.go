package domain

import "time"

// Session is one user's run through a framework, from start to terminal-step
// completion or abandonment. One logical writer at a time; all turns for a
// session are processed strictly sequentially.
type Session struct {
	ID          string
	OrgID       string
	UserID      string
	FrameworkID string

	// CurrentStep is a valid step name within the framework, or StepClosed.
	CurrentStep string

	// SkipCounts maps step name to the number of user skips issued on that
	// step. Monotonically non-decreasing within a step; entries for left
	// steps are retained for the audit trail.
	SkipCounts map[string]int

	// TurnsOnStep counts turns spent on the current step without advancing.
	TurnsOnStep int

	// LastQuestion is the question most recently asked on the current step,
	// used for loop detection across turns.
	LastQuestion string

	StartedAt time.Time
	ClosedAt  *time.Time
}

// IsClosed reports whether the session has ended.
func (s *Session) IsClosed() bool {
	return s.ClosedAt != nil
}

// Close marks the session closed at the given time. Idempotent: closing an
// already-closed session keeps the original timestamp.
func (s *Session) Close(now time.Time) {
	if s.ClosedAt != nil {
		return
	}
	t := now.UTC()
	s.ClosedAt = &t
	s.CurrentStep = StepClosed
}

// SkipCount returns the skip count for the named step.
func (s *Session) SkipCount(step string) int {
	if s.SkipCounts == nil {
		return 0
	}
	return s.SkipCounts[step]
}

// RecordSkip increments the skip count for the named step, capped at max.
// Returns the new count.
func (s *Session) RecordSkip(step string, max int) int {
	if s.SkipCounts == nil {
		s.SkipCounts = map[string]int{}
	}
	if s.SkipCounts[step] < max {
		s.SkipCounts[step]++
	}
	return s.SkipCounts[step]
}

// EnterStep moves the session onto a new step and resets the per-step
// counters. Skip counts for the new step start at zero.
func (s *Session) EnterStep(step string) {
	s.CurrentStep = step
	s.TurnsOnStep = 0
	s.LastQuestion = ""
	if s.SkipCounts == nil {
		s.SkipCounts = map[string]int{}
	}
	s.SkipCounts[step] = 0
}

// Reflection is an immutable record of one conversational turn: the raw user
// input and the validated extracted payload. Reflections are append-only and
// totally ordered by creation time within a session.
type Reflection struct {
	ID        string
	SessionID string
	StepName  string
	RawInput  string // empty for system-only turns
	Payload   map[string]FieldValue
	Marker    ReflectionMarker
	CreatedAt time.Time
}

// StatsReport is a simple aggregation over sessions, consumed by the stats
// command. Computed from closed and active sessions; no side effects.
type StatsReport struct {
	WindowDays        int
	TotalSessions     int
	ClosedSessions    int
	ActiveSessions    int
	CompletionRate    float64 // closed / total, 0 when no sessions
	AvgTurnsPerClosed float64
	ByFramework       []FrameworkStats
}

// FrameworkStats is the per-framework slice of a StatsReport.
type FrameworkStats struct {
	FrameworkID string
	Total       int
	Closed      int
}
