package formatter

import (
	"testing"
	"time"

	"coachflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleSession() *domain.Session {
	return &domain.Session{
		ID:          "0b5fcd1e-9d3a-4a77-9a57-1d2c3e4f5a6b",
		UserID:      "user-1",
		FrameworkID: "GROW",
		CurrentStep: "reality",
		SkipCounts:  map[string]int{},
		StartedAt:   time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
	}
}

func TestFormatSessionDetail(t *testing.T) {
	s := sampleSession()
	captured := map[string]domain.FieldValue{
		"current_state": domain.StringValue("acting lead"),
	}
	missing := []string{"constraints", "resources"}
	reflections := []*domain.Reflection{
		{StepName: "goal", RawInput: "I want a promotion"},
		{StepName: "goal", Marker: domain.MarkerStepCompleted},
	}

	out := FormatSessionDetail(s, captured, missing, reflections)
	assert.Contains(t, out, "0b5fcd1e")
	assert.Contains(t, out, "GROW")
	assert.Contains(t, out, "reality")
	assert.Contains(t, out, "acting lead")
	assert.Contains(t, out, "constraints, resources")
	assert.Contains(t, out, "I want a promotion")
	assert.Contains(t, out, `completed "goal"`)
}

func TestFormatStatsReport(t *testing.T) {
	out := FormatStatsReport(&domain.StatsReport{
		WindowDays:        30,
		TotalSessions:     4,
		ClosedSessions:    3,
		ActiveSessions:    1,
		CompletionRate:    0.75,
		AvgTurnsPerClosed: 6.5,
		ByFramework: []domain.FrameworkStats{
			{FrameworkID: "GROW", Total: 3, Closed: 2},
		},
	})
	assert.Contains(t, out, "4 total, 3 closed, 1 active")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "6.5")
	assert.Contains(t, out, "GROW")
}

func TestFormatFramework(t *testing.T) {
	fw := domain.Framework{
		ID:          "GROW",
		Name:        "GROW",
		Description: "Classic coaching arc.",
		SkipPolicy:  domain.DefaultSkipPolicy(),
		Steps: []domain.Step{
			{Name: "goal", Ordinal: 0, Intro: "Clarify the goal.",
				Fields: []domain.FieldSpec{
					{Name: "desired_outcome", Shape: domain.ShapeScalarString, Mandatory: true},
					{Name: "motivation", Shape: domain.ShapeScalarString},
				}},
		},
	}
	out := FormatFramework(fw)
	assert.Contains(t, out, "Classic coaching arc.")
	assert.Contains(t, out, "desired_outcome")
	assert.Contains(t, out, "mandatory")
	assert.Contains(t, out, "optional")
	assert.Contains(t, out, "2 skips per step")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a ver...", Truncate("a very long sentence", 8))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"ID", "STEP"}, [][]string{
		{"abc", "goal"},
		{"defghi", "reality"},
	})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "defghi")
	assert.Contains(t, out, "reality")
}
