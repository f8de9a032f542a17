package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_CloseIsIdempotent(t *testing.T) {
	s := &Session{ID: "s1", CurrentStep: "review"}

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Close(first)
	require.NotNil(t, s.ClosedAt)
	assert.Equal(t, first, *s.ClosedAt)
	assert.Equal(t, StepClosed, s.CurrentStep)

	s.Close(first.Add(time.Hour))
	assert.Equal(t, first, *s.ClosedAt, "second close must keep the original timestamp")
}

func TestSession_RecordSkipCapsAtMax(t *testing.T) {
	s := &Session{ID: "s1", CurrentStep: "reality"}

	assert.Equal(t, 1, s.RecordSkip("reality", 2))
	assert.Equal(t, 2, s.RecordSkip("reality", 2))
	assert.Equal(t, 2, s.RecordSkip("reality", 2), "skips beyond the cap are a no-op")
}

func TestSession_EnterStepResetsCounters(t *testing.T) {
	s := &Session{
		ID:           "s1",
		CurrentStep:  "reality",
		TurnsOnStep:  4,
		LastQuestion: "What constraints are you facing?",
		SkipCounts:   map[string]int{"reality": 2},
	}

	s.EnterStep("options")

	assert.Equal(t, "options", s.CurrentStep)
	assert.Zero(t, s.TurnsOnStep)
	assert.Empty(t, s.LastQuestion)
	assert.Zero(t, s.SkipCount("options"))
	assert.Equal(t, 2, s.SkipCount("reality"), "counts for left steps are retained")
}
