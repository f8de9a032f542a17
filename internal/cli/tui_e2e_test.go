package cli

import (
	"context"
	"testing"

	"coachflow/internal/service"
	"coachflow/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drives a full GROW session through the chat view, one answer per step,
// down to the closing message.
func TestChat_FullSessionToClose(t *testing.T) {
	app := newTestApp(t, &queuedExtractor{payloads: []map[string]any{
		{"desired_outcome": "lead the platform team"},
		{
			"current_state": "acting lead",
			"constraints":   []any{"no headcount"},
			"resources":     []any{"supportive manager"},
			"risks":         []any{"burnout"},
		},
		{"options": []any{"internal posting"}},
		{"next_actions": []any{"talk to my manager"}, "commitment_level": 8},
		{"key_insight": "I need the mandate", "satisfaction_score": 9},
	}})

	started, err := app.Sessions.Start(context.Background(), service.StartRequest{
		UserID: "u", FrameworkID: "GROW",
	})
	require.NoError(t, err)

	d := teatest.New(t, newChatView(app, started.Session.ID, "GROW", "goal"))
	d.DrainInit()

	d.Submit("I want to lead the platform team")
	assert.Contains(t, d.View(), `completed "goal"`)

	d.Submit("acting lead, no headcount, manager helps, burnout risk")
	d.Submit("internal posting")
	d.Submit("talk to my manager, commitment 8")
	assert.Contains(t, d.View(), `completed "will"`)

	d.Submit("I need the mandate, 9 out of 10")
	assert.True(t, d.Quitting, "chat should quit when the session closes")
	assert.Contains(t, d.View(), "completes the session")

	detail, err := app.Sessions.Get(context.Background(), started.Session.ID)
	require.NoError(t, err)
	assert.True(t, detail.Session.IsClosed())
}

// Repeated non-answers on the same question surface the loop-breaking reply.
func TestChat_LoopDetectionSurfacesInReply(t *testing.T) {
	app := newTestApp(t, nil)

	started, err := app.Sessions.Start(context.Background(), service.StartRequest{
		UserID: "u", FrameworkID: "GROW",
	})
	require.NoError(t, err)

	d := teatest.New(t, newChatView(app, started.Session.ID, "GROW", "goal"))
	d.DrainInit()

	d.Submit("hmm")
	d.Submit("not sure")
	assert.Contains(t, d.View(), "going in circles")
}
