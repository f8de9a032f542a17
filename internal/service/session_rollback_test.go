package service

import (
	"context"
	"errors"
	"testing"

	"coachflow/internal/intelligence"
	"coachflow/internal/registry"
	"coachflow/internal/repository"
	"coachflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A failed session update must roll back the reflection and marker writes:
// partially persisted turns would corrupt replayed capture state.
func TestTurn_RollbackOnPersistFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	reflRepo := repository.NewSQLiteReflectionRepo(database)
	ctx := context.Background()

	boom := errors.New("disk full")
	svc := NewSessionService(
		registry.New(),
		sessionRepo,
		reflRepo,
		&scriptedExtractor{responses: []map[string]any{growGoalPayload()}},
		intelligence.NewDisabledCoach(),
		// Turn with a step advance writes reflection, marker, then session.
		&testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: boom},
	)

	out, err := svc.Start(ctx, StartRequest{UserID: "user-1", FrameworkID: "GROW"})
	require.NoError(t, err)

	_, err = svc.Turn(ctx, out.Session.ID, "I want to lead the platform team")
	assert.ErrorIs(t, err, boom)

	stored, err := sessionRepo.GetByID(ctx, out.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "goal", stored.CurrentStep, "session must stay on its step")

	reflections, err := reflRepo.ListBySession(ctx, out.Session.ID)
	require.NoError(t, err)
	assert.Empty(t, reflections, "no partial reflection writes")
}
