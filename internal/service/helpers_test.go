package service

import (
	"context"
	"database/sql"
	"testing"

	"coachflow/internal/domain"
	"coachflow/internal/intelligence"
	"coachflow/internal/registry"
	"coachflow/internal/repository"
	"coachflow/internal/testutil"
)

// scriptedExtractor returns a queued payload per call, then nil.
type scriptedExtractor struct {
	responses []map[string]any
	calls     int
}

func (e *scriptedExtractor) Extract(_ context.Context, _ domain.Step, _ string, _ string) map[string]any {
	if e.calls >= len(e.responses) {
		e.calls++
		return nil
	}
	resp := e.responses[e.calls]
	e.calls++
	return resp
}

// fixedCoach always answers with the same text.
type fixedCoach struct {
	reply string
}

func (c fixedCoach) Reply(_ context.Context, _ string, _ string) (string, error) {
	return c.reply, nil
}

type serviceEnv struct {
	db          *sql.DB
	sessions    SessionService
	stats       StatsService
	sessionRepo repository.SessionRepo
	reflRepo    repository.ReflectionRepo
}

// newServiceEnv wires a SessionService over a fresh in-memory database. The
// coach is disabled so replies exercise the deterministic fallback.
func newServiceEnv(t *testing.T, extractor intelligence.Extractor) *serviceEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	reflRepo := repository.NewSQLiteReflectionRepo(database)

	svc := NewSessionService(
		registry.New(),
		sessionRepo,
		reflRepo,
		extractor,
		intelligence.NewDisabledCoach(),
		testutil.NewTestUoW(database),
	)
	return &serviceEnv{
		db:          database,
		sessions:    svc,
		stats:       NewStatsService(repository.NewSQLiteStatsRepo(database)),
		sessionRepo: sessionRepo,
		reflRepo:    reflRepo,
	}
}

// growGoalPayload satisfies the GROW goal step's mandatory field.
func growGoalPayload() map[string]any {
	return map[string]any{"desired_outcome": "lead the platform team"}
}

// growRealityPayload satisfies all of the GROW reality step's mandatory fields.
func growRealityPayload() map[string]any {
	return map[string]any{
		"current_state": "acting lead without the title",
		"constraints":   []any{"no open headcount"},
		"resources":     []any{"supportive manager"},
		"risks":         []any{"burnout"},
	}
}
