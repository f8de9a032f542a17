package repository

import (
	"context"
	"testing"
	"time"

	"coachflow/internal/domain"
	"coachflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, repo *SQLiteSessionRepo) *domain.Session {
	t.Helper()
	s := testutil.NewTestSession("user-1")
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestReflectionRepo_CreateAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSQLiteSessionRepo(database)
	repo := NewSQLiteReflectionRepo(database)
	ctx := context.Background()

	s := seedSession(t, sessions)
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	first := testutil.NewTestReflection(s.ID, "goal", "I want a promotion",
		testutil.WithCreatedAt(base),
		testutil.WithPayload(map[string]domain.FieldValue{
			"goal_statement": domain.StringValue("get promoted"),
		}))
	second := testutil.NewTestReflection(s.ID, "reality", "things are hectic",
		testutil.WithCreatedAt(base.Add(time.Minute)),
		testutil.WithPayload(map[string]domain.FieldValue{
			"constraints": domain.ListValue([]string{"no budget", "two weeks"}),
		}))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.ListBySession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, "I want a promotion", got[0].RawInput)
	assert.Equal(t, domain.StringValue("get promoted"), got[0].Payload["goal_statement"])
	assert.Equal(t, domain.ListValue([]string{"no budget", "two weeks"}), got[1].Payload["constraints"])
}

func TestReflectionRepo_ListByStep(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSQLiteSessionRepo(database)
	repo := NewSQLiteReflectionRepo(database)
	ctx := context.Background()

	s := seedSession(t, sessions)
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.NewTestReflection(s.ID, "goal", "one",
		testutil.WithCreatedAt(base))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestReflection(s.ID, "reality", "two",
		testutil.WithCreatedAt(base.Add(time.Minute)))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestReflection(s.ID, "goal", "three",
		testutil.WithCreatedAt(base.Add(2*time.Minute)))))

	got, err := repo.ListByStep(ctx, s.ID, "goal")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].RawInput)
	assert.Equal(t, "three", got[1].RawInput)
}

func TestReflectionRepo_PersistsMarker(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSQLiteSessionRepo(database)
	repo := NewSQLiteReflectionRepo(database)
	ctx := context.Background()

	s := seedSession(t, sessions)
	marker := testutil.NewTestReflection(s.ID, "goal", "",
		testutil.WithMarker(domain.MarkerStepCompleted))
	require.NoError(t, repo.Create(ctx, marker))

	got, err := repo.ListBySession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.MarkerStepCompleted, got[0].Marker)
	assert.Empty(t, got[0].RawInput)
	assert.Empty(t, got[0].Payload)
}

func TestReflectionRepo_NumberAndObjectPayloads(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSQLiteSessionRepo(database)
	repo := NewSQLiteReflectionRepo(database)
	ctx := context.Background()

	s := seedSession(t, sessions)
	refl := testutil.NewTestReflection(s.ID, "will", "8 out of 10",
		testutil.WithPayload(map[string]domain.FieldValue{
			"commitment_level": domain.NumberValue(8),
			"owner_by_action":  domain.ObjectValue(map[string]string{"draft plan": "me"}),
		}))
	require.NoError(t, repo.Create(ctx, refl))

	got, err := repo.ListBySession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.NumberValue(8), got[0].Payload["commitment_level"])
	assert.Equal(t, domain.ObjectValue(map[string]string{"draft plan": "me"}), got[0].Payload["owner_by_action"])
}
