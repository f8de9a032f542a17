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

func TestStatsRepo_EmptyDatabase(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteStatsRepo(database)

	report, err := repo.Aggregate(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, report.WindowDays)
	assert.Equal(t, 0, report.TotalSessions)
	assert.Equal(t, 0.0, report.CompletionRate)
	assert.Empty(t, report.ByFramework)
}

func TestStatsRepo_Aggregate(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSQLiteSessionRepo(database)
	reflections := NewSQLiteReflectionRepo(database)
	stats := NewSQLiteStatsRepo(database)
	ctx := context.Background()

	now := time.Now().UTC()

	closed := testutil.NewTestSession("user-1", testutil.WithStartedAt(now.Add(-24*time.Hour)))
	require.NoError(t, sessions.Create(ctx, closed))
	for i := 0; i < 3; i++ {
		require.NoError(t, reflections.Create(ctx, testutil.NewTestReflection(closed.ID, "goal", "turn",
			testutil.WithCreatedAt(now.Add(time.Duration(i)*time.Minute)))))
	}
	require.NoError(t, reflections.Create(ctx, testutil.NewTestReflection(closed.ID, "review", "",
		testutil.WithMarker(domain.MarkerSessionClosed))))
	closed.Close(now)
	require.NoError(t, sessions.Update(ctx, closed))

	active := testutil.NewTestSession("user-2",
		testutil.WithStartedAt(now.Add(-2*time.Hour)),
		testutil.WithFramework("COMPASS"))
	require.NoError(t, sessions.Create(ctx, active))

	report, err := stats.Aggregate(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalSessions)
	assert.Equal(t, 1, report.ClosedSessions)
	assert.Equal(t, 1, report.ActiveSessions)
	assert.InDelta(t, 0.5, report.CompletionRate, 0.001)
	assert.InDelta(t, 3.0, report.AvgTurnsPerClosed, 0.001)

	require.Len(t, report.ByFramework, 2)
	assert.Equal(t, "COMPASS", report.ByFramework[0].FrameworkID)
	assert.Equal(t, 1, report.ByFramework[0].Total)
	assert.Equal(t, 0, report.ByFramework[0].Closed)
	assert.Equal(t, "GROW", report.ByFramework[1].FrameworkID)
	assert.Equal(t, 1, report.ByFramework[1].Closed)
}

func TestStatsRepo_WindowExcludesOldSessions(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSQLiteSessionRepo(database)
	stats := NewSQLiteStatsRepo(database)
	ctx := context.Background()

	old := testutil.NewTestSession("user-1",
		testutil.WithStartedAt(time.Now().UTC().Add(-90*24*time.Hour)))
	require.NoError(t, sessions.Create(ctx, old))
	recent := testutil.NewTestSession("user-1",
		testutil.WithStartedAt(time.Now().UTC().Add(-time.Hour)))
	require.NoError(t, sessions.Create(ctx, recent))

	report, err := stats.Aggregate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalSessions)
}
