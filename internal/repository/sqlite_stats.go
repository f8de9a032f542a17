package repository

import (
	"context"
	"fmt"

	"coachflow/internal/db"
	"coachflow/internal/domain"
)

// SQLiteStatsRepo implements StatsRepo by aggregating in SQL rather than
// loading sessions into memory.
type SQLiteStatsRepo struct {
	db db.DBTX
}

// NewSQLiteStatsRepo creates a new SQLiteStatsRepo.
func NewSQLiteStatsRepo(conn db.DBTX) *SQLiteStatsRepo {
	return &SQLiteStatsRepo{db: conn}
}

func (r *SQLiteStatsRepo) Aggregate(ctx context.Context, windowDays int) (*domain.StatsReport, error) {
	report := &domain.StatsReport{WindowDays: windowDays}
	cutoff := fmt.Sprintf("-%d days", windowDays)

	query := `SELECT
			COUNT(*),
			COUNT(closed_at),
			COALESCE(AVG(CASE WHEN closed_at IS NOT NULL THEN (
				SELECT COUNT(*) FROM reflections rf
				WHERE rf.session_id = s.id AND rf.marker = ''
			) END), 0)
		FROM sessions s
		WHERE started_at >= datetime('now', ?)`
	err := r.db.QueryRowContext(ctx, query, cutoff).Scan(
		&report.TotalSessions,
		&report.ClosedSessions,
		&report.AvgTurnsPerClosed,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating session stats: %w", err)
	}

	report.ActiveSessions = report.TotalSessions - report.ClosedSessions
	if report.TotalSessions > 0 {
		report.CompletionRate = float64(report.ClosedSessions) / float64(report.TotalSessions)
	}

	byFramework := `SELECT framework_id, COUNT(*), COUNT(closed_at)
		FROM sessions
		WHERE started_at >= datetime('now', ?)
		GROUP BY framework_id
		ORDER BY framework_id`
	rows, err := r.db.QueryContext(ctx, byFramework, cutoff)
	if err != nil {
		return nil, fmt.Errorf("aggregating framework stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fs domain.FrameworkStats
		if err := rows.Scan(&fs.FrameworkID, &fs.Total, &fs.Closed); err != nil {
			return nil, fmt.Errorf("scanning framework stats row: %w", err)
		}
		report.ByFramework = append(report.ByFramework, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating framework stats rows: %w", err)
	}
	return report, nil
}
