package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"coachflow/internal/db"
	"coachflow/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo. The connection may be
// a *sql.DB or a transaction-scoped DBTX.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

const sessionColumns = `id, org_id, user_id, framework_id, current_step,
	skip_counts, turns_on_step, last_question, started_at, closed_at`

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	skipCounts, err := encodeSkipCounts(s.SkipCounts)
	if err != nil {
		return err
	}
	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.OrgID,
		s.UserID,
		s.FrameworkID,
		s.CurrentStep,
		skipCounts,
		s.TurnsOnStep,
		s.LastQuestion,
		s.StartedAt.UTC().Format(time.RFC3339),
		nullableTimeToString(s.ClosedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanSession(row)
}

func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	skipCounts, err := encodeSkipCounts(s.SkipCounts)
	if err != nil {
		return err
	}
	query := `UPDATE sessions
		SET current_step = ?, skip_counts = ?, turns_on_step = ?, last_question = ?, closed_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.CurrentStep,
		skipCounts,
		s.TurnsOnStep,
		s.LastQuestion,
		nullableTimeToString(s.ClosedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE user_id = ? ORDER BY started_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by user: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	s, err := scanSessionFields(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return s, nil
}

func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSessionFields(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}
	return sessions, nil
}

func scanSessionFields(scan func(dest ...any) error) (*domain.Session, error) {
	var s domain.Session
	var skipCountsRaw, startedAtStr string
	var closedAt sql.NullString

	err := scan(
		&s.ID, &s.OrgID, &s.UserID, &s.FrameworkID, &s.CurrentStep,
		&skipCountsRaw, &s.TurnsOnStep, &s.LastQuestion, &startedAtStr, &closedAt,
	)
	if err != nil {
		return nil, err
	}

	s.SkipCounts, err = decodeSkipCounts(skipCountsRaw)
	if err != nil {
		return nil, err
	}
	s.StartedAt, err = time.Parse(time.RFC3339, startedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	s.ClosedAt = parseNullableTime(closedAt)
	return &s, nil
}

func encodeSkipCounts(counts map[string]int) (string, error) {
	if len(counts) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(counts)
	if err != nil {
		return "", fmt.Errorf("encoding skip counts: %w", err)
	}
	return string(data), nil
}

func decodeSkipCounts(raw string) (map[string]int, error) {
	if raw == "" {
		return map[string]int{}, nil
	}
	var counts map[string]int
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return nil, fmt.Errorf("decoding skip counts: %w", err)
	}
	if counts == nil {
		counts = map[string]int{}
	}
	return counts, nil
}
