package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coachflow/internal/db"
	"coachflow/internal/domain"
)

// SQLiteReflectionRepo implements ReflectionRepo using a SQLite database.
// There are deliberately no update or delete methods.
type SQLiteReflectionRepo struct {
	db db.DBTX
}

// NewSQLiteReflectionRepo creates a new SQLiteReflectionRepo.
func NewSQLiteReflectionRepo(conn db.DBTX) *SQLiteReflectionRepo {
	return &SQLiteReflectionRepo{db: conn}
}

const reflectionColumns = `id, session_id, step_name, raw_input, payload, marker, created_at`

func (r *SQLiteReflectionRepo) Create(ctx context.Context, refl *domain.Reflection) error {
	payload, err := domain.EncodePayload(refl.Payload)
	if err != nil {
		return err
	}
	query := `INSERT INTO reflections (` + reflectionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		refl.ID,
		refl.SessionID,
		refl.StepName,
		refl.RawInput,
		payload,
		string(refl.Marker),
		refl.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting reflection: %w", err)
	}
	return nil
}

func (r *SQLiteReflectionRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.Reflection, error) {
	query := `SELECT ` + reflectionColumns + ` FROM reflections
		WHERE session_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing reflections: %w", err)
	}
	defer rows.Close()
	return r.scanReflections(rows)
}

func (r *SQLiteReflectionRepo) ListByStep(ctx context.Context, sessionID, stepName string) ([]*domain.Reflection, error) {
	query := `SELECT ` + reflectionColumns + ` FROM reflections
		WHERE session_id = ? AND step_name = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, sessionID, stepName)
	if err != nil {
		return nil, fmt.Errorf("listing reflections by step: %w", err)
	}
	defer rows.Close()
	return r.scanReflections(rows)
}

func (r *SQLiteReflectionRepo) scanReflections(rows *sql.Rows) ([]*domain.Reflection, error) {
	var reflections []*domain.Reflection
	for rows.Next() {
		var refl domain.Reflection
		var payloadRaw, markerStr, createdAtStr string

		err := rows.Scan(
			&refl.ID, &refl.SessionID, &refl.StepName, &refl.RawInput,
			&payloadRaw, &markerStr, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning reflection row: %w", err)
		}

		refl.Payload, err = domain.DecodePayload(payloadRaw)
		if err != nil {
			return nil, err
		}
		refl.Marker = domain.ReflectionMarker(markerStr)
		refl.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		reflections = append(reflections, &refl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reflection rows: %w", err)
	}
	return reflections, nil
}
