package repository

import (
	"context"

	"coachflow/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Session, error)
}

// ReflectionRepo is append-only. Reflections are never updated or deleted;
// corrections land as new rows and later values win during replay.
type ReflectionRepo interface {
	Create(ctx context.Context, r *domain.Reflection) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Reflection, error)
	ListByStep(ctx context.Context, sessionID, stepName string) ([]*domain.Reflection, error)
}

type StatsRepo interface {
	Aggregate(ctx context.Context, windowDays int) (*domain.StatsReport, error)
}
