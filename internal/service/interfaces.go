package service

import (
	"context"
	"errors"

	"coachflow/internal/domain"
)

// ErrSessionClosed is returned when a turn or skip targets a closed session.
var ErrSessionClosed = errors.New("session is closed")

// StartRequest opens a new coaching session.
type StartRequest struct {
	OrgID       string
	UserID      string
	FrameworkID string
}

// StartOutcome is the result of opening a session: the persisted session and
// the coach's opening message.
type StartOutcome struct {
	Session    *domain.Session
	CoachReply string
}

// TurnOutcome is the result of one conversational turn or skip.
type TurnOutcome struct {
	Session       *domain.Session
	CompletedStep string
	CurrentStep   string
	StepAdvanced  bool
	SessionClosed bool
	LoopDetected  bool
	Relaxed       bool
	SkipCount     int
	Missing       []string
	Captured      map[string]domain.FieldValue
	CoachReply    string
}

// SessionDetail is a session with its full reflection trail and the derived
// capture state for the current step.
type SessionDetail struct {
	Session     *domain.Session
	Reflections []*domain.Reflection
	Captured    map[string]domain.FieldValue
	Missing     []string
}

type SessionService interface {
	Start(ctx context.Context, req StartRequest) (*StartOutcome, error)
	Turn(ctx context.Context, sessionID, userText string) (*TurnOutcome, error)
	Skip(ctx context.Context, sessionID string) (*TurnOutcome, error)
	Abort(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (*SessionDetail, error)
	List(ctx context.Context, userID string, limit int) ([]*domain.Session, error)
}

type StatsService interface {
	Report(ctx context.Context, windowDays int) (*domain.StatsReport, error)
}
