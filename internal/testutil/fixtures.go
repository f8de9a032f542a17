package testutil

import (
	"time"

	"coachflow/internal/domain"
	"github.com/google/uuid"
)

// Session options
type SessionOption func(*domain.Session)

func WithOrg(orgID string) SessionOption {
	return func(s *domain.Session) {
		s.OrgID = orgID
	}
}

func WithFramework(frameworkID string) SessionOption {
	return func(s *domain.Session) {
		s.FrameworkID = frameworkID
	}
}

func WithCurrentStep(step string) SessionOption {
	return func(s *domain.Session) {
		s.CurrentStep = step
	}
}

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartedAt = t.UTC()
	}
}

func Closed(at time.Time) SessionOption {
	return func(s *domain.Session) {
		s.Close(at)
	}
}

// NewTestSession builds a session on the GROW framework's first step.
func NewTestSession(userID string, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		FrameworkID: "GROW",
		CurrentStep: "goal",
		SkipCounts:  map[string]int{},
		StartedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reflection options
type ReflectionOption func(*domain.Reflection)

func WithPayload(payload map[string]domain.FieldValue) ReflectionOption {
	return func(r *domain.Reflection) {
		r.Payload = payload
	}
}

func WithMarker(m domain.ReflectionMarker) ReflectionOption {
	return func(r *domain.Reflection) {
		r.Marker = m
	}
}

func WithCreatedAt(t time.Time) ReflectionOption {
	return func(r *domain.Reflection) {
		r.CreatedAt = t.UTC()
	}
}

// NewTestReflection builds a reflection on the given session and step.
func NewTestReflection(sessionID, stepName, rawInput string, opts ...ReflectionOption) *domain.Reflection {
	r := &domain.Reflection{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		StepName:  stepName,
		RawInput:  rawInput,
		Payload:   map[string]domain.FieldValue{},
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
