package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coachflow/internal/db"
	"coachflow/internal/domain"
	"coachflow/internal/engine"
	"coachflow/internal/extraction"
	"coachflow/internal/intelligence"
	"coachflow/internal/prompt"
	"coachflow/internal/registry"
	"coachflow/internal/repository"
	"github.com/google/uuid"
)

type sessionService struct {
	frameworks  *registry.Registry
	sessions    repository.SessionRepo
	reflections repository.ReflectionRepo
	extractor   intelligence.Extractor
	coach       intelligence.Coach
	uow         db.UnitOfWork
	observer    UseCaseObserver
	now         func() time.Time
}

func NewSessionService(
	frameworks *registry.Registry,
	sessions repository.SessionRepo,
	reflections repository.ReflectionRepo,
	extractor intelligence.Extractor,
	coach intelligence.Coach,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SessionService {
	return &sessionService{
		frameworks:  frameworks,
		sessions:    sessions,
		reflections: reflections,
		extractor:   extractor,
		coach:       coach,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *sessionService) Start(ctx context.Context, req StartRequest) (*StartOutcome, error) {
	startedAt := s.now()
	fw, err := s.frameworks.Get(req.FrameworkID)
	if err != nil {
		return nil, err
	}
	step, _ := fw.StepByName(fw.FirstStep())
	question := openingQuestion(step)

	sess := &domain.Session{
		ID:           uuid.New().String(),
		OrgID:        req.OrgID,
		UserID:       req.UserID,
		FrameworkID:  fw.ID,
		CurrentStep:  step.Name,
		SkipCounts:   map[string]int{},
		LastQuestion: question,
		StartedAt:    startedAt,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		s.observe(ctx, "session_start", startedAt, err, nil)
		return nil, err
	}

	instruction := prompt.BuildCoachInstruction(prompt.TurnContext{
		FrameworkName:  fw.Name,
		Step:           step,
		Missing:        step.MandatoryFields(),
		TargetQuestion: question,
	})
	reply, replyErr := s.coach.Reply(ctx, instruction, "")
	if replyErr != nil || reply == "" {
		reply = openingMessage(fw, step, question)
	}

	s.observe(ctx, "session_start", startedAt, nil, map[string]any{
		"session_id": sess.ID, "framework": fw.ID,
	})
	return &StartOutcome{Session: sess, CoachReply: reply}, nil
}

func (s *sessionService) Turn(ctx context.Context, sessionID, userText string) (*TurnOutcome, error) {
	startedAt := s.now()
	outcome, err := s.turn(ctx, sessionID, userText)
	fields := map[string]any{"session_id": sessionID}
	if outcome != nil {
		fields["current_step"] = outcome.CurrentStep
		fields["advanced"] = outcome.StepAdvanced
	}
	s.observe(ctx, "session_turn", startedAt, err, fields)
	return outcome, err
}

func (s *sessionService) turn(ctx context.Context, sessionID, userText string) (*TurnOutcome, error) {
	now := s.now()
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.IsClosed() {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionClosed)
	}
	fw, err := s.frameworks.Get(sess.FrameworkID)
	if err != nil {
		return nil, err
	}
	step, ok := fw.StepByName(sess.CurrentStep)
	if !ok {
		return nil, fmt.Errorf("session %s: %w: %q in framework %q",
			sess.ID, registry.ErrUnknownStep, sess.CurrentStep, fw.ID)
	}

	stepReflections, err := s.reflections.ListByStep(ctx, sess.ID, sess.CurrentStep)
	if err != nil {
		return nil, err
	}
	captured := engine.RebuildCaptured(sess.CurrentStep, stepReflections)
	history := prompt.RenderHistory(stepReflections)

	candidate := s.extractor.Extract(ctx, step, userText, history)

	decision, err := engine.ProcessTurn(fw, sess, captured, candidate, now)
	if err != nil {
		return nil, err
	}

	refl := &domain.Reflection{
		ID:        uuid.New().String(),
		SessionID: sess.ID,
		StepName:  step.Name,
		RawInput:  userText,
		Payload:   decision.Validation.Present,
		CreatedAt: now,
	}

	replyStep := step
	targetQuestion := decision.TargetQuestion
	if decision.StepAdvanced {
		replyStep, _ = fw.StepByName(decision.CurrentStep)
		targetQuestion = openingQuestion(replyStep)
		sess.LastQuestion = targetQuestion
	}

	if err := s.persistTurn(ctx, sess, refl, decision, now); err != nil {
		return nil, err
	}

	replyCtx := intelligence.ReplyContext{
		StepName:       replyStep.Name,
		StepIntro:      replyStep.Intro,
		TargetQuestion: targetQuestion,
		StepAdvanced:   decision.StepAdvanced,
		SessionClosed:  decision.SessionClosed,
		LoopDetected:   decision.LoopDetected,
	}

	var reply string
	if decision.SessionClosed {
		reply = intelligence.FallbackReply(replyCtx)
	} else {
		missing := decision.Missing
		if decision.StepAdvanced {
			missing = replyStep.MandatoryFields()
		}
		reply = s.coachReply(ctx, prompt.TurnContext{
			FrameworkName:  fw.Name,
			Step:           replyStep,
			Missing:        missing,
			CapturedNames:  extraction.SortedFieldNames(decision.Captured),
			SkipCount:      sess.SkipCount(replyStep.Name),
			Relaxed:        decision.Relaxed,
			LoopDetected:   decision.LoopDetected,
			TargetQuestion: targetQuestion,
			History:        history,
		}, userText, replyCtx)
	}

	return &TurnOutcome{
		Session:       sess,
		CompletedStep: decision.CompletedStep,
		CurrentStep:   decision.CurrentStep,
		StepAdvanced:  decision.StepAdvanced,
		SessionClosed: decision.SessionClosed,
		LoopDetected:  decision.LoopDetected,
		Relaxed:       decision.Relaxed,
		SkipCount:     sess.SkipCount(replyStep.Name),
		Missing:       decision.Missing,
		Captured:      decision.Captured,
		CoachReply:    reply,
	}, nil
}

func (s *sessionService) Skip(ctx context.Context, sessionID string) (*TurnOutcome, error) {
	startedAt := s.now()
	outcome, err := s.skip(ctx, sessionID)
	s.observe(ctx, "session_skip", startedAt, err, map[string]any{"session_id": sessionID})
	return outcome, err
}

func (s *sessionService) skip(ctx context.Context, sessionID string) (*TurnOutcome, error) {
	now := s.now()
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.IsClosed() {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionClosed)
	}
	fw, err := s.frameworks.Get(sess.FrameworkID)
	if err != nil {
		return nil, err
	}
	step, _ := fw.StepByName(sess.CurrentStep)

	skipRes, err := engine.ApplySkip(fw, sess)
	if err != nil {
		return nil, err
	}

	stepReflections, err := s.reflections.ListByStep(ctx, sess.ID, sess.CurrentStep)
	if err != nil {
		return nil, err
	}
	captured := engine.RebuildCaptured(sess.CurrentStep, stepReflections)

	// An exhausted budget completes the step immediately rather than waiting
	// for the next turn.
	if skipRes.BudgetExhausted {
		decision, err := engine.ProcessTurn(fw, sess, captured, nil, now)
		if err != nil {
			return nil, err
		}
		replyStep := step
		targetQuestion := ""
		if decision.StepAdvanced {
			replyStep, _ = fw.StepByName(decision.CurrentStep)
			targetQuestion = openingQuestion(replyStep)
			sess.LastQuestion = targetQuestion
		}
		if err := s.persistTurn(ctx, sess, nil, decision, now); err != nil {
			return nil, err
		}
		reply := intelligence.FallbackReply(intelligence.ReplyContext{
			StepName:       replyStep.Name,
			StepIntro:      replyStep.Intro,
			TargetQuestion: targetQuestion,
			StepAdvanced:   decision.StepAdvanced,
			SessionClosed:  decision.SessionClosed,
		})
		return &TurnOutcome{
			Session:       sess,
			CompletedStep: decision.CompletedStep,
			CurrentStep:   decision.CurrentStep,
			StepAdvanced:  decision.StepAdvanced,
			SessionClosed: decision.SessionClosed,
			Relaxed:       decision.Relaxed,
			SkipCount:     skipRes.SkipCount,
			Missing:       decision.Missing,
			Captured:      decision.Captured,
			CoachReply:    reply,
		}, nil
	}

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}

	missing := missingMandatory(step, captured)
	target := sess.LastQuestion
	if target == "" {
		target = openingQuestion(step)
	}
	reply := intelligence.FallbackReply(intelligence.ReplyContext{
		StepName:       step.Name,
		TargetQuestion: target,
	})
	return &TurnOutcome{
		Session:     sess,
		CurrentStep: sess.CurrentStep,
		Relaxed:     skipRes.Relaxed,
		SkipCount:   skipRes.SkipCount,
		Missing:     missing,
		Captured:    captured,
		CoachReply:  reply,
	}, nil
}

func (s *sessionService) Abort(ctx context.Context, sessionID string) error {
	startedAt := s.now()
	err := s.abort(ctx, sessionID)
	s.observe(ctx, "session_abort", startedAt, err, map[string]any{"session_id": sessionID})
	return err
}

func (s *sessionService) abort(ctx context.Context, sessionID string) error {
	now := s.now()
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.IsClosed() {
		return nil
	}
	lastStep := sess.CurrentStep
	sess.Close(now)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txReflections := repository.NewSQLiteReflectionRepo(tx)
		if err := txSessions.Update(ctx, sess); err != nil {
			return err
		}
		return txReflections.Create(ctx, &domain.Reflection{
			ID:        uuid.New().String(),
			SessionID: sess.ID,
			StepName:  lastStep,
			Marker:    domain.MarkerSessionClosed,
			CreatedAt: now,
		})
	})
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*SessionDetail, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	reflections, err := s.reflections.ListBySession(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	detail := &SessionDetail{
		Session:     sess,
		Reflections: reflections,
		Captured:    map[string]domain.FieldValue{},
	}
	if sess.IsClosed() {
		return detail, nil
	}
	fw, err := s.frameworks.Get(sess.FrameworkID)
	if err != nil {
		return nil, err
	}
	if step, ok := fw.StepByName(sess.CurrentStep); ok {
		detail.Captured = engine.RebuildCaptured(step.Name, reflections)
		detail.Missing = missingMandatory(step, detail.Captured)
	}
	return detail, nil
}

func (s *sessionService) List(ctx context.Context, userID string, limit int) ([]*domain.Session, error) {
	return s.sessions.ListByUser(ctx, userID, limit)
}

// persistTurn writes the turn's reflection, any transition markers, and the
// updated session atomically. refl may be nil for system-only transitions.
func (s *sessionService) persistTurn(ctx context.Context, sess *domain.Session, refl *domain.Reflection, decision engine.Decision, now time.Time) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txReflections := repository.NewSQLiteReflectionRepo(tx)

		if refl != nil {
			if err := txReflections.Create(ctx, refl); err != nil {
				return err
			}
		}
		if decision.StepAdvanced || decision.SessionClosed {
			marker := domain.MarkerStepCompleted
			if decision.SessionClosed {
				marker = domain.MarkerSessionClosed
			}
			err := txReflections.Create(ctx, &domain.Reflection{
				ID:        uuid.New().String(),
				SessionID: sess.ID,
				StepName:  decision.CompletedStep,
				Marker:    marker,
				CreatedAt: now,
			})
			if err != nil {
				return err
			}
		}
		return txSessions.Update(ctx, sess)
	})
}

// coachReply asks the model for a reply and falls back to the deterministic
// message on any failure. The coachee never sees an error.
func (s *sessionService) coachReply(ctx context.Context, turnCtx prompt.TurnContext, userText string, fallback intelligence.ReplyContext) string {
	instruction := prompt.BuildCoachInstruction(turnCtx)
	reply, err := s.coach.Reply(ctx, instruction, userText)
	if err != nil || reply == "" {
		return intelligence.FallbackReply(fallback)
	}
	return reply
}

// openingMessage is the deterministic session greeting when the LLM is
// disabled or failed.
func openingMessage(fw domain.Framework, step domain.Step, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to your %s session.", fw.Name)
	if step.Intro != "" {
		b.WriteString(" ")
		b.WriteString(step.Intro)
	}
	if question != "" {
		b.WriteString("\n\n")
		b.WriteString(question)
	}
	return b.String()
}

// openingQuestion returns the question to lead a step with: the first
// mandatory field's question, or the first question at all.
func openingQuestion(step domain.Step) string {
	for _, f := range step.Fields {
		if f.Mandatory && f.Question != "" {
			return f.Question
		}
	}
	if qs := step.Questions(); len(qs) > 0 {
		return qs[0]
	}
	return ""
}

func missingMandatory(step domain.Step, captured map[string]domain.FieldValue) []string {
	var missing []string
	for _, name := range step.MandatoryFields() {
		if _, ok := captured[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
