package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/engine"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/evaluator"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/events"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/profile"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories/postgres"
)

// SessionService drives learner sessions. Each mounted exercise gets its own
// state machine held in memory; terminal outcomes are persisted as session
// interactions, folded into the student profile, and announced on the event
// bus. Telemetry and event failures are logged and never block the learner.
type SessionService interface {
	Start(ctx context.Context, studentID string, examMode bool) (*models.Session, error)
	Mount(ctx context.Context, sessionID, exerciseID string) (*ExerciseView, error)
	SaveAnswer(ctx context.Context, sessionID, exerciseID string, answer json.RawMessage) error
	Submit(ctx context.Context, sessionID, exerciseID string, answer json.RawMessage) (*SubmitResult, error)
	Reset(ctx context.Context, sessionID, exerciseID string) (*ExerciseView, error)
	GetState(ctx context.Context, sessionID, exerciseID string) (*ExerciseView, error)
	Complete(ctx context.Context, sessionID string) (*models.Session, error)
	Abandon(ctx context.Context, sessionID string) error
	History(ctx context.Context, studentID string, filters repositories.SessionFilters) ([]*models.Session, int64, error)
	Interactions(ctx context.Context, sessionID string) ([]*models.SessionInteraction, error)
}

// ExerciseView is the state snapshot handed to the rendering layer. It never
// exposes the answer key.
type ExerciseView struct {
	ExerciseID    string          `json:"exercise_id"`
	Variant       string          `json:"variant"`
	Phase         engine.Phase    `json:"phase"`
	AttemptsUsed  int             `json:"attempts_used"`
	MaxAttempts   int             `json:"max_attempts"`
	HintsRevealed []string        `json:"hints_revealed"`
	Locked        bool            `json:"locked"`
	Resets        int             `json:"resets"`
	Answer        json.RawMessage `json:"answer,omitempty"`
}

// SubmitResult extends the view with the verdict of one submit.
type SubmitResult struct {
	ExerciseView
	Feedback     engine.Feedback `json:"feedback"`
	Score        int             `json:"score,omitempty"`
	CorrectCount int             `json:"correct_count"`
	TotalCount   int             `json:"total_count"`
	RevealedHint *string         `json:"revealed_hint,omitempty"`
}

type mountedExercise struct {
	record  *models.Exercise
	machine *engine.Machine
	state   engine.AttemptState
	answer  json.RawMessage
	hints   []string
}

type liveSession struct {
	record    *models.Session
	exercises map[string]*mountedExercise
}

type sessionService struct {
	mu       sync.Mutex
	sessions map[string]*liveSession

	repo      repositories.Repository
	registry  *evaluator.Registry
	profiles  ProfileService
	publisher events.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewSessionService(
	repo repositories.Repository,
	registry *evaluator.Registry,
	profiles ProfileService,
	publisher events.EventPublisher,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		sessions:  make(map[string]*liveSession),
		repo:      repo,
		registry:  registry,
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *sessionService) Start(ctx context.Context, studentID string, examMode bool) (*models.Session, error) {
	if studentID == "" {
		return nil, NewValidationError("student_id", "is required", studentID)
	}

	session := &models.Session{
		SessionID: uuid.NewString(),
		StudentID: studentID,
		Status:    models.SessionActive,
		ExamMode:  examMode,
		StartedAt: s.now(),
	}
	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.mu.Lock()
	s.sessions[session.SessionID] = &liveSession{
		record:    session,
		exercises: make(map[string]*mountedExercise),
	}
	s.mu.Unlock()

	s.publish(ctx, events.NewSessionStartedEvent(events.SessionStartedEvent{
		SessionID: session.SessionID,
		StudentID: studentID,
		ExamMode:  examMode,
		StartedAt: session.StartedAt,
	}))

	s.logger.Info("Started session",
		"session_id", session.SessionID,
		"student_id", studentID,
		"exam_mode", examMode)

	return session, nil
}

func (s *sessionService) Mount(ctx context.Context, sessionID, exerciseID string) (*ExerciseView, error) {
	record, err := s.repo.Exercise().GetByExerciseID(ctx, exerciseID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}

	var hints []string
	if len(record.Hints) > 0 {
		if err := json.Unmarshal(record.Hints, &hints); err != nil {
			s.logger.Warn("Ignoring malformed hints", "exercise_id", exerciseID, "error", err)
		}
	}

	content := exercise.Content{Kind: exercise.Type(record.Variant), Data: json.RawMessage(record.Content)}

	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.activeSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}

	machine, err := engine.New(content, s.registry, engine.Config{
		MaxAttempts: record.MaxAttempts,
		HintCount:   len(hints),
		ExamMode:    record.ExamMode || live.record.ExamMode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExerciseType, record.Variant)
	}

	mounted := &mountedExercise{
		record:  record,
		machine: machine,
		state:   machine.Start(s.now()),
		hints:   hints,
	}
	live.exercises[exerciseID] = mounted

	return s.viewLocked(mounted), nil
}

// SaveAnswer stores the learner's working answer without judging it, so a
// dropped connection resumes where the learner left off.
func (s *sessionService) SaveAnswer(ctx context.Context, sessionID, exerciseID string, answer json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mounted, err := s.mountedLocked(sessionID, exerciseID)
	if err != nil {
		return err
	}
	if mounted.state.Locked {
		return ErrExerciseLocked
	}

	mounted.state = mounted.machine.Interact(mounted.state)
	mounted.answer = append(json.RawMessage(nil), answer...)
	return nil
}

func (s *sessionService) Submit(ctx context.Context, sessionID, exerciseID string, answer json.RawMessage) (*SubmitResult, error) {
	s.mu.Lock()
	live, err := s.activeSessionLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	mounted, ok := live.exercises[exerciseID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrExerciseNotMounted
	}

	if answer == nil {
		answer = mounted.answer
	}
	mounted.state = mounted.machine.Interact(mounted.state)
	outcome := mounted.machine.Submit(mounted.state, answer, s.now())
	mounted.state = outcome.State
	mounted.answer = outcome.Answer

	result := &SubmitResult{
		ExerciseView: *s.viewLocked(mounted),
		Feedback:     outcome.Feedback,
		Score:        outcome.Score,
		CorrectCount: outcome.Result.CorrectCount,
		TotalCount:   outcome.Result.TotalCount,
	}
	record := live.record
	s.mu.Unlock()

	for _, effect := range outcome.Effects {
		switch eff := effect.(type) {
		case engine.RevealHint:
			if eff.Index < len(mounted.hints) {
				hint := mounted.hints[eff.Index]
				result.RevealedHint = &hint
			}
			s.publish(ctx, events.NewExerciseHintRevealedEvent(events.ExerciseHintRevealedEvent{
				SessionID:  record.SessionID,
				StudentID:  record.StudentID,
				ExerciseID: exerciseID,
				HintIndex:  eff.Index,
				Attempt:    outcome.State.AttemptsUsed,
			}))
		case engine.EmitTelemetry:
			s.recordOutcome(ctx, record, mounted, outcome, eff)
		}
	}

	return result, nil
}

func (s *sessionService) Reset(ctx context.Context, sessionID, exerciseID string) (*ExerciseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mounted, err := s.mountedLocked(sessionID, exerciseID)
	if err != nil {
		return nil, err
	}

	mounted.state = mounted.machine.Reset(mounted.state, s.now())
	mounted.answer = nil
	return s.viewLocked(mounted), nil
}

func (s *sessionService) GetState(ctx context.Context, sessionID, exerciseID string) (*ExerciseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mounted, err := s.mountedLocked(sessionID, exerciseID)
	if err != nil {
		return nil, err
	}
	return s.viewLocked(mounted), nil
}

func (s *sessionService) Complete(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	live, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	session, err := s.repo.Session().GetBySessionID(ctx, sessionID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Status != models.SessionActive {
		return nil, ErrSessionCompleted
	}

	completedAt := s.now()
	if err := s.repo.Session().Complete(ctx, session.ID, completedAt, session.TotalScore); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	session.Status = models.SessionCompleted
	session.CompletedAt = &completedAt

	interactions := 0
	if live != nil {
		interactions = len(live.exercises)
	}
	s.publish(ctx, events.NewSessionCompletedEvent(events.SessionCompletedEvent{
		SessionID:        sessionID,
		StudentID:        session.StudentID,
		TotalScore:       session.TotalScore,
		InteractionCount: interactions,
		CompletedAt:      completedAt,
	}))

	s.logger.Info("Completed session",
		"session_id", sessionID,
		"total_score", session.TotalScore)

	return session, nil
}

// Abandon drops a session without finalizing a score. In-memory exercise
// state is discarded the same way navigation away from the player would.
func (s *sessionService) Abandon(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	session, err := s.repo.Session().GetBySessionID(ctx, sessionID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session.Status != models.SessionActive {
		return ErrSessionCompleted
	}

	if err := s.repo.Session().UpdateStatus(ctx, session.ID, models.SessionAbandoned); err != nil {
		return fmt.Errorf("failed to abandon session: %w", err)
	}

	s.logger.Info("Abandoned session", "session_id", sessionID)
	return nil
}

func (s *sessionService) History(ctx context.Context, studentID string, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	if studentID == "" {
		return nil, 0, NewValidationError("student_id", "is required", studentID)
	}
	return s.repo.Session().GetByStudent(ctx, studentID, filters)
}

func (s *sessionService) Interactions(ctx context.Context, sessionID string) ([]*models.SessionInteraction, error) {
	session, err := s.repo.Session().GetBySessionID(ctx, sessionID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s.repo.Session().ListInteractions(ctx, session.ID)
}

// recordOutcome runs the terminal-lock side effects. Failures are logged,
// never surfaced: a dropped write costs analytics, not the learner's result.
func (s *sessionService) recordOutcome(ctx context.Context, session *models.Session, mounted *mountedExercise, outcome engine.Outcome, eff engine.EmitTelemetry) {
	rec := eff.Record

	interaction := &models.SessionInteraction{
		ExerciseID:   mounted.record.ExerciseID,
		Variant:      mounted.record.Variant,
		Score:        eff.Score,
		FullyCorrect: outcome.Result.FullyCorrect,
		CorrectUnits: rec.CorrectUnits,
		TotalUnits:   rec.TotalUnits,
		Attempts:     rec.Attempts,
		HintsUsed:    rec.HintsUsed,
		Resets:       rec.Resets,
		TimeSeconds:  rec.TimeSeconds,
		LastAnswer:   datatypes.JSON(rec.LastAnswer),
	}
	// AddInteraction rolls the score into the session total transactionally;
	// the live record is never mutated outside s.mu.
	if err := s.repo.Session().AddInteraction(ctx, session.ID, interaction); err != nil {
		s.logger.Error("Failed to record interaction",
			"session_id", session.SessionID,
			"exercise_id", mounted.record.ExerciseID,
			"error", err)
	}

	if _, err := s.profiles.ApplySample(ctx, session.StudentID, profile.Sample{
		TimeSeconds: rec.TimeSeconds,
		Attempts:    rec.Attempts,
		HintsUsed:   rec.HintsUsed,
		WasCorrect:  outcome.Result.FullyCorrect,
		Topic:       mounted.record.Topic,
		Media:       profile.MediaKind(mounted.record.Media),
		At:          rec.RecordedAt,
	}); err != nil {
		s.logger.Error("Failed to fold attempt into profile",
			"student_id", session.StudentID,
			"error", err)
	}

	s.publish(ctx, events.NewExerciseCompletedEvent(events.ExerciseCompletedEvent{
		SessionID:    session.SessionID,
		StudentID:    session.StudentID,
		ExerciseID:   mounted.record.ExerciseID,
		Variant:      mounted.record.Variant,
		Score:        eff.Score,
		FullyCorrect: outcome.Result.FullyCorrect,
		CorrectUnits: rec.CorrectUnits,
		TotalUnits:   rec.TotalUnits,
		Attempts:     rec.Attempts,
		HintsUsed:    rec.HintsUsed,
		TimeSeconds:  rec.TimeSeconds,
		LastAnswer:   rec.LastAnswer,
	}))
}

func (s *sessionService) publish(ctx context.Context, event *events.LearningEvent) {
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// activeSessionLocked expects s.mu to be held.
func (s *sessionService) activeSessionLocked(sessionID string) (*liveSession, error) {
	live, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if live.record.Status != models.SessionActive {
		return nil, ErrSessionCompleted
	}
	return live, nil
}

// mountedLocked expects s.mu to be held.
func (s *sessionService) mountedLocked(sessionID, exerciseID string) (*mountedExercise, error) {
	live, err := s.activeSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}
	mounted, ok := live.exercises[exerciseID]
	if !ok {
		return nil, ErrExerciseNotMounted
	}
	return mounted, nil
}

// viewLocked expects s.mu to be held.
func (s *sessionService) viewLocked(mounted *mountedExercise) *ExerciseView {
	revealed := make([]string, 0, mounted.state.HintsRevealed)
	for i := 0; i < mounted.state.HintsRevealed && i < len(mounted.hints); i++ {
		revealed = append(revealed, mounted.hints[i])
	}
	return &ExerciseView{
		ExerciseID:    mounted.record.ExerciseID,
		Variant:       mounted.record.Variant,
		Phase:         mounted.state.Phase,
		AttemptsUsed:  mounted.state.AttemptsUsed,
		MaxAttempts:   mounted.machine.Config().MaxAttempts,
		HintsRevealed: revealed,
		Locked:        mounted.state.Locked,
		Resets:        mounted.state.Resets,
		Answer:        mounted.answer,
	}
}
