package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of learning events
type EventType string

const (
	// Exercise events
	EventExerciseCompleted    EventType = "exercise.completed"
	EventExerciseHintRevealed EventType = "exercise.hint_revealed"

	// Session events
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"

	// Profile events
	EventProfileUpdated EventType = "profile.updated"
)

// LearningEvent is the envelope for every event published to the learning
// topic. Data holds the type-specific payload.
type LearningEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

const eventSource = "lms-player-core"

// GenerateEventID returns a unique identifier for an event
func GenerateEventID() string {
	return uuid.NewString()
}

func newEvent(eventType EventType, data interface{}) *LearningEvent {
	return &LearningEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

// ===== EVENT PAYLOADS =====

type ExerciseCompletedEvent struct {
	SessionID    string          `json:"session_id"`
	StudentID    string          `json:"student_id"`
	ExerciseID   string          `json:"exercise_id"`
	Variant      string          `json:"variant"`
	Score        int             `json:"score"`
	FullyCorrect bool            `json:"fully_correct"`
	CorrectUnits int             `json:"correct_units"`
	TotalUnits   int             `json:"total_units"`
	Attempts     int             `json:"attempts"`
	HintsUsed    int             `json:"hints_used"`
	TimeSeconds  int             `json:"time_seconds"`
	LastAnswer   json.RawMessage `json:"last_answer,omitempty"`
}

type ExerciseHintRevealedEvent struct {
	SessionID  string `json:"session_id"`
	StudentID  string `json:"student_id"`
	ExerciseID string `json:"exercise_id"`
	HintIndex  int    `json:"hint_index"`
	Attempt    int    `json:"attempt"`
}

type SessionStartedEvent struct {
	SessionID string    `json:"session_id"`
	StudentID string    `json:"student_id"`
	ExamMode  bool      `json:"exam_mode"`
	StartedAt time.Time `json:"started_at"`
}

type SessionCompletedEvent struct {
	SessionID        string    `json:"session_id"`
	StudentID        string    `json:"student_id"`
	TotalScore       int       `json:"total_score"`
	InteractionCount int       `json:"interaction_count"`
	CompletedAt      time.Time `json:"completed_at"`
}

type ProfileUpdatedEvent struct {
	StudentID          string  `json:"student_id"`
	GlobalAccuracyRate float64 `json:"global_accuracy_rate"`
	TotalQuestions     int     `json:"total_questions"`
	HintDependency     float64 `json:"hint_dependency"`
	RetryPersistence   float64 `json:"retry_persistence"`
}

// ===== EVENT CONSTRUCTORS =====

func NewExerciseCompletedEvent(data ExerciseCompletedEvent) *LearningEvent {
	return newEvent(EventExerciseCompleted, data)
}

func NewExerciseHintRevealedEvent(data ExerciseHintRevealedEvent) *LearningEvent {
	return newEvent(EventExerciseHintRevealed, data)
}

func NewSessionStartedEvent(data SessionStartedEvent) *LearningEvent {
	return newEvent(EventSessionStarted, data)
}

func NewSessionCompletedEvent(data SessionCompletedEvent) *LearningEvent {
	return newEvent(EventSessionCompleted, data)
}

func NewProfileUpdatedEvent(data ProfileUpdatedEvent) *LearningEvent {
	return newEvent(EventProfileUpdated, data)
}
