package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "Active"
	SessionCompleted SessionStatus = "Completed"
	SessionAbandoned SessionStatus = "Abandoned"
)

// Session is one learner sitting: a sequence of exercise interactions plus
// the roll-up written when the session closes.
type Session struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	SessionID string        `json:"session_id" gorm:"not null;size:36;uniqueIndex"`
	StudentID string        `json:"student_id" gorm:"not null;size:64;index" validate:"required,max=64"`
	Status    SessionStatus `json:"status" gorm:"default:Active;index" validate:"omitempty,oneof=Active Completed Abandoned"`
	ExamMode  bool          `json:"exam_mode" gorm:"default:false"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	TotalScore  int        `json:"total_score" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Interactions []SessionInteraction `json:"interactions" gorm:"foreignKey:SessionID;references:ID"`

	// Computed fields (not stored)
	InteractionCount int `json:"interaction_count" gorm:"-"`
}

// SessionInteraction is the durable record of one terminal exercise pass:
// the telemetry snapshot plus the final score. Seq orders interactions within
// the session. LastAnswer is the learner's final working answer, stored
// verbatim for audit and replay.
type SessionInteraction struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SessionID uint   `json:"session_id" gorm:"not null;index:idx_session_seq,unique"`
	Seq       int    `json:"seq" gorm:"not null;index:idx_session_seq,unique"`

	ExerciseID string `json:"exercise_id" gorm:"not null;size:64;index"`
	Variant    string `json:"variant" gorm:"not null;size:32"`

	Score         int  `json:"score" gorm:"not null"`
	FullyCorrect  bool `json:"fully_correct"`
	CorrectUnits  int  `json:"correct_units"`
	TotalUnits    int  `json:"total_units"`
	Attempts      int  `json:"attempts" gorm:"not null"`
	HintsUsed     int  `json:"hints_used"`
	Resets        int  `json:"resets"`
	TimeSeconds   int  `json:"time_seconds"`

	LastAnswer datatypes.JSON `json:"last_answer" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (SessionInteraction) TableName() string {
	return "session_interactions"
}
