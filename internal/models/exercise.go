package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MediaKind string

const (
	MediaText     MediaKind = "text"
	MediaVideo    MediaKind = "video"
	MediaGamified MediaKind = "gamified"
)

// Exercise is the stored definition of one interactive exercise: the typed
// answer-key payload plus the policy knobs the player applies when a learner
// mounts it. Content holds the exercise-type payload as JSONB; it is decoded
// by the engine, never by the persistence layer.
type Exercise struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ExerciseID  string         `json:"exercise_id" gorm:"not null;size:64;uniqueIndex" validate:"required,max=64"`
	Title       string         `json:"title" gorm:"size:200" validate:"max=200"`
	Variant     string         `json:"variant" gorm:"not null;size:32;index" validate:"required,exercise_type"`
	Topic       string         `json:"topic" gorm:"size:100;index" validate:"max=100"`
	Media       MediaKind      `json:"media" gorm:"default:text;size:16" validate:"omitempty,media_kind"`
	Content     datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`
	Hints       datatypes.JSON `json:"hints" gorm:"type:jsonb"` // ordered hint texts
	MaxAttempts int            `json:"max_attempts" gorm:"default:3" validate:"omitempty,min=1,max=10"`
	ExamMode    bool           `json:"exam_mode" gorm:"default:false"`

	CreatedBy string         `json:"created_by" gorm:"size:64;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Exercise) TableName() string {
	return "exercises"
}
