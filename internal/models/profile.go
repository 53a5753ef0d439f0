package models

import (
	"time"

	"gorm.io/datatypes"
)

// StudentProfile is the persisted mastery document. The three sections are
// stored as JSONB so the aggregate can evolve without schema churn; the
// profile package owns their shape and this record never interprets them.
type StudentProfile struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;size:64;uniqueIndex" validate:"required,max=64"`

	Performance datatypes.JSON `json:"performance" gorm:"type:jsonb"`
	Behavioral  datatypes.JSON `json:"behavioral" gorm:"type:jsonb"`
	Engagement  datatypes.JSON `json:"engagement" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
