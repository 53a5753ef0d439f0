package repositories

import (
	"context"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
)

// ProfileRepository interface for student mastery profile operations
type ProfileRepository interface {
	GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error)
	// Upsert writes the profile document, creating the row on first contact.
	Upsert(ctx context.Context, profile *models.StudentProfile) error
	Delete(ctx context.Context, studentID string) error
}
