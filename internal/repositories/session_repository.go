package repositories

import (
	"context"
	"time"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
)

// SessionRepository interface for learner session operations
type SessionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Session, error)
	GetBySessionIDWithInteractions(ctx context.Context, sessionID string) (*models.Session, error)

	// Query operations
	List(ctx context.Context, filters SessionFilters) ([]*models.Session, int64, error)
	GetByStudent(ctx context.Context, studentID string, filters SessionFilters) ([]*models.Session, int64, error)

	// Interaction recording
	AddInteraction(ctx context.Context, sessionID uint, interaction *models.SessionInteraction) error
	ListInteractions(ctx context.Context, sessionID uint) ([]*models.SessionInteraction, error)

	// Completion
	Complete(ctx context.Context, sessionID uint, completedAt time.Time, totalScore int) error
	UpdateStatus(ctx context.Context, sessionID uint, status models.SessionStatus) error

	// Statistics
	GetStudentSessionStats(ctx context.Context, studentID string) (*SessionStats, error)
}
