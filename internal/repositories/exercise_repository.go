package repositories

import (
	"context"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
)

// ExerciseRepository interface for exercise definition operations
type ExerciseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, ex *models.Exercise) error
	GetByID(ctx context.Context, id uint) (*models.Exercise, error)
	GetByExerciseID(ctx context.Context, exerciseID string) (*models.Exercise, error)
	Update(ctx context.Context, ex *models.Exercise) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters ExerciseFilters) ([]*models.Exercise, int64, error)
	ExistsByExerciseID(ctx context.Context, exerciseID string) (bool, error)
}
