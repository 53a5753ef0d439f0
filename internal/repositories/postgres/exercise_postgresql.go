package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
)

type ExercisePostgreSQL struct {
	db *gorm.DB
}

func NewExercisePostgreSQL(db *gorm.DB) repositories.ExerciseRepository {
	return &ExercisePostgreSQL{db: db}
}

func (e *ExercisePostgreSQL) Create(ctx context.Context, ex *models.Exercise) error {
	exists, err := e.ExistsByExerciseID(ctx, ex.ExerciseID)
	if err != nil {
		return fmt.Errorf("failed to check exercise uniqueness: %w", err)
	}
	if exists {
		return fmt.Errorf("exercise '%s' already exists", ex.ExerciseID)
	}
	if err := e.db.WithContext(ctx).Create(ex).Error; err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

func (e *ExercisePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Exercise, error) {
	var ex models.Exercise
	if err := e.db.WithContext(ctx).First(&ex, id).Error; err != nil {
		return nil, err
	}
	return &ex, nil
}

func (e *ExercisePostgreSQL) GetByExerciseID(ctx context.Context, exerciseID string) (*models.Exercise, error) {
	var ex models.Exercise
	err := e.db.WithContext(ctx).
		Where("exercise_id = ?", exerciseID).
		First(&ex).Error
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

func (e *ExercisePostgreSQL) Update(ctx context.Context, ex *models.Exercise) error {
	if err := e.db.WithContext(ctx).Save(ex).Error; err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}
	return nil
}

func (e *ExercisePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := e.db.WithContext(ctx).Delete(&models.Exercise{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete exercise: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *ExercisePostgreSQL) List(ctx context.Context, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Exercise{})

	if filters.Variant != nil {
		query = query.Where("variant = ?", *filters.Variant)
	}
	if filters.Topic != nil {
		query = query.Where("topic = ?", *filters.Topic)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count exercises: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, "created_at")
	query = applyPaging(query, filters.Limit, filters.Offset)

	var exercises []*models.Exercise
	if err := query.Find(&exercises).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, total, nil
}

func (e *ExercisePostgreSQL) ExistsByExerciseID(ctx context.Context, exerciseID string) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Exercise{}).
		Where("exercise_id = ?", exerciseID).
		Count(&count).Error
	return count > 0, err
}
