package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories/postgres"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/validator"
)

// ExerciseService manages stored exercise definitions. Content is validated
// against its exercise type at creation so the player never mounts a payload
// its evaluator cannot decode.
type ExerciseService interface {
	Create(ctx context.Context, req CreateExerciseRequest) (*models.Exercise, error)
	Get(ctx context.Context, exerciseID string) (*models.Exercise, error)
	List(ctx context.Context, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error)
	Delete(ctx context.Context, exerciseID string) error
}

type CreateExerciseRequest struct {
	ExerciseID  string           `json:"exercise_id" validate:"required,max=64"`
	Title       string           `json:"title" validate:"max=200"`
	Variant     string           `json:"variant" validate:"required,exercise_type"`
	Topic       string           `json:"topic" validate:"max=100"`
	Media       models.MediaKind `json:"media" validate:"omitempty,media_kind"`
	Content     json.RawMessage  `json:"content" validate:"required"`
	Hints       []string         `json:"hints" validate:"max=10"`
	MaxAttempts int              `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	ExamMode    bool             `json:"exam_mode"`
	CreatedBy   string           `json:"created_by" validate:"max=64"`
}

type exerciseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExerciseService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ExerciseService {
	return &exerciseService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *exerciseService) Create(ctx context.Context, req CreateExerciseRequest) (*models.Exercise, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	content := exercise.Content{Kind: exercise.Type(req.Variant), Data: req.Content}
	if err := s.validator.Content().Validate(content); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContent, err)
	}

	hints, err := json.Marshal(req.Hints)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hints: %w", err)
	}

	ex := &models.Exercise{
		ExerciseID:  req.ExerciseID,
		Title:       req.Title,
		Variant:     req.Variant,
		Topic:       req.Topic,
		Media:       req.Media,
		Content:     datatypes.JSON(req.Content),
		Hints:       datatypes.JSON(hints),
		MaxAttempts: req.MaxAttempts,
		ExamMode:    req.ExamMode,
		CreatedBy:   req.CreatedBy,
	}

	exists, err := s.repo.Exercise().ExistsByExerciseID(ctx, req.ExerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check exercise existence: %w", err)
	}
	if exists {
		return nil, ErrExerciseExists
	}

	if err := s.repo.Exercise().Create(ctx, ex); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	s.logger.Info("Created exercise",
		"exercise_id", ex.ExerciseID,
		"variant", ex.Variant,
		"topic", ex.Topic)

	return ex, nil
}

func (s *exerciseService) Get(ctx context.Context, exerciseID string) (*models.Exercise, error) {
	ex, err := s.repo.Exercise().GetByExerciseID(ctx, exerciseID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return ex, nil
}

func (s *exerciseService) List(ctx context.Context, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error) {
	return s.repo.Exercise().List(ctx, filters)
}

func (s *exerciseService) Delete(ctx context.Context, exerciseID string) error {
	ex, err := s.Get(ctx, exerciseID)
	if err != nil {
		return err
	}
	if err := s.repo.Exercise().Delete(ctx, ex.ID); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	s.logger.Info("Deleted exercise", "exercise_id", exerciseID)
	return nil
}
