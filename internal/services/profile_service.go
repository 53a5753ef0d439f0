package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/cache"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/events"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/profile"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories/postgres"
)

const (
	profileCacheTTL = 10 * time.Minute
	profileKeyFmt   = "profile:%s"
)

// ProfileService maintains the per-student mastery profile: read with a
// cache in front of the store, fold new samples in, and announce updates on
// the event bus.
type ProfileService interface {
	Get(ctx context.Context, studentID string) (profile.Profile, error)
	ApplySample(ctx context.Context, studentID string, sample profile.Sample) (profile.Profile, error)
	GetSessionStats(ctx context.Context, studentID string) (*repositories.SessionStats, error)
}

type profileService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewProfileService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
) ProfileService {
	return &profileService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *profileService) Get(ctx context.Context, studentID string) (profile.Profile, error) {
	key := fmt.Sprintf(profileKeyFmt, studentID)

	var cached profile.Profile
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	record, err := s.repo.Profile().GetByStudentID(ctx, studentID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	p, err := decodeProfile(record)
	if err != nil {
		return profile.Profile{}, err
	}

	if err := s.cache.Set(ctx, key, p, profileCacheTTL); err != nil {
		s.logger.Warn("Failed to cache profile", "student_id", studentID, "error", err)
	}
	return p, nil
}

// ApplySample folds one terminal attempt into the student's profile and
// persists the result. Missing profiles are created from the empty aggregate.
func (s *profileService) ApplySample(ctx context.Context, studentID string, sample profile.Sample) (profile.Profile, error) {
	current, err := s.Get(ctx, studentID)
	if err != nil {
		if err != ErrProfileNotFound {
			return profile.Profile{}, err
		}
		current = profile.New()
	}

	updated := profile.Fold(current, sample)

	record, err := encodeProfile(studentID, updated)
	if err != nil {
		return profile.Profile{}, err
	}
	if err := s.repo.Profile().Upsert(ctx, record); err != nil {
		return profile.Profile{}, fmt.Errorf("failed to persist profile: %w", err)
	}

	key := fmt.Sprintf(profileKeyFmt, studentID)
	if err := s.cache.Set(ctx, key, updated, profileCacheTTL); err != nil {
		s.logger.Warn("Failed to refresh cached profile", "student_id", studentID, "error", err)
	}

	event := events.NewProfileUpdatedEvent(events.ProfileUpdatedEvent{
		StudentID:          studentID,
		GlobalAccuracyRate: updated.Performance.GlobalAccuracyRate,
		TotalQuestions:     updated.Performance.TotalQuestionsAttempted,
		HintDependency:     updated.Behavioral.HintDependencyScore,
		RetryPersistence:   updated.Behavioral.RetryPersistence,
	})
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		// Analytics must never block the learning path.
		s.logger.Warn("Failed to publish profile update", "student_id", studentID, "error", err)
	}

	return updated, nil
}

func (s *profileService) GetSessionStats(ctx context.Context, studentID string) (*repositories.SessionStats, error) {
	return s.repo.Session().GetStudentSessionStats(ctx, studentID)
}

// ===== RECORD CODEC =====

func encodeProfile(studentID string, p profile.Profile) (*models.StudentProfile, error) {
	performance, err := json.Marshal(p.Performance)
	if err != nil {
		return nil, fmt.Errorf("failed to encode performance section: %w", err)
	}
	behavioral, err := json.Marshal(p.Behavioral)
	if err != nil {
		return nil, fmt.Errorf("failed to encode behavioral section: %w", err)
	}
	engagement, err := json.Marshal(p.Engagement)
	if err != nil {
		return nil, fmt.Errorf("failed to encode engagement section: %w", err)
	}

	return &models.StudentProfile{
		StudentID:   studentID,
		Performance: datatypes.JSON(performance),
		Behavioral:  datatypes.JSON(behavioral),
		Engagement:  datatypes.JSON(engagement),
	}, nil
}

func decodeProfile(record *models.StudentProfile) (profile.Profile, error) {
	p := profile.New()
	if len(record.Performance) > 0 {
		if err := json.Unmarshal(record.Performance, &p.Performance); err != nil {
			return profile.Profile{}, fmt.Errorf("failed to decode performance section: %w", err)
		}
	}
	if len(record.Behavioral) > 0 {
		if err := json.Unmarshal(record.Behavioral, &p.Behavioral); err != nil {
			return profile.Profile{}, fmt.Errorf("failed to decode behavioral section: %w", err)
		}
	}
	if len(record.Engagement) > 0 {
		if err := json.Unmarshal(record.Engagement, &p.Engagement); err != nil {
			return profile.Profile{}, fmt.Errorf("failed to decode engagement section: %w", err)
		}
	}
	if p.Performance.ErrorRateByTopic == nil {
		p.Performance.ErrorRateByTopic = make(map[string]int)
	}
	return p, nil
}
