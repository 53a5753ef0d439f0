package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	if session.Status == "" {
		session.Status = models.SessionActive
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetBySessionID(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetBySessionIDWithInteractions(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Preload("Interactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("session_id = ?", sessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	session.InteractionCount = len(session.Interactions)
	return &session, nil
}

func (s *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Session{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("started_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("started_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, "started_at")
	query = applyPaging(query, filters.Limit, filters.Offset)

	var sessions []*models.Session
	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}

func (s *SessionPostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	filters.StudentID = &studentID
	return s.List(ctx, filters)
}

// AddInteraction appends the interaction and rolls its score into the session
// total in one transaction, assigning the next sequence number.
func (s *SessionPostgreSQL) AddInteraction(ctx context.Context, sessionID uint, interaction *models.SessionInteraction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int
		err := tx.Model(&models.SessionInteraction{}).
			Where("session_id = ?", sessionID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error
		if err != nil {
			return fmt.Errorf("failed to determine next seq: %w", err)
		}

		interaction.SessionID = sessionID
		interaction.Seq = maxSeq + 1
		if err := tx.Create(interaction).Error; err != nil {
			return fmt.Errorf("failed to record interaction: %w", err)
		}

		err = tx.Model(&models.Session{}).
			Where("id = ?", sessionID).
			Update("total_score", gorm.Expr("total_score + ?", interaction.Score)).Error
		if err != nil {
			return fmt.Errorf("failed to update session total: %w", err)
		}
		return nil
	})
}

func (s *SessionPostgreSQL) ListInteractions(ctx context.Context, sessionID uint) ([]*models.SessionInteraction, error) {
	var interactions []*models.SessionInteraction
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return interactions, nil
}

func (s *SessionPostgreSQL) Complete(ctx context.Context, sessionID uint, completedAt time.Time, totalScore int) error {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionActive).
		Updates(map[string]interface{}{
			"status":       models.SessionCompleted,
			"completed_at": completedAt,
			"total_score":  totalScore,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *SessionPostgreSQL) UpdateStatus(ctx context.Context, sessionID uint, status models.SessionStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update session status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *SessionPostgreSQL) GetStudentSessionStats(ctx context.Context, studentID string) (*repositories.SessionStats, error) {
	stats := &repositories.SessionStats{}

	type row struct {
		Total     int64
		Completed int64
		AvgScore  float64
	}
	var r row
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(*) FILTER (WHERE status = ?) AS completed, "+
				"COALESCE(AVG(total_score), 0) AS avg_score",
			models.SessionCompleted,
		).
		Where("student_id = ?", studentID).
		Scan(&r).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute session stats: %w", err)
	}

	stats.TotalSessions = int(r.Total)
	stats.CompletedSessions = int(r.Completed)
	stats.AverageScore = r.AvgScore

	var interactions int64
	err = s.db.WithContext(ctx).
		Model(&models.SessionInteraction{}).
		Joins("JOIN sessions ON sessions.id = session_interactions.session_id").
		Where("sessions.student_id = ?", studentID).
		Count(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	stats.InteractionCount = int(interactions)

	var avgTime float64
	err = s.db.WithContext(ctx).
		Model(&models.SessionInteraction{}).
		Joins("JOIN sessions ON sessions.id = session_interactions.session_id").
		Where("sessions.student_id = ?", studentID).
		Select("COALESCE(AVG(time_seconds), 0)").
		Scan(&avgTime).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average time: %w", err)
	}
	stats.AverageTimeSpent = int(avgTime)

	return stats, nil
}
