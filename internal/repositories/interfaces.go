package repositories

import (
	"context"
	"time"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ExerciseFilters struct {
	Variant   *string `json:"variant"`
	Topic     *string `json:"topic"`
	CreatedBy *string `json:"created_by"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "title", "topic"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type SessionFilters struct {
	Status    *models.SessionStatus `json:"status"`
	StudentID *string               `json:"student_id"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type SessionStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	AverageScore      float64 `json:"average_score"`
	AverageTimeSpent  int     `json:"average_time_spent"`
	InteractionCount  int     `json:"interaction_count"`
}

// ===== AGGREGATE REPOSITORY =====

// Repository bundles the per-entity repositories behind one handle so
// services take a single dependency.
type Repository interface {
	Exercise() ExerciseRepository
	Session() SessionRepository
	Profile() ProfileRepository

	Ping(ctx context.Context) error
	Close() error
}
