package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
)

type postgresRepository struct {
	db       *gorm.DB
	exercise repositories.ExerciseRepository
	session  repositories.SessionRepository
	profile  repositories.ProfileRepository
}

// NewRepository wires the per-entity repositories over one gorm handle.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &postgresRepository{
		db:       db,
		exercise: NewExercisePostgreSQL(db),
		session:  NewSessionPostgreSQL(db),
		profile:  NewProfilePostgreSQL(db),
	}
}

func (r *postgresRepository) Exercise() repositories.ExerciseRepository { return r.exercise }
func (r *postgresRepository) Session() repositories.SessionRepository   { return r.session }
func (r *postgresRepository) Profile() repositories.ProfileRepository   { return r.profile }

func (r *postgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *postgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// IsNotFoundError reports whether err is the driver's record-not-found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func applySort(query *gorm.DB, sortBy, sortOrder, fallback string) *gorm.DB {
	if sortBy == "" {
		sortBy = fallback
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}

func applyPaging(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
