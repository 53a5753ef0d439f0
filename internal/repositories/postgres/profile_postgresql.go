package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := p.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) Upsert(ctx context.Context, profile *models.StudentProfile) error {
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"performance", "behavioral", "engagement", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) Delete(ctx context.Context, studentID string) error {
	result := p.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.StudentProfile{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
