package services

import (
	"log/slog"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/cache"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/evaluator"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/events"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/validator"
)

// ServiceManager bundles the domain services behind one handle so the
// handler layer takes a single dependency.
type ServiceManager interface {
	Exercise() ExerciseService
	Session() SessionService
	Profile() ProfileService
	Report() ReportService
}

type serviceManager struct {
	exercise ExerciseService
	session  SessionService
	profile  ProfileService
	report   ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
) ServiceManager {
	registry := evaluator.NewRegistry()
	profiles := NewProfileService(repo, cacheService, publisher, logger)

	return &serviceManager{
		exercise: NewExerciseService(repo, logger, v),
		session:  NewSessionService(repo, registry, profiles, publisher, logger),
		profile:  profiles,
		report:   NewReportService(repo, profiles, logger),
	}
}

func (m *serviceManager) Exercise() ExerciseService { return m.exercise }
func (m *serviceManager) Session() SessionService   { return m.session }
func (m *serviceManager) Profile() ProfileService   { return m.profile }
func (m *serviceManager) Report() ReportService     { return m.report }
