package handlers

import (
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/services"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	exerciseHandler *ExerciseHandler
	sessionHandler  *SessionHandler
	profileHandler  *ProfileHandler
	reportHandler   *ReportHandler
	healthHandler   *HealthHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	repo repositories.Repository,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		exerciseHandler: NewExerciseHandler(serviceManager.Exercise(), logger),
		sessionHandler:  NewSessionHandler(serviceManager.Session(), validator, logger),
		profileHandler:  NewProfileHandler(serviceManager.Profile(), logger),
		reportHandler:   NewReportHandler(serviceManager.Report(), logger),
		healthHandler:   NewHealthHandler(repo, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.healthHandler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Exercise routes
		exercises := v1.Group("/exercises")
		{
			exercises.POST("", hm.exerciseHandler.CreateExercise)
			exercises.GET("", hm.exerciseHandler.ListExercises)
			exercises.GET("/:id", hm.exerciseHandler.GetExercise)
			exercises.DELETE("/:id", hm.exerciseHandler.DeleteExercise)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.POST("/:id/complete", hm.sessionHandler.CompleteSession)
			sessions.POST("/:id/abandon", hm.sessionHandler.AbandonSession)
			sessions.GET("/:id/interactions", hm.sessionHandler.ListInteractions)
			sessions.GET("/:id/report", hm.reportHandler.ExportSessionReport)

			// Per-exercise state within a session
			sessions.POST("/:id/exercises/:exercise_id/mount", hm.sessionHandler.MountExercise)
			sessions.GET("/:id/exercises/:exercise_id", hm.sessionHandler.GetExerciseState)
			sessions.PUT("/:id/exercises/:exercise_id/answer", hm.sessionHandler.SaveAnswer)
			sessions.POST("/:id/exercises/:exercise_id/submit", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/exercises/:exercise_id/reset", hm.sessionHandler.ResetExercise)
		}

		// Profile routes
		profiles := v1.Group("/profiles")
		{
			profiles.GET("/:student_id", hm.profileHandler.GetProfile)
			profiles.GET("/:student_id/session-stats", hm.profileHandler.GetSessionStats)
			profiles.GET("/:student_id/report", hm.reportHandler.ExportStudentReport)
		}
	}
}
