package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/services"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/validator"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

type StartSessionRequest struct {
	StudentID string `json:"student_id" validate:"required,max=64"`
	ExamMode  bool   `json:"exam_mode"`
}

type AnswerRequest struct {
	Answer json.RawMessage `json:"answer"`
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StartSession opens a new learning session for a student
// @Summary Start session
// @Description Opens a new learning session for a student
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body StartSessionRequest true "Session data"
// @Success 201 {object} SuccessResponse{data=models.Session}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting session", "student_id", req.StudentID, "exam_mode", req.ExamMode)

	session, err := h.sessionService.Start(c.Request.Context(), req.StudentID, req.ExamMode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Session started successfully",
		Data:    session,
	})
}

// MountExercise loads an exercise into an active session
// @Summary Mount exercise
// @Description Loads an exercise into an active session and returns its initial state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param exercise_id path string true "Exercise ID"
// @Success 200 {object} SuccessResponse{data=services.ExerciseView}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/exercises/{exercise_id}/mount [post]
func (h *SessionHandler) MountExercise(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	exerciseID := ParseStringIDParam(c, "exercise_id")
	if exerciseID == "" {
		return
	}

	h.LogRequest(c, "Mounting exercise", "session_id", sessionID, "exercise_id", exerciseID)

	view, err := h.sessionService.Mount(c.Request.Context(), sessionID, exerciseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Exercise mounted successfully",
		Data:    view,
	})
}

// SaveAnswer stores a draft answer without grading it
// @Summary Save answer
// @Description Stores a draft answer for a mounted exercise without grading
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param exercise_id path string true "Exercise ID"
// @Param answer body AnswerRequest true "Answer payload"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/exercises/{exercise_id}/answer [put]
func (h *SessionHandler) SaveAnswer(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	exerciseID := ParseStringIDParam(c, "exercise_id")
	if exerciseID == "" {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.sessionService.SaveAnswer(c.Request.Context(), sessionID, exerciseID, req.Answer); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Answer saved successfully",
	})
}

// SubmitAnswer grades an answer for a mounted exercise
// @Summary Submit answer
// @Description Grades the submitted answer and advances the exercise state
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param exercise_id path string true "Exercise ID"
// @Param answer body AnswerRequest false "Answer payload, falls back to the saved draft when omitted"
// @Success 200 {object} SuccessResponse{data=services.SubmitResult}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/exercises/{exercise_id}/submit [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	exerciseID := ParseStringIDParam(c, "exercise_id")
	if exerciseID == "" {
		return
	}

	var req AnswerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	h.LogRequest(c, "Submitting answer", "session_id", sessionID, "exercise_id", exerciseID)

	result, err := h.sessionService.Submit(c.Request.Context(), sessionID, exerciseID, req.Answer)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Answer submitted successfully",
		Data:    result,
	})
}

// ResetExercise starts a fresh pass over a mounted exercise
// @Summary Reset exercise
// @Description Discards the current pass and restarts the exercise
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param exercise_id path string true "Exercise ID"
// @Success 200 {object} SuccessResponse{data=services.ExerciseView}
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/exercises/{exercise_id}/reset [post]
func (h *SessionHandler) ResetExercise(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	exerciseID := ParseStringIDParam(c, "exercise_id")
	if exerciseID == "" {
		return
	}

	h.LogRequest(c, "Resetting exercise", "session_id", sessionID, "exercise_id", exerciseID)

	view, err := h.sessionService.Reset(c.Request.Context(), sessionID, exerciseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Exercise reset successfully",
		Data:    view,
	})
}

// GetExerciseState returns the current state of a mounted exercise
// @Summary Get exercise state
// @Description Returns the current state snapshot of a mounted exercise
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param exercise_id path string true "Exercise ID"
// @Success 200 {object} SuccessResponse{data=services.ExerciseView}
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/exercises/{exercise_id} [get]
func (h *SessionHandler) GetExerciseState(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	exerciseID := ParseStringIDParam(c, "exercise_id")
	if exerciseID == "" {
		return
	}

	view, err := h.sessionService.GetState(c.Request.Context(), sessionID, exerciseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Exercise state retrieved successfully",
		Data:    view,
	})
}

// CompleteSession closes an active session
// @Summary Complete session
// @Description Closes an active session and finalizes its score
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=models.Session}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Completing session", "session_id", sessionID)

	session, err := h.sessionService.Complete(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session completed successfully",
		Data:    session,
	})
}

// AbandonSession discards an active session without finalizing a score
// @Summary Abandon session
// @Description Marks an active session as abandoned and discards its in-memory state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/abandon [post]
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Abandoning session", "session_id", sessionID)

	if err := h.sessionService.Abandon(c.Request.Context(), sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session abandoned successfully",
	})
}

// ListSessions lists a student's session history
// @Summary List sessions
// @Description Lists sessions for a student with filtering and pagination
// @Tags sessions
// @Produce json
// @Param student_id query string true "Student ID"
// @Param status query string false "Session status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	studentID := c.Query("student_id")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid student_id",
			Details: "student_id query parameter is required",
		})
		return
	}

	filters := h.parseSessionFilters(c)

	sessions, total, err := h.sessionService.History(c.Request.Context(), studentID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:   sessions,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// ListInteractions lists the recorded interactions of a session
// @Summary List session interactions
// @Description Lists every recorded exercise outcome of a session in order
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=[]models.SessionInteraction}
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/interactions [get]
func (h *SessionHandler) ListInteractions(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	interactions, err := h.sessionService.Interactions(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Interactions retrieved successfully",
		Data:    interactions,
	})
}

func (h *SessionHandler) parseSessionFilters(c *gin.Context) repositories.SessionFilters {
	filters := repositories.SessionFilters{
		Limit:     20,
		SortBy:    "started_at",
		SortOrder: "desc",
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.SessionStatus(statusStr)
		filters.Status = &status
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filters.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	return filters
}

func (h *SessionHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Session not found",
		})
	case errors.Is(err, services.ErrExerciseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Exercise not found",
		})
	case errors.Is(err, services.ErrExerciseNotMounted):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Exercise is not mounted in this session",
		})
	case errors.Is(err, services.ErrSessionCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session is already completed",
		})
	case errors.Is(err, services.ErrExerciseLocked):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Exercise is locked after maximum attempts",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Session operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
