package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/services"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
	"github.com/gin-gonic/gin"
)

type ExerciseHandler struct {
	BaseHandler
	exerciseService services.ExerciseService
}

func NewExerciseHandler(
	exerciseService services.ExerciseService,
	logger utils.Logger,
) *ExerciseHandler {
	return &ExerciseHandler{
		BaseHandler:     NewBaseHandler(logger),
		exerciseService: exerciseService,
	}
}

// CreateExercise creates a new exercise
// @Summary Create exercise
// @Description Creates a new exercise with validated content
// @Tags exercises
// @Accept json
// @Produce json
// @Param exercise body services.CreateExerciseRequest true "Exercise data"
// @Success 201 {object} SuccessResponse{data=models.Exercise}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req services.CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating exercise", "exercise_id", req.ExerciseID, "variant", req.Variant)

	exercise, err := h.exerciseService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Exercise created successfully",
		Data:    exercise,
	})
}

// GetExercise retrieves an exercise by its external ID
// @Summary Get exercise
// @Description Retrieves a single exercise by ID
// @Tags exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} SuccessResponse{data=models.Exercise}
// @Failure 404 {object} ErrorResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID := ParseStringIDParam(c, "id")
	if exerciseID == "" {
		return
	}

	exercise, err := h.exerciseService.Get(c.Request.Context(), exerciseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Exercise retrieved successfully",
		Data:    exercise,
	})
}

// ListExercises lists exercises with optional filters
// @Summary List exercises
// @Description Lists exercises with filtering and pagination
// @Tags exercises
// @Produce json
// @Param variant query string false "Exercise type"
// @Param topic query string false "Topic"
// @Param created_by query string false "Creator ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "Sort order (asc, desc)"
// @Success 200 {object} ListResponse
// @Failure 500 {object} ErrorResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filters := h.parseExerciseFilters(c)

	exercises, total, err := h.exerciseService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:   exercises,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// DeleteExercise removes an exercise
// @Summary Delete exercise
// @Description Soft-deletes an exercise by ID
// @Tags exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID := ParseStringIDParam(c, "id")
	if exerciseID == "" {
		return
	}

	h.LogRequest(c, "Deleting exercise", "exercise_id", exerciseID)

	if err := h.exerciseService.Delete(c.Request.Context(), exerciseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Exercise deleted successfully",
	})
}

func (h *ExerciseHandler) parseExerciseFilters(c *gin.Context) repositories.ExerciseFilters {
	filters := repositories.ExerciseFilters{
		Limit:     20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if variant := c.Query("variant"); variant != "" {
		filters.Variant = &variant
	}
	if topic := c.Query("topic"); topic != "" {
		filters.Topic = &topic
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		filters.CreatedBy = &createdBy
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
	if sortBy := c.Query("sort_by"); sortBy != "" {
		filters.SortBy = sortBy
	}
	if sortOrder := c.Query("sort_order"); sortOrder == "asc" || sortOrder == "desc" {
		filters.SortOrder = sortOrder
	}

	return filters
}

func (h *ExerciseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrExerciseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Exercise not found",
		})
	case errors.Is(err, services.ErrExerciseExists):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Exercise ID already exists",
		})
	case errors.Is(err, services.ErrInvalidContent):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid exercise content",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnknownExerciseType):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unknown exercise type",
		})
	default:
		h.LogError(c, err, "Exercise operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
