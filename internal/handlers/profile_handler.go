package handlers

import (
	"errors"
	"net/http"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/services"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(
	profileService services.ProfileService,
	logger utils.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// GetProfile retrieves the aggregated learning profile of a student
// @Summary Get student profile
// @Description Retrieves the aggregated performance, behavioral and engagement profile
// @Tags profiles
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {object} SuccessResponse{data=profile.Profile}
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{student_id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	p, err := h.profileService.Get(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Profile retrieved successfully",
		Data:    p,
	})
}

// GetSessionStats retrieves aggregate session statistics for a student
// @Summary Get student session stats
// @Description Retrieves session counts, average score and time spent for a student
// @Tags profiles
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {object} SuccessResponse{data=repositories.SessionStats}
// @Failure 500 {object} ErrorResponse
// @Router /profiles/{student_id}/session-stats [get]
func (h *ProfileHandler) GetSessionStats(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	stats, err := h.profileService.GetSessionStats(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session stats retrieved successfully",
		Data:    stats,
	})
}

func (h *ProfileHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Profile not found",
		})
	default:
		h.LogError(c, err, "Profile operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
