package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/services"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(
	reportService services.ReportService,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ExportSessionReport downloads a session report as an xlsx workbook
// @Summary Export session report
// @Description Builds an xlsx report with one row per recorded interaction
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/report [get]
func (h *ReportHandler) ExportSessionReport(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Exporting session report", "session_id", sessionID)

	data, filename, err := h.reportService.ExportSessionReport(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportStudentReport downloads a learner mastery report as an xlsx workbook
// @Summary Export student report
// @Description Builds an xlsx report with the learner's mastery summary and session history
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param student_id path string true "Student ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{student_id}/report [get]
func (h *ReportHandler) ExportStudentReport(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	h.LogRequest(c, "Exporting student report", "student_id", studentID)

	data, filename, err := h.reportService.ExportStudentReport(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ReportHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Profile not found",
		})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Session not found",
		})
	case errors.Is(err, services.ErrSessionHasNoResults):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Session has no recorded results",
		})
	default:
		h.LogError(c, err, "Report export failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
