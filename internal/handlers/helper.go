package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseStringIDParam extracts a path parameter and rejects blank values.
// Returns "" after writing the error response when the parameter is missing.
func ParseStringIDParam(c *gin.Context, param string) string {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "identifier cannot be empty",
		})
		return ""
	}
	return id
}
