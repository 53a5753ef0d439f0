package services

import (
	"errors"
	"fmt"

	apperrors "github.com/EyalShefer/ai-lms-system-sub004/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Exercise specific errors
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrExerciseExists      = errors.New("exercise already exists")
	ErrUnknownExerciseType = errors.New("unknown exercise type")
	ErrInvalidContent      = errors.New("invalid exercise content")

	// Session specific errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionCompleted    = errors.New("session is already completed")
	ErrExerciseNotMounted  = errors.New("exercise is not mounted in this session")
	ErrExerciseLocked      = errors.New("exercise is locked - no further answers accepted")
	ErrSessionHasNoResults = errors.New("session has no recorded interactions")

	// Profile specific errors
	ErrProfileNotFound = errors.New("student profile not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExerciseNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrExerciseNotMounted) ||
		errors.Is(err, ErrProfileNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidContent) ||
		errors.Is(err, ErrUnknownExerciseType) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrExerciseExists) ||
		errors.Is(err, ErrSessionCompleted) ||
		errors.Is(err, ErrExerciseLocked)
}
