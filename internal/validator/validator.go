package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/models"
)

// Validator is the main validator instance that combines struct-tag and
// exercise-content validation.
type Validator struct {
	structValidator  *validator.Validate
	contentValidator *ContentValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:  structValidator,
		contentValidator: NewContentValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Content returns the exercise content validator
func (v *Validator) Content() *ContentValidator {
	return v.contentValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("exercise_type", validateExerciseType)
	validate.RegisterValidation("media_kind", validateMediaKind)
	validate.RegisterValidation("session_status", validateSessionStatus)

	// Use json names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateExerciseType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, t := range exercise.Types() {
		if string(t) == value {
			return true
		}
	}
	return false
}

func validateMediaKind(fl validator.FieldLevel) bool {
	switch models.MediaKind(fl.Field().String()) {
	case models.MediaText, models.MediaVideo, models.MediaGamified:
		return true
	}
	return false
}

func validateSessionStatus(fl validator.FieldLevel) bool {
	switch models.SessionStatus(fl.Field().String()) {
	case models.SessionActive, models.SessionCompleted, models.SessionAbandoned:
		return true
	}
	return false
}
