package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/jkruzel/trainings-api/internal/models"
)

// NewValidator returns a validator preloaded with the domain enum rules used
// across request payloads.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("gender", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return models.Gender(fl.Field().String()).Valid()
	})
	v.RegisterValidation("course_category", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return models.Category(fl.Field().String()).Valid()
	})
	v.RegisterValidation("course_path", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return models.Path(fl.Field().String()).Valid()
	})
	v.RegisterValidation("course_formula", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return models.Formula(fl.Field().String()).Valid()
	})
	v.RegisterValidation("ternary", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return models.Ternary(fl.Field().String()).Valid()
	})
	// A decided presence value: UNKNOWN cannot be submitted, only earned by
	// never recording.
	v.RegisterValidation("presence", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return models.Ternary(fl.Field().String()).Decided()
	})

	return v
}
