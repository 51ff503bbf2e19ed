// Package validators wraps go-playground/validator for the request structs
// defined in internal/models.
package validators

import (
	"github.com/go-playground/validator/v10"
)

// Validator validates tagged request structs. It also satisfies
// echo.Validator, so the dev gateway installs the same instance.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the given struct against its validate tags
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
