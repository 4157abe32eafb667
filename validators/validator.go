package validators

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wires go-playground/validator into Echo's c.Validate.
type CustomValidator struct {
	validate *validator.Validate
}

// NewValidator creates a new CustomValidator
func NewValidator() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate validates a request struct against its validate tags
func (v *CustomValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
