package http

import (
	"github.com/go-playground/validator/v10"
)

// FormValidator wraps the validator for echo
type FormValidator struct {
	validator *validator.Validate
}

// NewFormValidator creates the echo validator used for form DTOs.
func NewFormValidator() *FormValidator {
	return &FormValidator{validator: validator.New()}
}

// Validate validates structs
func (v *FormValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
