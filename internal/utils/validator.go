package utils

import (
	"Snack-Tracker/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator that also knows the "kcal" tag: a
// non-negative whole number written as text.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("kcal", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseKcal(fl.Field().String())
		return err == nil
	})
	return v
}
