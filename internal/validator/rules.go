package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

func registerCustomRules(v *validator.Validate) {
	// notblank rejects strings that are empty after trimming whitespace.
	// "required" alone accepts "   " which breaks search queries.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
