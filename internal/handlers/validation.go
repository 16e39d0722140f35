package handlers

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the validator shared by all handlers, with the custom
// "passwd" rule requiring at least one uppercase letter and one symbol.
// Length bounds stay in the min/max tags on each request struct.
func newValidator() *validator.Validate {
	v := validator.New()
	// RegisterValidation only fails on an empty tag name.
	_ = v.RegisterValidation("passwd", validPassword)
	return v
}

func validPassword(fl validator.FieldLevel) bool {
	var hasUpper, hasSymbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasSymbol
}

// firstValidationMessage renders the first failing field constraint, in
// struct declaration order, as the client-facing validation message.
func firstValidationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return fmt.Sprintf("field '%s' fails constraint '%s'", e.Field(), e.Tag())
	}
	return "invalid request"
}
