package auth

import (
	"chat-live/errors"
	stderrors "errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Signup rules. Passwords need upper, lower, digit and symbol.
type RegisterRequest struct {
	Username string `validate:"required,min=3,max=32,alphanum"`
	Password string `validate:"required,min=12,max=72,complex"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("complex", func(fl validator.FieldLevel) bool {
		return isPasswordComplex(fl.Field().String())
	})
	return v
}

// ValidateRegister reports the first broken rule: ErrInvalidPassword for the
// password, ErrInvalidPayload for anything else.
func ValidateRegister(req RegisterRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	first := fieldErrors[0]
	if first.Field() == "Password" {
		return fmt.Errorf("%w: rule %q", errors.ErrInvalidPassword, first.Tag())
	}
	return fmt.Errorf("%w: %s fails %q", errors.ErrInvalidPayload, first.Field(), first.Tag())
}

func isPasswordComplex(s string) bool {
	var upper, lower, digit, symbol bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			upper = true
		case unicode.IsLower(char):
			lower = true
		case unicode.IsNumber(char):
			digit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
