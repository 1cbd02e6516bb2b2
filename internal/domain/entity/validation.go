package entity

import (
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jhoicas/Portal-api/internal/domain"
)

// toValidationError traduce validation.Errors de ozzo a domain.ValidationError con claves snake_case.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return domain.NewValidationError(map[string]string{"_": err.Error()})
	}
	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		fields[snakeCase(name)] = fieldErr.Error()
	}
	if len(fields) == 0 {
		return nil
	}
	return domain.NewValidationError(fields)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
