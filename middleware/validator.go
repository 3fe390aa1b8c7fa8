package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct гоняет структуру запроса через validate-теги.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
