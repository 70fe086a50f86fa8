// Package validator wraps go-playground struct validation with the custom
// rules request structs in this service rely on.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError describes one failed rule on one struct field.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = validator.New()

func init() {
	// uuid_required: the zero UUID counts as missing on reference fields,
	// which plain `required` cannot express for value types
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// ValidateStruct runs the struct's validate tags and reports every violation.
// A nil result means the struct passed.
func ValidateStruct(data interface{}) []*FieldError {
	var fieldErrors []*FieldError
	if err := validate.Struct(data); err != nil {
		for _, violation := range err.(validator.ValidationErrors) {
			fieldErrors = append(fieldErrors, &FieldError{
				Field: violation.StructNamespace(),
				Tag:   violation.Tag(),
				Param: violation.Param(),
			})
		}
	}
	return fieldErrors
}
