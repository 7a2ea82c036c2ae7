// Package validation checks decoded request bodies with validator/v10.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/models"
)

// Validator wraps go-playground/validator and reports failures as AppErrors.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		_, err := models.ParseRating(fl.Field().String())
		return err == nil
	})

	return &Validator{v: v}
}

// Validate returns nil or a VALIDATION_ERROR with one detail per failing field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewBadRequestError(err.Error())
	}

	details := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		details[e.Field()] = message(e)
	}
	return errors.NewValidationDetails(details)
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "rating":
		return "must be one of again, hard, good, easy or 1-4"
	default:
		return "is invalid"
	}
}
