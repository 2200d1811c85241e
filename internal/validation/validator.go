// Package validation validates service parameters with validator/v10 and
// converts failures to domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/cropline/psdgate/internal/errors"
)

// Market year bounds accepted by the "marketyear" tag. PSD history starts
// in 1960.
const (
	MinMarketYear = 1960
	MaxMarketYear = 2100
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the gateway's custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use json tag names in error details.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// marketyear: zero (unset) or within [MinMarketYear, MaxMarketYear].
	_ = v.RegisterValidation("marketyear", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y == 0 || (y >= MinMarketYear && y <= MaxMarketYear)
	})

	// notblank: non-empty after trimming spaces.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error whose
// details map field names to messages.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
		names = append(names, e.Field()+" "+fieldErrors[e.Field()])
	}

	return domainerrors.ValidationWithDetails("invalid parameters: "+strings.Join(names, "; "), fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "marketyear":
		return fmt.Sprintf("must be a market year between %d and %d", MinMarketYear, MaxMarketYear)
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gtefield":
		return "must not be before " + e.Param()
	case "required_without":
		return "is required when " + e.Param() + " is not set"
	case "required_with":
		return "is required when " + e.Param() + " is set"
	case "excluded_with":
		return "cannot be combined with " + e.Param()
	default:
		return "is invalid"
	}
}
