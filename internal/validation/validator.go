// Package validation validates service requests with go-playground/validator
// and converts failures into domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/util"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the content-directory rules registered:
//
//	module        blog | product | job
//	pricing       Free | Freemium | Paid | Subscription
//	vacancy_type  Remote | Hybrid | On-site (case-insensitive)
//	slug          lowercase words joined by dashes
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "module", func(fl validator.FieldLevel) bool {
		return domain.Module(fl.Field().String()).Valid()
	})
	mustRegister(v, "pricing", func(fl validator.FieldLevel) bool {
		return domain.PricingType(fl.Field().String()).Valid()
	})
	mustRegister(v, "vacancy_type", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseVacancyType(fl.Field().String())
		return ok
	})
	mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
		return util.IsSlug(fl.Field().String())
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "module":
		return "must be one of: blog product job"
	case "pricing":
		return "must be one of: Free Freemium Paid Subscription"
	case "vacancy_type":
		return "must be one of: Remote Hybrid On-site"
	case "slug":
		return "must contain only lowercase letters, digits and dashes"
	default:
		return "is invalid"
	}
}
