package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

var (
	validate   = newValidator()
	phoneRegex = regexp.MustCompile(`^[+]?[\d\s\-()]+$`)
)

// newValidator reports fields under their JSON names so that failures line up
// with the payload the UI sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// collectFieldErrors runs struct validation and appends every failure to ve.
// Errors other than field failures (an invalid argument) are returned as is.
func collectFieldErrors(s any, ve *domain.ValidationError) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		ve.Add(fieldPath(fe), fieldMessage(fe))
	}
	return nil
}

// fieldPath drops the root struct name: "CreateCaseIntakeRequest.invoices[0].amount" → "invoices[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// failed wraps ve into an error, or returns nil when nothing failed.
func failed(ve *domain.ValidationError) error {
	if ve.Empty() {
		return nil
	}
	return ve
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
