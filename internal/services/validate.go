package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"scaffold-backend/internal/metrics"
	"scaffold-backend/internal/rental"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so paths read line_items[0].duration
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct checks the validate tags of a request DTO and reports
// failures as rental.ValidationErrors
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(rental.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &rental.ValidationError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

// observe counts engine rejections by class and passes err through
func observe(op string, err error) error {
	if err == nil {
		return nil
	}
	if class := ErrorClass(err); class != "internal" && class != "external" {
		metrics.EngineRejections.WithLabelValues(op, class).Inc()
	}
	return err
}

// ErrorClass buckets an error the way the HTTP layer reports it
func ErrorClass(err error) string {
	switch {
	case rental.IsValidation(err):
		return "validation"
	case errors.Is(err, rental.ErrConflict):
		return "conflict"
	case rental.IsInvariant(err):
		return "invariant"
	case errors.Is(err, rental.ErrNotFound):
		return "not_found"
	case errors.Is(err, rental.ErrExternal):
		return "external"
	}
	return "internal"
}
