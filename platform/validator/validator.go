// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"fish_and_follow_backend/platform/phone"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ruleMessages holds the message suffix of every tag registered through
// RegisterRule, keyed by tag.
var ruleMessages sync.Map

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the shared tags registered:
// loose_phone, email_or_empty and uuid_or_empty. Domain modules add their
// own tags with RegisterRule.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("loose_phone", func(fl validator.FieldLevel) bool {
		return phone.LooksValid(fl.Field().String())
	})
	// An empty value clears an optional field on partial updates.
	_ = v.RegisterValidation("email_or_empty", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || v.Var(value, "email") == nil
	})
	_ = v.RegisterValidation("uuid_or_empty", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, err := uuid.Parse(value)
		return err == nil
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// RegisterRule registers a string predicate under tag. Describe reports a
// failure as "<field> <message>".
func (val *Validator) RegisterRule(tag string, valid func(string) bool, message string) error {
	if err := val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	}); err != nil {
		return err
	}
	ruleMessages.Store(tag, message)
	return nil
}

// Describe turns validation errors into a short human readable message
// naming the first failing field. Other errors are returned as-is.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	if message, ok := ruleMessages.Load(fe.Tag()); ok {
		return fmt.Sprintf("%s %s", field, message)
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email", "email_or_empty":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "uuid", "uuid_or_empty":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "loose_phone":
		return fmt.Sprintf("%s must contain at least 10 digits", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return fmt.Sprintf("%s must not be empty", field)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
