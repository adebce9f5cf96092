// Package inputval validates request payloads using struct tags.
//
// Payload structs declare their rules with `validate:"..."` tags and a
// human-readable `label:"..."`. Validate returns a Result whose First()
// message is what handlers send back to the client.
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if l := fld.Tag.Get("label"); l != "" {
				return l
			}
			return fld.Name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// Result collects the failed rules in declaration order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// HasTag reports whether any failure was caused by the given rule tag.
func (r Result) HasTag(tag string) bool {
	for _, e := range r.Errors {
		if e.Tag == tag {
			return true
		}
	}
	return false
}

// Validate checks s against its `validate` struct tags.
func Validate(s any) Result {
	err := get().Struct(s)
	if err == nil {
		return Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []FieldError{{Message: err.Error()}}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return Result{Errors: out}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "objectid":
		return fmt.Sprintf("%s is not a valid identifier.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
