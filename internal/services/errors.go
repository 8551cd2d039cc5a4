package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"devconnect-api/internal/store"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned by every service operation that fails for a reason the caller can act on.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// fromValidator converts validator failures into one validation error listing every field.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationError("Validation failed", FieldError{Message: err.Error()})
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fieldPath(fe), Message: describe(fe)})
	}
	return validationError("Validation failed", fields...)
}

func fieldPath(fe validator.FieldError) string {
	// Namespace is "Struct.field[0]"; drop the struct name.
	ns := fe.Namespace()
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return ns[i+1:]
		}
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "cannot be empty"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "eqfield":
		return "does not match"
	case "strongpassword":
		return "must contain uppercase, lowercase, number and special character"
	case "digits":
		return "must contain only numbers"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// storeError translates store sentinels for an entity into service errors.
func storeError(err error, entity string) error {
	var ref *store.MissingReferenceError
	switch {
	case errors.As(err, &ref):
		return notFound(ref.Entity + " not found")
	case errors.Is(err, store.ErrNotFound):
		return notFound(entity + " not found")
	case errors.Is(err, store.ErrDuplicate):
		return conflict(entity + " already exists")
	default:
		return internal("store failure", err)
	}
}
