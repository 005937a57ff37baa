// Package apperr holds the typed failures the services raise. Each failure
// carries the HTTP status the transports answer with, so adapters never
// guess a code from an error string.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindMissingImage       Kind = "missing_image"
	KindNotFound           Kind = "not_found"
	KindNotAuthorized      Kind = "not_authorized"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidToken       Kind = "invalid_token"
	KindExpiredToken       Kind = "expired_token"
	KindTransient          Kind = "transient"
)

// Sentinels for errors.Is checks against a Kind.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrMissingImage       = &Error{Kind: KindMissingImage}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrNotAuthorized      = &Error{Kind: KindNotAuthorized}
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrExpiredToken       = &Error{Kind: KindExpiredToken}
	ErrTransient          = &Error{Kind: KindTransient}
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Data    any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind. A missing image is also a validation failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindValidation && e.Kind == KindMissingImage
}

// Extensions exposes status and data to graphql-go's error formatter.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"status": e.Status}
	if e.Data != nil {
		ext["data"] = e.Data
	}
	return ext
}

func Validation(message string, fields []FieldError) *Error {
	var data any
	if len(fields) > 0 {
		data = fields
	}
	return &Error{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Message: message, Data: data}
}

func MissingImage(message string) *Error {
	return &Error{Kind: KindMissingImage, Status: http.StatusUnprocessableEntity, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func NotAuthorized(message string) *Error {
	return &Error{Kind: KindNotAuthorized, Status: http.StatusForbidden, Message: message}
}

func DuplicateEmail(message string) *Error {
	return &Error{Kind: KindDuplicateEmail, Status: http.StatusUnprocessableEntity, Message: message}
}

func InvalidCredentials(message string) *Error {
	return &Error{Kind: KindInvalidCredentials, Status: http.StatusUnauthorized, Message: message}
}

func InvalidToken(message string, err error) *Error {
	return &Error{Kind: KindInvalidToken, Status: http.StatusUnauthorized, Message: message, Err: err}
}

func ExpiredToken(message string) *Error {
	return &Error{Kind: KindExpiredToken, Status: http.StatusUnauthorized, Message: message}
}

// Transient wraps a store or filesystem failure the client cannot correct.
func Transient(message string, err error) *Error {
	return &Error{Kind: KindTransient, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusOf returns the status attached to err, or 500 when err is not typed.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Public returns the message and data safe to show a client. Untyped and
// transient failures collapse to a generic message.
func Public(err error) (string, any) {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindTransient {
		return "An error occurred.", nil
	}
	return e.Message, e.Data
}
