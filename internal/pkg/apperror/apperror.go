package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
	KindGenerationFailed Kind = "GENERATION_FAILED"
	KindGenerationEmpty  Kind = "GENERATION_EMPTY"
	KindDecisionRequired Kind = "DECISION_REQUIRED"
	KindForbidden        Kind = "FORBIDDEN"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the user can simply repeat the action.
func (e *Error) Retryable() bool {
	return e.Kind == KindGenerationFailed || e.Kind == KindGenerationEmpty || e.Kind == KindStoreUnavailable
}

func New(kind Kind, status int, message string, err error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

func NotFound(what string) *Error {
	return New(KindNotFound, http.StatusNotFound, what+" not found", nil)
}

func StoreUnavailable(err error) *Error {
	return New(KindStoreUnavailable, http.StatusServiceUnavailable, "persistence is unavailable", err)
}

func GenerationFailed(err error) *Error {
	return New(KindGenerationFailed, http.StatusBadGateway, "generation failed, please retry", err)
}

func GenerationEmpty(message string) *Error {
	return New(KindGenerationEmpty, http.StatusUnprocessableEntity, message, nil)
}

func DecisionRequired(message string) *Error {
	return New(KindDecisionRequired, http.StatusConflict, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message, nil)
}

// Is reports whether err carries an *Error of the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
