package service

import (
	"errors"
	"net/http"

	"messaging-service/internal/store"
)

// Kind classifies a service error. Every orchestration step returns
// either a value or one of these; the orchestrator short-circuits on the
// first error except during list enrichment.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindInvalidInput
	KindForbidden
	KindNotFound
	KindConflict
	KindInfrastructure
)

// Error is a typed service error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a typed error with no cause.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a typed error around a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// infra wraps a repository failure. A store-side conflict (uniqueness or
// check constraint) surfaces as Conflict: the store constraint is the
// authoritative guard, the in-process checks are an optimization.
func infra(msg string, err error) *Error {
	var se *store.StatusError
	if errors.As(err, &se) && se.Status == http.StatusConflict {
		return Wrap(KindConflict, msg, err)
	}
	return Wrap(KindInfrastructure, msg, err)
}
