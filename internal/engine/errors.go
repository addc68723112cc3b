// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a rejected action. Every failed precondition maps to
// exactly one kind; only KindConflict is worth retrying, and then only
// after the caller re-fetches the current state.
type Kind int

const (
	// KindValidation: missing or malformed intent fields. Never mutates state.
	KindValidation Kind = iota
	// KindAuth: missing or invalid caller identity.
	KindAuth
	// KindAuthorization: not a member, not the host, or not your turn.
	KindAuthorization
	// KindState: wrong lifecycle phase or an unresolved pending decision.
	KindState
	// KindConflict: version mismatch, or a conditional transition lost the race.
	KindConflict
	// KindNotFound: game, tile or player absent.
	KindNotFound
	// KindUpstream: a persistence or identity collaborator failed.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "upstream"
	}
}

// HTTPStatus maps the kind to its HTTP-equivalent status class.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindState, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified processor failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) *Error { return errf(KindValidation, format, args...) }
func forbiddenf(format string, args ...any) *Error  { return errf(KindAuthorization, format, args...) }
func statef(format string, args ...any) *Error      { return errf(KindState, format, args...) }
func conflictf(format string, args ...any) *Error   { return errf(KindConflict, format, args...) }
func notFoundf(format string, args ...any) *Error   { return errf(KindNotFound, format, args...) }

func upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

// KindOf extracts the kind from any error returned by the processor,
// defaulting to KindUpstream for unclassified failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}
