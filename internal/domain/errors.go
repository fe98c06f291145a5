package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures so transports can map them without string matching.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindConflict   Kind = "CONFLICT"
	KindNotFound   Kind = "NOT_FOUND"
	KindAuth       Kind = "AUTH"
	KindConfig     Kind = "CONFIG"
	KindStore      Kind = "STORE"
)

// Error is the typed failure returned by services and repositories.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	// ErrValidation matches malformed client input.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrConflict matches uniqueness violations.
	ErrConflict = &Error{Kind: KindConflict}
	// ErrNotFound matches lookups without a matching record.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrAuth matches bad credentials and bad, missing or expired tokens.
	ErrAuth = &Error{Kind: KindAuth}
	// ErrConfig matches missing operational configuration.
	ErrConfig = &Error{Kind: KindConfig}
	// ErrStore matches storage collaborator failures.
	ErrStore = &Error{Kind: KindStore}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind. A target carrying a message must match it too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Extensions exposes the error kind to GraphQL clients.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Kind)}
}

// Public returns the message safe to show to clients; store failures hide their cause.
func (e *Error) Public() string {
	if e.Kind == KindStore {
		return "internal storage error"
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Config(msg string) *Error     { return &Error{Kind: KindConfig, Message: msg} }

// Store wraps a collaborator failure; op names the failed operation.
func Store(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// KindOf reports the kind of err, or "" if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
