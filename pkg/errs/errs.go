package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP status codes.
var (
	ErrInvalidID    = errors.New("invalid id format")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("resource conflict")
)

// Error 带业务描述的错误，Unwrap 返回错误类别
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

// Unwrap lets errors.Is(err, errs.ErrNotFound) match.
func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound returns "<entity> not found".
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf("%s not found", entity)}
}

// InvalidID returns "invalid <name>".
func InvalidID(name string) error {
	return &Error{Kind: ErrInvalidID, Msg: fmt.Sprintf("invalid %s", name)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Msg: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
