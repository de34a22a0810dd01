package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure. The transport layer maps each kind to
// a status code; the use cases never retry on any of them.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindValidation   Kind = "validation"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NotFoundErr(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ConflictErr(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func InvalidStateErr(code, message string) error {
	return BusinessError{Kind: KindInvalidState, Code: code, Message: message}
}

func ValidationErr(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

// IsBusiness reports whether err carries the given business code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
