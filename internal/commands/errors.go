package commands

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidArgument = errors.New("invalid argument")
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage. Kind is one of
// the package's sentinel errors so callers can tell them apart with errors.Is.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Kind
}

// NewUserError creates a user-facing error.
func NewUserError(kind error, msg string) *UserError {
	return &UserError{Kind: kind, Message: msg}
}

func unknownCommand(verb string) *UserError {
	return NewUserError(ErrUnknownCommand, fmt.Sprintf("Huh? %q is not something you know how to do. Type 'help' for a list of commands.", verb))
}

// InvalidArgument builds a user-facing ErrInvalidArgument error.
func InvalidArgument(format string, args ...any) *UserError {
	return NewUserError(ErrInvalidArgument, fmt.Sprintf(format, args...))
}
