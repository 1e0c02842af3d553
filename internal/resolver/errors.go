package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingArgument is wrapped by an ArgumentError when a required argument is not supplied (or is null)
	ErrMissingArgument = errors.New("missing required argument")
	// ErrInvalidArgument is wrapped by an ArgumentError when an argument value has the wrong shape
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgumentError is returned when a query field's arguments do not satisfy its declaration
type ArgumentError struct {
	Field    string   // name of the query field
	Argument string   // name of the argument
	Path     []string // response path of the field (if known)
	Err      error    // ErrMissingArgument or ErrInvalidArgument (possibly wrapped with more detail)
}

func (e *ArgumentError) Error() string {
	msg := fmt.Sprintf("argument %q of field %q: %v", e.Argument, e.Field, e.Err)
	if len(e.Path) > 0 {
		msg += " (at " + strings.Join(e.Path, ".") + ")"
	}
	return msg
}

func (e *ArgumentError) Unwrap() error { return e.Err }
