package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is wrapped by an Error when a field is not declared for a type
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownType is wrapped by an Error when the parent type is not declared at all
	ErrUnknownType = errors.New("unknown type")
	// ErrSelection is wrapped by an Error when sub-fields are missing (object) or not allowed (scalar)
	ErrSelection = errors.New("invalid selection")
)

// Error (a "schema error") says a query does not conform to the registry.  It is not recoverable
// and rejects the whole query.
type Error struct {
	Type  string   // name of the object type containing the field
	Field string   // name of the field as requested
	Path  []string // response path to the field (if known)
	Err   error    // ErrUnknownField, ErrUnknownType or ErrSelection
}

func (e *Error) Error() string {
	var msg string
	switch e.Err {
	case ErrUnknownField:
		msg = fmt.Sprintf("Cannot query field %q on type %q", e.Field, e.Type)
	case ErrUnknownType:
		msg = fmt.Sprintf("Cannot query field %q on unknown type %q", e.Field, e.Type)
	default:
		msg = fmt.Sprintf("%v: field %q on type %q", e.Err, e.Field, e.Type)
	}
	if len(e.Path) > 0 {
		msg += " (at " + strings.Join(e.Path, ".") + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
