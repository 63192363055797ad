package quiz

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError means a required field is missing or malformed. Nothing was
// mutated.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// PersistenceError wraps a record store failure. Callers degrade to an empty
// collection or a rolled back mutation and report it as a warning.
type PersistenceError struct {
	Op         string // load|save
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// StateTransitionError is returned when an attempt operation is not allowed
// from the current status. The attempt is left in whatever state the rules
// forced (e.g. timed_out after a late submit).
type StateTransitionError struct {
	Op   string
	From Status
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s attempt in state %s", e.Op, e.From)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

func IsStateTransition(err error) bool {
	var s *StateTransitionError
	return errors.As(err, &s)
}
