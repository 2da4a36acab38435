package loader

import (
	"errors"
	"fmt"
)

// Kind classifies why a run failed.
type Kind int

const (
	KindNone Kind = iota
	MissingInput
	ParseFailure
	PersistenceFailure
)

var (
	ErrMissingInput       = errors.New("missing input")
	ErrParseFailure       = errors.New("parse failure")
	ErrPersistenceFailure = errors.New("persistence failure")
)

func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "missing input"
	case ParseFailure:
		return "parse failure"
	case PersistenceFailure:
		return "persistence failure"
	default:
		return "none"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case MissingInput:
		return ErrMissingInput
	case ParseFailure:
		return ErrParseFailure
	case PersistenceFailure:
		return ErrPersistenceFailure
	default:
		return nil
	}
}

// StageError is returned by Run. It matches both its kind's sentinel error
// and the underlying cause with errors.Is.
type StageError struct {
	Kind  Kind
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s after %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	if s := e.Kind.sentinel(); s != nil {
		return []error{s, e.Err}
	}
	return []error{e.Err}
}

// KindOf returns the failure kind carried by err, or KindNone.
func KindOf(err error) Kind {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Kind
	}
	switch {
	case errors.Is(err, ErrMissingInput):
		return MissingInput
	case errors.Is(err, ErrParseFailure):
		return ParseFailure
	case errors.Is(err, ErrPersistenceFailure):
		return PersistenceFailure
	}
	return KindNone
}

// Cause returns the error that made the stage fail, without the kind prefix.
func Cause(err error) error {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Err
	}
	return err
}
