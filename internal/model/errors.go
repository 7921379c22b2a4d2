package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports an empty sequence or a wrong channel count.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConstruction reports an inconsistent topology.
	ErrConstruction = errors.New("invalid topology")
)

// ConstructionError identifies the stage that failed validation.  It matches
// both ErrConstruction and the underlying cause under errors.Is.
type ConstructionError struct {
	Stage int
	Kind  StageKind
	Err   error
}

func (e *ConstructionError) Error() string {
	if e.Stage < 0 {
		return fmt.Sprintf("%s: %v", ErrConstruction, e.Err)
	}
	return fmt.Sprintf("%s: stage %d (%s): %v", ErrConstruction, e.Stage, e.Kind, e.Err)
}

func (e *ConstructionError) Unwrap() []error {
	return []error{ErrConstruction, e.Err}
}

func constructionErr(stage int, kind StageKind, format string, args ...any) error {
	return &ConstructionError{Stage: stage, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
