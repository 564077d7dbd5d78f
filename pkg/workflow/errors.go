package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks construction and lookup errors caused by bad input.
	ErrInvalidArgument = errors.New("workflow: invalid argument")
	// ErrLogic marks inconsistencies between a definition, a subject and the engine.
	ErrLogic = errors.New("workflow: logic error")
)

// UndefinedTransitionError is returned when no transition in the definition carries the requested name.
type UndefinedTransitionError struct {
	Transition string
	Workflow   string
}

func (e *UndefinedTransitionError) Error() string {
	return fmt.Sprintf("transition %q is not defined for workflow %q", e.Transition, e.Workflow)
}

func NewUndefinedTransitionError(transition, workflow string) *UndefinedTransitionError {
	return &UndefinedTransitionError{Transition: transition, Workflow: workflow}
}

// NotEnabledTransitionError is returned by Apply when every candidate transition is blocked.
// Blockers holds the list that explains the refusal.
type NotEnabledTransitionError struct {
	Transition string
	Workflow   string
	State      Place
	Blockers   *TransitionBlockerList
}

func (e *NotEnabledTransitionError) Error() string {
	return fmt.Sprintf("transition %q is not enabled for subject in state %q in workflow %q", e.Transition, e.State, e.Workflow)
}

func NewNotEnabledTransitionError(transition, workflow string, state Place, blockers *TransitionBlockerList) *NotEnabledTransitionError {
	return &NotEnabledTransitionError{
		Transition: transition,
		Workflow:   workflow,
		State:      state,
		Blockers:   blockers,
	}
}

// InvalidStateError is returned when a subject reports a state that is not a place of the definition.
type InvalidStateError struct {
	State    Place
	Workflow string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("state %q is not valid for workflow %q", e.State, e.Workflow)
}

func (e *InvalidStateError) Unwrap() error { return ErrLogic }

// InvalidDefinitionError is returned by validators.
type InvalidDefinitionError struct {
	Workflow string
	Reason   string
}

func (e *InvalidDefinitionError) Error() string {
	return fmt.Sprintf("invalid definition for workflow %q: %s", e.Workflow, e.Reason)
}

func (e *InvalidDefinitionError) Unwrap() error { return ErrLogic }

// GuardError wraps a leave or enter guard failure that aborted Apply.
type GuardError struct {
	Phase      Phase
	Transition string
	Err        error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s guard rejected transition %q: %v", e.Phase, e.Transition, e.Err)
}

func (e *GuardError) Unwrap() error { return e.Err }

func IsUndefinedTransitionError(err error) bool {
	var e *UndefinedTransitionError
	return errors.As(err, &e)
}

func IsNotEnabledTransitionError(err error) bool {
	var e *NotEnabledTransitionError
	return errors.As(err, &e)
}

func IsInvalidStateError(err error) bool {
	var e *InvalidStateError
	return errors.As(err, &e)
}

func IsGuardError(err error) bool {
	var e *GuardError
	return errors.As(err, &e)
}
