package workflow

import "fmt"

// StateMachine is a Workflow whose subjects are always in exactly one place.
type StateMachine struct {
	*Workflow
}

// NewStateMachine creates a state machine engine and validates def with StateMachineValidator.
func NewStateMachine(def *Definition, opts ...Option) (*StateMachine, error) {
	w, err := newWorkflow(def, opts...)
	if err != nil {
		return nil, err
	}
	if err := (StateMachineValidator{}).Validate(def, w.name); err != nil {
		return nil, err
	}
	sm := &StateMachine{Workflow: w}
	w.self = sm
	return sm, nil
}

// MustNewStateMachine is like NewStateMachine but panics on error.
func MustNewStateMachine(def *Definition, opts ...Option) *StateMachine {
	sm, err := NewStateMachine(def, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return sm
}
