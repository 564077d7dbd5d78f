package workflow

import "fmt"

// DefinitionValidator checks structural rules a definition must satisfy for an engine.
type DefinitionValidator interface {
	Validate(def *Definition, name string) error
}

// ValidatorFunc adapts a function to the DefinitionValidator interface.
type ValidatorFunc func(def *Definition, name string) error

func (f ValidatorFunc) Validate(def *Definition, name string) error { return f(def, name) }

// WorkflowValidator requires transition names to be unique per from place.
type WorkflowValidator struct{}

func (WorkflowValidator) Validate(def *Definition, name string) error {
	if dup := duplicateFrom(def); dup != nil {
		return &InvalidDefinitionError{
			Workflow: name,
			Reason: fmt.Sprintf("all transitions for a place must have a unique name, multiple transitions named %q were found for place %q",
				dup.Name(), dup.From()),
		}
	}
	return nil
}

// StateMachineValidator requires transition names to be unique per from state.
type StateMachineValidator struct{}

func (StateMachineValidator) Validate(def *Definition, name string) error {
	if dup := duplicateFrom(def); dup != nil {
		return &InvalidDefinitionError{
			Workflow: name,
			Reason: fmt.Sprintf("a transition from a state must have a unique name, multiple transitions named %q from state %q were found",
				dup.Name(), dup.From()),
		}
	}
	return nil
}

// Validators runs validators in order and returns the first error.
type Validators []DefinitionValidator

func (vs Validators) Validate(def *Definition, name string) error {
	for _, v := range vs {
		if err := v.Validate(def, name); err != nil {
			return err
		}
	}
	return nil
}

func duplicateFrom(def *Definition) *Transition {
	seen := make(map[Place]map[string]struct{})
	for _, t := range def.transitions {
		names, ok := seen[t.From()]
		if !ok {
			names = make(map[string]struct{})
			seen[t.From()] = names
		}
		if _, dup := names[t.Name()]; dup {
			return t
		}
		names[t.Name()] = struct{}{}
	}
	return nil
}
