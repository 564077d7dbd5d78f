package workflow

import (
	"fmt"
	"reflect"
)

// StateAccessor reads and writes the current state of a subject.
// The engine knows nothing else about subjects.
type StateAccessor interface {
	GetState(subject any) (Place, error)
	SetState(subject any, p Place, tc TransitionContext) error
}

// Stateful is implemented by subjects that manage their own state.
type Stateful interface {
	CurrentState() Place
	SetCurrentState(p Place, tc TransitionContext)
}

// SubjectStateAccessor works with subjects implementing Stateful. It is the default accessor.
type SubjectStateAccessor struct{}

func (SubjectStateAccessor) GetState(subject any) (Place, error) {
	s, ok := subject.(Stateful)
	if !ok {
		return "", fmt.Errorf("%w: subject of type %T does not implement workflow.Stateful", ErrLogic, subject)
	}
	return s.CurrentState(), nil
}

func (SubjectStateAccessor) SetState(subject any, p Place, tc TransitionContext) error {
	s, ok := subject.(Stateful)
	if !ok {
		return fmt.Errorf("%w: subject of type %T does not implement workflow.Stateful", ErrLogic, subject)
	}
	s.SetCurrentState(p, tc)
	return nil
}

// FuncStateAccessor delegates to typed closures. Subjects of another type are rejected.
type FuncStateAccessor[T any] struct {
	Get func(subject T) Place
	Set func(subject T, p Place, tc TransitionContext)
}

// NewFuncStateAccessor creates an accessor from a getter and a setter.
func NewFuncStateAccessor[T any](get func(T) Place, set func(T, Place, TransitionContext)) *FuncStateAccessor[T] {
	return &FuncStateAccessor[T]{Get: get, Set: set}
}

func (a *FuncStateAccessor[T]) GetState(subject any) (Place, error) {
	s, ok := subject.(T)
	if !ok {
		return "", fmt.Errorf("%w: expected subject of type %T, got %T", ErrLogic, *new(T), subject)
	}
	if a.Get == nil {
		return "", fmt.Errorf("%w: state getter is not configured", ErrLogic)
	}
	return a.Get(s), nil
}

func (a *FuncStateAccessor[T]) SetState(subject any, p Place, tc TransitionContext) error {
	s, ok := subject.(T)
	if !ok {
		return fmt.Errorf("%w: expected subject of type %T, got %T", ErrLogic, *new(T), subject)
	}
	if a.Set == nil {
		return fmt.Errorf("%w: state setter is not configured", ErrLogic)
	}
	a.Set(s, p, tc)
	return nil
}

// FieldStateAccessor reads and writes a named string field of a struct pointer.
// When ContextField is set, the transition context is stored in that field too.
type FieldStateAccessor struct {
	Field        string
	ContextField string
}

// NewFieldStateAccessor creates an accessor bound to the given struct field.
func NewFieldStateAccessor(field string) *FieldStateAccessor {
	return &FieldStateAccessor{Field: field}
}

func (a *FieldStateAccessor) GetState(subject any) (Place, error) {
	f, err := a.field(subject, a.Field)
	if err != nil {
		return "", err
	}
	if f.Kind() != reflect.String {
		return "", fmt.Errorf("%w: field %q of %T is not a string", ErrLogic, a.Field, subject)
	}
	return Place(f.String()), nil
}

func (a *FieldStateAccessor) SetState(subject any, p Place, tc TransitionContext) error {
	f, err := a.field(subject, a.Field)
	if err != nil {
		return err
	}
	if f.Kind() != reflect.String || !f.CanSet() {
		return fmt.Errorf("%w: field %q of %T is not a settable string", ErrLogic, a.Field, subject)
	}

	var cf reflect.Value
	if a.ContextField != "" {
		cf, err = a.field(subject, a.ContextField)
		if err != nil {
			return err
		}
		if !cf.CanSet() || !reflect.TypeOf(tc).AssignableTo(cf.Type()) {
			return fmt.Errorf("%w: field %q of %T cannot hold a transition context", ErrLogic, a.ContextField, subject)
		}
	}

	f.SetString(string(p))
	if cf.IsValid() {
		cf.Set(reflect.ValueOf(tc))
	}
	return nil
}

func (a *FieldStateAccessor) field(subject any, name string) (reflect.Value, error) {
	v := reflect.ValueOf(subject)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: subject must be a non-nil struct pointer, got %T", ErrLogic, subject)
	}
	f := v.Elem().FieldByName(name)
	if !f.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: subject of type %T has no field %q", ErrLogic, subject, name)
	}
	return f, nil
}
