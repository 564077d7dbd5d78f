package workflow

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// SupportStrategy decides whether an engine handles a subject.
type SupportStrategy interface {
	Supports(e Engine, subject any) bool
}

// SupportFunc adapts a function to the SupportStrategy interface.
type SupportFunc func(e Engine, subject any) bool

func (f SupportFunc) Supports(e Engine, subject any) bool { return f(e, subject) }

type instanceOf[T any] struct{}

func (instanceOf[T]) Supports(_ Engine, subject any) bool {
	_, ok := subject.(T)
	return ok
}

// InstanceOf supports subjects assignable to T. T may be an interface.
func InstanceOf[T any]() SupportStrategy {
	return instanceOf[T]{}
}

type registration struct {
	engine   Engine
	strategy SupportStrategy
}

// Registry locates the engine responsible for a subject. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines []registration
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers an engine with the strategy deciding which subjects it handles.
// It panics if either is nil.
func (r *Registry) Add(e Engine, s SupportStrategy) {
	if isNil(e) {
		panic("workflow: Registry.Add called with a nil engine")
	}
	if isNil(s) {
		panic(fmt.Sprintf("workflow: Registry.Add called with a nil support strategy for %q", e.Name()))
	}
	r.mu.Lock()
	r.engines = append(r.engines, registration{engine: e, strategy: s})
	r.mu.Unlock()
}

// Get returns the single engine supporting subject. An empty name matches any engine.
// It fails with ErrInvalidArgument when no engine or more than one engine matches.
func (r *Registry) Get(subject any, name string) (Engine, error) {
	var matched []Engine
	for _, reg := range r.snapshot() {
		if name != "" && reg.engine.Name() != name {
			continue
		}
		if reg.strategy.Supports(reg.engine, subject) {
			matched = append(matched, reg.engine)
		}
	}

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("%w: unable to find a workflow for subject of type %T", ErrInvalidArgument, subject)
	case 1:
		return matched[0], nil
	default:
		names := make([]string, 0, len(matched))
		for _, e := range matched {
			names = append(names, e.Name())
		}
		return nil, fmt.Errorf("%w: too many workflows (%s) match subject of type %T, register them under different names and pass one to Get",
			ErrInvalidArgument, strings.Join(names, ", "), subject)
	}
}

// Has reports whether at least one engine supports subject.
func (r *Registry) Has(subject any, name string) bool {
	for _, reg := range r.snapshot() {
		if (name == "" || reg.engine.Name() == name) && reg.strategy.Supports(reg.engine, subject) {
			return true
		}
	}
	return false
}

// All returns every engine supporting subject in registration order.
func (r *Registry) All(subject any) []Engine {
	var matched []Engine
	for _, reg := range r.snapshot() {
		if reg.strategy.Supports(reg.engine, subject) {
			matched = append(matched, reg.engine)
		}
	}
	return matched
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface, reflect.Chan, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func (r *Registry) snapshot() []registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]registration, len(r.engines))
	copy(out, r.engines)
	return out
}
