package workflow

import "fmt"

// Place is a named state of a workflow.
type Place string

func (p Place) String() string { return string(p) }

// TransitionContext is the payload carried through Apply and persisted with the new state.
// Listeners of the transition phase may replace it.
type TransitionContext map[string]any

// Clone returns a shallow copy. A nil context clones to an empty one.
func (c TransitionContext) Clone() TransitionContext {
	out := make(TransitionContext, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Metadata is a free-form key/value bag attached to a workflow, a place or a transition.
type Metadata map[string]any

// Get returns the value under key and whether it was present.
func (m Metadata) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// String returns the value under key formatted as a string, or "" when absent.
func (m Metadata) String(key string) string {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
