package workflow

import (
	"fmt"
	"slices"
)

// Definition is the immutable graph of places and transitions a workflow runs on.
type Definition struct {
	places       []Place
	placeSet     map[Place]struct{}
	transitions  []*Transition
	initialPlace Place
	metadata     MetadataStore
}

type definitionConfig struct {
	initialPlace    Place
	metadata        MetadataStore
	allowNoTransits bool
}

// DefinitionOption configures NewDefinition.
type DefinitionOption func(*definitionConfig)

// WithInitialPlace overrides the default initial place (the first declared place).
func WithInitialPlace(p Place) DefinitionOption {
	return func(c *definitionConfig) {
		c.initialPlace = p
	}
}

// WithMetadataStore attaches a metadata store to the definition.
func WithMetadataStore(s MetadataStore) DefinitionOption {
	return func(c *definitionConfig) {
		c.metadata = s
	}
}

// AllowEmptyTransitions accepts a definition without transitions.
func AllowEmptyTransitions() DefinitionOption {
	return func(c *definitionConfig) {
		c.allowNoTransits = true
	}
}

// NewDefinition validates places and transitions and returns a definition.
// Duplicate places are collapsed, keeping the first occurrence.
func NewDefinition(places []Place, transitions []*Transition, opts ...DefinitionOption) (*Definition, error) {
	cfg := &definitionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(places) == 0 {
		return nil, fmt.Errorf("%w: places cannot be empty", ErrInvalidArgument)
	}
	if len(transitions) == 0 && !cfg.allowNoTransits {
		return nil, fmt.Errorf("%w: transitions cannot be empty", ErrInvalidArgument)
	}

	d := &Definition{
		places:   make([]Place, 0, len(places)),
		placeSet: make(map[Place]struct{}, len(places)),
	}
	for _, p := range places {
		if _, ok := d.placeSet[p]; ok {
			continue
		}
		d.placeSet[p] = struct{}{}
		d.places = append(d.places, p)
	}

	d.transitions = make([]*Transition, 0, len(transitions))
	for i, t := range transitions {
		if t == nil {
			return nil, fmt.Errorf("%w: transition at index %d is nil", ErrInvalidArgument, i)
		}
		for _, p := range []Place{t.From(), t.To()} {
			if !d.HasPlace(p) {
				return nil, fmt.Errorf("%w: place %q referenced in transition %q does not exist", ErrLogic, p, t.Name())
			}
		}
		d.transitions = append(d.transitions, t.withID(i))
	}

	d.initialPlace = d.places[0]
	if cfg.initialPlace != "" {
		if !d.HasPlace(cfg.initialPlace) {
			return nil, fmt.Errorf("%w: place %q cannot be the initial place as it does not exist", ErrLogic, cfg.initialPlace)
		}
		d.initialPlace = cfg.initialPlace
	}

	d.metadata = cfg.metadata
	if d.metadata == nil {
		d.metadata = NewInMemoryMetadataStore(nil, nil, nil)
	}

	return d, nil
}

// MustNewDefinition is like NewDefinition but panics on error.
func MustNewDefinition(places []Place, transitions []*Transition, opts ...DefinitionOption) *Definition {
	d, err := NewDefinition(places, transitions, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create definition: %v", err))
	}
	return d
}

// Places returns the places in declaration order.
func (d *Definition) Places() []Place { return slices.Clone(d.places) }

func (d *Definition) HasPlace(p Place) bool {
	_, ok := d.placeSet[p]
	return ok
}

// Transitions returns the transitions in declaration order.
func (d *Definition) Transitions() []*Transition { return slices.Clone(d.transitions) }

// TransitionsNamed returns the transitions called name in declaration order.
func (d *Definition) TransitionsNamed(name string) []*Transition {
	var out []*Transition
	for _, t := range d.transitions {
		if t.Name() == name {
			out = append(out, t)
		}
	}
	return out
}

func (d *Definition) InitialPlace() Place { return d.initialPlace }

func (d *Definition) MetadataStore() MetadataStore { return d.metadata }
