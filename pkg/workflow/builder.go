package workflow

// DefinitionBuilder accumulates places, transitions and metadata for a Definition.
// Validation happens in Build, which delegates to NewDefinition.
type DefinitionBuilder struct {
	places         []Place
	transitions    []*Transition
	initialPlace   Place
	metadata       MetadataStore
	allowEmpty     bool
	workflowMeta   Metadata
	placeMeta      map[Place]Metadata
	transitionMeta map[int]Metadata
}

// NewDefinitionBuilder creates a builder seeded with optional places and transitions.
func NewDefinitionBuilder(places []Place, transitions []*Transition) *DefinitionBuilder {
	b := &DefinitionBuilder{}
	b.AddPlaces(places...)
	b.AddTransitions(transitions...)
	return b
}

func (b *DefinitionBuilder) AddPlace(p Place) *DefinitionBuilder {
	b.places = append(b.places, p)
	return b
}

func (b *DefinitionBuilder) AddPlaces(places ...Place) *DefinitionBuilder {
	b.places = append(b.places, places...)
	return b
}

func (b *DefinitionBuilder) AddTransition(t *Transition) *DefinitionBuilder {
	b.transitions = append(b.transitions, t)
	return b
}

func (b *DefinitionBuilder) AddTransitions(ts ...*Transition) *DefinitionBuilder {
	b.transitions = append(b.transitions, ts...)
	return b
}

func (b *DefinitionBuilder) SetInitialPlace(p Place) *DefinitionBuilder {
	b.initialPlace = p
	return b
}

// SetMetadataStore sets an explicit store. It takes precedence over Set*Metadata calls.
func (b *DefinitionBuilder) SetMetadataStore(s MetadataStore) *DefinitionBuilder {
	b.metadata = s
	return b
}

func (b *DefinitionBuilder) AllowEmptyTransitions() *DefinitionBuilder {
	b.allowEmpty = true
	return b
}

func (b *DefinitionBuilder) SetWorkflowMetadata(m Metadata) *DefinitionBuilder {
	b.workflowMeta = m
	return b
}

func (b *DefinitionBuilder) SetPlaceMetadata(p Place, m Metadata) *DefinitionBuilder {
	if b.placeMeta == nil {
		b.placeMeta = make(map[Place]Metadata)
	}
	b.placeMeta[p] = m
	return b
}

// SetTransitionMetadata sets metadata for the transition at index id, counted in the order
// transitions were added.
func (b *DefinitionBuilder) SetTransitionMetadata(id int, m Metadata) *DefinitionBuilder {
	if b.transitionMeta == nil {
		b.transitionMeta = make(map[int]Metadata)
	}
	b.transitionMeta[id] = m
	return b
}

// Clear resets the builder to its zero state.
func (b *DefinitionBuilder) Clear() *DefinitionBuilder {
	*b = DefinitionBuilder{}
	return b
}

// Build validates the accumulated state and returns a Definition.
func (b *DefinitionBuilder) Build() (*Definition, error) {
	opts := make([]DefinitionOption, 0, 3)
	if b.initialPlace != "" {
		opts = append(opts, WithInitialPlace(b.initialPlace))
	}
	switch {
	case b.metadata != nil:
		opts = append(opts, WithMetadataStore(b.metadata))
	case b.workflowMeta != nil || b.placeMeta != nil || b.transitionMeta != nil:
		opts = append(opts, WithMetadataStore(NewInMemoryMetadataStore(b.workflowMeta, b.placeMeta, b.transitionMeta)))
	}
	if b.allowEmpty {
		opts = append(opts, AllowEmptyTransitions())
	}
	return NewDefinition(b.places, b.transitions, opts...)
}
