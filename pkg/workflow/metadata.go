package workflow

import "maps"

// MetadataStore exposes metadata attached to a workflow, its places and its transitions.
type MetadataStore interface {
	WorkflowMetadata() Metadata
	PlaceMetadata(p Place) Metadata
	TransitionMetadata(t *Transition) Metadata
}

// InMemoryMetadataStore keeps transition metadata keyed by transition ID rather than by pointer.
type InMemoryMetadataStore struct {
	workflow    Metadata
	places      map[Place]Metadata
	transitions map[int]Metadata
}

// NewInMemoryMetadataStore creates a store. Transition metadata is keyed by the
// transition index in the owning definition. Nil maps are allowed.
func NewInMemoryMetadataStore(workflow Metadata, places map[Place]Metadata, transitions map[int]Metadata) *InMemoryMetadataStore {
	s := &InMemoryMetadataStore{
		workflow:    maps.Clone(workflow),
		places:      make(map[Place]Metadata, len(places)),
		transitions: make(map[int]Metadata, len(transitions)),
	}
	for p, m := range places {
		s.places[p] = maps.Clone(m)
	}
	for id, m := range transitions {
		s.transitions[id] = maps.Clone(m)
	}
	return s
}

// Getters return copies: the store is shared by every engine built on the
// definition and stays unchanged after construction.

func (s *InMemoryMetadataStore) WorkflowMetadata() Metadata {
	return copyMetadata(s.workflow)
}

func (s *InMemoryMetadataStore) PlaceMetadata(p Place) Metadata {
	return copyMetadata(s.places[p])
}

func (s *InMemoryMetadataStore) TransitionMetadata(t *Transition) Metadata {
	if t == nil {
		return Metadata{}
	}
	return copyMetadata(s.transitions[t.ID()])
}

func copyMetadata(m Metadata) Metadata {
	if m == nil {
		return Metadata{}
	}
	return maps.Clone(m)
}

// WorkflowValue looks up a workflow level metadata value.
func WorkflowValue(s MetadataStore, key string) (any, bool) {
	return s.WorkflowMetadata().Get(key)
}

// PlaceValue looks up a metadata value of place p.
func PlaceValue(s MetadataStore, p Place, key string) (any, bool) {
	return s.PlaceMetadata(p).Get(key)
}

// TransitionValue looks up a metadata value of transition t.
func TransitionValue(s MetadataStore, t *Transition, key string) (any, bool) {
	return s.TransitionMetadata(t).Get(key)
}
