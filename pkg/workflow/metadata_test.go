package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

func TestMetadata(t *testing.T) {
	t.Parallel()

	m := workflow.Metadata{"label": "Go", "weight": 3, "nil": nil}
	v, ok := m.Get("weight")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, "Go", m.String("label"))
	assert.Equal(t, "3", m.String("weight"))
	assert.Equal(t, "", m.String("nil"))
	assert.Equal(t, "", m.String("missing"))

	var empty workflow.Metadata
	_, ok = empty.Get("x")
	assert.False(t, ok)
}

func TestInMemoryMetadataStore(t *testing.T) {
	t.Parallel()

	def := simpleDefinition(t)
	ts := def.Transitions()

	placeMeta := map[workflow.Place]workflow.Metadata{"a": {"bg_color": "red"}}
	store := workflow.NewInMemoryMetadataStore(
		workflow.Metadata{"title": "simple"},
		placeMeta,
		map[int]workflow.Metadata{1: {"label": "second"}},
	)
	placeMeta["a"]["bg_color"] = "blue"

	assert.Equal(t, "simple", store.WorkflowMetadata().String("title"))
	assert.Equal(t, "red", store.PlaceMetadata("a").String("bg_color"))
	assert.Empty(t, store.PlaceMetadata("b"))
	assert.Empty(t, store.TransitionMetadata(ts[0]))
	assert.Equal(t, "second", store.TransitionMetadata(ts[1]).String("label"))
	assert.Empty(t, store.TransitionMetadata(nil))

	detached := workflow.NewTransition("t2", "b", "c")
	assert.Empty(t, store.TransitionMetadata(detached), "transitions outside a definition have no id")

	v, ok := workflow.WorkflowValue(store, "title")
	require.True(t, ok)
	assert.Equal(t, "simple", v)
	_, ok = workflow.PlaceValue(store, "a", "bg_color")
	assert.True(t, ok)
	v, ok = workflow.TransitionValue(store, ts[1], "label")
	require.True(t, ok)
	assert.Equal(t, "second", v)

	assert.Empty(t, workflow.NewInMemoryMetadataStore(nil, nil, nil).WorkflowMetadata())
}

func TestInMemoryMetadataStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	def, err := workflow.NewDefinitionBuilder(nil, nil).
		AddPlaces("a", "b").
		AddTransition(workflow.NewTransition("t1", "a", "b")).
		SetWorkflowMetadata(workflow.Metadata{"title": "orders"}).
		SetPlaceMetadata("a", workflow.Metadata{"label": "Draft"}).
		SetTransitionMetadata(0, workflow.Metadata{"label": "Submit"}).
		Build()
	require.NoError(t, err)

	store := def.MetadataStore()
	store.WorkflowMetadata()["title"] = "changed"
	store.PlaceMetadata("a")["label"] = "changed"
	store.PlaceMetadata("b")["label"] = "changed"
	store.TransitionMetadata(def.Transitions()[0])["label"] = "changed"

	assert.Equal(t, "orders", store.WorkflowMetadata().String("title"))
	assert.Equal(t, "Draft", store.PlaceMetadata("a").String("label"))
	assert.Empty(t, store.PlaceMetadata("b"))
	assert.Equal(t, "Submit", store.TransitionMetadata(def.Transitions()[0]).String("label"))
}
