package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

func TestNewDefinition(t *testing.T) {
	t.Parallel()

	t.Run("initial place defaults to the first place", func(t *testing.T) {
		t.Parallel()
		def := simpleDefinition(t)
		assert.Equal(t, workflow.Place("a"), def.InitialPlace())
		assert.Equal(t, places("a", "b", "c"), def.Places())
	})

	t.Run("explicit initial place", func(t *testing.T) {
		t.Parallel()
		def, err := workflow.NewDefinition(places("a", "b"),
			[]*workflow.Transition{workflow.NewTransition("t1", "a", "b")},
			workflow.WithInitialPlace("b"),
		)
		require.NoError(t, err)
		assert.Equal(t, workflow.Place("b"), def.InitialPlace())
	})

	t.Run("unknown initial place", func(t *testing.T) {
		t.Parallel()
		_, err := workflow.NewDefinition(places("a", "b"),
			[]*workflow.Transition{workflow.NewTransition("t1", "a", "b")},
			workflow.WithInitialPlace("x"),
		)
		require.ErrorIs(t, err, workflow.ErrLogic)
		assert.Contains(t, err.Error(), `"x"`)
	})

	t.Run("duplicate places are collapsed", func(t *testing.T) {
		t.Parallel()
		def, err := workflow.NewDefinition(places("a", "b", "a"),
			[]*workflow.Transition{workflow.NewTransition("t1", "a", "b")},
		)
		require.NoError(t, err)
		assert.Equal(t, places("a", "b"), def.Places())
	})

	t.Run("empty places", func(t *testing.T) {
		t.Parallel()
		_, err := workflow.NewDefinition(nil, []*workflow.Transition{workflow.NewTransition("t1", "a", "b")})
		require.ErrorIs(t, err, workflow.ErrInvalidArgument)
	})

	t.Run("empty transitions are rejected by default", func(t *testing.T) {
		t.Parallel()
		_, err := workflow.NewDefinition(places("a"), nil)
		require.ErrorIs(t, err, workflow.ErrInvalidArgument)
	})

	t.Run("empty transitions can be allowed", func(t *testing.T) {
		t.Parallel()
		def, err := workflow.NewDefinition(places("a"), nil, workflow.AllowEmptyTransitions())
		require.NoError(t, err)
		assert.Empty(t, def.Transitions())
	})

	t.Run("nil transition", func(t *testing.T) {
		t.Parallel()
		_, err := workflow.NewDefinition(places("a"), []*workflow.Transition{nil})
		require.ErrorIs(t, err, workflow.ErrInvalidArgument)
	})

	t.Run("transition endpoints must be declared", func(t *testing.T) {
		t.Parallel()
		cases := []*workflow.Transition{
			workflow.NewTransition("t1", "a", "x"),
			workflow.NewTransition("t1", "x", "a"),
		}
		for _, tr := range cases {
			_, err := workflow.NewDefinition(places("a", "b"), []*workflow.Transition{tr})
			require.ErrorIs(t, err, workflow.ErrLogic)
			assert.Contains(t, err.Error(), `place "x" referenced in transition "t1" does not exist`)
		}
	})

	t.Run("transitions keep declaration order and get ids", func(t *testing.T) {
		t.Parallel()
		original := workflow.NewTransition("t2", "b", "d")
		def, err := workflow.NewDefinition(places("a", "b", "c", "d"), []*workflow.Transition{
			workflow.NewTransition("t1", "a", "b"),
			original,
		})
		require.NoError(t, err)

		ts := def.Transitions()
		require.Len(t, ts, 2)
		assert.Equal(t, "t1", ts[0].Name())
		assert.Equal(t, 0, ts[0].ID())
		assert.Equal(t, "t2", ts[1].Name())
		assert.Equal(t, 1, ts[1].ID())
		assert.Equal(t, -1, original.ID(), "the caller's transition is not modified")
	})

	t.Run("accessors return copies", func(t *testing.T) {
		t.Parallel()
		def := simpleDefinition(t)
		ps := def.Places()
		ps[0] = "changed"
		ts := def.Transitions()
		ts[0] = nil
		assert.Equal(t, workflow.Place("a"), def.Places()[0])
		assert.NotNil(t, def.Transitions()[0])
	})

	t.Run("transitions by name", func(t *testing.T) {
		t.Parallel()
		def := complexDefinition(t)
		named := def.TransitionsNamed("t2")
		require.Len(t, named, 2)
		assert.Equal(t, workflow.Place("b"), named[0].From())
		assert.Equal(t, workflow.Place("c"), named[1].From())
		assert.Empty(t, def.TransitionsNamed("nope"))
	})

	t.Run("default metadata store", func(t *testing.T) {
		t.Parallel()
		def := simpleDefinition(t)
		require.NotNil(t, def.MetadataStore())
		assert.Empty(t, def.MetadataStore().WorkflowMetadata())
	})
}

func TestMustNewDefinition(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		workflow.MustNewDefinition(nil, nil)
	})
	assert.NotPanics(t, func() {
		workflow.MustNewDefinition(places("a"), nil, workflow.AllowEmptyTransitions())
	})
}

func TestTransition(t *testing.T) {
	t.Parallel()

	tr := workflow.NewTransition("pay", "new", "paid", workflow.WithGuards(allow()))
	assert.Equal(t, "pay", tr.Name())
	assert.Equal(t, workflow.Place("new"), tr.From())
	assert.Equal(t, workflow.Place("paid"), tr.To())
	assert.Equal(t, -1, tr.ID())
	assert.Equal(t, "pay(new -> paid)", tr.String())
	require.NotNil(t, tr.GuardManager())
	assert.False(t, tr.GuardManager().IsEmpty())

	plain := workflow.NewTransition("pay", "new", "paid")
	assert.Nil(t, plain.GuardManager())
}
