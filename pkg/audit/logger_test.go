package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/audit"
)

type ctxKey string

func fromContext(key ctxKey) audit.ContextExtractor {
	return func(ctx context.Context) (string, bool) {
		v, ok := ctx.Value(key).(string)
		return v, ok
	}
}

type failingStorage struct{}

func (failingStorage) Store(context.Context, audit.Event) error {
	return audit.ErrStorageNotAvailable
}

func (failingStorage) Query(context.Context, audit.Criteria) ([]audit.Event, error) {
	return nil, audit.ErrStorageNotAvailable
}

func TestLogger_Log(t *testing.T) {
	store := audit.NewMemoryStorage()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	log := audit.NewLogger(store,
		audit.WithActorIDExtractor(fromContext("actor")),
		audit.WithRequestIDExtractor(fromContext("request")),
		audit.WithClock(func() time.Time { return now }),
	)

	ctx := context.WithValue(context.Background(), ctxKey("actor"), "user-1")
	ctx = context.WithValue(ctx, ctxKey("request"), "req-9")

	require.NoError(t, log.Log(ctx, "workflow.transition",
		audit.WithResource("orders", "o-1"),
		audit.WithMetadata("transition", "pay"),
	))

	events, err := store.Query(context.Background(), audit.Criteria{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	_, err = uuid.Parse(e.ID)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", e.ActorID)
	assert.Equal(t, "req-9", e.RequestID)
	assert.Equal(t, "workflow.transition", e.Action)
	assert.Equal(t, "orders", e.Resource)
	assert.Equal(t, "o-1", e.ResourceID)
	assert.Equal(t, audit.ResultSuccess, e.Result)
	assert.Equal(t, map[string]any{"transition": "pay"}, e.Metadata)
	assert.Equal(t, now, e.CreatedAt)
}

func TestLogger_LogError(t *testing.T) {
	store := audit.NewMemoryStorage()
	log := audit.NewLogger(store)

	require.NoError(t, log.LogError(context.Background(), "workflow.enter", errors.New("boom")))

	events, err := store.Query(context.Background(), audit.Criteria{Result: audit.ResultError})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "boom", events[0].Error)
	assert.Empty(t, events[0].ActorID)
}

func TestLogger_Validation(t *testing.T) {
	store := audit.NewMemoryStorage()
	log := audit.NewLogger(store)

	err := log.Log(context.Background(), "")
	assert.ErrorIs(t, err, audit.ErrEventValidation)

	err = log.Log(context.Background(), "x", audit.WithResult("maybe"))
	assert.ErrorIs(t, err, audit.ErrEventValidation)

	assert.Equal(t, 0, store.Len())
}

func TestLogger_StorageError(t *testing.T) {
	log := audit.NewLogger(failingStorage{})
	assert.ErrorIs(t, log.Log(context.Background(), "x"), audit.ErrStorageNotAvailable)
}

func TestNewLogger_NilStorage(t *testing.T) {
	assert.Panics(t, func() { audit.NewLogger(nil) })
}
