package listener_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/audit"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
	"github.com/dmitrymomot/flowkit/pkg/workflow/listener"
)

func logMessages(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	var msgs []string
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		msgs = append(msgs, line["msg"].(string))
	}
	return msgs
}

func TestAuditTrail(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	d := workflow.NewDispatcher()
	d.Subscribe(listener.NewAuditTrail(listener.WithLogger(log)))
	wf := orderWorkflow(t, d)

	o := &order{id: "o-1", state: "draft"}
	_, err := wf.Apply(context.Background(), o, "submit", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`Leaving "draft" for subject of type "*listener_test.order" in workflow "orders".`,
		`Transition "submit" for subject of type "*listener_test.order" in workflow "orders".`,
		`Entering "review" for subject of type "*listener_test.order" in workflow "orders".`,
	}, logMessages(t, &buf))
}

func TestAuditTrail_AuditLogger(t *testing.T) {
	store := audit.NewMemoryStorage()

	d := workflow.NewDispatcher()
	d.Subscribe(listener.NewAuditTrail(listener.WithAuditLogger(audit.NewLogger(store))))
	wf := orderWorkflow(t, d)

	o := &order{id: "o-1", state: "draft"}
	_, err := wf.Apply(context.Background(), o, "submit", nil)
	require.NoError(t, err)

	events, err := store.Query(context.Background(), audit.Criteria{Resource: "orders"})
	require.NoError(t, err)
	require.Len(t, events, 3)

	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
		assert.Equal(t, "o-1", e.ResourceID)
		assert.Equal(t, audit.ResultSuccess, e.Result)
		assert.Equal(t, "submit", e.Metadata["transition"])
		assert.Equal(t, "draft", e.Metadata["from"])
		assert.Equal(t, "review", e.Metadata["to"])
	}
	assert.Equal(t, []string{"workflow.leave", "workflow.transition", "workflow.enter"}, actions)
}

func TestAuditTrail_ResourceID(t *testing.T) {
	store := audit.NewMemoryStorage()

	d := workflow.NewDispatcher()
	d.Subscribe(listener.NewAuditTrail(
		listener.WithAuditLogger(audit.NewLogger(store)),
		listener.WithResourceID(func(any) string { return "fixed" }),
	))
	wf := orderWorkflow(t, d)

	_, err := wf.Apply(context.Background(), &order{id: "o-1", state: "draft"}, "submit", nil)
	require.NoError(t, err)

	events, err := store.Query(context.Background(), audit.Criteria{ResourceID: "fixed"})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
