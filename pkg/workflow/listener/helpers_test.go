package listener_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

type order struct {
	id      string
	state   workflow.Place
	amount  int
	context workflow.TransitionContext
}

func (o *order) ID() string                   { return o.id }
func (o *order) CurrentState() workflow.Place { return o.state }

func (o *order) SetCurrentState(p workflow.Place, tc workflow.TransitionContext) {
	o.state = p
	o.context = tc
}

func (o *order) ExpressionVars() map[string]any {
	return map[string]any{"amount": o.amount, "id": o.id}
}

// orderWorkflow: draft -submit-> review -approve-> approved, review -reject-> draft
func orderWorkflow(t *testing.T, b workflow.EventBroadcaster) *workflow.Workflow {
	t.Helper()
	def, err := workflow.NewDefinitionBuilder(nil, nil).
		AddPlaces("draft", "review", "approved").
		AddTransition(workflow.NewTransition("submit", "draft", "review")).
		AddTransition(workflow.NewTransition("approve", "review", "approved")).
		AddTransition(workflow.NewTransition("reject", "review", "draft")).
		Build()
	require.NoError(t, err)

	wf, err := workflow.NewWorkflow(def, workflow.WithName("orders"), workflow.WithBroadcaster(b))
	require.NoError(t, err)
	return wf
}
