package listener

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/flowkit/pkg/logger"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
	"github.com/dmitrymomot/flowkit/pkg/workflow/expression"
)

// GuardListener blocks transitions of one workflow with expressions.
// Each transition name maps to expressions that must all evaluate to true.
type GuardListener struct {
	env      *expression.Env
	workflow string
	guards   map[string][]string
	opts     options
}

// NewGuardListener validates every expression and returns a listener for the
// guard events of the named workflow.
func NewGuardListener(env *expression.Env, workflowName string, guards map[string][]string, opts ...Option) (*GuardListener, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: expression environment is required", workflow.ErrInvalidArgument)
	}
	if workflowName == "" {
		return nil, fmt.Errorf("%w: workflow name is required", workflow.ErrInvalidArgument)
	}

	copied := make(map[string][]string, len(guards))
	for name, exprs := range guards {
		for _, expr := range exprs {
			if err := env.Validate(expr); err != nil {
				return nil, fmt.Errorf("%w: guard of transition %q: %w", workflow.ErrInvalidArgument, name, err)
			}
		}
		copied[name] = slices.Clone(exprs)
	}

	return &GuardListener{
		env:      env,
		workflow: workflowName,
		guards:   copied,
		opts:     newOptions("guard_listener", opts),
	}, nil
}

// Subscriptions implements workflow.Subscriber with the workflow scoped guard topic.
func (g *GuardListener) Subscriptions() []workflow.Subscription {
	return []workflow.Subscription{
		{Topic: workflow.OnWorkflow(workflow.PhaseGuard, g.workflow), Listener: g},
	}
}

// Transitions returns the guarded transition names, sorted.
func (g *GuardListener) Transitions() []string {
	return slices.Sorted(maps.Keys(g.guards))
}

func (g *GuardListener) Handle(ctx context.Context, e *workflow.Event) {
	if e.Phase != workflow.PhaseGuard || e.Workflow != g.workflow || e.Transition == nil {
		return
	}
	exprs, ok := g.guards[e.Transition.Name()]
	if !ok {
		return
	}

	in := workflow.GuardInput{Subject: e.Subject, Transition: e.Transition, Engine: e.Engine}
	for _, expr := range exprs {
		err := expression.Check(ctx, g.env, expr, g.opts.vars, in)
		if err == nil {
			continue
		}

		var blocker *workflow.TransitionBlocker
		if !errors.As(err, &blocker) {
			blocker = workflow.NewBlockedByGuard(err.Error())
		}
		e.Block(blocker)

		g.opts.log.DebugContext(ctx, "transition blocked by expression",
			logger.Workflow(e.Workflow),
			logger.Transition(e.Transition.Name()),
			logger.Blockers(blocker.Message()),
		)
	}
}
