package expression

import (
	"context"
	"maps"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// Exposer is implemented by subjects that publish variables to guard expressions.
type Exposer interface {
	ExpressionVars() map[string]any
}

// VarsFunc builds the variables an expression is evaluated with.
type VarsFunc func(ctx context.Context, in workflow.GuardInput) (map[string]any, error)

// DefaultVars exposes workflow, transition, from, to and state, plus subject when the
// subject implements Exposer.
func DefaultVars(ctx context.Context, in workflow.GuardInput) (map[string]any, error) {
	vars := map[string]any{
		"transition": in.Transition.Name(),
		"from":       string(in.Transition.From()),
		"to":         string(in.Transition.To()),
	}
	if in.Engine != nil {
		vars["workflow"] = in.Engine.Name()
		vars["metadata"] = map[string]any(in.Engine.MetadataStore().TransitionMetadata(in.Transition))
		if state, err := in.Engine.State(ctx, in.Subject); err == nil {
			vars["state"] = string(state)
		}
	}
	if e, ok := in.Subject.(Exposer); ok {
		vars["subject"] = maps.Clone(e.ExpressionVars())
	}
	return vars, nil
}

// Guard returns an availability guard vetoing the transition when expr is false.
// The veto is a BlockedByExpression blocker. A nil vars uses DefaultVars.
func Guard(env *Env, expr string, vars VarsFunc) workflow.Guard {
	if vars == nil {
		vars = DefaultVars
	}
	return workflow.GuardFunc(func(ctx context.Context, in workflow.GuardInput) error {
		return Check(ctx, env, expr, vars, in)
	})
}

// Check evaluates expr for a guard input and returns nil or a blocker.
func Check(ctx context.Context, env *Env, expr string, vars VarsFunc, in workflow.GuardInput) error {
	values, err := vars(ctx, in)
	if err != nil {
		return failed(expr, err)
	}
	ok, err := env.Eval(expr, values)
	if err != nil {
		return failed(expr, err)
	}
	if !ok {
		return workflow.NewBlockedByExpression(expr)
	}
	return nil
}

func failed(expr string, err error) *workflow.TransitionBlocker {
	return workflow.NewTransitionBlocker(err.Error(), workflow.BlockedByExpression, map[string]any{
		"expression": expr,
		"error":      err.Error(),
	})
}
