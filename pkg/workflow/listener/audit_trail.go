package listener

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/flowkit/pkg/audit"
	"github.com/dmitrymomot/flowkit/pkg/logger"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// AuditTrail logs every leave, transition and enter event at info level and,
// with WithAuditLogger, records them as "workflow.<phase>" audit events.
type AuditTrail struct {
	opts options
}

func NewAuditTrail(opts ...Option) *AuditTrail {
	return &AuditTrail{opts: newOptions("audit_trail", opts)}
}

// Subscriptions implements workflow.Subscriber with global leave, transition and enter topics.
func (a *AuditTrail) Subscriptions() []workflow.Subscription {
	return []workflow.Subscription{
		{Topic: workflow.OnPhase(workflow.PhaseLeave), Listener: a},
		{Topic: workflow.OnPhase(workflow.PhaseTransition), Listener: a},
		{Topic: workflow.OnPhase(workflow.PhaseEnter), Listener: a},
	}
}

func (a *AuditTrail) Handle(ctx context.Context, e *workflow.Event) {
	msg := a.message(e)
	if msg == "" {
		return
	}

	a.opts.log.InfoContext(ctx, msg,
		logger.Workflow(e.Workflow),
		logger.Phase(e.Phase),
		logger.Transition(e.Transition.Name()),
		logger.SubjectType(e.Subject),
	)

	if a.opts.audit == nil {
		return
	}
	err := a.opts.audit.Log(ctx, "workflow."+string(e.Phase),
		audit.WithResource(e.Workflow, a.opts.resourceID(e.Subject)),
		audit.WithMetadata("transition", e.Transition.Name()),
		audit.WithMetadata("from", string(e.Transition.From())),
		audit.WithMetadata("to", string(e.Transition.To())),
		audit.WithMetadata("subject_type", subjectType(e.Subject)),
	)
	if err != nil {
		a.opts.log.WarnContext(ctx, "audit event not recorded",
			logger.Workflow(e.Workflow),
			logger.Phase(e.Phase),
			logger.Error(err),
		)
	}
}

func (a *AuditTrail) message(e *workflow.Event) string {
	if e.Transition == nil {
		return ""
	}
	typ := subjectType(e.Subject)
	switch e.Phase {
	case workflow.PhaseLeave:
		return fmt.Sprintf("Leaving %q for subject of type %q in workflow %q.", e.Transition.From(), typ, e.Workflow)
	case workflow.PhaseTransition:
		return fmt.Sprintf("Transition %q for subject of type %q in workflow %q.", e.Transition.Name(), typ, e.Workflow)
	case workflow.PhaseEnter:
		return fmt.Sprintf("Entering %q for subject of type %q in workflow %q.", e.Transition.To(), typ, e.Workflow)
	}
	return ""
}
