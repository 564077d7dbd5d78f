package listener

import (
	"context"

	"github.com/dmitrymomot/flowkit/pkg/broadcast"
	"github.com/dmitrymomot/flowkit/pkg/logger"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// Forwarder broadcasts a Record of every global event delivery. Message topics
// are workflow names, so subscribers can follow a single workflow.
type Forwarder struct {
	b    broadcast.Broadcaster[Record]
	opts options
}

func NewForwarder(b broadcast.Broadcaster[Record], opts ...Option) *Forwarder {
	return &Forwarder{b: b, opts: newOptions("forwarder", opts)}
}

// Subscriptions implements workflow.Subscriber with one global topic per configured phase.
func (f *Forwarder) Subscriptions() []workflow.Subscription {
	subs := make([]workflow.Subscription, 0, len(f.opts.phases))
	for _, p := range f.opts.phases {
		subs = append(subs, workflow.Subscription{Topic: workflow.OnPhase(p), Listener: f})
	}
	return subs
}

func (f *Forwarder) Handle(ctx context.Context, e *workflow.Event) {
	msg := broadcast.Message[Record]{Topic: e.Workflow, Data: NewRecord(e)}
	if err := f.b.Broadcast(ctx, msg); err != nil {
		f.opts.log.WarnContext(ctx, "event not forwarded",
			logger.Workflow(e.Workflow),
			logger.Phase(e.Phase),
			logger.Error(err),
		)
	}
}
