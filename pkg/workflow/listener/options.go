package listener

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/flowkit/pkg/audit"
	"github.com/dmitrymomot/flowkit/pkg/logger"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
	"github.com/dmitrymomot/flowkit/pkg/workflow/expression"
)

// Option configures a listener. Options that do not apply to a listener are ignored.
type Option func(*options)

type options struct {
	log        *slog.Logger
	phases     []workflow.Phase
	audit      *audit.Logger
	resourceID func(subject any) string
	vars       expression.VarsFunc
}

func newOptions(component string, opts []Option) options {
	o := options{
		log:        logger.Discard(),
		phases:     workflow.Phases,
		resourceID: defaultResourceID,
		vars:       expression.DefaultVars,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With(logger.Component(component))
	return o
}

// WithLogger sets the logger. Listeners log nothing by default.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithPhases restricts Forwarder and RedisPublisher to the given phases.
func WithPhases(phases ...workflow.Phase) Option {
	return func(o *options) {
		if len(phases) > 0 {
			o.phases = slices.Clone(phases)
		}
	}
}

// WithAuditLogger makes AuditTrail record an audit event per handled phase.
func WithAuditLogger(l *audit.Logger) Option {
	return func(o *options) {
		o.audit = l
	}
}

// WithResourceID sets how AuditTrail identifies a subject in audit events.
func WithResourceID(fn func(subject any) string) Option {
	return func(o *options) {
		if fn != nil {
			o.resourceID = fn
		}
	}
}

// WithVars sets the variables GuardListener evaluates expressions with.
func WithVars(fn expression.VarsFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.vars = fn
		}
	}
}

// Identifier is implemented by subjects with a stable identity.
type Identifier interface {
	ID() string
}

func defaultResourceID(subject any) string {
	if s, ok := subject.(Identifier); ok {
		return s.ID()
	}
	if s, ok := subject.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

func subjectType(subject any) string {
	return fmt.Sprintf("%T", subject)
}
