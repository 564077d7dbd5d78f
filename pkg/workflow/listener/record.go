package listener

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// Record is a serializable snapshot of an event delivery.
type Record struct {
	ID          string         `json:"id"`
	Workflow    string         `json:"workflow"`
	Phase       workflow.Phase `json:"phase"`
	Transition  string         `json:"transition"`
	From        workflow.Place `json:"from"`
	To          workflow.Place `json:"to"`
	SubjectType string         `json:"subject_type"`
	Context     map[string]any `json:"context,omitempty"`
	Blockers    []string       `json:"blockers,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// NewRecord snapshots e. Blocker codes are only collected for guard events.
func NewRecord(e *workflow.Event) Record {
	r := Record{
		ID:          uuid.New().String(),
		Workflow:    e.Workflow,
		Phase:       e.Phase,
		SubjectType: subjectType(e.Subject),
		Context:     maps.Clone(map[string]any(e.Context())),
		OccurredAt:  time.Now().UTC(),
	}
	if e.Transition != nil {
		r.Transition = e.Transition.Name()
		r.From = e.Transition.From()
		r.To = e.Transition.To()
	}
	if e.Phase == workflow.PhaseGuard {
		for _, b := range e.Blockers().All() {
			r.Blockers = append(r.Blockers, string(b.Code()))
		}
	}
	return r
}
