package dumper

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// StateMachineGraphvizDumper renders a state machine as a DOT graph with one
// labelled edge per transition, grouped by source place. The "color" metadata
// of a transition colors its label and "arrow_color" its edge.
type StateMachineGraphvizDumper struct {
	opts options
}

func NewStateMachineGraphvizDumper(opts ...Option) *StateMachineGraphvizDumper {
	return &StateMachineGraphvizDumper{opts: newOptions(opts)}
}

type stateEdge struct {
	name  string
	to    workflow.Place
	attrs attrs
}

func (d *StateMachineGraphvizDumper) Dump(def *workflow.Definition, marked workflow.Place) (string, error) {
	var b strings.Builder
	startDot(&b, d.opts)
	addPlaces(&b, def, marked)

	store := def.MetadataStore()
	var order []workflow.Place
	edges := make(map[workflow.Place][]stateEdge)
	for _, t := range def.Transitions() {
		meta := store.TransitionMetadata(t)
		var extra attrs
		if c := meta.String("color"); c != "" {
			extra = extra.set("fontcolor", c)
		}
		if c := meta.String("arrow_color"); c != "" {
			extra = extra.set("color", c)
		}
		if _, ok := edges[t.From()]; !ok {
			order = append(order, t.From())
		}
		edges[t.From()] = append(edges[t.From()], stateEdge{name: label(meta, t.Name()), to: t.To(), attrs: extra})
	}

	for _, from := range order {
		for _, e := range edges[from] {
			fmt.Fprintf(&b, "  place_%s -> place_%s [label=\"%s\" style=\"solid\"%s];\n",
				dotize(string(from)), dotize(string(e.to)), escape(e.name), e.attrs.suffix())
		}
	}

	b.WriteString("}\n")
	return b.String(), nil
}
