package dumper

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// GraphvizDumper renders a workflow as a DOT graph: places are circles,
// transitions are boxes and edges go from places through transitions.
//
// The initial place is filled, the marked place is a red double circle, and
// the "label" and "bg_color" metadata of places and transitions are honored.
type GraphvizDumper struct {
	opts options
}

func NewGraphvizDumper(opts ...Option) *GraphvizDumper {
	return &GraphvizDumper{opts: newOptions(opts)}
}

func (d *GraphvizDumper) Dump(def *workflow.Definition, marked workflow.Place) (string, error) {
	var b strings.Builder
	startDot(&b, d.opts)
	addPlaces(&b, def, marked)

	store := def.MetadataStore()
	for _, t := range def.Transitions() {
		meta := store.TransitionMetadata(t)
		var extra attrs
		if bg := meta.String("bg_color"); bg != "" {
			extra = extra.set("style", "filled").set("fillcolor", bg)
		}
		fmt.Fprintf(&b, "  transition_%s [label=\"%s\", shape=\"box\" regular=\"1\"%s];\n",
			transitionID(t), escape(label(meta, t.Name())), extra.suffix())
	}

	for _, t := range def.Transitions() {
		id := transitionID(t)
		fmt.Fprintf(&b, "  place_%s -> transition_%s [style=\"solid\"];\n", dotize(string(t.From())), id)
		fmt.Fprintf(&b, "  transition_%s -> place_%s [style=\"solid\"];\n", id, dotize(string(t.To())))
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func startDot(b *strings.Builder, o options) {
	b.WriteString("digraph workflow {\n")
	fmt.Fprintf(b, "  %s\n", o.graph.list())
	fmt.Fprintf(b, "  node [%s];\n", o.node.list())
	fmt.Fprintf(b, "  edge [%s];\n\n", o.edge.list())
}

func addPlaces(b *strings.Builder, def *workflow.Definition, marked workflow.Place) {
	store := def.MetadataStore()
	for _, p := range def.Places() {
		meta := store.PlaceMetadata(p)

		var extra attrs
		if p == def.InitialPlace() {
			extra = extra.set("style", "filled")
		}
		if marked != "" && p == marked {
			extra = extra.set("color", "#FF0000").set("shape", "doublecircle")
		}
		if bg := meta.String("bg_color"); bg != "" {
			extra = extra.set("style", "filled").set("fillcolor", bg)
		}

		fmt.Fprintf(b, "  place_%s [label=\"%s\", shape=circle%s];\n",
			dotize(string(p)), escape(label(meta, string(p))), extra.suffix())
	}
}
