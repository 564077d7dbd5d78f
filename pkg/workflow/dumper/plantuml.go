package dumper

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

var defaultSkinParams = attrs{
	{"titleBorderRoundCorner", "15"},
	{"titleBorderThickness", "2"},
}

const stateSkin = `skinparam state {
    BackgroundColor<<initial>> #87b741
    BackgroundColor<<marked>> #3887C6
    BorderColor #3887C6
    BorderColor<<marked>> Black
    FontColor<<marked>> White
}
`

// PlantUMLDumper renders a definition as a PlantUML state diagram.
//
// Place metadata: "description" adds a description line and "bg_color" sets the
// background. Transition metadata: "label" replaces the name, "color" colors the
// label and "arrow_color" the arrow.
type PlantUMLDumper struct {
	opts options
}

func NewPlantUMLDumper(opts ...Option) *PlantUMLDumper {
	return &PlantUMLDumper{opts: newOptions(opts)}
}

func (d *PlantUMLDumper) Dump(def *workflow.Definition, marked workflow.Place) (string, error) {
	store := def.MetadataStore()

	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("allow_mixing\n")
	if title := d.title(store); title != "" {
		fmt.Fprintf(&b, "title %s\n", title)
	}
	for _, kv := range d.skinParams() {
		fmt.Fprintf(&b, "skinparam %s %s\n", kv.key, kv.value)
	}
	b.WriteString(stateSkin)

	for _, p := range def.Places() {
		meta := store.PlaceMetadata(p)
		line := fmt.Sprintf("state %s", quote(string(p)))
		if p == def.InitialPlace() {
			line += " <<initial>>"
		}
		if marked != "" && p == marked {
			line += " <<marked>>"
		}
		if bg := meta.String("bg_color"); bg != "" {
			line += " #" + strings.TrimPrefix(bg, "#")
		}
		b.WriteString(line + "\n")
		if desc := meta.String("description"); desc != "" {
			fmt.Fprintf(&b, "%s : %s\n", quote(string(p)), desc)
		}
	}

	for _, t := range def.Transitions() {
		meta := store.TransitionMetadata(t)
		arrow := "-->"
		if c := meta.String("arrow_color"); c != "" {
			arrow = "-[#" + strings.TrimPrefix(c, "#") + "]->"
		}
		text := label(meta, t.Name())
		if c := meta.String("color"); c != "" {
			text = fmt.Sprintf("<font color=%q>%s</font>", c, text)
		}
		fmt.Fprintf(&b, "%s %s %s: %s\n", quote(string(t.From())), arrow, quote(string(t.To())), text)
	}

	b.WriteString("@enduml\n")
	return b.String(), nil
}

func (d *PlantUMLDumper) title(store workflow.MetadataStore) string {
	if d.opts.title != "" {
		return d.opts.title
	}
	if t := store.WorkflowMetadata().String("title"); t != "" {
		return t
	}
	return d.opts.name
}

func (d *PlantUMLDumper) skinParams() attrs {
	out := defaultSkinParams
	for _, kv := range d.opts.skin {
		out = out.set(kv.key, kv.value)
	}
	return out
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
