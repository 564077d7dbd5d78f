package dumper

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// YAMLDocument is the structure YAMLDumper writes.
type YAMLDocument struct {
	Name         string           `yaml:"name,omitempty"`
	InitialPlace string           `yaml:"initial_place"`
	MarkedPlace  string           `yaml:"marked_place,omitempty"`
	Metadata     map[string]any   `yaml:"metadata,omitempty"`
	Places       []YAMLPlace      `yaml:"places"`
	Transitions  []YAMLTransition `yaml:"transitions"`
}

type YAMLPlace struct {
	Name     string         `yaml:"name"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

type YAMLTransition struct {
	Name     string         `yaml:"name"`
	From     string         `yaml:"from"`
	To       string         `yaml:"to"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// YAMLDumper writes the definition and its metadata as a YAML document.
type YAMLDumper struct {
	opts options
}

func NewYAMLDumper(opts ...Option) *YAMLDumper {
	return &YAMLDumper{opts: newOptions(opts)}
}

func (d *YAMLDumper) Dump(def *workflow.Definition, marked workflow.Place) (string, error) {
	store := def.MetadataStore()
	doc := YAMLDocument{
		Name:         d.opts.name,
		InitialPlace: string(def.InitialPlace()),
		Metadata:     nonEmpty(store.WorkflowMetadata()),
		Places:       []YAMLPlace{},
		Transitions:  []YAMLTransition{},
	}
	if marked != "" && def.HasPlace(marked) {
		doc.MarkedPlace = string(marked)
	}
	for _, p := range def.Places() {
		doc.Places = append(doc.Places, YAMLPlace{Name: string(p), Metadata: nonEmpty(store.PlaceMetadata(p))})
	}
	for _, t := range def.Transitions() {
		doc.Transitions = append(doc.Transitions, YAMLTransition{
			Name:     t.Name(),
			From:     string(t.From()),
			To:       string(t.To()),
			Metadata: nonEmpty(store.TransitionMetadata(t)),
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}

func nonEmpty(m workflow.Metadata) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return map[string]any(m)
}
