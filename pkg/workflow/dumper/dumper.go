package dumper

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// Dumper renders a definition. marked is highlighted when it is a place of the
// definition; pass "" to highlight nothing.
type Dumper interface {
	Dump(def *workflow.Definition, marked workflow.Place) (string, error)
}

// Option configures a dumper. Options a dumper does not use are ignored.
type Option func(*options)

type options struct {
	graph attrs
	node  attrs
	edge  attrs
	title string
	name  string
	skin  attrs
}

func newOptions(opts []Option) options {
	o := options{
		graph: attrs{{"ratio", "compress"}, {"rankdir", "LR"}},
		node: attrs{
			{"fontsize", "9"}, {"fontname", "Arial"}, {"color", "#333333"},
			{"fillcolor", "lightblue"}, {"fixedsize", "false"}, {"width", "1"},
		},
		edge: attrs{
			{"fontsize", "9"}, {"fontname", "Arial"}, {"color", "#333333"},
			{"arrowhead", "normal"}, {"arrowsize", "0.5"},
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithGraphAttr sets a Graphviz graph attribute.
func WithGraphAttr(key, value string) Option {
	return func(o *options) { o.graph = o.graph.set(key, value) }
}

// WithNodeAttr sets a default Graphviz node attribute.
func WithNodeAttr(key, value string) Option {
	return func(o *options) { o.node = o.node.set(key, value) }
}

// WithEdgeAttr sets a default Graphviz edge attribute.
func WithEdgeAttr(key, value string) Option {
	return func(o *options) { o.edge = o.edge.set(key, value) }
}

// WithTitle sets the PlantUML title. It defaults to the "title" workflow metadata.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithSkinParam adds a PlantUML skinparam line.
func WithSkinParam(key, value string) Option {
	return func(o *options) { o.skin = o.skin.set(key, value) }
}

// WithWorkflowName names the workflow in YAML output and the default PlantUML title.
func WithWorkflowName(name string) Option {
	return func(o *options) { o.name = name }
}

type attr struct {
	key   string
	value string
}

// attrs keeps insertion order; setting an existing key replaces it in place.
type attrs []attr

func (a attrs) set(key, value string) attrs {
	for i := range a {
		if a[i].key == key {
			out := append(attrs(nil), a...)
			out[i].value = value
			return out
		}
	}
	return append(append(attrs(nil), a...), attr{key, value})
}

// list renders `k="v"` pairs separated by spaces.
func (a attrs) list() string {
	parts := make([]string, len(a))
	for i, kv := range a {
		parts[i] = kv.key + `="` + escape(kv.value) + `"`
	}
	return strings.Join(parts, " ")
}

// suffix renders the pairs each prefixed with a space.
func (a attrs) suffix() string {
	if len(a) == 0 {
		return ""
	}
	return " " + a.list()
}

func dotize(id string) string {
	sum := sha1.Sum([]byte(id))
	return hex.EncodeToString(sum[:])
}

func transitionID(t *workflow.Transition) string {
	return dotize(strconv.Itoa(t.ID()))
}

// escape backslash-escapes quotes, backslashes and NUL bytes.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func label(m workflow.Metadata, fallback string) string {
	if l := m.String("label"); l != "" {
		return l
	}
	return fallback
}
