package expression

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/dmitrymomot/flowkit/pkg/cache"
	"github.com/dmitrymomot/flowkit/pkg/config"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

var (
	ErrCompile   = errors.New("expression: compile error")
	ErrExecution = errors.New("expression: execution error")
	ErrEmpty     = errors.New("expression: empty expression")
)

const (
	globalTableName  = "_G"
	globalTableIndex = -2
	tableSetIndex    = -3
	localTemplate    = "local %s = select(%d, ...)"
)

var sandboxExclude = [...]string{
	"io", "os", "debug", "package", "require", "dofile", "loadfile", "load", "loadstring",
}

// Config sizes the compiled expression cache and the interpreter pool.
type Config struct {
	CacheSize int `env:"WORKFLOW_EXPRESSION_CACHE_SIZE" envDefault:"1024"`
	PoolSize  int `env:"WORKFLOW_EXPRESSION_POOL_SIZE" envDefault:"8"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Option configures an Env.
type Option func(*Config)

// WithCacheSize sets how many compiled expressions are kept.
func WithCacheSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.CacheSize = n
		}
	}
}

// WithPoolSize sets how many idle interpreters are kept for reuse.
func WithPoolSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PoolSize = n
		}
	}
}

// WithConfig copies positive values from cfg.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		WithCacheSize(cfg.CacheSize)(c)
		WithPoolSize(cfg.PoolSize)(c)
	}
}

// Program is a compiled expression bound to an ordered list of variable names.
type Program struct {
	source   string
	bytecode []byte
	names    []string
}

func (p *Program) Source() string { return p.source }

// Env evaluates Lua boolean expressions in a sandbox without io, os, debug or module loading.
// It is safe for concurrent use.
type Env struct {
	compiled *cache.LRUCache[string, *Program]
	pool     chan *lua.State
}

// NewEnv creates an expression environment.
func NewEnv(opts ...Option) *Env {
	cfg := Config{CacheSize: 1024, PoolSize: 8}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Env{
		compiled: cache.NewLRUCache[string, *Program](cfg.CacheSize),
		pool:     make(chan *lua.State, cfg.PoolSize),
	}
}

// Validate reports whether expr compiles.
func (e *Env) Validate(expr string) error {
	_, err := e.Compile(expr, nil)
	return err
}

// Compile compiles expr with the given variable names in scope. Results are cached.
func (e *Env) Compile(expr string, names []string) (*Program, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmpty
	}
	names = slices.Clone(names)
	slices.Sort(names)
	key := strings.Join(names, ",") + "\x00" + expr

	return e.compiled.GetOrLoad(key, func(string) (*Program, error) {
		return compile(expr, names)
	})
}

// Eval evaluates expr with vars bound as local variables and returns its truthiness.
func (e *Env) Eval(expr string, vars map[string]any) (bool, error) {
	prog, err := e.Compile(expr, slices.Collect(maps.Keys(vars)))
	if err != nil {
		return false, err
	}
	return e.Run(prog, vars)
}

// Run executes a compiled program.
func (e *Env) Run(prog *Program, vars map[string]any) (bool, error) {
	L := e.getState()
	defer e.returnState(L)

	sandbox(L)
	if err := L.Load(bytes.NewReader(prog.bytecode), "expression", "b"); err != nil {
		return false, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	isolate(L)
	for _, name := range prog.names {
		push(L, vars[name])
	}
	if err := L.ProtectedCall(len(prog.names), 1, 0); err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrExecution, prog.source, err)
	}
	result := L.ToBoolean(-1)
	L.Pop(1)
	return result, nil
}

// CacheStats exposes the compiled expression cache counters.
func (e *Env) CacheStats() cache.Stats { return e.compiled.Stats() }

func compile(expr string, names []string) (*Program, error) {
	locals := make([]string, 0, len(names)+1)
	for i, name := range names {
		if !isIdentifier(name) {
			return nil, fmt.Errorf("%w: invalid variable name %q", ErrCompile, name)
		}
		locals = append(locals, fmt.Sprintf(localTemplate, name, i+1))
	}
	locals = append(locals, "return ("+expr+")")

	L := lua.NewState()
	sandbox(L)
	if err := lua.LoadString(L, strings.Join(locals, "\n")); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrCompile, expr, err)
	}

	var buf bytes.Buffer
	if err := L.Dump(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return &Program{source: expr, bytecode: buf.Bytes(), names: names}, nil
}

func sandbox(L *lua.State) {
	lua.OpenLibraries(L)
	L.Global(globalTableName)
	for _, name := range sandboxExclude {
		L.PushNil()
		L.SetField(globalTableIndex, name)
	}
	L.Pop(1)
}

// isolate gives the function on top of the stack a fresh _ENV table that reads
// through to the sandboxed globals. Assignments, including ones made through
// _G, stay in that table and are gone after the call.
func isolate(L *lua.State) {
	L.NewTable()
	L.PushValue(-1)
	L.SetField(-2, globalTableName)

	L.NewTable()
	L.PushGlobalTable()
	L.SetField(-2, "__index")
	L.PushBoolean(false)
	L.SetField(-2, "__metatable")
	L.SetMetaTable(-2)

	lua.SetUpValue(L, -2, 1)
}

func (e *Env) getState() *lua.State {
	select {
	case L := <-e.pool:
		return L
	default:
		return lua.NewState()
	}
}

func (e *Env) returnState(L *lua.State) {
	L.SetTop(0)
	select {
	case e.pool <- L:
	default:
	}
}

func push(L *lua.State, value any) {
	switch v := value.(type) {
	case nil:
		L.PushNil()
	case string:
		L.PushString(v)
	case workflow.Place:
		L.PushString(string(v))
	case bool:
		L.PushBoolean(v)
	case int:
		L.PushInteger(v)
	case int8:
		L.PushInteger(int(v))
	case int16:
		L.PushInteger(int(v))
	case int32:
		L.PushInteger(int(v))
	case int64:
		L.PushInteger(int(v))
	case uint:
		L.PushNumber(float64(v))
	case uint8:
		L.PushInteger(int(v))
	case uint16:
		L.PushInteger(int(v))
	case uint32:
		L.PushNumber(float64(v))
	case uint64:
		L.PushNumber(float64(v))
	case float32:
		L.PushNumber(float64(v))
	case float64:
		L.PushNumber(v)
	case []string:
		L.CreateTable(len(v), 0)
		for i, item := range v {
			L.PushInteger(i + 1)
			L.PushString(item)
			L.SetTable(tableSetIndex)
		}
	case []any:
		L.CreateTable(len(v), 0)
		for i, item := range v {
			L.PushInteger(i + 1)
			push(L, item)
			L.SetTable(tableSetIndex)
		}
	case map[string]any:
		pushMap(L, v)
	case workflow.Metadata:
		pushMap(L, v)
	case workflow.TransitionContext:
		pushMap(L, v)
	case fmt.Stringer:
		L.PushString(v.String())
	default:
		pushKind(L, reflect.ValueOf(v))
	}
}

// pushKind handles named types by their underlying kind.
func pushKind(L *lua.State, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		L.PushInteger(int(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		L.PushNumber(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		L.PushNumber(rv.Float())
	case reflect.Bool:
		L.PushBoolean(rv.Bool())
	case reflect.String:
		L.PushString(rv.String())
	default:
		L.PushString(fmt.Sprintf("%v", rv.Interface()))
	}
}

func pushMap(L *lua.State, m map[string]any) {
	L.CreateTable(0, len(m))
	for k, v := range m {
		L.PushString(k)
		push(L, v)
		L.SetTable(tableSetIndex)
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
