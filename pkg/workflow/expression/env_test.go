package expression_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowkit/pkg/workflow"
	"github.com/dmitrymomot/flowkit/pkg/workflow/expression"
)

func TestEnv_Eval(t *testing.T) {
	t.Parallel()
	env := expression.NewEnv()

	vars := map[string]any{
		"state":   workflow.Place("paid"),
		"total":   42,
		"ratio":   0.5,
		"admin":   true,
		"tags":    []string{"vip", "eu"},
		"subject": map[string]any{"owner": "alice", "items": []any{1, 2, 3}},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"1 + 1 == 2", true},
		{`state == "paid"`, true},
		{"total > 40 and ratio < 1", true},
		{"admin", true},
		{"not admin", false},
		{"#tags == 2 and tags[1] == \"vip\"", true},
		{`subject.owner == "alice"`, true},
		{"#subject.items == 3", true},
		{"undefined_variable", false},
		{"undefined_variable == nil", true},
		{"nil", false},
		{"0", true},
		{`string.upper(subject.owner) == "ALICE"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			got, err := env.Eval(tt.expr, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnv_Errors(t *testing.T) {
	t.Parallel()
	env := expression.NewEnv()

	_, err := env.Eval("1 +", nil)
	require.ErrorIs(t, err, expression.ErrCompile)

	_, err = env.Eval("missing.field == 1", nil)
	require.ErrorIs(t, err, expression.ErrExecution)

	_, err = env.Eval("   ", nil)
	require.ErrorIs(t, err, expression.ErrEmpty)

	_, err = env.Eval("true", map[string]any{"not-an-identifier": 1})
	require.ErrorIs(t, err, expression.ErrCompile)

	require.NoError(t, env.Validate("a and b"))
	require.Error(t, env.Validate("a and"))
}

func TestEnv_Sandbox(t *testing.T) {
	t.Parallel()
	env := expression.NewEnv()

	for _, name := range []string{"os", "io", "debug", "package", "require", "load", "dofile"} {
		ok, err := env.Eval(name+" == nil", nil)
		require.NoError(t, err, name)
		assert.True(t, ok, name)
	}
}

func TestEnv_GlobalsDoNotLeak(t *testing.T) {
	t.Parallel()
	env := expression.NewEnv(expression.WithPoolSize(1))

	const counter = "(function() counter = (counter or 0) + 1; return counter end)() == 1"
	for i := range 3 {
		ok, err := env.Eval(counter, nil)
		require.NoError(t, err)
		assert.True(t, ok, "run %d", i)
	}

	ok, err := env.Eval("(function() _G.leak = true; rawset(_G, 'other', true); return true end)()", nil)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = env.Eval("leak == nil and other == nil", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.Eval("getmetatable(_G) == false", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnv_NumericKinds(t *testing.T) {
	t.Parallel()
	env := expression.NewEnv()

	type amount int64
	type ratio float32
	type flag bool

	for name, v := range map[string]any{
		"int8":   int8(6),
		"int16":  int16(6),
		"uint8":  uint8(6),
		"uint16": uint16(6),
		"uint32": uint32(6),
		"uint64": uint64(6),
		"named":  amount(6),
		"float":  ratio(6.5),
	} {
		t.Run(name, func(t *testing.T) {
			ok, err := env.Eval("amount > 5", map[string]any{"amount": v})
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}

	ok, err := env.Eval("enabled == true", map[string]any{"enabled": flag(true)})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnv_Cache(t *testing.T) {
	t.Parallel()
	env := expression.NewEnv(expression.WithCacheSize(2), expression.WithPoolSize(1))

	for range 3 {
		ok, err := env.Eval("x > 1", map[string]any{"x": 2})
		require.NoError(t, err)
		assert.True(t, ok)
	}
	stats := env.CacheStats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(2), stats.Hits)

	prog, err := env.Compile("x > 1", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, "x > 1", prog.Source())

	ok, err := env.Run(prog, map[string]any{"x": 0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnv_Concurrent(t *testing.T) {
	t.Parallel()
	env := expression.NewEnv(expression.WithConfig(expression.Config{CacheSize: 16, PoolSize: 4}))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok, err := env.Eval("n % 2 == 0", map[string]any{"n": n})
			if err != nil {
				errs <- err
				return
			}
			if ok != (n%2 == 0) {
				errs <- assert.AnError
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("WORKFLOW_EXPRESSION_CACHE_SIZE", "16")
	t.Setenv("WORKFLOW_EXPRESSION_POOL_SIZE", "2")

	cfg, err := expression.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, expression.Config{CacheSize: 16, PoolSize: 2}, cfg)

	env := expression.NewEnv(expression.WithConfig(cfg))
	ok, err := env.Eval("1 < 2", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
