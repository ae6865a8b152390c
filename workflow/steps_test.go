package workflow

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/langworkflow/agent"
	"github.com/smallnest/langworkflow/schema"
)

type fakePrompter struct {
	variables []string
	got       map[string]any
	answer    any
	err       error
}

func (f *fakePrompter) Variables() []string { return f.variables }

func (f *fakePrompter) Invoke(ctx context.Context, inputs map[string]any) (*agent.Output, error) {
	f.got = inputs
	if f.err != nil {
		return nil, f.err
	}
	return &agent.Output{FinalAnswer: f.answer}, nil
}

func TestLLMStep_ReadsVariables(t *testing.T) {
	p := &fakePrompter{variables: []string{"text", "absent"}, answer: "summary"}
	step := NewLLMStep("summarize", p)
	assert.Equal(t, KindLLM, step.Kind())

	state := NewState(map[string]any{"text": "long text", "other": 1})
	out, err := step.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "summary", out)
	assert.Equal(t, map[string]any{"text": "long text"}, p.got)
}

func TestLLMStep_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	step := NewLLMStep("summarize", &fakePrompter{err: boom})
	_, err := step.Run(context.Background(), NewState(nil))
	assert.ErrorIs(t, err, boom)
}

type greetArgs struct {
	Name     string `json:"name"`
	Greeting string `json:"greeting,omitempty"`
}

func greet(ctx context.Context, in greetArgs) (any, error) {
	if in.Greeting == "" {
		in.Greeting = "Hello"
	}
	return in.Greeting + ", " + in.Name, nil
}

func TestFunctionStep_ExtraKeysIgnored(t *testing.T) {
	step, err := Function("greet", greet)
	require.NoError(t, err)
	assert.Equal(t, KindFunction, step.Kind())

	plain, err := step.Run(context.Background(), NewState(map[string]any{"name": "Ada"}))
	require.NoError(t, err)
	noisy, err := step.Run(context.Background(), NewState(map[string]any{"name": "Ada", "age": 36, "greet": "old"}))
	require.NoError(t, err)

	assert.Equal(t, "Hello, Ada", plain)
	assert.Equal(t, plain, noisy)
}

func TestFunctionStep_OptionalFields(t *testing.T) {
	step, err := Function("greet", greet)
	require.NoError(t, err)

	out, err := step.Run(context.Background(), NewState(map[string]any{"name": "Ada", "greeting": "Hi"}))
	require.NoError(t, err)
	assert.Equal(t, "Hi, Ada", out)
}

func TestFunctionStep_MissingInput(t *testing.T) {
	step, err := Function("greet", greet)
	require.NoError(t, err)

	_, err = step.Run(context.Background(), NewState(map[string]any{"greeting": "Hi"}))
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "name")
}

func TestFunctionStep_ReceivesOnlyDeclaredFields(t *testing.T) {
	var got map[string]any
	step := NewFunctionStep("count", schema.MustFor[sortArgs](), func(ctx context.Context, args map[string]any) (any, error) {
		got = args
		return len(args), nil
	})

	_, err := step.Run(context.Background(), NewState(map[string]any{"extract_numbers": []int{1}, "text": "x"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"extract_numbers": []int{1}}, got)
}

func TestMap(t *testing.T) {
	step := Map("double", "numbers", func(n int) int { return n * 2 })
	assert.Equal(t, OpMap, step.Op())
	assert.Equal(t, "numbers", step.Field())

	out, err := step.Run(context.Background(), NewState(map[string]any{"numbers": []int{1, 2, 3}}))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, out)

	// JSON numbers decoded by an agent or a tool are accepted
	out, err = step.Run(context.Background(), NewState(map[string]any{"numbers": []any{1.0, 2.0}}))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, out)

	_, err = step.Run(context.Background(), NewState(map[string]any{"numbers": []any{1.5}}))
	assert.ErrorIs(t, err, ErrElementType)
}

func TestMap_StructElements(t *testing.T) {
	type person struct {
		Name string `json:"name"`
	}
	step := Map("names", "people", func(p person) string { return p.Name })

	out, err := step.Run(context.Background(), NewState(map[string]any{
		"people": []map[string]any{{"name": "Ada"}, {"name": "Alan"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Alan"}, out)
}

func TestFilter_KeepsOrderAndDuplicates(t *testing.T) {
	step := Filter("large", "numbers", func(n int) bool { return n > 10 })
	out, err := step.Run(context.Background(), NewState(map[string]any{
		"numbers": []int{2, 5, 5, 6, 6, 7, 10, 12, 12, 15, 4401},
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{12, 12, 15, 4401}, out)
}

func TestFilter_Idempotent(t *testing.T) {
	keep := func(n int) bool { return n%3 == 0 }
	first := Filter("first", "numbers", keep)
	second := Filter("second", "first", keep)

	state := NewState(map[string]any{"numbers": []int{9, 1, 3, 3, 4, 6, 12, 7}})
	once, err := first.Run(context.Background(), state)
	require.NoError(t, err)
	state.record("first", once)

	twice, err := second.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestReduce(t *testing.T) {
	sum := Reduce("sum", "numbers", func(acc, x int) int { return acc + x })
	out, err := sum.Run(context.Background(), NewState(map[string]any{"numbers": []int{1, 2, 3, 4}}))
	require.NoError(t, err)
	assert.Equal(t, 10, out)

	_, err = sum.Run(context.Background(), NewState(map[string]any{"numbers": []int{}}))
	assert.ErrorIs(t, err, ErrEmptySequence)

	single, err := sum.Run(context.Background(), NewState(map[string]any{"numbers": [1]int{7}}))
	require.NoError(t, err)
	assert.Equal(t, 7, single)
}

func TestTransform_FieldErrors(t *testing.T) {
	step := Filter("large", "numbers", func(n int) bool { return n > 10 })

	_, err := step.Run(context.Background(), NewState(nil))
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = step.Run(context.Background(), NewState(map[string]any{"numbers": 42}))
	assert.ErrorIs(t, err, ErrNotSequence)

	_, err = step.Run(context.Background(), NewState(map[string]any{"numbers": nil}))
	assert.ErrorIs(t, err, ErrNotSequence)
}

func TestExprSteps(t *testing.T) {
	state := NewState(map[string]any{"numbers": []int{3, 12, 7, 15}})

	double, err := MapExpr("double", "numbers", "x * 2")
	require.NoError(t, err)
	out, err := double.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []any{6, 24, 14, 30}, out)

	large, err := FilterExpr("large", "numbers", "x > 10")
	require.NoError(t, err)
	out, err = large.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []any{12, 15}, out)

	sum, err := ReduceExpr("sum", "numbers", "acc + x")
	require.NoError(t, err)
	out, err = sum.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 37, out)

	_, err = sum.Run(context.Background(), NewState(map[string]any{"numbers": []int{}}))
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestExprSteps_CompileErrors(t *testing.T) {
	_, err := MapExpr("bad", "numbers", "x *")
	assert.Error(t, err)

	_, err = FilterExpr("bad", "numbers", `"not a bool"`)
	assert.Error(t, err)
}

// Sorting commutes with an order-preserving map such as doubling, but not with a
// map like negation. This is a property of the mapping function.
func TestMapSortCommutation(t *testing.T) {
	numbers := []int{6, 15, 7, 10, 4401}
	sortStep, err := Function("sorted", func(ctx context.Context, in struct {
		Numbers []int `json:"mapped"`
	}) (any, error) {
		return slices.Sorted(slices.Values(in.Numbers)), nil
	})
	require.NoError(t, err)

	run := func(fn func(int) int) (mapThenSort, sortThenMap []int) {
		state := NewState(map[string]any{"numbers": numbers})
		mapped, err := Map("mapped", "numbers", fn).Run(context.Background(), state)
		require.NoError(t, err)
		state.record("mapped", mapped)
		sorted, err := sortStep.Run(context.Background(), state)
		require.NoError(t, err)

		state = NewState(map[string]any{"numbers": slices.Sorted(slices.Values(numbers))})
		mappedSorted, err := Map("m", "numbers", fn).Run(context.Background(), state)
		require.NoError(t, err)
		return sorted.([]int), mappedSorted.([]int)
	}

	a, b := run(func(n int) int { return n * 2 })
	assert.Equal(t, a, b)

	a, b = run(func(n int) int { return -n })
	assert.NotEqual(t, a, b)
}

func TestState(t *testing.T) {
	inputs := map[string]any{"text": "x"}
	s := NewState(inputs)
	s.Set("extra", 1)
	_, ok := inputs["extra"]
	assert.False(t, ok)

	s.record("step", 2)
	assert.Equal(t, []string{"extra", "step", "text"}, s.Keys())
	assert.Equal(t, []string{"step"}, s.Steps())
	assert.Equal(t, 3, s.Len())

	values := s.Values()
	values["text"] = "changed"
	v, _ := s.Get("text")
	assert.Equal(t, "x", v)
}
