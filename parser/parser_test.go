package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/langworkflow/schema"
)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func mustParser(t *testing.T, ot OutputType, opts ...Option) *Parser {
	t.Helper()
	p, err := New(ot, opts...)
	require.NoError(t, err)
	return p
}

func TestParse_FinalAnswerScalars(t *testing.T) {
	tests := []struct {
		name string
		ot   OutputType
		text string
		want any
	}{
		{"string", String, `{"thought": "t", "final_answer": "Paris"}`, "Paris"},
		{"number as string", String, `{"thought": "t", "final_answer": 12}`, "12"},
		{"integer", Integer, `{"thought": "t", "final_answer": 7}`, 7},
		{"integer from string", Integer, `{"thought": "t", "final_answer": " 7 "}`, 7},
		{"float", Float, `{"thought": "t", "final_answer": 2.5}`, 2.5},
		{"float from string", Float, `{"thought": "t", "final_answer": "2.5"}`, 2.5},
		{"boolean", Boolean, `{"thought": "t", "final_answer": true}`, true},
		{"array integer", ArrayInteger, `{"thought": "t", "final_answer": [6, 15, 7]}`, []int{6, 15, 7}},
		{"array float", ArrayFloat, `{"thought": "t", "final_answer": [1, 2.5]}`, []float64{1, 2.5}},
		{"array string", ArrayString, `{"thought": "t", "final_answer": ["a", "b"]}`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParser(t, tt.ot)
			res, err := p.Parse(tt.text)
			require.NoError(t, err)
			fa, ok := res.(*FinalAnswer)
			require.True(t, ok)
			assert.Equal(t, tt.want, fa.Value)
			assert.Equal(t, "t", fa.Reasoning())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		ot   OutputType
		text string
	}{
		{"no json", String, "I think the answer is 4"},
		{"missing final answer", String, `{"thought": "t"}`},
		{"missing thought", String, `{"final_answer": "x"}`},
		{"fractional integer", Integer, `{"thought": "t", "final_answer": 2.5}`},
		{"integer out of range", Integer, `{"thought": "t", "final_answer": 1e300}`},
		{"array integer out of range", ArrayInteger, `{"thought": "t", "final_answer": [1, -1e300]}`},
		{"object for string", String, `{"thought": "t", "final_answer": {"a": 1}}`},
		{"scalar for array", ArrayInteger, `{"thought": "t", "final_answer": 3}`},
		{"bad array item", ArrayInteger, `{"thought": "t", "final_answer": [1, "two"]}`},
		{"bad boolean", Boolean, `{"thought": "t", "final_answer": "maybe"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParser(t, tt.ot)
			_, err := p.Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOutput))
		})
	}
}

func TestParse_SingleCompletionSkipsThought(t *testing.T) {
	p := mustParser(t, String, WithStrategy(SingleCompletion))
	res, err := p.Parse(`{"final_answer": "ok"}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.(*FinalAnswer).Value)
}

func TestParse_ToleratesFencesAndProse(t *testing.T) {
	p := mustParser(t, Integer)
	text := "Sure! Here you go:\n```json\n{\"thought\": \"sum\", \"final_answer\": 10}\n```\nHope it helps {not json}"
	res, err := p.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, 10, res.(*FinalAnswer).Value)
}

func TestParse_ToolUse(t *testing.T) {
	p := mustParser(t, String, WithToolUse(true))

	res, err := p.Parse(`{"thought": "look it up", "tool": "search", "tool_input": {"query": "go"}}`)
	require.NoError(t, err)
	tu, ok := res.(*ToolUse)
	require.True(t, ok)
	assert.Equal(t, "search", tu.Tool)
	assert.Equal(t, map[string]any{"query": "go"}, tu.ToolInput)

	res, err = p.Parse(`{"thought": "t", "tool": "search", "tool_input": "{\"query\": \"x\"}"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "x"}, res.(*ToolUse).ToolInput)

	_, err = p.Parse(`{"thought": "t", "tool": "search", "tool_input": 5}`)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	_, err = p.Parse(`{"thought": "t"}`)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestParse_ToolIgnoredWithoutToolUse(t *testing.T) {
	p := mustParser(t, String)
	_, err := p.Parse(`{"thought": "t", "tool": "search", "tool_input": {}}`)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestParse_Dates(t *testing.T) {
	p := mustParser(t, Date)
	res, err := p.Parse(`{"thought": "t", "final_answer": "2023-02-06"}`)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC), res.(*FinalAnswer).Value)

	_, err = p.Parse(`{"thought": "t", "final_answer": "06/02/2023"}`)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	p = mustParser(t, Timestamp, WithLayout("02/01/2006 15:04"))
	res, err = p.Parse(`{"thought": "t", "final_answer": "06/02/2023 04:17"}`)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 2, 6, 4, 17, 0, 0, time.UTC), res.(*FinalAnswer).Value)
	assert.Contains(t, p.FinalAnswerInstructions(), "15/03/2024 14:30")
}

func TestParse_Object(t *testing.T) {
	p := mustParser(t, Object, ObjectOf[person]())
	res, err := p.Parse(`{"thought": "t", "final_answer": {"name": "Ada", "age": 36}}`)
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Ada", Age: 36}, res.(*FinalAnswer).Value)

	_, err = p.Parse(`{"thought": "t", "final_answer": {"name": "Ada"}}`)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	p = mustParser(t, ArrayObject, ObjectOf[person]())
	res, err = p.Parse(`{"thought": "t", "final_answer": [{"name": "Ada", "age": 36}, {"name": "Alan", "age": 41}]}`)
	require.NoError(t, err)
	assert.Equal(t, []person{{"Ada", 36}, {"Alan", 41}}, res.(*FinalAnswer).Value)
}

func TestParse_Struct(t *testing.T) {
	p := mustParser(t, Struct, WithSchema(schema.MustFor[person]()))
	res, err := p.Parse(`{"thought": "t", "final_answer": {"name": "Ada", "age": 36, "extra": 1}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada", "age": float64(36)}, res.(*FinalAnswer).Value)

	p = mustParser(t, ArrayStruct, WithSchema(schema.MustFor[person]()))
	res, err = p.Parse(`{"thought": "t", "final_answer": [{"name": "Ada", "age": 36}]}`)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "Ada", "age": float64(36)}}, res.(*FinalAnswer).Value)
}

func TestNew_SchemaRequired(t *testing.T) {
	for _, ot := range []OutputType{Object, Struct, ArrayObject, ArrayStruct} {
		_, err := New(ot)
		assert.ErrorIs(t, err, ErrSchemaRequired, ot)
	}

	_, err := New("tuple")
	assert.ErrorIs(t, err, ErrUnknownOutputType)
}

func TestEmptyAnswer(t *testing.T) {
	s := schema.MustFor[person]()

	assert.Nil(t, mustParser(t, String).EmptyAnswer())
	assert.Nil(t, mustParser(t, ArrayInteger).EmptyAnswer())
	assert.Equal(t, map[string]any{"age": nil, "name": nil}, mustParser(t, Struct, WithSchema(s)).EmptyAnswer())
	assert.Equal(t, []map[string]any{{"age": nil, "name": nil}}, mustParser(t, ArrayStruct, WithSchema(s)).EmptyAnswer())
	assert.Equal(t, person{}, mustParser(t, Object, ObjectOf[person]()).EmptyAnswer())
	assert.Equal(t, []person{{}}, mustParser(t, ArrayObject, ObjectOf[person]()).EmptyAnswer())
}

func TestFinalAnswerInstructions(t *testing.T) {
	assert.Contains(t, mustParser(t, ArrayInteger).FinalAnswerInstructions(), "array of integers")
	assert.Contains(t, mustParser(t, Date).FinalAnswerInstructions(), "2024-03-15")

	instr := mustParser(t, Object, ObjectOf[person]()).FinalAnswerInstructions()
	assert.Contains(t, instr, `"name"`)
	assert.Contains(t, instr, `"age": 0`)
}

func TestParseOutputType(t *testing.T) {
	ot, err := ParseOutputType("array-integer")
	require.NoError(t, err)
	assert.Equal(t, ArrayInteger, ot)
	assert.True(t, ot.IsArray())
	assert.Equal(t, Integer, ot.Elem())

	_, err = ParseOutputType("nope")
	assert.Error(t, err)

	s, err := ParsePromptingStrategy("single-completion")
	require.NoError(t, err)
	assert.Equal(t, SingleCompletion, s)
}

func TestInstructions(t *testing.T) {
	withTools := mustParser(t, Integer, WithToolUse(true)).Instructions("Tool Name: add")
	assert.Contains(t, withTools, `"tool_input"`)
	assert.Contains(t, withTools, "Tool Name: add")
	assert.Contains(t, withTools, "Final Answer Format:")

	plain := mustParser(t, Integer).Instructions("")
	assert.NotContains(t, plain, `"tool"`)
	assert.Contains(t, plain, `"thought"`)

	single := mustParser(t, Integer, WithStrategy(SingleCompletion)).Instructions("")
	assert.NotContains(t, single, `"thought"`)
}
