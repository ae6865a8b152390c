// Package parser turns raw model responses into tool calls or typed final answers.
//
// Models are instructed to reply with a single JSON object. A tool call looks like
//
//	{"thought": "...", "tool": "search", "tool_input": {"query": "..."}}
//
// and a final answer like
//
//	{"thought": "...", "final_answer": [1, 2, 3]}
//
// The final answer is coerced to the parser's OutputType. Parse errors wrap
// ErrInvalidOutput and carry a message meant to be shown back to the model so it can
// correct itself.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallnest/langworkflow/schema"
)

const (
	// DefaultDateLayout is used for Date answers when no layout is given.
	DefaultDateLayout = "2006-01-02"
	// DefaultTimestampLayout is used for Timestamp answers when no layout is given.
	DefaultTimestampLayout = "2006-01-02 15:04:05"
)

// Result is either a *ToolUse or a *FinalAnswer.
type Result interface {
	// Reasoning returns the thought the model gave for this step.
	Reasoning() string
}

// ToolUse is a request from the model to call a tool.
type ToolUse struct {
	Thought   string
	Tool      string
	ToolInput map[string]any
}

// Reasoning implements Result.
func (t *ToolUse) Reasoning() string { return t.Thought }

// FinalAnswer is the model's answer, already coerced to the output type.
type FinalAnswer struct {
	Thought string
	Value   any
}

// Reasoning implements Result.
func (f *FinalAnswer) Reasoning() string { return f.Thought }

// Parser parses model output for one output type.
type Parser struct {
	outputType OutputType
	schema     *schema.Schema
	layout     string
	toolUse    bool
	strategy   PromptingStrategy

	// set by ObjectOf for typed object decoding
	decode  func(map[string]any) (any, error)
	zero    func() any
	collect func([]any) any

	err error
}

// Option configures a Parser.
type Option func(*Parser)

// WithSchema sets the schema used by object and struct answers.
func WithSchema(s *schema.Schema) Option {
	return func(p *Parser) {
		p.schema = s
	}
}

// ObjectOf makes object answers decode into T (and array-object answers into []T).
// The schema is derived from T.
func ObjectOf[T any]() Option {
	return func(p *Parser) {
		s, err := schema.For[T]()
		if err != nil {
			p.err = err
			return
		}
		p.schema = s
		p.decode = func(m map[string]any) (any, error) {
			var out T
			if err := s.Decode(m, &out); err != nil {
				return nil, err
			}
			return out, nil
		}
		p.zero = func() any {
			var out T
			return out
		}
		p.collect = func(items []any) any {
			out := make([]T, 0, len(items))
			for _, item := range items {
				out = append(out, item.(T))
			}
			return out
		}
	}
}

// WithLayout sets the time layout used by date and timestamp answers.
func WithLayout(layout string) Option {
	return func(p *Parser) {
		p.layout = layout
	}
}

// WithToolUse enables parsing of tool calls.
func WithToolUse(enabled bool) Option {
	return func(p *Parser) {
		p.toolUse = enabled
	}
}

// WithStrategy sets the prompting strategy. Chain of thought requires a thought.
func WithStrategy(s PromptingStrategy) Option {
	return func(p *Parser) {
		p.strategy = s
	}
}

// New creates a parser for the given output type.
func New(outputType OutputType, opts ...Option) (*Parser, error) {
	if _, err := ParseOutputType(string(outputType)); err != nil {
		return nil, err
	}

	p := &Parser{
		outputType: outputType,
		strategy:   ChainOfThought,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.err != nil {
		return nil, p.err
	}

	if outputType.NeedsSchema() && p.schema == nil {
		return nil, fmt.Errorf("%w: %s answers need a schema", ErrSchemaRequired, outputType)
	}

	if p.layout == "" {
		switch outputType {
		case Date:
			p.layout = DefaultDateLayout
		case Timestamp:
			p.layout = DefaultTimestampLayout
		}
	}

	return p, nil
}

// OutputType returns the type final answers are coerced to.
func (p *Parser) OutputType() OutputType { return p.outputType }

// Schema returns the answer schema, nil for scalar types.
func (p *Parser) Schema() *schema.Schema { return p.schema }

// Layout returns the time layout for date and timestamp answers.
func (p *Parser) Layout() string { return p.layout }

// ToolUse reports whether tool calls are accepted.
func (p *Parser) ToolUse() bool { return p.toolUse }

// Strategy returns the prompting strategy.
func (p *Parser) Strategy() PromptingStrategy { return p.strategy }

// Parse interprets one model response.
func (p *Parser) Parse(text string) (Result, error) {
	obj, err := extractObject(text)
	if err != nil {
		return nil, err
	}

	thought, _ := obj["thought"].(string)
	if p.strategy == ChainOfThought && strings.TrimSpace(thought) == "" {
		return nil, invalid(`your response is missing the "thought" key; always explain your reasoning in "thought"`)
	}

	if name, ok := obj["tool"]; ok && p.toolUse {
		tool, ok := name.(string)
		if !ok || tool == "" {
			return nil, invalid(`"tool" must be the name of one of the available tools`)
		}
		input, err := toolInput(obj["tool_input"])
		if err != nil {
			return nil, err
		}
		return &ToolUse{Thought: thought, Tool: tool, ToolInput: input}, nil
	}

	raw, ok := obj["final_answer"]
	if !ok {
		if p.toolUse {
			return nil, invalid(`your response must contain either "tool" and "tool_input", or "final_answer"`)
		}
		return nil, invalid(`your response is missing the "final_answer" key`)
	}

	value, err := p.coerce(raw)
	if err != nil {
		return nil, err
	}
	return &FinalAnswer{Thought: thought, Value: value}, nil
}

func toolInput(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err == nil {
			return m, nil
		}
	}
	return nil, invalid(`"tool_input" must be a JSON object mapping argument names to values`)
}

// extractObject finds the first decodable JSON object in text. Code fences and prose
// around the object are ignored.
func extractObject(text string) (map[string]any, error) {
	data := []byte(text)
	for i := 0; i < len(data); i++ {
		if data[i] != '{' {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(data[i:]))
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil {
			return obj, nil
		}
	}
	return nil, invalid("your response does not contain a valid JSON object; reply with a single JSON object")
}

func invalid(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOutput, fmt.Sprintf(format, v...))
}
