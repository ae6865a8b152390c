package agent

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/smallnest/langworkflow/log"
	"github.com/smallnest/langworkflow/parser"
	"github.com/smallnest/langworkflow/tool"
)

const (
	// DefaultIterations is the number of corrective rounds after the first completion.
	DefaultIterations = 10
	// DefaultMaxTokens is the completion budget per model call.
	DefaultMaxTokens = 512
)

// Output is the result of one invocation.
type Output struct {
	// Prompt is the formatted user prompt.
	Prompt string
	// FinalAnswer is coerced to the agent's output type, or the parser's empty answer
	// when the model never produced a valid one.
	FinalAnswer    any
	ChainOfThought []ReasoningStep
}

// Agent answers prompts with a language model, using tools when it has them, and
// returns answers of a fixed output type.
type Agent struct {
	model        llms.Model
	systemPrompt string
	template     prompts.PromptTemplate
	variables    []string

	tools       map[string]*tool.Tool
	toolOrder   []string
	parser      *parser.Parser
	parserOpts  []parser.Option
	strategy    parser.PromptingStrategy
	iterations  int
	maxTokens   int
	temperature *float64
	modelName   string
	tokenLimit  int
	counter     TokenCounter
	logger      log.Logger

	mu   sync.Mutex
	chat *Chat
}

// Option configures an Agent.
type Option func(*Agent)

// WithTools registers the tools the agent may call.
func WithTools(tools ...*tool.Tool) Option {
	return func(a *Agent) {
		for _, t := range tools {
			a.toolOrder = append(a.toolOrder, t.Name())
			if a.tools == nil {
				a.tools = make(map[string]*tool.Tool)
			}
			a.tools[t.Name()] = t
		}
	}
}

// WithParserOptions passes options to the output parser, for example
// parser.ObjectOf[T]() or parser.WithLayout.
func WithParserOptions(opts ...parser.Option) Option {
	return func(a *Agent) {
		a.parserOpts = append(a.parserOpts, opts...)
	}
}

// WithStrategy sets the prompting strategy. The default is chain of thought.
func WithStrategy(s parser.PromptingStrategy) Option {
	return func(a *Agent) {
		a.strategy = s
	}
}

// WithIterations sets how many more completions are attempted after the first one
// when the model needs tools or gives an invalid answer.
func WithIterations(n int) Option {
	return func(a *Agent) {
		a.iterations = n
	}
}

// WithMaxTokens sets the completion budget per call.
func WithMaxTokens(n int) Option {
	return func(a *Agent) {
		a.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(a *Agent) {
		a.temperature = &t
	}
}

// WithModelName names the model so the conversation can be trimmed to its context
// window (see ModelTokenLimits).
func WithModelName(name string) Option {
	return func(a *Agent) {
		a.modelName = name
	}
}

// WithTokenLimit sets the context window explicitly. It takes precedence over WithModelName.
func WithTokenLimit(n int) Option {
	return func(a *Agent) {
		a.tokenLimit = n
	}
}

// WithTokenCounter replaces the tiktoken based counter.
func WithTokenCounter(c TokenCounter) Option {
	return func(a *Agent) {
		a.counter = c
	}
}

// WithLogger sets the logger. The default is the package logger.
func WithLogger(l log.Logger) Option {
	return func(a *Agent) {
		a.logger = l
	}
}

// New creates an agent.
//
// prompt is an f-string template ("Extract the numbers in: {text}") whose variables are
// listed in variables. The system message sent to the model is the system prompt
// followed by the response-format instructions for the tools and the output type.
func New(model llms.Model, systemPrompt, prompt string, variables []string, outputType parser.OutputType, opts ...Option) (*Agent, error) {
	if model == nil {
		return nil, ErrNoModel
	}

	a := &Agent{
		model:        model,
		systemPrompt: systemPrompt,
		template: prompts.PromptTemplate{
			Template:       prompt,
			InputVariables: slices.Clone(variables),
			TemplateFormat: prompts.TemplateFormatFString,
		},
		variables:  slices.Clone(variables),
		strategy:   parser.ChainOfThought,
		iterations: DefaultIterations,
		maxTokens:  DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(a)
	}
	if len(a.tools) != len(a.toolOrder) {
		return nil, fmt.Errorf("%w among %s", ErrDuplicateTool, strings.Join(a.toolOrder, ", "))
	}
	if a.counter == nil {
		a.counter = NewTiktokenCounter()
	}
	if a.logger == nil {
		a.logger = log.GetDefaultLogger()
	}
	if a.tokenLimit == 0 {
		a.tokenLimit = ModelTokenLimits[a.modelName]
	}

	popts := append([]parser.Option{
		parser.WithToolUse(len(a.tools) > 0),
		parser.WithStrategy(a.strategy),
	}, a.parserOpts...)
	p, err := parser.New(outputType, popts...)
	if err != nil {
		return nil, err
	}
	a.parser = p

	a.chat = NewChat(strings.Join([]string{systemPrompt, p.Instructions(a.toolCards())}, "\n\n"))
	return a, nil
}

// Variables returns the prompt variables the agent reads from its inputs.
func (a *Agent) Variables() []string {
	return slices.Clone(a.variables)
}

// Parser returns the output parser.
func (a *Agent) Parser() *parser.Parser { return a.parser }

// Tools returns the registered tools in registration order.
func (a *Agent) Tools() []*tool.Tool {
	out := make([]*tool.Tool, 0, len(a.toolOrder))
	for _, name := range a.toolOrder {
		out = append(out, a.tools[name])
	}
	return out
}

// Chat returns a snapshot of the conversation history.
func (a *Agent) Chat() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chat.Messages()
}

// Reset clears the conversation history, keeping the system message.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chat.Reset()
}

func (a *Agent) toolCards() string {
	cards := make([]string, 0, len(a.toolOrder))
	for _, t := range a.Tools() {
		cards = append(cards, t.String())
	}
	return strings.Join(cards, "\n\n")
}

// Invoke answers the prompt formatted with inputs. Only the declared variables are read;
// absent ones are formatted as empty strings.
//
// The model is called until it gives a valid final answer, at most iterations+1 times.
// Invalid answers, tool responses and tool errors are fed back as observations. When
// the model never gives a valid final answer the output holds the parser's empty
// answer. Invocations of the same agent are serialized.
func (a *Agent) Invoke(ctx context.Context, inputs map[string]any) (*Output, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prompt, err := a.formatPrompt(inputs)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Prompt:\n%s", prompt)
	a.chat.Add(llms.ChatMessageTypeHuman, prompt)
	a.chat.begin()
	chain := []ReasoningStep{{Name: StepPrompt, Content: prompt}}

	for iteration := 0; iteration <= a.iterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if dropped := trim(a.chat, a.counter, a.tokenLimit, a.maxTokens); dropped > 0 {
			a.logger.Debug("dropped %d messages to fit %d tokens", dropped, a.tokenLimit)
		}

		text, err := a.complete(ctx)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Raw Output:\n%s", text)

		var observation string
		result, err := a.parser.Parse(text)
		if err != nil {
			observation = err.Error()
		} else {
			thought := result.Reasoning()
			a.logger.Info("Thought:\n%s", thought)
			a.chat.Step("Thought: " + thought)
			chain = append(chain, ReasoningStep{Name: StepThought, Content: thought})

			switch r := result.(type) {
			case *parser.FinalAnswer:
				answer := tool.FormatResult(r.Value)
				a.logger.Info("Final Answer:\n%s", answer)
				chain = append(chain, ReasoningStep{Name: StepFinalAnswer, Content: answer})
				a.chat.Add(llms.ChatMessageTypeAI, answer)
				return &Output{Prompt: prompt, FinalAnswer: r.Value, ChainOfThought: chain}, nil
			case *parser.ToolUse:
				var step *ToolStep
				observation, step = a.useTool(ctx, r)
				if step != nil {
					chain = append(chain, ReasoningStep{Name: StepTool, Content: step.String(), Tool: step})
				}
			}
		}

		a.chat.Step("Observation: " + observation)
		a.chat.Update(prompt)
	}

	empty := a.parser.EmptyAnswer()
	a.logger.Warn("no valid answer after %d attempts", a.iterations+1)
	a.logger.Info("Final Answer:\n%s", tool.FormatResult(empty))
	return &Output{Prompt: prompt, FinalAnswer: empty, ChainOfThought: chain}, nil
}

func (a *Agent) formatPrompt(inputs map[string]any) (string, error) {
	values := make(map[string]any, len(a.variables))
	for _, name := range a.variables {
		values[name] = promptValue(inputs[name])
	}
	prompt, err := a.template.Format(values)
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}
	return prompt, nil
}

func promptValue(v any) string {
	if v == nil {
		return ""
	}
	return tool.FormatResult(v)
}

func (a *Agent) complete(ctx context.Context) (string, error) {
	opts := []llms.CallOption{llms.WithMaxTokens(a.maxTokens)}
	if a.temperature != nil {
		opts = append(opts, llms.WithTemperature(*a.temperature))
	}

	resp, err := a.model.GenerateContent(ctx, a.chat.content(), opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Content, nil
}

// useTool runs the requested tool and returns the observation. The step is nil when
// the tool does not exist.
func (a *Agent) useTool(ctx context.Context, use *parser.ToolUse) (string, *ToolStep) {
	t, ok := a.tools[use.Tool]
	if !ok {
		names := slices.Sorted(maps.Keys(a.tools))
		return fmt.Sprintf("%s tool doesn't exist. Try one of these tools: %s", use.Tool, strings.Join(names, ", ")), nil
	}

	a.logger.Info("Tool:\n%s", use.Tool)
	a.logger.Info("Tool Input:\n%s", tool.FormatResult(use.ToolInput))
	a.chat.Step("Tool: " + use.Tool)
	a.chat.Step("Tool Input: " + tool.FormatResult(use.ToolInput))

	step := &ToolStep{Tool: use.Tool, Input: use.ToolInput}
	res, err := t.Invoke(ctx, use.ToolInput)
	if err != nil {
		a.logger.Warn("tool %s failed: %v", use.Tool, err)
		step.Error = err.Error()
		return "Tool Error:\n" + err.Error(), step
	}

	step.Response = res
	observation := "Tool Response:\n" + tool.FormatResult(res)
	a.logger.Info("%s", observation)
	return observation, step
}
