package workflow

import (
	"context"

	"github.com/smallnest/langworkflow/agent"
)

// Prompter is the part of *agent.Agent an LLM step uses.
type Prompter interface {
	Variables() []string
	Invoke(ctx context.Context, inputs map[string]any) (*agent.Output, error)
}

// LLMStep invokes an agent with the state entries named by its prompt variables and
// outputs the final answer.
type LLMStep struct {
	name  string
	agent Prompter
}

// NewLLMStep creates a generative step.
func NewLLMStep(name string, a Prompter) *LLMStep {
	return &LLMStep{name: name, agent: a}
}

func (s *LLMStep) Name() string   { return s.name }
func (s *LLMStep) Kind() StepKind { return KindLLM }

// Run implements Step. Variables absent from the state are not passed.
func (s *LLMStep) Run(ctx context.Context, state *State) (any, error) {
	inputs := make(map[string]any)
	for _, name := range s.agent.Variables() {
		if v, ok := state.Get(name); ok {
			inputs[name] = v
		}
	}

	out, err := s.agent.Invoke(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return out.FinalAnswer, nil
}
