package workflow

import "context"

// StepKind is the variant of a step.
type StepKind string

const (
	// KindLLM steps ask an agent.
	KindLLM StepKind = "llm"
	// KindFunction steps call a Go function with fields of the state.
	KindFunction StepKind = "function"
	// KindTransform steps map, filter or reduce a sequence in the state.
	KindTransform StepKind = "transform"
)

// Step is one unit of work of a workflow. Run reads what it needs from the state and
// returns its output, which the workflow stores under Name.
type Step interface {
	Name() string
	Kind() StepKind
	Run(ctx context.Context, state *State) (any, error)
}
