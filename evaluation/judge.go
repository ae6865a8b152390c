package evaluation

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/langworkflow/agent"
	"github.com/smallnest/langworkflow/parser"
)

// Verdict is the grade a Judge gives an answer.
type Verdict struct {
	Score     int    `json:"score" jsonschema:"grade from 1 (wrong) to 5 (fully correct and complete)"`
	Correct   bool   `json:"correct" jsonschema:"whether the answer agrees with the reference answer"`
	Reasoning string `json:"reasoning" jsonschema:"short justification of the grade"`
}

const judgeSystemPrompt = `You are an impartial evaluator. You compare an answer to a question with a reference
answer and grade how correct and complete it is. Judge the meaning, not the wording.`

const judgePrompt = `Question:
{question}

Reference answer:
{reference}

Answer to evaluate:
{answer}`

// Judge grades answers with a language model.
type Judge struct {
	agent *agent.Agent
}

// NewJudge creates a judge. Agent options such as agent.WithLogger or
// agent.WithModelName are passed through.
func NewJudge(model llms.Model, opts ...agent.Option) (*Judge, error) {
	opts = append([]agent.Option{agent.WithParserOptions(parser.ObjectOf[Verdict]())}, opts...)
	a, err := agent.New(model, judgeSystemPrompt, judgePrompt,
		[]string{"question", "reference", "answer"}, parser.Object, opts...)
	if err != nil {
		return nil, err
	}
	return &Judge{agent: a}, nil
}

// Evaluate grades answer against reference. Each call is independent of the previous ones.
func (j *Judge) Evaluate(ctx context.Context, question, answer, reference string) (*Verdict, error) {
	defer j.agent.Reset()

	out, err := j.agent.Invoke(ctx, map[string]any{
		"question":  question,
		"reference": reference,
		"answer":    answer,
	})
	if err != nil {
		return nil, err
	}

	v, ok := out.FinalAnswer.(Verdict)
	if !ok {
		return nil, fmt.Errorf("unexpected judge answer %T", out.FinalAnswer)
	}
	return &v, nil
}
