package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderChainOfThought(t *testing.T) {
	steps := []ReasoningStep{
		{Name: StepPrompt, Content: "2+3?"},
		{Name: StepThought, Content: "use add"},
		{Name: StepTool, Content: "x", Tool: &ToolStep{Tool: "add", Input: map[string]any{"a": 2}, Response: 5}},
		{Name: StepFinalAnswer, Content: "5"},
	}

	out := RenderChainOfThought(steps)
	for _, want := range []string{"Prompt:", "2+3?", "Thought:", "use add", "Tool:", "Final Answer:"} {
		assert.Contains(t, out, want)
	}
}

func TestToolStep_String(t *testing.T) {
	ok := &ToolStep{Tool: "add", Input: map[string]any{"a": 2, "b": 3}, Response: 5}
	assert.Equal(t, "Tool: add\nTool Input: {\"a\":2,\"b\":3}\nTool Response: 5", ok.String())

	failed := &ToolStep{Tool: "add", Input: map[string]any{}, Error: "boom"}
	assert.Equal(t, "Tool: add\nTool Input: {}\nTool Error: boom", failed.String())
}
