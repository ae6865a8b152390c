package workflow

import (
	"context"

	"github.com/smallnest/langworkflow/tool"
)

// AsTool wraps w as a tool named after the workflow, taking the workflow inputs as
// arguments and returning only the workflow output. Registered with an agent, it lets
// one agent delegate to a whole workflow.
func AsTool(w *Workflow) *tool.Tool {
	return tool.New(w.name, w.description, w.inputs, func(ctx context.Context, args map[string]any) (any, error) {
		out, err := w.Invoke(ctx, args)
		if err != nil {
			return nil, err
		}
		return out.Output, nil
	})
}

// AsTool is shorthand for AsTool(w).
func (w *Workflow) AsTool() *tool.Tool {
	return AsTool(w)
}
