// Package workflow chains agents and functions into linear workflows.
//
// A workflow is an ordered list of steps over one State. The state starts as the
// validated caller inputs and every step stores its output under its own name, so later
// steps can read what earlier steps produced:
//
//	extract := workflow.NewLLMStep("extract_numbers", numberExtractor) // reads "text"
//	sorted, _ := workflow.Function("sort_numbers", sortNumbers)         // reads "extract_numbers"
//	large := workflow.Filter("filter_numbers", "sort_numbers", func(n int) bool { return n > 10 })
//
//	w := workflow.New("numbers", "Extracts, sorts and filters numbers",
//		schema.MustFor[NumbersInput](), "filter_numbers",
//		[]workflow.Step{extract, sorted, large})
//
//	out, err := w.Invoke(ctx, map[string]any{"text": "..."})
//
// There are three kinds of steps: LLM steps ask an agent, function steps call a Go
// function with the state entries their input schema declares, and transformation
// steps map, filter or reduce a sequence stored in the state. Transformations can be
// written as Go functions or as expr-lang expressions (MapExpr, FilterExpr, ReduceExpr).
//
// Steps run one after the other on the calling goroutine. There is no branching,
// parallelism or retry: the first failing step ends the run.
//
// AsTool turns a workflow into a tool.Tool, so it can be given to another agent.
package workflow
