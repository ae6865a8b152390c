// Package tool provides the callable units agents can use while answering.
//
// A Tool couples a name and a description with an argument schema and a function.
// The agent lists every tool in its system prompt (see Tool.String), the model
// replies with a tool name and a JSON object of arguments, and the agent calls
// Tool.Invoke with those arguments, which are validated against the schema first.
//
// # Defining Tools
//
// A tool can be built from a typed function; the schema is derived from the argument
// struct:
//
//	type AddArgs struct {
//		A int `json:"a" jsonschema:"first addend"`
//		B int `json:"b" jsonschema:"second addend"`
//	}
//
//	add, err := tool.NewTyped("add", "Adds two integers",
//		func(ctx context.Context, in AddArgs) (int, error) {
//			return in.A + in.B, nil
//		})
//
// or from a schema and a map-based function:
//
//	t := tool.New("now", "Current UTC time", nil,
//		func(ctx context.Context, _ map[string]any) (any, error) {
//			return time.Now().UTC().Format(time.RFC3339), nil
//		})
//
// # Workflows as Tools
//
// workflow.AsTool wraps a whole workflow as a Tool whose arguments are the workflow
// inputs, so an agent can delegate to another agent.
//
// # langchaingo Compatibility
//
// Tool implements github.com/tmc/langchaingo/tools.Tool. Call accepts the JSON encoded
// arguments and returns the rendered result, so tools can also be handed to langchaingo
// agents and executors.
package tool
