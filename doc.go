// LangWorkflow - Typed LLM Agents and Workflows in Go
//
// LangWorkflow builds LLM applications out of small, typed pieces. An agent turns a
// prompt template into a typed answer (an integer, a date, a list of strings, a Go
// struct), calling tools along the way. A workflow chains agents, Go functions and
// list transformations over a shared state, and a workflow can itself be handed to
// another agent as a tool.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/langworkflow
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/langworkflow/agent"
//		"github.com/smallnest/langworkflow/llms/openai"
//		"github.com/smallnest/langworkflow/parser"
//	)
//
//	func main() {
//		llm, _ := openai.New()
//
//		counter, _ := agent.New(llm,
//			"You are a helpful assistant.",
//			"How many legs do {count} spiders have?",
//			[]string{"count"},
//			parser.Integer,
//		)
//
//		out, _ := counter.Invoke(context.Background(), map[string]any{"count": 3})
//		fmt.Println(out.FinalAnswer) // 24, an int
//	}
//
// # Key Features
//
//   - Typed Answers: Answers are parsed and coerced to the requested output type
//   - Tools: Any typed Go function becomes a tool with a derived argument schema
//   - Workflows: LLM, function and transform steps share one state
//   - Workflows as Tools: Multi-agent systems from plain composition
//   - Observability: Step listeners, OpenTelemetry spans and Prometheus metrics
//   - Evaluation: Embedding similarity and LLM-as-judge scoring
//
// # Core Concepts
//
// # State
//
// A workflow run starts with its validated inputs in the state. Every step reads
// from the state and its output is stored under the step name, so later steps (and
// the workflow output) refer to earlier results by name:
//
//	w := workflow.New("numbers", "Extracts the numbers of a text, sorted",
//		schema.MustFor[Input](), "sort_numbers",
//		[]workflow.Step{
//			workflow.NewLLMStep("extract_numbers", extractor),
//			sortStep,
//		},
//	)
//
// # Step Kinds
//
//   - LLM steps run an agent with the state values named by its prompt variables
//   - Function steps call a Go function with the declared fields of the state
//   - Transform steps map, filter or reduce a sequence in the state
//
// # Package Structure
//
// agent/
// Prompt formatting, the reasoning loop, tool calls, chat history and token trimming
//
// parser/
// Output types, response parsing, coercion and format instructions
//
// schema/
// JSON schemas for workflow inputs, tool arguments and structured answers
//
// tool/
// Tools built from Go functions, compatible with langchaingo tools
//
// workflow/
// Steps, state, workflows and the workflow-as-tool adapter
//
// telemetry/
// Tracing spans and Prometheus metrics for workflow runs
//
// evaluation/
// Similarity and judge based answer evaluation
//
// llms/openai/
// OpenAI and Azure OpenAI chat and embedding client
//
// config/
// File and environment configuration for the command line tool
//
// log/
// Logger interface with a golog backend
//
// # Configuration
//
// The langworkflow command reads langworkflow.yaml and environment variables:
//
//   - OPENAI_API_KEY: OpenAI API key when none is configured
//   - LANGWORKFLOW_LOG_LEVEL: Logging level (debug, info, warn, error, none)
//   - LANGWORKFLOW_MODEL_NAME: Chat model name
//   - LANGWORKFLOW_AGENT_ITERATIONS: Default max iterations for agents
//
// # License
//
// This project is licensed under the MIT License - see the LICENSE file for details.
package langworkflow // import "github.com/smallnest/langworkflow"
