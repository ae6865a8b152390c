// Package agent implements a ReAct style agent that answers with typed values.
//
// An agent is built from a langchaingo llms.Model, a system prompt, an f-string user
// prompt and an output type:
//
//	extractor, err := agent.New(model,
//		"You extract numbers from text.",
//		"Extract every number in this text: {text}",
//		[]string{"text"},
//		parser.ArrayInteger,
//	)
//
//	out, err := extractor.Invoke(ctx, map[string]any{"text": "I ate 3 apples and 12 grapes"})
//	fmt.Println(out.FinalAnswer) // [3 12]
//
// On each round the model replies with a JSON object holding its thought and either a
// tool call or the final answer. Tool responses and parse errors are appended to the
// user message as observations and the model is asked again, until it gives a final
// answer that parses as the output type or the iterations are used up.
//
// The conversation persists across invocations. When the model has a known context
// window (WithModelName) the oldest messages are dropped before each call so the
// conversation and the completion budget fit; the system message and the current
// prompt are always kept.
package agent
