package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FinalAnswerInstructions describes the expected final_answer value to the model.
func (p *Parser) FinalAnswerInstructions() string {
	var b strings.Builder
	b.WriteString("Final Answer Format:\n")

	switch p.outputType {
	case String:
		b.WriteString(`The value of "final_answer" must be a string.`)
	case Integer:
		b.WriteString(`The value of "final_answer" must be an integer, for example 42.`)
	case Float:
		b.WriteString(`The value of "final_answer" must be a number, for example 3.14.`)
	case Boolean:
		b.WriteString(`The value of "final_answer" must be a JSON boolean: true or false.`)
	case Date, Timestamp:
		fmt.Fprintf(&b, `The value of "final_answer" must be a string formatted exactly like %q.`, sampleTime(p.layout))
	case ArrayString:
		b.WriteString(`The value of "final_answer" must be a JSON array of strings, for example ["a", "b"].`)
	case ArrayInteger:
		b.WriteString(`The value of "final_answer" must be a JSON array of integers, for example [1, 2, 3].`)
	case ArrayFloat:
		b.WriteString(`The value of "final_answer" must be a JSON array of numbers, for example [1.5, 2.0].`)
	case Object, Struct:
		fmt.Fprintf(&b, "The value of \"final_answer\" must be a JSON object with these fields:\n%s\n\nExample:\n%s",
			marshal(p.schema.Properties()), marshal(p.schema.Example()))
	case ArrayObject, ArrayStruct:
		fmt.Fprintf(&b, "The value of \"final_answer\" must be a JSON array of objects with these fields:\n%s\n\nExample:\n%s",
			marshal(p.schema.Properties()), marshal([]any{p.schema.Example()}))
	}

	return b.String()
}

func marshal(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

const toolInstructions = `You can use the tools listed below. Reply with exactly one JSON object and nothing else.

To use a tool, reply with:
{
  "thought": "what you need and why",
  "tool": "the tool name",
  "tool_input": {"argument": "value"}
}

Each tool reply is answered with an Observation containing the tool response. Use as many tools as you need,
one at a time. When you know the answer, reply with:
{
  "thought": "how you got to the answer",
  "final_answer": "the answer"
}

Tools:

%s`

const noToolInstructions = `Reply with exactly one JSON object and nothing else:
{
  "thought": "how you got to the answer",
  "final_answer": "the answer"
}`

const singleCompletionInstructions = `Reply with exactly one JSON object and nothing else:
{
  "final_answer": "the answer"
}`

// Instructions returns the response-format part of an agent's system message.
// tools is the list of tool cards, empty when the agent has no tools. The final-answer
// instructions are appended.
func (p *Parser) Instructions(tools string) string {
	var head string
	switch {
	case p.toolUse:
		head = fmt.Sprintf(toolInstructions, tools)
	case p.strategy == SingleCompletion:
		head = singleCompletionInstructions
	default:
		head = noToolInstructions
	}
	return head + "\n\n" + p.FinalAnswerInstructions()
}
