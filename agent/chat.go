package agent

import (
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    llms.ChatMessageType
	Content string
}

// Chat is the conversation history of an agent. The first message is always the system
// message. It persists across invocations until Reset.
type Chat struct {
	messages []Message
	// scratchpad of the current invocation
	steps []string
}

// NewChat starts a conversation with the given system message.
func NewChat(system string) *Chat {
	return &Chat{
		messages: []Message{{Role: llms.ChatMessageTypeSystem, Content: system}},
	}
}

// Messages returns a copy of the history.
func (c *Chat) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Steps returns the scratchpad lines of the current invocation.
func (c *Chat) Steps() []string {
	out := make([]string, len(c.steps))
	copy(out, c.steps)
	return out
}

// Len returns the number of messages.
func (c *Chat) Len() int { return len(c.messages) }

// Add appends a message.
func (c *Chat) Add(role llms.ChatMessageType, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// Step appends a scratchpad line.
func (c *Chat) Step(line string) {
	c.steps = append(c.steps, line)
}

// Update rewrites the last message as the prompt followed by the scratchpad, so the
// model sees its previous thoughts and observations on the next completion.
func (c *Chat) Update(prompt string) {
	if len(c.messages) < 2 {
		return
	}
	content := prompt
	if len(c.steps) > 0 {
		content += "\n\n" + strings.Join(c.steps, "\n")
	}
	c.messages[len(c.messages)-1].Content = content
}

// Reset drops everything but the system message.
func (c *Chat) Reset() {
	c.messages = c.messages[:1]
	c.steps = nil
}

func (c *Chat) begin() {
	c.steps = nil
}

// dropOldest removes the oldest message after the system message. The system message
// and the current prompt are never removed.
func (c *Chat) dropOldest() bool {
	if len(c.messages) <= 2 {
		return false
	}
	c.messages = append(c.messages[:1], c.messages[2:]...)
	return true
}

// content converts the history for llms.Model.GenerateContent.
func (c *Chat) content() []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(c.messages))
	for _, m := range c.messages {
		out = append(out, llms.TextParts(m.Role, m.Content))
	}
	return out
}
