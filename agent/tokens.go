package agent

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/smallnest/langworkflow/log"
)

// Context window sizes per model name. Conversations for models not listed are not trimmed.
var ModelTokenLimits = map[string]int{
	"gpt-4":            8192,
	"gpt-4-32k":        32768,
	"gpt-35-turbo":     4096,
	"gpt-35-turbo-16k": 16385,
}

// TokenCounter counts the tokens of a text.
type TokenCounter interface {
	Count(text string) int
}

// TokenCounterFunc adapts a function to TokenCounter.
type TokenCounterFunc func(text string) int

// Count implements TokenCounter.
func (f TokenCounterFunc) Count(text string) int { return f(text) }

type tiktokenCounter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewTiktokenCounter counts cl100k_base tokens. The encoding is loaded on first use;
// if it cannot be loaded, tokens are estimated as one per four characters.
func NewTiktokenCounter() TokenCounter {
	return &tiktokenCounter{}
}

func (t *tiktokenCounter) Count(text string) int {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Warn("failed to load cl100k_base encoding, estimating tokens: %v", err)
			return
		}
		t.enc = enc
	})
	if t.enc == nil {
		return estimateTokens(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

func estimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// CountMessages counts the tokens of a conversation the way chat models bill it:
// four tokens of framing per message plus two for the reply primer.
func CountMessages(counter TokenCounter, messages []Message) int {
	n := 0
	for _, m := range messages {
		n += 4
		n += counter.Count(string(m.Role))
		n += counter.Count(m.Content)
	}
	return n + 2
}

// trim drops the oldest messages until the conversation plus the completion budget
// fits the context window.
func trim(chat *Chat, counter TokenCounter, limit, maxTokens int) int {
	dropped := 0
	if limit <= 0 {
		return dropped
	}
	for CountMessages(counter, chat.messages)+maxTokens >= limit {
		if !chat.dropOldest() {
			break
		}
		dropped++
	}
	return dropped
}
