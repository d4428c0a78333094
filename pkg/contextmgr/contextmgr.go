// Package contextmgr manages conversation context and token counting for the
// tool-calling loop.
package contextmgr

import (
	"github.com/tiktoken-go/tokenizer"
)

// Message represents a single message in the conversation context.
type Message struct {
	Role    string
	Content string
}

// ContextManager accumulates the conversation threaded through repeated LLM
// calls and reports its token footprint.
type ContextManager struct {
	messages []Message
	codec    tokenizer.Codec
}

// NewContextManager creates an empty context manager.
func NewContextManager() *ContextManager {
	// Claude and GPT tokenize similarly enough for budget accounting;
	// GPT-4 encoding approximates both.
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		codec = nil // fall back to character-based estimation
	}
	return &ContextManager{
		messages: make([]Message, 0),
		codec:    codec,
	}
}

// AddMessage stores a role/content pair in the context.
func (cm *ContextManager) AddMessage(role, content string) {
	cm.messages = append(cm.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the conversation so far.
func (cm *ContextManager) Messages() []Message {
	out := make([]Message, len(cm.messages))
	copy(out, cm.messages)
	return out
}

// Len returns the number of messages in the context.
func (cm *ContextManager) Len() int {
	return len(cm.messages)
}

// CountTokens returns the token footprint of the conversation.
func (cm *ContextManager) CountTokens() int {
	total := 0
	for i := range cm.messages {
		total += cm.countText(cm.messages[i].Content)
	}
	return total
}

func (cm *ContextManager) countText(text string) int {
	if cm.codec != nil {
		if count, err := cm.codec.Count(text); err == nil {
			return count
		}
	}
	// 4 chars ≈ 1 token
	return len(text) / 4
}

// CompactIfNeeded drops the oldest non-system messages when the conversation
// exceeds the token threshold, keeping the most recent half. The first
// message (system instruction) is always preserved.
func (cm *ContextManager) CompactIfNeeded(threshold int) {
	if threshold <= 0 || cm.CountTokens() <= threshold || len(cm.messages) <= 2 {
		return
	}
	head := cm.messages[:1]
	tail := cm.messages[1:]
	keep := len(tail) / 2
	if keep < 1 {
		keep = 1
	}
	compacted := make([]Message, 0, 1+keep)
	compacted = append(compacted, head...)
	compacted = append(compacted, tail[len(tail)-keep:]...)
	cm.messages = compacted
}
