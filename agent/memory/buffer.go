package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	contractx "oneprompt/agent/contract"
)

const (
	humanPrefix     = "Human"
	assistantPrefix = "AI"
)

type turn struct {
	user      string
	assistant string
}

var _ contractx.Memory = (*Buffer)(nil)

// Buffer is an in-process conversational buffer. Nothing is persisted: a new
// process starts with an empty history, and repeated Run calls within one
// process see the accumulated turns.
type Buffer struct {
	mu    sync.Mutex
	turns []turn
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Recall renders the buffered turns as alternating Human/AI lines.
func (b *Buffer) Recall(_ context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.turns) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for i, t := range b.turns {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(humanPrefix)
		sb.WriteString(": ")
		sb.WriteString(t.user)
		sb.WriteByte('\n')
		sb.WriteString(assistantPrefix)
		sb.WriteString(": ")
		sb.WriteString(t.assistant)
	}
	return sb.String(), nil
}

func (b *Buffer) Append(_ context.Context, userMessage, assistantMessage string) error {
	userMessage = strings.TrimSpace(userMessage)
	assistantMessage = strings.TrimSpace(assistantMessage)
	if userMessage == "" {
		return fmt.Errorf("%w: user message is empty", contractx.ErrValidation)
	}
	if assistantMessage == "" {
		return fmt.Errorf("%w: assistant message is empty", contractx.ErrValidation)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = append(b.turns, turn{user: userMessage, assistant: assistantMessage})
	return nil
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.turns)
}
