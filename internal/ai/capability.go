package ai

import (
	"context"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of a conversation.
type Message struct {
	Role    string `json:"role" validate:"omitempty,oneof=user assistant"`
	Content string `json:"content"`
}

// Request is what a Capability needs to produce one reply.
type Request struct {
	System          string
	History         []Message
	Prompt          string
	MaxOutputTokens int32
	Temperature     float32
}

// Capability is a generative model reachable over the network.
type Capability interface {
	// Credential returns the key the capability authenticates with.
	Credential() string
	// Generate returns the model reply. An empty string with a nil error means
	// the model answered with no text.
	Generate(ctx context.Context, req Request) (string, error)
	Provider() string
	Model() string
}

// LastMessages returns at most n trailing messages, oldest first.
// Messages without content are skipped.
func LastMessages(history []Message, n int) []Message {
	kept := make([]Message, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		kept = append(kept, msg)
	}

	if n >= 0 && len(kept) > n {
		kept = kept[len(kept)-n:]
	}

	return kept
}
