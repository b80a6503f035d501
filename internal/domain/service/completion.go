package service

import "context"

// ChatMessage is one entry of the prompt sequence sent to the
// Completion Service.
type ChatMessage struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// CompletionRequest carries the assembled prompt sequence and the
// numeric parameters resolved from guild settings.
type CompletionRequest struct {
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32
}

// CompletionClient is the Completion Service boundary.
// Implementations return either the primary text output or a
// *CompletionError; no other error type crosses this interface.
type CompletionClient interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}
