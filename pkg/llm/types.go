// Package llm holds the chat-completion and web-search providers the
// assistant orchestrator dispatches to.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNoCredential means the provider was constructed without an API key.
	ErrNoCredential = errors.New("provider has no credential")
	// ErrEmptyCompletion means the provider answered without usable text.
	ErrEmptyCompletion = errors.New("provider returned empty completion")
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatProvider produces a completion for a prompt with optional history.
type ChatProvider interface {
	Name() string
	Available() bool
	Complete(ctx context.Context, system string, history []Message, prompt string) (string, error)
}

// SearchResult is one hit from a web search.
type SearchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SearchProvider runs a web search for supporting context.
type SearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
