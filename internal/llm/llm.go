// Package llm wraps the chat-completion backend behind a small client
// interface so services depend on messages and options, not on a vendor SDK.
package llm

import (
	"context"
	"errors"
)

// Sentinel errors for the failure categories callers react to. Everything
// else from the backend is wrapped as-is.
var (
	// ErrNotConfigured means no API key was provided; the assistant runs
	// in degraded mode and callers should answer with a canned reply.
	ErrNotConfigured = errors.New("llm: not configured")
	// ErrRateLimited means the backend rejected the request for quota.
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrUnavailable means the backend could not be reached or returned
	// a server-side error.
	ErrUnavailable = errors.New("llm: unavailable")
)

// Role values for Message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation. ImageURLs attach images to a user
// turn for vision-capable models; they are ignored on other roles.
type Message struct {
	Role      string
	Content   string
	ImageURLs []string
}

// Options tunes a single completion call.
type Options struct {
	// Vision selects the vision-capable model. Required when any message
	// carries image attachments.
	Vision bool
	// MaxTokens caps the response length. Zero means backend default.
	MaxTokens int
	// Temperature overrides the default sampling temperature when >= 0.
	// Use -1 for the backend default.
	Temperature float32
}

// Client produces a single completion for a conversation.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}
