// Package llm provides the completion engine client.
package llm

import (
	"context"
	"io"
)

// Message represents a chat message for the completion engine.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Client is the interface the agent loop depends on.
type Client interface {
	// Complete sends the message sequence and returns the materialized
	// reply text. This is the mode the tool-augmented loop requires: the
	// caller must inspect the text for directives before deciding whether
	// to continue.
	Complete(ctx context.Context, messages []Message) (string, error)

	// Stream sends the message sequence and returns the engine's raw
	// response body untouched (pass-through mode). The caller owns the
	// ReadCloser.
	Stream(ctx context.Context, messages []Message) (io.ReadCloser, error)
}
