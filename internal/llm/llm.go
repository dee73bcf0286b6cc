package llm

import (
	"context"
	"errors"
)

// Request is a single prompt sent to a completion provider.
type Request struct {
	// Operation names the caller (e.g. "analyze_improve") for logs and metrics.
	Operation   string
	Prompt      string
	Temperature float32
	// JSON asks the provider for a JSON object response when it supports one.
	JSON      bool
	MaxTokens int
}

// Client returns the raw text of a model completion.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNotConfigured is returned when no provider credentials are set.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
