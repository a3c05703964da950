package domain

import "context"

// CompletionClient is the narrow capability the benchmarker needs from an
// inference endpoint: send a chat completion request, receive text and token
// usage. Production runs use the OpenAI-compatible HTTP client; tests supply
// an in-memory implementation.
type CompletionClient interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Stream sends a completion request and returns a stream of chunks.
	// The channel is closed after the final chunk.
	Stream(ctx context.Context, req *CompletionRequest) (<-chan StreamChunk, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// RateRegistry maintains hourly rates for known GPU types.
type RateRegistry interface {
	// GetRate returns the hourly USD rate for a single GPU of the given type.
	GetRate(ctx context.Context, gpuType string) (float64, error)

	// RegisterRate adds or overwrites the rate for a GPU type.
	RegisterRate(ctx context.Context, gpuType string, hourlyRate float64) error
}
