package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RunIDKey holds the unique identifier for one benchmark or
	// projection run.
	RunIDKey contextKey = "run_id"

	// RequestIndexKey holds the index of the benchmark request being
	// dispatched.
	RequestIndexKey contextKey = "request_index"

	// ModelKey holds the model name for this run.
	ModelKey contextKey = "model"
)

// WithRunID injects a run ID into context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithRequestIndex injects the benchmark request index into context.
func WithRequestIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, RequestIndexKey, index)
}

// WithModel injects the model name into context.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ModelKey, model)
}

// GetRunID extracts the run ID from context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// GetRequestIndex extracts the benchmark request index from context.
func GetRequestIndex(ctx context.Context) (int, bool) {
	index, ok := ctx.Value(RequestIndexKey).(int)
	return index, ok
}

// GetModel extracts the model name from context.
func GetModel(ctx context.Context) string {
	if model, ok := ctx.Value(ModelKey).(string); ok {
		return model
	}
	return ""
}

// GenerateRunID generates a unique run identifier (UUID).
func GenerateRunID() string {
	return uuid.New().String()
}
