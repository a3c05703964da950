// Package fake provides an in-memory completion client with scripted
// behavior. It implements the domain.CompletionClient interface without
// making external API calls, providing deterministic responses for testing
// and dry runs.
package fake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/llmeter/llmeter/internal/domain"
)

// Options script the client's behavior.
type Options struct {
	// Latency is the simulated time each request takes.
	Latency time.Duration

	// FailEvery makes every Nth call fail (1-based). Zero disables
	// scripted failures.
	FailEvery int

	// FailKind is the error taxonomy used for scripted failures.
	FailKind domain.ErrorKind

	// Unreachable makes every call fail as a connection-level error,
	// simulating a misconfigured endpoint.
	Unreachable bool
}

// Client implements domain.CompletionClient entirely in memory, echoing
// request content back with word-based token counts.
type Client struct {
	opts Options

	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
}

// NewClient creates a new fake client.
func NewClient(opts Options) *Client {
	if opts.FailKind == "" {
		opts.FailKind = domain.ErrKindHTTP
	}
	return &Client{opts: opts}
}

// Calls returns how many requests the client has received.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// MaxInFlight returns the highest number of concurrently active requests
// observed so far.
func (c *Client) MaxInFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxInFlight
}

// Complete sends a completion request and returns the echoed response.
func (c *Client) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	call := c.begin()
	defer c.end()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	if err := c.scriptedFailure(call); err != nil {
		return nil, err
	}

	content := buildEchoContent(req.Messages)
	tokens := countTokens(content)

	return &domain.CompletionResponse{
		ID:      fmt.Sprintf("fake-%d", call),
		Model:   req.Model,
		Content: content,
		Usage: domain.Usage{
			PromptTokens:     tokens,
			CompletionTokens: tokens,
			TotalTokens:      tokens * 2,
		},
	}, nil
}

// Stream sends a completion request and returns a stream of echo chunks,
// with usage delivered on the final chunk.
func (c *Client) Stream(ctx context.Context, req *domain.CompletionRequest) (<-chan domain.StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	call := c.begin()

	chunks := make(chan domain.StreamChunk)

	go func() {
		defer close(chunks)
		defer c.end()

		if err := c.wait(ctx); err != nil {
			chunks <- domain.StreamChunk{Done: true, Error: err}
			return
		}

		if err := c.scriptedFailure(call); err != nil {
			chunks <- domain.StreamChunk{Done: true, Error: err}
			return
		}

		content := buildEchoContent(req.Messages)
		words := strings.Fields(content)
		for i, word := range words {
			delta := word
			if i < len(words)-1 {
				delta += " "
			}
			chunks <- domain.StreamChunk{Delta: delta}
		}

		tokens := countTokens(content)
		chunks <- domain.StreamChunk{
			Done: true,
			Usage: &domain.Usage{
				PromptTokens:     tokens,
				CompletionTokens: tokens,
				TotalTokens:      tokens * 2,
			},
		}
	}()

	return chunks, nil
}

// begin registers a new call and returns its 1-based sequence number.
func (c *Client) begin() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	return c.calls
}

func (c *Client) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
}

// wait simulates request latency while honoring the request context.
func (c *Client) wait(ctx context.Context) error {
	if c.opts.Latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.opts.Latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) scriptedFailure(call int) error {
	if c.opts.Unreachable {
		return &domain.RequestError{
			Kind:       domain.ErrKindHTTP,
			Connection: true,
			Err:        errors.New("connection refused"),
		}
	}

	if c.opts.FailEvery > 0 && call%c.opts.FailEvery == 0 {
		return &domain.RequestError{
			Kind: c.opts.FailKind,
			Err:  fmt.Errorf("scripted failure on call %d", call),
		}
	}

	return nil
}

// buildEchoContent constructs the echo response from request messages.
func buildEchoContent(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, msg := range messages {
		builder.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Content))
	}
	return builder.String()
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(content))
}
