// Package openai provides a chat-completion client for OpenAI-compatible
// inference endpoints using the official SDK. It implements the
// domain.CompletionClient interface and classifies request failures into the
// benchmark error taxonomy so callers never inspect transport internals.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/llmeter/llmeter/internal/domain"
	"github.com/llmeter/llmeter/internal/observability"
)

// Client implements domain.CompletionClient against an OpenAI-compatible
// endpoint.
type Client struct {
	client  openai.Client
	baseURL string
}

// NewClient creates a new endpoint client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, &domain.InvalidInputError{Field: "endpoint", Reason: "cannot be empty"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.BaseURL),
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	opts = append(opts, option.WithMaxRetries(config.MaxRetries))

	return &Client{
		client:  openai.NewClient(opts...),
		baseURL: config.BaseURL,
	}, nil
}

// Complete sends a completion request and returns the full response.
func (c *Client) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling completion endpoint")

	params := toSDKParams(req)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Debug("completion call failed", observability.Error(err))
		return nil, classify(err)
	}

	logger.Debug("completion call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return toDomainResponse(resp), nil
}

// Stream sends a completion request and returns a stream of chunks. Usage is
// requested from the endpoint and delivered on the final chunk.
func (c *Client) Stream(ctx context.Context, req *domain.CompletionRequest) (<-chan domain.StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling streaming completion endpoint")

	params := toSDKParams(req)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)

	chunks := make(chan domain.StreamChunk)

	go func() {
		defer close(chunks)
		defer logger.Debug("stream completed")

		var usage *domain.Usage

		for stream.Next() {
			chunk := stream.Current()

			if chunk.Usage.TotalTokens > 0 {
				usage = &domain.Usage{
					PromptTokens:     int(chunk.Usage.PromptTokens),
					CompletionTokens: int(chunk.Usage.CompletionTokens),
					TotalTokens:      int(chunk.Usage.TotalTokens),
				}
			}

			if len(chunk.Choices) == 0 {
				continue
			}

			delta := chunk.Choices[0].Delta.Content
			if delta != "" {
				select {
				case chunks <- domain.StreamChunk{Delta: delta}:
				case <-ctx.Done():
					chunks <- domain.StreamChunk{Done: true, Error: classify(ctx.Err())}
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			chunks <- domain.StreamChunk{Done: true, Error: classify(err)}
			return
		}

		chunks <- domain.StreamChunk{Done: true, Usage: usage}
	}()

	return chunks, nil
}

// toSDKParams converts a domain request to SDK ChatCompletionNewParams.
func toSDKParams(req *domain.CompletionRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case "user":
			messages[i] = openai.UserMessage(msg.Content)
		case "assistant":
			messages[i] = openai.AssistantMessage(msg.Content)
		case "system":
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			// Fallback to user message if role is unknown
			messages[i] = openai.UserMessage(msg.Content)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}

	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	return params
}

// toDomainResponse converts an SDK response to a domain response.
func toDomainResponse(resp *openai.ChatCompletion) *domain.CompletionResponse {
	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return &domain.CompletionResponse{
		ID:      resp.ID,
		Model:   string(resp.Model),
		Content: content,
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
}

// classify wraps an SDK error into a domain.RequestError carrying the
// benchmark error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.RequestError{Kind: domain.ErrKindTimeout, Err: err}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &domain.RequestError{
			Kind: domain.ErrKindHTTP,
			Err:  fmt.Errorf("endpoint returned status %d: %w", apiErr.StatusCode, err),
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &domain.RequestError{Kind: domain.ErrKindParse, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &domain.RequestError{Kind: domain.ErrKindTimeout, Err: err}
		}
		return &domain.RequestError{Kind: domain.ErrKindHTTP, Connection: true, Err: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &domain.RequestError{Kind: domain.ErrKindHTTP, Connection: true, Err: err}
	}

	return &domain.RequestError{Kind: domain.ErrKindHTTP, Err: err}
}
