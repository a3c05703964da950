package openai_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llmeter/llmeter/internal/domain"
	"github.com/llmeter/llmeter/internal/observability"
	"github.com/llmeter/llmeter/internal/provider/openai"
)

func TestMain(m *testing.M) {
	observability.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

func TestNewClient_Success(t *testing.T) {
	config := openai.Config{
		APIKey:  "test-api-key",
		BaseURL: "http://localhost:8000/v1",
		Timeout: 60,
	}

	client, err := openai.NewClient(config)

	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewClient_MissingBaseURL(t *testing.T) {
	config := openai.Config{
		APIKey: "test-api-key",
	}

	client, err := openai.NewClient(config)

	require.Error(t, err)
	require.Nil(t, client)

	var invalidErr *domain.InvalidInputError
	require.ErrorAs(t, err, &invalidErr)
}

func TestComplete_NilRequest(t *testing.T) {
	client, err := openai.NewClient(openai.Config{BaseURL: "http://localhost:8000/v1"})
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), nil)

	require.Error(t, err)
	require.Nil(t, resp)
	require.Contains(t, err.Error(), "request cannot be nil")
}

func TestStream_NilRequest(t *testing.T) {
	client, err := openai.NewClient(openai.Config{BaseURL: "http://localhost:8000/v1"})
	require.NoError(t, err)

	chunks, err := client.Stream(context.Background(), nil)

	require.Error(t, err)
	require.Nil(t, chunks)
	require.Contains(t, err.Error(), "request cannot be nil")
}

const completionBody = `{
	"id": "chatcmpl-test",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "qwen3-32b",
	"choices": [
		{
			"index": 0,
			"message": {"role": "assistant", "content": "Hello there!"},
			"finish_reason": "stop"
		}
	],
	"usage": {"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12}
}`

func TestComplete_Success(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer server.Close()

	client, err := openai.NewClient(openai.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	req := &domain.CompletionRequest{
		Model: "qwen3-32b",
		Messages: []domain.Message{
			{Role: "user", Content: "Hello"},
		},
		MaxTokens:   64,
		Temperature: 0.7,
	}

	resp, err := client.Complete(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, "/chat/completions", gotPath)
	require.Equal(t, "chatcmpl-test", resp.ID)
	require.Equal(t, "qwen3-32b", resp.Model)
	require.Equal(t, "Hello there!", resp.Content)
	require.Equal(t, 5, resp.Usage.PromptTokens)
	require.Equal(t, 7, resp.Usage.CompletionTokens)
	require.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestComplete_HTTPErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
	}))
	defer server.Close()

	client, err := openai.NewClient(openai.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	req := &domain.CompletionRequest{
		Model:    "qwen3-32b",
		Messages: []domain.Message{{Role: "user", Content: "Hello"}},
	}

	resp, err := client.Complete(context.Background(), req)

	require.Error(t, err)
	require.Nil(t, resp)

	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, domain.ErrKindHTTP, reqErr.Kind)
	require.False(t, reqErr.Connection)
	require.False(t, domain.IsConnectionError(err))
	require.Equal(t, domain.ErrKindHTTP, domain.ClassifyError(err))
}

func TestComplete_ConnectionRefused(t *testing.T) {
	// A server that is immediately closed leaves a port nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client, err := openai.NewClient(openai.Config{
		APIKey:  "test-key",
		BaseURL: endpoint,
	})
	require.NoError(t, err)

	req := &domain.CompletionRequest{
		Model:    "qwen3-32b",
		Messages: []domain.Message{{Role: "user", Content: "Hello"}},
	}

	_, err = client.Complete(context.Background(), req)

	require.Error(t, err)
	require.True(t, domain.IsConnectionError(err))
}

func TestComplete_DeadlineClassifiedAsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer server.Close()

	client, err := openai.NewClient(openai.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := &domain.CompletionRequest{
		Model:    "qwen3-32b",
		Messages: []domain.Message{{Role: "user", Content: "Hello"}},
	}

	_, err = client.Complete(ctx, req)

	require.Error(t, err)
	require.Equal(t, domain.ErrKindTimeout, domain.ClassifyError(err))
	require.False(t, domain.IsConnectionError(err))
}

func TestStream_Success(t *testing.T) {
	body := "data: {\"id\":\"chatcmpl-test\",\"object\":\"chat.completion.chunk\",\"model\":\"qwen3-32b\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"Hello\"}}]}\n\n" +
		"data: {\"id\":\"chatcmpl-test\",\"object\":\"chat.completion.chunk\",\"model\":\"qwen3-32b\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\" there\"}}]}\n\n" +
		"data: {\"id\":\"chatcmpl-test\",\"object\":\"chat.completion.chunk\",\"model\":\"qwen3-32b\",\"choices\":[],\"usage\":{\"prompt_tokens\":5,\"completion_tokens\":2,\"total_tokens\":7}}\n\n" +
		"data: [DONE]\n\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client, err := openai.NewClient(openai.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	req := &domain.CompletionRequest{
		Model:    "qwen3-32b",
		Messages: []domain.Message{{Role: "user", Content: "Hello"}},
		Stream:   true,
	}

	chunks, err := client.Stream(context.Background(), req)
	require.NoError(t, err)

	var content string
	var usage *domain.Usage
	var doneReceived bool

	for chunk := range chunks {
		if chunk.Done {
			doneReceived = true
			require.NoError(t, chunk.Error)
			usage = chunk.Usage
			continue
		}
		content += chunk.Delta
	}

	require.True(t, doneReceived)
	require.Equal(t, "Hello there", content)
	require.NotNil(t, usage)
	require.Equal(t, 2, usage.CompletionTokens)
	require.Equal(t, 7, usage.TotalTokens)
}
