package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llmeter/llmeter/internal/domain"
)

func TestSummarize_Percentiles(t *testing.T) {
	// Ten ascending latencies; nearest-rank p50 is the 5th value.
	results := make([]domain.BenchmarkResult, 10)
	for i := range results {
		results[i] = domain.BenchmarkResult{
			RequestIndex: i,
			Success:      true,
			LatencyMs:    float64((i + 1) * 10),
		}
	}

	summary := domain.Summarize(results, time.Second)

	require.InDelta(t, 50.0, summary.LatencyP50Ms, 1e-9)
	require.InDelta(t, 100.0, summary.LatencyP95Ms, 1e-9)
	require.InDelta(t, 100.0, summary.LatencyP99Ms, 1e-9)
}

func TestSummarize_EmptyResults(t *testing.T) {
	summary := domain.Summarize(nil, 0)

	require.Zero(t, summary.TotalRequests)
	require.Zero(t, summary.SuccessCount)
	require.Zero(t, summary.FailureCount)
	require.Zero(t, summary.TokensPerSecond)
	require.Zero(t, summary.RequestsPerSecond)
	require.Zero(t, summary.LatencyP50Ms)
}

func TestSummarize_Throughput(t *testing.T) {
	results := []domain.BenchmarkResult{
		{RequestIndex: 0, Success: true, LatencyMs: 100, CompletionTokens: 400},
		{RequestIndex: 1, Success: true, LatencyMs: 200, CompletionTokens: 600},
		{RequestIndex: 2, Success: false, ErrorKind: domain.ErrKindTimeout, CompletionTokens: 50},
	}

	summary := domain.Summarize(results, 2*time.Second)

	require.Equal(t, 3, summary.TotalRequests)
	require.Equal(t, 2, summary.SuccessCount)
	require.Equal(t, 1, summary.FailureCount)
	// Failed requests contribute no tokens.
	require.InDelta(t, 500.0, summary.TokensPerSecond, 1e-9)
	require.InDelta(t, 1.0, summary.RequestsPerSecond, 1e-9)
	require.InDelta(t, 2.0, summary.ElapsedSeconds, 1e-9)
}

func TestSummarize_FailureBreakdown(t *testing.T) {
	results := []domain.BenchmarkResult{
		{RequestIndex: 0, Success: false, ErrorKind: domain.ErrKindTimeout},
		{RequestIndex: 1, Success: false, ErrorKind: domain.ErrKindTimeout},
		{RequestIndex: 2, Success: false, ErrorKind: domain.ErrKindHTTP},
		{RequestIndex: 3, Success: false, ErrorKind: domain.ErrKindParse},
		{RequestIndex: 4, Success: true, LatencyMs: 10},
	}

	summary := domain.Summarize(results, time.Second)

	require.Equal(t, 4, summary.FailureCount)
	require.Equal(t, 2, summary.FailuresByKind[domain.ErrKindTimeout])
	require.Equal(t, 1, summary.FailuresByKind[domain.ErrKindHTTP])
	require.Equal(t, 1, summary.FailuresByKind[domain.ErrKindParse])
	require.Equal(t, summary.SuccessCount+summary.FailureCount, summary.TotalRequests)
}

func TestSummarize_SingleSample(t *testing.T) {
	results := []domain.BenchmarkResult{
		{RequestIndex: 0, Success: true, LatencyMs: 42},
	}

	summary := domain.Summarize(results, time.Second)

	require.InDelta(t, 42.0, summary.LatencyP50Ms, 1e-9)
	require.InDelta(t, 42.0, summary.LatencyP95Ms, 1e-9)
	require.InDelta(t, 42.0, summary.LatencyP99Ms, 1e-9)
}
