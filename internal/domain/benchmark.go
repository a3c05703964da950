package domain

import (
	"math"
	"sort"
	"time"
)

// MeasurementMode identifies what a latency sample measured.
type MeasurementMode string

const (
	// ModeTotal measures send to full response.
	ModeTotal MeasurementMode = "total"

	// ModeFirstToken measures send to first streamed token (TTFT).
	ModeFirstToken MeasurementMode = "first_token"
)

// BenchmarkRequest is one sample sent to the endpoint.
type BenchmarkRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// BenchmarkResult records the outcome of one dispatched request. Every
// dispatched request yields exactly one result.
type BenchmarkResult struct {
	RequestIndex     int             `json:"request_index" yaml:"request-index"`
	Success          bool            `json:"success" yaml:"success"`
	LatencyMs        float64         `json:"latency_ms" yaml:"latency-ms"`
	PromptTokens     int             `json:"prompt_tokens" yaml:"prompt-tokens"`
	CompletionTokens int             `json:"completion_tokens" yaml:"completion-tokens"`
	Mode             MeasurementMode `json:"mode" yaml:"mode"`
	ErrorKind        ErrorKind       `json:"error_kind,omitempty" yaml:"error-kind,omitempty"`
}

// BenchmarkSummary aggregates a full run.
type BenchmarkSummary struct {
	TotalRequests     int               `json:"total_requests" yaml:"total-requests"`
	SuccessCount      int               `json:"success_count" yaml:"success-count"`
	FailureCount      int               `json:"failure_count" yaml:"failure-count"`
	FailuresByKind    map[ErrorKind]int `json:"failures_by_kind,omitempty" yaml:"failures-by-kind,omitempty"`
	TokensPerSecond   float64           `json:"tokens_per_second" yaml:"tokens-per-second"`
	RequestsPerSecond float64           `json:"requests_per_second" yaml:"requests-per-second"`
	LatencyP50Ms      float64           `json:"latency_p50_ms" yaml:"latency-p50-ms"`
	LatencyP95Ms      float64           `json:"latency_p95_ms" yaml:"latency-p95-ms"`
	LatencyP99Ms      float64           `json:"latency_p99_ms" yaml:"latency-p99-ms"`
	ElapsedSeconds    float64           `json:"elapsed_seconds" yaml:"elapsed-seconds"`
}

// Summarize aggregates benchmark results into a run summary. Throughput is
// completion tokens across successes divided by the wall-clock duration of
// the whole run. Percentiles are computed over successful-request latencies
// only. An empty result set yields an all-zero summary.
func Summarize(results []BenchmarkResult, elapsed time.Duration) BenchmarkSummary {
	summary := BenchmarkSummary{TotalRequests: len(results)}

	var latencies []float64
	completionTokens := 0
	for _, result := range results {
		if result.Success {
			summary.SuccessCount++
			latencies = append(latencies, result.LatencyMs)
			completionTokens += result.CompletionTokens
			continue
		}
		summary.FailureCount++
		if summary.FailuresByKind == nil {
			summary.FailuresByKind = make(map[ErrorKind]int)
		}
		summary.FailuresByKind[result.ErrorKind]++
	}

	if elapsed > 0 {
		summary.ElapsedSeconds = elapsed.Seconds()
		summary.TokensPerSecond = float64(completionTokens) / elapsed.Seconds()
		summary.RequestsPerSecond = float64(summary.SuccessCount) / elapsed.Seconds()
	}

	sort.Float64s(latencies)
	summary.LatencyP50Ms = percentile(latencies, 50)
	summary.LatencyP95Ms = percentile(latencies, 95)
	summary.LatencyP99Ms = percentile(latencies, 99)

	return summary
}

// percentile selects the p-th percentile from ascending sorted values using
// the nearest-rank method: the ceil(p/100 * n)-th value, 1-based. For ten
// samples p50 is the 5th value.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}

	return sorted[rank-1]
}
