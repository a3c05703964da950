package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/llmeter/llmeter/internal/domain"
)

// BenchReport is the benchmark result rendered by the bench CLI.
type BenchReport struct {
	Endpoint string                   `json:"endpoint" yaml:"endpoint"`
	Model    string                   `json:"model" yaml:"model"`
	Stream   bool                     `json:"stream" yaml:"stream"`
	Summary  domain.BenchmarkSummary  `json:"summary" yaml:"summary"`
	Results  []domain.BenchmarkResult `json:"results,omitempty" yaml:"results,omitempty"`
}

// Text renders the report as a plain-text table.
func (r BenchReport) Text() string {
	var b strings.Builder

	rule := strings.Repeat("=", ruleWidth)

	mode := "total completion time"
	if r.Stream {
		mode = "time to first token"
	}

	fmt.Fprintf(&b, "%s\n  BENCHMARK RESULTS\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Endpoint: %s\n", r.Endpoint)
	fmt.Fprintf(&b, "Model: %s\n", r.Model)
	fmt.Fprintf(&b, "Latency mode: %s\n\n", mode)

	s := r.Summary
	fmt.Fprintf(&b, "Requests:\n")
	fmt.Fprintf(&b, "  Total: %d\n", s.TotalRequests)
	fmt.Fprintf(&b, "  Successful: %d\n", s.SuccessCount)
	fmt.Fprintf(&b, "  Failed: %d\n", s.FailureCount)
	if len(s.FailuresByKind) > 0 {
		kinds := make([]string, 0, len(s.FailuresByKind))
		for kind := range s.FailuresByKind {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(&b, "    %s: %d\n", kind, s.FailuresByKind[domain.ErrorKind(kind)])
		}
	}

	if s.SuccessCount > 0 {
		fmt.Fprintf(&b, "\nLatency (ms):\n")
		fmt.Fprintf(&b, "  P50: %.1f\n", s.LatencyP50Ms)
		fmt.Fprintf(&b, "  P95: %.1f\n", s.LatencyP95Ms)
		fmt.Fprintf(&b, "  P99: %.1f\n", s.LatencyP99Ms)

		fmt.Fprintf(&b, "\nThroughput:\n")
		fmt.Fprintf(&b, "  %.1f tokens/s\n", s.TokensPerSecond)
		fmt.Fprintf(&b, "  %.2f requests/s\n", s.RequestsPerSecond)
	}

	fmt.Fprintf(&b, "\nElapsed: %.2fs\n", s.ElapsedSeconds)

	return b.String()
}
