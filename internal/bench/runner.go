// Package bench runs throughput benchmarks against a chat-completion
// endpoint through a bounded worker pool and aggregates the results.
package bench

import (
	"context"
	"sync"
	"time"

	"github.com/llmeter/llmeter/internal/domain"
	"github.com/llmeter/llmeter/internal/observability"
)

const defaultRequestTimeout = 60 * time.Second

// Config controls a benchmark run.
type Config struct {
	// Samples is the number of requests to dispatch.
	Samples int

	// Concurrency is the maximum number of in-flight requests.
	Concurrency int

	// Stream switches latency measurement from full-response time to
	// time-to-first-token.
	Stream bool

	// Model is the model name sent with every request.
	Model string

	// RequestTimeout bounds each individual request. Defaults to 60s.
	RequestTimeout time.Duration

	// RunTimeout bounds the whole run. Zero means no global deadline.
	RunTimeout time.Duration

	// OnResult, when set, is invoked after every dispatched request
	// resolves. Used for progress reporting. Must be safe for concurrent
	// use.
	OnResult func(domain.BenchmarkResult)
}

// Runner dispatches benchmark requests through a bounded worker pool. No
// state is shared across workers except one result slot per request index,
// written exactly once.
type Runner struct {
	client domain.CompletionClient
	events domain.EventPublisher
	cfg    Config
}

// NewRunner creates a benchmark runner (DI constructor).
func NewRunner(client domain.CompletionClient, events domain.EventPublisher, cfg Config) (*Runner, error) {
	if client == nil {
		return nil, &domain.InvalidInputError{Field: "client", Reason: "cannot be nil"}
	}
	if cfg.Samples < 0 {
		return nil, &domain.InvalidInputError{Field: "samples", Reason: "cannot be negative"}
	}
	if cfg.Concurrency < 1 {
		return nil, &domain.InvalidInputError{Field: "concurrency", Reason: "must be positive"}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return &Runner{
		client: client,
		events: events,
		cfg:    cfg,
	}, nil
}

// Run dispatches the configured number of requests and aggregates a summary.
// The first request doubles as a connectivity probe: a connection-level
// failure there aborts the run with a ConnectivityError. Later failures are
// recorded per request and never abort the batch. On cancellation no new
// requests are dispatched, in-flight requests finish under their own
// timeout, and the summary covers whatever was dispatched.
func (r *Runner) Run(ctx context.Context, factory domain.RequestFactory) (domain.BenchmarkSummary, []domain.BenchmarkResult, error) {
	if factory == nil {
		return domain.BenchmarkSummary{}, nil, &domain.InvalidInputError{Field: "request factory", Reason: "cannot be nil"}
	}

	if r.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.RunTimeout)
		defer cancel()
	}

	ctx = observability.WithRunID(ctx, observability.GenerateRunID())
	logger := observability.FromContext(ctx)
	logger.Info("benchmark run starting",
		observability.Int("samples", r.cfg.Samples),
		observability.Int("concurrency", r.cfg.Concurrency),
		observability.Bool("stream", r.cfg.Stream),
	)

	if r.cfg.Samples == 0 {
		return domain.Summarize(nil, 0), nil, nil
	}

	requests := make([]domain.BenchmarkRequest, r.cfg.Samples)
	for i := range requests {
		requests[i] = factory()
	}

	results := make([]domain.BenchmarkResult, r.cfg.Samples)
	dispatched := make([]bool, r.cfg.Samples)
	start := time.Now()

	// Connectivity probe: request 0 runs alone before the pool starts.
	probe, probeErr := r.dispatch(ctx, 0, requests[0])
	if probeErr != nil && domain.IsConnectionError(probeErr) {
		logger.Error("endpoint unreachable on first request", observability.Error(probeErr))
		return domain.BenchmarkSummary{}, nil, &domain.ConnectivityError{Err: probeErr}
	}
	results[0] = probe
	dispatched[0] = true
	r.report(ctx, probe)

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				result, _ := r.dispatch(ctx, i, requests[i])
				results[i] = result
				dispatched[i] = true
				r.report(ctx, result)
			}
		}()
	}

feed:
	for i := 1; i < r.cfg.Samples; i++ {
		select {
		case indices <- i:
		case <-ctx.Done():
			logger.Warn("run cancelled, no new requests will be dispatched",
				observability.Int("dispatched", i))
			break feed
		}
	}
	close(indices)
	wg.Wait()

	elapsed := time.Since(start)

	completed := make([]domain.BenchmarkResult, 0, r.cfg.Samples)
	for i, result := range results {
		if dispatched[i] {
			completed = append(completed, result)
		}
	}

	summary := domain.Summarize(completed, elapsed)
	logger.Info("benchmark run finished",
		observability.Int("success", summary.SuccessCount),
		observability.Int("failure", summary.FailureCount),
		observability.Duration("elapsed", elapsed),
	)

	return summary, completed, nil
}

// dispatch sends one request and records its outcome. The request context is
// detached from run cancellation so an in-flight request is awaited under
// its own timeout rather than aborted.
func (r *Runner) dispatch(ctx context.Context, index int, req domain.BenchmarkRequest) (domain.BenchmarkResult, error) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.RequestTimeout)
	defer cancel()
	reqCtx = observability.WithRequestIndex(reqCtx, index)

	completion := &domain.CompletionRequest{
		Model:       r.cfg.Model,
		Messages:    []domain.Message{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      r.cfg.Stream,
	}

	result := domain.BenchmarkResult{
		RequestIndex: index,
		Mode:         domain.ModeTotal,
	}
	if r.cfg.Stream {
		result.Mode = domain.ModeFirstToken
	}

	start := time.Now()

	var usage domain.Usage
	var err error
	if r.cfg.Stream {
		usage, result.LatencyMs, err = r.streamOnce(reqCtx, completion, start)
	} else {
		var resp *domain.CompletionResponse
		resp, err = r.client.Complete(reqCtx, completion)
		result.LatencyMs = millis(time.Since(start))
		if err == nil {
			usage = resp.Usage
		}
	}

	if err != nil {
		result.ErrorKind = domain.ClassifyError(err)
		return result, err
	}

	result.Success = true
	result.PromptTokens = usage.PromptTokens
	result.CompletionTokens = usage.CompletionTokens
	return result, nil
}

// streamOnce consumes a full stream, measuring time to first token. The
// stream is always drained so usage on the final chunk is captured.
func (r *Runner) streamOnce(ctx context.Context, req *domain.CompletionRequest, start time.Time) (domain.Usage, float64, error) {
	chunks, err := r.client.Stream(ctx, req)
	if err != nil {
		return domain.Usage{}, millis(time.Since(start)), err
	}

	var usage domain.Usage
	var ttft float64
	firstSeen := false
	var streamErr error

	for chunk := range chunks {
		if chunk.Error != nil && streamErr == nil {
			streamErr = chunk.Error
		}
		if !firstSeen && chunk.Delta != "" {
			ttft = millis(time.Since(start))
			firstSeen = true
		}
		if chunk.Usage != nil {
			usage = *chunk.Usage
		}
	}

	if !firstSeen {
		ttft = millis(time.Since(start))
	}

	return usage, ttft, streamErr
}

// report publishes the per-request lifecycle event and invokes the progress
// hook.
func (r *Runner) report(ctx context.Context, result domain.BenchmarkResult) {
	if r.events != nil {
		r.events.Publish(ctx, "benchmark.request_completed", map[string]interface{}{
			"request_index": result.RequestIndex,
			"success":       result.Success,
			"latency_ms":    result.LatencyMs,
			"error_kind":    string(result.ErrorKind),
		})
	}
	if r.cfg.OnResult != nil {
		r.cfg.OnResult(result)
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
