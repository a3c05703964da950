// llmeter-bench measures throughput and latency of a running
// chat-completion endpoint by dispatching requests through a bounded worker
// pool. Partial request failures are summarized, not fatal; the run only
// fails outright when the endpoint is unreachable on the first request.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/llmeter/llmeter/internal/bench"
	"github.com/llmeter/llmeter/internal/config"
	"github.com/llmeter/llmeter/internal/domain"
	"github.com/llmeter/llmeter/internal/observability"
	"github.com/llmeter/llmeter/internal/output"
	"github.com/llmeter/llmeter/internal/provider/openai"
)

const (
	exitInvalidInput = 1
	exitConnectivity = 2
)

type flags struct {
	endpoint    string
	apiKey      string
	model       string
	samples     int
	concurrency int
	stream      bool
	prompt      string
	randomWords int
	maxTokens   int
	temperature float64
	timeout     int
	runTimeout  int
	format      string
}

func main() {
	f := parseFlags()

	format, err := output.ParseFormat(f.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llmeter-bench: %v\n", err)
		os.Exit(exitInvalidInput)
	}

	report, err := execute(f, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llmeter-bench: %v\n", err)

		var connErr *domain.ConnectivityError
		if errors.As(err, &connErr) {
			os.Exit(exitConnectivity)
		}
		os.Exit(exitInvalidInput)
	}

	rendered, err := output.Render(report, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llmeter-bench: %v\n", err)
		os.Exit(exitInvalidInput)
	}
	fmt.Println(rendered)
}

func parseFlags() flags {
	cfg := config.Load()

	var f flags
	pflag.StringVar(&f.endpoint, "endpoint", cfg.Endpoint.BaseURL, "base URL of the inference endpoint")
	pflag.StringVar(&f.apiKey, "api-key", cfg.Endpoint.APIKey, "bearer token for the endpoint")
	pflag.StringVar(&f.model, "model", cfg.Endpoint.Model, "model name sent with every request")
	pflag.IntVar(&f.samples, "samples", cfg.Bench.Samples, "number of requests to send")
	pflag.IntVar(&f.concurrency, "concurrency", cfg.Bench.Concurrency, "maximum number of in-flight requests")
	pflag.BoolVar(&f.stream, "stream", false, "measure time to first token over a streaming request")
	pflag.StringVar(&f.prompt, "prompt", "", "fixed prompt for every request (default: rotating prompt pool)")
	pflag.IntVar(&f.randomWords, "random-words", 0, "generate random prompts of this many words")
	pflag.IntVar(&f.maxTokens, "max-tokens", cfg.Bench.MaxTokens, "maximum tokens to generate per request")
	pflag.Float64Var(&f.temperature, "temperature", cfg.Bench.Temperature, "sampling temperature")
	pflag.IntVar(&f.timeout, "timeout", cfg.Endpoint.Timeout, "per-request timeout in seconds")
	pflag.IntVar(&f.runTimeout, "run-timeout", cfg.Bench.RunTimeout, "global run timeout in seconds")
	pflag.StringVar(&f.format, "format", "text", "output format (text, json, yaml)")
	pflag.Parse()

	return f
}

func execute(f flags, format output.Format) (output.BenchReport, error) {
	if f.endpoint == "" {
		return output.BenchReport{}, &domain.InvalidInputError{
			Field: "endpoint", Reason: "set --endpoint or LLMETER_ENDPOINT",
		}
	}
	if f.samples < 0 {
		return output.BenchReport{}, &domain.InvalidInputError{
			Field: "samples", Reason: "cannot be negative",
		}
	}
	if f.temperature < 0 || f.temperature > 2 {
		return output.BenchReport{}, &domain.InvalidInputError{
			Field: "temperature", Reason: "must be between 0 and 2",
		}
	}

	var bar *progressbar.ProgressBar
	if format == output.FormatText && f.samples > 0 {
		bar = progressbar.NewOptions(f.samples,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("requests"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	container, err := buildContainer(f, bar)
	if err != nil {
		return output.BenchReport{}, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var report output.BenchReport
	err = container.Invoke(func(runner *bench.Runner) error {
		summary, results, runErr := runner.Run(ctx, requestFactory(f))
		if runErr != nil {
			return runErr
		}

		report = output.BenchReport{
			Endpoint: f.endpoint,
			Model:    f.model,
			Stream:   f.stream,
			Summary:  summary,
			Results:  results,
		}
		return nil
	})
	if err != nil {
		return output.BenchReport{}, err
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	return report, nil
}

func buildContainer(f flags, bar *progressbar.ProgressBar) (*dig.Container, error) {
	container := dig.New()

	providers := []interface{}{
		observability.InitLogger,
		func(logger *zap.Logger) domain.EventPublisher {
			return observability.NewEventBus(logger)
		},
		func() (domain.CompletionClient, error) {
			return openai.NewClient(openai.Config{
				APIKey:  f.apiKey,
				BaseURL: f.endpoint,
				Timeout: f.timeout,
			})
		},
		func(client domain.CompletionClient, events domain.EventPublisher) (*bench.Runner, error) {
			return bench.NewRunner(client, events, bench.Config{
				Samples:        f.samples,
				Concurrency:    f.concurrency,
				Stream:         f.stream,
				Model:          f.model,
				RequestTimeout: time.Duration(f.timeout) * time.Second,
				RunTimeout:     time.Duration(f.runTimeout) * time.Second,
				OnResult: func(domain.BenchmarkResult) {
					if bar != nil {
						_ = bar.Add(1)
					}
				},
			})
		},
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("failed to build container: %w", err)
		}
	}

	return container, nil
}

func requestFactory(f flags) domain.RequestFactory {
	switch {
	case f.randomWords > 0:
		return domain.RandomPrompt(f.randomWords, f.maxTokens, f.temperature)
	case f.prompt != "":
		return domain.FixedPrompt(f.prompt, f.maxTokens, f.temperature)
	default:
		return domain.PromptPool(domain.DefaultPrompts(), f.maxTokens, f.temperature)
	}
}
