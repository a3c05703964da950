package domain

import (
	"math/rand"
	"strings"
)

// RequestFactory produces the next benchmark request to dispatch. Factories
// are called sequentially while requests are generated, before dispatch
// begins, so they need not be safe for concurrent use.
type RequestFactory func() BenchmarkRequest

// DefaultPrompts vary in length the way real traffic does.
func DefaultPrompts() []string {
	return []string{
		"Say hello.",
		"Explain the concept of machine learning in 100 words.",
		"Write a detailed technical explanation of how mixture of experts models work, " +
			"including their architecture, training process, and advantages over dense models. " +
			"Include specific examples.",
	}
}

// FixedPrompt returns a factory that always issues the same prompt.
func FixedPrompt(prompt string, maxTokens int, temperature float64) RequestFactory {
	return func() BenchmarkRequest {
		return BenchmarkRequest{
			Prompt:      prompt,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}
	}
}

// PromptPool returns a factory cycling through prompts round-robin.
func PromptPool(prompts []string, maxTokens int, temperature float64) RequestFactory {
	if len(prompts) == 0 {
		prompts = DefaultPrompts()
	}

	next := 0
	return func() BenchmarkRequest {
		prompt := prompts[next%len(prompts)]
		next++
		return BenchmarkRequest{
			Prompt:      prompt,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}
	}
}

// fillerWords seed the random prompt generator. The content is irrelevant to
// the endpoint; only prompt length matters for benchmarking.
var fillerWords = []string{
	"model", "server", "latency", "token", "batch", "request", "memory",
	"vector", "sample", "stream", "cache", "worker", "system", "metric",
	"signal", "output", "weight", "layer", "kernel", "buffer",
}

// RandomPrompt returns a factory generating prompts of numWords
// pseudo-random words each, for benchmarks that should avoid prompt caching.
func RandomPrompt(numWords, maxTokens int, temperature float64) RequestFactory {
	if numWords < 1 {
		numWords = 1
	}

	return func() BenchmarkRequest {
		words := make([]string, numWords)
		for i := range words {
			words[i] = fillerWords[rand.Intn(len(fillerWords))]
		}
		return BenchmarkRequest{
			Prompt:      strings.Join(words, " "),
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}
	}
}
