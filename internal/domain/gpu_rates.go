package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// InMemoryRateRegistry stores per-GPU hourly rates in memory.
type InMemoryRateRegistry struct {
	mu    sync.RWMutex
	rates map[string]float64
}

// NewInMemoryRateRegistry creates a rate registry seeded with common
// serverless GPU on-demand rates (USD per GPU per hour).
func NewInMemoryRateRegistry() *InMemoryRateRegistry {
	return &InMemoryRateRegistry{
		mu: sync.RWMutex{},
		rates: map[string]float64{
			"h100":    2.40,
			"a100":    1.64,
			"l40s":    0.86,
			"a6000":   0.49,
			"rtx4090": 0.54,
		},
	}
}

// GetRate retrieves the hourly rate for a GPU type. Lookup is
// case-insensitive.
func (r *InMemoryRateRegistry) GetRate(_ context.Context, gpuType string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rate, exists := r.rates[strings.ToLower(gpuType)]
	if !exists {
		return 0, fmt.Errorf("rate not found for GPU type: %s", gpuType)
	}

	return rate, nil
}

// RegisterRate adds or overwrites the rate for a GPU type.
func (r *InMemoryRateRegistry) RegisterRate(_ context.Context, gpuType string, hourlyRate float64) error {
	if gpuType == "" {
		return &InvalidInputError{Field: "gpu type", Reason: "cannot be empty"}
	}
	if hourlyRate < 0 {
		return &InvalidInputError{Field: "hourly rate", Reason: "cannot be negative"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rates[strings.ToLower(gpuType)] = hourlyRate
	return nil
}

// KnownTypes returns the registered GPU types in no particular order.
func (r *InMemoryRateRegistry) KnownTypes(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.rates))
	for gpuType := range r.rates {
		types = append(types, gpuType)
	}
	return types
}
