package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmeter/llmeter/internal/domain"
)

func TestInMemoryRateRegistry(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryRateRegistry()

	t.Run("seeded rates are retrievable case-insensitively", func(t *testing.T) {
		rate, err := registry.GetRate(ctx, "H100")
		require.NoError(t, err)
		require.InDelta(t, 2.40, rate, 1e-9)
	})

	t.Run("unknown GPU type returns error", func(t *testing.T) {
		_, err := registry.GetRate(ctx, "tpu-v5")
		require.Error(t, err)
	})

	t.Run("register and retrieve rate", func(t *testing.T) {
		err := registry.RegisterRate(ctx, "b200", 4.99)
		require.NoError(t, err)

		rate, err := registry.GetRate(ctx, "b200")
		require.NoError(t, err)
		require.InDelta(t, 4.99, rate, 1e-9)
	})

	t.Run("overwrite existing rate", func(t *testing.T) {
		require.NoError(t, registry.RegisterRate(ctx, "a100", 1.10))

		rate, err := registry.GetRate(ctx, "a100")
		require.NoError(t, err)
		require.InDelta(t, 1.10, rate, 1e-9)
	})

	t.Run("empty GPU type rejected", func(t *testing.T) {
		err := registry.RegisterRate(ctx, "", 1.0)
		require.Error(t, err)
	})

	t.Run("negative rate rejected", func(t *testing.T) {
		err := registry.RegisterRate(ctx, "h100", -0.5)
		require.Error(t, err)
	})

	t.Run("known types include seeds", func(t *testing.T) {
		require.Contains(t, registry.KnownTypes(ctx), "h100")
	})
}
