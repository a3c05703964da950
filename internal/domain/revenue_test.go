package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmeter/llmeter/internal/domain"
)

func testRevenueModel() domain.RevenueModel {
	return domain.RevenueModel{
		InputPerMillion:  0.50,
		OutputPerMillion: 1.30,
		PerRequest:       0.001,
		FeePercent:       5.5,
		AvgInputTokens:   1000,
		AvgOutputTokens:  500,
	}
}

func TestRevenueModel_Project(t *testing.T) {
	model := testRevenueModel()

	t.Run("per-request economics", func(t *testing.T) {
		projection, err := model.Project(1, 0)
		require.NoError(t, err)

		// 1000/1M * 0.50 + 500/1M * 1.30 + 0.001 = 0.00215
		require.InDelta(t, 0.00215, projection.GrossPerRequest, 1e-9)
		require.InDelta(t, 0.00215*(1-0.055), projection.NetPerRequest, 1e-9)
	})

	t.Run("fee and profit over a request volume", func(t *testing.T) {
		projection, err := model.Project(100_000, 50.0)
		require.NoError(t, err)

		require.InDelta(t, 215.0, projection.GrossRevenue, 1e-6)
		require.InDelta(t, 215.0*0.055, projection.Fee, 1e-6)
		require.InDelta(t, projection.GrossRevenue-projection.Fee, projection.NetRevenue, 1e-9)
		require.InDelta(t, projection.NetRevenue-50.0, projection.Profit, 1e-9)
		require.Greater(t, projection.ProfitMarginPercent, 0.0)
		require.InDelta(t, projection.Profit/50.0*100, projection.ROIPercent, 1e-9)
	})

	t.Run("zero requests yield zero revenue without division errors", func(t *testing.T) {
		projection, err := model.Project(0, 0)
		require.NoError(t, err)

		require.Zero(t, projection.GrossRevenue)
		require.Zero(t, projection.ProfitMarginPercent)
		require.Zero(t, projection.ROIPercent)
	})

	t.Run("negative requests rejected", func(t *testing.T) {
		_, err := model.Project(-1, 0)
		require.Error(t, err)
	})

	t.Run("fee above 100 percent rejected", func(t *testing.T) {
		bad := model
		bad.FeePercent = 101
		_, err := bad.Project(1, 0)
		require.Error(t, err)
	})
}

func TestEvaluateScenario(t *testing.T) {
	base := validProfile()
	model := testRevenueModel()

	t.Run("scenario overrides hours and carries traffic", func(t *testing.T) {
		scenario := domain.Scenario{Name: "Moderate Usage", HoursPerDay: 4, RequestsPerHour: 20}

		report, err := domain.EvaluateScenario(base, scenario, model)
		require.NoError(t, err)

		require.InDelta(t, 120.0, report.TotalHours, 1e-9)
		require.InDelta(t, 288.0, report.Projection.ComputeCost, 1e-6)
		require.NotNil(t, report.Revenue)
		require.Equal(t, 2400, report.Revenue.Requests)
	})

	t.Run("scenario without traffic skips revenue", func(t *testing.T) {
		scenario := domain.Scenario{Name: "Idle", HoursPerDay: 2}

		report, err := domain.EvaluateScenario(base, scenario, model)
		require.NoError(t, err)
		require.Nil(t, report.Revenue)
	})

	t.Run("default scenarios are all evaluable", func(t *testing.T) {
		for _, scenario := range domain.DefaultScenarios() {
			_, err := domain.EvaluateScenario(base, scenario, model)
			require.NoError(t, err)
		}
	})
}
