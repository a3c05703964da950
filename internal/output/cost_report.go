// Package output renders projection and benchmark results for the CLI.
// Renderers are pure functions from result structs to strings; nothing here
// touches the terminal directly.
package output

import (
	"fmt"
	"strings"

	"github.com/llmeter/llmeter/internal/domain"
)

const ruleWidth = 70

// CostReport is the full cost analysis rendered by the cost CLI.
type CostReport struct {
	Profile    domain.UsageProfile     `json:"profile" yaml:"profile"`
	Projection domain.CostProjection   `json:"projection" yaml:"projection"`
	Budget     *float64                `json:"budget,omitempty" yaml:"budget,omitempty"`
	Scenarios  []domain.ScenarioReport `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	Revenue    domain.RevenueModel     `json:"-" yaml:"-"`
	Detailed   bool                    `json:"-" yaml:"-"`
}

// Text renders the report as a plain-text table.
func (r CostReport) Text() string {
	var b strings.Builder

	rule := strings.Repeat("=", ruleWidth)
	thinRule := strings.Repeat("-", ruleWidth)

	fmt.Fprintf(&b, "%s\n  SERVERLESS DEPLOYMENT COST PROJECTION\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Period: %d days\n", r.Profile.Days)
	fmt.Fprintf(&b, "GPUs: %d @ $%.2f/hour each, %.1f active hours/day\n",
		r.Profile.NumGPUs, r.Profile.HourlyRatePerGPU, r.Profile.HoursPerDay)
	fmt.Fprintf(&b, "Storage: %.0fGB @ $%.2f/GB/month\n\n",
		r.Profile.StorageGB, r.Profile.StorageRatePerGBMonth)

	fmt.Fprintf(&b, "Compute Cost: $%.2f\n", r.Projection.ComputeCost)
	fmt.Fprintf(&b, "Storage Cost: $%.2f\n", r.Projection.StorageCost)
	fmt.Fprintf(&b, "Total Cost:   $%.2f ($%.2f/day)\n",
		r.Projection.TotalCost, r.Projection.DailyAverage)

	if r.Budget != nil && r.Projection.WithinBudget != nil {
		verdict := "OVER BUDGET"
		if *r.Projection.WithinBudget {
			verdict = "within budget"
		}
		fmt.Fprintf(&b, "Budget:       $%.2f (%s)\n", *r.Budget, verdict)
	}

	if len(r.Scenarios) > 0 {
		fmt.Fprintf(&b, "\n%s\n  USAGE SCENARIOS\n%s\n", thinRule, thinRule)
		for _, scenario := range r.Scenarios {
			b.WriteString(renderScenario(scenario))
		}
	}

	if r.Detailed {
		b.WriteString(r.renderDetailed())
	}

	return b.String()
}

func renderScenario(report domain.ScenarioReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s:\n", report.Scenario.Name)
	fmt.Fprintf(&b, "  Active Hours: %.1f hrs/day (%.0f hrs total)\n",
		report.Scenario.HoursPerDay, report.TotalHours)
	fmt.Fprintf(&b, "  GPU Cost: $%.2f\n", report.Projection.ComputeCost)
	fmt.Fprintf(&b, "  Storage Cost: $%.2f\n", report.Projection.StorageCost)
	fmt.Fprintf(&b, "  Total Cost: $%.2f ($%.2f/day)\n",
		report.Projection.TotalCost, report.Projection.DailyAverage)

	if report.Revenue != nil {
		rev := report.Revenue
		fmt.Fprintf(&b, "  Requests: %d\n", rev.Requests)
		fmt.Fprintf(&b, "  Gross Revenue: $%.2f\n", rev.GrossRevenue)
		fmt.Fprintf(&b, "  Net Revenue: $%.2f\n", rev.NetRevenue)
		fmt.Fprintf(&b, "  Profit: $%.2f (%.1f%% margin)\n", rev.Profit, rev.ProfitMarginPercent)
		fmt.Fprintf(&b, "  ROI: %.0f%%\n", rev.ROIPercent)
	}

	return b.String()
}

func (r CostReport) renderDetailed() string {
	var b strings.Builder
	thinRule := strings.Repeat("-", ruleWidth)

	perSecond := float64(r.Profile.NumGPUs) * r.Profile.HourlyRatePerGPU / 3600

	fmt.Fprintf(&b, "\n%s\n  DETAILED BREAKDOWN\n%s\n", thinRule, thinRule)
	fmt.Fprintf(&b, "\nPer-Second Costs:\n  GPU: $%.6f/second\n", perSecond)

	economics, err := r.Revenue.Project(1, 0)
	if err != nil {
		return b.String()
	}

	fmt.Fprintf(&b, "\nPer-Request Economics (typical):\n")
	fmt.Fprintf(&b, "  Input Tokens: %d\n", r.Revenue.AvgInputTokens)
	fmt.Fprintf(&b, "  Output Tokens: %d\n", r.Revenue.AvgOutputTokens)
	fmt.Fprintf(&b, "  Gross Revenue: $%.4f\n", economics.GrossPerRequest)
	fmt.Fprintf(&b, "  Net Revenue: $%.4f\n", economics.NetPerRequest)

	return b.String()
}
