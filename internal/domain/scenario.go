package domain

// Scenario combines an activity level with expected traffic. The base
// profile's days, GPU count, rates, and storage carry over; only hours per
// day and request volume vary between scenarios.
type Scenario struct {
	Name            string  `json:"name" yaml:"name"`
	HoursPerDay     float64 `json:"hours_per_day" yaml:"hours-per-day"`
	RequestsPerHour int     `json:"requests_per_hour" yaml:"requests-per-hour"`
}

// ScenarioReport is the evaluated cost, and revenue when traffic is nonzero,
// of one scenario.
type ScenarioReport struct {
	Scenario   Scenario           `json:"scenario" yaml:"scenario"`
	TotalHours float64            `json:"total_hours" yaml:"total-hours"`
	Projection CostProjection     `json:"projection" yaml:"projection"`
	Revenue    *RevenueProjection `json:"revenue,omitempty" yaml:"revenue,omitempty"`
}

// DefaultScenarios mirror the usage patterns a serverless deployment
// typically sees, from occasional development traffic to an always-on worker.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "Light Usage", HoursPerDay: 2, RequestsPerHour: 10},
		{Name: "Moderate Usage", HoursPerDay: 4, RequestsPerHour: 20},
		{Name: "Heavy Usage", HoursPerDay: 8, RequestsPerHour: 30},
		{Name: "Always On (Dev)", HoursPerDay: 24, RequestsPerHour: 5},
	}
}

// EvaluateScenario projects the cost of a scenario over the base profile's
// horizon and, when the scenario carries traffic, the revenue of serving it.
func EvaluateScenario(base UsageProfile, scenario Scenario, model RevenueModel) (ScenarioReport, error) {
	profile := base
	profile.HoursPerDay = scenario.HoursPerDay

	projection, err := Project(profile, nil)
	if err != nil {
		return ScenarioReport{}, err
	}

	totalHours := scenario.HoursPerDay * float64(profile.Days)
	report := ScenarioReport{
		Scenario:   scenario,
		TotalHours: totalHours,
		Projection: projection,
	}

	if scenario.RequestsPerHour > 0 {
		requests := int(float64(scenario.RequestsPerHour) * totalHours)
		revenue, revErr := model.Project(requests, projection.ComputeCost)
		if revErr != nil {
			return ScenarioReport{}, revErr
		}
		report.Revenue = &revenue
	}

	return report, nil
}
