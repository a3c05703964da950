package domain

// daysPerMonth converts the monthly storage rate into a daily one.
const daysPerMonth = 30.0

// UsageProfile describes the expected usage a cost projection covers.
// HoursPerDay may exceed 24: it is aggregate GPU-hours across concurrent
// workers, not wall-clock hours.
type UsageProfile struct {
	HoursPerDay           float64 `json:"hours_per_day" yaml:"hours-per-day"`
	Days                  int     `json:"days" yaml:"days"`
	NumGPUs               int     `json:"num_gpus" yaml:"num-gpus"`
	HourlyRatePerGPU      float64 `json:"hourly_rate_per_gpu" yaml:"hourly-rate-per-gpu"`
	StorageGB             float64 `json:"storage_gb" yaml:"storage-gb"`
	StorageRatePerGBMonth float64 `json:"storage_rate_per_gb_month" yaml:"storage-rate-per-gb-month"`
}

// CostProjection is the projected spend over a profile's horizon.
// WithinBudget is nil when no budget ceiling was supplied.
type CostProjection struct {
	ComputeCost  float64 `json:"compute_cost" yaml:"compute-cost"`
	StorageCost  float64 `json:"storage_cost" yaml:"storage-cost"`
	TotalCost    float64 `json:"total_cost" yaml:"total-cost"`
	DailyAverage float64 `json:"daily_average" yaml:"daily-average"`
	WithinBudget *bool   `json:"within_budget,omitempty" yaml:"within-budget,omitempty"`
}

// Validate checks that the profile describes a projectable usage pattern.
func (p UsageProfile) Validate() error {
	if p.HoursPerDay <= 0 {
		return &InvalidInputError{Field: "hours-per-day", Reason: "must be positive"}
	}
	if p.Days <= 0 {
		return &InvalidInputError{Field: "days", Reason: "must be positive"}
	}
	if p.NumGPUs <= 0 {
		return &InvalidInputError{Field: "num-gpus", Reason: "must be positive"}
	}
	if p.HourlyRatePerGPU < 0 {
		return &InvalidInputError{Field: "hourly-rate-per-gpu", Reason: "cannot be negative"}
	}
	if p.StorageGB < 0 {
		return &InvalidInputError{Field: "storage-gb", Reason: "cannot be negative"}
	}
	if p.StorageRatePerGBMonth < 0 {
		return &InvalidInputError{Field: "storage-rate-per-gb-month", Reason: "cannot be negative"}
	}
	return nil
}

// Project computes the projected spend for a usage profile. Storage is billed
// per GB per month and pro-rated over the horizon. The budget comparison is
// inclusive: a total exactly at the ceiling is within budget.
func Project(profile UsageProfile, budget *float64) (CostProjection, error) {
	if err := profile.Validate(); err != nil {
		return CostProjection{}, err
	}

	computeCost := profile.HoursPerDay * float64(profile.Days) *
		float64(profile.NumGPUs) * profile.HourlyRatePerGPU
	storageCost := profile.StorageGB * profile.StorageRatePerGBMonth *
		(float64(profile.Days) / daysPerMonth)
	totalCost := computeCost + storageCost

	projection := CostProjection{
		ComputeCost:  computeCost,
		StorageCost:  storageCost,
		TotalCost:    totalCost,
		DailyAverage: totalCost / float64(profile.Days),
	}

	if budget != nil {
		within := totalCost <= *budget
		projection.WithinBudget = &within
	}

	return projection, nil
}
