package domain

const (
	tokensPerMillion = 1_000_000.0
	percentDivisor   = 100.0
)

// RevenueModel holds per-token pricing, a flat per-request fee, and the
// marketplace cut used to project revenue against GPU spend.
type RevenueModel struct {
	InputPerMillion  float64 `json:"input_per_million" yaml:"input-per-million"`
	OutputPerMillion float64 `json:"output_per_million" yaml:"output-per-million"`
	PerRequest       float64 `json:"per_request" yaml:"per-request"`
	FeePercent       float64 `json:"fee_percent" yaml:"fee-percent"`
	AvgInputTokens   int     `json:"avg_input_tokens" yaml:"avg-input-tokens"`
	AvgOutputTokens  int     `json:"avg_output_tokens" yaml:"avg-output-tokens"`
}

// RevenueProjection is the projected economics of serving a request volume.
type RevenueProjection struct {
	Requests            int     `json:"requests" yaml:"requests"`
	GrossRevenue        float64 `json:"gross_revenue" yaml:"gross-revenue"`
	Fee                 float64 `json:"fee" yaml:"fee"`
	NetRevenue          float64 `json:"net_revenue" yaml:"net-revenue"`
	GPUCost             float64 `json:"gpu_cost" yaml:"gpu-cost"`
	Profit              float64 `json:"profit" yaml:"profit"`
	ProfitMarginPercent float64 `json:"profit_margin_percent" yaml:"profit-margin-percent"`
	ROIPercent          float64 `json:"roi_percent" yaml:"roi-percent"`
	GrossPerRequest     float64 `json:"gross_per_request" yaml:"gross-per-request"`
	NetPerRequest       float64 `json:"net_per_request" yaml:"net-per-request"`
}

// Validate checks the revenue model parameters.
func (m RevenueModel) Validate() error {
	if m.InputPerMillion < 0 || m.OutputPerMillion < 0 || m.PerRequest < 0 {
		return &InvalidInputError{Field: "revenue rate", Reason: "cannot be negative"}
	}
	if m.FeePercent < 0 || m.FeePercent > 100 {
		return &InvalidInputError{Field: "fee-percent", Reason: "must be between 0 and 100"}
	}
	if m.AvgInputTokens < 0 || m.AvgOutputTokens < 0 {
		return &InvalidInputError{Field: "average tokens", Reason: "cannot be negative"}
	}
	return nil
}

// Project computes gross and net revenue for the given request volume and
// compares it against the GPU cost of serving it.
func (m RevenueModel) Project(requests int, gpuCost float64) (RevenueProjection, error) {
	if err := m.Validate(); err != nil {
		return RevenueProjection{}, err
	}
	if requests < 0 {
		return RevenueProjection{}, &InvalidInputError{Field: "requests", Reason: "cannot be negative"}
	}
	if gpuCost < 0 {
		return RevenueProjection{}, &InvalidInputError{Field: "gpu cost", Reason: "cannot be negative"}
	}

	inputRevenue := float64(m.AvgInputTokens) / tokensPerMillion * m.InputPerMillion
	outputRevenue := float64(m.AvgOutputTokens) / tokensPerMillion * m.OutputPerMillion
	grossPerRequest := inputRevenue + outputRevenue + m.PerRequest

	gross := float64(requests) * grossPerRequest
	fee := gross * (m.FeePercent / percentDivisor)
	net := gross - fee
	profit := net - gpuCost

	projection := RevenueProjection{
		Requests:        requests,
		GrossRevenue:    gross,
		Fee:             fee,
		NetRevenue:      net,
		GPUCost:         gpuCost,
		Profit:          profit,
		GrossPerRequest: grossPerRequest,
		NetPerRequest:   grossPerRequest * (1 - m.FeePercent/percentDivisor),
	}

	if net > 0 {
		projection.ProfitMarginPercent = profit / net * percentDivisor
	}
	if gpuCost > 0 {
		projection.ROIPercent = profit / gpuCost * percentDivisor
	}

	return projection, nil
}
