package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the llmeter configuration. Values are resolved from
// built-in defaults, then environment variables, then CLI flags.
type Config struct {
	Endpoint EndpointConfig
	Bench    BenchConfig
	Pricing  PricingConfig
	Revenue  RevenueConfig
}

// EndpointConfig describes the inference endpoint the benchmarker targets.
type EndpointConfig struct {
	BaseURL    string `env:"LLMETER_ENDPOINT"`
	APIKey     string `env:"LLMETER_API_KEY"`
	Model      string `env:"LLMETER_MODEL"`
	Timeout    int    `env:"LLMETER_REQUEST_TIMEOUT" envDefault:"60"`
	MaxRetries int    `env:"LLMETER_MAX_RETRIES"     envDefault:"0"`
}

// BenchConfig contains benchmark run defaults.
type BenchConfig struct {
	Samples     int     `env:"LLMETER_SAMPLES"     envDefault:"10"`
	Concurrency int     `env:"LLMETER_CONCURRENCY" envDefault:"5"`
	MaxTokens   int     `env:"LLMETER_MAX_TOKENS"  envDefault:"512"`
	Temperature float64 `env:"LLMETER_TEMPERATURE" envDefault:"0.7"`
	RunTimeout  int     `env:"LLMETER_RUN_TIMEOUT" envDefault:"600"`
}

// PricingConfig contains default GPU and storage rates for cost projection.
type PricingConfig struct {
	HoursPerDay           float64 `env:"LLMETER_HOURS_PER_DAY" envDefault:"24"`
	Days                  int     `env:"LLMETER_DAYS"          envDefault:"30"`
	NumGPUs               int     `env:"LLMETER_GPUS"          envDefault:"4"`
	HourlyRatePerGPU      float64 `env:"LLMETER_GPU_RATE"      envDefault:"0.60"`
	StorageGB             float64 `env:"LLMETER_STORAGE_GB"    envDefault:"200"`
	StorageRatePerGBMonth float64 `env:"LLMETER_STORAGE_RATE"  envDefault:"0.20"`
}

// RevenueConfig contains per-token revenue rates and typical request
// characteristics for profit projection.
type RevenueConfig struct {
	InputPerMillion  float64 `env:"LLMETER_REVENUE_INPUT_PER_M"  envDefault:"0.50"`
	OutputPerMillion float64 `env:"LLMETER_REVENUE_OUTPUT_PER_M" envDefault:"1.30"`
	PerRequest       float64 `env:"LLMETER_REVENUE_PER_REQUEST"  envDefault:"0.001"`
	FeePercent       float64 `env:"LLMETER_MARKETPLACE_FEE_PCT"  envDefault:"5.5"`
	AvgInputTokens   int     `env:"LLMETER_AVG_INPUT_TOKENS"     envDefault:"1000"`
	AvgOutputTokens  int     `env:"LLMETER_AVG_OUTPUT_TOKENS"    envDefault:"500"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*EndpointConfig
	*BenchConfig
	*PricingConfig
	*RevenueConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Endpoint,
		&cfg.Bench,
		&cfg.Pricing,
		&cfg.Revenue,
	}
}
