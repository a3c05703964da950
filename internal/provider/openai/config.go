package openai

// Config contains the inference endpoint client configuration.
// All fields map to OpenAI SDK options:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
//   - MaxRetries: Maps to option.WithMaxRetries()
//
// MaxRetries defaults to zero: a benchmark must observe failures, not have
// the SDK paper over them.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    int
	MaxRetries int
}
