package llm

// ChatOptions contains options for generating chat completions
type ChatOptions struct {
	Model               string  // Model name/identifier
	Temperature         float32 // Controls randomness (0.0 to 1.0)
	MaxCompletionTokens int     // Maximum completion tokens
}

// Option is a function type to modify ChatOptions
type Option func(*ChatOptions)

// DefaultOptions returns the default chat options
func DefaultOptions() *ChatOptions {
	return &ChatOptions{
		Temperature: 0.7,
	}
}

// WithModel sets the model to use
func WithModel(model string) Option {
	return func(o *ChatOptions) {
		o.Model = model
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temp float32) Option {
	return func(o *ChatOptions) {
		o.Temperature = temp
	}
}

// WithMaxCompletionTokens sets the completion token limit
func WithMaxCompletionTokens(n int) Option {
	return func(o *ChatOptions) {
		o.MaxCompletionTokens = n
	}
}
