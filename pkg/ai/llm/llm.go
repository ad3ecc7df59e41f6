package llm

import (
	"context"
)

// LLM represents a generic large language model interface
type LLM interface {
	// Chat generates a response based on the conversation history
	Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error)
}

// Response contains the model's response and additional metadata
type Response struct {
	Message Message
	Usage   Usage
}

// Client represents a configured LLM client
type Client struct {
	llm LLM
}

// NewClient creates a new LLM client
func NewClient(llm LLM) *Client {
	return &Client{llm: llm}
}

// Chat generates a response based on the conversation history
func (c *Client) Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error) {
	return c.llm.Chat(ctx, messages, opts...)
}
