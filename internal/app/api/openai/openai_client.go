package openai

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI client. baseURL is optional and lets the
// transcriber talk to OpenAI-compatible servers.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config), nil
}
