package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a Client for the configured provider. An empty provider
// name returns (nil, nil): analysis is disabled.
func NewClient(config Config) (Client, error) {
	switch strings.ToLower(config.Provider) {
	case "ollama":
		return NewOllamaClient(config)

	case "openai":
		return NewOpenAIClient(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown analysis provider: %s (supported: ollama, openai)", config.Provider)
	}
}
