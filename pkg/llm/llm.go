// Package llm provides LLM clients used by the QA chain for statement
// generation and answer synthesis.
package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
)

// Client is the interface for interacting with an LLM.
type Client interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const defaultMaxTokens = 4096

// FromEnv constructs a client from environment variables. LLM_PROVIDER
// selects the backend ("anthropic" or "ollama"); when unset, anthropic is
// used if ANTHROPIC_API_KEY is present, ollama otherwise.
func FromEnv() (Client, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			provider = "anthropic"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		model := anthropic.Model(os.Getenv("ANTHROPIC_MODEL"))
		if model == "" {
			model = anthropic.ModelClaude3_5Haiku20241022
		}
		return NewAnthropicClient(model, defaultMaxTokens), nil
	case "ollama":
		baseURL := os.Getenv("OLLAMA_URL")
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			model = "llama3.1"
		}
		return NewOllamaClient(baseURL, model, defaultMaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
