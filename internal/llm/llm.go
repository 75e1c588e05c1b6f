// Package llm talks to the external fact-checking model. The rest of the
// system treats it as a black box that accepts document text and returns a
// structured verdict list; everything provider-specific lives here.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Verdict is one per-sentence judgment returned by the model.
type Verdict struct {
	Sentence            string   `json:"sentence"`
	Label               string   `json:"label"` // "true" | "false" | "uncertain"
	Confidence          float64  `json:"confidence"`
	SuggestedCorrection string   `json:"suggested_correction"`
	Reasoning           string   `json:"reasoning"`
	Sources             []string `json:"sources"`
}

// VerdictList is the full structured output of one analysis call.
type VerdictList struct {
	Sentences []Verdict `json:"sentences"`
}

// Client is the capability handed to whatever orchestrates an analysis run.
// There is no package-level client state; construct one via NewClient and
// pass it around explicitly.
type Client interface {
	// Name returns the provider name.
	Name() string

	// Analyze fact-checks the given text and returns per-sentence verdicts.
	// A transport failure is an error; model output that cannot be parsed
	// surfaces as ErrParseFailed (wrapped) so callers can decide whether to
	// degrade to an empty list or escalate.
	Analyze(ctx context.Context, text string) (*VerdictList, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "ollama", "openai", "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI.
	APIKey string

	// BaseURL for custom endpoints (e.g., a local Ollama).
	BaseURL string

	// Timeout for one analysis request.
	Timeout time.Duration
}

const promptTemplate = `You are an expert fact-checking system.

Split the following document into sentences and judge each one.

Document:
%q

Return JSON ONLY, no prose, in exactly this shape:

{
  "sentences": [
    {
      "sentence": "the sentence text, verbatim",
      "label": "true" | "false" | "uncertain",
      "confidence": 0.0,
      "suggested_correction": "a corrected sentence, or empty if none",
      "reasoning": "why you judged it this way",
      "sources": ["supporting source", "..."]
    }
  ]
}
`

// BuildPrompt renders the fact-checking prompt for one document.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
