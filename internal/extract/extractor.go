package extract

import (
	"context"
	"fmt"

	"github.com/farm2bag/voicecart/pkg/provider/llm"
)

// PromptContract is the fixed instruction sent alongside every transcript.
// The line shape it demands is the same one linePattern parses; the two form
// one versioned contract. Bump ContractVersion when either side changes.
const PromptContract = "Please provide the list of products and their quantities in the format: " +
	"Product - Name: [name], Quantity: [quantity], Unit: [unit]. " +
	"Example: Tomato - Name: Tomato, Quantity: 5, Unit: kg. " +
	"Return the products list in plain text, no JSON required."

// ContractVersion identifies the prompt/parser contract in logs and stored
// transcriptions so historic extractions can be traced to the grammar that
// produced them.
const ContractVersion = "v1"

// extractionTemperature keeps the model near-deterministic; extraction is a
// formatting task, not a creative one.
const extractionTemperature = 0.1

// Extractor sends a transcript to the LLM collaborator and parses the
// response into [RawExtraction] records. It is safe for concurrent use.
type Extractor struct {
	provider llm.Provider
}

// NewExtractor returns an Extractor backed by provider.
func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract runs the extraction prompt over transcript and parses the result.
//
// A transport or model failure is returned as an error; a well-formed
// response containing no product lines returns an empty slice and nil error,
// because "the customer said nothing about products" is a normal outcome.
func (e *Extractor) Extract(ctx context.Context, transcript string) ([]RawExtraction, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "user", Content: "Transcription: " + transcript + "\n\n" + PromptContract},
		},
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: completion: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("extract: provider returned no response")
	}

	return Parse(resp.Content), nil
}
