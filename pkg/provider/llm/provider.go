// Package llm defines the Provider interface for the language-model
// collaborator that turns transcript text into structured product lines.
//
// voicecart only ever needs single-shot completions: the extraction prompt is
// sent once per transcript and the full response is parsed afterwards, so the
// interface deliberately omits streaming and tool calling.
//
// Implementations must be safe for concurrent use and must propagate context
// cancellation promptly.
package llm

import "context"

// Message is one turn of the conversation sent to the model.
type Message struct {
	// Role is "user", "assistant", or "system".
	Role string

	// Content is the message text.
	Content string
}

// Usage holds token accounting returned by the backend. Counts are in the
// model's native token unit and may differ between providers for the same
// text.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest carries everything the model needs for one completion.
// Messages must be non-empty.
type CompletionRequest struct {
	// Messages is the ordered conversation. For extraction this is a single
	// user message carrying the transcript and the format instructions.
	Messages []Message

	// SystemPrompt is an optional high-priority instruction injected before
	// the conversation. Providers without a dedicated system slot prepend it
	// as a "system"-role message.
	SystemPrompt string

	// Temperature controls output randomness in [0.0, 2.0]. Extraction runs
	// near 0 for determinism.
	Temperature float64

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is the model's full reply.
type CompletionResponse struct {
	// Content is the complete response text.
	Content string

	// Usage contains token accounting for this request/response pair.
	Usage Usage
}

// Provider is the abstraction over any LLM backend.
type Provider interface {
	// Complete sends req to the model and waits for the full response.
	// Returns an error if the request fails or ctx is cancelled first.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
