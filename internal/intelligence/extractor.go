// Package intelligence holds the LLM-facing services: structured field
// extraction from coachee messages and generation of coaching replies.
// Both degrade deterministically when the model is disabled or failing:
// a turn never errors because of the model.
package intelligence

import (
	"context"
	"fmt"

	"coachflow/internal/domain"
	"coachflow/internal/llm"
	"coachflow/internal/prompt"
)

// Extractor converts a free-text coachee message into a candidate payload
// for the current step. The payload is untrusted and goes straight to the
// extraction validator.
type Extractor interface {
	// Extract returns the candidate payload for the step. On any model
	// failure it returns nil; the engine treats that as a turn that
	// captured nothing. Extract never returns an error.
	Extract(ctx context.Context, step domain.Step, userText, history string) map[string]any
}

type llmExtractor struct {
	client   llm.Client
	observer llm.Observer
}

// NewExtractor creates an Extractor backed by an LLM client.
func NewExtractor(client llm.Client, observer llm.Observer) Extractor {
	if observer == nil {
		observer = llm.NoopObserver{}
	}
	return &llmExtractor{client: client, observer: observer}
}

func (e *llmExtractor) Extract(ctx context.Context, step domain.Step, userText, history string) map[string]any {
	userPrompt := userText
	if history != "" {
		userPrompt = fmt.Sprintf("Conversation so far:\n%s\nLatest message:\n%s", history, userText)
	}

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtract,
		SystemPrompt: prompt.BuildExtractionInstruction(step),
		UserPrompt:   userPrompt,
	})
	if err != nil {
		// "No result" is identical to "empty candidate payload". The client
		// already reported the failure through its observer.
		return nil
	}

	obj, err := llm.ExtractObject(resp.Text)
	if err != nil {
		e.observer.OnCallComplete(llm.CallEvent{
			Task:      llm.TaskExtract,
			Model:     resp.Model,
			LatencyMs: resp.LatencyMs,
			Success:   false,
			ErrorCode: "INVALID_OUTPUT",
		})
		return nil
	}
	return obj
}

// disabledExtractor is used when the LLM subsystem is off: every turn
// captures nothing and coaching falls back to the static questions.
type disabledExtractor struct{}

// NewDisabledExtractor returns an Extractor that always yields nil.
func NewDisabledExtractor() Extractor { return disabledExtractor{} }

func (disabledExtractor) Extract(context.Context, domain.Step, string, string) map[string]any {
	return nil
}
