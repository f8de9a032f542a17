package intelligence

import (
	"context"

	"coachflow/internal/llm"
)

// Coach produces the next coaching reply from an assembled instruction.
type Coach interface {
	// Reply generates the coach's next message. Returns an error only for
	// model failures; callers fall back to FallbackReply.
	Reply(ctx context.Context, instruction, userText string) (string, error)
}

type llmCoach struct {
	client llm.Client
}

// NewCoach creates a Coach backed by an LLM client.
func NewCoach(client llm.Client) Coach {
	return &llmCoach{client: client}
}

func (c *llmCoach) Reply(ctx context.Context, instruction, userText string) (string, error) {
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskCoach,
		SystemPrompt: instruction,
		UserPrompt:   userText,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// disabledCoach always reports failure so callers use the deterministic
// fallback path.
type disabledCoach struct{}

// NewDisabledCoach returns a Coach that never produces model output.
func NewDisabledCoach() Coach { return disabledCoach{} }

func (disabledCoach) Reply(context.Context, string, string) (string, error) {
	return "", llm.ErrUnavailable
}
