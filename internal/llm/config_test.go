package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.Equal(t, "llama3.2", cfg.Model)
	assert.Equal(t, 1, cfg.MaxRetries)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COACHFLOW_LLM_ENABLED", "true")
	t.Setenv("COACHFLOW_LLM_ENDPOINT", "http://models.internal:11434")
	t.Setenv("COACHFLOW_LLM_MODEL", "qwen2.5")
	t.Setenv("COACHFLOW_LLM_MAX_RETRIES", "3")
	t.Setenv("COACHFLOW_LLM_EXTRACT_TIMEOUT_MS", "4000")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "http://models.internal:11434", cfg.Endpoint)
	assert.Equal(t, "qwen2.5", cfg.Model)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 4000, cfg.TaskTimeout(TaskExtract))
}

func TestLoadConfig_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("COACHFLOW_LLM_TIMEOUT_MS", "-5")
	t.Setenv("COACHFLOW_LLM_MAX_RETRIES", "not-a-number")
	t.Setenv("COACHFLOW_LLM_COACH_TIMEOUT_MS", "0")

	cfg := LoadConfig()

	assert.Equal(t, DefaultConfig().TimeoutMs, cfg.TimeoutMs)
	assert.Equal(t, DefaultConfig().MaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultConfig().Tasks[TaskCoach].TimeoutMs, cfg.TaskTimeout(TaskCoach))
}
