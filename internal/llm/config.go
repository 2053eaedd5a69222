package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskRoute breaks intent-classification ties when keyword scoring
	// is below the confidence threshold.
	TaskRoute TaskType = "route"

	// TaskEditResolve identifies the target task and action for an edit
	// utterance.
	TaskEditResolve TaskType = "edit_resolve"

	// TaskCorrection extracts a structured patch from a reply given
	// mid-confirmation.
	TaskCorrection TaskType = "correction"

	// TaskChat phrases conversational replies and help text. Never used
	// for scheduling logic.
	TaskChat TaskType = "chat"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled             bool
	LogCalls            bool
	Endpoint            string
	Model               string
	TimeoutMs           int
	MaxRetries          int
	ConfidenceThreshold float64
	Tasks               map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. LLM assist
// is disabled by default; every caller has a heuristic fallback, so the
// assistant is fully usable without it.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:             false,
		LogCalls:            false,
		Endpoint:            "http://localhost:11434",
		Model:               "llama3.2",
		TimeoutMs:           10000,
		MaxRetries:          1,
		ConfidenceThreshold: 0.7,
		Tasks: map[TaskType]TaskConfig{
			TaskRoute:       {Temperature: 0.1, MaxTokens: 256, TimeoutMs: 5000},
			TaskEditResolve: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 8000},
			TaskCorrection:  {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 8000},
			TaskChat:        {Temperature: 0.6, MaxTokens: 1024, TimeoutMs: 8000},
		},
	}
}

// LoadConfig reads LLM configuration from TIMEBUDDY_* environment
// variables, falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("TIMEBUDDY_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TIMEBUDDY_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TIMEBUDDY_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TIMEBUDDY_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TIMEBUDDY_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TIMEBUDDY_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("TIMEBUDDY_LLM_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.ConfidenceThreshold = f
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskRoute, "TIMEBUDDY_LLM_ROUTE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskEditResolve, "TIMEBUDDY_LLM_EDIT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskCorrection, "TIMEBUDDY_LLM_CORRECTION_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskChat, "TIMEBUDDY_LLM_CHAT_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
