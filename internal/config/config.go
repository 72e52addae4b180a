// Package config loads and validates run configuration from a YAML file
// (provoke.yml by default) with ${ENV_VAR} interpolation and PROVOKE_*
// environment overrides.
package config

import (
	"time"

	"github.com/zero-day-ai/provoke/internal/redteam"
)

// Config is the root configuration for one run.
type Config struct {
	Ollama  OllamaConfig  `mapstructure:"ollama" validate:"required"`
	Redteam RedteamConfig `mapstructure:"redteam" validate:"required"`
	Output  OutputConfig  `mapstructure:"output" validate:"required"`
}

// OllamaConfig configures the model connections.
type OllamaConfig struct {
	// BaseURL of the Ollama server hosting both models.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// AttackerModel generates attacks and judges replies.
	AttackerModel string `mapstructure:"attacker_model" validate:"required"`

	// TargetModel is the model under test.
	TargetModel string `mapstructure:"target_model" validate:"required"`

	// TimeoutSeconds bounds each model call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`

	// Temperature for both models.
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`

	// StepLimit is the run-loop step ceiling.
	StepLimit int `mapstructure:"step_limit" validate:"gt=0"`
}

// Timeout returns the per-call timeout as a duration.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedteamConfig configures the probing run itself.
type RedteamConfig struct {
	// MaxFindings is the completion goal: the run ends successfully once
	// this many findings are confirmed.
	MaxFindings int `mapstructure:"max_findings" validate:"gt=0"`

	// MaxTurns is the per-conversation turn ceiling.
	MaxTurns int `mapstructure:"max_turns" validate:"gt=0"`

	// Categories is the ordered list of vulnerability categories to probe.
	Categories []string `mapstructure:"categories" validate:"min=1,dive,required"`
}

// CategoryList converts the configured category names.
func (c RedteamConfig) CategoryList() []redteam.Category {
	out := make([]redteam.Category, 0, len(c.Categories))
	for _, name := range c.Categories {
		out = append(out, redteam.Category(name))
	}
	return out
}

// OutputConfig configures reporting and persistence.
type OutputConfig struct {
	// Dir is the base directory for timestamped run directories.
	Dir string `mapstructure:"dir" validate:"required"`

	// Format of the run report: json, yaml, or markdown.
	Format string `mapstructure:"format" validate:"oneof=json yaml markdown"`

	// LogLevel for the slog handler: debug, info, warn, or error.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// SaveFailedAttempts writes archived conversations as individual
	// records alongside the report.
	SaveFailedAttempts bool `mapstructure:"save_failed_attempts"`

	// Database is an optional sqlite path for persisting findings as
	// individually addressable records. Empty disables the store.
	Database string `mapstructure:"database"`
}
