package config

import "github.com/zero-day-ai/provoke/internal/redteam"

// DefaultConfigFile is the config file looked for in the working directory.
const DefaultConfigFile = "provoke.yml"

// DefaultConfig returns the configuration used when no file is present,
// mirroring the original competition setup.
func DefaultConfig() *Config {
	categories := redteam.DefaultCategories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.String())
	}

	return &Config{
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			AttackerModel:  "llama3.1:latest",
			TargetModel:    "gpt-oss-20b",
			TimeoutSeconds: 120,
			Temperature:    0.8,
			StepLimit:      100,
		},
		Redteam: RedteamConfig{
			MaxFindings: 5,
			MaxTurns:    10,
			Categories:  names,
		},
		Output: OutputConfig{
			Dir:                "redteam_results",
			Format:             "json",
			LogLevel:           "info",
			SaveFailedAttempts: true,
		},
	}
}
