package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// envVarPattern matches ${VAR_NAME} references in the config file.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader loads configuration from files.
type Loader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperLoader implements Loader using Viper.
type viperLoader struct {
	validator Validator
}

// NewLoader creates a Loader backed by the given validator.
func NewLoader(validator Validator) Loader {
	return &viperLoader{validator: validator}
}

// Load reads, interpolates, overrides, and validates the config at path.
// Environment variables named PROVOKE_<SECTION>_<KEY> override file values
// (e.g. PROVOKE_OLLAMA_TARGET_MODEL).
func (l *viperLoader) Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(interpolateEnvVars(raw))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadWithDefaults behaves like Load but falls back to the default
// configuration (still subject to environment overrides and validation)
// when the file does not exist.
func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		v := newViper()

		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
		}
		if err := l.validator.Validate(&cfg); err != nil {
			return nil, fmt.Errorf("default configuration validation failed: %w", err)
		}
		return &cfg, nil
	}
	return l.Load(path)
}

// newViper builds a viper instance with defaults registered and PROVOKE_*
// environment overrides enabled.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PROVOKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("ollama.base_url", def.Ollama.BaseURL)
	v.SetDefault("ollama.attacker_model", def.Ollama.AttackerModel)
	v.SetDefault("ollama.target_model", def.Ollama.TargetModel)
	v.SetDefault("ollama.timeout_seconds", def.Ollama.TimeoutSeconds)
	v.SetDefault("ollama.temperature", def.Ollama.Temperature)
	v.SetDefault("ollama.step_limit", def.Ollama.StepLimit)
	v.SetDefault("redteam.max_findings", def.Redteam.MaxFindings)
	v.SetDefault("redteam.max_turns", def.Redteam.MaxTurns)
	v.SetDefault("redteam.categories", def.Redteam.Categories)
	v.SetDefault("output.dir", def.Output.Dir)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.log_level", def.Output.LogLevel)
	v.SetDefault("output.save_failed_attempts", def.Output.SaveFailedAttempts)
	v.SetDefault("output.database", def.Output.Database)
	return v
}

// interpolateEnvVars replaces ${VAR} references with their environment
// values. Unset variables interpolate to the empty string, which validation
// then catches on required fields.
func interpolateEnvVars(raw []byte) []byte {
	return envVarPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}
