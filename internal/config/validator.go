package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator checks a loaded configuration for structural problems before a
// run starts.
type Validator interface {
	Validate(cfg *Config) error
}

// structValidator implements Validator with go-playground struct tags.
type structValidator struct {
	validate *validator.Validate
}

// NewValidator creates the default Validator.
func NewValidator() Validator {
	return &structValidator{validate: validator.New()}
}

// Validate runs tag validation and returns the first set of violations as a
// single wrapped error.
func (v *structValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := v.validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
