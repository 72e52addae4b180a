// Package llm provides the model connectivity for a red-teaming run: one
// client for the attacking/judging model and one for the target under test,
// both served by an Ollama host through langchaingo.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

// ClientConfig configures a single model connection.
type ClientConfig struct {
	// BaseURL is the Ollama server URL. Defaults to the local daemon.
	BaseURL string

	// Model is the Ollama model tag to run.
	Model string

	// Temperature is passed through on every completion.
	Temperature float64

	// Timeout bounds each HTTP call. Network-level timeout policy lives
	// here, not in the orchestrator: the run loop treats a timeout like any
	// other recoverable completion failure.
	Timeout time.Duration
}

// Client is a thin completion client over one Ollama-hosted model.
type Client struct {
	llm         *ollama.LLM
	model       string
	temperature float64
}

// NewClient connects to the configured Ollama model.
func NewClient(cfg ClientConfig) (*Client, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	httpClient := &http.Client{}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	client, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client for %s: %w", cfg.Model, err)
	}

	return &Client{
		llm:         client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the model tag this client talks to.
func (c *Client) Model() string { return c.model }

// Complete sends a single-prompt completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, promptText string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, promptText),
	}

	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("completion failed for %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion for %s returned no choices", c.model)
	}
	return resp.Choices[0].Content, nil
}
