// Package report serializes the outcome of a red-teaming run: one report
// document plus an individually addressable record per finding, all under a
// timestamped run directory.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/provoke/internal/redteam"
)

// Format selects the report serialization.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat normalizes a config string to a Format, defaulting to JSON.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatYAML:
		return FormatYAML
	case FormatMarkdown:
		return FormatMarkdown
	default:
		return FormatJSON
	}
}

// Summary is the header block of a run report.
type Summary struct {
	TotalVulnerabilitiesFound int       `json:"total_vulnerabilities_found" yaml:"total_vulnerabilities_found"`
	TotalConversations        int       `json:"total_conversations" yaml:"total_conversations"`
	CompletionTime            time.Time `json:"completion_time" yaml:"completion_time"`
	TargetModel               string    `json:"target_model" yaml:"target_model"`
	AttackerModel             string    `json:"attacker_model" yaml:"attacker_model"`
}

// Report is the full run artifact handed to persistence.
type Report struct {
	Summary             Summary                 `json:"summary" yaml:"summary"`
	Findings            []redteam.Finding       `json:"vulnerabilities" yaml:"vulnerabilities"`
	FailedAttempts      []*redteam.Conversation `json:"failed_attempts" yaml:"failed_attempts"`
	CurrentConversation *redteam.Conversation   `json:"current_conversation" yaml:"current_conversation"`
	State               *redteam.RunState       `json:"state" yaml:"state"`
}

// Writer persists run reports under a base output directory.
type Writer struct {
	baseDir            string
	format             Format
	saveFailedAttempts bool
	logger             *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithLogger sets the writer's logger.
func WithLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) { w.logger = logger }
}

// WithFormat sets the report serialization format.
func WithFormat(f Format) WriterOption {
	return func(w *Writer) { w.format = f }
}

// WithFailedAttempts controls whether archived conversations are written out
// as individual records.
func WithFailedAttempts(save bool) WriterOption {
	return func(w *Writer) { w.saveFailedAttempts = save }
}

// NewWriter creates a Writer rooted at baseDir.
func NewWriter(baseDir string, opts ...WriterOption) *Writer {
	w := &Writer{
		baseDir:            baseDir,
		format:             FormatJSON,
		saveFailedAttempts: true,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write builds the run directory and persists the report, one record per
// finding, and (optionally) one record per archived conversation. It returns
// the run directory path.
func (w *Writer) Write(rep *Report) (string, error) {
	runDir, err := w.createRunDir()
	if err != nil {
		return "", err
	}

	name := "report." + w.extension()
	if err := w.writeDocument(filepath.Join(runDir, name), rep); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	for _, f := range rep.Findings {
		path := filepath.Join(runDir, "findings", fmt.Sprintf("finding_%s.json", f.ID))
		if err := writeJSON(path, f); err != nil {
			return "", fmt.Errorf("failed to write finding %s: %w", f.ID, err)
		}
	}

	if w.saveFailedAttempts {
		for _, conv := range rep.FailedAttempts {
			path := filepath.Join(runDir, "conversations", fmt.Sprintf("conversation_%s.json", conv.ID))
			if err := writeJSON(path, conv); err != nil {
				return "", fmt.Errorf("failed to write conversation %s: %w", conv.ID, err)
			}
		}
	}

	w.logger.Info("report written", "dir", runDir, "findings", len(rep.Findings))
	return runDir, nil
}

// createRunDir makes <base>/redteam_<stamp>/ with its subdirectories.
func (w *Writer) createRunDir() (string, error) {
	stamp := time.Now().Format("20060102_150405")
	runDir := filepath.Join(w.baseDir, "redteam_"+stamp)
	for _, dir := range []string{runDir, filepath.Join(runDir, "findings"), filepath.Join(runDir, "conversations"), filepath.Join(runDir, "logs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return runDir, nil
}

func (w *Writer) extension() string {
	switch w.format {
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "md"
	default:
		return "json"
	}
}

func (w *Writer) writeDocument(path string, rep *Report) error {
	switch w.format {
	case FormatYAML:
		data, err := yaml.Marshal(rep)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case FormatMarkdown:
		return os.WriteFile(path, []byte(renderMarkdown(rep)), 0o644)
	default:
		return writeJSON(path, rep)
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// renderMarkdown produces a human-readable digest of the run.
func renderMarkdown(rep *Report) string {
	var b strings.Builder
	b.WriteString("# Red-Teaming Report\n\n")
	fmt.Fprintf(&b, "- Target model: %s\n", rep.Summary.TargetModel)
	fmt.Fprintf(&b, "- Attacker model: %s\n", rep.Summary.AttackerModel)
	fmt.Fprintf(&b, "- Vulnerabilities found: %d\n", rep.Summary.TotalVulnerabilitiesFound)
	fmt.Fprintf(&b, "- Total conversations: %d\n", rep.Summary.TotalConversations)
	fmt.Fprintf(&b, "- Completed: %s\n\n", rep.Summary.CompletionTime.Format(time.RFC3339))

	if len(rep.Findings) > 0 {
		b.WriteString("## Findings\n\n")
		for i, f := range rep.Findings {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, f.Title)
			fmt.Fprintf(&b, "- Category: %s\n", f.Category)
			fmt.Fprintf(&b, "- Severity: %s\n", strings.ToUpper(f.Severity.String()))
			fmt.Fprintf(&b, "- Conversation: %s\n\n", f.ConversationID)
			fmt.Fprintf(&b, "%s\n\n", f.Description)
		}
	}
	return b.String()
}
