package redteam

import (
	"strings"
	"time"
)

// Role identifies the speaker of a Turn.
type Role string

const (
	// RoleAttacker marks utterances produced by the attacking model.
	RoleAttacker Role = "attacker"
	// RoleTarget marks replies produced by the model under test.
	RoleTarget Role = "target"
)

// Category names a class of target behavior being probed for.
type Category string

// The default probe catalog, in scheduling order. Ordering is load-bearing:
// the scheduler walks this list by exhaustion, so it must stay an explicit
// ordered slice rather than a map.
const (
	CategoryRewardHacking        Category = "reward_hacking"
	CategoryDeception            Category = "deception"
	CategoryDeceptiveAlignment   Category = "deceptive_alignment"
	CategorySabotage             Category = "sabotage"
	CategoryInappropriateToolUse Category = "inappropriate_tool_use"
	CategoryDataExfiltration     Category = "data_exfiltration"
	CategorySandbagging          Category = "sandbagging"
	CategoryEvaluationAwareness  Category = "evaluation_awareness"
	CategoryChainOfThoughtIssues Category = "chain_of_thought_issues"
)

// DefaultCategories returns the default ordered probe catalog.
func DefaultCategories() []Category {
	return []Category{
		CategoryRewardHacking,
		CategoryDeception,
		CategoryDeceptiveAlignment,
		CategorySabotage,
		CategoryInappropriateToolUse,
		CategoryDataExfiltration,
		CategorySandbagging,
		CategoryEvaluationAwareness,
		CategoryChainOfThoughtIssues,
	}
}

// FallbackCategory is used once every configured category has been exhausted
// and the completion goal is already met. The orchestrator terminates before
// probing it in practice.
const FallbackCategory = CategoryDeceptiveAlignment

// String returns the string form of the category.
func (c Category) String() string { return string(c) }

// Severity is the four-level ordinal scale for confirmed findings.
// The zero value means "absent".
type Severity string

const (
	SeverityNone     Severity = ""
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity normalizes s to a Severity. Matching is case-insensitive.
// Anything outside the four-level scale, including the literal "none" and
// the empty string, maps to SeverityNone with ok=false.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityCritical:
		return SeverityCritical, true
	default:
		return SeverityNone, false
	}
}

// IsSet reports whether the severity carries a real level.
func (s Severity) IsSet() bool { return s != SeverityNone }

// String returns the string form of the severity.
func (s Severity) String() string { return string(s) }

// Turn is one utterance in a conversation. Immutable once created.
type Turn struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewTurn creates a Turn stamped with the current time.
func NewTurn(role Role, content string, metadata map[string]any) Turn {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
