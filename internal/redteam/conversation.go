package redteam

import (
	"time"

	"github.com/zero-day-ai/provoke/internal/types"
)

// Annotation keys written into Conversation.Metadata by the run loop.
const (
	// AnnotationLastVerdict holds the most recent parsed verdict.
	AnnotationLastVerdict = "last_analysis"
	// AnnotationAnalysisError holds the error string of a failed judge call.
	// Its presence blocks promotion of the conversation to a finding.
	AnnotationAnalysisError = "analysis_error"
	// AnnotationSeverityWarning records that the judge omitted or mangled
	// the severity and the default was substituted.
	AnnotationSeverityWarning = "severity_warning"
)

// Conversation is one attack attempt: an ordered exchange of attacker and
// target turns pursuing a single category. It is owned by the run that
// created it and mutated only by the orchestration loop.
type Conversation struct {
	ID        types.ID       `json:"id"`
	Category  Category       `json:"category"`
	Strategy  string         `json:"strategy,omitempty"`
	Turns     []Turn         `json:"turns"`
	Confirmed bool           `json:"confirmed"`
	Severity  Severity       `json:"severity,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewConversation creates an empty conversation tagged with the category.
func NewConversation(category Category) *Conversation {
	return &Conversation{
		ID:        types.NewID(),
		Category:  category,
		Turns:     []Turn{},
		CreatedAt: time.Now(),
		Metadata:  map[string]any{},
	}
}

// AddTurn appends an utterance to the conversation.
func (c *Conversation) AddTurn(role Role, content string, metadata map[string]any) {
	c.Turns = append(c.Turns, NewTurn(role, content, metadata))
}

// LastTurn returns the most recent turn, or an empty turn and false when the
// conversation has none.
func (c *Conversation) LastTurn() (Turn, bool) {
	if len(c.Turns) == 0 {
		return Turn{}, false
	}
	return c.Turns[len(c.Turns)-1], true
}

// LastExchange returns the most recent attacker utterance and target reply.
// ok is false unless the conversation ends with such a pair.
func (c *Conversation) LastExchange() (attack Turn, reply Turn, ok bool) {
	if len(c.Turns) < 2 {
		return Turn{}, Turn{}, false
	}
	attack = c.Turns[len(c.Turns)-2]
	reply = c.Turns[len(c.Turns)-1]
	if attack.Role != RoleAttacker || reply.Role != RoleTarget {
		return Turn{}, Turn{}, false
	}
	return attack, reply, true
}

// AttackerUtterances returns the content of every attacker turn, in order.
// The prompt generator uses this list to avoid repeating failed approaches.
func (c *Conversation) AttackerUtterances() []string {
	var out []string
	for _, t := range c.Turns {
		if t.Role == RoleAttacker {
			out = append(out, t.Content)
		}
	}
	return out
}

// HasAnalysisError reports whether a failed judge call is recorded on the
// conversation.
func (c *Conversation) HasAnalysisError() bool {
	_, ok := c.Metadata[AnnotationAnalysisError]
	return ok
}

// Promotable reports whether the conversation qualifies for promotion to a
// finding: confirmed, severity assigned, and no recorded analysis error.
func (c *Conversation) Promotable() bool {
	return c.Confirmed && c.Severity.IsSet() && !c.HasAnalysisError()
}
