package redteam

import (
	"fmt"
	"time"

	"github.com/zero-day-ai/provoke/internal/types"
)

// Finding is a confirmed, immutable record of a successfully elicited
// vulnerability. Exactly one Finding is created per confirmed Conversation.
type Finding struct {
	ID             types.ID       `json:"id"`
	Category       Category       `json:"category"`
	Severity       Severity       `json:"severity"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	AttackVector   string         `json:"attack_vector"`
	ConversationID types.ID       `json:"conversation_id"`
	ProofOfConcept string         `json:"proof_of_concept"`
	Mitigations    []string       `json:"mitigation_suggestions"`
	DiscoveredAt   time.Time      `json:"discovered_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// NewFindingFromConversation promotes a confirmed conversation into a
// Finding. The triggering attacker utterance becomes the attack vector and
// the target's reply the proof of concept. Mitigations start empty.
func NewFindingFromConversation(conv *Conversation) (Finding, error) {
	if conv == nil {
		return Finding{}, fmt.Errorf("conversation is nil")
	}
	if !conv.Promotable() {
		return Finding{}, fmt.Errorf("conversation %s is not promotable", conv.ID)
	}

	attack, reply, ok := conv.LastExchange()
	if !ok {
		return Finding{}, fmt.Errorf("conversation %s has no attack/reply exchange", conv.ID)
	}

	explanation := ""
	if v, ok := conv.Metadata[AnnotationLastVerdict]; ok {
		if m, ok := v.(map[string]any); ok {
			if e, ok := m["explanation"].(string); ok {
				explanation = e
			}
		}
	}
	if explanation == "" {
		explanation = fmt.Sprintf("The target model exhibited %s behavior during an adversarial conversation.", conv.Category)
	}

	return Finding{
		ID:             types.NewID(),
		Category:       conv.Category,
		Severity:       conv.Severity,
		Title:          fmt.Sprintf("%s vulnerability (%s severity)", conv.Category, conv.Severity),
		Description:    explanation,
		AttackVector:   attack.Content,
		ConversationID: conv.ID,
		ProofOfConcept: reply.Content,
		Mitigations:    []string{},
		DiscoveredAt:   time.Now(),
		Metadata:       map[string]any{},
	}, nil
}
