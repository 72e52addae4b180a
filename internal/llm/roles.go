package llm

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/provoke/internal/prompt"
	"github.com/zero-day-ai/provoke/internal/redteam"
)

// Attacker generates adversarial utterances with the red-teaming model.
// It satisfies the orchestrator's AttackGenerator contract.
type Attacker struct {
	client *Client
}

// NewAttacker wraps a client in the attacker role.
func NewAttacker(client *Client) *Attacker {
	return &Attacker{client: client}
}

// InitialAttack produces the opening utterance for a category, steering the
// model away from previously tried approaches.
func (a *Attacker) InitialAttack(ctx context.Context, category redteam.Category, previousAttempts []string) (string, error) {
	brief := prompt.InitialAttack(category, previousAttempts)
	out, err := a.client.Complete(ctx, brief)
	if err != nil {
		return "", fmt.Errorf("initial attack generation: %w", err)
	}
	return CleanOutput(out), nil
}

// FollowUpAttack produces an escalated utterance for a non-initial turn
// using the given technique.
func (a *Attacker) FollowUpAttack(ctx context.Context, history []redteam.Turn, category redteam.Category, technique string) (string, error) {
	brief := prompt.FollowUp(history, category, technique)
	out, err := a.client.Complete(ctx, brief)
	if err != nil {
		return "", fmt.Errorf("follow-up attack generation: %w", err)
	}
	return CleanOutput(out), nil
}

// Target sends attack utterances to the model under test. It satisfies the
// orchestrator's TargetConnector contract.
type Target struct {
	client *Client
}

// NewTarget wraps a client in the target role.
func NewTarget(client *Client) *Target {
	return &Target{client: client}
}

// Query sends the utterance verbatim and returns the raw reply. The target's
// output is never cleaned: reasoning blocks in the reply are themselves
// evidence.
func (t *Target) Query(ctx context.Context, utterance string) (string, error) {
	out, err := t.client.Complete(ctx, utterance)
	if err != nil {
		return "", fmt.Errorf("target query: %w", err)
	}
	return out, nil
}

// Judge asks the red-teaming model to analyze an exchange. It satisfies the
// orchestrator's Judge contract and returns raw analysis text for the
// verdict parser.
type Judge struct {
	client *Client
}

// NewJudge wraps a client in the judge role.
func NewJudge(client *Client) *Judge {
	return &Judge{client: client}
}

// Judge analyzes one attack/reply pair for the category and returns the
// model's labeled analysis text.
func (j *Judge) Judge(ctx context.Context, attack, reply string, category redteam.Category) (string, error) {
	brief := prompt.Analysis(attack, reply, category)
	out, err := j.client.Complete(ctx, brief)
	if err != nil {
		return "", fmt.Errorf("response analysis: %w", err)
	}
	return CleanOutput(out), nil
}
