package redteam

// RunState is the single mutable state object for one orchestration run.
// Each run owns exactly one instance; there is no cross-run sharing and no
// ambient state, so no locking is needed.
type RunState struct {
	// CurrentConversation is the open attempt, nil between conversations.
	CurrentConversation *Conversation `json:"current_conversation"`

	// Findings accumulates confirmed vulnerabilities. Never shrinks.
	Findings []Finding `json:"findings"`

	// FailedAttempts archives conversations abandoned at the turn ceiling.
	FailedAttempts []*Conversation `json:"failed_attempts"`

	// CurrentCategory is the category the open conversation pursues.
	CurrentCategory Category `json:"current_category"`

	// Turn counts target queries within the open conversation. Reset to 0
	// exactly when a new conversation opens; incremented by exactly one per
	// target query, success or failure.
	Turn int `json:"turn"`

	// MaxTurns is the per-conversation turn ceiling.
	MaxTurns int `json:"max_turns"`

	// AttemptedCategories records, in order, every category pursued this
	// run. A category is appended before its first attack is generated.
	AttemptedCategories []Category `json:"attempted_categories"`
}

// NewRunState creates a fresh state with the given turn ceiling.
func NewRunState(maxTurns int) *RunState {
	return &RunState{
		Findings:            []Finding{},
		FailedAttempts:      []*Conversation{},
		AttemptedCategories: []Category{},
		MaxTurns:            maxTurns,
	}
}

// FindingsCount returns the number of confirmed findings so far.
func (s *RunState) FindingsCount() int { return len(s.Findings) }

// ConfirmedCategories returns the categories of all confirmed findings.
func (s *RunState) ConfirmedCategories() []Category {
	out := make([]Category, 0, len(s.Findings))
	for _, f := range s.Findings {
		out = append(out, f.Category)
	}
	return out
}

// OpenConversation starts a new conversation for the category, resetting the
// turn counter. The category is recorded as attempted immediately so repeated
// scheduling without intervening findings progresses through the catalog.
func (s *RunState) OpenConversation(category Category) *Conversation {
	s.CurrentCategory = category
	s.AttemptedCategories = append(s.AttemptedCategories, category)
	s.CurrentConversation = NewConversation(category)
	s.Turn = 0
	return s.CurrentConversation
}

// ArchiveCurrent moves the open conversation, if any, into the failed
// attempts list and clears it.
func (s *RunState) ArchiveCurrent() {
	if s.CurrentConversation == nil {
		return
	}
	s.FailedAttempts = append(s.FailedAttempts, s.CurrentConversation)
	s.CurrentConversation = nil
}

// AddFinding appends a confirmed finding.
func (s *RunState) AddFinding(f Finding) {
	s.Findings = append(s.Findings, f)
}

// TotalConversations counts archived attempts plus the open conversation.
func (s *RunState) TotalConversations() int {
	n := len(s.FailedAttempts)
	if s.CurrentConversation != nil {
		n++
	}
	return n
}

// TurnCeilingReached reports whether the open conversation has used up its
// turn budget.
func (s *RunState) TurnCeilingReached() bool {
	return s.Turn >= s.MaxTurns
}
