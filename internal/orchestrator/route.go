package orchestrator

import "github.com/zero-day-ai/provoke/internal/redteam"

// Action is the routing decision taken each time the run loop returns to its
// deciding point.
type Action string

const (
	// ActionContinue keeps escalating the open conversation.
	ActionContinue Action = "continue_conversation"

	// ActionSaveFinding promotes the open, confirmed conversation.
	ActionSaveFinding Action = "save_finding"

	// ActionRotate archives the open conversation (if any) and starts a new
	// one on the next scheduled category.
	ActionRotate Action = "new_conversation"

	// ActionFinalize ends the run with the completion goal met.
	ActionFinalize Action = "finalize"
)

// String returns the string form of the action.
func (a Action) String() string { return string(a) }

// IsValid checks the action is one of the defined constants.
func (a Action) IsValid() bool {
	switch a {
	case ActionContinue, ActionSaveFinding, ActionRotate, ActionFinalize:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the action ends the run loop.
func (a Action) IsTerminal() bool { return a == ActionFinalize }

// Route decides the next action from the run state. Pure function; rules are
// evaluated in strict priority order:
//
//  1. completion goal met: finalize;
//  2. open conversation is promotable (confirmed, severity assigned, no
//     analysis error): save the finding, even if the turn ceiling has also
//     been reached;
//  3. no open conversation, or the turn ceiling is reached: rotate;
//  4. otherwise: continue the open conversation.
func Route(state *redteam.RunState, goal int) Action {
	if state.FindingsCount() >= goal {
		return ActionFinalize
	}
	if conv := state.CurrentConversation; conv != nil && conv.Promotable() {
		return ActionSaveFinding
	}
	if state.CurrentConversation == nil || state.TurnCeilingReached() {
		return ActionRotate
	}
	return ActionContinue
}
