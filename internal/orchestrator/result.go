package orchestrator

import (
	"time"

	"github.com/zero-day-ai/provoke/internal/redteam"
)

// now is stubbed in tests that assert on timestamps.
var now = time.Now

// RunResult is what a run hands back to its caller. Err is nil on success;
// on failure it is a *types.RunError whose kind distinguishes the
// step-ceiling fault from generic faults. Findings gathered before a
// failure are always included.
type RunResult struct {
	Success    bool              `json:"success"`
	Err        error             `json:"-"`
	Findings   []redteam.Finding `json:"findings"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`

	// TotalConversations counts archived attempts, promoted conversations,
	// and the open conversation if any.
	TotalConversations int `json:"total_conversations"`
}

// Error returns the failure message, or "" on success.
func (res *RunResult) Error() string {
	if res.Err == nil {
		return ""
	}
	return res.Err.Error()
}

func (r *Runner) newResult(started time.Time, err error) *RunResult {
	total := len(r.state.FailedAttempts) + len(r.state.Findings)
	if r.state.CurrentConversation != nil {
		total++
	}
	return &RunResult{
		Success:            err == nil,
		Err:                err,
		Findings:           r.state.Findings,
		StartedAt:          started,
		FinishedAt:         now(),
		TotalConversations: total,
	}
}
