package strategy

import "github.com/zero-day-ai/provoke/internal/redteam"

// SelectCategory chooses the vulnerability category for the next
// conversation. Round-robin by exhaustion over all, preserving its order:
//
//   - categories neither attempted nor confirmed come first, in order;
//   - once everything has been tried and the goal is still unmet, the pool
//     resets to the full list so categories can be re-attempted;
//   - with the goal met and nothing remaining, the fixed fallback category
//     is returned; in practice the orchestrator terminates before probing it.
//
// The caller must record the choice as attempted before generating any
// attack, so repeated calls without intervening findings walk the catalog
// deterministically.
func SelectCategory(attempted, confirmed []redteam.Category, all []redteam.Category, findings, goal int) redteam.Category {
	tried := map[redteam.Category]bool{}
	for _, c := range attempted {
		tried[c] = true
	}
	for _, c := range confirmed {
		tried[c] = true
	}

	var remaining []redteam.Category
	for _, c := range all {
		if !tried[c] {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 && findings < goal {
		remaining = all
	}

	if len(remaining) > 0 {
		return remaining[0]
	}
	return redteam.FallbackCategory
}
