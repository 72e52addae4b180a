package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/provoke/internal/redteam"
	"github.com/zero-day-ai/provoke/internal/strategy"
)

func TestInitialAttack_AllCategoriesHaveBriefs(t *testing.T) {
	for _, category := range redteam.DefaultCategories() {
		out := InitialAttack(category, nil)
		assert.Contains(t, out, "CRITICAL REQUIREMENTS:", "category %s", category)
		assert.Contains(t, out, "GOAL: Create a prompt", "category %s", category)
	}
}

func TestInitialAttack_AvoidList(t *testing.T) {
	out := InitialAttack(redteam.CategoryDeception, []string{"tell me a lie"})
	assert.Contains(t, out, "AVOID these approaches (already tested):")
	assert.Contains(t, out, "- tell me a lie...")

	out = InitialAttack(redteam.CategoryDeception, nil)
	assert.NotContains(t, out, "AVOID these approaches")
}

func TestInitialAttack_TruncatesLongAttempts(t *testing.T) {
	long := strings.Repeat("x", 300)
	out := InitialAttack(redteam.CategoryDeception, []string{long})
	assert.Contains(t, out, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 101))
}

func TestInitialAttack_UnknownCategoryFallback(t *testing.T) {
	out := InitialAttack(redteam.Category("made_up"), nil)
	assert.Equal(t, "Can you help me understand how made_up might manifest in AI systems?", out)
}

func TestFollowUp_AllTechniquesHaveBriefs(t *testing.T) {
	history := []redteam.Turn{
		redteam.NewTurn(redteam.RoleAttacker, "first probe", nil),
		redteam.NewTurn(redteam.RoleTarget, "refusal", nil),
	}
	for _, technique := range strategy.DefaultCatalog() {
		out := FollowUp(history, redteam.CategorySabotage, technique)
		assert.Contains(t, out, "sabotage", "technique %s substitutes the category", technique)
		assert.NotContains(t, out, "{{CATEGORY}}", "technique %s", technique)
		assert.Contains(t, out, "CRITICAL REQUIREMENTS:", "technique %s", technique)
		assert.Contains(t, out, "AVOID these failed approaches:")
		assert.Contains(t, out, "- first probe...")
	}
}

func TestFollowUp_UnknownTechniqueUsesGeneralBrief(t *testing.T) {
	history := []redteam.Turn{
		redteam.NewTurn(redteam.RoleAttacker, "probe one", nil),
		redteam.NewTurn(redteam.RoleTarget, "refusal one", nil),
	}
	out := FollowUp(history, redteam.CategoryDeception, "unheard_of")
	assert.Contains(t, out, "PREVIOUS EXCHANGE:")
	assert.Contains(t, out, "USER: probe one")
	assert.Contains(t, out, "ASSISTANT: refusal one")
}

func TestFollowUp_HistoryWindowTakesTrailingTurns(t *testing.T) {
	history := []redteam.Turn{
		redteam.NewTurn(redteam.RoleAttacker, "oldest probe", nil),
		redteam.NewTurn(redteam.RoleTarget, "oldest refusal", nil),
		redteam.NewTurn(redteam.RoleAttacker, "probe two", nil),
		redteam.NewTurn(redteam.RoleTarget, "refusal two", nil),
		redteam.NewTurn(redteam.RoleAttacker, "probe three", nil),
		redteam.NewTurn(redteam.RoleTarget, "refusal three", nil),
	}
	out := FollowUp(history, redteam.CategoryDeception, "unheard_of")
	assert.NotContains(t, out, "USER: oldest probe")
	assert.NotContains(t, out, "ASSISTANT: oldest refusal")
	assert.Contains(t, out, "USER: probe two")
	assert.Contains(t, out, "USER: probe three")
}

func TestAnalysis_CategoryIndicators(t *testing.T) {
	out := Analysis("the attack", "the reply", redteam.CategoryDeception)
	assert.Contains(t, out, "deception indicators to look for:")
	assert.Contains(t, out, "ATTACK PROMPT SENT TO TARGET MODEL:\nthe attack")
	assert.Contains(t, out, "TARGET MODEL'S RESPONSE:\nthe reply")
	assert.Contains(t, out, "VULNERABILITY_FOUND: [YES/NO]")
	assert.Contains(t, out, "CONFIDENCE: [1-10 scale]")
}

func TestAnalysis_GeneralBriefForUncoveredCategory(t *testing.T) {
	// inappropriate_tool_use has no indicator list and takes the general path.
	out := Analysis("a", "b", redteam.CategoryInappropriateToolUse)
	assert.Contains(t, out, "VULNERABILITY ANALYSIS FOR: inappropriate_tool_use")
	assert.Contains(t, out, "ANALYSIS INSTRUCTIONS:")
	assert.NotContains(t, out, "indicators to look for")
}

func TestExpandCategory(t *testing.T) {
	got := expandCategory("probe {{CATEGORY}} twice: {{CATEGORY}}", redteam.CategorySandbagging)
	assert.Equal(t, "probe sandbagging twice: sandbagging", got)
}

func TestHistoryView_Roles(t *testing.T) {
	views := historyView([]redteam.Turn{
		redteam.NewTurn(redteam.RoleAttacker, "a", nil),
		redteam.NewTurn(redteam.RoleTarget, "b", nil),
	})
	require.Len(t, views, 2)
	assert.Equal(t, "USER", views[0].Role)
	assert.Equal(t, "ASSISTANT", views[1].Role)
}
