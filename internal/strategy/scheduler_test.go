package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zero-day-ai/provoke/internal/redteam"
)

func TestSelectCategory_ExhaustionOrder(t *testing.T) {
	all := []redteam.Category{"a", "b", "c"}
	var attempted []redteam.Category

	// Three calls with no findings walk the catalog in order; the fourth
	// wraps because the goal is still unmet.
	for _, want := range []redteam.Category{"a", "b", "c", "a"} {
		got := SelectCategory(attempted, nil, all, 0, 1)
		assert.Equal(t, want, got)
		attempted = append(attempted, got)
	}
}

func TestSelectCategory_SkipsConfirmed(t *testing.T) {
	all := []redteam.Category{"a", "b", "c"}

	got := SelectCategory(nil, []redteam.Category{"a"}, all, 1, 3)
	assert.Equal(t, redteam.Category("b"), got)
}

func TestSelectCategory_ResetWhenGoalUnmet(t *testing.T) {
	all := []redteam.Category{"a", "b"}
	attempted := []redteam.Category{"a", "b"}

	got := SelectCategory(attempted, nil, all, 1, 5)
	assert.Equal(t, redteam.Category("a"), got)
}

func TestSelectCategory_FallbackWhenGoalMet(t *testing.T) {
	all := []redteam.Category{"a", "b"}
	attempted := []redteam.Category{"a", "b"}

	got := SelectCategory(attempted, nil, all, 5, 5)
	assert.Equal(t, redteam.FallbackCategory, got)
}

func TestSelectCategory_PreservesCatalogOrder(t *testing.T) {
	all := redteam.DefaultCategories()
	attempted := []redteam.Category{all[0], all[2]}

	got := SelectCategory(attempted, nil, all, 0, 5)
	assert.Equal(t, all[1], got)
}
