package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_CyclesThroughCatalog(t *testing.T) {
	catalog := []string{"a", "b", "c"}

	assert.Equal(t, "a", Next(0, catalog))
	assert.Equal(t, "b", Next(1, catalog))
	assert.Equal(t, "c", Next(2, catalog))
	assert.Equal(t, "a", Next(3, catalog))
	assert.Equal(t, "b", Next(4, catalog))
}

func TestNext_Deterministic(t *testing.T) {
	catalog := DefaultCatalog()
	for turn := 0; turn < 3*len(catalog); turn++ {
		first := Next(turn, catalog)
		assert.Equal(t, first, Next(turn, catalog), "turn %d", turn)
		assert.Equal(t, catalog[turn%len(catalog)], first, "turn %d", turn)
	}
}

func TestNext_FullCoverage(t *testing.T) {
	catalog := DefaultCatalog()
	seen := map[string]bool{}
	for turn := 0; turn < len(catalog); turn++ {
		seen[Next(turn, catalog)] = true
	}
	assert.Len(t, seen, len(catalog))
}

func TestNext_EmptyCatalog(t *testing.T) {
	assert.Empty(t, Next(5, nil))
}

func TestNext_NegativeTurn(t *testing.T) {
	catalog := []string{"a", "b"}
	assert.Equal(t, "a", Next(-1, catalog))
}

func TestDefaultCatalog_OrderIsStable(t *testing.T) {
	assert.Equal(t, []string{
		GradualEscalation,
		AngleChange,
		ContextShift,
		PressureIncrease,
		AuthorityAppeal,
		EmotionalManipulation,
		TechnicalApproach,
		SocialEngineering,
	}, DefaultCatalog())
}
