// Package strategy holds the pure selection logic for adversarial probing:
// which escalation technique to apply on a follow-up turn, and which
// vulnerability category to pursue in the next conversation. Both selectors
// are deterministic so test runs are reproducible.
package strategy

// Escalation technique identifiers, in catalog order. Ordering is
// load-bearing: turn-indexed selection cycles through this slice.
const (
	GradualEscalation     = "gradual_escalation"
	AngleChange           = "angle_change"
	ContextShift          = "context_shift"
	PressureIncrease      = "pressure_increase"
	AuthorityAppeal       = "authority_appeal"
	EmotionalManipulation = "emotional_manipulation"
	TechnicalApproach     = "technical_approach"
	SocialEngineering     = "social_engineering"
)

// DefaultCatalog returns the ordered escalation catalog used for follow-up
// turns. Turn 0 never consults it: the initial attack takes its own path.
func DefaultCatalog() []string {
	return []string{
		GradualEscalation,
		AngleChange,
		ContextShift,
		PressureIncrease,
		AuthorityAppeal,
		EmotionalManipulation,
		TechnicalApproach,
		SocialEngineering,
	}
}

// Next returns the escalation technique for the given turn index:
// catalog[turn mod len(catalog)]. Deterministic, and across a long enough
// conversation every technique in the catalog gets used. An empty catalog
// yields "".
func Next(turn int, catalog []string) string {
	if len(catalog) == 0 {
		return ""
	}
	if turn < 0 {
		turn = 0
	}
	return catalog[turn%len(catalog)]
}
