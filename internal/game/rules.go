package game

import "pet-detective-service/internal/domain"

// DifficultyRule fixes the per-difficulty gameplay parameters.
type DifficultyRule struct {
	TimeLimitSeconds int
	OptionCount      int
	Multiplier       float64
}

// Rules carries every tunable the round engine and scorer consume. It is
// passed in at construction so tests can substitute alternative tables.
type Rules struct {
	Difficulties map[domain.Difficulty]DifficultyRule

	// Scoring knobs for the canonical formula.
	BasePoints         int
	TimeBonusWindow    int // seconds; fixed reference window, not the time limit
	TimeBonusPerSecond int
	StreakBonusStep    int
	StreakBonusCap     int
}

// DefaultRules returns the production tables: 45s/30s/20s limits, 4/4/6
// options, 0.8/1.0/1.5 multipliers, and the 100-base scoring formula.
func DefaultRules() Rules {
	return Rules{
		Difficulties: map[domain.Difficulty]DifficultyRule{
			domain.DifficultyEasy:   {TimeLimitSeconds: 45, OptionCount: 4, Multiplier: 0.8},
			domain.DifficultyMedium: {TimeLimitSeconds: 30, OptionCount: 4, Multiplier: 1.0},
			domain.DifficultyHard:   {TimeLimitSeconds: 20, OptionCount: 6, Multiplier: 1.5},
		},
		BasePoints:         100,
		TimeBonusWindow:    30,
		TimeBonusPerSecond: 2,
		StreakBonusStep:    5,
		StreakBonusCap:     25,
	}
}

// Rule looks up the table entry for a difficulty.
func (r Rules) Rule(d domain.Difficulty) (DifficultyRule, bool) {
	rule, ok := r.Difficulties[d]
	return rule, ok
}

// ValidTarget reports whether target is an allowed session length.
func ValidTarget(target int) bool {
	switch target {
	case 5, 10, 15, 20:
		return true
	}
	return false
}
