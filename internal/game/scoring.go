package game

import (
	"math"
	"strings"

	"pet-detective-service/internal/domain"
)

// Scorer grades a single round. It is deterministic and side-effect-free:
// identical inputs always produce identical results.
type Scorer struct {
	rules Rules
}

func NewScorer(rules Rules) *Scorer {
	return &Scorer{rules: rules}
}

// Grade compares the user's answer against the correct one and computes the
// awarded points. The answer comparison is case- and whitespace-insensitive.
// timeTaken outside [0, timeLimit] is clamped into range before the formula
// is applied. An unknown difficulty is rejected with ErrInvalidInput.
func (s *Scorer) Grade(userAnswer, correctAnswer string, timeTaken int, difficulty domain.Difficulty, streakBefore int) (domain.RoundResult, error) {
	rule, ok := s.rules.Rule(difficulty)
	if !ok {
		return domain.RoundResult{}, domain.ErrInvalidInput
	}
	if streakBefore < 0 {
		streakBefore = 0
	}
	if timeTaken < 0 {
		timeTaken = 0
	}
	if timeTaken > rule.TimeLimitSeconds {
		timeTaken = rule.TimeLimitSeconds
	}

	user := normalize(userAnswer)
	correct := normalize(correctAnswer)
	if user == "" || correct == "" || user != correct {
		return domain.RoundResult{
			IsCorrect:        false,
			TimeTakenSeconds: timeTaken,
			PointsAwarded:    0,
			StreakAfter:      0,
		}, nil
	}

	timeBonus := (s.rules.TimeBonusWindow - timeTaken) * s.rules.TimeBonusPerSecond
	if timeBonus < 0 {
		timeBonus = 0
	}
	streakBonus := streakBefore * s.rules.StreakBonusStep
	if streakBonus > s.rules.StreakBonusCap {
		streakBonus = s.rules.StreakBonusCap
	}
	points := math.Round(float64(s.rules.BasePoints+timeBonus+streakBonus) * rule.Multiplier)

	return domain.RoundResult{
		IsCorrect:        true,
		TimeTakenSeconds: timeTaken,
		PointsAwarded:    int(points),
		StreakAfter:      streakBefore + 1,
	}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
