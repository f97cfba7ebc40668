package game

import (
	"testing"

	"pet-detective-service/internal/domain"
)

func TestGradeBaselineMedium(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	// Base points only: zero time bonus at the 30s window, zero streak, x1.0.
	result, err := scorer.Grade("Beagle", "Beagle", 30, domain.DifficultyMedium, 0)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if !result.IsCorrect || result.PointsAwarded != 100 {
		t.Fatalf("expected 100 points, got %+v", result)
	}
	if result.StreakAfter != 1 {
		t.Fatalf("expected streak 1, got %d", result.StreakAfter)
	}
}

func TestGradeHardFastWithStreak(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	// timeBonus=60, streakBonus capped at 25: round((100+60+25)*1.5) = 278.
	result, err := scorer.Grade("Sphynx", "Sphynx", 0, domain.DifficultyHard, 5)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if result.PointsAwarded != 278 {
		t.Fatalf("expected 278 points, got %d", result.PointsAwarded)
	}
	if result.StreakAfter != 6 {
		t.Fatalf("expected streak 6, got %d", result.StreakAfter)
	}
}

func TestGradeIsDeterministic(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	first, err := scorer.Grade("Bengal", "Bengal", 7, domain.DifficultyEasy, 3)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	second, err := scorer.Grade("Bengal", "Bengal", 7, domain.DifficultyEasy, 3)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestGradeIncorrectAlwaysZero(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	cases := []struct {
		name         string
		user         string
		timeTaken    int
		streakBefore int
		difficulty   domain.Difficulty
	}{
		{"wrong answer", "Pug", 0, 9, domain.DifficultyHard},
		{"empty answer", "", 5, 2, domain.DifficultyMedium},
		{"whitespace only", "   ", 5, 2, domain.DifficultyEasy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := scorer.Grade(tc.user, "Beagle", tc.timeTaken, tc.difficulty, tc.streakBefore)
			if err != nil {
				t.Fatalf("grade: %v", err)
			}
			if result.IsCorrect || result.PointsAwarded != 0 || result.StreakAfter != 0 {
				t.Fatalf("expected zeroed incorrect result, got %+v", result)
			}
		})
	}
}

func TestGradeNormalizesCaseAndWhitespace(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	result, err := scorer.Grade("  maine coon ", "Maine Coon", 10, domain.DifficultyMedium, 0)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if !result.IsCorrect {
		t.Fatalf("expected case-insensitive match, got %+v", result)
	}
}

func TestGradeClampsTimeTaken(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	// Negative time clamps to 0, the maximum bonus.
	fast, err := scorer.Grade("Beagle", "Beagle", -5, domain.DifficultyMedium, 0)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if fast.TimeTakenSeconds != 0 || fast.PointsAwarded != 160 {
		t.Fatalf("expected clamp to 0 with 160 points, got %+v", fast)
	}

	// Over the hard limit clamps to 20s; window bonus still applies: (100+20)*1.5.
	slow, err := scorer.Grade("Beagle", "Beagle", 99, domain.DifficultyHard, 0)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if slow.TimeTakenSeconds != 20 || slow.PointsAwarded != 180 {
		t.Fatalf("expected clamp to 20 with 180 points, got %+v", slow)
	}
}

func TestGradeRejectsUnknownDifficulty(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	if _, err := scorer.Grade("Beagle", "Beagle", 5, "impossible", 0); err != domain.ErrInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGradeStreakBonusCap(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	// streak 4 => bonus 20, streak 5 and beyond => capped at 25.
	atFour, _ := scorer.Grade("Pug", "Pug", 30, domain.DifficultyMedium, 4)
	if atFour.PointsAwarded != 120 {
		t.Fatalf("expected 120 at streak 4, got %d", atFour.PointsAwarded)
	}
	atTen, _ := scorer.Grade("Pug", "Pug", 30, domain.DifficultyMedium, 10)
	if atTen.PointsAwarded != 125 {
		t.Fatalf("expected 125 at streak 10, got %d", atTen.PointsAwarded)
	}
}

func TestGradeEasyMultiplier(t *testing.T) {
	scorer := NewScorer(DefaultRules())

	// (100+0+0)*0.8 = 80.
	result, err := scorer.Grade("Beagle", "Beagle", 30, domain.DifficultyEasy, 0)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if result.PointsAwarded != 80 {
		t.Fatalf("expected 80 points on easy, got %d", result.PointsAwarded)
	}
}
