package game

import (
	"math"

	"pet-detective-service/internal/domain"
)

// Session owns the cross-round counters for one fixed-length game. It is
// not safe for concurrent use; callers serialize access (the app layer
// holds one per connection behind its own lock).
type Session struct {
	difficulty   domain.Difficulty
	animalFilter domain.AnimalFilter
	target       int

	totalScore        int
	questionsAnswered int
	correctCount      int
	currentStreak     int
}

// NewSession validates the parameters and creates a fresh session.
func NewSession(difficulty domain.Difficulty, filter domain.AnimalFilter, target int) (*Session, error) {
	if !difficulty.Valid() || !filter.Valid() || !ValidTarget(target) {
		return nil, domain.ErrInvalidInput
	}
	return &Session{
		difficulty:   difficulty,
		animalFilter: filter,
		target:       target,
	}, nil
}

// RecordRound folds a graded outcome into the counters. Counters are only
// mutated here, so a failed grading call upstream can be retried without
// double-counting. Returns ErrSessionFinished once the target is reached.
func (s *Session) RecordRound(result domain.RoundResult) error {
	if s.Finished() {
		return domain.ErrSessionFinished
	}
	s.totalScore += result.PointsAwarded
	s.questionsAnswered++
	if result.IsCorrect {
		s.correctCount++
		s.currentStreak++
	} else {
		s.currentStreak = 0
	}
	return nil
}

// Finished reports whether the session reached its question target.
func (s *Session) Finished() bool {
	return s.questionsAnswered >= s.target
}

// Accuracy returns the rounded correct percentage, 0 before any round.
func (s *Session) Accuracy() int {
	if s.questionsAnswered == 0 {
		return 0
	}
	return int(math.Round(float64(s.correctCount) / float64(s.questionsAnswered) * 100))
}

// CurrentStreak exposes the consecutive-correct counter for grading calls.
func (s *Session) CurrentStreak() int {
	return s.currentStreak
}

// Difficulty returns the session's fixed difficulty.
func (s *Session) Difficulty() domain.Difficulty {
	return s.difficulty
}

// AnimalFilter returns the session's fixed breed filter.
func (s *Session) AnimalFilter() domain.AnimalFilter {
	return s.animalFilter
}

// Progress snapshots the counters for display.
func (s *Session) Progress() domain.Progress {
	return domain.Progress{
		TotalScore:        s.totalScore,
		QuestionsAnswered: s.questionsAnswered,
		QuestionTarget:    s.target,
		CorrectCount:      s.correctCount,
		CurrentStreak:     s.currentStreak,
		Finished:          s.Finished(),
	}
}

// Summary reports the final numbers for display and leaderboard submission.
func (s *Session) Summary() domain.SessionSummary {
	return domain.SessionSummary{
		Difficulty:        s.difficulty,
		AnimalFilter:      s.animalFilter,
		TotalScore:        s.totalScore,
		QuestionsAnswered: s.questionsAnswered,
		CorrectCount:      s.correctCount,
		Accuracy:          s.Accuracy(),
	}
}
