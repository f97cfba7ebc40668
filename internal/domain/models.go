package domain

import "time"

// Difficulty selects the time limit, option count, and score multiplier
// for a round.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the allowed game modes.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// AnimalFilter constrains which breed categories questions are drawn from.
type AnimalFilter string

const (
	FilterCats AnimalFilter = "cats"
	FilterDogs AnimalFilter = "dogs"
	FilterBoth AnimalFilter = "both"
)

// Valid reports whether the filter is one of the allowed values.
func (f AnimalFilter) Valid() bool {
	switch f {
	case FilterCats, FilterDogs, FilterBoth:
		return true
	}
	return false
}

// AnimalType classifies a breed.
type AnimalType string

const (
	AnimalCat AnimalType = "cat"
	AnimalDog AnimalType = "dog"
)

// Question is one trivia prompt. Immutable once issued; the AI fields are
// informational only and never affect scoring.
type Question struct {
	ImageRef      string   `json:"imageRef"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	AIPrediction  string   `json:"aiPrediction"`
	AIConfidence  float64  `json:"aiConfidence"`
}

// RoundResult is the graded outcome of a single round.
type RoundResult struct {
	IsCorrect        bool `json:"isCorrect"`
	TimeTakenSeconds int  `json:"timeTakenSeconds"`
	PointsAwarded    int  `json:"pointsAwarded"`
	StreakAfter      int  `json:"streakAfter"`
}

// Progress is a snapshot of session counters after a recorded round.
type Progress struct {
	TotalScore        int  `json:"totalScore"`
	QuestionsAnswered int  `json:"questionsAnswered"`
	QuestionTarget    int  `json:"questionTarget"`
	CorrectCount      int  `json:"correctCount"`
	CurrentStreak     int  `json:"currentStreak"`
	Finished          bool `json:"finished"`
}

// SessionSummary is reported upward when a session reaches its target and
// is what the persistence sink receives.
type SessionSummary struct {
	UserID            string       `json:"userId,omitempty"`
	Username          string       `json:"username,omitempty"`
	Difficulty        Difficulty   `json:"difficulty"`
	AnimalFilter      AnimalFilter `json:"animalFilter"`
	ModelID           string       `json:"modelId,omitempty"`
	TotalScore        int          `json:"totalScore"`
	QuestionsAnswered int          `json:"questionsAnswered"`
	CorrectCount      int          `json:"correctCount"`
	Accuracy          int          `json:"accuracy"`
}

// LeaderboardEntry is one persisted score row.
type LeaderboardEntry struct {
	UserID            string    `json:"userId"`
	Username          string    `json:"username"`
	Score             int       `json:"score"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	Accuracy          int       `json:"accuracy"`
	CreatedAt         time.Time `json:"createdAt"`
}

// BreedImage is one catalog row: an image reference for a breed.
type BreedImage struct {
	Breed      string     `json:"breed"`
	AnimalType AnimalType `json:"animalType"`
	ImageRef   string     `json:"imageRef"`
}
