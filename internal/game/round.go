package game

import (
	"context"
	"sync"
	"time"

	"pet-detective-service/internal/domain"
)

// RoundState tracks where a round is in its lifecycle.
type RoundState int

const (
	StateIdle RoundState = iota
	StateAwaitingAnswer
	StateLocked
	StateGraded
)

// QuestionSource produces questions filtered by difficulty and animal type.
type QuestionSource interface {
	Next(ctx context.Context, difficulty domain.Difficulty, filter domain.AnimalFilter, modelID string) (domain.Question, error)
}

// Grader turns round inputs into a graded outcome. *Scorer is the
// in-process implementation.
type Grader interface {
	Grade(userAnswer, correctAnswer string, timeTaken int, difficulty domain.Difficulty, streakBefore int) (domain.RoundResult, error)
}

// RoundEngine drives the lifecycle of exactly one question:
// Idle -> AwaitingAnswer -> Locked -> Graded. Timeouts are delivered through
// the onTimeout callback; a stale timer from a previous round is discarded
// via a per-round generation counter.
type RoundEngine struct {
	rules     Rules
	source    QuestionSource
	grader    Grader
	clock     func() time.Time
	schedule  func(d time.Duration, f func()) func()
	onTimeout func(domain.RoundResult)

	mu         sync.Mutex
	state      RoundState
	generation uint64
	question   domain.Question
	difficulty domain.Difficulty
	rule       DifficultyRule
	selected   string
	startedAt  time.Time
	cancelTick func()
}

// NewRoundEngine builds an engine with the real clock and timer.
// onTimeout may be nil when the caller polls state instead.
func NewRoundEngine(rules Rules, source QuestionSource, grader Grader, onTimeout func(domain.RoundResult)) *RoundEngine {
	return NewRoundEngineWithClock(rules, source, grader, onTimeout, time.Now, func(d time.Duration, f func()) func() {
		t := time.AfterFunc(d, f)
		return func() { t.Stop() }
	})
}

// NewRoundEngineWithClock allows deterministic time and timer control in tests.
func NewRoundEngineWithClock(rules Rules, source QuestionSource, grader Grader, onTimeout func(domain.RoundResult), clock func() time.Time, schedule func(d time.Duration, f func()) func()) *RoundEngine {
	return &RoundEngine{
		rules:     rules,
		source:    source,
		grader:    grader,
		clock:     clock,
		schedule:  schedule,
		onTimeout: onTimeout,
		state:     StateIdle,
	}
}

// State returns the current round state.
func (e *RoundEngine) State() RoundState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Question returns the active question. Zero value outside a round.
func (e *RoundEngine) Question() domain.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.question
}

// StartRound fetches the next question and begins the countdown. Only legal
// from Idle or Graded; a source failure leaves the engine in Idle so the
// caller can retry or change the filter.
func (e *RoundEngine) StartRound(ctx context.Context, difficulty domain.Difficulty, filter domain.AnimalFilter, modelID string) (domain.Question, error) {
	e.mu.Lock()
	if e.state == StateAwaitingAnswer || e.state == StateLocked {
		e.mu.Unlock()
		return domain.Question{}, domain.ErrInvalidInput
	}
	rule, ok := e.rules.Rule(difficulty)
	if !ok || !filter.Valid() {
		e.state = StateIdle
		e.mu.Unlock()
		return domain.Question{}, domain.ErrInvalidInput
	}
	e.stopTimerLocked()
	e.state = StateIdle
	e.mu.Unlock()

	question, err := e.source.Next(ctx, difficulty, filter, modelID)
	if err != nil {
		return domain.Question{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	gen := e.generation
	e.state = StateAwaitingAnswer
	e.question = question
	e.difficulty = difficulty
	e.rule = rule
	e.selected = ""
	e.startedAt = e.clock()
	e.cancelTick = e.schedule(time.Duration(rule.TimeLimitSeconds)*time.Second, func() {
		e.timeoutFired(gen)
	})
	return question, nil
}

// Select records a pending option. Reselection before submit overwrites the
// previous choice. Ignored outside AwaitingAnswer.
func (e *RoundEngine) Select(option string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAwaitingAnswer {
		return
	}
	e.selected = option
}

// SubmitAnswer selects and submits in one step.
func (e *RoundEngine) SubmitAnswer(answer string, streakBefore int) (domain.RoundResult, bool, error) {
	e.Select(answer)
	return e.Submit(streakBefore)
}

// Submit locks the round and grades the pending selection. Returns ok=false
// when the engine is not awaiting an answer (late or duplicate submissions
// are ignored). A grading failure rewinds to AwaitingAnswer with the
// remaining countdown intact so the same round can be retried.
func (e *RoundEngine) Submit(streakBefore int) (domain.RoundResult, bool, error) {
	e.mu.Lock()
	if e.state != StateAwaitingAnswer {
		e.mu.Unlock()
		return domain.RoundResult{}, false, nil
	}
	e.state = StateLocked
	e.stopTimerLocked()

	elapsed := int(e.clock().Sub(e.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > e.rule.TimeLimitSeconds {
		elapsed = e.rule.TimeLimitSeconds
	}
	answer := e.selected
	correct := e.question.CorrectAnswer
	difficulty := e.difficulty
	gen := e.generation
	rule := e.rule
	startedAt := e.startedAt
	e.mu.Unlock()

	result, err := e.grader.Grade(answer, correct, elapsed, difficulty, streakBefore)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen || e.state != StateLocked {
		// Round was torn down while grading was in flight.
		return domain.RoundResult{}, false, nil
	}
	if err != nil {
		e.state = StateAwaitingAnswer
		remaining := time.Duration(rule.TimeLimitSeconds)*time.Second - e.clock().Sub(startedAt)
		if remaining < 0 {
			remaining = 0
		}
		e.cancelTick = e.schedule(remaining, func() {
			e.timeoutFired(gen)
		})
		return domain.RoundResult{}, false, err
	}
	e.state = StateGraded
	return result, true, nil
}

// Abandon cancels any countdown and returns the engine to Idle. Used on
// session teardown and reset.
func (e *RoundEngine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	e.generation++
	e.state = StateIdle
	e.question = domain.Question{}
	e.selected = ""
}

// timeoutFired handles countdown expiry. The generation guard makes a timer
// scheduled for round N a no-op once round N+1 has started.
func (e *RoundEngine) timeoutFired(gen uint64) {
	e.mu.Lock()
	if e.generation != gen || e.state != StateAwaitingAnswer {
		e.mu.Unlock()
		return
	}
	e.state = StateGraded
	e.cancelTick = nil
	result := domain.RoundResult{
		IsCorrect:        false,
		TimeTakenSeconds: e.rule.TimeLimitSeconds,
		PointsAwarded:    0,
		StreakAfter:      0,
	}
	cb := e.onTimeout
	e.mu.Unlock()

	if cb != nil {
		cb(result)
	}
}

func (e *RoundEngine) stopTimerLocked() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}
