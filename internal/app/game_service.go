package app

import (
	"context"
	"log"
	"sync"
	"time"

	"pet-detective-service/internal/domain"
	"pet-detective-service/internal/game"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(id string, session *GameSession)
	Get(id string) (*GameSession, bool)
	Delete(id string)
}

// LeaderboardSink persists finished sessions and serves the score board.
type LeaderboardSink interface {
	Submit(ctx context.Context, summary domain.SessionSummary) error
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// StartParams carries everything needed to open a session.
type StartParams struct {
	UserID         string
	Username       string
	Difficulty     domain.Difficulty
	AnimalFilter   domain.AnimalFilter
	QuestionTarget int
	ModelID        string
}

// GameService contains the core game use cases.
type GameService struct {
	rules    game.Rules
	source   game.QuestionSource
	sessions SessionRepository
	sink     LeaderboardSink
}

func NewGameService(rules game.Rules, source game.QuestionSource, sessions SessionRepository, sink LeaderboardSink) *GameService {
	return &GameService{rules: rules, source: source, sessions: sessions, sink: sink}
}

// StartSession creates a fresh session under id, replacing any previous one
// with the same id. An invalid identity downgrades the player to a guest
// rather than failing; gameplay never requires an account.
func (s *GameService) StartSession(ctx context.Context, id string, params StartParams) (domain.Progress, error) {
	if !domain.ValidModelID(params.ModelID) {
		return domain.Progress{}, domain.ErrInvalidInput
	}
	core, err := game.NewSession(params.Difficulty, params.AnimalFilter, params.QuestionTarget)
	if err != nil {
		return domain.Progress{}, err
	}

	userID, username := params.UserID, params.Username
	if userID != "" && (!domain.ValidUserID(userID) || !domain.ValidUsername(username)) {
		userID, username = "", ""
	}

	if old, ok := s.sessions.Get(id); ok {
		old.teardown()
	}

	gs := &GameSession{
		id:          id,
		userID:      userID,
		username:    username,
		modelID:     params.ModelID,
		session:     core,
		subscribers: make(map[chan Event]struct{}),
	}
	gs.engine = game.NewRoundEngine(s.rules, s.source, game.NewScorer(s.rules), gs.handleTimeout)
	gs.onFinish = s.submitScore
	s.sessions.Put(id, gs)
	return core.Progress(), nil
}

// StartRound asks the round engine for the next question. A source failure
// leaves the session counters untouched and the round idle for retry.
func (s *GameService) StartRound(ctx context.Context, id string) (domain.Question, error) {
	gs, ok := s.sessions.Get(id)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}
	return gs.startRound(ctx)
}

// SubmitAnswer grades the pending round and folds the outcome into the
// session. ok=false means the submission was ignored (no active round, or a
// duplicate while one is already locked).
func (s *GameService) SubmitAnswer(ctx context.Context, id, answer string) (domain.RoundResult, domain.Progress, bool, error) {
	gs, ok := s.sessions.Get(id)
	if !ok {
		return domain.RoundResult{}, domain.Progress{}, false, domain.ErrSessionNotFound
	}
	return gs.submit(answer)
}

// SelectOption records a pending selection for the active round.
// Reselection before submit overwrites; ignored outside an active round.
func (s *GameService) SelectOption(_ context.Context, id, option string) {
	gs, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	gs.engine.Select(option)
}

// Subscribe returns a channel of session events (questions, results,
// timeouts, completion). The caller must invoke cancel to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, id string) (<-chan Event, func(), error) {
	gs, ok := s.sessions.Get(id)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := gs.subscribe()
	return ch, cancel, nil
}

// EndSession tears the session down (cancelling any live countdown) and
// removes it from the store.
func (s *GameService) EndSession(_ context.Context, id string) {
	gs, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	gs.teardown()
	s.sessions.Delete(id)
}

// Leaderboard returns the top scored sessions.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if s.sink == nil {
		return nil, nil
	}
	return s.sink.Top(ctx, limit)
}

// submitScore is the fire-and-forget persistence write for finished
// sessions. Guests and sink failures never affect session display.
func (s *GameService) submitScore(summary domain.SessionSummary) {
	if s.sink == nil || summary.UserID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.sink.Submit(ctx, summary); err != nil {
			log.Printf("leaderboard submit failed for %s: %v", summary.UserID, err)
		}
	}()
}

// Event is a session-scoped notification fanned out to subscribers.
type Event struct {
	Type     string                 `json:"type"`
	Question *domain.Question       `json:"question,omitempty"`
	Result   *domain.RoundResult    `json:"result,omitempty"`
	Progress *domain.Progress       `json:"progress,omitempty"`
	Summary  *domain.SessionSummary `json:"summary,omitempty"`
}

const (
	EventQuestion        = "question"
	EventRoundResult     = "roundResult"
	EventTimeout         = "timeout"
	EventSessionComplete = "sessionComplete"
)

// GameSession pairs one player's round engine with their session counters
// and fans events out to subscribers.
type GameSession struct {
	id       string
	userID   string
	username string
	modelID  string

	engine   *game.RoundEngine
	onFinish func(domain.SessionSummary)

	mu          sync.Mutex
	session     *game.Session
	closed      bool
	subscribers map[chan Event]struct{}
}

func (g *GameSession) startRound(ctx context.Context) (domain.Question, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.Question{}, domain.ErrSessionNotFound
	}
	if g.session.Finished() {
		g.mu.Unlock()
		return domain.Question{}, domain.ErrSessionFinished
	}
	difficulty := g.session.Difficulty()
	filter := g.session.AnimalFilter()
	g.mu.Unlock()

	question, err := g.engine.StartRound(ctx, difficulty, filter, g.modelID)
	if err != nil {
		return domain.Question{}, err
	}

	g.mu.Lock()
	g.broadcastLocked(Event{Type: EventQuestion, Question: &question})
	g.mu.Unlock()
	return question, nil
}

func (g *GameSession) submit(answer string) (domain.RoundResult, domain.Progress, bool, error) {
	g.mu.Lock()
	streak := g.session.CurrentStreak()
	g.mu.Unlock()

	result, ok, err := g.engine.SubmitAnswer(answer, streak)
	if err != nil || !ok {
		return domain.RoundResult{}, domain.Progress{}, false, err
	}

	g.mu.Lock()
	if err := g.session.RecordRound(result); err != nil {
		g.mu.Unlock()
		return domain.RoundResult{}, domain.Progress{}, false, err
	}
	progress := g.session.Progress()
	g.broadcastLocked(Event{Type: EventRoundResult, Result: &result, Progress: &progress})
	finished := g.session.Finished()
	g.mu.Unlock()

	if finished {
		g.finish()
	}
	return result, progress, true, nil
}

// handleTimeout is invoked by the round engine when a countdown expires.
// Timeouts always advance the session.
func (g *GameSession) handleTimeout(result domain.RoundResult) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	if err := g.session.RecordRound(result); err != nil {
		g.mu.Unlock()
		return
	}
	progress := g.session.Progress()
	g.broadcastLocked(Event{Type: EventTimeout, Result: &result, Progress: &progress})
	finished := g.session.Finished()
	g.mu.Unlock()

	if finished {
		g.finish()
	}
}

func (g *GameSession) finish() {
	g.mu.Lock()
	summary := g.session.Summary()
	summary.UserID = g.userID
	summary.Username = g.username
	summary.ModelID = g.modelID
	g.broadcastLocked(Event{Type: EventSessionComplete, Summary: &summary})
	cb := g.onFinish
	g.mu.Unlock()

	if cb != nil {
		cb(summary)
	}
}

func (g *GameSession) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *GameSession) teardown() {
	g.engine.Abandon()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	for ch := range g.subscribers {
		delete(g.subscribers, ch)
		close(ch)
	}
}

func (g *GameSession) broadcastLocked(ev Event) {
	for ch := range g.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest pending event so a slow client cannot block
			// the round loop.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Progress snapshots the session counters.
func (g *GameSession) Progress() domain.Progress {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Progress()
}
