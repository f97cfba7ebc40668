package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pet-detective-service/internal/domain"
)

// Leaderboard keeps the live score board in a sorted set, with entry
// metadata in a companion hash:
//
//	ZADD petdetective:leaderboard {score}  {userID}
//	HSET petdetective:leaderboard:entries {userID} {entry json}
//
// Only a player's best score is kept (ZADD GT).
type Leaderboard struct {
	client *redis.Client
	clock  func() time.Time
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client, clock: time.Now}
}

func (l *Leaderboard) Submit(ctx context.Context, summary domain.SessionSummary) error {
	entry := domain.LeaderboardEntry{
		UserID:            summary.UserID,
		Username:          summary.Username,
		Score:             summary.TotalScore,
		QuestionsAnswered: summary.QuestionsAnswered,
		Accuracy:          summary.Accuracy,
		CreatedAt:         l.clock().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	current, err := l.client.ZScore(ctx, l.scoresKey(), summary.UserID).Result()
	if err == nil && int(current) >= summary.TotalScore {
		return nil
	}

	pipe := l.client.Pipeline()
	pipe.ZAdd(ctx, l.scoresKey(), redis.Z{Score: float64(summary.TotalScore), Member: summary.UserID})
	pipe.HSet(ctx, l.entriesKey(), summary.UserID, data)
	_, err = pipe.Exec(ctx)
	return err
}

func (l *Leaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	ids, err := l.client.ZRevRange(ctx, l.scoresKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	raw, err := l.client.HMGet(ctx, l.entriesKey(), ids...).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(ids))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(s), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Leaderboard) scoresKey() string {
	return "petdetective:leaderboard"
}

func (l *Leaderboard) entriesKey() string {
	return "petdetective:leaderboard:entries"
}
