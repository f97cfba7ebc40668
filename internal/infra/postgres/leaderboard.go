package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"pet-detective-service/internal/domain"
)

// Leaderboard is the durable score store.
type Leaderboard struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

func NewLeaderboard(pool *pgxpool.Pool) *Leaderboard {
	return &Leaderboard{pool: pool, clock: time.Now}
}

func (l *Leaderboard) Submit(ctx context.Context, summary domain.SessionSummary) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO leaderboard (user_id, username, score, questions_answered, accuracy, difficulty, animal_filter, model_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		summary.UserID, summary.Username, summary.TotalScore, summary.QuestionsAnswered,
		summary.Accuracy, string(summary.Difficulty), string(summary.AnimalFilter),
		summary.ModelID, l.clock().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert leaderboard row: %w", err)
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.pool.Query(ctx, `
		SELECT user_id, username, score, questions_answered, accuracy, created_at
		FROM leaderboard
		ORDER BY score DESC, created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.Score, &entry.QuestionsAnswered, &entry.Accuracy, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
