package app

import (
	"context"
	"errors"

	"pet-detective-service/internal/domain"
)

// TieredSink pairs a durable leaderboard store with a live cache. Writes go
// to both; reads prefer the live side and fall back to the durable one.
type TieredSink struct {
	Durable LeaderboardSink
	Live    LeaderboardSink
}

func (t TieredSink) Submit(ctx context.Context, summary domain.SessionSummary) error {
	var errDurable, errLive error
	if t.Durable != nil {
		errDurable = t.Durable.Submit(ctx, summary)
	}
	if t.Live != nil {
		errLive = t.Live.Submit(ctx, summary)
	}
	return errors.Join(errDurable, errLive)
}

func (t TieredSink) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if t.Live != nil {
		entries, err := t.Live.Top(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
	}
	if t.Durable != nil {
		return t.Durable.Top(ctx, limit)
	}
	return nil, nil
}
