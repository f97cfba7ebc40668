package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"pet-detective-service/internal/domain"
)

func TestLeaderboardSubmitAndTop(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	lb := NewLeaderboard(newClient(mr))
	ctx := context.Background()

	submissions := []domain.SessionSummary{
		{UserID: "u1", Username: "alice", TotalScore: 480, QuestionsAnswered: 5, Accuracy: 80},
		{UserID: "u2", Username: "bob", TotalScore: 620, QuestionsAnswered: 5, Accuracy: 100},
		{UserID: "u3", Username: "carol", TotalScore: 150, QuestionsAnswered: 5, Accuracy: 40},
	}
	for _, s := range submissions {
		if err := lb.Submit(ctx, s); err != nil {
			t.Fatalf("submit %s: %v", s.UserID, err)
		}
	}

	entries, err := lb.Top(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "u2" || entries[0].Score != 620 {
		t.Fatalf("expected bob leading, got %+v", entries[0])
	}
	if entries[1].UserID != "u1" {
		t.Fatalf("expected alice second, got %+v", entries[1])
	}
}

func TestLeaderboardKeepsBestScore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	lb := NewLeaderboard(newClient(mr))
	ctx := context.Background()

	if err := lb.Submit(ctx, domain.SessionSummary{UserID: "u1", Username: "alice", TotalScore: 500, QuestionsAnswered: 5, Accuracy: 100}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// A worse run must not clobber the recorded best.
	if err := lb.Submit(ctx, domain.SessionSummary{UserID: "u1", Username: "alice", TotalScore: 200, QuestionsAnswered: 5, Accuracy: 40}); err != nil {
		t.Fatalf("submit worse: %v", err)
	}

	entries, err := lb.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 500 {
		t.Fatalf("expected best score 500 kept, got %+v", entries)
	}
}
