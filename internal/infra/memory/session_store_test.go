package memory

import (
	"testing"

	"pet-detective-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := &app.GameSession{}
	store.Put("s1", session)

	got, ok := store.Get("s1")
	if !ok || got != session {
		t.Fatalf("expected stored session back")
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}
