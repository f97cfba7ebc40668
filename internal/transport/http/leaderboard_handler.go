package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pet-detective-service/internal/app"
	"pet-detective-service/internal/domain"
)

// LeaderboardHandler serves the top scores as JSON for non-websocket clients.
type LeaderboardHandler struct {
	service *app.GameService
}

func NewLeaderboardHandler(service *app.GameService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}
