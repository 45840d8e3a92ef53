package handlers

import (
	"net/http"
	"time"
)

// StatsResponse represents aggregate platform counters.
type StatsResponse struct {
	Users     int64  `json:"users"`
	Workouts  int64  `json:"workouts"`
	Messages  int64  `json:"messages"`
	Timestamp string `json:"timestamp"`
}

// Stats returns aggregate platform counters. The chat message count comes
// from Redis and is reported as zero when Redis is down or absent.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.CountUsers(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	workouts, err := h.db.CountWorkouts(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	var messages int64
	if h.redis != nil {
		// Non-fatal: stats stay useful without chat storage
		if n, err := h.redis.CountAllMessages(r.Context()); err == nil {
			messages = n
		}
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		Users:     users,
		Workouts:  workouts,
		Messages:  messages,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
