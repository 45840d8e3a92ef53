package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LeartBytyqi1/my-fit-companion/internal/api/middleware"
	"github.com/LeartBytyqi1/my-fit-companion/internal/metrics"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// StartSessionRequest represents the session start request.
type StartSessionRequest struct {
	WorkoutID uint `json:"workoutId"`
}

// EndSessionRequest represents the session end request.
type EndSessionRequest struct {
	CaloriesBurned *int   `json:"caloriesBurned,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ListSessions returns the caller's workout sessions, newest first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := 20
	offset := 0
	var workoutID uint64
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o >= 0 {
			offset = o
		}
	}
	if v := r.URL.Query().Get("workoutId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			h.Error(w, http.StatusBadRequest, "invalid workout ID")
			return
		}
		workoutID = id
	}

	sessions, err := h.db.ListSessions(r.Context(), user.ID, uint(workoutID), limit, offset)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	h.JSON(w, http.StatusOK, sessions)
}

// StartSession opens a workout session. A user may have at most one active
// session; starting while one is active is rejected.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.WorkoutID == 0 {
		h.Error(w, http.StatusBadRequest, "valid workout ID required")
		return
	}

	workout, err := h.db.GetWorkout(r.Context(), req.WorkoutID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if workout == nil {
		h.Error(w, http.StatusNotFound, "workout not found")
		return
	}

	active, err := h.db.GetActiveSession(r.Context(), user.ID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if active != nil {
		h.Error(w, http.StatusBadRequest, "you have an active workout session, please finish it first")
		return
	}

	session := &models.WorkoutSession{
		UserID:    user.ID,
		WorkoutID: req.WorkoutID,
		StartTime: time.Now(),
	}
	if err := h.db.CreateSession(r.Context(), session); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	session.Workout = workout

	metrics.WorkoutSessionsStarted.Inc()

	h.JSON(w, http.StatusCreated, session)
}

// EndSession closes an active workout session owned by the caller.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sessionID, err := strconv.ParseUint(chi.URLParam(r, "sessionId"), 10, 32)
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	var req EndSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CaloriesBurned != nil && *req.CaloriesBurned < 0 {
		h.Error(w, http.StatusBadRequest, "calories must be a positive number")
		return
	}

	session, err := h.db.GetSession(r.Context(), user.ID, uint(sessionID))
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if session == nil {
		h.Error(w, http.StatusNotFound, "session not found")
		return
	}
	if !session.Active() {
		h.Error(w, http.StatusBadRequest, "session already ended")
		return
	}

	now := time.Now()
	session.EndTime = &now
	session.CaloriesBurned = req.CaloriesBurned
	if req.Notes != "" {
		session.Notes = req.Notes
	}

	if err := h.db.UpdateSession(r.Context(), session); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to end session")
		return
	}

	h.JSON(w, http.StatusOK, session)
}
