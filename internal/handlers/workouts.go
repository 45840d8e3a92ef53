package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/LeartBytyqi1/my-fit-companion/internal/api/middleware"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// CreateWorkoutRequest represents the workout creation request.
type CreateWorkoutRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// CreateWorkout handles workout creation (coach or admin only; enforced by
// the router's RequireRole middleware).
func (h *Handler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		h.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	workout := &models.Workout{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		CreatedByID: user.ID,
	}
	if err := h.db.CreateWorkout(r.Context(), workout); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create workout")
		return
	}

	h.JSON(w, http.StatusCreated, workout)
}

// ListWorkouts returns all workouts, newest first.
func (h *Handler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.db.ListWorkouts(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to list workouts")
		return
	}
	h.JSON(w, http.StatusOK, workouts)
}
