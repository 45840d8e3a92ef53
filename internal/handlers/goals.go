package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LeartBytyqi1/my-fit-companion/internal/api/middleware"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// CreateGoalRequest represents the goal creation request.
type CreateGoalRequest struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TargetValue *float64   `json:"targetValue,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateGoalProgressRequest represents the goal progress update request.
type UpdateGoalProgressRequest struct {
	CurrentValue float64 `json:"currentValue"`
}

// ListGoals returns the caller's goals, optionally filtered by completion
// state and type.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var completed *bool
	if v := r.URL.Query().Get("completed"); v != "" {
		b := v == "true"
		completed = &b
	}
	goalType := r.URL.Query().Get("type")

	goals, err := h.db.ListGoals(r.Context(), user.ID, completed, goalType)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	h.JSON(w, http.StatusOK, goals)
}

// CreateGoal handles goal creation.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !models.ValidGoalType(req.Type) {
		h.Error(w, http.StatusBadRequest, "valid goal type required")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		h.Error(w, http.StatusBadRequest, "goal title is required")
		return
	}
	if req.TargetValue != nil && *req.TargetValue < 0 {
		h.Error(w, http.StatusBadRequest, "target value must be positive")
		return
	}

	goal := &models.Goal{
		UserID:      user.ID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		TargetValue: req.TargetValue,
		Deadline:    req.Deadline,
	}
	if err := h.db.CreateGoal(r.Context(), goal); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create goal")
		return
	}

	h.JSON(w, http.StatusCreated, goal)
}

// UpdateGoalProgress records a new current value and completes the goal when
// the target is reached.
func (h *Handler) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	goalID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid goal ID")
		return
	}

	var req UpdateGoalProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CurrentValue < 0 {
		h.Error(w, http.StatusBadRequest, "current value must be positive")
		return
	}

	goal, err := h.db.GetGoal(r.Context(), user.ID, uint(goalID))
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if goal == nil {
		h.Error(w, http.StatusNotFound, "goal not found")
		return
	}

	goal.CurrentValue = &req.CurrentValue
	if goal.TargetValue != nil && req.CurrentValue >= *goal.TargetValue {
		goal.Completed = true
	}

	if err := h.db.UpdateGoal(r.Context(), goal); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to update goal")
		return
	}

	h.JSON(w, http.StatusOK, goal)
}
