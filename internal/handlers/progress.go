package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/LeartBytyqi1/my-fit-companion/internal/api/middleware"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// CreateProgressRequest represents a new progress entry.
type CreateProgressRequest struct {
	Date     *time.Time `json:"date,omitempty"`
	WeightKg *float64   `json:"weightKg,omitempty"`
	BodyFat  *float64   `json:"bodyFat,omitempty"`
	MuscleKg *float64   `json:"muscleKg,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// ListProgress returns the caller's progress entries newest first,
// optionally bounded by startDate/endDate query parameters (RFC 3339).
func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var from, to *time.Time
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.Error(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.Error(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		to = &t
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}

	entries, err := h.db.ListProgressEntries(r.Context(), user.ID, from, to, limit)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to list progress entries")
		return
	}
	h.JSON(w, http.StatusOK, entries)
}

// CreateProgress records a new progress entry for the caller.
func (h *Handler) CreateProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.WeightKg == nil && req.BodyFat == nil && req.MuscleKg == nil && req.Notes == "" {
		h.Error(w, http.StatusBadRequest, "at least one measurement is required")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	entry := &models.ProgressEntry{
		UserID:   user.ID,
		Date:     date,
		WeightKg: req.WeightKg,
		BodyFat:  req.BodyFat,
		MuscleKg: req.MuscleKg,
		Notes:    req.Notes,
	}
	if err := h.db.CreateProgressEntry(r.Context(), entry); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create progress entry")
		return
	}

	h.JSON(w, http.StatusCreated, entry)
}
