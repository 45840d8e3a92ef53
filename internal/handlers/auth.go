package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LeartBytyqi1/my-fit-companion/internal/auth"
	"github.com/LeartBytyqi1/my-fit-companion/internal/metrics"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// RegisterRequest represents the registration request.
type RegisterRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Height    *int     `json:"height,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	BodyFat   *float64 `json:"bodyFat,omitempty"`
	Goal      *float64 `json:"goal,omitempty"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a token and the user it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles account creation.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.FirstName = sanitizeName(req.FirstName)
	req.LastName = sanitizeName(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		h.Error(w, http.StatusBadRequest, "first and last name are required")
		return
	}
	if !isValidEmail(req.Email) {
		h.Error(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < 8 {
		h.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if existing != nil {
		h.Error(w, http.StatusBadRequest, "email already in use")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleMember,
		HeightCm:     req.Height,
		WeightKg:     req.Weight,
		BodyFatPct:   req.BodyFat,
		GoalWeightKg: req.Goal,
	}
	if err := h.db.CreateUser(r.Context(), user); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	metrics.UsersRegistered.Inc()

	h.JSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login handles credential verification and token issuance.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	// Same response for unknown email and wrong password
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.Error(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.JSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}
