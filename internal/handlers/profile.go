package handlers

import (
	"net/http"

	"github.com/LeartBytyqi1/my-fit-companion/internal/api/middleware"
)

// Profile returns the authenticated user's account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	h.JSON(w, http.StatusOK, user)
}
