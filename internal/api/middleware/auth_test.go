package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LeartBytyqi1/my-fit-companion/internal/auth"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
	"github.com/LeartBytyqi1/my-fit-companion/internal/store"
)

func newAuthFixture(t *testing.T) (*AuthMiddleware, *auth.TokenManager, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	gs, err := store.NewGormStoreFromDB(db)
	if err != nil {
		t.Fatal(err)
	}
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        "user@example.com",
		PasswordHash: "x",
		Role:         models.RoleMember,
	}
	if err := gs.CreateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthMiddleware(tokens, gs), tokens, user
}

func echoUser(t *testing.T, captured **models.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthValidToken(t *testing.T) {
	m, tokens, user := newAuthFixture(t)

	token, err := tokens.Generate(user.ID, user.Email)
	if err != nil {
		t.Fatal(err)
	}

	var got *models.User
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAuth(echoUser(t, &got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("expected user %d in context, got %+v", user.ID, got)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	m, tokens, user := newAuthFixture(t)

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	expiredToken, _ := expired.Generate(user.ID, user.Email)
	wrongSecret := auth.NewTokenManager("other-secret", time.Hour)
	forgedToken, _ := wrongSecret.Generate(user.ID, user.Email)
	ghostToken, _ := tokens.Generate(9999, "ghost@example.com")

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expiredToken},
		{"wrong secret", "Bearer " + forgedToken},
		{"unknown user", "Bearer " + ghostToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			var got *models.User
			m.RequireAuth(echoUser(t, &got)).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got != nil {
				t.Fatal("handler must not run")
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	member := &models.User{ID: 1, Role: models.RoleMember}
	coach := &models.User{ID: 2, Role: models.RoleCoach}

	handler := RequireRole(models.RoleCoach, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(user *models.User) int {
		req := httptest.NewRequest(http.MethodPost, "/api/workouts", nil)
		if user != nil {
			req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve(coach); code != http.StatusOK {
		t.Fatalf("coach should pass, got %d", code)
	}
	if code := serve(member); code != http.StatusForbidden {
		t.Fatalf("member should be forbidden, got %d", code)
	}
	if code := serve(nil); code != http.StatusUnauthorized {
		t.Fatalf("missing user should be unauthorized, got %d", code)
	}
}
