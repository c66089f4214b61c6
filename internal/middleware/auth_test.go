package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/internal/response"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	switch idToken {
	case "good":
		return &auth.Token{UID: "u1", Claims: map[string]interface{}{"email": "u1@example.com", "email_verified": true}}, nil
	case "unverified":
		return &auth.Token{UID: "u2", Claims: map[string]interface{}{"email": "u2@example.com", "email_verified": false}}, nil
	}
	return nil, errors.New("bad token")
}

type stubProfiles map[string]*models.User

func (s stubProfiles) GetUser(_ context.Context, uid string) (*models.User, error) {
	if u, ok := s[uid]; ok {
		return u, nil
	}
	return nil, errs.NewNotFoundError("user not found")
}

type stubConfig struct {
	maintenance bool
}

func (s stubConfig) GetConfig(_ context.Context) (*models.AdminConfig, error) {
	return &models.AdminConfig{MaintenanceMode: s.maintenance}, nil
}

func newTestMiddleware(users stubProfiles, cfg stubConfig) *Middleware {
	rh := response.New(slog.New(logger.NewTestHandler(slog.LevelInfo)))
	return NewMiddleware(stubVerifier{}, users, cfg, rh)
}

func TestFirebaseAuth(t *testing.T) {
	m := newTestMiddleware(nil, stubConfig{})
	var gotUID, gotEmail string
	h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, gotEmail = UID(r.Context()), Email(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "malformed", header: "Token good", status: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer good", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
		})
	}
	if gotUID != "u1" || gotEmail != "u1@example.com" {
		t.Fatalf("context not populated: %q %q", gotUID, gotEmail)
	}
}

func TestFirebaseAuthEmailVerified(t *testing.T) {
	m := newTestMiddleware(nil, stubConfig{})
	var got dto.Identity
	h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Identity(r.Context())
	}))

	for _, tc := range []struct {
		token string
		want  dto.Identity
	}{
		{token: "good", want: dto.Identity{UID: "u1", Email: "u1@example.com", EmailVerified: true}},
		{token: "unverified", want: dto.Identity{UID: "u2", Email: "u2@example.com"}},
	} {
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		h.ServeHTTP(httptest.NewRecorder(), req)
		if got != tc.want {
			t.Fatalf("Identity() = %+v, want %+v", got, tc.want)
		}
	}
}

func TestLoadProfile(t *testing.T) {
	users := stubProfiles{
		"active":  {UID: "active", Role: models.RoleUser, Status: models.StatusActive},
		"blocked": {UID: "blocked", Role: models.RoleUser, Status: models.StatusBlocked},
		"admin":   {UID: "admin", Role: models.RoleAdmin, Status: models.StatusActive},
	}
	cases := []struct {
		name        string
		uid         string
		maintenance bool
		status      int
	}{
		{name: "active user", uid: "active", status: http.StatusOK},
		{name: "blocked user", uid: "blocked", status: http.StatusForbidden},
		{name: "unregistered", uid: "ghost", status: http.StatusNotFound},
		{name: "maintenance user", uid: "active", maintenance: true, status: http.StatusServiceUnavailable},
		{name: "maintenance admin", uid: "admin", maintenance: true, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMiddleware(users, stubConfig{maintenance: tc.maintenance})
			h := m.LoadProfile(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), UIDKey, tc.uid))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	m := newTestMiddleware(nil, stubConfig{})
	h := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}

	req = req.WithContext(context.WithValue(req.Context(), RoleKey, models.RoleAdmin))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}
