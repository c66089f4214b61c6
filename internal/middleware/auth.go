package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/internal/response"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type profileGetter interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type configGetter interface {
	GetConfig(ctx context.Context) (*models.AdminConfig, error)
}

type Middleware struct {
	AuthClient      tokenVerifier
	Profiles        profileGetter
	Config          configGetter
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(client tokenVerifier, profiles profileGetter, config configGetter, rh response.ResponseHandler) *Middleware {
	return &Middleware{AuthClient: client, Profiles: profiles, Config: config, ResponseHandler: rh}
}

// context key
type contextKey string

const (
	UIDKey   contextKey = "uid"
	EmailKey         contextKey = "email"
	EmailVerifiedKey contextKey = "email_verified"
	RoleKey          contextKey = "role"
)

// FirebaseAuth verifies the bearer ID token and puts uid and email in the
// context and on the request logger.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "missing Authorization header")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid Authorization header")
			return
		}

		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		email, _ := token.Claims["email"].(string)
		verified, _ := token.Claims["email_verified"].(bool)
		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		ctx = context.WithValue(ctx, EmailKey, email)
		ctx = context.WithValue(ctx, EmailVerifiedKey, verified)
		_, ctx = logger.With(ctx, "uid", token.UID, "email", email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoadProfile rejects unregistered, blocked and deleted users and records the
// caller's role. It also enforces maintenance mode for non-admins.
func (m *Middleware) LoadProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, err := m.Profiles.GetUser(ctx, UID(ctx))
		if err != nil {
			m.ResponseHandler.HandleError(w, r, err)
			return
		}
		switch u.Status {
		case models.StatusBlocked, models.StatusDeleted:
			m.ResponseHandler.HandleError(w, r, errs.NewForbiddenError("account is "+u.Status))
			return
		}

		if u.Role != models.RoleAdmin {
			cfg, err := m.Config.GetConfig(ctx)
			if err != nil {
				m.ResponseHandler.HandleError(w, r, err)
				return
			}
			if cfg.MaintenanceMode {
				m.ResponseHandler.WriteError(w, r, http.StatusServiceUnavailable, "maintenance", "service under maintenance")
				return
			}
		}

		ctx = context.WithValue(ctx, RoleKey, u.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r.Context()) != models.RoleAdmin {
			m.ResponseHandler.HandleError(w, r, errs.NewForbiddenError("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// Identity returns the token claims stored by FirebaseAuth.
func Identity(ctx context.Context) dto.Identity {
	verified, _ := ctx.Value(EmailVerifiedKey).(bool)
	return dto.Identity{UID: UID(ctx), Email: Email(ctx), EmailVerified: verified}
}

func Role(ctx context.Context) models.Role {
	role, _ := ctx.Value(RoleKey).(models.Role)
	if role == "" {
		return models.RoleUser
	}
	return role
}

// Actor is the dispatcher identity of the authenticated caller.
func Actor(ctx context.Context) dto.Actor {
	return dto.Actor{UID: UID(ctx), Role: Role(ctx)}
}
