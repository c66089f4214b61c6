package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/internal/response"
)

type UserService interface {
	Register(ctx context.Context, id dto.Identity, name, handle string) (*models.User, error)
	ResolveIdentifier(ctx context.Context, identifier string) (string, error)
	GetProfile(ctx context.Context, uid string) (*models.User, error)
}

type userHandlers struct {
	ResponseHandler      response.ResponseHandler
	UserSvc              UserService
	CheckoutPreferenceID string
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler:      deps.ResponseHandler,
		UserSvc:              deps.UserSvc,
		CheckoutPreferenceID: deps.CheckoutPreferenceID,
	}
}

// PublicRoutes need no token.
func (h *userHandlers) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/resolve", h.ResolveIdentifier)
	return r
}

// RegisterRoutes need a verified token but no profile yet.
func (h *userHandlers) RegisterRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Register)
	return r
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.Me)
	r.Get("/me/checkout", h.CheckoutConfig)
	return r
}

func (h *userHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var body dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	ctx := r.Context()
	user, err := h.UserSvc.Register(ctx, middleware.Identity(ctx), body.Name, body.Handle)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, user)
}

func (h *userHandlers) ResolveIdentifier(w http.ResponseWriter, r *http.Request) {
	var body dto.ResolveIdentifierRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	email, err := h.UserSvc.ResolveIdentifier(r.Context(), body.Identifier)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.ResolveIdentifierResponse{Email: email})
}

func (h *userHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserSvc.GetProfile(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

// CheckoutConfig surfaces the payment preference id; payment itself is
// handled by the provider.
func (h *userHandlers) CheckoutConfig(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserSvc.GetProfile(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.CheckoutConfig{
		PreferenceID:       h.CheckoutPreferenceID,
		SubscriptionStatus: user.SubscriptionStatus,
	})
}
