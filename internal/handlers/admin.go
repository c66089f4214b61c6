package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/internal/response"
)

const maxAdminList = 200

type adminService interface {
	ListUsers(ctx context.Context, limit int) ([]*models.User, error)
	GetConfig(ctx context.Context) (*models.AdminConfig, error)
	ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error)
	ListAnnouncements(ctx context.Context, limit int) ([]*models.Announcement, error)
	Dispatch(ctx context.Context, actor dto.Actor, ev dto.Event) (dto.DispatchResult, error)
}

type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	AdminSvc        adminService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		AdminSvc:        deps.AdminSvc,
	}
}

// AdminRoutes must be mounted behind RequireAdmin.
func (h *adminHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Get("/config", h.GetConfig)
	r.Get("/audit", h.ListAuditLogs)
	r.Get("/announcements", h.ListAnnouncements)
	r.Post("/events", h.Dispatch)
	return r
}

func (h *adminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, maxAdminList)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	users, err := h.AdminSvc.ListUsers(r.Context(), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, users)
}

func (h *adminHandlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.AdminSvc.GetConfig(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, cfg)
}

func (h *adminHandlers) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, maxAdminList)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	logs, err := h.AdminSvc.ListAuditLogs(r.Context(), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, logs)
}

func (h *adminHandlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, maxAdminList)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	items, err := h.AdminSvc.ListAnnouncements(r.Context(), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *adminHandlers) Dispatch(w http.ResponseWriter, r *http.Request) {
	ev, err := decodeEventBody(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if ev.Source == "" || ev.Source == dto.SourceUI {
		ev.Source = dto.SourceAdmin
	}
	res, err := h.AdminSvc.Dispatch(r.Context(), middleware.Actor(r.Context()), ev)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
