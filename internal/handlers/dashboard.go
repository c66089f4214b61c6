package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/response"
)

type dashboardService interface {
	Summary(ctx context.Context, uid string) (dto.DashboardSummary, error)
	Ladder(ctx context.Context, req dto.LadderRequest) []dto.LadderGoal
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetSummary)
	r.Post("/ladder", h.SuggestLadder)
	return r
}

func (h *dashboardHandlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	sum, err := h.DashboardSvc.Summary(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sum)
}

// SuggestLadder only computes suggestions; the client creates the goals it
// accepts through CREATE_GOAL events.
func (h *dashboardHandlers) SuggestLadder(w http.ResponseWriter, r *http.Request) {
	var req dto.LadderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if req.MonthlyIncome < 0 || req.ExistingSavings < 0 || req.CarPrice < 0 || req.HousePrice < 0 {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("amounts must not be negative"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.Ladder(r.Context(), req))
}
