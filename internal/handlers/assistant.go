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

type assistantService interface {
	Chat(ctx context.Context, actor dto.Actor, sessionID, message string) (dto.ChatResponse, error)
}

type assistantHandlers struct {
	ResponseHandler response.ResponseHandler
	AssistantSvc    assistantService
}

func NewAssistantHandlers(deps *Deps) *assistantHandlers {
	return &assistantHandlers{
		ResponseHandler: deps.ResponseHandler,
		AssistantSvc:    deps.AssistantSvc,
	}
}

func (h *assistantHandlers) AssistantRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/chat", h.Chat)
	return r
}

func (h *assistantHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var body dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.Message == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("message is required"))
		return
	}

	resp, err := h.AssistantSvc.Chat(r.Context(), middleware.Actor(r.Context()), body.SessionID, body.Message)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
