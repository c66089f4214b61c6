package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/response"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
)

const maxEventBody = 64 << 10

type eventDispatcher interface {
	Dispatch(ctx context.Context, actor dto.Actor, ev dto.Event) (dto.DispatchResult, error)
}

type eventHandlers struct {
	ResponseHandler response.ResponseHandler
	Dispatcher      eventDispatcher
}

func NewEventHandlers(deps *Deps) *eventHandlers {
	return &eventHandlers{
		ResponseHandler: deps.ResponseHandler,
		Dispatcher:      deps.Dispatcher,
	}
}

func (h *eventHandlers) EventRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Dispatch)
	return r
}

// Dispatch accepts one event envelope. Role checks happen in the dispatcher,
// so ADMIN_* events sent here by non-admins are rejected.
func (h *eventHandlers) Dispatch(w http.ResponseWriter, r *http.Request) {
	ev, err := decodeEventBody(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	log, ctx := logger.With(r.Context(), "event_type", string(ev.Type))
	res, err := h.Dispatcher.Dispatch(ctx, middleware.Actor(ctx), ev)
	if err != nil {
		h.ResponseHandler.HandleError(w, r.WithContext(ctx), err)
		return
	}
	log.Debug("event dispatched", "entity_id", res.EntityID)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func decodeEventBody(r *http.Request) (dto.Event, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		return dto.Event{}, errs.NewValidationError("failed to read request body")
	}
	return dto.DecodeEvent(raw)
}
