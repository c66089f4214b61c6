package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/internal/response"
)

const (
	maxTransactions  = 100
	maxNotifications = 20
	maxNotes         = 50
)

type transactionLister interface {
	ListRecent(ctx context.Context, uid string, limit int) ([]*models.Transaction, error)
}

type goalLister interface {
	List(ctx context.Context, uid string) ([]*models.SavingGoal, error)
}

type reminderLister interface {
	List(ctx context.Context, uid string) ([]*models.Bill, error)
}

type limitLister interface {
	List(ctx context.Context, uid string) ([]*models.CategoryLimit, error)
}

type cardLister interface {
	List(ctx context.Context, uid string) ([]*models.CreditCard, error)
}

type notificationLister interface {
	ListRecent(ctx context.Context, uid string, limit int) ([]*models.Notification, error)
}

type noteLister interface {
	ListNotes(ctx context.Context, uid string, limit int) ([]dto.NoteView, error)
}

// ledgerHandlers serves read-only views; every write goes through events.
type ledgerHandlers struct {
	ResponseHandler response.ResponseHandler
	Transactions    transactionLister
	Goals           goalLister
	Reminders       reminderLister
	Limits          limitLister
	Cards           cardLister
	Notifications   notificationLister
	Notes           noteLister
}

func NewLedgerHandlers(deps *Deps) *ledgerHandlers {
	return &ledgerHandlers{
		ResponseHandler: deps.ResponseHandler,
		Transactions:    deps.Transactions,
		Goals:           deps.Goals,
		Reminders:       deps.Reminders,
		Limits:          deps.Limits,
		Cards:           deps.Cards,
		Notifications:   deps.Notifications,
		Notes:           deps.NoteSvc,
	}
}

func (h *ledgerHandlers) LedgerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/transactions", h.ListTransactions)
	r.Get("/goals", listHandler(h.ResponseHandler, h.Goals.List))
	r.Get("/reminders", listHandler(h.ResponseHandler, h.Reminders.List))
	r.Get("/limits", listHandler(h.ResponseHandler, h.Limits.List))
	r.Get("/cards", listHandler(h.ResponseHandler, h.Cards.List))
	r.Get("/notifications", h.ListNotifications)
	r.Get("/notes", h.ListNotes)
	return r
}

func listHandler[T any](rh response.ResponseHandler, list func(ctx context.Context, uid string) ([]*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context(), middleware.UID(r.Context()))
		if err != nil {
			rh.HandleError(w, r, err)
			return
		}
		if items == nil {
			items = []*T{}
		}
		rh.WriteSuccess(w, r, http.StatusOK, items)
	}
}

func (h *ledgerHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, maxTransactions)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	txs, err := h.Transactions.ListRecent(r.Context(), middleware.UID(r.Context()), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *ledgerHandlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.Notifications.ListRecent(r.Context(), middleware.UID(r.Context()), maxNotifications)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, ns)
}

func (h *ledgerHandlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.ListNotes(r.Context(), middleware.UID(r.Context()), maxNotes)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, notes)
}

// limitParam reads ?limit=, defaulting to and capping at upper.
func limitParam(r *http.Request, upper int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return upper, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errs.NewValidationError("limit must be a positive integer")
	}
	if n > upper {
		n = upper
	}
	return n, nil
}
