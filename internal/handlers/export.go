package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/response"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
)

type exportService interface {
	ExportCSV(ctx context.Context, uid string) ([]byte, error)
	Archive(ctx context.Context, uid string) (dto.ExportArchiveResponse, error)
}

type exportHandlers struct {
	ResponseHandler response.ResponseHandler
	ExportSvc       exportService
	clockNow        func() time.Time
}

func NewExportHandlers(deps *Deps) *exportHandlers {
	return &exportHandlers{
		ResponseHandler: deps.ResponseHandler,
		ExportSvc:       deps.ExportSvc,
		clockNow:        time.Now,
	}
}

func (h *exportHandlers) ExportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/csv", h.DownloadCSV)
	r.Post("/archive", h.Archive)
	return r
}

// DownloadCSV streams the raw CSV rather than the JSON envelope.
func (h *exportHandlers) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.ExportSvc.ExportCSV(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("financas-%s.csv", h.clockNow().Format("2006-01"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to write csv response", "error", err)
	}
}

func (h *exportHandlers) Archive(w http.ResponseWriter, r *http.Request) {
	res, err := h.ExportSvc.Archive(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, res)
}
