package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/finance-assistant/internal/handlers"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
)

func NewRouter(deps *handlers.Deps, mw *middleware.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ush := handlers.NewUserHandlers(deps)
	evh := handlers.NewEventHandlers(deps)
	ash := handlers.NewAssistantHandlers(deps)
	dsh := handlers.NewDashboardHandlers(deps)
	exh := handlers.NewExportHandlers(deps)
	ldh := handlers.NewLedgerHandlers(deps)
	adh := handlers.NewAdminHandlers(deps)

	r.Mount("/public/users", ush.PublicRoutes())

	r.Group(func(r chi.Router) {
		r.Use(mw.FirebaseAuth)
		r.Mount("/register", ush.RegisterRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.LoadProfile)
			r.Mount("/users", ush.UserRoutes())
			r.Mount("/events", evh.EventRoutes())
			r.Mount("/assistant", ash.AssistantRoutes())
			r.Mount("/dashboard", dsh.DashboardRoutes())
			r.Mount("/export", exh.ExportRoutes())
			r.Mount("/ledger", ldh.LedgerRoutes())

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)
				r.Mount("/admin", adh.AdminRoutes())
			})
		})
	})
	return r
}
