package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/finance-assistant/internal/bootstrap"
	"github.com/GregMSThompson/finance-assistant/internal/config"
	"github.com/GregMSThompson/finance-assistant/internal/crypto"
	"github.com/GregMSThompson/finance-assistant/internal/handlers"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/response"
	"github.com/GregMSThompson/finance-assistant/internal/router"
	"github.com/GregMSThompson/finance-assistant/internal/services"
	"github.com/GregMSThompson/finance-assistant/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	lstore := store.NewLedgerStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	gstore := store.NewGoalStore(bs.Firestore)
	listore := store.NewLimitStore(bs.Firestore)
	cstore := store.NewCardStore(bs.Firestore)
	rstore := store.NewReminderStore(bs.Firestore)
	nstore := store.NewNotificationStore(bs.Firestore)
	notestore := store.NewNoteStore(bs.Firestore)
	chstore := store.NewChatStore(bs.Firestore)
	adstore := store.NewAdminStore(bs.Firestore)

	// services
	dispatcher := services.NewDispatcher(lstore, adstore)
	userv := services.NewUserService(ustore, cfg.AdminAllowList)
	dserv := services.NewDashboardService(tstore, gstore, cstore, listore, rstore)
	noteserv := services.NewNoteService(kmsHelper, notestore)
	aserv := services.NewAssistantService(services.AssistantDeps{
		Vertex:     bs.VertexAdapter,
		Store:      chstore,
		Dispatcher: dispatcher,
		Summary:    dserv,
		Notes:      noteserv,
		Goals:      gstore,
		Limits:     listore,
		Cards:      cstore,
		TTL:        cfg.AITTL,
	})
	exserv := services.NewExportService(tstore, nil)
	if bs.Storage != nil {
		exserv = services.NewExportService(tstore, store.NewArchiveStore(bs.Storage, cfg.ExportBucket))
	}
	adserv := services.NewAdminService(ustore, adstore, dispatcher)

	// response handler
	rh := response.New(bs.Log)
	mw := middleware.NewMiddleware(bs.Firebase, ustore, adstore, rh)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.UserSvc = userv
	deps.Dispatcher = dispatcher
	deps.AssistantSvc = aserv
	deps.DashboardSvc = dserv
	deps.ExportSvc = exserv
	deps.AdminSvc = adserv
	deps.NoteSvc = noteserv
	deps.Transactions = tstore
	deps.Goals = gstore
	deps.Reminders = rstore
	deps.Limits = listore
	deps.Cards = cstore
	deps.Notifications = nstore
	deps.CheckoutPreferenceID = cfg.CheckoutPreferenceID

	// router
	r := router.NewRouter(deps, mw)
	bs.Log.Info("server starting", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
