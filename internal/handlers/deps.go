package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/finance-assistant/internal/response"
)

type Deps struct {
	Log                  *slog.Logger
	ResponseHandler      response.ResponseHandler
	UserSvc              UserService
	Dispatcher           eventDispatcher
	AssistantSvc         assistantService
	DashboardSvc         dashboardService
	ExportSvc            exportService
	AdminSvc             adminService
	NoteSvc              noteLister
	Transactions         transactionLister
	Goals                goalLister
	Reminders            reminderLister
	Limits               limitLister
	Cards                cardLister
	Notifications        notificationLister
	CheckoutPreferenceID string
}
