package services

import (
	"context"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
)

const (
	defaultAdminPage = 50
	maxAdminPage     = 200
)

type userLister interface {
	ListUsers(ctx context.Context, limit int) ([]*models.User, error)
}

type adminReader interface {
	GetConfig(ctx context.Context) (*models.AdminConfig, error)
	ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error)
	ListAnnouncements(ctx context.Context, limit int) ([]*models.Announcement, error)
}

type adminService struct {
	users    userLister
	store    adminReader
	dispatch eventDispatcher
}

func NewAdminService(users userLister, store adminReader, dispatch eventDispatcher) *adminService {
	return &adminService{users: users, store: store, dispatch: dispatch}
}

func (s *adminService) ListUsers(ctx context.Context, limit int) ([]*models.User, error) {
	return s.users.ListUsers(ctx, pageSize(limit))
}

func (s *adminService) GetConfig(ctx context.Context) (*models.AdminConfig, error) {
	return s.store.GetConfig(ctx)
}

func (s *adminService) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	return s.store.ListAuditLogs(ctx, pageSize(limit))
}

func (s *adminService) ListAnnouncements(ctx context.Context, limit int) ([]*models.Announcement, error) {
	return s.store.ListAnnouncements(ctx, pageSize(limit))
}

// Dispatch only accepts ADMIN_* events here; ledger events go through the
// regular events endpoint.
func (s *adminService) Dispatch(ctx context.Context, actor dto.Actor, ev dto.Event) (dto.DispatchResult, error) {
	if !ev.Type.IsAdmin() {
		return dto.DispatchResult{Success: false, Type: ev.Type}, errs.NewValidationError("not an admin event: " + string(ev.Type))
	}
	log, ctx := logger.With(ctx, "admin_uid", actor.UID)
	res, err := s.dispatch.Dispatch(ctx, actor, ev)
	if err != nil {
		return res, err
	}
	log.Info("admin event applied", "event_type", string(ev.Type), "entity_id", res.EntityID)
	return res, nil
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultAdminPage
	}
	if limit > maxAdminPage {
		return maxAdminPage
	}
	return limit
}
