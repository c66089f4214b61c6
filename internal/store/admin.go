package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

// Admin namespace: admin/config, admin/auditLogs/entries, admin/announcements/messages.
type adminStore struct {
	client *firestore.Client
}

func NewAdminStore(client *firestore.Client) *adminStore {
	return &adminStore{client: client}
}

func (s *adminStore) configDoc() *firestore.DocumentRef {
	return s.client.Collection(adminCollection).Doc("config")
}

func (s *adminStore) auditCollection() *firestore.CollectionRef {
	return s.client.Collection(adminCollection).Doc("auditLogs").Collection("entries")
}

func (s *adminStore) announcementCollection() *firestore.CollectionRef {
	return s.client.Collection(adminCollection).Doc("announcements").Collection("messages")
}

// DefaultConfig is served until an admin writes the singleton for the first time.
func DefaultConfig() *models.AdminConfig {
	return &models.AdminConfig{DefaultAportePercent: 10}
}

func (s *adminStore) GetConfig(ctx context.Context) (*models.AdminConfig, error) {
	snap, err := s.configDoc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return DefaultConfig(), nil
	}
	return decodeSnapshot[models.AdminConfig](snap, err, "admin config")
}

func (s *adminStore) ListAuditLogs(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	q := s.auditCollection().OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return readAll[models.AuditLog](q.Documents(ctx), "audit logs")
}

func (s *adminStore) ListAnnouncements(ctx context.Context, limit int) ([]*models.Announcement, error) {
	q := s.announcementCollection().OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return readAll[models.Announcement](q.Documents(ctx), "announcements")
}

func (s *adminStore) RunTransaction(ctx context.Context, fn func(dto.AdminTx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&adminTx{store: s, tx: tx})
	})
	return txError("commit", err)
}

type adminTx struct {
	store *adminStore
	tx    *firestore.Transaction
}

func (t *adminTx) GetUser(uid string) (*models.User, error) {
	snap, err := t.tx.Get(t.store.client.Collection(usersCollection).Doc(uid))
	return decodeSnapshot[models.User](snap, err, "user")
}

func (t *adminTx) GetConfig() (*models.AdminConfig, error) {
	snap, err := t.tx.Get(t.store.configDoc())
	if status.Code(err) == codes.NotFound {
		return DefaultConfig(), nil
	}
	return decodeSnapshot[models.AdminConfig](snap, err, "admin config")
}

func (t *adminTx) PutUser(u *models.User) error {
	if err := t.tx.Set(t.store.client.Collection(usersCollection).Doc(u.UID), u); err != nil {
		return errs.NewDatabaseError("update", "failed to update user", err)
	}
	return nil
}

func (t *adminTx) PutConfig(c *models.AdminConfig) error {
	if err := t.tx.Set(t.store.configDoc(), c); err != nil {
		return errs.NewDatabaseError("update", "failed to update admin config", err)
	}
	return nil
}

func (t *adminTx) PutUserNotification(uid string, n *models.Notification) error {
	ref := userCollection(t.store.client, uid, dto.CollectionNotifications).Doc(n.ID)
	if err := t.tx.Create(ref, n); err != nil {
		return errs.NewDatabaseError("create", "failed to create notification", err)
	}
	return nil
}

func (t *adminTx) PutAnnouncement(a *models.Announcement) error {
	if err := t.tx.Create(t.store.announcementCollection().Doc(a.ID), a); err != nil {
		return errs.NewDatabaseError("create", "failed to create announcement", err)
	}
	return nil
}

func (t *adminTx) AppendAudit(a *models.AuditLog) error {
	if err := t.tx.Create(t.store.auditCollection().Doc(a.ID), a); err != nil {
		return errs.NewDatabaseError("create", "failed to append audit log", err)
	}
	return nil
}
