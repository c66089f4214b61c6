package dto

import "github.com/GregMSThompson/finance-assistant/internal/models"

// LedgerTx is one atomic unit of work over a single user's documents.
// Implementations follow Firestore's rule that all reads precede all writes.
// Get* return *errs.NotFoundError for missing documents; FindLimit returns
// nil with no error.
type LedgerTx interface {
	GetTransaction(id string) (*models.Transaction, error)
	GetGoal(id string) (*models.SavingGoal, error)
	GetReminder(id string) (*models.Bill, error)
	GetCard(id string) (*models.CreditCard, error)
	FindLimit(categoryKey string) (*models.CategoryLimit, error)
	Exists(collection, id string) (bool, error)

	PutTransaction(t *models.Transaction) error
	PutGoal(g *models.SavingGoal) error
	PutReminder(b *models.Bill) error
	PutCard(c *models.CreditCard) error
	PutLimit(l *models.CategoryLimit) error
	PutNotification(n *models.Notification) error
	AppendEventLog(e *models.EventLog) error
	Delete(collection, id string) error
}

// AdminTx is one atomic unit of work over the admin namespace and other users'
// profiles. GetConfig returns defaults when the singleton does not exist yet.
type AdminTx interface {
	GetUser(uid string) (*models.User, error)
	GetConfig() (*models.AdminConfig, error)

	PutUser(u *models.User) error
	PutConfig(c *models.AdminConfig) error
	PutUserNotification(uid string, n *models.Notification) error
	PutAnnouncement(a *models.Announcement) error
	AppendAudit(a *models.AuditLog) error
}
