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

type ledgerStore struct {
	client *firestore.Client
}

func NewLedgerStore(client *firestore.Client) *ledgerStore {
	return &ledgerStore{client: client}
}

// RunTransaction runs fn inside one Firestore transaction scoped to uid.
// Firestore may call fn more than once on contention.
func (s *ledgerStore) RunTransaction(ctx context.Context, uid string, fn func(dto.LedgerTx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&ledgerTx{client: s.client, tx: tx, uid: uid})
	})
	return txError("commit", err)
}

type ledgerTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
	uid    string
}

func (t *ledgerTx) doc(collection, id string) *firestore.DocumentRef {
	return userCollection(t.client, t.uid, collection).Doc(id)
}

func (t *ledgerTx) GetTransaction(id string) (*models.Transaction, error) {
	snap, err := t.tx.Get(t.doc(dto.CollectionTransactions, id))
	return decodeSnapshot[models.Transaction](snap, err, "transaction")
}

func (t *ledgerTx) GetGoal(id string) (*models.SavingGoal, error) {
	snap, err := t.tx.Get(t.doc(dto.CollectionGoals, id))
	return decodeSnapshot[models.SavingGoal](snap, err, "goal")
}

func (t *ledgerTx) GetReminder(id string) (*models.Bill, error) {
	snap, err := t.tx.Get(t.doc(dto.CollectionReminders, id))
	return decodeSnapshot[models.Bill](snap, err, "reminder")
}

func (t *ledgerTx) GetCard(id string) (*models.CreditCard, error) {
	snap, err := t.tx.Get(t.doc(dto.CollectionCards, id))
	return decodeSnapshot[models.CreditCard](snap, err, "card")
}

// FindLimit returns nil when no limit exists for the key.
func (t *ledgerTx) FindLimit(categoryKey string) (*models.CategoryLimit, error) {
	if categoryKey == "" {
		return nil, nil
	}
	snap, err := t.tx.Get(t.doc(dto.CollectionLimits, categoryKey))
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	return decodeSnapshot[models.CategoryLimit](snap, err, "limit")
}

func (t *ledgerTx) Exists(collection, id string) (bool, error) {
	_, err := t.tx.Get(t.doc(collection, id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errs.NewDatabaseError("read", "failed to get "+collection+" document", err)
	}
	return true, nil
}

func (t *ledgerTx) set(collection, id string, v any) error {
	if err := t.tx.Set(t.doc(collection, id), v); err != nil {
		return errs.NewDatabaseError("write", "failed to write "+collection+" document", err)
	}
	return nil
}

func (t *ledgerTx) PutTransaction(tr *models.Transaction) error {
	return t.set(dto.CollectionTransactions, tr.ID, tr)
}

func (t *ledgerTx) PutGoal(g *models.SavingGoal) error {
	return t.set(dto.CollectionGoals, g.ID, g)
}

func (t *ledgerTx) PutReminder(b *models.Bill) error {
	return t.set(dto.CollectionReminders, b.ID, b)
}

func (t *ledgerTx) PutCard(c *models.CreditCard) error {
	return t.set(dto.CollectionCards, c.ID, c)
}

func (t *ledgerTx) PutLimit(l *models.CategoryLimit) error {
	return t.set(dto.CollectionLimits, l.ID, l)
}

func (t *ledgerTx) PutNotification(n *models.Notification) error {
	if err := t.tx.Create(t.doc(dto.CollectionNotifications, n.ID), n); err != nil {
		return errs.NewDatabaseError("create", "failed to create notification", err)
	}
	return nil
}

func (t *ledgerTx) AppendEventLog(e *models.EventLog) error {
	if err := t.tx.Create(t.doc(eventLogsCollection, e.ID), e); err != nil {
		return errs.NewDatabaseError("create", "failed to append event log", err)
	}
	return nil
}

func (t *ledgerTx) Delete(collection, id string) error {
	if err := t.tx.Delete(t.doc(collection, id)); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete "+collection+" document", err)
	}
	return nil
}
