package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

var errReadAfterWrite = errors.New("read after write in transaction")

// fakeLedger applies a transaction's writes only when fn succeeds and rejects
// reads issued after the first write, as Firestore does.
type fakeLedger struct {
	txs           map[string]models.Transaction
	goals         map[string]models.SavingGoal
	limits        map[string]models.CategoryLimit
	cards         map[string]models.CreditCard
	reminders     map[string]models.Bill
	notifications map[string]models.Notification
	eventLogs     []models.EventLog
	writeErr      error
	runs          int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		txs:           map[string]models.Transaction{},
		goals:         map[string]models.SavingGoal{},
		limits:        map[string]models.CategoryLimit{},
		cards:         map[string]models.CreditCard{},
		reminders:     map[string]models.Bill{},
		notifications: map[string]models.Notification{},
	}
}

func (f *fakeLedger) RunTransaction(_ context.Context, _ string, fn func(dto.LedgerTx) error) error {
	f.runs++
	tx := &fakeLedgerTx{l: f}
	if err := fn(tx); err != nil {
		return err
	}
	for _, op := range tx.ops {
		op()
	}
	return nil
}

func (f *fakeLedger) notificationsOfType(kind string) int {
	n := 0
	for _, v := range f.notifications {
		if v.Type == kind {
			n++
		}
	}
	return n
}

type fakeLedgerTx struct {
	l     *fakeLedger
	wrote bool
	ops   []func()
}

func (t *fakeLedgerTx) read() error {
	if t.wrote {
		return errReadAfterWrite
	}
	return nil
}

func (t *fakeLedgerTx) write(op func()) error {
	t.wrote = true
	if t.l.writeErr != nil {
		return t.l.writeErr
	}
	t.ops = append(t.ops, op)
	return nil
}

func (t *fakeLedgerTx) GetTransaction(id string) (*models.Transaction, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	v, ok := t.l.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	return &v, nil
}

func (t *fakeLedgerTx) GetGoal(id string) (*models.SavingGoal, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	v, ok := t.l.goals[id]
	if !ok {
		return nil, errs.NewNotFoundError("goal not found")
	}
	v.Contributions = append([]models.Contribution(nil), v.Contributions...)
	return &v, nil
}

func (t *fakeLedgerTx) GetReminder(id string) (*models.Bill, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	v, ok := t.l.reminders[id]
	if !ok {
		return nil, errs.NewNotFoundError("reminder not found")
	}
	return &v, nil
}

func (t *fakeLedgerTx) GetCard(id string) (*models.CreditCard, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	v, ok := t.l.cards[id]
	if !ok {
		return nil, errs.NewNotFoundError("card not found")
	}
	return &v, nil
}

func (t *fakeLedgerTx) FindLimit(key string) (*models.CategoryLimit, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	v, ok := t.l.limits[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (t *fakeLedgerTx) Exists(collection, id string) (bool, error) {
	if err := t.read(); err != nil {
		return false, err
	}
	var ok bool
	switch collection {
	case dto.CollectionTransactions:
		_, ok = t.l.txs[id]
	case dto.CollectionGoals:
		_, ok = t.l.goals[id]
	case dto.CollectionReminders:
		_, ok = t.l.reminders[id]
	case dto.CollectionLimits:
		_, ok = t.l.limits[id]
	case dto.CollectionCards:
		_, ok = t.l.cards[id]
	case dto.CollectionNotifications:
		_, ok = t.l.notifications[id]
	default:
		return false, fmt.Errorf("unknown collection %q", collection)
	}
	return ok, nil
}

func (t *fakeLedgerTx) PutTransaction(v *models.Transaction) error {
	c := *v
	return t.write(func() { t.l.txs[c.ID] = c })
}

func (t *fakeLedgerTx) PutGoal(v *models.SavingGoal) error {
	c := *v
	return t.write(func() { t.l.goals[c.ID] = c })
}

func (t *fakeLedgerTx) PutReminder(v *models.Bill) error {
	c := *v
	return t.write(func() { t.l.reminders[c.ID] = c })
}

func (t *fakeLedgerTx) PutCard(v *models.CreditCard) error {
	c := *v
	return t.write(func() { t.l.cards[c.ID] = c })
}

func (t *fakeLedgerTx) PutLimit(v *models.CategoryLimit) error {
	c := *v
	return t.write(func() { t.l.limits[c.ID] = c })
}

func (t *fakeLedgerTx) PutNotification(v *models.Notification) error {
	c := *v
	return t.write(func() { t.l.notifications[c.ID] = c })
}

func (t *fakeLedgerTx) AppendEventLog(v *models.EventLog) error {
	c := *v
	return t.write(func() { t.l.eventLogs = append(t.l.eventLogs, c) })
}

func (t *fakeLedgerTx) Delete(collection, id string) error {
	return t.write(func() {
		switch collection {
		case dto.CollectionTransactions:
			delete(t.l.txs, id)
		case dto.CollectionGoals:
			delete(t.l.goals, id)
		case dto.CollectionReminders:
			delete(t.l.reminders, id)
		case dto.CollectionLimits:
			delete(t.l.limits, id)
		case dto.CollectionCards:
			delete(t.l.cards, id)
		case dto.CollectionNotifications:
			delete(t.l.notifications, id)
		}
	})
}

type fakeAdmin struct {
	users         map[string]models.User
	config        *models.AdminConfig
	notifications map[string][]models.Notification
	announcements []models.Announcement
	audits        []models.AuditLog
}

func newFakeAdmin(users ...models.User) *fakeAdmin {
	f := &fakeAdmin{users: map[string]models.User{}, notifications: map[string][]models.Notification{}}
	for _, u := range users {
		f.users[u.UID] = u
	}
	return f
}

func (f *fakeAdmin) RunTransaction(_ context.Context, fn func(dto.AdminTx) error) error {
	tx := &fakeAdminTx{a: f}
	if err := fn(tx); err != nil {
		return err
	}
	for _, op := range tx.ops {
		op()
	}
	return nil
}

type fakeAdminTx struct {
	a   *fakeAdmin
	ops []func()
}

func (t *fakeAdminTx) GetUser(uid string) (*models.User, error) {
	u, ok := t.a.users[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	return &u, nil
}

func (t *fakeAdminTx) GetConfig() (*models.AdminConfig, error) {
	if t.a.config == nil {
		return &models.AdminConfig{DefaultAportePercent: 10}, nil
	}
	c := *t.a.config
	return &c, nil
}

func (t *fakeAdminTx) PutUser(u *models.User) error {
	c := *u
	t.ops = append(t.ops, func() { t.a.users[c.UID] = c })
	return nil
}

func (t *fakeAdminTx) PutConfig(c *models.AdminConfig) error {
	v := *c
	t.ops = append(t.ops, func() { t.a.config = &v })
	return nil
}

func (t *fakeAdminTx) PutUserNotification(uid string, n *models.Notification) error {
	v := *n
	t.ops = append(t.ops, func() { t.a.notifications[uid] = append(t.a.notifications[uid], v) })
	return nil
}

func (t *fakeAdminTx) PutAnnouncement(a *models.Announcement) error {
	v := *a
	t.ops = append(t.ops, func() { t.a.announcements = append(t.a.announcements, v) })
	return nil
}

func (t *fakeAdminTx) AppendAudit(a *models.AuditLog) error {
	v := *a
	t.ops = append(t.ops, func() { t.a.audits = append(t.a.audits, v) })
	return nil
}

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestDispatcher(l *fakeLedger, a *fakeAdmin) *dispatcher {
	d := NewDispatcher(l, a)
	d.clockNow = func() time.Time { return testNow }
	n := 0
	d.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return d
}
