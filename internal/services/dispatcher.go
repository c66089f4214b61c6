package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/helpers"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

type ledgerRunner interface {
	RunTransaction(ctx context.Context, uid string, fn func(dto.LedgerTx) error) error
}

type adminRunner interface {
	RunTransaction(ctx context.Context, fn func(dto.AdminTx) error) error
}

type dispatcher struct {
	ledger   ledgerRunner
	admin    adminRunner
	clockNow func() time.Time
	newID    func() string
}

func NewDispatcher(ledger ledgerRunner, admin adminRunner) *dispatcher {
	return &dispatcher{
		ledger:   ledger,
		admin:    admin,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// Dispatch applies one event for actor. Every write of the handler and the
// matching event-log or audit entry commit together or not at all.
func (d *dispatcher) Dispatch(ctx context.Context, actor dto.Actor, ev dto.Event) (dto.DispatchResult, error) {
	log, ctx := logger.With(ctx, "event_type", ev.Type, "source", ev.Source)

	entityID, err := d.apply(ctx, actor, ev)
	if err != nil {
		log.Warn("event dispatch failed", "error", err)
		return dto.DispatchResult{Success: false, Type: ev.Type, Error: err.Error()}, err
	}

	log.Info("event dispatched", "entity_id", entityID)
	return dto.DispatchResult{Success: true, Type: ev.Type, EntityID: entityID}, nil
}

func (d *dispatcher) apply(ctx context.Context, actor dto.Actor, ev dto.Event) (string, error) {
	if ev.Payload == nil || ev.Payload.EventType() != ev.Type {
		return "", errs.NewValidationError("event payload does not match its type")
	}
	now := d.clockNow()

	if ev.Type.IsAdmin() {
		if actor.Role != models.RoleAdmin {
			return "", errs.NewForbiddenError("admin role required")
		}
		var entityID string
		err := d.admin.RunTransaction(ctx, func(tx dto.AdminTx) error {
			var err error
			entityID, err = d.applyAdmin(tx, actor, ev, now)
			return err
		})
		return entityID, err
	}

	var entityID string
	err := d.ledger.RunTransaction(ctx, actor.UID, func(tx dto.LedgerTx) error {
		var err error
		entityID, err = d.applyLedger(tx, ev, now)
		if err != nil {
			return err
		}
		return tx.AppendEventLog(&models.EventLog{
			ID:              d.newID(),
			Type:            string(ev.Type),
			Source:          ev.Source,
			EntityID:        entityID,
			Payload:         payloadMap(ev.Payload),
			ClientTimestamp: ev.Timestamp,
			CreatedAt:       now,
		})
	})
	return entityID, err
}

func (d *dispatcher) applyLedger(tx dto.LedgerTx, ev dto.Event, now time.Time) (string, error) {
	switch p := ev.Payload.(type) {
	case *dto.AddExpensePayload:
		return d.addExpense(tx, p, ev.Source, now)
	case *dto.AddIncomePayload:
		return d.addIncome(tx, p, ev.Source, now)
	case *dto.AddToGoalPayload:
		return d.addToGoal(tx, p, now)
	case *dto.CreateGoalPayload:
		return d.createGoal(tx, p, now)
	case *dto.UpdateLimitPayload:
		return d.updateLimit(tx, p, now)
	case *dto.CreateReminderPayload:
		return d.createReminder(tx, p, now)
	case *dto.PayReminderPayload:
		return d.payReminder(tx, p, ev.Source, now)
	case *dto.AddCardPayload:
		return d.addCard(tx, p, now)
	case *dto.UpdateCardPayload:
		return d.updateCard(tx, p, now)
	case *dto.DeleteCardPayload:
		return d.deleteCard(tx, p)
	case *dto.PayCardPayload:
		return d.payCard(tx, p, ev.Source, now)
	case *dto.DeleteItemPayload:
		return d.deleteItem(tx, p, now)
	default:
		return "", errs.NewValidationError(fmt.Sprintf("unsupported event type: %s", ev.Type))
	}
}

func (d *dispatcher) addExpense(tx dto.LedgerTx, p *dto.AddExpensePayload, source string, now time.Time) (string, error) {
	key := NormalizeCategory(p.Category)
	date := dateOr(p.Date, now)

	var card *models.CreditCard
	if p.PaymentMethod == models.PaymentCard {
		c, err := tx.GetCard(p.CardID)
		if err != nil {
			return "", err
		}
		card = c
	}
	var limit *models.CategoryLimit
	if p.Type == models.TransactionExpense {
		l, err := tx.FindLimit(key)
		if err != nil {
			return "", err
		}
		limit = l
	}

	t := &models.Transaction{
		ID:            d.newID(),
		Description:   p.Description,
		Amount:        p.Amount,
		Category:      p.Category,
		CategoryKey:   key,
		Type:          p.Type,
		PaymentMethod: p.PaymentMethod,
		Date:          date,
		IsPaid:        p.PaymentMethod != models.PaymentCard,
		Source:        source,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return t.ID, d.commitSpend(tx, t, card, limit, now)
}

// commitSpend writes an expense-like transaction together with its card usage
// and category limit effects. Reads must already be done.
func (d *dispatcher) commitSpend(tx dto.LedgerTx, t *models.Transaction, card *models.CreditCard, limit *models.CategoryLimit, now time.Time) error {
	if card != nil {
		t.CardID = card.ID
		t.CardDelta = t.Amount
		card.UsedAmount = money.Add(card.UsedAmount, t.Amount)
		card.AvailableAmount = money.Sub(card.Limit, card.UsedAmount)
		touch(&card.Version, &card.UpdatedAt, now)
	}

	var notes []*models.Notification
	if limit != nil {
		var applied bool
		notes, applied = d.applyLimitSpend(limit, t.Amount, monthOfDate(t.Date), now)
		if applied {
			t.LimitMonth = limit.MonthKey
		}
	}

	if err := tx.PutTransaction(t); err != nil {
		return err
	}
	if card != nil {
		if err := tx.PutCard(card); err != nil {
			return err
		}
	}
	if t.LimitMonth != "" {
		if err := tx.PutLimit(limit); err != nil {
			return err
		}
	}
	for _, n := range notes {
		if err := tx.PutNotification(n); err != nil {
			return err
		}
	}
	return nil
}

// applyLimitSpend adds amount to the limit when month is the current calendar
// month. Spending dated in any other month is ignored, and MonthKey never moves
// past the current month. Each threshold notifies at most once per month.
func (d *dispatcher) applyLimitSpend(l *models.CategoryLimit, amount float64, month string, now time.Time) ([]*models.Notification, bool) {
	current := monthKey(now)
	if !l.IsActive || month != current {
		return nil, false
	}
	if l.MonthKey != current {
		l.MonthKey = current
		l.Spent = 0
	}
	l.Spent = money.Add(l.Spent, amount)
	touch(&l.Version, &l.UpdatedAt, now)

	pct := money.Percent(l.Spent, l.Limit)
	switch {
	case pct >= 100 && l.Notified100Month != month:
		l.Notified100Month = month
		l.Notified80Month = month
		return []*models.Notification{d.notification(models.NotificationLimit100,
			"Limite estourado",
			fmt.Sprintf("Você ultrapassou o limite de %s: %s de %s.", l.Category, money.Format(l.Spent), money.Format(l.Limit)),
			now)}, true
	case pct >= 80 && pct < 100 && l.Notified80Month != month:
		l.Notified80Month = month
		return []*models.Notification{d.notification(models.NotificationLimit80,
			"Limite quase no fim",
			fmt.Sprintf("Você já usou %.0f%% do limite de %s.", pct, l.Category),
			now)}, true
	}
	return nil, true
}

func (d *dispatcher) notification(kind, title, body string, now time.Time) *models.Notification {
	return &models.Notification{ID: d.newID(), Type: kind, Title: title, Body: body, CreatedAt: now}
}

func (d *dispatcher) addIncome(tx dto.LedgerTx, p *dto.AddIncomePayload, source string, now time.Time) (string, error) {
	t := &models.Transaction{
		ID:            d.newID(),
		Description:   p.Description,
		Amount:        p.Amount,
		Category:      p.Category,
		CategoryKey:   NormalizeCategory(p.Category),
		Type:          models.TransactionIncome,
		PaymentMethod: p.PaymentMethod,
		Date:          dateOr(p.Date, now),
		IsPaid:        true,
		Source:        source,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return t.ID, tx.PutTransaction(t)
}

func (d *dispatcher) addToGoal(tx dto.LedgerTx, p *dto.AddToGoalPayload, now time.Time) (string, error) {
	g, err := tx.GetGoal(p.GoalID)
	if err != nil {
		return "", err
	}
	if err := checkVersion("goal", p.ExpectedVersion, g.Version); err != nil {
		return "", err
	}

	before := g.CurrentAmount
	if p.Amount >= 0 {
		g.CurrentAmount = money.Add(before, p.Amount)
	} else {
		g.CurrentAmount = money.SubFloor(before, -p.Amount)
	}
	g.Contributions = append(g.Contributions, models.Contribution{
		Amount:    money.Sub(g.CurrentAmount, before),
		Date:      dateOr(p.Date, now),
		Note:      p.Note,
		CreatedAt: now,
	})
	touch(&g.Version, &g.UpdatedAt, now)
	return g.ID, tx.PutGoal(g)
}

func (d *dispatcher) createGoal(tx dto.LedgerTx, p *dto.CreateGoalPayload, now time.Time) (string, error) {
	g := &models.SavingGoal{
		ID:             d.newID(),
		Name:           p.Name,
		TargetAmount:   p.TargetAmount,
		CurrentAmount:  p.CurrentAmount,
		Type:           p.Type,
		DeadlineMonths: p.DeadlineMonths,
		Category:       p.Category,
		Contributions:  []models.Contribution{},
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.CurrentAmount > 0 {
		g.Contributions = append(g.Contributions, models.Contribution{
			Amount:    p.CurrentAmount,
			Date:      now.Format(dateLayout),
			Note:      "saldo inicial",
			CreatedAt: now,
		})
	}
	return g.ID, tx.PutGoal(g)
}

func (d *dispatcher) updateLimit(tx dto.LedgerTx, p *dto.UpdateLimitPayload, now time.Time) (string, error) {
	key := NormalizeCategory(p.Category)
	if key == "" {
		return "", errs.NewValidationError("limit category must contain a letter or digit")
	}
	l, err := tx.FindLimit(key)
	if err != nil {
		return "", err
	}

	if l == nil {
		if err := checkVersion("limit", p.ExpectedVersion, 0); err != nil {
			return "", err
		}
		l = &models.CategoryLimit{
			ID:        key,
			Category:  p.Category,
			Limit:     p.Limit,
			MonthKey:  monthKey(now),
			IsActive:  helpers.ValueOr(p.IsActive, true),
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return l.ID, tx.PutLimit(l)
	}

	if err := checkVersion("limit", p.ExpectedVersion, l.Version); err != nil {
		return "", err
	}
	l.Limit = p.Limit
	l.IsActive = helpers.ValueOr(p.IsActive, l.IsActive)
	touch(&l.Version, &l.UpdatedAt, now)
	return l.ID, tx.PutLimit(l)
}

func (d *dispatcher) createReminder(tx dto.LedgerTx, p *dto.CreateReminderPayload, now time.Time) (string, error) {
	b := &models.Bill{
		ID:          d.newID(),
		Description: p.Description,
		Amount:      p.Amount,
		DueDay:      p.DueDay,
		DueDate:     NextDueDate(now, p.DueDay),
		Recurring:   p.Recurring,
		Category:    p.Category,
		IsActive:    true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return b.ID, tx.PutReminder(b)
}

// payReminder marks the bill paid and books it like an expense on the chosen
// method. A recurring bill gets its next instance in the same transaction.
func (d *dispatcher) payReminder(tx dto.LedgerTx, p *dto.PayReminderPayload, source string, now time.Time) (string, error) {
	b, err := tx.GetReminder(p.ReminderID)
	if err != nil {
		return "", err
	}
	if err := checkVersion("reminder", p.ExpectedVersion, b.Version); err != nil {
		return "", err
	}
	if b.IsPaid {
		return "", errs.NewValidationError("reminder is already paid")
	}

	var card *models.CreditCard
	if p.PaymentMethod == models.PaymentCard {
		if card, err = tx.GetCard(p.CardID); err != nil {
			return "", err
		}
	}
	key := NormalizeCategory(b.Category)
	limit, err := tx.FindLimit(key)
	if err != nil {
		return "", err
	}

	t := &models.Transaction{
		ID:            d.newID(),
		Description:   b.Description,
		Amount:        b.Amount,
		Category:      b.Category,
		CategoryKey:   key,
		Type:          models.TransactionExpense,
		PaymentMethod: p.PaymentMethod,
		Date:          now.Format(dateLayout),
		IsPaid:        p.PaymentMethod != models.PaymentCard,
		ReminderID:    b.ID,
		Source:        source,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := d.commitSpend(tx, t, card, limit, now); err != nil {
		return "", err
	}

	var next *models.Bill
	if b.Recurring && b.IsActive && b.NextID == "" {
		next = &models.Bill{
			ID:          d.newID(),
			Description: b.Description,
			Amount:      b.Amount,
			DueDay:      b.DueDay,
			DueDate:     FollowingDueDate(b.DueDate, b.DueDay, now),
			Recurring:   true,
			Category:    b.Category,
			IsActive:    true,
			ParentID:    b.ID,
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		b.NextID = next.ID
	}

	paidAt := now
	b.IsPaid = true
	b.PaidAt = &paidAt
	b.PaymentMethod = p.PaymentMethod
	b.TransactionID = t.ID
	touch(&b.Version, &b.UpdatedAt, now)
	if err := tx.PutReminder(b); err != nil {
		return "", err
	}
	if next != nil {
		if err := tx.PutReminder(next); err != nil {
			return "", err
		}
	}
	return b.ID, nil
}

func (d *dispatcher) addCard(tx dto.LedgerTx, p *dto.AddCardPayload, now time.Time) (string, error) {
	c := &models.CreditCard{
		ID:              d.newID(),
		Name:            p.Name,
		Bank:            p.Bank,
		Limit:           p.Limit,
		UsedAmount:      p.UsedAmount,
		AvailableAmount: money.Sub(p.Limit, p.UsedAmount),
		DueDay:          p.DueDay,
		ClosingDay:      p.ClosingDay,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return c.ID, tx.PutCard(c)
}

func (d *dispatcher) updateCard(tx dto.LedgerTx, p *dto.UpdateCardPayload, now time.Time) (string, error) {
	c, err := tx.GetCard(p.CardID)
	if err != nil {
		return "", err
	}
	if err := checkVersion("card", p.ExpectedVersion, c.Version); err != nil {
		return "", err
	}

	c.Name = helpers.ValueOr(p.Name, c.Name)
	c.Bank = helpers.ValueOr(p.Bank, c.Bank)
	c.Limit = helpers.ValueOr(p.Limit, c.Limit)
	c.DueDay = helpers.ValueOr(p.DueDay, c.DueDay)
	c.ClosingDay = helpers.ValueOr(p.ClosingDay, c.ClosingDay)
	c.AvailableAmount = money.Sub(c.Limit, c.UsedAmount)
	touch(&c.Version, &c.UpdatedAt, now)
	return c.ID, tx.PutCard(c)
}

func (d *dispatcher) deleteCard(tx dto.LedgerTx, p *dto.DeleteCardPayload) (string, error) {
	if _, err := tx.GetCard(p.CardID); err != nil {
		return "", err
	}
	return p.CardID, tx.Delete(dto.CollectionCards, p.CardID)
}

func (d *dispatcher) payCard(tx dto.LedgerTx, p *dto.PayCardPayload, source string, now time.Time) (string, error) {
	c, err := tx.GetCard(p.CardID)
	if err != nil {
		return "", err
	}
	if err := checkVersion("card", p.ExpectedVersion, c.Version); err != nil {
		return "", err
	}

	before := c.UsedAmount
	c.UsedAmount = money.SubFloor(before, p.Amount)
	c.AvailableAmount = money.Sub(c.Limit, c.UsedAmount)
	touch(&c.Version, &c.UpdatedAt, now)

	t := &models.Transaction{
		ID:            d.newID(),
		Description:   "Pagamento fatura " + c.Name,
		Amount:        p.Amount,
		Category:      "cartao",
		CategoryKey:   "cartao",
		Type:          models.TransactionExpense,
		PaymentMethod: models.PaymentCard,
		Date:          dateOr(p.Date, now),
		CardID:        c.ID,
		IsPaid:        true,
		IsCardPayment: true,
		CardDelta:     money.Sub(c.UsedAmount, before),
		Source:        source,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.PutTransaction(t); err != nil {
		return "", err
	}
	return t.ID, tx.PutCard(c)
}

// deleteItem removes a document and reverses what the document had added to
// card usage or limit spend.
func (d *dispatcher) deleteItem(tx dto.LedgerTx, p *dto.DeleteItemPayload, now time.Time) (string, error) {
	switch p.Collection {
	case dto.CollectionTransactions:
		return p.ID, d.deleteTransaction(tx, p.ID, now)
	case dto.CollectionCards:
		return d.deleteCard(tx, &dto.DeleteCardPayload{CardID: p.ID})
	}

	ok, err := tx.Exists(p.Collection, p.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.NewNotFoundError(p.Collection + " item not found")
	}
	return p.ID, tx.Delete(p.Collection, p.ID)
}

func (d *dispatcher) deleteTransaction(tx dto.LedgerTx, id string, now time.Time) error {
	t, err := tx.GetTransaction(id)
	if err != nil {
		return err
	}

	var notFound *errs.NotFoundError
	var card *models.CreditCard
	if t.CardID != "" && t.CardDelta != 0 && (t.IsCardPayment || !t.IsPaid) {
		c, err := tx.GetCard(t.CardID)
		switch {
		case err == nil:
			card = c
		case !errors.As(err, &notFound):
			return err
		}
	}
	var limit *models.CategoryLimit
	if t.LimitMonth != "" {
		if limit, err = tx.FindLimit(t.CategoryKey); err != nil {
			return err
		}
	}
	// A bill paid by this transaction goes back to unpaid. Its spawned
	// next instance stays; NextID stops a second payment from spawning again.
	var bill *models.Bill
	if t.ReminderID != "" {
		b, err := tx.GetReminder(t.ReminderID)
		switch {
		case err == nil:
			if b.TransactionID == t.ID {
				bill = b
			}
		case !errors.As(err, &notFound):
			return err
		}
	}

	if err := tx.Delete(dto.CollectionTransactions, id); err != nil {
		return err
	}
	if card != nil {
		card.UsedAmount = money.SubFloor(card.UsedAmount, t.CardDelta)
		card.AvailableAmount = money.Sub(card.Limit, card.UsedAmount)
		touch(&card.Version, &card.UpdatedAt, now)
		if err := tx.PutCard(card); err != nil {
			return err
		}
	}
	if limit != nil && limit.MonthKey == t.LimitMonth {
		limit.Spent = money.SubFloor(limit.Spent, t.Amount)
		touch(&limit.Version, &limit.UpdatedAt, now)
		if err := tx.PutLimit(limit); err != nil {
			return err
		}
	}
	if bill != nil {
		bill.IsPaid = false
		bill.PaidAt = nil
		bill.PaymentMethod = ""
		bill.TransactionID = ""
		touch(&bill.Version, &bill.UpdatedAt, now)
		if err := tx.PutReminder(bill); err != nil {
			return err
		}
	}
	return nil
}

func checkVersion(entity string, expected *int64, actual int64) error {
	if expected != nil && *expected != actual {
		return errs.NewConflictError(entity, *expected, actual)
	}
	return nil
}

func touch(version *int64, updatedAt *time.Time, now time.Time) {
	*version++
	*updatedAt = now
}

func dateOr(date string, now time.Time) string {
	if date != "" {
		return date
	}
	return now.Format(dateLayout)
}

func payloadMap(p dto.Payload) map[string]any {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
