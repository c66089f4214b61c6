package services

import (
	"context"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/helpers"
)

type stubTransactionReader struct {
	txs      []*models.Transaction
	from, to string
}

func (s *stubTransactionReader) ListByDateRange(_ context.Context, _ string, from, to string) ([]*models.Transaction, error) {
	s.from, s.to = from, to
	var out []*models.Transaction
	for _, t := range s.txs {
		if t.Date >= from && t.Date <= to {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubList[T any] struct {
	items []*T
}

func (s stubList[T]) List(_ context.Context, _ string) ([]*T, error) {
	return s.items, nil
}

func TestDashboardSummary(t *testing.T) {
	txs := &stubTransactionReader{txs: []*models.Transaction{
		{Type: models.TransactionIncome, Amount: 5000, Date: "2025-03-05"},
		{Type: models.TransactionExpense, Amount: 1800, Category: "moradia", PaymentMethod: models.PaymentPix, Date: "2025-03-06"},
		{Type: models.TransactionExpense, Amount: 1200, Category: "mercado", PaymentMethod: models.PaymentCash, Date: "2025-03-07"},
		{Type: models.TransactionExpense, Amount: 700, Category: "lazer", PaymentMethod: models.PaymentCard, Date: "2025-03-08"},
		{Type: models.TransactionExpense, Amount: 300, PaymentMethod: models.PaymentCard, IsCardPayment: true, Date: "2025-03-09"},
		{Type: models.TransactionSaving, Amount: 400, Category: "reserva", PaymentMethod: models.PaymentPix, Date: "2025-03-10"},
		{Type: models.TransactionExpense, Amount: 999, Category: "mercado", PaymentMethod: models.PaymentPix, Date: "2025-02-28"},
	}}
	goals := stubList[models.SavingGoal]{items: []*models.SavingGoal{
		{ID: "g1", Name: "Reserva", TargetAmount: 1000, CurrentAmount: 1000},
		{ID: "g2", Name: "Viagem", TargetAmount: 4000, CurrentAmount: 1000},
	}}
	cards := stubList[models.CreditCard]{items: []*models.CreditCard{
		{Limit: 1000, UsedAmount: 400},
		{Limit: 2500, UsedAmount: 100},
	}}
	limits := stubList[models.CategoryLimit]{items: []*models.CategoryLimit{
		{Category: "mercado", Limit: 1500, Spent: 1200, MonthKey: "2025-03", IsActive: true},
		{Category: "lazer", Limit: 300, Spent: 250, MonthKey: "2025-02", IsActive: true},
		{Category: "off", Limit: 10, IsActive: false},
	}}
	bills := stubList[models.Bill]{items: []*models.Bill{
		{Amount: 120, IsActive: true},
		{Amount: 80, IsActive: true, IsPaid: true},
	}}

	svc := NewDashboardService(txs, goals, cards, limits, bills)
	svc.clockNow = func() time.Time { return time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC) }

	sum, err := svc.Summary(helpers.TestCtx(), "user")
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}

	if sum.Income != 5000 || sum.Expense != 3000 || sum.Balance != 2000 {
		t.Fatalf("unexpected totals: income=%v expense=%v balance=%v", sum.Income, sum.Expense, sum.Balance)
	}
	if sum.Score != 100 || sum.SurplusPercent != 40 {
		t.Fatalf("score = %d surplus = %v, want 100 and 40", sum.Score, sum.SurplusPercent)
	}
	if sum.GoalsSavings != 400 {
		t.Fatalf("goalsSavings = %v", sum.GoalsSavings)
	}
	if sum.TopCategory != "moradia" || sum.TopCategoryPct != 60 {
		t.Fatalf("top = %s %v", sum.TopCategory, sum.TopCategoryPct)
	}
	if sum.Advice.Bracket != BracketExcellent {
		t.Fatalf("advice bracket = %s", sum.Advice.Bracket)
	}
	if sum.Cards.Limit != 3500 || sum.Cards.Used != 500 || sum.Cards.Available != 3000 {
		t.Fatalf("unexpected card totals: %+v", sum.Cards)
	}
	if len(sum.Limits) != 2 || sum.Limits[0].Percent != 80 || sum.Limits[1].Spent != 0 {
		t.Fatalf("unexpected limits: %+v", sum.Limits)
	}
	if sum.UpcomingBills != 1 || sum.UpcomingBillSum != 120 {
		t.Fatalf("unexpected bills: %d %v", sum.UpcomingBills, sum.UpcomingBillSum)
	}
	if txs.from != "2025-03-01" || txs.to != "2025-03-31" {
		t.Fatalf("unexpected range: %s..%s", txs.from, txs.to)
	}
}

func TestFirstOpenGoalSkipsCompleted(t *testing.T) {
	goals := []*models.SavingGoal{
		{Name: "Feita", TargetAmount: 10, CurrentAmount: 10},
		{Name: "Aberta", TargetAmount: 10, CurrentAmount: 2},
	}
	if got := firstOpenGoal(goals); got != "Aberta" {
		t.Fatalf("firstOpenGoal = %q", got)
	}
}
