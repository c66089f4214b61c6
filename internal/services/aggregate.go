package services

import (
	"sort"

	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

type monthTotals struct {
	Income       float64
	Expense      float64
	GoalsSavings float64
	ByCategory   map[string]float64
}

// countsAsExpense excludes CARD-tagged transactions: purchases on a card and
// card bill payments are transfers until the bill is settled.
func countsAsExpense(t *models.Transaction) bool {
	return t.Type == models.TransactionExpense && t.PaymentMethod != models.PaymentCard
}

func sumMonth(txs []*models.Transaction) monthTotals {
	out := monthTotals{ByCategory: map[string]float64{}}
	for _, t := range txs {
		switch {
		case t.Type == models.TransactionIncome:
			out.Income = money.Add(out.Income, t.Amount)
		case t.Type == models.TransactionSaving:
			out.GoalsSavings = money.Add(out.GoalsSavings, t.Amount)
		case countsAsExpense(t):
			out.Expense = money.Add(out.Expense, t.Amount)
			out.ByCategory[t.Category] = money.Add(out.ByCategory[t.Category], t.Amount)
		}
	}
	return out
}

// topCategory returns the largest expense category; ties go to the
// alphabetically first name.
func (m monthTotals) topCategory() (string, float64) {
	names := make([]string, 0, len(m.ByCategory))
	for name := range m.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		top    string
		amount float64
	)
	for _, name := range names {
		if v := m.ByCategory[name]; v > amount {
			top, amount = name, v
		}
	}
	return top, amount
}
