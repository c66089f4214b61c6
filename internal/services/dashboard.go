package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

type transactionReader interface {
	ListByDateRange(ctx context.Context, uid, from, to string) ([]*models.Transaction, error)
}

type goalLister interface {
	List(ctx context.Context, uid string) ([]*models.SavingGoal, error)
}

type cardLister interface {
	List(ctx context.Context, uid string) ([]*models.CreditCard, error)
}

type limitLister interface {
	List(ctx context.Context, uid string) ([]*models.CategoryLimit, error)
}

type reminderLister interface {
	List(ctx context.Context, uid string) ([]*models.Bill, error)
}

type dashboardService struct {
	txs       transactionReader
	goals     goalLister
	cards     cardLister
	limits    limitLister
	reminders reminderLister
	clockNow  func() time.Time
}

func NewDashboardService(txs transactionReader, goals goalLister, cards cardLister, limits limitLister, reminders reminderLister) *dashboardService {
	return &dashboardService{
		txs:       txs,
		goals:     goals,
		cards:     cards,
		limits:    limits,
		reminders: reminders,
		clockNow:  time.Now,
	}
}

// Summary aggregates the current month for the dashboard.
func (s *dashboardService) Summary(ctx context.Context, uid string) (dto.DashboardSummary, error) {
	now := s.clockNow()
	month := monthKey(now)

	txs, err := s.txs.ListByDateRange(ctx, uid, month+"-01", month+"-31")
	if err != nil {
		return dto.DashboardSummary{}, err
	}
	goals, err := s.goals.List(ctx, uid)
	if err != nil {
		return dto.DashboardSummary{}, err
	}
	cards, err := s.cards.List(ctx, uid)
	if err != nil {
		return dto.DashboardSummary{}, err
	}
	limits, err := s.limits.List(ctx, uid)
	if err != nil {
		return dto.DashboardSummary{}, err
	}
	bills, err := s.reminders.List(ctx, uid)
	if err != nil {
		return dto.DashboardSummary{}, err
	}

	totals := sumMonth(txs)
	balance := money.Sub(totals.Income, totals.Expense)
	score := ComputeScore(totals.Income, totals.Expense)
	top, topAmount := totals.topCategory()
	topPct := money.Percent(topAmount, totals.Expense)

	out := dto.DashboardSummary{
		Month:          month,
		Income:         totals.Income,
		Expense:        totals.Expense,
		GoalsSavings:   totals.GoalsSavings,
		Balance:        balance,
		SurplusPercent: money.Percent(balance, totals.Income),
		Score:          score,
		TopCategory:    top,
		TopCategoryPct: topPct,
		Advice:         Advise(score, top, topPct, firstOpenGoal(goals)),
		Limits:         []dto.LimitUsage{},
		Goals:          make([]dto.GoalProgress, 0, len(goals)),
	}

	for _, c := range cards {
		out.Cards.Limit = money.Add(out.Cards.Limit, c.Limit)
		out.Cards.Used = money.Add(out.Cards.Used, c.UsedAmount)
	}
	out.Cards.Available = money.Sub(out.Cards.Limit, out.Cards.Used)

	for _, l := range limits {
		if !l.IsActive {
			continue
		}
		spent := l.Spent
		if l.MonthKey != month {
			spent = 0
		}
		out.Limits = append(out.Limits, dto.LimitUsage{
			Category: l.Category,
			Limit:    l.Limit,
			Spent:    spent,
			Percent:  money.Percent(spent, l.Limit),
		})
	}

	for _, g := range goals {
		out.Goals = append(out.Goals, dto.GoalProgress{
			ID:      g.ID,
			Name:    g.Name,
			Target:  g.TargetAmount,
			Current: g.CurrentAmount,
			Percent: money.Percent(g.CurrentAmount, g.TargetAmount),
		})
	}

	for _, b := range bills {
		if b.IsActive && !b.IsPaid {
			out.UpcomingBills++
			out.UpcomingBillSum = money.Add(out.UpcomingBillSum, b.Amount)
		}
	}
	return out, nil
}

func firstOpenGoal(goals []*models.SavingGoal) string {
	for _, g := range goals {
		if g.CurrentAmount < g.TargetAmount {
			return g.Name
		}
	}
	return ""
}

// Ladder suggests the goal ladder; it reads nothing from storage.
func (s *dashboardService) Ladder(_ context.Context, req dto.LadderRequest) []dto.LadderGoal {
	return SuggestGoals(req)
}
