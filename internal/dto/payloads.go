package dto

import (
	"errors"

	"github.com/GregMSThompson/finance-assistant/internal/models"
)

// Collections accepted by DELETE_ITEM.
const (
	CollectionTransactions  = "transactions"
	CollectionGoals         = "goals"
	CollectionReminders     = "reminders"
	CollectionLimits        = "limits"
	CollectionCards         = "cards"
	CollectionNotifications = "notifications"
)

type AddExpensePayload struct {
	Description   string                 `json:"description" validate:"required,max=200"`
	Amount        float64                `json:"amount" validate:"gt=0"`
	Category      string                 `json:"category" validate:"required,max=60"`
	Type          models.TransactionType `json:"type,omitempty" validate:"oneof=EXPENSE SAVING"`
	PaymentMethod models.PaymentMethod   `json:"paymentMethod" validate:"oneof=CASH PIX CARD"`
	CardID        string                 `json:"cardId,omitempty" validate:"required_if=PaymentMethod CARD"`
	Date          string                 `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (*AddExpensePayload) EventType() EventType { return EventAddExpense }

func (p *AddExpensePayload) applyDefaults() {
	if p.Type == "" {
		p.Type = models.TransactionExpense
	}
}

type AddIncomePayload struct {
	Description   string               `json:"description" validate:"required,max=200"`
	Amount        float64              `json:"amount" validate:"gt=0"`
	Category      string               `json:"category" validate:"required,max=60"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod,omitempty" validate:"oneof=CASH PIX"`
	Date          string               `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (*AddIncomePayload) EventType() EventType { return EventAddIncome }

func (p *AddIncomePayload) applyDefaults() {
	if p.PaymentMethod == "" {
		p.PaymentMethod = models.PaymentPix
	}
}

// AddToGoalPayload moves money into (positive) or out of (negative) a goal.
type AddToGoalPayload struct {
	GoalID          string  `json:"goalId" validate:"required"`
	Amount          float64 `json:"amount" validate:"ne=0"`
	Note            string  `json:"note,omitempty" validate:"max=200"`
	Date            string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpectedVersion *int64  `json:"expectedVersion,omitempty" validate:"omitempty,gte=1"`
}

func (*AddToGoalPayload) EventType() EventType { return EventAddToGoal }

type CreateGoalPayload struct {
	Name           string  `json:"name" validate:"required,max=100"`
	TargetAmount   float64 `json:"targetAmount" validate:"gt=0"`
	CurrentAmount  float64 `json:"currentAmount,omitempty" validate:"gte=0"`
	Type           string  `json:"type,omitempty" validate:"max=40"`
	DeadlineMonths int     `json:"deadlineMonths,omitempty" validate:"gte=0,lte=600"`
	Category       string  `json:"category,omitempty" validate:"max=60"`
}

func (*CreateGoalPayload) EventType() EventType { return EventCreateGoal }

func (p *CreateGoalPayload) applyDefaults() {
	if p.Type == "" {
		p.Type = "custom"
	}
}

type UpdateLimitPayload struct {
	Category        string  `json:"category" validate:"required,max=60"`
	Limit           float64 `json:"limit" validate:"gt=0"`
	IsActive        *bool   `json:"isActive,omitempty"`
	ExpectedVersion *int64  `json:"expectedVersion,omitempty" validate:"omitempty,gte=1"`
}

func (*UpdateLimitPayload) EventType() EventType { return EventUpdateLimit }

type CreateReminderPayload struct {
	Description string  `json:"description" validate:"required,max=200"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	DueDay      int     `json:"dueDay" validate:"min=1,max=31"`
	Recurring   bool    `json:"recurring"`
	Category    string  `json:"category,omitempty" validate:"max=60"`
}

func (*CreateReminderPayload) EventType() EventType { return EventCreateReminder }

func (p *CreateReminderPayload) applyDefaults() {
	if p.Category == "" {
		p.Category = "bills"
	}
}

type PayReminderPayload struct {
	ReminderID      string               `json:"reminderId" validate:"required"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod" validate:"oneof=CASH PIX CARD"`
	CardID          string               `json:"cardId,omitempty" validate:"required_if=PaymentMethod CARD"`
	ExpectedVersion *int64               `json:"expectedVersion,omitempty" validate:"omitempty,gte=1"`
}

func (*PayReminderPayload) EventType() EventType { return EventPayReminder }

type AddCardPayload struct {
	Name       string  `json:"name" validate:"required,max=60"`
	Bank       string  `json:"bank,omitempty" validate:"max=60"`
	Limit      float64 `json:"limit" validate:"gt=0"`
	UsedAmount float64 `json:"usedAmount,omitempty" validate:"gte=0"`
	DueDay     int     `json:"dueDay" validate:"min=1,max=31"`
	ClosingDay int     `json:"closingDay,omitempty" validate:"omitempty,min=1,max=31"`
}

func (*AddCardPayload) EventType() EventType { return EventAddCard }

type UpdateCardPayload struct {
	CardID          string   `json:"cardId" validate:"required"`
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=60"`
	Bank            *string  `json:"bank,omitempty" validate:"omitempty,max=60"`
	Limit           *float64 `json:"limit,omitempty" validate:"omitempty,gt=0"`
	DueDay          *int     `json:"dueDay,omitempty" validate:"omitempty,min=1,max=31"`
	ClosingDay      *int     `json:"closingDay,omitempty" validate:"omitempty,min=1,max=31"`
	ExpectedVersion *int64   `json:"expectedVersion,omitempty" validate:"omitempty,gte=1"`
}

func (*UpdateCardPayload) EventType() EventType { return EventUpdateCard }

func (p *UpdateCardPayload) check() error {
	if p.Name == nil && p.Bank == nil && p.Limit == nil && p.DueDay == nil && p.ClosingDay == nil {
		return errors.New("no fields to update")
	}
	return nil
}

type DeleteCardPayload struct {
	CardID string `json:"cardId" validate:"required"`
}

func (*DeleteCardPayload) EventType() EventType { return EventDeleteCard }

// PayCardPayload settles part of a card's bill. The resulting transaction is
// CARD-tagged so the dashboard treats it as a transfer.
type PayCardPayload struct {
	CardID          string  `json:"cardId" validate:"required"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	Date            string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpectedVersion *int64  `json:"expectedVersion,omitempty" validate:"omitempty,gte=1"`
}

func (*PayCardPayload) EventType() EventType { return EventPayCard }

type DeleteItemPayload struct {
	ID         string `json:"id" validate:"required,excludesall=/"`
	Collection string `json:"collection" validate:"oneof=transactions goals reminders limits cards notifications"`
}

func (*DeleteItemPayload) EventType() EventType { return EventDeleteItem }

type AdminUpdateUserPayload struct {
	TargetUID          string       `json:"targetUid" validate:"required"`
	Status             *string      `json:"status,omitempty" validate:"omitempty,oneof=active blocked deleted"`
	Role               *models.Role `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
	SubscriptionStatus *string      `json:"subscriptionStatus,omitempty" validate:"omitempty,max=40"`
}

func (*AdminUpdateUserPayload) EventType() EventType { return EventAdminUpdateUser }

func (p *AdminUpdateUserPayload) check() error {
	if p.Status == nil && p.Role == nil && p.SubscriptionStatus == nil {
		return errors.New("no fields to update")
	}
	return nil
}

// AdminSendBroadcastPayload targets one user when TargetUID is set; otherwise
// it becomes a single announcement record.
type AdminSendBroadcastPayload struct {
	TargetUID string `json:"targetUid,omitempty"`
	Title     string `json:"title" validate:"required,max=120"`
	Body      string `json:"body" validate:"required,max=2000"`
}

func (*AdminSendBroadcastPayload) EventType() EventType { return EventAdminSendBroadcast }

type AdminUpdateConfigPayload struct {
	DefaultAportePercent *float64 `json:"defaultAportePercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaintenanceMode      *bool    `json:"maintenanceMode,omitempty"`
}

func (*AdminUpdateConfigPayload) EventType() EventType { return EventAdminUpdateConfig }

func (p *AdminUpdateConfigPayload) check() error {
	if p.DefaultAportePercent == nil && p.MaintenanceMode == nil {
		return errors.New("no fields to update")
	}
	return nil
}
