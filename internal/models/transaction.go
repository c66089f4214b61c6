package models

import (
	"time"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
	TransactionSaving  TransactionType = "SAVING"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentPix  PaymentMethod = "PIX"
	PaymentCard PaymentMethod = "CARD"
)

type Transaction struct {
	ID            string          `firestore:"id" json:"id"`
	Description   string          `firestore:"description" json:"description"`
	Amount        float64         `firestore:"amount" json:"amount"`
	Category      string          `firestore:"category" json:"category"`
	CategoryKey   string          `firestore:"categoryKey" json:"categoryKey"` // normalised, used for limit lookups
	Type          TransactionType `firestore:"type" json:"type"`
	PaymentMethod PaymentMethod   `firestore:"paymentMethod" json:"paymentMethod"`
	Date          string          `firestore:"date" json:"date"` // YYYY-MM-DD
	CardID        string          `firestore:"cardId,omitempty" json:"cardId,omitempty"`
	IsPaid        bool            `firestore:"isPaid" json:"isPaid"`
	IsCardPayment bool            `firestore:"isCardPayment,omitempty" json:"isCardPayment,omitempty"`
	ReminderID    string          `firestore:"reminderId,omitempty" json:"reminderId,omitempty"`
	// CardDelta is the change applied to the card's usedAmount; deletion reverses it.
	CardDelta float64 `firestore:"cardDelta,omitempty" json:"cardDelta,omitempty"`
	// LimitMonth is the month key under which the amount was added to the category limit.
	LimitMonth string    `firestore:"limitMonth,omitempty" json:"limitMonth,omitempty"`
	Source     string    `firestore:"source" json:"source"`
	Version    int64     `firestore:"version" json:"version"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt" json:"updatedAt"`
}
