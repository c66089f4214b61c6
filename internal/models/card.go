package models

import (
	"time"
)

// CreditCard keeps AvailableAmount = Limit - UsedAmount on every write.
type CreditCard struct {
	ID              string    `firestore:"id" json:"id"`
	Name            string    `firestore:"name" json:"name"`
	Bank            string    `firestore:"bank" json:"bank"`
	Limit           float64   `firestore:"limit" json:"limit"`
	UsedAmount      float64   `firestore:"usedAmount" json:"usedAmount"`
	AvailableAmount float64   `firestore:"availableAmount" json:"availableAmount"`
	DueDay          int       `firestore:"dueDay" json:"dueDay"`
	ClosingDay      int       `firestore:"closingDay,omitempty" json:"closingDay,omitempty"`
	Version         int64     `firestore:"version" json:"version"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}
