package models

import "time"

type SavingGoal struct {
	ID             string         `firestore:"id" json:"id"`
	Name           string         `firestore:"name" json:"name"`
	TargetAmount   float64        `firestore:"targetAmount" json:"targetAmount"`
	CurrentAmount  float64        `firestore:"currentAmount" json:"currentAmount"`
	Type           string         `firestore:"type" json:"type"`
	DeadlineMonths int            `firestore:"deadlineMonths" json:"deadlineMonths"`
	Category       string         `firestore:"category,omitempty" json:"category,omitempty"`
	Contributions  []Contribution `firestore:"contributions" json:"contributions"`
	Version        int64          `firestore:"version" json:"version"`
	CreatedAt      time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

// Contribution is a signed movement on a goal; withdrawals are negative.
type Contribution struct {
	Amount    float64   `firestore:"amount" json:"amount"`
	Date      string    `firestore:"date" json:"date"`
	Note      string    `firestore:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
