package models

import "time"

// CategoryLimit is keyed by the normalised category, so there is at most one per
// category per user. Spent accumulates for MonthKey and restarts when the month changes.
type CategoryLimit struct {
	ID               string    `firestore:"id" json:"id"`
	Category         string    `firestore:"category" json:"category"`
	Limit            float64   `firestore:"limit" json:"limit"`
	Spent            float64   `firestore:"spent" json:"spent"`
	MonthKey         string    `firestore:"monthKey" json:"monthKey"` // YYYY-MM
	IsActive         bool      `firestore:"isActive" json:"isActive"`
	Notified80Month  string    `firestore:"notified80Month,omitempty" json:"notified80Month,omitempty"`
	Notified100Month string    `firestore:"notified100Month,omitempty" json:"notified100Month,omitempty"`
	Version          int64     `firestore:"version" json:"version"`
	CreatedAt        time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt" json:"updatedAt"`
}
