package models

import "time"

const (
	NotificationLimit80   = "LIMIT_80"
	NotificationLimit100  = "LIMIT_100"
	NotificationBroadcast = "BROADCAST"
)

// Notification is append-only.
type Notification struct {
	ID        string    `firestore:"id" json:"id"`
	Type      string    `firestore:"type" json:"type"`
	Title     string    `firestore:"title" json:"title"`
	Body      string    `firestore:"body" json:"body"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
