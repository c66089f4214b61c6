package models

import "time"

type EventLog struct {
	ID              string         `firestore:"id" json:"id"`
	Type            string         `firestore:"type" json:"type"`
	Source          string         `firestore:"source" json:"source"`
	EntityID        string         `firestore:"entityId,omitempty" json:"entityId,omitempty"`
	Payload         map[string]any `firestore:"payload" json:"payload"`
	ClientTimestamp time.Time      `firestore:"clientTimestamp,omitempty" json:"clientTimestamp,omitempty"`
	CreatedAt       time.Time      `firestore:"createdAt" json:"createdAt"`
}
