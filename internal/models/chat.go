package models

import "time"

type ChatMessage struct {
	Role      string    `firestore:"role" json:"role"` // "user" or "assistant"
	Content   string    `firestore:"content" json:"content"`
	Actions   []string  `firestore:"actions,omitempty" json:"actions,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}
