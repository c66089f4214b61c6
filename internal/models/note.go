package models

import "time"

// Note holds a KMS-encrypted free-text note captured by the assistant.
type Note struct {
	ID         string    `firestore:"id" json:"id"`
	Ciphertext string    `firestore:"ciphertext" json:"-"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
}
