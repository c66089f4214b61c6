package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
	StatusDeleted = "deleted"
)

type User struct {
	UID                string    `firestore:"uid" json:"uid"`
	UserID             string    `firestore:"userId" json:"userId"` // unique lowercase handle
	Name               string    `firestore:"name" json:"name"`
	Email              string    `firestore:"email" json:"email"`
	Role               Role      `firestore:"role" json:"role"`
	SubscriptionStatus string    `firestore:"subscriptionStatus" json:"subscriptionStatus"`
	Status             string    `firestore:"status" json:"status"`
	Version            int64     `firestore:"version" json:"version"`
	CreatedAt          time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// UsernameIndex reserves a handle; it lives at usernames/{handle}.
type UsernameIndex struct {
	Handle    string    `firestore:"handle" json:"handle"`
	UID       string    `firestore:"uid" json:"uid"`
	Email     string    `firestore:"email" json:"email"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
