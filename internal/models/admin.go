package models

import "time"

type AdminConfig struct {
	DefaultAportePercent float64   `firestore:"defaultAportePercent" json:"defaultAportePercent"`
	MaintenanceMode      bool      `firestore:"maintenanceMode" json:"maintenanceMode"`
	UpdatedBy            string    `firestore:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	Version              int64     `firestore:"version" json:"version"`
	UpdatedAt            time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type AuditLog struct {
	ID           string         `firestore:"id" json:"id"`
	AdminID      string         `firestore:"adminId" json:"adminId"`
	Action       string         `firestore:"action" json:"action"`
	TargetUserID string         `firestore:"targetUserId,omitempty" json:"targetUserId,omitempty"`
	Details      map[string]any `firestore:"details" json:"details"`
	CreatedAt    time.Time      `firestore:"createdAt" json:"createdAt"`
}

// Announcement is a broadcast with no target user; clients read it directly.
type Announcement struct {
	ID        string    `firestore:"id" json:"id"`
	AdminID   string    `firestore:"adminId" json:"adminId"`
	Title     string    `firestore:"title" json:"title"`
	Body      string    `firestore:"body" json:"body"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
