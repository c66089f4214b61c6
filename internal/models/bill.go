package models

import "time"

// Bill is a payment reminder. Paying a recurring bill spawns the next cycle's
// instance once: ParentID points back at the paid bill and NextID forward.
type Bill struct {
	ID            string        `firestore:"id" json:"id"`
	Description   string        `firestore:"description" json:"description"`
	Amount        float64       `firestore:"amount" json:"amount"`
	DueDay        int           `firestore:"dueDay" json:"dueDay"`
	DueDate       string        `firestore:"dueDate" json:"dueDate"` // YYYY-MM-DD
	IsPaid        bool          `firestore:"isPaid" json:"isPaid"`
	PaidAt        *time.Time    `firestore:"paidAt,omitempty" json:"paidAt,omitempty"`
	PaymentMethod PaymentMethod `firestore:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	TransactionID string        `firestore:"transactionId,omitempty" json:"transactionId,omitempty"`
	Recurring     bool          `firestore:"recurring" json:"recurring"`
	Category      string        `firestore:"category" json:"category"`
	IsActive      bool          `firestore:"isActive" json:"isActive"`
	ParentID      string        `firestore:"parentId,omitempty" json:"parentId,omitempty"`
	NextID        string        `firestore:"nextId,omitempty" json:"nextId,omitempty"`
	Version       int64         `firestore:"version" json:"version"`
	CreatedAt     time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `firestore:"updatedAt" json:"updatedAt"`
}
