package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

type goalStore struct {
	client *firestore.Client
}

func NewGoalStore(client *firestore.Client) *goalStore {
	return &goalStore{client: client}
}

func (s *goalStore) List(ctx context.Context, uid string) ([]*models.SavingGoal, error) {
	q := userCollection(s.client, uid, dto.CollectionGoals).OrderBy("createdAt", firestore.Asc)
	return readAll[models.SavingGoal](q.Documents(ctx), "goals")
}

type limitStore struct {
	client *firestore.Client
}

func NewLimitStore(client *firestore.Client) *limitStore {
	return &limitStore{client: client}
}

func (s *limitStore) List(ctx context.Context, uid string) ([]*models.CategoryLimit, error) {
	return readAll[models.CategoryLimit](userCollection(s.client, uid, dto.CollectionLimits).Documents(ctx), "limits")
}

type cardStore struct {
	client *firestore.Client
}

func NewCardStore(client *firestore.Client) *cardStore {
	return &cardStore{client: client}
}

func (s *cardStore) List(ctx context.Context, uid string) ([]*models.CreditCard, error) {
	q := userCollection(s.client, uid, dto.CollectionCards).OrderBy("createdAt", firestore.Asc)
	return readAll[models.CreditCard](q.Documents(ctx), "cards")
}

type reminderStore struct {
	client *firestore.Client
}

func NewReminderStore(client *firestore.Client) *reminderStore {
	return &reminderStore{client: client}
}

func (s *reminderStore) List(ctx context.Context, uid string) ([]*models.Bill, error) {
	q := userCollection(s.client, uid, dto.CollectionReminders).OrderBy("dueDate", firestore.Asc)
	return readAll[models.Bill](q.Documents(ctx), "reminders")
}

type notificationStore struct {
	client *firestore.Client
}

func NewNotificationStore(client *firestore.Client) *notificationStore {
	return &notificationStore{client: client}
}

func (s *notificationStore) ListRecent(ctx context.Context, uid string, limit int) ([]*models.Notification, error) {
	q := userCollection(s.client, uid, dto.CollectionNotifications).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return readAll[models.Notification](q.Documents(ctx), "notifications")
}
