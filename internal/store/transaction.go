package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) txCollection(uid string) *firestore.CollectionRef {
	return userCollection(s.client, uid, dto.CollectionTransactions)
}

// ListRecent returns the newest transactions by creation time.
func (s *transactionStore) ListRecent(ctx context.Context, uid string, limit int) ([]*models.Transaction, error) {
	q := s.txCollection(uid).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return readAll[models.Transaction](q.Documents(ctx), "transactions")
}

// ListByDateRange returns transactions whose date (YYYY-MM-DD) is within [from, to].
func (s *transactionStore) ListByDateRange(ctx context.Context, uid, from, to string) ([]*models.Transaction, error) {
	q := s.txCollection(uid).
		Where("date", ">=", from).
		Where("date", "<=", to).
		OrderBy("date", firestore.Asc)
	return readAll[models.Transaction](q.Documents(ctx), "transactions")
}
