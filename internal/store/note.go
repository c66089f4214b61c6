package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

type noteStore struct {
	client *firestore.Client
}

func NewNoteStore(client *firestore.Client) *noteStore {
	return &noteStore{client: client}
}

func (s *noteStore) Create(ctx context.Context, uid string, n *models.Note) error {
	_, err := userCollection(s.client, uid, notesCollection).Doc(n.ID).Create(ctx, n)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create note", err)
	}
	return nil
}

func (s *noteStore) List(ctx context.Context, uid string, limit int) ([]*models.Note, error) {
	q := userCollection(s.client, uid, notesCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return readAll[models.Note](q.Documents(ctx), "notes")
}
