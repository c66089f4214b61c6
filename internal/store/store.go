package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-assistant/internal/errs"
)

const (
	usersCollection     = "users"
	usernamesCollection = "usernames"
	adminCollection     = "admin"

	eventLogsCollection    = "event_logs"
	notesCollection        = "notes"
	chatSessionsCollection = "chat_sessions"
	messagesCollection     = "messages"
)

func userCollection(client *firestore.Client, uid, name string) *firestore.CollectionRef {
	return client.Collection(usersCollection).Doc(uid).Collection(name)
}

// readAll drains iter into a slice of T. what names the entity in errors.
func readAll[T any](iter *firestore.DocumentIterator, what string) ([]*T, error) {
	defer iter.Stop()

	out := []*T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list "+what, err)
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse "+what+" data", err)
		}
		out = append(out, &v)
	}
	return out, nil
}

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef, what string) (*T, error) {
	snap, err := ref.Get(ctx)
	return decodeSnapshot[T](snap, err, what)
}

func decodeSnapshot[T any](snap *firestore.DocumentSnapshot, err error, what string) (*T, error) {
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError(what + " not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get "+what, err)
	}
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse "+what+" data", err)
	}
	return &v, nil
}

// txError keeps domain errors raised inside a transaction function intact and
// wraps everything else (aborts, commit failures) as a database error.
func txError(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		notFound   *errs.NotFoundError
		exists     *errs.AlreadyExistsError
		validation *errs.ValidationError
		forbidden  *errs.ForbiddenError
		conflict   *errs.ConflictError
		database   *errs.DatabaseError
		encryption *errs.EncryptionError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &exists), errors.As(err, &validation),
		errors.As(err, &forbidden), errors.As(err, &conflict), errors.As(err, &database),
		errors.As(err, &encryption):
		return err
	}
	if status.Code(err) == codes.AlreadyExists {
		return errs.NewAlreadyExistsError("document already exists")
	}
	return errs.NewDatabaseError(op, "transaction failed", err)
}
