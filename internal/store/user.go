package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

type userStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
	Usernames  *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		Client:     client,
		Collection: client.Collection(usersCollection),
		Usernames:  client.Collection(usernamesCollection),
	}
}

// CreateUser reserves the handle and writes the profile in one transaction.
func (us *userStore) CreateUser(ctx context.Context, user *models.User) error {
	handleRef := us.Usernames.Doc(user.UserID)
	userRef := us.Collection.Doc(user.UID)

	err := us.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(handleRef); err == nil {
			return errs.NewAlreadyExistsError("handle already taken")
		} else if status.Code(err) != codes.NotFound {
			return errs.NewDatabaseError("read", "failed to check handle", err)
		}
		if _, err := tx.Get(userRef); err == nil {
			return errs.NewAlreadyExistsError("profile already exists")
		} else if status.Code(err) != codes.NotFound {
			return errs.NewDatabaseError("read", "failed to check profile", err)
		}

		idx := models.UsernameIndex{
			Handle:    user.UserID,
			UID:       user.UID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		}
		if err := tx.Create(handleRef, idx); err != nil {
			return errs.NewDatabaseError("create", "failed to reserve handle", err)
		}
		if err := tx.Create(userRef, user); err != nil {
			return errs.NewDatabaseError("create", "failed to create profile", err)
		}
		return nil
	})
	return txError("commit", err)
}

func (us *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return getDoc[models.User](ctx, us.Collection.Doc(uid), "user")
}

func (us *userStore) GetHandle(ctx context.Context, handle string) (*models.UsernameIndex, error) {
	return getDoc[models.UsernameIndex](ctx, us.Usernames.Doc(handle), "handle")
}

func (us *userStore) ListUsers(ctx context.Context, limit int) ([]*models.User, error) {
	q := us.Collection.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return readAll[models.User](q.Documents(ctx), "users")
}
