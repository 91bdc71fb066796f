package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userDocument struct {
	ID          string    `firestore:"id"`
	Credits     int64     `firestore:"credits"`
	ReportCount int64     `firestore:"report_count"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

type userRepository struct {
	client *firestore.Client
	cols   collections
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

func userRef(client *firestore.Client, cols *collections, id string) *firestore.DocumentRef {
	return client.Collection(cols.name("users")).Doc(id)
}

func userToModel(doc *userDocument) *model.User {
	return &model.User{
		ID:          doc.ID,
		Credits:     int(doc.Credits),
		ReportCount: int(doc.ReportCount),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (r *userRepository) GetOrCreate(ctx context.Context, id string, initialCredits int) (*model.User, error) {
	ref := userRef(r.client, &r.cols, id)

	var result userDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil {
			return snap.DataTo(&result)
		}
		if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get user")
		}

		now := time.Now().UTC()
		result = userDocument{
			ID:        id,
			Credits:   int64(initialCredits),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(ref, &result)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get or create user", goerr.V(model.UserIDKey, id))
	}

	return userToModel(&result), nil
}

func (r *userRepository) AddCredits(ctx context.Context, id string, amount int) (*model.User, error) {
	ref := userRef(r.client, &r.cols, id)

	var result userDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "user not found")
			}
			return goerr.Wrap(err, "failed to get user")
		}
		if err := snap.DataTo(&result); err != nil {
			return goerr.Wrap(err, "failed to unmarshal user")
		}

		result.Credits += int64(amount)
		result.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, &result)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add credits", goerr.V(model.UserIDKey, id), goerr.V("amount", amount))
	}

	return userToModel(&result), nil
}
