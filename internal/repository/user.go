package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/resumecraft/gateway/internal/model"
)

// ErrUserNotFound is returned when no user matches the given email.
var ErrUserNotFound = errors.New("user not found")

// FindUserByEmail retrieves a user by exact email match.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// SignupUser records a signup or login for the given user, keyed by email.
//
// The write is a single atomic upsert: profile fields are set only when the
// record is first created, lastLogin is refreshed every time. Combined with
// the unique index on email, two concurrent calls for a brand-new email
// produce exactly one record (one call inserts, the other updates it).
//
// Returns the stored record and whether this call created it.
func (r *Repository) SignupUser(ctx context.Context, user *model.User) (*model.User, bool, error) {
	now := time.Now().UTC()

	filter := bson.M{"email": user.Email}
	update := bson.M{
		"$set": bson.M{"lastLogin": now},
		"$setOnInsert": bson.M{
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
			"provider":  user.Provider,
			"createdAt": now,
		},
	}

	res, err := r.users.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		// Two concurrent upserts for a brand-new email can still race on the
		// unique index; the loser gets a duplicate key error and retries,
		// now taking the update path.
		if mongo.IsDuplicateKeyError(err) {
			res, err = r.users.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to upsert user: %w", err)
		}
	}

	saved, err := r.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, false, err
	}

	return saved, res.UpsertedCount > 0, nil
}
