package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const usersCollection = "users"

type userDocument struct {
	ID           string    `bson:"_id"`
	FullName     string    `bson:"fullName"`
	Email        string    `bson:"email"`
	PhoneNumber  string    `bson:"phoneNumber"`
	PasswordHash string    `bson:"passwordHash"`
	RefreshToken *string   `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// UserRepository keeps one document per user. Single-document updates are
// atomic, which is what the refresh token compare-and-set relies on.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a store over the "users" collection of db.
// Call EnsureIndexes once before serving traffic.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes backing email and phone number uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	user.RefreshToken = nil
	if _, err := r.users.InsertOne(ctx, toDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (model.User, error) {
	return r.findOne(ctx, bson.M{"phoneNumber": phoneNumber})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	var doc userDocument
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"fullName":    update.FullName,
			"email":       update.Email,
			"phoneNumber": update.PhoneNumber,
			"updatedAt":   time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return model.User{}, model.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return model.User{}, model.ErrAlreadyExists
	case err != nil:
		return model.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}

	return fromDocument(doc)
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, expected *string, next *string) error {
	filter, update := refreshTokenUpdate(id, expected, next, time.Now().UTC())

	res, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	count, err := r.users.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if count == 0 {
		return model.ErrNotFound
	}
	return model.ErrRefreshTokenMismatch
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return fromDocument(doc)
}

func refreshTokenUpdate(id uuid.UUID, expected *string, next *string, now time.Time) (bson.M, bson.M) {
	filter := bson.M{"_id": id.String()}
	if expected != nil {
		filter["refreshToken"] = *expected
	}

	if next == nil {
		return filter, bson.M{
			"$unset": bson.M{"refreshToken": ""},
			"$set":   bson.M{"updatedAt": now},
		}
	}
	return filter, bson.M{
		"$set": bson.M{"refreshToken": *next, "updatedAt": now},
	}
}

func toDocument(u model.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		PasswordHash: u.PasswordHash,
		RefreshToken: u.RefreshToken,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromDocument(d userDocument) (model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse user id: %w", err)
	}
	return model.User{
		ID:           id,
		FullName:     d.FullName,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		PasswordHash: d.PasswordHash,
		RefreshToken: d.RefreshToken,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
