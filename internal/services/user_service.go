package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/user-crud-be/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrUserNotFound is returned when no document matches the email filter.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned by CreateUser when the email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	ReplaceUser(ctx context.Context, email string, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, email string) error
}

// UserService provides user management on top of a MongoDB collection.
type UserService struct {
	coll *mongo.Collection
}

// NewUserService creates a new UserService.
func NewUserService(coll *mongo.Collection) *UserService {
	return &UserService{coll: coll}
}

// NormalizeEmail returns the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// GetUserByEmail retrieves a single user, matching the lowercased email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.D{{Key: "email", Value: NormalizeEmail(email)}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a user with a lowercased email unless one already exists.
//
// A failed existence lookup is treated the same as no match, so only insert
// errors are reported. Two concurrent calls for the same email may both insert.
func (s *UserService) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.Email = NormalizeEmail(user.Email)

	if _, err := s.GetUserByEmail(ctx, user.Email); err == nil {
		return models.User{}, ErrUserAlreadyExists
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// ReplaceUser overwrites the document whose email equals email exactly.
// The filter is not lowercased; the replacement email is.
// ErrUserNotFound is returned when nothing was modified, which includes a
// match whose contents were already identical.
func (s *UserService) ReplaceUser(ctx context.Context, email string, user models.User) (models.User, error) {
	user.Email = NormalizeEmail(user.Email)

	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "email", Value: email}}, user)
	if err != nil {
		return models.User{}, fmt.Errorf("replace user: %w", err)
	}
	if res.ModifiedCount == 0 {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// DeleteUser removes the document whose email equals email exactly.
func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
