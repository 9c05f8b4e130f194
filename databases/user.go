package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/doseminder/doseminder-api/models"
)

// UserDatabase contains the methods to use with the user database
type UserDatabase interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userDatabase struct {
	collection CollectionHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(dbHelper DatabaseHelper) UserDatabase {
	return &userDatabase{
		collection: dbHelper.Collection("users"),
	}
}

func (u *userDatabase) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := u.collection.FindOne(ctx, bson.M{"user.email": email}).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userDatabase) FindByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := u.collection.FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userDatabase) Create(ctx context.Context, user *models.User) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	user.Details.CreatedAt = now
	user.Details.UpdatedAt = now

	_, err := u.collection.InsertOne(ctx, user)
	return err
}
