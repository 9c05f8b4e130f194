package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doseminder/doseminder-api/models"
)

// PushTokenDatabase contains the methods to use with the push token database
type PushTokenDatabase interface {
	Upsert(ctx context.Context, token *models.PushToken) error
	FindByUserID(ctx context.Context, userID string) ([]models.PushToken, error)
	All(ctx context.Context) ([]models.PushToken, error)
	Delete(ctx context.Context, userID, token string) error
}

type pushTokenDatabase struct {
	collection CollectionHelper
}

// NewPushTokenDatabase initializes a new instance of push token database with the provided db connection
func NewPushTokenDatabase(dbHelper DatabaseHelper) PushTokenDatabase {
	return &pushTokenDatabase{
		collection: dbHelper.Collection("pushtokens"),
	}
}

// Upsert registers a device token, keyed by (userId, token) so
// re-registration from the same device never duplicates
func (pt *pushTokenDatabase) Upsert(ctx context.Context, token *models.PushToken) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	token.UpdatedAt = now

	filter := bson.M{"userId": token.UserID, "token": token.Token}
	update := bson.M{
		"$set": bson.M{
			"platform":  token.Platform,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"userId":    token.UserID,
			"token":     token.Token,
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := pt.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (pt *pushTokenDatabase) FindByUserID(ctx context.Context, userID string) ([]models.PushToken, error) {
	cursor, err := pt.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []models.PushToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// All retrieves every registered device token. The app is
// single-account, so every token belongs to the owner.
func (pt *pushTokenDatabase) All(ctx context.Context) ([]models.PushToken, error) {
	cursor, err := pt.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []models.PushToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (pt *pushTokenDatabase) Delete(ctx context.Context, userID, token string) error {
	_, err := pt.collection.DeleteOne(ctx, bson.M{"userId": userID, "token": token})
	return err
}
