package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SweepLockDatabase provides a mongo-backed instance lock so that the
// periodic consistency sweep runs on exactly one instance at a time.
type SweepLockDatabase interface {
	TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, jobName, instanceID string) error
}

type sweepLockDatabase struct {
	collection CollectionHelper
}

// NewSweepLockDatabase creates a new sweep lock database instance
func NewSweepLockDatabase(dbHelper DatabaseHelper) SweepLockDatabase {
	return &sweepLockDatabase{
		collection: dbHelper.Collection("sweep_locks"),
	}
}

// TryAcquireLock attempts to take the named lock. A lock is free when
// no document exists or the previous holder's lease has expired.
func (s *sweepLockDatabase) TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()

	filter := bson.M{
		"_id": jobName,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now)}},
			{"holder": instanceID},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"holder":     instanceID,
			"acquiredAt": primitive.NewDateTimeFromTime(now),
			"expiresAt":  primitive.NewDateTimeFromTime(now.Add(ttl)),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		// A duplicate key error means another instance holds a live lease.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReleaseLock drops the lock if this instance still holds it
func (s *sweepLockDatabase) ReleaseLock(ctx context.Context, jobName, instanceID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": jobName, "holder": instanceID})
	return err
}
