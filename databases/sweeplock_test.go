package databases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/databases/mocks"
)

func TestSweepLockDatabase_TryAcquireLock(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(1), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "sweep_locks").Return(collectionHelper)

	lockDB := databases.NewSweepLockDatabase(dbHelper)

	acquired, err := lockDB.TryAcquireLock(context.Background(), "consistency_sweep_job", "instance-1", 10*time.Minute)

	assert.NoError(t, err)
	assert.True(t, acquired)
}

func TestSweepLockDatabase_TryAcquireLockHeldElsewhere(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	// Another instance holds a live lease: the filtered upsert
	// collides with the existing _id.
	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), dupErr)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "sweep_locks").Return(collectionHelper)

	lockDB := databases.NewSweepLockDatabase(dbHelper)

	acquired, err := lockDB.TryAcquireLock(context.Background(), "consistency_sweep_job", "instance-2", 10*time.Minute)

	assert.NoError(t, err)
	assert.False(t, acquired)
}

func TestSweepLockDatabase_ReleaseLock(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("DeleteOne", mock.Anything, mock.Anything).
		Return(int64(1), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "sweep_locks").Return(collectionHelper)

	lockDB := databases.NewSweepLockDatabase(dbHelper)

	err := lockDB.ReleaseLock(context.Background(), "consistency_sweep_job", "instance-1")

	assert.NoError(t, err)
}
