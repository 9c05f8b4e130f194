package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doseminder/doseminder-api/config"
	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/databases/mocks"
	"github.com/doseminder/doseminder-api/models"
)

func TestNewMappingDatabase(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	mappingDB := databases.NewMappingDatabase(db)

	assert.NotEmpty(t, mappingDB)
}

func TestMappingDatabase_Get(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.ScheduleMapping)
		arg.ScheduleID = "sched-1"
		arg.Date = "2026-03-10"
		arg.NotificationID = "notif-1"
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"scheduleID": "sched-err", "date": "2026-03-10"}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), mock.Anything).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "schedule_mappings").Return(collectionHelper)

	mappingDB := databases.NewMappingDatabase(dbHelper)

	mapping, err := mappingDB.Get(context.Background(), "sched-err", "2026-03-10")

	assert.Empty(t, mapping)
	assert.EqualError(t, err, "mocked-error")

	mapping, err = mappingDB.Get(context.Background(), "sched-1", "2026-03-10")

	assert.NoError(t, err)
	assert.Equal(t, "sched-1", mapping.ScheduleID)
	assert.Equal(t, "notif-1", mapping.NotificationID)
}

func TestMappingDatabase_GetNotFound(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperMissing databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperMissing = &mocks.SingleResultHelper{}

	srHelperMissing.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", mock.Anything, mock.Anything).
		Return(srHelperMissing)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "schedule_mappings").Return(collectionHelper)

	mappingDB := databases.NewMappingDatabase(dbHelper)

	mapping, err := mappingDB.Get(context.Background(), "sched-1", "2026-03-10")

	assert.Nil(t, mapping)
	assert.ErrorIs(t, err, databases.ErrNotFound)
}

func TestMappingDatabase_AddOrUpdateUpserts(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(1), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "schedule_mappings").Return(collectionHelper)

	mappingDB := databases.NewMappingDatabase(dbHelper)

	mapping := &models.ScheduleMapping{
		ScheduleID:     "sched-1",
		MedicationID:   "med-1",
		NotificationID: "notif-1",
		Date:           "2026-03-10",
	}

	err := mappingDB.AddOrUpdate(context.Background(), mapping)

	assert.NoError(t, err)
	// Timestamps are stamped on write, createdAt only on first insert.
	assert.NotZero(t, mapping.UpdatedAt)
	assert.NotZero(t, mapping.CreatedAt)

	// A second write refreshes updatedAt but leaves createdAt alone.
	created := mapping.CreatedAt
	err = mappingDB.AddOrUpdate(context.Background(), mapping)
	assert.NoError(t, err)
	assert.Equal(t, created, mapping.CreatedAt)
}

func TestMappingDatabase_Remove(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("DeleteOne", mock.Anything, mock.Anything).
		Return(int64(1), nil).Once()
	collectionHelper.(*mocks.CollectionHelper).
		On("DeleteOne", mock.Anything, mock.Anything).
		Return(int64(0), nil).Once()

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "schedule_mappings").Return(collectionHelper)

	mappingDB := databases.NewMappingDatabase(dbHelper)

	removed, err := mappingDB.Remove(context.Background(), "sched-1", "2026-03-10")
	assert.NoError(t, err)
	assert.True(t, removed)

	// Removing the same key again is a no-op, not an error.
	removed, err = mappingDB.Remove(context.Background(), "sched-1", "2026-03-10")
	assert.NoError(t, err)
	assert.False(t, removed)
}
