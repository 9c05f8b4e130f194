package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doseminder/doseminder-api/models"
)

// MappingDatabase is the durable store of schedule-to-notification
// mappings, keyed uniquely by (scheduleID, date). AddOrUpdate always
// upserts on that key, so two records can never share it.
type MappingDatabase interface {
	AddOrUpdate(ctx context.Context, mapping *models.ScheduleMapping) error
	Get(ctx context.Context, scheduleID, date string) (*models.ScheduleMapping, error)
	Remove(ctx context.Context, scheduleID, date string) (bool, error)
	AllForMedication(ctx context.Context, medicationID string) ([]models.ScheduleMapping, error)
	All(ctx context.Context) ([]models.ScheduleMapping, error)
}

type mappingDatabase struct {
	collection CollectionHelper
}

// NewMappingDatabase creates a new mapping database instance
func NewMappingDatabase(dbHelper DatabaseHelper) MappingDatabase {
	return &mappingDatabase{
		collection: dbHelper.Collection("schedule_mappings"),
	}
}

// AddOrUpdate upserts the mapping for (scheduleID, date). UpdatedAt is
// always refreshed; createdAt is written only on insert so it stays
// immutable across overwrites.
func (m *mappingDatabase) AddOrUpdate(ctx context.Context, mapping *models.ScheduleMapping) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	mapping.UpdatedAt = now
	if mapping.CreatedAt == 0 {
		mapping.CreatedAt = now
	}

	filter := bson.M{"scheduleID": mapping.ScheduleID, "date": mapping.Date}
	update := bson.M{
		"$set": bson.M{
			"medicationID":   mapping.MedicationID,
			"notificationID": mapping.NotificationID,
			"updatedAt":      mapping.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"scheduleID": mapping.ScheduleID,
			"date":       mapping.Date,
			"createdAt":  mapping.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Get retrieves the mapping for (scheduleID, date), or ErrNotFound
func (m *mappingDatabase) Get(ctx context.Context, scheduleID, date string) (*models.ScheduleMapping, error) {
	var mapping models.ScheduleMapping
	err := m.collection.FindOne(ctx, bson.M{"scheduleID": scheduleID, "date": date}).Decode(&mapping)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

// Remove deletes the mapping for (scheduleID, date) and reports whether
// a record was actually removed
func (m *mappingDatabase) Remove(ctx context.Context, scheduleID, date string) (bool, error) {
	deleted, err := m.collection.DeleteOne(ctx, bson.M{"scheduleID": scheduleID, "date": date})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// AllForMedication retrieves every mapping referencing a medication
func (m *mappingDatabase) AllForMedication(ctx context.Context, medicationID string) ([]models.ScheduleMapping, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"medicationID": medicationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []models.ScheduleMapping
	if err := cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// All retrieves every mapping in the store
func (m *mappingDatabase) All(ctx context.Context) ([]models.ScheduleMapping, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []models.ScheduleMapping
	if err := cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}
