package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/doseminder/doseminder-api/models"
)

// ScheduleDatabase defines the interface for medication schedule repository operations
type ScheduleDatabase interface {
	GetByMedicationID(ctx context.Context, medicationID string) ([]models.MedicationSchedule, error)
	GetByID(ctx context.Context, id string) (*models.MedicationSchedule, error)
	Create(ctx context.Context, schedule *models.MedicationSchedule) error
	Update(ctx context.Context, id string, schedule *models.MedicationSchedule) error
	SetNotificationID(ctx context.Context, id, notificationID string) error
	Delete(ctx context.Context, id string) error
}

type scheduleDatabase struct {
	collection CollectionHelper
}

// NewScheduleDatabase creates a new schedule database instance
func NewScheduleDatabase(dbHelper DatabaseHelper) ScheduleDatabase {
	return &scheduleDatabase{
		collection: dbHelper.Collection("medication_schedules"),
	}
}

// GetByMedicationID retrieves all schedules for a medication
func (s *scheduleDatabase) GetByMedicationID(ctx context.Context, medicationID string) ([]models.MedicationSchedule, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"medicationID": medicationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []models.MedicationSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetByID retrieves a single schedule by ID
func (s *scheduleDatabase) GetByID(ctx context.Context, id string) (*models.MedicationSchedule, error) {
	var schedule models.MedicationSchedule
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create creates a new schedule
func (s *scheduleDatabase) Create(ctx context.Context, schedule *models.MedicationSchedule) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	_, err := s.collection.InsertOne(ctx, schedule)
	return err
}

// Update updates the user-editable fields of an existing schedule
func (s *scheduleDatabase) Update(ctx context.Context, id string, schedule *models.MedicationSchedule) error {
	schedule.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	update := bson.M{
		"$set": bson.M{
			"time":            schedule.Time,
			"timezone":        schedule.Timezone,
			"dosage":          schedule.Dosage,
			"enabled":         schedule.Enabled,
			"reminderEnabled": schedule.ReminderEnabled,
			"updatedAt":       schedule.UpdatedAt,
		},
	}

	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// SetNotificationID writes the denormalized notification id cache on a
// schedule. Only the consistency coordinator calls this.
func (s *scheduleDatabase) SetNotificationID(ctx context.Context, id, notificationID string) error {
	update := bson.M{
		"$set": bson.M{
			"notificationID": notificationID,
			"updatedAt":      primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete removes a schedule by ID
func (s *scheduleDatabase) Delete(ctx context.Context, id string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
