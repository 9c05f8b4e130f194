package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicationSchedule holds the structure for the medication_schedules
// collection in mongo. Time is a 24h "HH:mm" wall-clock value in the
// schedule's Timezone.
//
// NotificationID is a weak cache of the current live notification
// registration. It can drift from the mapping store and must never be
// treated as the source of truth; the consistency coordinator is the
// only writer.
type MedicationSchedule struct {
	ID              string             `json:"_id" bson:"_id"`
	MedicationID    string             `json:"medicationID" bson:"medicationID"`
	Time            string             `json:"time" bson:"time"`
	Timezone        string             `json:"timezone" bson:"timezone"`
	Dosage          string             `json:"dosage" bson:"dosage"`
	Enabled         bool               `json:"enabled" bson:"enabled"`
	ReminderEnabled bool               `json:"reminderEnabled" bson:"reminderEnabled"`
	NotificationID  string             `json:"notificationID,omitempty" bson:"notificationID,omitempty"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
