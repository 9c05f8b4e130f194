package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleMapping links one schedule on one calendar day to the live
// notification registered for it. Records are keyed uniquely by
// (scheduleID, date); writes always go through an upsert so the key
// can never be duplicated. UpdatedAt >= CreatedAt always holds.
//
// Mappings are created, updated and removed exclusively by the
// consistency coordinator.
type ScheduleMapping struct {
	ScheduleID     string             `json:"scheduleID" bson:"scheduleID"`
	MedicationID   string             `json:"medicationID" bson:"medicationID"`
	NotificationID string             `json:"notificationID" bson:"notificationID"`
	Date           string             `json:"date" bson:"date"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
