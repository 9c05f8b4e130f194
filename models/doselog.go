package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DoseLog holds the structure for the dose_logs collection in mongo.
// ScheduleID is the schedule the dose was resolved against, or empty
// when no schedule was within the matching window.
type DoseLog struct {
	ID           string             `json:"_id" bson:"_id"`
	MedicationID string             `json:"medicationID" bson:"medicationID"`
	ScheduleID   string             `json:"scheduleID,omitempty" bson:"scheduleID,omitempty"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	TakenAt      primitive.DateTime `json:"takenAt" bson:"takenAt"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// DoseLogResponse represents the paginated API response structure
type DoseLogResponse struct {
	DoseLogs   []DoseLog  `json:"doseLogs"`
	Pagination Pagination `json:"pagination"`
}
