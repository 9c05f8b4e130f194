package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medication types. Only preventative medications participate in
// schedule resolution.
const (
	MedicationTypePreventative = "preventative"
	MedicationTypeRescue       = "rescue"
	MedicationTypeOther        = "other"
)

// Medication holds the structure for the medications collection in mongo
type Medication struct {
	ID              string             `json:"_id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Type            string             `json:"type" bson:"type"`
	DosageAmount    float64            `json:"dosageAmount" bson:"dosageAmount"`
	DosageUnit      string             `json:"dosageUnit" bson:"dosageUnit"`
	DefaultQuantity int                `json:"defaultQuantity" bson:"defaultQuantity"`
	Active          bool               `json:"active" bson:"active"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// MedicationResponse represents the paginated API response structure
type MedicationResponse struct {
	Medications []Medication `json:"medications"`
	Pagination  Pagination   `json:"pagination"`
}
