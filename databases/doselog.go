package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/doseminder/doseminder-api/models"
)

// DoseLogDatabase defines the interface for dose log repository operations
type DoseLogDatabase interface {
	Create(ctx context.Context, log *models.DoseLog) error
	GetByMedicationID(ctx context.Context, medicationID string, limit, page int64) (*models.DoseLogResponse, error)
}

type doseLogDatabase struct {
	collection CollectionHelper
}

// NewDoseLogDatabase creates a new dose log database instance
func NewDoseLogDatabase(dbHelper DatabaseHelper) DoseLogDatabase {
	return &doseLogDatabase{
		collection: dbHelper.Collection("dose_logs"),
	}
}

// Create inserts a new dose log entry
func (d *doseLogDatabase) Create(ctx context.Context, log *models.DoseLog) error {
	log.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err := d.collection.InsertOne(ctx, log)
	return err
}

// GetByMedicationID retrieves dose logs for a medication with pagination
func (d *doseLogDatabase) GetByMedicationID(ctx context.Context, medicationID string, limit, page int64) (*models.DoseLogResponse, error) {
	filter := bson.M{"medicationID": medicationID}

	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	cursor, err := d.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.DoseLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	totalCount, err := d.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (totalCount + limit - 1) / limit

	return &models.DoseLogResponse{
		DoseLogs: logs,
		Pagination: models.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalRecords: totalCount,
			Limit:        limit,
		},
	}, nil
}
