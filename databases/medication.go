package databases

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/doseminder/doseminder-api/models"
)

// MedicationDatabase defines the interface for medication repository operations
type MedicationDatabase interface {
	GetAll(ctx context.Context, limit, page int64) (*models.MedicationResponse, error)
	GetActive(ctx context.Context) ([]models.Medication, error)
	GetByID(ctx context.Context, id string) (*models.Medication, error)
	Create(ctx context.Context, medication *models.Medication) error
	Update(ctx context.Context, id string, medication *models.Medication) error
	Archive(ctx context.Context, id string) error
}

type medicationDatabase struct {
	collection CollectionHelper
}

// NewMedicationDatabase creates a new medication database instance
func NewMedicationDatabase(dbHelper DatabaseHelper) MedicationDatabase {
	return &medicationDatabase{
		collection: dbHelper.Collection("medications"),
	}
}

// GetAll retrieves medications with pagination, newest first
func (m *medicationDatabase) GetAll(ctx context.Context, limit, page int64) (*models.MedicationResponse, error) {
	filter := bson.M{}

	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var medications []models.Medication
	if err := cursor.All(ctx, &medications); err != nil {
		return nil, err
	}

	totalCount, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (totalCount + limit - 1) / limit

	return &models.MedicationResponse{
		Medications: medications,
		Pagination: models.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalRecords: totalCount,
			Limit:        limit,
		},
	}, nil
}

// GetActive retrieves all non-archived medications
func (m *medicationDatabase) GetActive(ctx context.Context) ([]models.Medication, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var medications []models.Medication
	if err := cursor.All(ctx, &medications); err != nil {
		return nil, err
	}
	return medications, nil
}

// GetByID retrieves a single medication by ID
func (m *medicationDatabase) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	var medication models.Medication
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&medication)
	if err != nil {
		return nil, err
	}
	return &medication, nil
}

// Create creates a new medication
func (m *medicationDatabase) Create(ctx context.Context, medication *models.Medication) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	medication.CreatedAt = now
	medication.UpdatedAt = now

	_, err := m.collection.InsertOne(ctx, medication)
	return err
}

// Update updates an existing medication
func (m *medicationDatabase) Update(ctx context.Context, id string, medication *models.Medication) error {
	medication.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())

	update := bson.M{
		"$set": bson.M{
			"name":            medication.Name,
			"type":            medication.Type,
			"dosageAmount":    medication.DosageAmount,
			"dosageUnit":      medication.DosageUnit,
			"defaultQuantity": medication.DefaultQuantity,
			"active":          medication.Active,
			"updatedAt":       medication.UpdatedAt,
		},
	}

	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Archive soft-deletes a medication by clearing its active flag
func (m *medicationDatabase) Archive(ctx context.Context, id string) error {
	update := bson.M{
		"$set": bson.M{
			"active":    false,
			"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
