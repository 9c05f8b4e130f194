package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/api"
	"github.com/doseminder/doseminder-api/config"
	"github.com/doseminder/doseminder-api/coordinator"
	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/models"
)

// DoseLog represents the dose log handler. Logged doses are resolved
// against the medication's schedules so adherence history can tell a
// scheduled dose from an ad-hoc one.
type DoseLog struct {
	DB          databases.DoseLogDatabase
	MedDB       databases.MedicationDatabase
	Coordinator *coordinator.Coordinator
}

type doseLogRequest struct {
	MedicationID string `json:"medicationId"`
	Quantity     int    `json:"quantity"`
	TakenAt      string `json:"takenAt"` // RFC3339; defaults to now
}

// CreateDoseLogHandler handles POST requests to record a taken dose
func (h DoseLog) CreateDoseLogHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req doseLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if req.MedicationID == "" {
		http.Error(w, "medicationId is required", http.StatusBadRequest)
		return
	}

	takenAt := time.Now()
	if req.TakenAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.TakenAt)
		if err != nil {
			http.Error(w, "takenAt must be RFC3339", http.StatusBadRequest)
			return
		}
		takenAt = parsed
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	medication, ok := h.Coordinator.State.Medication(req.MedicationID)
	if !ok {
		med, err := h.MedDB.GetByID(ctx, req.MedicationID)
		if err != nil {
			config.ErrorStatus("failed to get medication by ID", http.StatusNotFound, w, err)
			return
		}
		medication = *med
		h.Coordinator.State.PutMedication(medication)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = medication.DefaultQuantity
	}

	// Attribute the dose to the nearest enabled schedule, if one is
	// within the matching window. No match is fine; the dose is logged
	// as unscheduled.
	schedules := h.Coordinator.State.SchedulesForMedication(req.MedicationID)
	scheduleID := coordinator.ResolveScheduleForTime(&medication, schedules, takenAt)

	log := models.DoseLog{
		ID:           uuid.New().String(),
		MedicationID: req.MedicationID,
		ScheduleID:   scheduleID,
		Quantity:     quantity,
		TakenAt:      primitive.NewDateTimeFromTime(takenAt),
	}

	if err := h.DB.Create(ctx, &log); err != nil {
		zap.S().With(err).Error("failed to create dose log")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(log); err != nil {
		zap.S().With(err).Error("failed to encode dose log response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// GetDoseLogsByMedicationIDHandler handles GET requests for a
// medication's dose history
func (h DoseLog) GetDoseLogsByMedicationIDHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	medicationID := vars["medication_id"]

	if medicationID == "" {
		http.Error(w, "medication ID is required", http.StatusBadRequest)
		return
	}

	limit := int64(20)
	page := int64(0)

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsedPage, err := strconv.ParseInt(pageStr, 10, 64); err == nil && parsedPage >= 0 {
			page = parsedPage
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	response, err := h.DB.GetByMedicationID(ctx, medicationID, limit, page)
	if err != nil {
		zap.S().With(err).Error("failed to get dose logs")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode dose logs response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
