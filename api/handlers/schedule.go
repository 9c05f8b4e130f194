package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/api"
	"github.com/doseminder/doseminder-api/config"
	"github.com/doseminder/doseminder-api/coordinator"
	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/models"
)

// Schedule represents the medication schedule handler. Every write
// goes through the coordinator so the push scheduler and the mapping
// store track each edit.
type Schedule struct {
	DB          databases.ScheduleDatabase
	Coordinator *coordinator.Coordinator
}

// GetSchedulesByMedicationIDHandler handles GET requests for all
// schedules of a medication
func (h Schedule) GetSchedulesByMedicationIDHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	medicationID := vars["medication_id"]

	if medicationID == "" {
		http.Error(w, "medication ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	schedules, err := h.DB.GetByMedicationID(ctx, medicationID)
	if err != nil {
		zap.S().With(err).Error("failed to get schedules by medication ID")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if schedules == nil {
		schedules = []models.MedicationSchedule{}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(schedules); err != nil {
		zap.S().With(err).Error("failed to encode schedules response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// GetScheduleByIDHandler handles GET requests for a single schedule
func (h Schedule) GetScheduleByIDHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id := vars["schedule_id"]

	if id == "" {
		http.Error(w, "schedule ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	schedule, err := h.DB.GetByID(ctx, id)
	if err != nil {
		zap.S().With(err).Error("failed to get schedule by ID")
		http.Error(w, "Schedule not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(schedule); err != nil {
		zap.S().With(err).Error("failed to encode schedule response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// CreateScheduleHandler handles POST requests to create a schedule
// under a medication and register its reminder
func (h Schedule) CreateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	medicationID := vars["medication_id"]

	if medicationID == "" {
		http.Error(w, "medication ID is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var schedule models.MedicationSchedule
	if err := json.Unmarshal(body, &schedule); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if schedule.Time == "" {
		http.Error(w, "time is required", http.StatusBadRequest)
		return
	}

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	schedule.MedicationID = medicationID

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if err := h.DB.Create(ctx, &schedule); err != nil {
		zap.S().With(err).Error("failed to create schedule")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	outcome := h.Coordinator.ReconcileOnScheduleChange(ctx, medicationID, nil, &schedule)

	w.WriteHeader(http.StatusCreated)
	response := map[string]interface{}{
		"schedule": schedule,
		"outcome":  outcome,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode created schedule response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// UpdateScheduleHandler handles PUT requests to edit a schedule. The
// new reminder is registered before the old one is removed.
func (h Schedule) UpdateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id := vars["schedule_id"]

	if id == "" {
		http.Error(w, "schedule ID is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var schedule models.MedicationSchedule
	if err := json.Unmarshal(body, &schedule); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	oldSchedule, err := h.DB.GetByID(ctx, id)
	if err != nil {
		config.ErrorStatus("failed to get schedule by ID", http.StatusNotFound, w, err)
		return
	}

	schedule.ID = id
	schedule.MedicationID = oldSchedule.MedicationID

	if err := h.DB.Update(ctx, id, &schedule); err != nil {
		zap.S().With(err).Error("failed to update schedule")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	outcome := h.Coordinator.ReconcileOnScheduleChange(ctx, oldSchedule.MedicationID, oldSchedule, &schedule)

	w.WriteHeader(http.StatusOK)
	response := map[string]interface{}{
		"message": "Schedule updated successfully",
		"outcome": outcome,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode update response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// DeleteScheduleHandler handles DELETE requests for a schedule,
// tearing down its reminder and today's mapping
func (h Schedule) DeleteScheduleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id := vars["schedule_id"]

	if id == "" {
		http.Error(w, "schedule ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	oldSchedule, err := h.DB.GetByID(ctx, id)
	if err != nil {
		config.ErrorStatus("failed to get schedule by ID", http.StatusNotFound, w, err)
		return
	}

	if err := h.DB.Delete(ctx, id); err != nil {
		zap.S().With(err).Error("failed to delete schedule")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	outcome := h.Coordinator.ReconcileOnScheduleChange(ctx, oldSchedule.MedicationID, oldSchedule, nil)

	w.WriteHeader(http.StatusOK)
	response := map[string]interface{}{
		"message": "Schedule deleted successfully",
		"outcome": outcome,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode delete response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
