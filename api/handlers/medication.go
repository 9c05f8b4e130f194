package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/api"
	"github.com/doseminder/doseminder-api/coordinator"
	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/models"
)

// Medication represents the medication handler
type Medication struct {
	DB          databases.MedicationDatabase
	Coordinator *coordinator.Coordinator
}

// GetMedicationsHandler handles GET requests for medications
func (h Medication) GetMedicationsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limitStr := r.URL.Query().Get("limit")
	pageStr := r.URL.Query().Get("page")

	// Set default values for optional parameters
	limit := int64(20)
	page := int64(0)

	if limitStr != "" {
		if parsedLimit, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	if pageStr != "" {
		if parsedPage, err := strconv.ParseInt(pageStr, 10, 64); err == nil && parsedPage >= 0 {
			page = parsedPage
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	response, err := h.DB.GetAll(ctx, limit, page)
	if err != nil {
		zap.S().With(err).Error("failed to get medications")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode medications response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// GetMedicationByIDHandler handles GET requests for a single medication
func (h Medication) GetMedicationByIDHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id := vars["medication_id"]

	if id == "" {
		http.Error(w, "medication ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	medication, err := h.DB.GetByID(ctx, id)
	if err != nil {
		zap.S().With(err).Error("failed to get medication by ID")
		http.Error(w, "Medication not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(medication); err != nil {
		zap.S().With(err).Error("failed to encode medication response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// CreateMedicationHandler handles POST requests to create a new medication
func (h Medication) CreateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var medication models.Medication
	if err := json.Unmarshal(body, &medication); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if medication.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if medication.Type != models.MedicationTypePreventative &&
		medication.Type != models.MedicationTypeRescue &&
		medication.Type != models.MedicationTypeOther {
		http.Error(w, "type must be preventative, rescue or other", http.StatusBadRequest)
		return
	}

	if medication.ID == "" {
		medication.ID = uuid.New().String()
	}
	medication.Active = true

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	err = h.DB.Create(ctx, &medication)
	if err != nil {
		zap.S().With(err).Error("failed to create medication")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.Coordinator.State.PutMedication(medication)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(medication); err != nil {
		zap.S().With(err).Error("failed to encode created medication response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// UpdateMedicationHandler handles PUT requests to update an existing
// medication. Reminders are re-registered afterwards so notification
// content (name, dosage) stays in step with the stored record.
func (h Medication) UpdateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id := vars["medication_id"]

	if id == "" {
		http.Error(w, "medication ID is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var medication models.Medication
	if err := json.Unmarshal(body, &medication); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if medication.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	err = h.DB.Update(ctx, id, &medication)
	if err != nil {
		zap.S().With(err).Error("failed to update medication")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	outcomes, err := h.Coordinator.RescheduleMedication(ctx, id)
	if err != nil {
		zap.S().With(err).Error("failed to re-register reminders after update")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]interface{}{
		"message":  "Medication updated successfully",
		"outcomes": outcomes,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode update response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// ArchiveMedicationHandler handles DELETE requests for a medication.
// Medications are soft-deleted: the record and its dose history stay,
// but all reminders are torn down.
func (h Medication) ArchiveMedicationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id := vars["medication_id"]

	if id == "" {
		http.Error(w, "medication ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	err := h.DB.Archive(ctx, id)
	if err != nil {
		zap.S().With(err).Error("failed to archive medication")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// RescheduleMedication observes the cleared active flag and tears
	// down every reminder the medication still holds.
	if _, err := h.Coordinator.RescheduleMedication(ctx, id); err != nil {
		zap.S().With(err).Error("failed to tear down reminders for archived medication")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := map[string]string{"message": "Medication archived successfully"}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zap.S().With(err).Error("failed to encode archive response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// RescheduleMedicationHandler handles POST requests to re-register all
// reminders of one medication from its stored schedules
func (h Medication) RescheduleMedicationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id := vars["medication_id"]

	if id == "" {
		http.Error(w, "medication ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	outcomes, err := h.Coordinator.RescheduleMedication(ctx, id)
	if err != nil {
		zap.S().With(err).Error("failed to reschedule medication")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(outcomes); err != nil {
		zap.S().With(err).Error("failed to encode reschedule response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
