package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/api"
	"github.com/doseminder/doseminder-api/config"
	"github.com/doseminder/doseminder-api/coordinator"
)

// Fired handles the callback the app posts when a reminder
// notification fires on a device
type Fired struct {
	Coordinator *coordinator.Coordinator
}

type firedRequest struct {
	MedicationID string `json:"medicationId"`
	ScheduleID   string `json:"scheduleId"`
	Date         string `json:"date"`
}

// FiredNotificationHandler verifies a fired notification's payload
// against current state. The payload may be stale; verification always
// answers with a structured outcome, never a hard failure.
func (h Fired) FiredNotificationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req firedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if req.MedicationID == "" || req.ScheduleID == "" {
		http.Error(w, "medicationId and scheduleId are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	outcome := h.Coordinator.VerifyOnFire(ctx, req.MedicationID, req.ScheduleID, req.Date)

	if outcome.OK {
		BroadcastReminderEvent("reminder_fired", map[string]interface{}{
			"medicationId": req.MedicationID,
			"scheduleId":   req.ScheduleID,
			"date":         req.Date,
		})
	} else {
		BroadcastReminderEvent("reminder_stale", map[string]interface{}{
			"medicationId": req.MedicationID,
			"scheduleId":   req.ScheduleID,
			"message":      outcome.Message,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		zap.S().With(err).Error("failed to encode verify outcome")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
