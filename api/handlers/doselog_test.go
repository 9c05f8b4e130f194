package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doseminder/doseminder-api/databases/mocks"
	"github.com/doseminder/doseminder-api/models"
)

func TestCreateDoseLogHandlerResolvesSchedule(t *testing.T) {
	medDB := mocks.NewMedicationDatabase(t)
	coord, _, _, _ := newTestCoordinator(medDB)

	coord.State.PutMedication(models.Medication{
		ID:              "med-1",
		Name:            "Ibuprofen",
		Type:            models.MedicationTypePreventative,
		DefaultQuantity: 2,
		Active:          true,
	})
	coord.State.PutSchedule(models.MedicationSchedule{
		ID:              "sched-1",
		MedicationID:    "med-1",
		Time:            "08:00",
		Timezone:        "UTC",
		Enabled:         true,
		ReminderEnabled: true,
	})

	mockDB := mocks.NewDoseLogDatabase(t)
	mockDB.On("Create", mock.Anything, mock.AnythingOfType("*models.DoseLog")).Return(nil)

	handler := DoseLog{DB: mockDB, MedDB: medDB, Coordinator: coord}

	// 08:45 UTC is inside the matching window of the 08:00 schedule
	body := `{"medicationId": "med-1", "takenAt": "2026-03-10T08:45:00Z"}`
	req := httptest.NewRequest("POST", "/api/v1/dose-log", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.CreateDoseLogHandler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.DoseLog
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "sched-1", response.ScheduleID)
	assert.Equal(t, 2, response.Quantity) // default quantity applied
}

func TestCreateDoseLogHandlerUnscheduledDose(t *testing.T) {
	medDB := mocks.NewMedicationDatabase(t)
	coord, _, _, _ := newTestCoordinator(medDB)

	coord.State.PutMedication(models.Medication{
		ID:              "med-1",
		Name:            "Ibuprofen",
		Type:            models.MedicationTypePreventative,
		DefaultQuantity: 1,
		Active:          true,
	})
	coord.State.PutSchedule(models.MedicationSchedule{
		ID:              "sched-1",
		MedicationID:    "med-1",
		Time:            "08:00",
		Timezone:        "UTC",
		Enabled:         true,
		ReminderEnabled: true,
	})

	mockDB := mocks.NewDoseLogDatabase(t)
	mockDB.On("Create", mock.Anything, mock.AnythingOfType("*models.DoseLog")).Return(nil)

	handler := DoseLog{DB: mockDB, MedDB: medDB, Coordinator: coord}

	// 14:00 UTC is more than three hours from any schedule
	body := `{"medicationId": "med-1", "quantity": 3, "takenAt": "2026-03-10T14:00:00Z"}`
	req := httptest.NewRequest("POST", "/api/v1/dose-log", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.CreateDoseLogHandler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.DoseLog
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Empty(t, response.ScheduleID)
	assert.Equal(t, 3, response.Quantity)
}

func TestCreateDoseLogHandlerFallsBackToStore(t *testing.T) {
	medDB := mocks.NewMedicationDatabase(t)
	medDB.On("GetByID", mock.Anything, "med-cold").Return(&models.Medication{
		ID:              "med-cold",
		Name:            "Loratadine",
		Type:            models.MedicationTypeOther,
		DefaultQuantity: 1,
		Active:          true,
	}, nil)

	coord, _, _, _ := newTestCoordinator(medDB)

	mockDB := mocks.NewDoseLogDatabase(t)
	mockDB.On("Create", mock.Anything, mock.AnythingOfType("*models.DoseLog")).Return(nil)

	handler := DoseLog{DB: mockDB, MedDB: medDB, Coordinator: coord}

	body := `{"medicationId": "med-cold"}`
	req := httptest.NewRequest("POST", "/api/v1/dose-log", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.CreateDoseLogHandler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	// the cold-loaded medication now lives in app state
	_, ok := coord.State.Medication("med-cold")
	assert.True(t, ok)
}

func TestCreateDoseLogHandlerBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing medication id", body: `{"quantity": 1}`},
		{name: "bad takenAt", body: `{"medicationId": "med-1", "takenAt": "yesterday"}`},
		{name: "invalid json", body: `{"medicationId": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			medDB := mocks.NewMedicationDatabase(t)
			coord, _, _, _ := newTestCoordinator(medDB)
			handler := DoseLog{DB: mocks.NewDoseLogDatabase(t), MedDB: medDB, Coordinator: coord}

			req := httptest.NewRequest("POST", "/api/v1/dose-log", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.CreateDoseLogHandler(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetDoseLogsByMedicationIDHandler(t *testing.T) {
	mockDB := mocks.NewDoseLogDatabase(t)
	mockDB.On("GetByMedicationID", mock.Anything, "med-1", int64(20), int64(0)).Return(&models.DoseLogResponse{
		DoseLogs: []models.DoseLog{
			{ID: "log-1", MedicationID: "med-1", ScheduleID: "sched-1", Quantity: 1},
		},
		Pagination: models.Pagination{CurrentPage: 0, TotalPages: 1, TotalRecords: 1, Limit: 20},
	}, nil)

	handler := DoseLog{DB: mockDB}

	req := httptest.NewRequest("GET", "/api/v1/dose-logs/medication/med-1", nil)
	req = mux.SetURLVars(req, map[string]string{"medication_id": "med-1"})

	w := httptest.NewRecorder()
	handler.GetDoseLogsByMedicationIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.DoseLogResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Len(t, response.DoseLogs, 1)
	assert.Equal(t, "sched-1", response.DoseLogs[0].ScheduleID)
}
