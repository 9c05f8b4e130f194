package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/databases/mocks"
	"github.com/doseminder/doseminder-api/models"
)

func TestGetSchedulesByMedicationIDHandler(t *testing.T) {
	tests := []struct {
		name           string
		schedules      []models.MedicationSchedule
		mockError      error
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "successful request",
			schedules: []models.MedicationSchedule{
				{ID: "sched-1", MedicationID: "med-1", Time: "08:00", Timezone: "UTC", Enabled: true, ReminderEnabled: true},
				{ID: "sched-2", MedicationID: "med-1", Time: "20:00", Timezone: "UTC", Enabled: true, ReminderEnabled: true},
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name:           "no schedules yields empty array",
			schedules:      nil,
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name:           "database error",
			mockError:      errors.New("mocked error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := mocks.NewScheduleDatabase(t)
			mockDB.On("GetByMedicationID", mock.Anything, "med-1").Return(tt.schedules, tt.mockError)

			handler := Schedule{DB: mockDB}

			req := httptest.NewRequest("GET", "/api/v1/medication/med-1/schedules", nil)
			req = mux.SetURLVars(req, map[string]string{"medication_id": "med-1"})

			w := httptest.NewRecorder()
			handler.GetSchedulesByMedicationIDHandler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response []models.MedicationSchedule
				err := json.NewDecoder(w.Body).Decode(&response)
				assert.NoError(t, err)
				assert.Len(t, response, tt.expectedLen)
			}
		})
	}
}

func TestGetScheduleByIDHandler(t *testing.T) {
	mockDB := mocks.NewScheduleDatabase(t)
	mockDB.On("GetByID", mock.Anything, "sched-1").Return(&models.MedicationSchedule{
		ID:           "sched-1",
		MedicationID: "med-1",
		Time:         "08:00",
		Timezone:     "UTC",
	}, nil)

	handler := Schedule{DB: mockDB}

	req := httptest.NewRequest("GET", "/api/v1/schedule/sched-1", nil)
	req = mux.SetURLVars(req, map[string]string{"schedule_id": "sched-1"})

	w := httptest.NewRecorder()
	handler.GetScheduleByIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.MedicationSchedule
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "sched-1", response.ID)
}

func TestCreateScheduleHandlerRegistersReminder(t *testing.T) {
	medDB := mocks.NewMedicationDatabase(t)
	coord, _, mapDB, notifier := newTestCoordinator(medDB)

	coord.State.PutMedication(models.Medication{ID: "med-1", Name: "Ibuprofen", Type: models.MedicationTypePreventative, Active: true})

	mockDB := mocks.NewScheduleDatabase(t)
	mockDB.On("Create", mock.Anything, mock.AnythingOfType("*models.MedicationSchedule")).Return(nil)
	mockDB.On("SetNotificationID", mock.Anything, mock.AnythingOfType("string"), "notif-1").Return(nil)
	// coordinator's ScheduleDB is a separate mock; keep the weak cache
	// write on the handler's DB out of the coordinator path
	coord.ScheduleDB = mockDB

	notifier.On("Schedule", mock.AnythingOfType("notify.Request")).Return("notif-1", nil)
	mapDB.On("Get", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil, databases.ErrNotFound)
	mapDB.On("AddOrUpdate", mock.Anything, mock.AnythingOfType("*models.ScheduleMapping")).Return(nil)
	mapDB.On("AllForMedication", mock.Anything, "med-1").Return([]models.ScheduleMapping{}, nil)

	handler := Schedule{DB: mockDB, Coordinator: coord}

	body := `{"time": "08:00", "timezone": "UTC", "dosage": "1 tablet", "enabled": true, "reminderEnabled": true}`
	req := httptest.NewRequest("POST", "/api/v1/medication/med-1/schedules", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"medication_id": "med-1"})

	w := httptest.NewRecorder()
	handler.CreateScheduleHandler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Schedule models.MedicationSchedule `json:"schedule"`
		Outcome  models.ScheduleOutcome    `json:"outcome"`
	}
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Schedule.ID)
	assert.Equal(t, "med-1", response.Schedule.MedicationID)
	assert.True(t, response.Outcome.OK)
	assert.Equal(t, "notif-1", response.Outcome.NotificationID)
}

func TestCreateScheduleHandlerMissingTime(t *testing.T) {
	mockDB := mocks.NewScheduleDatabase(t)
	handler := Schedule{DB: mockDB}

	body := `{"timezone": "UTC"}`
	req := httptest.NewRequest("POST", "/api/v1/medication/med-1/schedules", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"medication_id": "med-1"})

	w := httptest.NewRecorder()
	handler.CreateScheduleHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateScheduleHandlerSupersedesOldReminder(t *testing.T) {
	medDB := mocks.NewMedicationDatabase(t)
	coord, _, mapDB, notifier := newTestCoordinator(medDB)

	coord.State.PutMedication(models.Medication{ID: "med-1", Name: "Ibuprofen", Type: models.MedicationTypePreventative, Active: true})

	oldSchedule := &models.MedicationSchedule{
		ID:              "sched-1",
		MedicationID:    "med-1",
		Time:            "08:00",
		Timezone:        "UTC",
		Enabled:         true,
		ReminderEnabled: true,
		NotificationID:  "notif-old",
	}

	mockDB := mocks.NewScheduleDatabase(t)
	mockDB.On("GetByID", mock.Anything, "sched-1").Return(oldSchedule, nil)
	mockDB.On("Update", mock.Anything, "sched-1", mock.AnythingOfType("*models.MedicationSchedule")).Return(nil)
	mockDB.On("SetNotificationID", mock.Anything, "sched-1", "notif-new").Return(nil)
	coord.ScheduleDB = mockDB

	notifier.On("Schedule", mock.AnythingOfType("notify.Request")).Return("notif-new", nil)
	mapDB.On("Get", mock.Anything, "sched-1", mock.AnythingOfType("string")).Return(&models.ScheduleMapping{
		ScheduleID:     "sched-1",
		MedicationID:   "med-1",
		NotificationID: "notif-old",
	}, nil)
	mapDB.On("AddOrUpdate", mock.Anything, mock.AnythingOfType("*models.ScheduleMapping")).Return(nil)
	mapDB.On("AllForMedication", mock.Anything, "med-1").Return([]models.ScheduleMapping{}, nil)
	notifier.On("Cancel", "notif-old").Return(nil)

	handler := Schedule{DB: mockDB, Coordinator: coord}

	body := `{"time": "09:30", "timezone": "UTC", "dosage": "1 tablet", "enabled": true, "reminderEnabled": true}`
	req := httptest.NewRequest("PUT", "/api/v1/schedule/sched-1", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"schedule_id": "sched-1"})

	w := httptest.NewRecorder()
	handler.UpdateScheduleHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	notifier.AssertCalled(t, "Cancel", "notif-old")
}

func TestUpdateScheduleHandlerNotFound(t *testing.T) {
	mockDB := mocks.NewScheduleDatabase(t)
	mockDB.On("GetByID", mock.Anything, "sched-missing").Return(nil, databases.ErrNotFound)

	handler := Schedule{DB: mockDB}

	body := `{"time": "09:30", "timezone": "UTC"}`
	req := httptest.NewRequest("PUT", "/api/v1/schedule/sched-missing", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"schedule_id": "sched-missing"})

	w := httptest.NewRecorder()
	handler.UpdateScheduleHandler(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteScheduleHandlerTearsDownReminder(t *testing.T) {
	medDB := mocks.NewMedicationDatabase(t)
	coord, _, mapDB, notifier := newTestCoordinator(medDB)

	coord.State.PutMedication(models.Medication{ID: "med-1", Name: "Ibuprofen", Type: models.MedicationTypePreventative, Active: true})
	coord.State.PutSchedule(models.MedicationSchedule{ID: "sched-1", MedicationID: "med-1", Time: "08:00", Timezone: "UTC"})

	oldSchedule := &models.MedicationSchedule{
		ID:             "sched-1",
		MedicationID:   "med-1",
		Time:           "08:00",
		Timezone:       "UTC",
		NotificationID: "notif-1",
	}

	mockDB := mocks.NewScheduleDatabase(t)
	mockDB.On("GetByID", mock.Anything, "sched-1").Return(oldSchedule, nil)
	mockDB.On("Delete", mock.Anything, "sched-1").Return(nil)

	mapDB.On("Get", mock.Anything, "sched-1", mock.AnythingOfType("string")).Return(&models.ScheduleMapping{
		ScheduleID:     "sched-1",
		MedicationID:   "med-1",
		NotificationID: "notif-1",
	}, nil)
	mapDB.On("Remove", mock.Anything, "sched-1", mock.AnythingOfType("string")).Return(true, nil)
	notifier.On("Cancel", "notif-1").Return(nil)

	handler := Schedule{DB: mockDB, Coordinator: coord}

	req := httptest.NewRequest("DELETE", "/api/v1/schedule/sched-1", nil)
	req = mux.SetURLVars(req, map[string]string{"schedule_id": "sched-1"})

	w := httptest.NewRecorder()
	handler.DeleteScheduleHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	notifier.AssertCalled(t, "Cancel", "notif-1")
	mapDB.AssertCalled(t, "Remove", mock.Anything, "sched-1", mock.AnythingOfType("string"))

	// deleted schedule no longer resolvable from app state
	_, ok := coord.State.Schedule("sched-1")
	assert.False(t, ok)
}
