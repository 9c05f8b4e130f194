package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doseminder/doseminder-api/databases/mocks"
)

func TestRegisterDeviceHandler(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	mockDB := mocks.NewPushTokenDatabase(t)
	mockDB.On("Upsert", mock.Anything, mock.AnythingOfType("*models.PushToken")).Return(nil)

	handler := Device{DB: mockDB}

	body := `{"userId": "user-1", "token": "ExponentPushToken[abc123]", "platform": "ios"}`
	req := httptest.NewRequest("POST", "/api/v1/device/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.RegisterDeviceHandler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response deviceRegisterResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)

	parsed, err := jwt.Parse(response.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "device", claims["scope"])
}

func TestRegisterDeviceHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: `{"userId": "user-1", "platform": "ios"}`},
		{name: "bad platform", body: `{"userId": "user-1", "token": "ExponentPushToken[abc]", "platform": "windows-phone"}`},
		{name: "invalid json", body: `{"token": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Device{DB: mocks.NewPushTokenDatabase(t)}

			req := httptest.NewRequest("POST", "/api/v1/device/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.RegisterDeviceHandler(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDeviceHandlerMissingSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	mockDB := mocks.NewPushTokenDatabase(t)
	mockDB.On("Upsert", mock.Anything, mock.AnythingOfType("*models.PushToken")).Return(nil)

	handler := Device{DB: mockDB}

	body := `{"userId": "user-1", "token": "ExponentPushToken[abc123]", "platform": "android"}`
	req := httptest.NewRequest("POST", "/api/v1/device/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.RegisterDeviceHandler(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUnregisterDeviceHandler(t *testing.T) {
	mockDB := mocks.NewPushTokenDatabase(t)
	mockDB.On("Delete", mock.Anything, "user-1", "ExponentPushToken[abc123]").Return(nil)

	handler := Device{DB: mockDB}

	body := `{"userId": "user-1", "token": "ExponentPushToken[abc123]"}`
	req := httptest.NewRequest("DELETE", "/api/v1/device/unregister", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.UnregisterDeviceHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockDB.AssertCalled(t, "Delete", mock.Anything, "user-1", "ExponentPushToken[abc123]")
}
