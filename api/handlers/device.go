package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/api"
	"github.com/doseminder/doseminder-api/config"
	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/models"
)

// Device handles push token registration for the devices that receive
// reminder notifications
type Device struct {
	DB databases.PushTokenDatabase
}

type deviceRegisterResponse struct {
	Token   string `json:"deviceToken"`
	Message string `json:"message"`
}

// RegisterDeviceHandler handles POST requests to register a device
// push token. On success it issues a signed device token the app uses
// to authenticate its fired-notification callbacks.
func (h Device) RegisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var token models.PushToken
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if token.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}
	if token.Platform != "ios" && token.Platform != "android" {
		http.Error(w, "platform must be ios or android", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if err := h.DB.Upsert(ctx, &token); err != nil {
		zap.S().With(err).Error("failed to upsert push token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "server misconfigured"})
		return
	}

	claims := jwt.MapClaims{
		"sub":      token.UserID,
		"platform": token.Platform,
		"scope":    "device",
		"typ":      "access",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token generation failed"})
		return
	}

	zap.S().Infow("registered device push token",
		"platform", token.Platform,
		"userId", token.UserID,
	)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(deviceRegisterResponse{
		Token:   signed,
		Message: "Device registered successfully",
	})
}

// UnregisterDeviceHandler handles DELETE requests to remove a device
// push token
func (h Device) UnregisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var token models.PushToken
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if token.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if err := h.DB.Delete(ctx, token.UserID, token.Token); err != nil {
		zap.S().With(err).Error("failed to delete push token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Device unregistered successfully"})
}
