package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/databases"
)

const scheduleTimeout = 15 * time.Second

// ExpoScheduler schedules reminder notifications through an Expo-style
// push gateway. Device targeting comes from the push token registry;
// the gateway owns delivery and local scheduling on the device.
type ExpoScheduler struct {
	BaseURL string
	Tokens  databases.PushTokenDatabase
	Client  *http.Client
}

// NewExpoScheduler creates a scheduler backed by the push gateway at baseURL
func NewExpoScheduler(baseURL string, tokens databases.PushTokenDatabase) *ExpoScheduler {
	return &ExpoScheduler{
		BaseURL: baseURL,
		Tokens:  tokens,
		Client:  &http.Client{Timeout: scheduleTimeout},
	}
}

type expoScheduleMessage struct {
	ID        string                 `json:"id"`
	To        []string               `json:"to"`
	Title     string                 `json:"title,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
	FireAt    string                 `json:"fireAt"`
	Repeats   bool                   `json:"repeats"`
}

// Schedule registers one reminder with the push gateway and returns
// the notification id the gateway will fire it under
func (e *ExpoScheduler) Schedule(req Request) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), scheduleTimeout)
	defer cancel()

	tokens, err := e.Tokens.All(ctx)
	if err != nil {
		return "", &SchedulingError{Err: fmt.Errorf("failed to resolve push tokens: %w", err)}
	}

	to := make([]string, 0, len(tokens))
	for _, t := range tokens {
		to = append(to, t.Token)
	}

	notificationID := uuid.New().String()
	msg := expoScheduleMessage{
		ID:    notificationID,
		To:    to,
		Title: req.Title,
		Body:  req.Body,
		Sound: "default",
		Data: map[string]interface{}{
			"medicationId": req.Payload.MedicationID,
			"scheduleId":   req.Payload.ScheduleID,
			"date":         req.Payload.Date,
		},
		Priority:  "high",
		ChannelID: "default",
		FireAt:    req.FireAt.Format(time.RFC3339),
		Repeats:   req.Repeats,
	}

	if err := e.post("/schedule", msg, nil); err != nil {
		return "", &SchedulingError{Err: err}
	}

	zap.S().Infow("scheduled reminder notification",
		"notificationId", notificationID,
		"scheduleId", req.Payload.ScheduleID,
		"fireAt", msg.FireAt,
	)
	return notificationID, nil
}

// Cancel removes a registered notification from the gateway. A gateway
// 404 means the id is no longer known (already fired or expired) and is
// reported as an unknown-id cancellation.
func (e *ExpoScheduler) Cancel(notificationID string) error {
	body := map[string]string{"id": notificationID}

	var status int
	if err := e.post("/cancel", body, &status); err != nil {
		if status == http.StatusNotFound {
			return &CancellationError{NotificationID: notificationID, Unknown: true, Err: err}
		}
		return &CancellationError{NotificationID: notificationID, Err: err}
	}
	return nil
}

func (e *ExpoScheduler) post(path string, payload interface{}, statusOut *int) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequest("POST", e.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if statusOut != nil {
		*statusOut = resp.StatusCode
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}
