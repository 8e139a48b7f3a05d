// Package push sends messages to devices through the FCM HTTP endpoint.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/notify"
)

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMClient is a thin HTTP client for Firebase Cloud Messaging. It is
// constructed once at startup and injected into the dispatcher.
type FCMClient struct {
	serverKey string
	endpoint  string
	client    *http.Client
}

// NewFCMClient creates a client authenticated with the given server key.
func NewFCMClient(serverKey string) *FCMClient {
	return &FCMClient{
		serverKey: serverKey,
		endpoint:  defaultEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmRequest struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Push sends one message to one device token.
func (c *FCMClient) Push(ctx context.Context, token string, msg notify.PushMessage) error {
	payload := fcmRequest{
		To: token,
		Notification: fcmNotification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push message: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push message: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push send failed with status %d", resp.StatusCode)
	}

	var decoded fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to decode push response: %v", err)
	}
	if decoded.Failure > 0 {
		return fmt.Errorf("push rejected for token")
	}

	return nil
}
