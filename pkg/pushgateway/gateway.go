// Package pushgateway delivers user notifications to an outbound channel.
package pushgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Message is one notification to deliver.
type Message struct {
	ID      string                 `json:"id"`
	UserID  string                 `json:"userId"`
	Kind    string                 `json:"kind"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Gateway represents a notification delivery channel
type Gateway interface {
	Name() string
	// Send delivers msg and returns the channel's message ID.
	Send(ctx context.Context, msg Message) (string, error)
}

// LogGateway writes notifications to the log instead of delivering them.
type LogGateway struct {
	logger *slog.Logger
}

// NewLogGateway creates a LogGateway. A nil logger uses slog.Default.
func NewLogGateway(logger *slog.Logger) *LogGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogGateway{logger: logger}
}

// Name implements Gateway
func (g *LogGateway) Name() string { return "log" }

// Send implements Gateway
func (g *LogGateway) Send(ctx context.Context, msg Message) (string, error) {
	msgID := "LOG-" + uuid.NewString()
	g.logger.Info("Notification delivered to log gateway",
		"messageId", msgID, "notificationId", msg.ID, "userId", msg.UserID, "kind", msg.Kind)
	return msgID, nil
}

// WebhookGateway POSTs notifications as JSON to a URL. Each request carries
// a short-lived HS256 bearer token so the receiver can authenticate us.
type WebhookGateway struct {
	URL        string
	secret     []byte
	httpClient *http.Client
}

// NewWebhookGateway creates a WebhookGateway
func NewWebhookGateway(url, secret string, timeout time.Duration) *WebhookGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookGateway{
		URL:    url,
		secret: []byte(secret),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name implements Gateway
func (g *WebhookGateway) Name() string { return "webhook" }

// Send implements Gateway
func (g *WebhookGateway) Send(ctx context.Context, msg Message) (string, error) {
	if g.URL == "" {
		return "", errors.New("webhook URL is not configured")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if msg.ID != "" {
		req.Header.Set("Idempotency-Key", msg.ID)
	}
	if len(g.secret) > 0 {
		token, err := g.bearer(msg.UserID)
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var response struct {
		MessageID string `json:"messageId"`
	}
	if len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, &response); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
	}
	if response.MessageID == "" {
		response.MessageID = msg.ID
	}
	return response.MessageID, nil
}

func (g *WebhookGateway) bearer(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "recyclepoints",
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign webhook token: %w", err)
	}
	return signed, nil
}
