package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
)

// Notification is a desktop-style alert for a chat message that arrived
// while the widget was closed.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers notifications. Delivery is best effort: callers never
// fail a chat operation because a notification could not be sent.
type Notifier interface {
	Notify(ctx context.Context, n *Notification)
}

// Ensure implementations satisfy Notifier
var (
	_ Notifier = (*WebhookNotifier)(nil)
	_ Notifier = (*NoopNotifier)(nil)
	_ Notifier = (*MockNotifier)(nil)
)

// WebhookNotifier posts notifications to a configured webhook.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewWebhookNotifier creates a webhook-backed notifier.
func NewWebhookNotifier(cfg config.NotificationConfig, logger *logging.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url: cfg.WebhookURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Notify posts the notification. Failures are logged and swallowed.
func (c *WebhookNotifier) Notify(ctx context.Context, n *Notification) {
	body, err := json.Marshal(n)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Notification delivery failed", logging.Fields{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		c.logger.Warn("Notification rejected", logging.Fields{
			"status": fmt.Sprintf("%d", resp.StatusCode),
		})
	}
}

// NoopNotifier drops every notification. Used when no webhook is
// configured or the feature flag is off.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (NoopNotifier) Notify(ctx context.Context, n *Notification) {}

// MockNotifier records notifications for testing.
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []*Notification
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Notifications: make([]*Notification, 0)}
}

func (m *MockNotifier) Notify(ctx context.Context, n *Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, n)
}

// ClipPreview shortens a message body for display in a notification.
func ClipPreview(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
