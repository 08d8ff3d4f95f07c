// Package notifier provides the best-effort notification sinks invoked
// after successful webhook reconciliation.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/usecase"
)

const defaultSlackUsername = "fitcal-events"

// SlackNotifier relays event summaries to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	username   string
	client     *http.Client
	logger     *zap.Logger
}

func NewSlackNotifier(webhookURL, username string, logger *zap.Logger) *SlackNotifier {
	if username == "" {
		username = defaultSlackUsername
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		username:   username,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (s *SlackNotifier) Notify(ctx context.Context, n *usecase.Notification) error {
	if s.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"username": s.username,
		"text":     n.Summary,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	s.logger.Debug("Slack notification sent", zap.String("event_id", n.EventID))
	return nil
}
