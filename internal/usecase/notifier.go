package usecase

import (
	"context"
	"encoding/json"
)

// Notification describes one best-effort announcement produced after an
// event has been reconciled. Recipient emails are resolved independently for
// each side; either may be empty when that party could not be resolved or
// the event type does not address them.
type Notification struct {
	EventID            string          `json:"event_id"`
	EventType          string          `json:"event_type"`
	ConnectedAccountID string          `json:"connected_account_id,omitempty"`
	Summary            string          `json:"summary"`
	ProviderEmail      string          `json:"provider_email,omitempty"`
	CustomerEmail      string          `json:"customer_email,omitempty"`
	Payload            json.RawMessage `json:"payload,omitempty"`
}

// Notifier delivers notifications on a side channel. Failures are the
// caller's to log and swallow: a notification must never fail webhook
// processing.
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}
